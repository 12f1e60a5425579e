package commands

import (
	"io"
	"log/slog"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/milk9111/layeredaudio/prefabs"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	prefabDir string
)

var rootCmd = &cobra.Command{
	Use:   "layermix",
	Short: "Simulate and validate layered music and sound effects",
	Long: `layermix runs the audio engine against a simulated backend.

Definitions are read from the prefab directory (audio.yaml, music.yaml,
sfx.yaml and scripts/). Files missing there fall back to the copies built
into the binary.

Examples:
  layermix check
  layermix simulate --cue 0s=explore --cue 2s=tension --cue 4s=fight
  layermix --prefabs ./prefabs simulate --duration 12s --every 250ms`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		prefabs.Dir = prefabDir
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log engine activity to stderr")
	rootCmd.PersistentFlags().StringVar(&prefabDir, "prefabs", prefabs.Dir, "prefab directory")
}

func newLogger() *slog.Logger {
	if !verbose {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3fb950"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#f85149"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)
