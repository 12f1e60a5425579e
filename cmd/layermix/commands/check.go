package commands

import (
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/milk9111/layeredaudio/prefabs"
	"github.com/milk9111/layeredaudio/script"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the audio prefabs and cue script",
	Long: `Load audio.yaml, music.yaml, sfx.yaml and the cue script, decode every
referenced clip and report what was found. Exits non-zero on the first
definition that fails to load.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runCheck(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(w io.Writer) error {
	log := newLogger()
	fmt.Fprintln(w, titleStyle.Render("layermix check"))

	spec, err := prefabs.LoadAudioSpec()
	if err != nil {
		fmt.Fprintln(w, errStyle.Render("✗ audio.yaml"), err)
		return err
	}
	fmt.Fprintln(w, okStyle.Render("✓ audio.yaml"), dimStyle.Render(fmt.Sprintf(
		"volume %.2f, pool %d, max voices %d, fades %v/%v/%v",
		spec.Volume, spec.PoolSize, spec.MaxVoices, spec.Fade, spec.LayerFade, spec.StopFade)))

	catalog := prefabs.NewCatalog(nil, rand.New(rand.NewPCG(1, 1)), log)
	if err := catalog.Load(); err != nil {
		fmt.Fprintln(w, errStyle.Render("✗ music.yaml / sfx.yaml"), err)
		return err
	}
	for _, name := range catalog.TrackNames() {
		track, _ := catalog.Track(name)
		fmt.Fprintln(w, okStyle.Render("✓ track "+name), dimStyle.Render(fmt.Sprintf(
			"%s, %d layers", track.Blend, track.LayerCount())))
	}
	for _, name := range catalog.EffectNames() {
		effect, _ := catalog.Effect(name)
		fmt.Fprintln(w, okStyle.Render("✓ effect "+name), dimStyle.Render(fmt.Sprintf(
			"%d clips, loop %v", len(effect.Clips), effect.Spec.Loop)))
	}

	if spec.Script == "" {
		fmt.Fprintln(w, dimStyle.Render("- no cue script"))
		return nil
	}
	if _, err := script.Load(spec.Script, log); err != nil {
		fmt.Fprintln(w, errStyle.Render("✗ script "+spec.Script), err)
		return err
	}
	fmt.Fprintln(w, okStyle.Render("✓ script "+spec.Script))
	return nil
}
