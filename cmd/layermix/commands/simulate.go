package commands

import (
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/milk9111/layeredaudio/backend/headless"
	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/system"
	"github.com/milk9111/layeredaudio/prefabs"
	"github.com/milk9111/layeredaudio/script"
	"github.com/milk9111/layeredaudio/sound"
	"github.com/spf13/cobra"
)

var (
	simCues     []string
	simDuration time.Duration
	simStep     time.Duration
	simEvery    time.Duration
	simSeed     uint64
	simPlain    bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a cue timeline and print the layer gains over time",
	Long: `Run a cue timeline on a simulated backend and print a table of
per-layer gains for both crossfade channels.

Each --cue is TIME=NAME, e.g. 2s=fight. Cues go through the cue script named
in audio.yaml, exactly as in the game. Without --cue a short default timeline
is played.

Examples:
  layermix simulate
  layermix simulate --cue 0s=explore --cue 1s=tension --cue 3s=fight --duration 6s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		timeline, err := parseTimeline(simCues)
		if err != nil {
			return err
		}
		if len(timeline) == 0 {
			timeline = defaultTimeline()
		}
		sim, err := newSimulation(newLogger(), simSeed)
		if err != nil {
			return err
		}
		samples := sim.run(timeline, simDuration, simStep, simEvery)
		if simPlain {
			writeSamples(cmd.OutOrStdout(), samples)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render("layermix simulate"))
		fmt.Fprintln(cmd.OutOrStdout(), renderSamples(samples))
		return nil
	},
}

func init() {
	simulateCmd.Flags().StringArrayVar(&simCues, "cue", nil, "TIME=NAME cue to raise (repeatable)")
	simulateCmd.Flags().DurationVar(&simDuration, "duration", 8*time.Second, "simulated time")
	simulateCmd.Flags().DurationVar(&simStep, "step", system.DefaultStep, "engine tick")
	simulateCmd.Flags().DurationVar(&simEvery, "every", 500*time.Millisecond, "sampling interval of the table")
	simulateCmd.Flags().Uint64Var(&simSeed, "seed", 1, "seed for effect variation")
	simulateCmd.Flags().BoolVar(&simPlain, "plain", false, "print tab separated values instead of a table")
	rootCmd.AddCommand(simulateCmd)
}

type timedCue struct {
	at   time.Duration
	name string
}

func parseTimeline(specs []string) ([]timedCue, error) {
	out := make([]timedCue, 0, len(specs))
	for _, s := range specs {
		at, name, ok := strings.Cut(s, "=")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("cue %q: want TIME=NAME", s)
		}
		d, err := time.ParseDuration(strings.TrimSpace(at))
		if err != nil {
			return nil, fmt.Errorf("cue %q: %w", s, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("cue %q: time must not be negative", s)
		}
		out = append(out, timedCue{at: d, name: strings.TrimSpace(name)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].at < out[j].at })
	return out, nil
}

func defaultTimeline() []timedCue {
	return []timedCue{
		{0, "explore"},
		{2500 * time.Millisecond, "tension"},
		{3500 * time.Millisecond, "tension"},
		{5 * time.Second, "fight"},
		{5500 * time.Millisecond, "hit"},
		{6500 * time.Millisecond, "silence"},
	}
}

type simulation struct {
	world   *ecs.World
	sched   *ecs.Scheduler
	engine  *sound.Engine
	backend *headless.Backend
}

func newSimulation(log *slog.Logger, seed uint64) (*simulation, error) {
	spec, err := prefabs.LoadAudioSpec()
	if err != nil {
		return nil, err
	}
	catalog := prefabs.NewCatalog(nil, rand.New(rand.NewPCG(seed, seed)), log)
	if err := catalog.Load(); err != nil {
		return nil, err
	}
	var rt *script.Runtime
	if spec.Script != "" {
		if rt, err = script.Load(spec.Script, log); err != nil {
			return nil, err
		}
	}

	backend := headless.New()
	engine := sound.NewEngine(backend, spec.Config(log))
	fades := system.MusicFades{Play: spec.Fade, Layer: spec.LayerFade, Stop: spec.StopFade}
	return &simulation{
		world:   ecs.NewWorld(),
		backend: backend,
		engine:  engine,
		sched: ecs.NewScheduler(
			system.NewCueSystem(rt, engine.Music(), catalog, log),
			system.NewMusicSystem(engine.Music(), catalog, fades, log),
			system.NewSoundSystem(engine.Effects(), backend, catalog, log),
		),
	}, nil
}

type sample struct {
	at      time.Duration
	cues    []string
	track   string
	level   int
	gains   [2][sound.MaxLayers]float64
	active  int
	voices  int
	playing int
}

// run advances the simulation in fixed steps. The driver is ticked here
// rather than by an audio system so the step follows the --step flag.
func (s *simulation) run(timeline []timedCue, duration, step, every time.Duration) []sample {
	if step <= 0 {
		step = system.DefaultStep
	}
	if every < step {
		every = step
	}

	var (
		samples []sample
		pending []string
		next    time.Duration
	)
	driver := s.engine.Driver()
	for driver.Elapsed() <= duration {
		now := driver.Elapsed()
		for len(timeline) > 0 && timeline[0].at <= now {
			system.RaiseCue(s.world, timeline[0].name)
			pending = append(pending, timeline[0].name)
			timeline = timeline[1:]
		}
		s.sched.Update(s.world)

		if now >= next {
			samples = append(samples, s.sample(now, pending))
			pending = nil
			next += every
		}
		s.engine.Tick(step)
	}
	return samples
}

func (s *simulation) sample(at time.Duration, cues []string) sample {
	music := s.engine.Music()
	out := sample{
		at:      at,
		cues:    cues,
		level:   music.LayerLevel(),
		voices:  s.engine.Effects().InUse(),
		playing: s.backend.Playing(),
	}
	if t := music.ActiveTrack(); t != nil {
		out.track = t.Name
	}
	a, b := music.Active(), music.Inactive()
	if a.Name() != "a" {
		a, b = b, a
		out.active = 1
	}
	for slot := range sound.MaxLayers {
		out.gains[0][slot] = a.Gain(slot)
		out.gains[1][slot] = b.Gain(slot)
	}
	return out
}

func renderSamples(samples []sample) string {
	headers := []string{"time", "cue", "track", "lvl", "a0", "a1", "a2", "b0", "b1", "b2", "sfx", "handles"}
	rows := make([][]string, 0, len(samples))
	for _, sm := range samples {
		row := []string{
			fmt.Sprintf("%5.2fs", sm.at.Seconds()),
			strings.Join(sm.cues, ","),
			sm.track,
			fmt.Sprint(sm.level),
		}
		for ch := range 2 {
			for slot := range sound.MaxLayers {
				row = append(row, fmt.Sprintf("%.2f", sm.gains[ch][slot]))
			}
		}
		row = append(row, fmt.Sprint(sm.voices), fmt.Sprint(sm.playing))
		rows = append(rows, row)
	}

	activeCols := func(row int) (int, int) {
		if samples[row].active == 0 {
			return 4, 6
		}
		return 7, 9
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(dimStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			style := lipgloss.NewStyle().Padding(0, 1)
			if row == table.HeaderRow {
				return style.Bold(true).Foreground(lipgloss.Color("#00ff9f"))
			}
			if lo, hi := activeCols(row); col >= lo && col <= hi {
				return style.Foreground(lipgloss.Color("#3fb950"))
			}
			return style
		}).
		Render()
}

// writeSamples prints samples as plain tab separated lines.
func writeSamples(w io.Writer, samples []sample) {
	for _, sm := range samples {
		fmt.Fprintf(w, "%.2f\t%s\t%d", sm.at.Seconds(), sm.track, sm.level)
		for ch := range 2 {
			for slot := range sound.MaxLayers {
				fmt.Fprintf(w, "\t%.2f", sm.gains[ch][slot])
			}
		}
		fmt.Fprintln(w)
	}
}
