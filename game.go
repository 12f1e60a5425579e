package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/backend/ebitenaudio"
	"github.com/milk9111/layeredaudio/common"
	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/component"
	"github.com/milk9111/layeredaudio/ecs/system"
	"github.com/milk9111/layeredaudio/prefabs"
	"github.com/milk9111/layeredaudio/script"
	"github.com/milk9111/layeredaudio/sound"
	"golang.org/x/image/colornames"
	"golang.org/x/image/font/basicfont"
)

// cueKeys maps keys to the cues the demo raises.
var cueKeys = []struct {
	key ebiten.Key
	cue string
}{
	{ebiten.Key1, "explore"},
	{ebiten.Key2, "fight"},
	{ebiten.KeyArrowUp, "tension"},
	{ebiten.KeyArrowDown, "relax"},
	{ebiten.KeyQ, "quiet"},
	{ebiten.KeyL, "loud"},
	{ebiten.KeyS, "silence"},
	{ebiten.KeyB, "blip"},
}

type Game struct {
	log     *slog.Logger
	backend *ebitenaudio.Backend
	engine  *sound.Engine
	catalog *prefabs.Catalog
	world   *ecs.World
	sched   *ecs.Scheduler
	cues    *system.CueSystem
	watcher *prefabs.Watcher
	hum     ecs.Entity
	face    ebtext.Face
	panel   *cuePanel

	lastCue string
	status  string
}

func NewGame(logger *slog.Logger, watch bool) (*Game, error) {
	spec, err := prefabs.LoadAudioSpec()
	if err != nil {
		return nil, err
	}
	catalog := prefabs.NewCatalog(nil, nil, logger)
	if err := catalog.Load(); err != nil {
		return nil, err
	}

	var rt *script.Runtime
	if spec.Script != "" {
		rt, err = script.Load(spec.Script, logger)
		if err != nil {
			return nil, err
		}
	}

	backend := ebitenaudio.New(logger)
	backend.SetListener(cp.Vector{X: common.BaseWidth / 2, Y: common.BaseHeight / 2})
	engine := sound.NewEngine(backend, spec.Config(logger))

	g := &Game{
		log:     logger,
		backend: backend,
		engine:  engine,
		catalog: catalog,
		world:   ecs.NewWorld(),
		face:    ebtext.NewGoXFace(basicfont.Face7x13),
	}
	g.cues = system.NewCueSystem(rt, engine.Music(), catalog, logger)
	fades := system.MusicFades{Play: spec.Fade, Layer: spec.LayerFade, Stop: spec.StopFade}
	g.sched = ecs.NewScheduler(
		g.cues,
		system.NewMusicSystem(engine.Music(), catalog, fades, logger),
		system.NewSoundSystem(engine.Effects(), backend, catalog, logger),
		system.NewAudioSystem(engine, 0),
		cueLabel{g},
	)
	g.panel = newCuePanel(g)

	g.hum = ecs.CreateEntity(g.world)
	emitter := &component.SoundEmitter{Effect: "hum", Position: cp.Vector{X: common.BaseWidth / 4, Y: common.BaseHeight / 2}}
	if err := ecs.Add(g.world, g.hum, component.SoundEmitterComponent.Kind(), emitter); err != nil {
		return nil, err
	}

	if watch {
		if info, err := os.Stat(prefabs.Dir); err == nil && info.IsDir() {
			dirs := []string{prefabs.Dir}
			if scripts := filepath.Join(prefabs.Dir, "scripts"); dirExists(scripts) {
				dirs = append(dirs, scripts)
			}
			g.watcher, err = prefabs.NewWatcher(dirs...)
			if err != nil {
				return nil, fmt.Errorf("watch %s: %w", prefabs.Dir, err)
			}
		} else {
			logger.Warn("prefabs: nothing to watch", "dir", prefabs.Dir)
		}
	}

	system.RaiseCue(g.world, "explore")
	return g, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) Update() error {
	g.reload()

	for _, k := range cueKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			system.RaiseCue(g.world, k.cue)
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		if x, y := ebiten.CursorPosition(); !g.panel.contains(y) {
			system.RequestSound(g.world, "hit", cp.Vector{X: float64(x), Y: float64(y)})
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		if emitter, ok := ecs.Get(g.world, g.hum, component.SoundEmitterComponent.Kind()); ok {
			emitter.Active = !emitter.Active
		}
	}

	g.sched.Update(g.world)
	g.panel.refresh(g)
	g.panel.ui.Update()
	return nil
}

// cueLabel runs last so it sees the cues raised this frame before the
// scheduler drops them.
type cueLabel struct{ g *Game }

func (c cueLabel) Update(w *ecs.World) {
	for _, ev := range w.Events().Peek() {
		if ev.Type == ecs.EventCue {
			c.g.lastCue, _ = ev.Data.(string)
		}
	}
}

func (g *Game) reload() {
	if g.watcher == nil {
		return
	}
	paths, err := g.watcher.Poll()
	if err != nil {
		g.log.Warn("prefabs: watch error", "err", err)
	}
	for _, path := range paths {
		if strings.EqualFold(filepath.Ext(path), ".tengo") {
			rt, err := script.Load(path, g.log)
			if err != nil {
				g.status = err.Error()
				continue
			}
			g.cues.SetRuntime(rt)
			g.status = "reloaded " + filepath.Base(path)
			continue
		}
		handled, err := g.catalog.Reload(path)
		switch {
		case err != nil:
			g.status = err.Error()
		case handled:
			g.status = "reloaded " + filepath.Base(path)
		default:
			g.status = filepath.Base(path) + " changed; restart to apply"
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(colornames.Midnightblue)

	music := g.engine.Music()
	track := "-"
	if t := music.ActiveTrack(); t != nil {
		track = fmt.Sprintf("%s (%s)", t.Name, t.Blend)
	}
	g.label(screen, 16, 16, colornames.White, fmt.Sprintf("track %s   level %d   volume %.2f", track, music.LayerLevel(), music.Volume()))

	g.drawChannel(screen, 16, 48, music.Active(), true)
	g.drawChannel(screen, 16+common.BaseWidth/2, 48, music.Inactive(), false)

	vector.StrokeCircle(screen, common.BaseWidth/2, common.BaseHeight/2, 4, 1, colornames.Gold, true)
	g.panel.ui.Draw(screen)
}

func (g *Game) drawChannel(screen *ebiten.Image, x, y float32, ch *sound.Channel, active bool) {
	title := fmt.Sprintf("channel %s  %s", ch.Name(), ch.State())
	clr := color.Color(colornames.Lightgrey)
	if active {
		clr = colornames.Lightgreen
	}
	g.label(screen, float64(x), float64(y), clr, title)

	const barW, barH = 120, 18
	for slot := range sound.MaxLayers {
		by := y + 24 + float32(slot)*(barH+10)
		vector.StrokeRect(screen, x, by, barW, barH, 1, colornames.Darkgray, false)
		gain := float32(common.Clamp01(ch.Gain(slot)))
		fill := colornames.Steelblue
		if ch.Clip(slot) == nil {
			fill = colornames.Dimgray
		}
		vector.DrawFilledRect(screen, x+1, by+1, (barW-2)*gain, barH-2, fill, false)

		name := "empty"
		if clip := ch.Clip(slot); clip != nil {
			name = clip.Name
		}
		g.label(screen, float64(x+barW+8), float64(by+3), colornames.White, fmt.Sprintf("%d %-14s %.2f", slot, name, ch.Gain(slot)))
	}
}

func (g *Game) label(screen *ebiten.Image, x, y float64, clr color.Color, s string) {
	op := &ebtext.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	ebtext.Draw(screen, s, g.face, op)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return common.BaseWidth, common.BaseHeight
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
