package system

import (
	"log/slog"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/component"
	"github.com/milk9111/layeredaudio/script"
	"github.com/milk9111/layeredaudio/sound"
)

// CueSystem hands raised cues to the cue script. Commands the script issues
// become requests for the music and sound systems later in the same frame.
type CueSystem struct {
	runtime *script.Runtime
	music   *sound.Crossfader
	tracks  TrackSource
	log     *slog.Logger
}

func NewCueSystem(runtime *script.Runtime, music *sound.Crossfader, tracks TrackSource, log *slog.Logger) *CueSystem {
	if log == nil {
		log = slog.Default()
	}
	return &CueSystem{runtime: runtime, music: music, tracks: tracks, log: log}
}

// SetRuntime swaps in a reloaded script.
func (c *CueSystem) SetRuntime(rt *script.Runtime) {
	c.runtime = rt
}

func RaiseCue(w *ecs.World, name string) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.CueComponent.Kind(), &component.Cue{Name: name})
}

func (c *CueSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	for _, cue := range ecs.Drain(w, component.CueComponent.Kind()) {
		name := strings.TrimSpace(cue.Name)
		if name == "" {
			continue
		}
		if c.runtime == nil {
			c.log.Debug("cue: no script loaded", "cue", name)
			continue
		}
		if err := c.runtime.Fire(name, &worldCommands{w: w, music: c.music, tracks: c.tracks}); err != nil {
			c.log.Error("cue: script failed", "cue", name, "err", err)
			continue
		}
		w.Events().Push(ecs.Event{Type: ecs.EventCue, Data: name})
	}
}

// worldCommands queues script commands as request entities. Track and Level
// report the state at the start of the frame.
type worldCommands struct {
	w      *ecs.World
	music  *sound.Crossfader
	tracks TrackSource
}

func (c *worldCommands) PlayMusic(track string) bool {
	if c.tracks != nil {
		if _, ok := c.tracks.Track(track); !ok {
			return false
		}
	}
	RequestMusic(c.w, track)
	return true
}

func (c *worldCommands) StopMusic() {
	StopMusic(c.w)
}

func (c *worldCommands) SetLayer(level int) {
	RequestLayer(c.w, level)
}

func (c *worldCommands) StepLayer(delta int) {
	StepLayer(c.w, delta)
}

func (c *worldCommands) SetVolume(volume float64) {
	RequestVolume(c.w, volume)
}

func (c *worldCommands) PlaySFX(effect string, pos cp.Vector) bool {
	RequestSound(c.w, effect, pos)
	return true
}

func (c *worldCommands) Track() string {
	if c.music == nil || c.music.ActiveTrack() == nil {
		return ""
	}
	return c.music.ActiveTrack().Name
}

func (c *worldCommands) Level() int {
	if c.music == nil {
		return 0
	}
	return c.music.LayerLevel()
}
