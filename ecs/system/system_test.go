package system

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/backend/headless"
	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/component"
	"github.com/milk9111/layeredaudio/script"
	"github.com/milk9111/layeredaudio/sound"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type trackMap map[string]*sound.Track

func (m trackMap) Track(name string) (*sound.Track, bool) {
	t, ok := m[name]
	return t, ok
}

type effectMap map[string]sound.OneShot

func (m effectMap) OneShot(name string) (sound.OneShot, bool) {
	e, ok := m[name]
	return e, ok
}

func (m effectMap) PlayEffect(pool *sound.Pool, name string, pos cp.Vector) (sound.Lease, bool) {
	e, ok := m[name]
	if !ok {
		return sound.Lease{}, false
	}
	return pool.PlayOneShot(e, pos)
}

func newTrack(name string, blend sound.BlendMode, layers int) *sound.Track {
	t := &sound.Track{Name: name, Blend: blend}
	for i := range layers {
		t.Layers = append(t.Layers, &sound.Clip{Name: name + string(rune('0'+i)), Length: 10 * time.Second})
	}
	return t
}

type rig struct {
	world   *ecs.World
	backend *headless.Backend
	engine  *sound.Engine
	tracks  trackMap
	sched   *ecs.Scheduler
	events  []ecs.Event
}

// recordEvents sits last in the schedule and keeps the frame's events.
type recordEvents struct{ r *rig }

func (s recordEvents) Update(w *ecs.World) {
	s.r.events = append(s.r.events, w.Events().Peek()...)
}

func newRig(t *testing.T, cueSrc string) *rig {
	t.Helper()
	r := &rig{
		world:   ecs.NewWorld(),
		backend: headless.New(),
		tracks: trackMap{
			"calm":   newTrack("calm", sound.Additive, 3),
			"battle": newTrack("battle", sound.Single, 2),
		},
	}
	cfg := sound.DefaultConfig()
	cfg.Logger = quietLogger()
	r.engine = sound.NewEngine(r.backend, cfg)

	effects := effectMap{
		"hit":  {Clip: &sound.Clip{Name: "hit", Length: 100 * time.Millisecond}, Volume: 1, Pitch: 1},
		"hum":  {Clip: &sound.Clip{Name: "hum", Length: time.Second}, Volume: 0.5, Pitch: 1},
		"mute": {},
	}
	fades := MusicFades{Play: 100 * time.Millisecond, Layer: 50 * time.Millisecond, Stop: 100 * time.Millisecond}

	var rt *script.Runtime
	if cueSrc != "" {
		var err error
		rt, err = script.Compile("test.tengo", []byte(cueSrc), quietLogger())
		if err != nil {
			t.Fatalf("compile: %v", err)
		}
	}

	r.sched = ecs.NewScheduler(
		NewCueSystem(rt, r.engine.Music(), r.tracks, quietLogger()),
		NewMusicSystem(r.engine.Music(), r.tracks, fades, quietLogger()),
		NewSoundSystem(r.engine.Effects(), r.backend, effects, quietLogger()),
		NewAudioSystem(r.engine, 10*time.Millisecond),
		recordEvents{r},
	)
	return r
}

func (r *rig) frames(n int) {
	for range n {
		r.sched.Update(r.world)
	}
}

func (r *rig) eventTypes() []string {
	var out []string
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func TestMusicSystemPlayAndLayer(t *testing.T) {
	r := newRig(t, "")
	music := r.engine.Music()

	RequestMusic(r.world, "calm")
	RequestLayer(r.world, 1)
	r.frames(20)

	if music.ActiveTrack() != r.tracks["calm"] {
		t.Fatalf("calm should be active")
	}
	ch := music.Active()
	if ch.Gain(0) != sound.DefaultVolume || ch.Gain(1) != sound.DefaultVolume || ch.Gain(2) != 0 {
		t.Fatalf("unexpected gains %v %v %v", ch.Gain(0), ch.Gain(1), ch.Gain(2))
	}

	StepLayer(r.world, 1)
	StepLayer(r.world, 1)
	r.frames(10)
	if music.LayerLevel() != 2 {
		t.Fatalf("level = %d, want 2 (clamped)", music.LayerLevel())
	}

	StepLayer(r.world, -1)
	r.frames(10)
	if music.LayerLevel() != 1 || ch.Gain(2) != 0 {
		t.Fatalf("level down should silence the top layer, level=%d gain=%v", music.LayerLevel(), ch.Gain(2))
	}

	if len(ecs.Entities(r.world)) != 0 {
		t.Fatalf("request entities should be consumed")
	}
}

func TestMusicSystemLatestRequestWins(t *testing.T) {
	r := newRig(t, "")
	RequestMusic(r.world, "calm")
	RequestMusic(r.world, "battle")
	r.frames(1)

	if r.engine.Music().ActiveTrack() != r.tracks["battle"] {
		t.Fatalf("the last request of a frame should win")
	}
	if r.engine.Music().Inactive().Track() != nil {
		t.Fatalf("calm should never have started")
	}
}

func TestMusicSystemUnknownTrackAndStop(t *testing.T) {
	r := newRig(t, "")
	RequestMusic(r.world, "nope")
	StopMusic(r.world)
	r.frames(1)
	if r.engine.Music().ActiveTrack() != nil || len(r.events) != 0 {
		t.Fatalf("unknown track and stop without music should do nothing")
	}

	RequestMusic(r.world, "calm")
	r.frames(1)
	RequestMusic(r.world, "nope")
	r.frames(1)
	if r.engine.Music().ActiveTrack() != r.tracks["calm"] {
		t.Fatalf("an unknown track should not interrupt the current one")
	}

	RequestMusicWithOptions(r.world, &component.MusicRequest{Immediate: true})
	r.frames(1)
	if r.engine.Music().ActiveTrack() != nil || r.engine.Music().Active().State() != sound.Idle {
		t.Fatalf("immediate stop should leave the channel idle")
	}

	want := []string{ecs.EventTrackChanged, ecs.EventMusicStopped}
	got := r.eventTypes()
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("events = %v, want %v", got, want)
	}
}

func TestMusicSystemVolume(t *testing.T) {
	r := newRig(t, "")
	RequestMusic(r.world, "calm")
	r.frames(20)

	RequestVolume(r.world, 0.2)
	r.frames(10)
	if got := r.engine.Music().Active().Gain(0); got != 0.2 {
		t.Fatalf("gain = %v, want 0.2", got)
	}
}

func TestSoundSystemOneShots(t *testing.T) {
	r := newRig(t, "")
	RequestSound(r.world, "hit", cp.Vector{X: 3})
	RequestSound(r.world, "missing", cp.Vector{})
	RequestSound(r.world, "mute", cp.Vector{})
	r.frames(1)

	if r.engine.Effects().InUse() != 1 {
		t.Fatalf("in use = %d, want 1", r.engine.Effects().InUse())
	}
	r.frames(15)
	if r.engine.Effects().InUse() != 0 {
		t.Fatalf("the hit should have been reclaimed")
	}
	if got := r.eventTypes(); len(got) != 1 || got[0] != ecs.EventEffectPlayed {
		t.Fatalf("events = %v", got)
	}
}

func TestSoundSystemEmitter(t *testing.T) {
	r := newRig(t, "")
	ent := ecs.CreateEntity(r.world)
	emitter := &component.SoundEmitter{Effect: "hum", Active: true}
	if err := ecs.Add(r.world, ent, component.SoundEmitterComponent.Kind(), emitter); err != nil {
		t.Fatalf("add: %v", err)
	}

	r.frames(200)
	if !emitter.Playing || emitter.Handle == nil || !emitter.Handle.IsPlaying() {
		t.Fatalf("looping emitter should keep playing past its clip length")
	}
	if r.engine.Effects().InUse() != 0 {
		t.Fatalf("emitters must not borrow pool voices")
	}

	emitter.Active = false
	r.frames(1)
	if emitter.Playing || emitter.Handle.IsPlaying() {
		t.Fatalf("inactive emitter should stop")
	}

	emitter.Active = true
	r.frames(1)
	h := emitter.Handle
	if !RemoveEmitter(r.world, ent) || h.IsPlaying() {
		t.Fatalf("removing an emitter should silence it")
	}

	bad := ecs.CreateEntity(r.world)
	badEmitter := &component.SoundEmitter{Effect: "unknown", Active: true}
	_ = ecs.Add(r.world, bad, component.SoundEmitterComponent.Kind(), badEmitter)
	r.frames(1)
	if badEmitter.Active || badEmitter.Playing {
		t.Fatalf("unknown emitter effect should deactivate")
	}
}

const cueScript = `
on_cue := func(engine, cue) {
	if cue == "fight" {
		engine.play_music("battle")
		engine.set_layer(1)
		engine.play_sfx("hit")
	} else if cue == "bogus" {
		engine.play_music("nothing")
	} else if cue == "broken" {
		x := [1][3]
	}
}
`

func TestCueSystem(t *testing.T) {
	r := newRig(t, cueScript)
	RaiseCue(r.world, "fight")
	r.frames(1)

	music := r.engine.Music()
	if music.ActiveTrack() != r.tracks["battle"] || music.LayerLevel() != 1 {
		t.Fatalf("cue should start battle at level 1, track=%v level=%d", music.ActiveTrack(), music.LayerLevel())
	}
	if r.engine.Effects().InUse() != 1 {
		t.Fatalf("cue should have played the hit")
	}

	r.events = nil
	RaiseCue(r.world, "bogus")
	RaiseCue(r.world, "broken")
	RaiseCue(r.world, "  ")
	r.frames(1)
	if music.ActiveTrack() != r.tracks["battle"] {
		t.Fatalf("unknown track from a script should be ignored")
	}
	if got := r.eventTypes(); len(got) != 1 || got[0] != ecs.EventCue {
		t.Fatalf("only the handled cue should be reported, got %v", got)
	}
}

func TestCueSystemWithoutScript(t *testing.T) {
	r := newRig(t, "")
	RaiseCue(r.world, "fight")
	r.frames(1)
	if r.engine.Music().ActiveTrack() != nil || len(ecs.Entities(r.world)) != 0 {
		t.Fatalf("cues without a script should be dropped")
	}
}
