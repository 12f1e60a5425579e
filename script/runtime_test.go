package script

import (
	"io"
	"log/slog"
	"slices"
	"testing"

	"github.com/jakecoffman/cp"
)

type recorder struct {
	calls []string
	track string
	level int
	pos   cp.Vector
}

func (r *recorder) PlayMusic(track string) bool {
	r.calls = append(r.calls, "play_music:"+track)
	r.track = track
	return track != ""
}

func (r *recorder) StopMusic() { r.calls = append(r.calls, "stop_music") }

func (r *recorder) SetLayer(level int) {
	r.calls = append(r.calls, "set_layer")
	r.level = level
}

func (r *recorder) StepLayer(delta int) {
	if delta > 0 {
		r.calls = append(r.calls, "layer_up")
	} else {
		r.calls = append(r.calls, "layer_down")
	}
	r.level += delta
}

func (r *recorder) SetVolume(float64) { r.calls = append(r.calls, "set_volume") }

func (r *recorder) PlaySFX(effect string, pos cp.Vector) bool {
	r.calls = append(r.calls, "play_sfx:"+effect)
	r.pos = pos
	return true
}

func (r *recorder) Track() string { return r.track }
func (r *recorder) Level() int    { return r.level }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const testScript = `
on_cue := func(engine, cue) {
	if cue == "start" {
		engine.play_music("calm")
		engine.set_layer(2)
	} else if cue == "boom" {
		engine.play_sfx("hit", 10, -4.5)
	} else if cue == "step" {
		if engine.level() < 2 {
			engine.layer_up()
		} else {
			engine.layer_down()
		}
	} else if cue == "swap" {
		if engine.track() == "calm" {
			engine.play_music("battle")
		}
	} else if cue == "end" {
		engine.set_volume(0)
		engine.stop_music()
	}
}
`

func TestRuntimeFire(t *testing.T) {
	cases := []struct {
		name  string
		cues  []string
		calls []string
	}{
		{"start", []string{"start"}, []string{"play_music:calm", "set_layer"}},
		{"unknown_cue_is_ignored", []string{"nothing"}, nil},
		{"step_reads_level", []string{"start", "step"}, []string{"play_music:calm", "set_layer", "layer_down"}},
		{"step_up_from_zero", []string{"step"}, []string{"layer_up"}},
		{"swap_reads_track", []string{"swap", "start", "swap"}, []string{"play_music:calm", "set_layer", "play_music:battle"}},
		{"end", []string{"end"}, []string{"set_volume", "stop_music"}},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rt, err := Compile("test.tengo", []byte(testScript), quietLogger())
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			rec := &recorder{}
			for _, cue := range c.cues {
				if err := rt.Fire(cue, rec); err != nil {
					t.Fatalf("fire %q: %v", cue, err)
				}
			}
			if !slices.Equal(rec.calls, c.calls) {
				t.Fatalf("calls = %v, want %v", rec.calls, c.calls)
			}
		})
	}
}

func TestRuntimeSFXPosition(t *testing.T) {
	rt, err := Compile("test.tengo", []byte(testScript), quietLogger())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	rec := &recorder{}
	if err := rt.Fire("boom", rec); err != nil {
		t.Fatalf("fire: %v", err)
	}
	if rec.pos != (cp.Vector{X: 10, Y: -4.5}) {
		t.Fatalf("position = %v", rec.pos)
	}
}

func TestRuntimeErrors(t *testing.T) {
	if _, err := Compile("bad.tengo", []byte("on_cue := func(engine, cue) {"), quietLogger()); err == nil {
		t.Fatalf("expected a compile error")
	}
	if _, err := Compile("missing.tengo", []byte("x := 1"), quietLogger()); err == nil {
		t.Fatalf("expected an error when on_cue is not defined")
	}

	rt, err := Compile("panic.tengo", []byte(`on_cue := func(engine, cue) { x := [1][5] + 1 }`), quietLogger())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := rt.Fire("any", &recorder{}); err == nil {
		t.Fatalf("expected a runtime error")
	}

	if err := rt.Fire("  ", &recorder{}); err != nil {
		t.Fatalf("blank cue should be ignored, got %v", err)
	}
}

func TestEmbeddedCueScript(t *testing.T) {
	rt, err := Load("cues.tengo", quietLogger())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	rec := &recorder{}
	for _, cue := range []string{"explore", "tension", "fight", "hit", "silence", "whatever"} {
		if err := rt.Fire(cue, rec); err != nil {
			t.Fatalf("fire %q: %v", cue, err)
		}
	}
	want := []string{"play_music:calm", "set_layer", "layer_up", "play_music:battle", "set_layer", "play_sfx:hit", "stop_music"}
	if !slices.Equal(rec.calls, want) {
		t.Fatalf("calls = %v, want %v", rec.calls, want)
	}
}
