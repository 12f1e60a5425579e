package sound

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
)

type recordingTicker struct {
	name  string
	order *[]string
	total time.Duration
}

func (r *recordingTicker) Tick(dt time.Duration) {
	*r.order = append(*r.order, r.name)
	r.total += dt
}

type tickingBackend struct {
	fakeBackend
	ticks int
}

func (b *tickingBackend) Tick(time.Duration) { b.ticks++ }

func TestDriverOrderAndClamp(t *testing.T) {
	var order []string
	first := &recordingTicker{name: "first", order: &order}
	second := &recordingTicker{name: "second", order: &order}
	d := NewDriver(first, nil, second)

	d.Tick(time.Second)
	d.Tick(-time.Second)

	if len(order) != 4 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("unexpected order %v", order)
	}
	if first.total != time.Second || d.Elapsed() != time.Second || d.Frames() != 2 {
		t.Fatalf("negative dt should clamp to zero: total=%v elapsed=%v", first.total, d.Elapsed())
	}
}

func TestEngineTicksEverything(t *testing.T) {
	b := &tickingBackend{}
	cfg := DefaultConfig()
	cfg.Logger = quietLogger()
	e := NewEngine(b, cfg)

	e.Music().Play(testTrack("a", Additive, 1), time.Second)
	l, ok := e.Effects().PlayOneShot(testOneShot(time.Second), cp.Vector{})
	if !ok {
		t.Fatalf("play failed")
	}

	e.Tick(time.Second)
	if b.ticks != 1 {
		t.Fatalf("backend should be ticked, got %d", b.ticks)
	}
	if !approx(e.Music().Active().Gain(0), DefaultVolume) {
		t.Fatalf("music should reach the default volume, got %v", e.Music().Active().Gain(0))
	}
	if l.Valid() || e.Effects().Now() != time.Second {
		t.Fatalf("one-shot should be reclaimed by the engine tick")
	}
}
