package sound

import (
	"testing"
	"time"

	"github.com/jakecoffman/cp"
)

func newTestPool(size, ceiling int) (*Pool, *fakeBackend) {
	b := &fakeBackend{}
	return NewPool(b, Config{PoolSize: size, MaxVoices: ceiling, Logger: quietLogger()}), b
}

func testOneShot(length time.Duration) OneShot {
	return OneShot{
		Clip:           testClip("blip", length),
		Route:          "sfx",
		Priority:       128,
		Volume:         0.8,
		Pitch:          1,
		AttenuationMin: 1,
		AttenuationMax: 500,
	}
}

func TestPoolPrewarm(t *testing.T) {
	p, b := newTestPool(DefaultPoolSize, 0)
	if p.Len() != 5 || p.Available() != 5 || len(b.handles) != 5 {
		t.Fatalf("expected 5 pre-allocated voices, got len=%d available=%d", p.Len(), p.Available())
	}
}

func TestPoolGetAllocatesOnEmpty(t *testing.T) {
	p, _ := newTestPool(0, 0)
	l := p.Get()
	if p.Len() != 1 || p.InUse() != 1 || p.Available() != 0 {
		t.Fatalf("expected exactly one new voice, got len=%d inUse=%d", p.Len(), p.InUse())
	}
	if !l.Valid() || !l.Voice().Active() {
		t.Fatalf("fresh lease should be valid and active")
	}
}

func TestPoolReturnThenGetReuses(t *testing.T) {
	p, _ := newTestPool(0, 0)
	first := p.Get()
	if !p.Return(first) {
		t.Fatalf("return should succeed")
	}
	if first.Handle().(*fakeHandle).stops != 1 {
		t.Fatalf("return should stop the handle")
	}

	second := p.Get()
	if second.Voice() != first.Voice() {
		t.Fatalf("expected the returned voice to be reused")
	}
	if p.Len() != 1 {
		t.Fatalf("reuse must not allocate, len=%d", p.Len())
	}
}

func TestPoolFIFO(t *testing.T) {
	p, _ := newTestPool(0, 0)
	a, b := p.Get(), p.Get()
	p.Return(b)
	p.Return(a)
	if p.Get().Voice() != b.Voice() || p.Get().Voice() != a.Voice() {
		t.Fatalf("available voices should come back in return order")
	}
}

func TestPoolDoubleReturnGuard(t *testing.T) {
	t.Run("explicit_twice", func(t *testing.T) {
		p, _ := newTestPool(0, 0)
		l := p.Get()
		if !p.Return(l) || p.Return(l) {
			t.Fatalf("only the first return should be accepted")
		}
		if p.Available() != 1 {
			t.Fatalf("voice enqueued %d times", p.Available())
		}
	})

	t.Run("explicit_then_deadline", func(t *testing.T) {
		p, _ := newTestPool(0, 0)
		l, ok := p.PlayOneShot(testOneShot(time.Second), cp.Vector{})
		if !ok {
			t.Fatalf("play failed")
		}
		p.Return(l)
		p.Tick(2 * time.Second)
		if p.Available() != 1 || p.InUse() != 0 {
			t.Fatalf("available=%d inUse=%d", p.Available(), p.InUse())
		}
	})

	t.Run("stale_lease_after_reuse", func(t *testing.T) {
		p, _ := newTestPool(0, 0)
		old := p.Get()
		p.Return(old)
		current := p.Get()
		if p.Return(old) {
			t.Fatalf("stale lease must not return the re-leased voice")
		}
		if !current.Valid() || p.InUse() != 1 {
			t.Fatalf("current lease should be untouched")
		}
	})
}

func TestPoolAutoReturn(t *testing.T) {
	p, _ := newTestPool(0, 0)
	l, ok := p.PlayOneShot(testOneShot(2*time.Second), cp.Vector{X: 3, Y: 4})
	if !ok {
		t.Fatalf("play failed")
	}
	h := l.Handle().(*fakeHandle)
	if !h.playing || h.loop || h.params.Position != (cp.Vector{X: 3, Y: 4}) {
		t.Fatalf("handle not activated as a one-shot: %+v", h.params)
	}
	h.loop = true

	p.Tick(time.Second)
	if !l.Valid() || p.InUse() != 1 {
		t.Fatalf("voice returned before its clip ended")
	}

	p.Tick(time.Second)
	if l.Valid() || p.InUse() != 0 || p.Available() != 1 {
		t.Fatalf("voice should be auto-returned, inUse=%d available=%d", p.InUse(), p.Available())
	}
	if h.playing || h.loop {
		t.Fatalf("auto-return should stop playback and clear loop")
	}
}

func TestPoolPlayWithoutClip(t *testing.T) {
	p, _ := newTestPool(0, 0)
	if _, ok := p.PlayOneShot(OneShot{Volume: 1}, cp.Vector{}); ok {
		t.Fatalf("missing clip should not play")
	}
	if _, ok := p.Play(PlayParams{}); ok {
		t.Fatalf("missing clip should not play")
	}
	if p.Len() != 0 {
		t.Fatalf("no voice should be allocated, len=%d", p.Len())
	}
}

func TestPoolCeilingSteals(t *testing.T) {
	p, _ := newTestPool(0, 2)
	long, _ := p.PlayOneShot(testOneShot(5*time.Second), cp.Vector{})
	short, _ := p.PlayOneShot(testOneShot(3*time.Second), cp.Vector{})

	stolen := p.Get()
	if p.Len() != 2 {
		t.Fatalf("ceiling exceeded, len=%d", p.Len())
	}
	if stolen.Voice() != short.Voice() {
		t.Fatalf("expected the voice nearest its deadline to be stolen")
	}
	if short.Valid() || !long.Valid() || !stolen.Valid() {
		t.Fatalf("lease validity: short=%v long=%v stolen=%v", short.Valid(), long.Valid(), stolen.Valid())
	}
	if p.Return(short) {
		t.Fatalf("stolen lease must not return the voice")
	}

	p.Tick(4 * time.Second)
	if !stolen.Valid() {
		t.Fatalf("old deadline must not reclaim the stolen voice")
	}
}

func TestPlayParamsClamped(t *testing.T) {
	got := OneShot{
		Clip:           testClip("x", time.Second),
		Priority:       400,
		Volume:         1.5,
		Pitch:          3,
		StereoPan:      -2,
		SpatialBlend:   -1,
		AttenuationMin: -4,
		AttenuationMax: -8,
	}.Params(cp.Vector{})

	want := PlayParams{Clip: got.Clip, Priority: 128, Volume: 1, Pitch: 2, Pan: -1}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestPlayLoop(t *testing.T) {
	b := &fakeBackend{}
	h := b.NewHandle().(*fakeHandle)

	if PlayLoop(h, OneShot{}, cp.Vector{}) {
		t.Fatalf("loop without a clip should not play")
	}
	if !PlayLoop(h, testOneShot(time.Second), cp.Vector{}) || !h.loop || !h.playing {
		t.Fatalf("loop should be playing")
	}
	StopLoop(h)
	if h.loop || h.playing {
		t.Fatalf("loop should be stopped")
	}
}
