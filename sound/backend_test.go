package sound

import (
	"io"
	"log/slog"
	"math"
	"time"
)

type fakeHandle struct {
	id          int
	gain        float64
	loop        bool
	playing     bool
	params      PlayParams
	activations int
	stops       int
}

func (h *fakeHandle) Activate(p PlayParams) {
	h.params = p
	h.loop = p.Loop
	h.playing = true
	h.activations++
}

func (h *fakeHandle) SetGain(v float64) { h.gain = v }

func (h *fakeHandle) SetLoop(loop bool) { h.loop = loop }

func (h *fakeHandle) Stop() {
	h.playing = false
	h.stops++
}

func (h *fakeHandle) IsPlaying() bool { return h.playing }

func (h *fakeHandle) Remaining() time.Duration {
	if !h.playing || h.params.Clip == nil {
		return 0
	}
	return h.params.Clip.Length
}

type fakeBackend struct {
	handles []*fakeHandle
}

func (b *fakeBackend) NewHandle() Handle {
	h := &fakeHandle{id: len(b.handles) + 1}
	b.handles = append(b.handles, h)
	return h
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig(volume float64) Config {
	return Config{Volume: volume, Logger: quietLogger()}
}

func testClip(name string, length time.Duration) *Clip {
	return &Clip{Name: name, Format: "wav", Length: length}
}

func testTrack(name string, blend BlendMode, layers int) *Track {
	t := &Track{Name: name, Blend: blend, Route: "music"}
	for i := range layers {
		t.Layers = append(t.Layers, testClip(name+"-layer"+string(rune('0'+i)), 30*time.Second))
	}
	return t
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func tickN(t Ticker, n int, dt time.Duration) {
	for range n {
		t.Tick(dt)
	}
}
