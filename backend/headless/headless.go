// Package headless is a simulated audio backend. Handles keep a playback
// position that advances with Tick instead of rendering samples, which makes
// it suitable for the command-line simulator and for tests.
package headless

import (
	"time"

	"github.com/milk9111/layeredaudio/sound"
)

type Backend struct {
	handles []*Handle
}

func New() *Backend {
	return &Backend{}
}

func (b *Backend) NewHandle() sound.Handle {
	h := &Handle{id: len(b.handles) + 1}
	b.handles = append(b.handles, h)
	return h
}

// Handles returns every handle in allocation order.
func (b *Backend) Handles() []*Handle {
	return b.handles
}

// Playing counts the handles currently producing sound.
func (b *Backend) Playing() int {
	n := 0
	for _, h := range b.handles {
		if h.playing {
			n++
		}
	}
	return n
}

// Tick advances every playing handle by dt scaled by its pitch.
func (b *Backend) Tick(dt time.Duration) {
	for _, h := range b.handles {
		h.advance(dt)
	}
}

type Handle struct {
	id       int
	params   sound.PlayParams
	gain     float64
	loop     bool
	playing  bool
	position time.Duration
}

func (h *Handle) ID() int {
	return h.id
}

func (h *Handle) Params() sound.PlayParams {
	return h.params
}

func (h *Handle) Gain() float64 {
	return h.gain
}

// Level is the effective output level, volume times gain.
func (h *Handle) Level() float64 {
	if !h.playing {
		return 0
	}
	return h.params.Volume * h.gain
}

func (h *Handle) Position() time.Duration {
	return h.position
}

func (h *Handle) Looping() bool {
	return h.loop
}

func (h *Handle) Activate(p sound.PlayParams) {
	h.params = p
	h.loop = p.Loop
	h.position = 0
	h.playing = p.Clip != nil && p.Clip.Length > 0
}

func (h *Handle) SetGain(v float64) {
	h.gain = v
}

func (h *Handle) SetLoop(loop bool) {
	h.loop = loop
}

func (h *Handle) Stop() {
	h.playing = false
	h.position = 0
}

func (h *Handle) IsPlaying() bool {
	return h.playing
}

// Remaining is the wall time left until the clip ends at the current pitch.
func (h *Handle) Remaining() time.Duration {
	if !h.playing || h.params.Pitch <= 0 {
		return 0
	}
	left := h.params.Clip.Length - h.position
	return time.Duration(float64(left) / h.params.Pitch)
}

func (h *Handle) advance(dt time.Duration) {
	if !h.playing || dt <= 0 || h.params.Pitch <= 0 {
		return
	}
	h.position += time.Duration(float64(dt) * h.params.Pitch)

	length := h.params.Clip.Length
	if h.position < length {
		return
	}
	if h.loop {
		h.position %= length
		return
	}
	h.position = 0
	h.playing = false
}
