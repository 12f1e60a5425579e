package ebitenaudio

import (
	"bytes"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/layeredaudio/sound"
)

// Handle wraps one ebiten player. Activating a handle replaces its player.
type Handle struct {
	backend *Backend
	id      int
	player  *audio.Player
	params  sound.PlayParams
	gain    float64
	length  time.Duration
	loop    bool
}

func (h *Handle) ID() int {
	return h.id
}

func (h *Handle) Activate(p sound.PlayParams) {
	h.release()
	h.params = p
	h.loop = p.Loop
	if p.Clip == nil {
		return
	}

	pcm, err := h.backend.decode(p.Clip)
	if err != nil {
		h.backend.log.Warn("ebitenaudio: activate failed", "handle", h.id, "err", err)
		return
	}
	h.length = pcmDuration(len(pcm), h.backend.ctx.SampleRate())

	if p.Loop {
		loop := audio.NewInfiniteLoop(bytes.NewReader(pcm), int64(len(pcm)))
		player, err := h.backend.ctx.NewPlayer(loop)
		if err != nil {
			h.backend.log.Warn("ebitenaudio: new player failed", "handle", h.id, "err", err)
			return
		}
		h.player = player
	} else {
		h.player = h.backend.ctx.NewPlayerFromBytes(pcm)
	}

	h.applyVolume()
	h.player.Play()
}

func (h *Handle) SetGain(v float64) {
	h.gain = v
	h.applyVolume()
}

// SetLoop records the loop flag. A playing player keeps the stream it was
// started with; the flag applies from the next Activate.
func (h *Handle) SetLoop(loop bool) {
	h.loop = loop
}

func (h *Handle) Stop() {
	if h.player == nil {
		return
	}
	h.player.Pause()
	if err := h.player.Rewind(); err != nil {
		h.backend.log.Debug("ebitenaudio: rewind failed", "handle", h.id, "err", err)
	}
}

func (h *Handle) IsPlaying() bool {
	return h.player != nil && h.player.IsPlaying()
}

func (h *Handle) Remaining() time.Duration {
	if h.player == nil || h.length <= 0 {
		return 0
	}
	pos := h.player.Position()
	if h.params.Loop {
		pos %= h.length
	}
	return max(h.length-pos, 0)
}

func (h *Handle) applyVolume() {
	if h.player == nil {
		return
	}
	h.player.SetVolume(h.params.Volume * h.gain * attenuation(h.params, h.backend.listener))
}

func (h *Handle) release() {
	if h.player == nil {
		return
	}
	h.player.Pause()
	if err := h.player.Close(); err != nil {
		h.backend.log.Debug("ebitenaudio: close failed", "handle", h.id, "err", err)
	}
	h.player = nil
}
