package sound

import (
	"log/slog"
	"time"

	"github.com/milk9111/layeredaudio/common"
)

// Crossfader owns two channels and swaps between them on every track change:
// the outgoing channel fades out while the incoming one fades in. It holds the
// master volume and the layer level; all timing is delegated to the channels.
type Crossfader struct {
	channels [2]*Channel
	active   int
	track    *Track
	mix      mixState
	log      *slog.Logger
}

func NewCrossfader(b Backend, cfg Config) *Crossfader {
	log := cfg.logger()
	x := &Crossfader{log: log}
	x.mix.volume = common.Clamp01(cfg.Volume)
	x.channels[0] = newChannel("a", b, &x.mix, log)
	x.channels[1] = newChannel("b", b, &x.mix, log)
	return x
}

func (x *Crossfader) Active() *Channel {
	return x.channels[x.active]
}

func (x *Crossfader) Inactive() *Channel {
	return x.channels[1-x.active]
}

func (x *Crossfader) ActiveTrack() *Track {
	return x.track
}

func (x *Crossfader) Volume() float64 {
	return x.mix.volume
}

func (x *Crossfader) LayerLevel() int {
	return x.mix.level
}

// Play fades out whatever is playing and fades track in on the other channel.
// Playing the track that is already active does nothing.
func (x *Crossfader) Play(track *Track, fade time.Duration) {
	if track == nil {
		x.log.Debug("music: play without a track")
		return
	}
	if track == x.track {
		return
	}
	if x.track != nil {
		x.Active().Stop(fade)
	}

	x.active = 1 - x.active
	x.track = track
	x.log.Debug("music: play", "track", track.Name, "channel", x.Active().Name())
	x.Active().Play(track, fade)
}

func (x *Crossfader) Stop(fade time.Duration) {
	if x.track == nil {
		return
	}
	x.track = nil
	x.Active().Stop(fade)
}

func (x *Crossfader) SetVolume(volume float64, fade time.Duration) {
	x.mix.volume = common.Clamp01(volume)
	x.refade(fade)
}

func (x *Crossfader) IncreaseLayerLevel(fade time.Duration) {
	x.SetLayerLevel(x.mix.level+1, fade)
}

func (x *Crossfader) DecreaseLayerLevel(fade time.Duration) {
	x.SetLayerLevel(x.mix.level-1, fade)
}

// SetLayerLevel clamps level to the layer range and, when it changes, refades
// the active channel so the per-layer targets follow the new level.
func (x *Crossfader) SetLayerLevel(level int, fade time.Duration) {
	level = common.Clamp(level, 0, MaxLayers-1)
	if level == x.mix.level {
		x.log.Debug("music: layer level unchanged", "level", level)
		return
	}
	x.mix.level = level
	x.refade(fade)
}

// refade moves the active channel to the current mix. With nothing playing
// the mix is only stored for the next Play.
func (x *Crossfader) refade(fade time.Duration) {
	if x.track == nil {
		return
	}
	x.Active().FadeVolume(x.mix.volume, fade)
}

// Tick advances both channels so an outgoing fade keeps running next to the
// incoming one.
func (x *Crossfader) Tick(dt time.Duration) {
	for _, c := range x.channels {
		c.Tick(dt)
	}
}
