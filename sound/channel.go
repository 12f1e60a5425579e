package sound

import (
	"log/slog"
	"time"

	"github.com/milk9111/layeredaudio/common"
)

type ChannelState int

const (
	Idle ChannelState = iota
	Playing
	Stopping
)

func (s ChannelState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Playing:
		return "playing"
	case Stopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// mixState is the crossfade state shared by a Crossfader and its channels.
type mixState struct {
	volume float64
	level  int
}

type layerSlot struct {
	handle Handle
	gain   float64
	clip   *Clip
}

// Channel is one of the two alternating playback contexts of a Crossfader.
// It owns MaxLayers layer slots and at most one live fade job.
type Channel struct {
	name     string
	slots    [MaxLayers]layerSlot
	job      *fadeJob
	stopping bool
	track    *Track
	mix      *mixState
	log      *slog.Logger
}

func newChannel(name string, b Backend, mix *mixState, log *slog.Logger) *Channel {
	c := &Channel{name: name, mix: mix, log: log}
	for i := range c.slots {
		c.slots[i].handle = b.NewHandle()
	}
	return c
}

func (c *Channel) Name() string {
	return c.name
}

func (c *Channel) Track() *Track {
	return c.track
}

func (c *Channel) State() ChannelState {
	switch {
	case c.stopping:
		return Stopping
	case c.track != nil:
		return Playing
	default:
		return Idle
	}
}

func (c *Channel) IsStopping() bool {
	return c.stopping
}

// Fading reports whether a fade job is in flight.
func (c *Channel) Fading() bool {
	return c.job != nil && c.job.live
}

// Gain returns the current gain of a layer slot.
func (c *Channel) Gain(slot int) float64 {
	if slot < 0 || slot >= MaxLayers {
		return 0
	}
	return c.slots[slot].gain
}

// Clip returns the clip bound to a layer slot, if any.
func (c *Channel) Clip(slot int) *Clip {
	if slot < 0 || slot >= MaxLayers {
		return nil
	}
	return c.slots[slot].clip
}

// Play binds track to the channel, restarts every layer the track fills from
// silence and fades to the master volume.
func (c *Channel) Play(track *Track, fade time.Duration) {
	if track == nil {
		c.log.Debug("music: play without a track", "channel", c.name)
		return
	}

	c.track = track
	// A pending stop is superseded by the fade-in below.
	c.stopping = false

	for i := range c.slots {
		slot := &c.slots[i]
		clip := track.layer(i)
		if clip == nil {
			if slot.clip != nil {
				slot.handle.Stop()
			}
			slot.clip = nil
			c.setGain(i, 0)
			continue
		}

		c.setGain(i, 0)
		slot.clip = clip
		slot.handle.Activate(PlayParams{
			Clip:   clip,
			Route:  track.Route,
			Volume: 1,
			Pitch:  1,
			Loop:   true,
		})
	}

	c.FadeVolume(c.mix.volume, fade)
}

// FadeVolume ramps the layers toward target using the bound track's blend
// mode and the current layer level. Any fade in flight is superseded; the new
// ramp starts from the gains the slots have right now. A stopping channel
// keeps its fade-out.
func (c *Channel) FadeVolume(target float64, fade time.Duration) {
	if c.track == nil {
		c.log.Debug("music: fade without a track", "channel", c.name)
		return
	}
	if c.stopping {
		c.log.Debug("music: fade ignored while stopping", "channel", c.name)
		return
	}
	c.startFade(common.Clamp01(target), max(fade, 0), nil)
}

// Stop fades the governed layers to silence and deactivates every slot once
// the fade completes. Stopping an already stopping channel does nothing.
func (c *Channel) Stop(fade time.Duration) {
	if c.stopping {
		c.log.Debug("music: channel already stopping", "channel", c.name)
		return
	}
	if c.track == nil {
		c.log.Debug("music: stop without a track", "channel", c.name)
		return
	}

	c.stopping = true
	if !c.startFade(0, max(fade, 0), c.finishStop) {
		c.finishStop()
	}
}

// Tick advances the live fade job by dt.
func (c *Channel) Tick(dt time.Duration) {
	job := c.job
	if job == nil {
		return
	}
	if !job.step(dt, c.setGain) {
		return
	}
	if c.job == job {
		c.job = nil
	}
	if job.done != nil {
		job.done()
	}
}

func (c *Channel) startFade(target float64, fade time.Duration, done func()) bool {
	c.job.cancel()
	c.job = nil

	goals, ok := layerGoals(c.track.Blend, c.mix.level, target)
	if !ok {
		c.log.Warn("music: blend mode has no fade policy", "channel", c.name, "track", c.track.Name, "blend", c.track.Blend)
		return false
	}

	var start [MaxLayers]float64
	for i := range c.slots {
		start[i] = c.slots[i].gain
	}
	c.job = newFadeJob(start, goals, fade)
	c.job.done = done

	if fade == 0 {
		c.Tick(0)
	}
	return true
}

func (c *Channel) finishStop() {
	for i := range c.slots {
		c.slots[i].handle.Stop()
		c.slots[i].clip = nil
		c.setGain(i, 0)
	}
	c.stopping = false
	c.track = nil
}

func (c *Channel) setGain(slot int, gain float64) {
	c.slots[slot].gain = gain
	c.slots[slot].handle.SetGain(gain)
	c.log.Debug("music: layer gain", "channel", c.name, "slot", slot, "gain", gain)
}
