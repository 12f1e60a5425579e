package sound

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/common"
)

const MaxPriority = 128

// OneShot is an effect whose variation has already been resolved.
type OneShot struct {
	Clip           *Clip
	Route          string
	Priority       int
	Volume         float64
	Pitch          float64
	StereoPan      float64
	SpatialBlend   float64
	AttenuationMin float64
	AttenuationMax float64
}

// Params converts the effect into activation parameters at pos.
func (e OneShot) Params(pos cp.Vector) PlayParams {
	return PlayParams{
		Clip:         e.Clip,
		Route:        e.Route,
		Priority:     e.Priority,
		Volume:       e.Volume,
		Pitch:        e.Pitch,
		Pan:          e.StereoPan,
		SpatialBlend: e.SpatialBlend,
		MinDistance:  e.AttenuationMin,
		MaxDistance:  e.AttenuationMax,
		Position:     pos,
	}.clamped()
}

func (p PlayParams) clamped() PlayParams {
	p.Priority = common.Clamp(p.Priority, 0, MaxPriority)
	p.Volume = common.Clamp01(p.Volume)
	p.Pitch = common.Clamp(p.Pitch, 0, 2)
	p.Pan = common.Clamp(p.Pan, -1, 1)
	p.SpatialBlend = common.Clamp01(p.SpatialBlend)
	p.MinDistance = max(p.MinDistance, 0)
	p.MaxDistance = max(p.MaxDistance, p.MinDistance)
	return p
}

// PlayLoop starts a looping effect on a handle the caller owns. The pool is
// not involved; the caller stops it with StopLoop.
func PlayLoop(h Handle, e OneShot, pos cp.Vector) bool {
	if h == nil || e.Clip == nil {
		return false
	}
	params := e.Params(pos)
	params.Loop = true
	h.SetGain(1)
	h.Activate(params)
	return true
}

func StopLoop(h Handle) {
	if h == nil {
		return
	}
	h.SetLoop(false)
	h.Stop()
}
