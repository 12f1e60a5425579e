package sound

import (
	"time"

	"github.com/jakecoffman/cp"
)

// Clip is a decoded-or-raw audio asset plus its playback length at pitch 1.
type Clip struct {
	Name   string
	Format string
	Length time.Duration
	Data   []byte
}

// PlayParams is the fully resolved set of parameters a handle is activated with.
type PlayParams struct {
	Clip         *Clip
	Route        string
	Priority     int
	Volume       float64
	Pitch        float64
	Pan          float64
	SpatialBlend float64
	MinDistance  float64
	MaxDistance  float64
	Position     cp.Vector
	Loop         bool
}

// Backend allocates audio-emitting handles. The core never renders samples
// itself; every command goes through a Handle.
type Backend interface {
	NewHandle() Handle
}

// Handle is a single backend emitter.
type Handle interface {
	Activate(p PlayParams)
	SetGain(v float64)
	SetLoop(loop bool)
	Stop()
	IsPlaying() bool
	Remaining() time.Duration
}
