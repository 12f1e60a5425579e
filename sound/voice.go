package sound

import "time"

// Voice is a pooled backend handle used for one-shot sounds.
type Voice struct {
	id     int
	handle Handle
	active bool

	// gen is bumped every time the voice is leased so a stale lease can be
	// told apart from the current one.
	gen        uint32
	deadline   time.Duration
	autoReturn bool
}

func (v *Voice) ID() int {
	return v.id
}

func (v *Voice) Handle() Handle {
	return v.handle
}

func (v *Voice) Active() bool {
	return v.active
}

// Lease is the caller's claim on a voice. It stops being valid once the voice
// goes back to the pool, whichever path returns it.
type Lease struct {
	voice *Voice
	gen   uint32
}

func (l Lease) Voice() *Voice {
	return l.voice
}

func (l Lease) Handle() Handle {
	if l.voice == nil {
		return nil
	}
	return l.voice.handle
}

func (l Lease) Valid() bool {
	return l.voice != nil && l.voice.active && l.voice.gen == l.gen
}
