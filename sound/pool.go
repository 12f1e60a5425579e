package sound

import (
	"log/slog"
	"slices"
	"time"

	"github.com/jakecoffman/cp"
	"gopkg.in/eapache/queue.v1"
)

// Pool lends voices for fire-and-forget sounds and takes them back, either
// when the caller returns the lease or when the voice's auto-return deadline
// passes on the pool clock.
type Pool struct {
	backend   Backend
	available *queue.Queue
	inUse     []*Voice
	voices    int
	max       int
	now       time.Duration
	log       *slog.Logger
}

func NewPool(b Backend, cfg Config) *Pool {
	p := &Pool{
		backend:   b,
		available: queue.New(),
		max:       max(cfg.MaxVoices, 0),
		log:       cfg.logger(),
	}
	for range max(cfg.PoolSize, 0) {
		p.available.Add(p.newVoice())
	}
	return p
}

// Len returns the number of voices the pool has ever allocated.
func (p *Pool) Len() int {
	return p.voices
}

func (p *Pool) Available() int {
	return p.available.Length()
}

func (p *Pool) InUse() int {
	return len(p.inUse)
}

// Now returns the pool clock.
func (p *Pool) Now() time.Duration {
	return p.now
}

// Get leases a voice. It reuses the oldest returned voice, allocates a new one
// when none is free, and only when a ceiling is configured and reached steals
// the in-use voice closest to finishing.
func (p *Pool) Get() Lease {
	var v *Voice
	switch {
	case p.available.Length() > 0:
		v = p.available.Remove().(*Voice)
	case p.max > 0 && p.voices >= p.max && len(p.inUse) > 0:
		v = p.steal()
	default:
		v = p.newVoice()
	}

	v.active = true
	v.gen++
	v.autoReturn = false
	v.deadline = 0
	p.inUse = append(p.inUse, v)
	return Lease{voice: v, gen: v.gen}
}

// Return stops the leased voice and makes it available again. A lease that
// was already returned, auto-returned or stolen is ignored.
func (p *Pool) Return(l Lease) bool {
	if !l.Valid() {
		if l.voice != nil {
			p.log.Debug("sfx: ignoring stale voice return", "voice", l.voice.id)
		}
		return false
	}
	p.release(l.voice)
	return true
}

// ReturnAfter schedules the lease to be reclaimed once d has elapsed on the
// pool clock.
func (p *Pool) ReturnAfter(l Lease, d time.Duration) bool {
	if !l.Valid() {
		return false
	}
	l.voice.deadline = p.now + max(d, 0)
	l.voice.autoReturn = true
	return true
}

// Tick advances the pool clock and reclaims every voice whose deadline has
// passed.
func (p *Pool) Tick(dt time.Duration) {
	p.now += max(dt, 0)

	var expired []*Voice
	for _, v := range p.inUse {
		if v.autoReturn && p.now >= v.deadline {
			expired = append(expired, v)
		}
	}
	for _, v := range expired {
		v.handle.SetLoop(false)
		p.log.Debug("sfx: auto-return", "voice", v.id)
		p.release(v)
	}
}

// PlayOneShot plays a resolved effect at pos on a pooled voice that returns
// itself when the clip finishes.
func (p *Pool) PlayOneShot(effect OneShot, pos cp.Vector) (Lease, bool) {
	if effect.Clip == nil {
		p.log.Warn("sfx: one-shot has no clip")
		return Lease{}, false
	}
	return p.Play(effect.Params(pos))
}

// Play plays params on a pooled voice with auto-return. Loop is always forced
// off so the voice is guaranteed to come back.
func (p *Pool) Play(params PlayParams) (Lease, bool) {
	if params.Clip == nil {
		p.log.Warn("sfx: play has no clip")
		return Lease{}, false
	}
	params = params.clamped()
	params.Loop = false

	l := p.Get()
	h := l.Handle()
	h.SetLoop(false)
	h.SetGain(1)
	h.Activate(params)

	d := h.Remaining()
	if d <= 0 {
		d = params.Clip.Length
	}
	p.ReturnAfter(l, d)
	return l, true
}

func (p *Pool) newVoice() *Voice {
	p.voices++
	return &Voice{id: p.voices, handle: p.backend.NewHandle()}
}

func (p *Pool) release(v *Voice) {
	v.handle.Stop()
	v.active = false
	v.autoReturn = false
	v.deadline = 0
	if i := slices.Index(p.inUse, v); i >= 0 {
		p.inUse = slices.Delete(p.inUse, i, i+1)
	}
	p.available.Add(v)
}

// steal takes the in-use voice nearest to its deadline, or the oldest lease
// when none has one.
func (p *Pool) steal() *Voice {
	idx := 0
	for i, v := range p.inUse {
		if !v.autoReturn {
			continue
		}
		best := p.inUse[idx]
		if !best.autoReturn || v.deadline < best.deadline {
			idx = i
		}
	}

	v := p.inUse[idx]
	p.inUse = slices.Delete(p.inUse, idx, idx+1)
	v.handle.SetLoop(false)
	v.handle.Stop()
	p.log.Debug("sfx: stealing voice", "voice", v.id, "max", p.max)
	return v
}
