package system

import (
	"log/slog"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/component"
	"github.com/milk9111/layeredaudio/sound"
)

// EffectSource resolves named effects.
type EffectSource interface {
	PlayEffect(pool *sound.Pool, name string, pos cp.Vector) (sound.Lease, bool)
	OneShot(name string) (sound.OneShot, bool)
}

// SoundSystem plays requested one-shots on the pool and keeps looping
// emitters in step with their Active flag.
type SoundSystem struct {
	pool    *sound.Pool
	backend sound.Backend
	effects EffectSource
	log     *slog.Logger
}

func NewSoundSystem(pool *sound.Pool, backend sound.Backend, effects EffectSource, log *slog.Logger) *SoundSystem {
	if log == nil {
		log = slog.Default()
	}
	return &SoundSystem{pool: pool, backend: backend, effects: effects, log: log}
}

func RequestSound(w *ecs.World, effect string, pos cp.Vector) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.SoundRequestComponent.Kind(), &component.SoundRequest{Effect: effect, Position: pos})
}

// RemoveEmitter silences an emitter before destroying its entity.
func RemoveEmitter(w *ecs.World, e ecs.Entity) bool {
	if emitter, ok := ecs.Get(w, e, component.SoundEmitterComponent.Kind()); ok && emitter.Playing {
		sound.StopLoop(emitter.Handle)
		emitter.Playing = false
	}
	return ecs.DestroyEntity(w, e)
}

func (s *SoundSystem) Update(w *ecs.World) {
	if w == nil || s.effects == nil {
		return
	}

	for _, req := range ecs.Drain(w, component.SoundRequestComponent.Kind()) {
		if s.pool == nil {
			break
		}
		if _, ok := s.effects.PlayEffect(s.pool, req.Effect, req.Position); ok {
			w.Events().Push(ecs.Event{Type: ecs.EventEffectPlayed, Data: req.Effect})
		}
	}

	ecs.ForEach(w, component.SoundEmitterComponent.Kind(), func(ent ecs.Entity, emitter *component.SoundEmitter) {
		switch {
		case emitter.Active && !emitter.Playing:
			s.startEmitter(ent, emitter)
		case !emitter.Active && emitter.Playing:
			sound.StopLoop(emitter.Handle)
			emitter.Playing = false
		}
	})
}

func (s *SoundSystem) startEmitter(ent ecs.Entity, emitter *component.SoundEmitter) {
	shot, ok := s.effects.OneShot(emitter.Effect)
	if !ok {
		s.log.Warn("sfx: unknown emitter effect", "entity", ent, "event", emitter.Effect)
		emitter.Active = false
		return
	}
	if emitter.Handle == nil {
		if s.backend == nil {
			return
		}
		emitter.Handle = s.backend.NewHandle()
	}
	emitter.Playing = sound.PlayLoop(emitter.Handle, shot, emitter.Position)
	if !emitter.Playing {
		s.log.Debug("sfx: emitter has nothing to play", "entity", ent, "event", emitter.Effect)
		emitter.Active = false
	}
}
