package system

import (
	"time"

	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/sound"
)

// DefaultStep is one frame at ebiten's default 60 ticks per second.
const DefaultStep = time.Second / 60

// AudioSystem advances the engine by a fixed step each frame. It runs after
// the request systems so the frame's commands are faded starting this frame.
type AudioSystem struct {
	engine *sound.Engine
	step   time.Duration
}

func NewAudioSystem(engine *sound.Engine, step time.Duration) *AudioSystem {
	if step <= 0 {
		step = DefaultStep
	}
	return &AudioSystem{engine: engine, step: step}
}

func (a *AudioSystem) Update(w *ecs.World) {
	if a.engine == nil {
		return
	}
	a.engine.Tick(a.step)
}
