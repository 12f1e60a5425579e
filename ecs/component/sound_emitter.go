package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/sound"
)

// SoundEmitter owns a looping effect for as long as Active is set. The sound
// system gives it a handle of its own the first time it starts.
type SoundEmitter struct {
	Effect   string
	Position cp.Vector
	Active   bool

	Handle  sound.Handle
	Playing bool
}

var SoundEmitterComponent = NewComponent[SoundEmitter]()
