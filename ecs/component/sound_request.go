package component

import "github.com/jakecoffman/cp"

// SoundRequest plays a named effect once at a position.
type SoundRequest struct {
	Effect   string
	Position cp.Vector
}

var SoundRequestComponent = NewComponent[SoundRequest]()
