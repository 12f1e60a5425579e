package component

// Cue names a game moment for the cue script to react to.
type Cue struct {
	Name string
}

var CueComponent = NewComponent[Cue]()
