package component

import "time"

// MusicRequest is a one-shot request to change the music. The latest request
// of a frame wins. An empty Track stops the music.
type MusicRequest struct {
	Track string
	// Fade overrides the configured fade when positive.
	Fade      time.Duration
	Immediate bool
}

var MusicRequestComponent = NewComponent[MusicRequest]()

// LayerRequest moves the layer level. Relative requests add Delta to the
// current level; absolute ones set Level. Requests apply in order.
type LayerRequest struct {
	Level     int
	Delta     int
	Relative  bool
	Fade      time.Duration
	Immediate bool
}

var LayerRequestComponent = NewComponent[LayerRequest]()

type VolumeRequest struct {
	Volume    float64
	Fade      time.Duration
	Immediate bool
}

var VolumeRequestComponent = NewComponent[VolumeRequest]()
