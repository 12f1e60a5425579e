package sound

import (
	"fmt"
	"strings"
)

// MaxLayers is the number of layer slots every channel owns.
const MaxLayers = 3

type BlendMode int

const (
	// Additive sounds every layer up to and including the active level.
	Additive BlendMode = iota
	// Single sounds only the layer at the active level.
	Single
)

func (m BlendMode) String() string {
	switch m {
	case Additive:
		return "additive"
	case Single:
		return "single"
	default:
		return fmt.Sprintf("blend(%d)", int(m))
	}
}

func (m *BlendMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "", "additive":
		*m = Additive
	case "single":
		*m = Single
	default:
		return fmt.Errorf("sound: unknown blend mode %q", string(text))
	}
	return nil
}

func (m BlendMode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Track is a layered music definition. Entries in Layers may be nil; only the
// first MaxLayers entries are used.
type Track struct {
	Name   string
	Layers []*Clip
	Blend  BlendMode
	Route  string
}

// LayerCount returns the number of layer entries a channel will look at.
func (t *Track) LayerCount() int {
	if t == nil {
		return 0
	}
	return min(len(t.Layers), MaxLayers)
}

func (t *Track) layer(i int) *Clip {
	if t == nil || i < 0 || i >= t.LayerCount() {
		return nil
	}
	return t.Layers[i]
}
