package prefabs

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/milk9111/layeredaudio/sound"
	"gopkg.in/yaml.v3"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}
	return ParseSpec[T](filename, data)
}

func ParseSpec[T any](filename string, data []byte) (T, error) {
	var zero T
	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}
	return spec, nil
}

// AudioSpec is the engine configuration in audio.yaml.
type AudioSpec struct {
	Volume    float64       `yaml:"volume"`
	PoolSize  int           `yaml:"pool_size"`
	MaxVoices int           `yaml:"max_voices"`
	Fade      time.Duration `yaml:"fade"`
	LayerFade time.Duration `yaml:"layer_fade"`
	StopFade  time.Duration `yaml:"stop_fade"`
	Script    string        `yaml:"script"`
}

func DefaultAudioSpec() AudioSpec {
	return AudioSpec{
		Volume:    sound.DefaultVolume,
		PoolSize:  sound.DefaultPoolSize,
		Fade:      2 * time.Second,
		LayerFade: time.Second,
		StopFade:  time.Second,
	}
}

func (s *AudioSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain AudioSpec
	p := plain(DefaultAudioSpec())
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Fade < 0 || p.LayerFade < 0 || p.StopFade < 0 {
		return fmt.Errorf("fade durations must not be negative")
	}
	*s = AudioSpec(p)
	return nil
}

func LoadAudioSpec() (*AudioSpec, error) {
	spec, err := LoadSpec[AudioSpec]("audio.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// Config converts the spec into an engine configuration.
func (s *AudioSpec) Config(logger *slog.Logger) sound.Config {
	return sound.Config{
		Volume:    s.Volume,
		PoolSize:  s.PoolSize,
		MaxVoices: s.MaxVoices,
		Logger:    logger,
	}
}

type MusicSpec struct {
	Events []MusicEventSpec `yaml:"events"`
}

// MusicEventSpec describes a layered track. An empty layer entry leaves the
// slot unbound.
type MusicEventSpec struct {
	Name   string          `yaml:"name"`
	Blend  sound.BlendMode `yaml:"blend"`
	Route  string          `yaml:"route"`
	Layers []string        `yaml:"layers"`
}

func LoadMusicSpec() (*MusicSpec, error) {
	spec, err := LoadSpec[MusicSpec]("music.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type SFXSpec struct {
	Events []SFXEventSpec `yaml:"events"`
}

type SFXEventSpec struct {
	Name           string      `yaml:"name"`
	Clips          []string    `yaml:"clips"`
	Route          string      `yaml:"route"`
	Priority       int         `yaml:"priority"`
	Volume         RangedFloat `yaml:"volume"`
	Pitch          RangedFloat `yaml:"pitch"`
	StereoPan      float64     `yaml:"stereo_pan"`
	SpatialBlend   float64     `yaml:"spatial_blend"`
	AttenuationMin float64     `yaml:"attenuation_min"`
	AttenuationMax float64     `yaml:"attenuation_max"`
	Loop           bool        `yaml:"loop"`
}

func LoadSFXSpec() (*SFXSpec, error) {
	spec, err := LoadSpec[SFXSpec]("sfx.yaml")
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

// RangedFloat is a [min, max] range a value is picked from each time an
// effect plays. A plain scalar in YAML is a fixed value.
type RangedFloat struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

func Fixed(v float64) RangedFloat {
	return RangedFloat{Min: v, Max: v}
}

func (r *RangedFloat) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		var v float64
		if err := value.Decode(&v); err != nil {
			return err
		}
		*r = Fixed(v)
		return nil
	}

	type plain RangedFloat
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	if p.Max < p.Min {
		return fmt.Errorf("range max %v is below min %v", p.Max, p.Min)
	}
	*r = RangedFloat(p)
	return nil
}

// Pick returns a uniformly random value in the range.
func (r RangedFloat) Pick(rng *rand.Rand) float64 {
	if r.Max <= r.Min || rng == nil {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// DefaultSFXEvent holds the values an effect gets for every field its YAML
// leaves out.
func DefaultSFXEvent() SFXEventSpec {
	return SFXEventSpec{
		Priority:       sound.MaxPriority,
		Volume:         Fixed(0.8),
		Pitch:          RangedFloat{Min: 0.95, Max: 1.05},
		AttenuationMin: 1,
		AttenuationMax: 500,
	}
}

func (s *SFXEventSpec) UnmarshalYAML(value *yaml.Node) error {
	type plain SFXEventSpec
	p := plain(DefaultSFXEvent())
	if err := value.Decode(&p); err != nil {
		return err
	}
	*s = SFXEventSpec(p)
	return nil
}
