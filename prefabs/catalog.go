package prefabs

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/assets"
	"github.com/milk9111/layeredaudio/sound"
)

// Effect is a loaded SFX event. Each play resolves a fresh variation.
type Effect struct {
	Spec  SFXEventSpec
	Clips []*sound.Clip
}

// Resolve picks a clip and the volume and pitch for one playback.
func (e *Effect) Resolve(rng *rand.Rand) sound.OneShot {
	shot := sound.OneShot{
		Route:          e.Spec.Route,
		Priority:       e.Spec.Priority,
		Volume:         e.Spec.Volume.Pick(rng),
		Pitch:          e.Spec.Pitch.Pick(rng),
		StereoPan:      e.Spec.StereoPan,
		SpatialBlend:   e.Spec.SpatialBlend,
		AttenuationMin: e.Spec.AttenuationMin,
		AttenuationMax: e.Spec.AttenuationMax,
	}
	switch n := len(e.Clips); {
	case n == 1 || (n > 1 && rng == nil):
		shot.Clip = e.Clips[0]
	case n > 1:
		shot.Clip = e.Clips[rng.IntN(n)]
	}
	return shot
}

// Catalog turns music and SFX definitions into playable tracks and effects.
// Reloading a definition updates the existing *sound.Track in place, so a
// crossfader already playing it still sees the same track. Events missing
// from a reload are dropped.
type Catalog struct {
	lib     *assets.Library
	rng     *rand.Rand
	log     *slog.Logger
	tracks  map[string]*sound.Track
	effects map[string]*Effect
}

func NewCatalog(lib *assets.Library, rng *rand.Rand, log *slog.Logger) *Catalog {
	if lib == nil {
		lib = assets.NewLibrary(nil)
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if log == nil {
		log = slog.Default()
	}
	return &Catalog{
		lib:     lib,
		rng:     rng,
		log:     log,
		tracks:  make(map[string]*sound.Track),
		effects: make(map[string]*Effect),
	}
}

// Load reads music.yaml and sfx.yaml.
func (c *Catalog) Load() error {
	music, err := LoadMusicSpec()
	if err != nil {
		return err
	}
	sfx, err := LoadSFXSpec()
	if err != nil {
		return err
	}
	if err := c.LoadMusic(music); err != nil {
		return err
	}
	return c.LoadSFX(sfx)
}

// Reload re-reads the definition file behind a changed path. It reports
// whether the path belonged to the catalog.
func (c *Catalog) Reload(path string) (bool, error) {
	switch strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) {
	case "music":
		spec, err := LoadMusicSpec()
		if err != nil {
			return true, err
		}
		return true, c.LoadMusic(spec)
	case "sfx":
		spec, err := LoadSFXSpec()
		if err != nil {
			return true, err
		}
		return true, c.LoadSFX(spec)
	}
	return false, nil
}

// LoadMusic builds every track in spec. Nothing changes if any event fails.
func (c *Catalog) LoadMusic(spec *MusicSpec) error {
	if spec == nil {
		return nil
	}
	built := make(map[string]*sound.Track, len(spec.Events))
	for _, ev := range spec.Events {
		name := strings.TrimSpace(ev.Name)
		if name == "" {
			return fmt.Errorf("prefabs: music event without a name")
		}
		if _, dup := built[name]; dup {
			return fmt.Errorf("prefabs: duplicate music event %q", name)
		}
		if len(ev.Layers) > sound.MaxLayers {
			return fmt.Errorf("prefabs: music event %q has %d layers, max is %d", name, len(ev.Layers), sound.MaxLayers)
		}
		track := &sound.Track{Name: name, Blend: ev.Blend, Route: ev.Route}
		for i, path := range ev.Layers {
			clip, err := c.lib.Clip(path)
			if err != nil {
				return fmt.Errorf("prefabs: music event %q layer %d: %w", name, i, err)
			}
			track.Layers = append(track.Layers, clip)
		}
		built[name] = track
	}

	for name, track := range built {
		if existing, ok := c.tracks[name]; ok {
			*existing = *track
			continue
		}
		c.tracks[name] = track
	}
	// A dropped track that is still playing keeps sounding through the
	// crossfader's reference; it just can no longer be requested.
	for name := range c.tracks {
		if _, ok := built[name]; !ok {
			c.log.Debug("prefabs: music event removed", "event", name)
			delete(c.tracks, name)
		}
	}
	c.log.Debug("prefabs: music loaded", "tracks", len(built))
	return nil
}

// LoadSFX builds every effect in spec. Nothing changes if any event fails.
func (c *Catalog) LoadSFX(spec *SFXSpec) error {
	if spec == nil {
		return nil
	}
	built := make(map[string]*Effect, len(spec.Events))
	for _, ev := range spec.Events {
		name := strings.TrimSpace(ev.Name)
		if name == "" {
			return fmt.Errorf("prefabs: sfx event without a name")
		}
		if _, dup := built[name]; dup {
			return fmt.Errorf("prefabs: duplicate sfx event %q", name)
		}
		effect := &Effect{Spec: ev}
		for _, path := range ev.Clips {
			clip, err := c.lib.Clip(path)
			if err != nil {
				return fmt.Errorf("prefabs: sfx event %q: %w", name, err)
			}
			if clip != nil {
				effect.Clips = append(effect.Clips, clip)
			}
		}
		if len(effect.Clips) == 0 {
			c.log.Warn("prefabs: sfx event has no clips", "event", name)
		}
		built[name] = effect
	}

	clear(c.effects)
	for name, effect := range built {
		c.effects[name] = effect
	}
	c.log.Debug("prefabs: sfx loaded", "effects", len(built))
	return nil
}

func (c *Catalog) Track(name string) (*sound.Track, bool) {
	track, ok := c.tracks[name]
	return track, ok
}

func (c *Catalog) Effect(name string) (*Effect, bool) {
	effect, ok := c.effects[name]
	return effect, ok
}

// OneShot resolves a new variation of the named effect.
func (c *Catalog) OneShot(name string) (sound.OneShot, bool) {
	effect, ok := c.effects[name]
	if !ok {
		return sound.OneShot{}, false
	}
	return effect.Resolve(c.rng), true
}

// PlayEffect resolves the named effect and plays it on the pool. Looping
// effects need a caller-owned handle and are rejected here.
func (c *Catalog) PlayEffect(pool *sound.Pool, name string, pos cp.Vector) (sound.Lease, bool) {
	effect, ok := c.effects[name]
	if !ok {
		c.log.Warn("sfx: unknown effect", "event", name)
		return sound.Lease{}, false
	}
	if effect.Spec.Loop {
		c.log.Warn("sfx: looping effect needs its own handle", "event", name)
		return sound.Lease{}, false
	}
	return pool.PlayOneShot(effect.Resolve(c.rng), pos)
}

func (c *Catalog) TrackNames() []string {
	names := make([]string, 0, len(c.tracks))
	for name := range c.tracks {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (c *Catalog) EffectNames() []string {
	names := make([]string, 0, len(c.effects))
	for name := range c.effects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
