package system

import (
	"log/slog"
	"strings"
	"time"

	"github.com/milk9111/layeredaudio/ecs"
	"github.com/milk9111/layeredaudio/ecs/component"
	"github.com/milk9111/layeredaudio/sound"
)

// TrackSource looks up layered tracks by name.
type TrackSource interface {
	Track(name string) (*sound.Track, bool)
}

// MusicFades are the fade lengths used when a request does not name one.
type MusicFades struct {
	Play  time.Duration
	Layer time.Duration
	Stop  time.Duration
}

// MusicSystem turns music, layer and volume requests into crossfader calls.
type MusicSystem struct {
	music  *sound.Crossfader
	tracks TrackSource
	fades  MusicFades
	log    *slog.Logger
}

func NewMusicSystem(music *sound.Crossfader, tracks TrackSource, fades MusicFades, log *slog.Logger) *MusicSystem {
	if log == nil {
		log = slog.Default()
	}
	return &MusicSystem{music: music, tracks: tracks, fades: fades, log: log}
}

func RequestMusic(w *ecs.World, track string) {
	RequestMusicWithOptions(w, &component.MusicRequest{Track: track})
}

func StopMusic(w *ecs.World) {
	RequestMusicWithOptions(w, &component.MusicRequest{})
}

func RequestMusicWithOptions(w *ecs.World, req *component.MusicRequest) {
	if w == nil || req == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.MusicRequestComponent.Kind(), req)
}

func RequestLayer(w *ecs.World, level int) {
	requestLayer(w, &component.LayerRequest{Level: level})
}

func StepLayer(w *ecs.World, delta int) {
	requestLayer(w, &component.LayerRequest{Delta: delta, Relative: true})
}

func requestLayer(w *ecs.World, req *component.LayerRequest) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.LayerRequestComponent.Kind(), req)
}

func RequestVolume(w *ecs.World, volume float64) {
	if w == nil {
		return
	}
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.VolumeRequestComponent.Kind(), &component.VolumeRequest{Volume: volume})
}

func (m *MusicSystem) Update(w *ecs.World) {
	if w == nil || m.music == nil {
		return
	}

	if reqs := ecs.Drain(w, component.MusicRequestComponent.Kind()); len(reqs) > 0 {
		m.applyMusic(w, reqs[len(reqs)-1])
	}
	for _, req := range ecs.Drain(w, component.LayerRequestComponent.Kind()) {
		m.applyLayer(w, req)
	}
	if reqs := ecs.Drain(w, component.VolumeRequestComponent.Kind()); len(reqs) > 0 {
		req := reqs[len(reqs)-1]
		m.music.SetVolume(req.Volume, pickFade(req.Fade, req.Immediate, m.fades.Layer))
	}
}

func (m *MusicSystem) applyMusic(w *ecs.World, req component.MusicRequest) {
	name := strings.TrimSpace(req.Track)
	if name == "" {
		if m.music.ActiveTrack() == nil {
			return
		}
		m.music.Stop(pickFade(req.Fade, req.Immediate, m.fades.Stop))
		w.Events().Push(ecs.Event{Type: ecs.EventMusicStopped})
		return
	}

	if m.tracks == nil {
		m.log.Warn("music: no track source", "track", name)
		return
	}
	track, ok := m.tracks.Track(name)
	if !ok {
		m.log.Warn("music: unknown track", "track", name)
		return
	}
	if m.music.ActiveTrack() == track {
		return
	}
	m.music.Play(track, pickFade(req.Fade, req.Immediate, m.fades.Play))
	w.Events().Push(ecs.Event{Type: ecs.EventTrackChanged, Data: name})
}

func (m *MusicSystem) applyLayer(w *ecs.World, req component.LayerRequest) {
	before := m.music.LayerLevel()
	fade := pickFade(req.Fade, req.Immediate, m.fades.Layer)
	switch {
	case req.Relative && req.Delta == 1:
		m.music.IncreaseLayerLevel(fade)
	case req.Relative && req.Delta == -1:
		m.music.DecreaseLayerLevel(fade)
	case req.Relative:
		m.music.SetLayerLevel(before+req.Delta, fade)
	default:
		m.music.SetLayerLevel(req.Level, fade)
	}
	if after := m.music.LayerLevel(); after != before {
		w.Events().Push(ecs.Event{Type: ecs.EventLayerChanged, Data: after})
	}
}

func pickFade(fade time.Duration, immediate bool, fallback time.Duration) time.Duration {
	switch {
	case immediate:
		return 0
	case fade > 0:
		return fade
	default:
		return fallback
	}
}
