// Package ebitenaudio plays sound handles through ebiten's audio context.
//
// Pitch and stereo pan are carried in the parameters but not rendered: ebiten
// players only expose volume. Spatial blend is rendered as linear distance
// attenuation between the emitter position and the listener.
package ebitenaudio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/layeredaudio/sound"
)

const DefaultSampleRate = 44100

// ebiten decoders produce 16-bit stereo.
const bytesPerFrame = 4

type Backend struct {
	ctx      *audio.Context
	pcm      map[*sound.Clip][]byte
	handles  []*Handle
	listener cp.Vector
	log      *slog.Logger
}

// New returns a backend on the process audio context, creating one when the
// process has none yet.
func New(log *slog.Logger) *Backend {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(DefaultSampleRate)
	}
	if log == nil {
		log = slog.Default()
	}
	return &Backend{ctx: ctx, pcm: make(map[*sound.Clip][]byte), log: log}
}

func (b *Backend) NewHandle() sound.Handle {
	h := &Handle{backend: b, id: len(b.handles) + 1}
	b.handles = append(b.handles, h)
	return h
}

// SetListener moves the point spatial sounds are heard from.
func (b *Backend) SetListener(pos cp.Vector) {
	b.listener = pos
	for _, h := range b.handles {
		h.applyVolume()
	}
}

func (b *Backend) Listener() cp.Vector {
	return b.listener
}

// Forget drops decoded audio, e.g. after clips were reloaded.
func (b *Backend) Forget() {
	clear(b.pcm)
}

func (b *Backend) decode(clip *sound.Clip) ([]byte, error) {
	if pcm, ok := b.pcm[clip]; ok {
		return pcm, nil
	}

	var (
		stream io.Reader
		err    error
	)
	src := bytes.NewReader(clip.Data)
	rate := b.ctx.SampleRate()
	switch clip.Format {
	case "wav":
		stream, err = wav.DecodeWithSampleRate(rate, src)
	case "mp3":
		stream, err = mp3.DecodeWithSampleRate(rate, src)
	case "ogg":
		stream, err = vorbis.DecodeWithSampleRate(rate, src)
	default:
		return nil, fmt.Errorf("ebitenaudio: unsupported format %q for clip %q", clip.Format, clip.Name)
	}
	if err != nil {
		return nil, fmt.Errorf("ebitenaudio: decode %q: %w", clip.Name, err)
	}

	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("ebitenaudio: read %q: %w", clip.Name, err)
	}
	b.pcm[clip] = pcm
	return pcm, nil
}

func pcmDuration(n int, sampleRate int) time.Duration {
	if sampleRate <= 0 {
		return 0
	}
	frames := int64(n / bytesPerFrame)
	return time.Duration(frames) * time.Second / time.Duration(sampleRate)
}

// attenuation is the distance gain for p heard at listener, blended with the
// unattenuated gain by the spatial blend.
func attenuation(p sound.PlayParams, listener cp.Vector) float64 {
	if p.SpatialBlend <= 0 {
		return 1
	}
	d := p.Position.Distance(listener)
	var att float64
	switch {
	case d <= p.MinDistance:
		att = 1
	case d >= p.MaxDistance:
		att = 0
	default:
		att = 1 - (d-p.MinDistance)/(p.MaxDistance-p.MinDistance)
	}
	return (1 - p.SpatialBlend) + p.SpatialBlend*att
}
