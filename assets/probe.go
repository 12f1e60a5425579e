package assets

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

var (
	ErrUnsupportedFormat = errors.New("assets: unsupported clip format")
	ErrEmptyClip         = errors.New("assets: clip has no samples")
)

// Probe returns the playback length of an encoded clip at pitch 1.
func Probe(name string, data []byte) (time.Duration, error) {
	switch formatOf(name) {
	case "wav":
		return probeWAV(data)
	case "mp3":
		return probeMP3(data)
	case "ogg":
		return probeOgg(data)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

func probeWAV(data []byte) (time.Duration, error) {
	d := wav.NewDecoder(bytes.NewReader(data))
	if err := d.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("wav: %w", err)
	}
	frameBytes := int64(d.NumChans) * int64(d.BitDepth/8)
	if d.SampleRate == 0 || frameBytes == 0 {
		return 0, ErrEmptyClip
	}
	return framesToDuration(d.PCMLen()/frameBytes, int(d.SampleRate))
}

func probeMP3(data []byte) (time.Duration, error) {
	d, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("mp3: %w", err)
	}
	// go-mp3 always decodes to 16-bit stereo.
	return framesToDuration(d.Length()/4, d.SampleRate())
}

func probeOgg(data []byte) (time.Duration, error) {
	samples, format, err := oggvorbis.GetLength(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("ogg: %w", err)
	}
	return framesToDuration(samples, format.SampleRate)
}

func framesToDuration(frames int64, sampleRate int) (time.Duration, error) {
	if frames <= 0 || sampleRate <= 0 {
		return 0, ErrEmptyClip
	}
	return time.Duration(frames) * time.Second / time.Duration(sampleRate), nil
}
