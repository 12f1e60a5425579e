package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/milk9111/layeredaudio/sound"
)

//go:embed audio
var assetsFS embed.FS

// Embedded returns the audio assets compiled into the binary.
func Embedded() fs.FS {
	return assetsFS
}

// Library loads clips from a file system and hands out one *sound.Clip per
// path, so tracks built from the same files share clip identity.
type Library struct {
	fsys  fs.FS
	clips map[string]*sound.Clip
}

func NewLibrary(fsys fs.FS) *Library {
	if fsys == nil {
		fsys = assetsFS
	}
	return &Library{fsys: fsys, clips: make(map[string]*sound.Clip)}
}

// LoadFile loads an asset by assets-relative path.
func (l *Library) LoadFile(path string) ([]byte, error) {
	return fs.ReadFile(l.fsys, cleanAssetPath(path))
}

// Clip loads and probes a clip, returning the cached one on later calls.
// An empty path is an empty layer and yields nil without error.
func (l *Library) Clip(path string) (*sound.Clip, error) {
	clean := cleanAssetPath(path)
	if clean == "" {
		return nil, nil
	}
	if clip, ok := l.clips[clean]; ok {
		return clip, nil
	}

	data, err := fs.ReadFile(l.fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("assets: load %q: %w", path, err)
	}
	length, err := Probe(clean, data)
	if err != nil {
		return nil, fmt.Errorf("assets: probe %q: %w", path, err)
	}

	clip := &sound.Clip{
		Name:   strings.TrimSuffix(filepath.Base(clean), filepath.Ext(clean)),
		Format: formatOf(clean),
		Length: length,
		Data:   data,
	}
	l.clips[clean] = clip
	return clip, nil
}

// Forget drops cached clips so the next load reads them again.
func (l *Library) Forget() {
	clear(l.clips)
}

func cleanAssetPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		s = after
	}
	if !strings.Contains(s, "/") {
		s = "audio/" + s
	}
	return s
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
