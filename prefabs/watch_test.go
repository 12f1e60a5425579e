package prefabs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSpecChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	target := filepath.Join(dir, "music.yaml")
	if err := os.WriteFile(target, []byte("events: []\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	var got []string
	for time.Now().Before(deadline) {
		paths, err := w.Poll()
		if err != nil {
			t.Fatalf("poll: %v", err)
		}
		got = append(got, paths...)
		if len(got) > 0 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if len(got) == 0 || got[0] != target {
		t.Fatalf("expected %s, got %v", target, got)
	}
}

func TestWatchedFileKinds(t *testing.T) {
	cases := []struct {
		path         string
		spec, script bool
	}{
		{"prefabs/music.yaml", true, false},
		{"prefabs/sfx.YML", true, false},
		{"prefabs/scripts/cues.tengo", false, true},
		{"prefabs/readme.md", false, false},
	}
	for _, c := range cases {
		if isSpecFile(c.path) != c.spec || isScriptFile(c.path) != c.script {
			t.Fatalf("%s: spec=%v script=%v", c.path, isSpecFile(c.path), isScriptFile(c.path))
		}
	}
}
