package viz

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsSceneEdits(t *testing.T) {
	dir := t.TempDir()
	scene := filepath.Join(dir, "scene.yaml")
	if err := os.WriteFile(scene, []byte("name: a\n"), 0644); err != nil {
		t.Fatal(err)
	}

	w, err := NewWatcher(scene)
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(scene, []byte("name: b\n"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-w.Events:
		if filepath.Base(got) != "scene.yaml" {
			t.Errorf("unexpected event for %s", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event for scene edit")
	}
}

func TestWatcherClose(t *testing.T) {
	w, err := NewWatcher(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if _, ok := <-w.Events; ok {
		t.Error("events channel still open")
	}
	// second close is a no-op
	if err := w.Close(); err != nil {
		t.Error(err)
	}
}

func TestIsSceneFile(t *testing.T) {
	for path, want := range map[string]bool{
		"a.yaml": true, "b.YML": true, "c.json": false, "yaml": false,
	} {
		if got := isSceneFile(path); got != want {
			t.Errorf("%s: got %v", path, got)
		}
	}
}
