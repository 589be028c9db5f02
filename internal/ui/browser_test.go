package ui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestBrowserSelectionStoresResult(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"song.mp3": "data",
	})
	defer restore()

	m := NewBrowser()

	model, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = model.(BrowserModel)
	if cmd == nil {
		t.Fatal("expected quit command after selection")
	}

	result := m.Result()
	if result.Path != "song.mp3" || result.Cancelled {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestBrowserCancel(t *testing.T) {
	restore := chdirTemp(t, map[string]string{"song.mp3": "data"})
	defer restore()

	m := NewBrowser()
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if result := model.(BrowserModel).Result(); !result.Cancelled {
		t.Fatalf("expected cancelled result, got %+v", result)
	}
}

func TestBrowserListsOnlyPlayableFiles(t *testing.T) {
	restore := chdirTemp(t, map[string]string{
		"a.flac":    "data",
		"b.ogg":     "data",
		"c.wav":     "data",
		"notes.txt": "data",
		"clip.aac":  "data",
	})
	defer restore()

	m := NewBrowser()

	var names []string
	for _, item := range m.list.Items() {
		file, ok := item.(audioItem)
		if !ok {
			t.Fatalf("unexpected item type %T", item)
		}
		names = append(names, file.name+file.ext)
	}
	want := []string{"a.flac", "b.ogg", "c.wav"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestBrowserEnterWithoutFilesDoesNothing(t *testing.T) {
	restore := chdirTemp(t, map[string]string{})
	defer restore()

	m := NewBrowser()
	model, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if result := model.(BrowserModel).Result(); !result.Cancelled || result.Path != "" {
		t.Fatalf("expected no selection, got %+v", result)
	}
}

func chdirTemp(t *testing.T, files map[string]string) func() {
	t.Helper()

	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}

	dir := t.TempDir()
	for name, contents := range files {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp dir: %v", err)
	}

	return func() {
		if err := os.Chdir(oldWD); err != nil {
			t.Fatalf("restore cwd: %v", err)
		}
	}
}

func TestAudioItemDescription(t *testing.T) {
	if got := (audioItem{name: "a", ext: ".flac", size: 1536}).Description(); got != "FLAC · 1.5 KiB" {
		t.Fatalf("Description = %q", got)
	}
	if got := (audioItem{name: "a", ext: ".ogg", size: -1}).Description(); got != "OGG" {
		t.Fatalf("Description without size = %q", got)
	}
}
