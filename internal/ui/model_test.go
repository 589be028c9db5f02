package ui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/audiovis/internal/bridge"
	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/mesh"
	"github.com/olivier-w/audiovis/internal/player"
)

type stubPlayback struct {
	paused bool
	volume float64
	closed int
	done   chan struct{}
}

func newStubPlayback() *stubPlayback {
	return &stubPlayback{volume: 0.5, done: make(chan struct{})}
}

func (p *stubPlayback) TogglePause()               { p.paused = !p.paused }
func (p *stubPlayback) Paused() bool               { return p.paused }
func (p *stubPlayback) AdjustVolume(delta float64) { p.volume = min(max(p.volume+delta, 0), 1) }
func (p *stubPlayback) Volume() float64            { return p.volume }
func (p *stubPlayback) Position() time.Duration    { return 30 * time.Second }
func (p *stubPlayback) Duration() time.Duration    { return 2 * time.Minute }
func (p *stubPlayback) Done() <-chan struct{}      { return p.done }
func (p *stubPlayback) Close()                     { p.closed++ }

type stubSource struct {
	mesh  mesh.Mesh
	err   error
	calls int
}

func (s *stubSource) Consume(context.Context) (mesh.Mesh, error) {
	s.calls++
	return s.mesh, s.err
}

func (s *stubSource) Stats() bridge.Stats {
	return bridge.Stats{Pushes: 7, Meshes: 3}
}

func newTestModel(t *testing.T, src *stubSource) (Model, *stubPlayback) {
	t.Helper()
	p := newStubPlayback()
	m := New(config.Default(), p, src, player.Metadata{Title: "Song", Artist: "Band"})
	next, _ := m.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	return next.(Model), p
}

func barsMesh() mesh.Mesh {
	return mesh.Bars1([][]float32{{0.5, 1, 0.25, 0.75}}, mesh.Params{Width: 1, VolumeAmplitude: 1, VolumeFactoring: 1})
}

func TestTickConsumesOneMesh(t *testing.T) {
	src := &stubSource{mesh: barsMesh()}
	m, _ := newTestModel(t, src)

	next, cmd := m.Update(tickMsg(time.Now()))
	if cmd == nil {
		t.Fatal("expected a consume command after a tick")
	}
	msg := cmd()
	mm, ok := msg.(meshMsg)
	if !ok {
		t.Fatalf("expected meshMsg, got %T", msg)
	}
	if src.calls != 1 {
		t.Fatalf("expected one Consume call, got %d", src.calls)
	}

	next, cmd = next.(Model).Update(mm)
	if cmd == nil {
		t.Fatal("expected the next tick to be scheduled")
	}
	got := next.(Model)
	if got.frames != 1 {
		t.Fatalf("expected one rendered frame, got %d", got.frames)
	}
	if got.elapsed != 30*time.Second {
		t.Fatalf("expected elapsed from the player, got %v", got.elapsed)
	}
	view := got.View()
	if !strings.Contains(view, "Song") || !strings.Contains(view, "0:30") {
		t.Fatalf("expected title and elapsed time in view, got %q", view)
	}
}

func TestConsumeErrorKeepsPreviousFrame(t *testing.T) {
	src := &stubSource{mesh: barsMesh()}
	m, _ := newTestModel(t, src)

	next, _ := m.Update(meshMsg{mesh: src.mesh})
	before := next.(Model).renderer.View()

	next, cmd := next.(Model).Update(meshMsg{err: context.DeadlineExceeded})
	if cmd == nil {
		t.Fatal("expected the next tick after a failed consume")
	}
	got := next.(Model)
	if got.frames != 1 {
		t.Fatalf("expected the failed consume not to count as a frame, got %d", got.frames)
	}
	if got.renderer.View() != before {
		t.Fatal("expected the previous frame to stay on screen")
	}
}

func TestCanvasFillsSpaceBetweenChrome(t *testing.T) {
	m, _ := newTestModel(t, &stubSource{})
	cols, rows := m.canvasSize()
	if cols != 60 {
		t.Fatalf("expected 60 columns, got %d", cols)
	}
	if want := 20 - chromeRows - 1; rows != want {
		t.Fatalf("expected %d rows, got %d", want, rows)
	}

	m.help.ShowAll = true
	if _, full := m.canvasSize(); full >= rows {
		t.Fatalf("expected full help to shrink the canvas, got %d rows", full)
	}
}

func TestFatalMsgStopsProgram(t *testing.T) {
	m, p := newTestModel(t, &stubSource{})
	boom := errors.New("boom")

	next, cmd := m.Update(FatalMsg{Err: boom})
	got := next.(Model)
	if !errors.Is(got.Err(), boom) {
		t.Fatalf("Err = %v, want %v", got.Err(), boom)
	}
	if p.closed != 1 {
		t.Fatalf("expected player closed once, got %d", p.closed)
	}
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if got.View() != "" {
		t.Fatal("expected empty view after quitting")
	}
}

func TestPlaybackEndQuits(t *testing.T) {
	m, p := newTestModel(t, &stubSource{})
	next, cmd := m.Update(playbackEndedMsg{})
	if cmd == nil || p.closed != 1 {
		t.Fatal("expected quit and player close at end of playback")
	}
	if next.(Model).Err() != nil {
		t.Fatal("expected no error for a normal end of playback")
	}
}

func TestKeysControlPlayback(t *testing.T) {
	m, p := newTestModel(t, &stubSource{})

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m = next.(Model)
	if !p.paused || !m.paused {
		t.Fatal("expected space to pause")
	}
	if !strings.Contains(m.View(), "paused") {
		t.Fatal("expected paused status in view")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(Model)
	if math.Abs(m.volume-0.55) > 1e-9 {
		t.Fatalf("expected volume 0.55, got %v", m.volume)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if p.closed != 1 || next.(Model).View() != "" {
		t.Fatal("expected q to quit")
	}
}

func TestStatsToggle(t *testing.T) {
	m, _ := newTestModel(t, &stubSource{})
	if strings.Contains(m.View(), "pushes") {
		t.Fatal("expected stats hidden by default")
	}
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'s'}})
	if view := next.(Model).View(); !strings.Contains(view, "pushes 7") {
		t.Fatalf("expected stats in view, got %q", view)
	}
}

func TestCameraKeysMoveOrbit(t *testing.T) {
	m, _ := newTestModel(t, &stubSource{})
	start := m.renderer.Orbit().Camera().Position

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m = next.(Model)
	for range 120 {
		m.renderer.Orbit().Step()
	}
	if m.renderer.Orbit().Camera().Position.ApproxEqualThreshold(start, 1e-3) {
		t.Fatal("expected the camera to move after a rotate key")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	m = next.(Model)
	for range 600 {
		m.renderer.Orbit().Step()
	}
	if !m.renderer.Orbit().Camera().Position.ApproxEqualThreshold(start, 1e-2) {
		t.Fatal("expected reset to return the camera")
	}
}

func TestInitShowsCursorUnlessHidden(t *testing.T) {
	m, _ := newTestModel(t, &stubSource{})
	if m.hideCursor {
		t.Fatal("expected the default config to keep the cursor")
	}
	if m.Init() == nil {
		t.Fatal("expected init commands")
	}
}

func TestWindowTitle(t *testing.T) {
	if got := windowTitle("Song", true); got != "⏸ Song - audiovis" {
		t.Fatalf("windowTitle paused = %q", got)
	}
	if got := windowTitle("Song", false); got != "▶ Song - audiovis" {
		t.Fatalf("windowTitle playing = %q", got)
	}
}

func TestProgressRatio(t *testing.T) {
	tests := []struct {
		elapsed, total, want float64
	}{
		{0, 0, 0},
		{30, 120, 0.25},
		{200, 120, 1},
		{-1, 120, 0},
	}
	for _, tt := range tests {
		if got := progressRatio(tt.elapsed, tt.total); got != tt.want {
			t.Errorf("progressRatio(%v, %v) = %v, want %v", tt.elapsed, tt.total, got, tt.want)
		}
	}
}
