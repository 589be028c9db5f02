package ui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/olivier-w/audiovis/internal/bridge"
	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/mesh"
	"github.com/olivier-w/audiovis/internal/player"
	"github.com/olivier-w/audiovis/internal/util"
	"github.com/olivier-w/audiovis/internal/visualizer"
)

const (
	// header, progress and status lines around the canvas
	chromeRows = 3

	defaultCols = 80
	defaultRows = 24

	volumeStep = 0.05
	yawStep    = 0.15
	zoomStep   = 1.1
)

// Playback is the part of the audio player the TUI drives.
type Playback interface {
	TogglePause()
	Paused() bool
	AdjustVolume(delta float64)
	Volume() float64
	Position() time.Duration
	Duration() time.Duration
	Done() <-chan struct{}
	Close()
}

// MeshSource hands out the current mesh once per frame.
type MeshSource interface {
	Consume(ctx context.Context) (mesh.Mesh, error)
	Stats() bridge.Stats
}

// Model is the Bubbletea model for the audiovis TUI.
type Model struct {
	player   Playback
	source   MeshSource
	renderer *visualizer.Renderer
	metadata player.Metadata
	interval time.Duration

	hideCursor bool
	keys       keyMap
	help       help.Model
	progress   progress.Model

	width, height int
	elapsed       time.Duration
	duration      time.Duration
	volume        float64
	paused        bool
	frames        uint64
	triangles     int
	stats         bridge.Stats
	showStats     bool

	err      error
	quitting bool
}

// New creates the TUI model. The frame clock runs at
// processing.frequency.
func New(cfg config.Config, p Playback, src MeshSource, meta player.Metadata) Model {
	fps := int(max(cfg.Processing.Frequency, 1))
	return Model{
		player:     p,
		source:     src,
		renderer:   visualizer.New(cfg.Visual, fps),
		metadata:   meta,
		interval:   time.Second / time.Duration(fps),
		hideCursor: cfg.Visual.HideCursor,
		keys:       defaultKeys(),
		help:       help.New(),
		progress:   progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage()),
		duration:   p.Duration(),
		volume:     p.Volume(),
	}
}

// Err returns the error that stopped the program, if any.
func (m Model) Err() error {
	return m.err
}

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tickCmd(m.interval),
		checkDone(m.player),
		tea.SetWindowTitle(windowTitle(m.metadata.Title, false)),
	}
	if !m.hideCursor {
		cmds = append(cmds, tea.ShowCursor)
	}
	return tea.Batch(cmds...)
}

func checkDone(p Playback) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tickMsg:
		m.elapsed = m.player.Position()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()
		return m, consumeCmd(m.source)

	case meshMsg:
		if msg.err != nil {
			// keep the previous frame on screen
			slog.Debug("ui: consume failed, keeping previous frame", "error", msg.err)
			return m, tickCmd(m.interval)
		}
		cols, rows := m.canvasSize()
		m.renderer.Update(msg.mesh, cols, rows)
		m.frames++
		m.triangles = msg.mesh.Triangles()
		if m.showStats {
			m.stats = m.source.Stats()
		}
		return m, tickCmd(m.interval)

	case FatalMsg:
		m.err = msg.Err
		return m.quit()

	case playbackEndedMsg:
		m.elapsed = m.duration
		return m.quit()

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.progress.Width = max(msg.Width-20, 10)
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	orbit := m.renderer.Orbit()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Pause):
		m.player.TogglePause()
		m.paused = m.player.Paused()
		return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
	case key.Matches(msg, m.keys.VolumeUp):
		m.player.AdjustVolume(volumeStep)
		m.volume = m.player.Volume()
	case key.Matches(msg, m.keys.VolumeDown):
		m.player.AdjustVolume(-volumeStep)
		m.volume = m.player.Volume()
	case key.Matches(msg, m.keys.RotateLeft):
		orbit.Rotate(-yawStep)
	case key.Matches(msg, m.keys.RotateRight):
		orbit.Rotate(yawStep)
	case key.Matches(msg, m.keys.ZoomIn):
		orbit.Zoom(1 / zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		orbit.Zoom(zoomStep)
	case key.Matches(msg, m.keys.Reset):
		orbit.Reset()
	case key.Matches(msg, m.keys.Stats):
		m.showStats = !m.showStats
		if m.showStats {
			m.stats = m.source.Stats()
		}
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	m.player.Close()
	return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
}

// canvasSize returns the cells left for the visualization.
func (m Model) canvasSize() (cols, rows int) {
	w, h := m.width, m.height
	if w <= 0 || h <= 0 {
		w, h = defaultCols, defaultRows
	}
	rows = h - chromeRows - lipgloss.Height(m.help.View(m.keys))
	return max(w, 1), max(rows, 1)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := headerStyle.Render(appName) + "  " + titleStyle.Render(m.metadata.Title)
	if sub := m.metadata.Subtitle(); sub != "" {
		header += "  " + artistStyle.Render(sub)
	}

	elapsedStr := timeStyle.Render(util.FormatDuration(m.elapsed))
	durationStr := timeStyle.Render(util.FormatDuration(m.duration))
	bar := m.progress.ViewAs(progressRatio(m.elapsed.Seconds(), m.duration.Seconds()))
	progressLine := fmt.Sprintf("%s %s %s", elapsedStr, bar, durationStr)

	state := statusStyle.Render("▶  playing")
	if m.paused {
		state = pausedStyle.Render("❚❚ paused")
	}
	status := state + "  " + statusStyle.Render(renderVolumePercent(m.volume))
	if m.showStats {
		status += "  " + statsStyle.Render(fmt.Sprintf("frames %d  tris %d  %s", m.frames, m.triangles, renderStats(m.stats)))
	}

	var b strings.Builder
	b.WriteString(header + "\n")
	if canvas := m.renderer.View(); canvas != "" {
		b.WriteString(canvas + "\n")
	}
	b.WriteString(progressLine + "\n")
	b.WriteString(status + "\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " - " + appName
	}
	return "▶ " + title + " - " + appName
}
