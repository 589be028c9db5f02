package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/audiovis/internal/mesh"
)

// consumeTimeout bounds a single Consume round trip to the bridge.
const consumeTimeout = time.Second

type tickMsg time.Time
type playbackEndedMsg struct{}

type meshMsg struct {
	mesh mesh.Mesh
	err  error
}

// FatalMsg stops the program; Model.Err reports Err afterwards.
type FatalMsg struct {
	Err error
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func consumeCmd(src MeshSource) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), consumeTimeout)
		defer cancel()
		m, err := src.Consume(ctx)
		return meshMsg{mesh: m, err: err}
	}
}
