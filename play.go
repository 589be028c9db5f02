package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/olivier-w/audiovis/internal/bridge"
	"github.com/olivier-w/audiovis/internal/capture"
	"github.com/olivier-w/audiovis/internal/config"
	"github.com/olivier-w/audiovis/internal/player"
	"github.com/olivier-w/audiovis/internal/ui"
)

// play runs one visualization session for path: audio playback, the
// capture loop, the processing actor and the TUI.
func play(cfg config.Config, path string) error {
	meta := player.ReadMetadata(path)

	p, err := player.New(path)
	if err != nil {
		return fmt.Errorf("creating player: %w", err)
	}
	defer p.Close()

	b := bridge.New(cfg)
	model := ui.New(cfg, p, b, meta)

	opts := []tea.ProgramOption{}
	if cfg.Visual.Fullscreen {
		opts = append(opts, tea.WithAltScreen())
	}
	program := tea.NewProgram(model, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := b.Run(ctx); err != nil {
			slog.Error("bridge stopped", "error", err)
			program.Send(ui.FatalMsg{Err: err})
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		c := capture.New(cfg, p.Tap(), b, p.SampleRate())
		if err := c.Run(ctx); err != nil {
			program.Send(ui.FatalMsg{Err: err})
		}
	}()

	finalModel, runErr := program.Run()
	cancel()
	wg.Wait()

	if runErr != nil {
		return runErr
	}
	if m, ok := finalModel.(ui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}
