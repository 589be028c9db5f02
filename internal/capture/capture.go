// Package capture samples the playing audio at a fixed rate and feeds
// frequency frames to the bridge.
package capture

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/olivier-w/audiovis/internal/bridge"
	"github.com/olivier-w/audiovis/internal/config"
)

// Source returns up to n of the most recent mono samples, oldest first.
type Source interface {
	Latest(n int) []float32
}

// Sink accepts frames. *bridge.Bridge implements it.
type Sink interface {
	Push(ctx context.Context, frame bridge.Frame) error
}

// Capture ticks at processing.frequency, analyzes the newest block of the
// source and pushes the frame into the sink.
type Capture struct {
	source     Source
	sink       Sink
	analyzer   *Analyzer
	sampleRate int
	interval   time.Duration
}

// New creates a capture loop for a source playing at sampleRate.
func New(cfg config.Config, source Source, sink Sink, sampleRate int) *Capture {
	hz := max(int(cfg.Processing.Frequency), 1)
	return &Capture{
		source:     source,
		sink:       sink,
		analyzer:   NewAnalyzer(cfg),
		sampleRate: sampleRate,
		interval:   time.Second / time.Duration(hz),
	}
}

// Run blocks until ctx is cancelled (returns nil) or the sink fails.
// Ticks without any buffered audio are skipped.
func (c *Capture) Run(ctx context.Context) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		if err := c.Step(ctx); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			slog.Error("capture: push failed", "error", err)
			return err
		}
	}
}

// Step runs a single capture cycle.
func (c *Capture) Step(ctx context.Context) error {
	samples := c.source.Latest(c.analyzer.resolution)
	if len(samples) == 0 {
		return nil
	}
	frame := c.analyzer.Analyze(samples, c.sampleRate)
	if frame == nil {
		return nil
	}
	return c.sink.Push(ctx, frame)
}
