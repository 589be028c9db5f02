package ui

import (
	"fmt"

	"github.com/olivier-w/audiovis/internal/bridge"
)

func renderVolumePercent(vol float64) string {
	return fmt.Sprintf("vol %d%%", int(vol*100+0.5))
}

func renderStats(s bridge.Stats) string {
	return fmt.Sprintf("pushes %d  meshes %d  stale %d  reply drops %d  building %d  depth %d",
		s.Pushes, s.Meshes, s.Stale, s.ReplyDrops, s.InFlight, s.Depth)
}

func progressRatio(elapsed, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return min(max(elapsed/total, 0), 1)
}
