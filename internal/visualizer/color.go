package visualizer

import (
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"
)

type colorProfile = termenv.Profile

const (
	colorNone      = termenv.Ascii
	colorANSI16    = termenv.ANSI
	colorANSI256   = termenv.ANSI256
	colorTrueColor = termenv.TrueColor
)

// currentColorProfile follows lipgloss' terminal detection, which honours
// COLORTERM, TERM and NO_COLOR.
func currentColorProfile() colorProfile {
	return lipgloss.ColorProfile()
}

// Palette maps a normalised bar height (0 floor, 1 maximum) to a color.
type Palette func(t float64) colorful.Color

// DefaultTexture is the texture name of the built-in height gradient.
const DefaultTexture = "default"

var palettes = map[string]Palette{
	DefaultTexture: heatGradient.at,
	"ocean":        oceanGradient.at,
	"mono":         monoGradient.at,
}

// lookupPalette returns the palette registered for a texture name.
func lookupPalette(name string) (Palette, bool) {
	p, ok := palettes[strings.ToLower(name)]
	return p, ok
}

// gradient is a list of evenly spaced color stops.
type gradient []colorful.Color

var (
	heatGradient = gradient{
		rgb(16, 25, 70),
		rgb(0, 174, 255),
		rgb(20, 255, 161),
		rgb(255, 230, 92),
		rgb(255, 80, 60),
	}
	oceanGradient = gradient{
		rgb(8, 30, 80),
		rgb(30, 120, 200),
		rgb(200, 245, 255),
	}
	monoGradient = gradient{
		rgb(90, 90, 90),
		rgb(255, 255, 255),
	}
)

func rgb(r, g, b uint8) colorful.Color {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}
}

func (g gradient) at(t float64) colorful.Color {
	if len(g) == 1 {
		return g[0]
	}
	pos := clamp01(t) * float64(len(g)-1)
	i := min(int(pos), len(g)-2)
	return g[i].BlendRgb(g[i+1], pos-float64(i)).Clamped()
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}

var seqCache sync.Map

// colorSequence returns the SGR escape that selects c as foreground under
// profile, or "" when the profile has no colors.
func colorSequence(profile colorProfile, c colorful.Color) string {
	hex := c.Hex()
	key := strconv.Itoa(int(profile)) + hex
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	if params := profile.Color(hex).Sequence(false); params != "" {
		seq = termenv.CSI + params + "m"
	}
	seqCache.Store(key, seq)
	return seq
}

// ansiState emits color changes only when the color actually changes along
// a line.
type ansiState struct {
	profile colorProfile
	current string
}

func (s *ansiState) set(sb *strings.Builder, c colorful.Color) {
	if s.profile == colorNone {
		return
	}
	seq := colorSequence(s.profile, c)
	if seq == s.current {
		return
	}
	sb.WriteString(seq)
	s.current = seq
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.current == "" {
		return
	}
	sb.WriteString(termenv.CSI + termenv.ResetSeq + "m")
	s.current = ""
}
