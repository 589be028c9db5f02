package mesh

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	floorY    = -1.0
	maxHeight = 2.0
	barFill   = 0.8 // share of each Bars1 slot covered by the bar
)

// Bars1 draws every bar as a separate upright quad with a gap to its
// neighbour.
func Bars1(history [][]float32, p Params) Mesh {
	var m Mesh
	for z, frame := range history {
		n := len(frame)
		if n == 0 {
			continue
		}
		depth := -float32(z) * p.ZWidth
		slot := 2 * p.Width / float32(n)
		for i, v := range frame {
			h, uvY := barHeight(v, p)
			x0 := -p.Width + slot*float32(i)
			x1 := x0 + slot*barFill
			u := (float32(i) + 0.5) / float32(n)
			m.addQuad(
				vertex(x0, floorY, depth, u, 0),
				vertex(x1, floorY, depth, u, 0),
				vertex(x1, floorY+h, depth, u, uvY),
				vertex(x0, floorY+h, depth, u, uvY),
			)
		}
	}
	return m
}

// Bars2 joins the tops of neighbouring bars into one continuous ribbon per
// frame. A single-bar frame becomes a full-width block.
func Bars2(history [][]float32, p Params) Mesh {
	var m Mesh
	for z, frame := range history {
		n := len(frame)
		if n == 0 {
			continue
		}
		depth := -float32(z) * p.ZWidth
		if n == 1 {
			h, uvY := barHeight(frame[0], p)
			m.addQuad(
				vertex(-p.Width, floorY, depth, 0, 0),
				vertex(p.Width, floorY, depth, 1, 0),
				vertex(p.Width, floorY+h, depth, 1, uvY),
				vertex(-p.Width, floorY+h, depth, 0, uvY),
			)
			continue
		}

		slot := 2 * p.Width / float32(n)
		for i := 0; i < n-1; i++ {
			hA, uvA := barHeight(frame[i], p)
			hB, uvB := barHeight(frame[i+1], p)
			xA := -p.Width + slot*(float32(i)+0.5)
			xB := xA + slot
			uA := (float32(i) + 0.5) / float32(n)
			uB := (float32(i) + 1.5) / float32(n)
			m.addQuad(
				vertex(xA, floorY, depth, uA, 0),
				vertex(xB, floorY, depth, uB, 0),
				vertex(xB, floorY+hB, depth, uB, uvB),
				vertex(xA, floorY+hA, depth, uA, uvA),
			)
		}
	}
	return m
}

// barHeight maps a magnitude to a clamped bar height and its normalised
// value: (v*amplitude)^factoring.
func barHeight(v float32, p Params) (float32, float32) {
	if v <= 0 || p.VolumeAmplitude <= 0 {
		return 0, 0
	}
	h := float32(math.Pow(float64(v*p.VolumeAmplitude), float64(p.VolumeFactoring)))
	if math.IsNaN(float64(h)) || h < 0 {
		return 0, 0
	}
	if h > maxHeight {
		h = maxHeight
	}
	return h, h / maxHeight
}

func vertex(x, y, z, u, v float32) Vertex {
	return Vertex{Position: mgl32.Vec3{x, y, z}, UV: mgl32.Vec2{u, v}}
}
