package visualizer

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/olivier-w/audiovis/internal/mesh"
)

// screenPoint is a projected vertex in dot coordinates.
type screenPoint struct {
	x, y  float32
	level float32
	ok    bool // in front of the camera
}

// DrawMesh projects m with vp and fills its triangles into the canvas. The
// level of each dot is the interpolated UV.Y of the mesh. Triangles with a
// vertex behind the camera or an out-of-range index are skipped.
func (c *Canvas) DrawMesh(m mesh.Mesh, vp mgl32.Mat4) {
	w, h := c.Dots()
	pts := make([]screenPoint, len(m.Vertices))
	for i, v := range m.Vertices {
		clip := vp.Mul4x1(v.Position.Vec4(1))
		if clip.W() <= 1e-6 {
			continue
		}
		ndc := clip.Vec3().Mul(1 / clip.W())
		pts[i] = screenPoint{
			x:     (ndc.X() + 1) / 2 * float32(w),
			y:     (1 - ndc.Y()) / 2 * float32(h),
			level: v.UV.Y(),
			ok:    true,
		}
	}

	n := uint32(len(pts))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		ia, ib, ic := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		if ia >= n || ib >= n || ic >= n {
			continue
		}
		a, b, p := pts[ia], pts[ib], pts[ic]
		if !a.ok || !b.ok || !p.ok {
			continue
		}
		c.fillTriangle(a, b, p)
	}
}

func edge(a, b screenPoint, x, y float32) float32 {
	return (b.x-a.x)*(y-a.y) - (b.y-a.y)*(x-a.x)
}

// fillTriangle samples dot centers inside the triangle. A degenerate
// triangle (a zero-height bar) is drawn as its outline so it still shows.
func (c *Canvas) fillTriangle(a, b, p screenPoint) {
	area := edge(a, b, p.x, p.y)
	if float32(math.Abs(float64(area))) < 1e-4 {
		c.line(a, b)
		c.line(b, p)
		return
	}

	w, h := c.Dots()
	minX := max(0, int(floor32(min(a.x, b.x, p.x))))
	maxX := min(w-1, int(floor32(max(a.x, b.x, p.x))))
	minY := max(0, int(floor32(min(a.y, b.y, p.y))))
	maxY := min(h-1, int(floor32(max(a.y, b.y, p.y))))

	for y := minY; y <= maxY; y++ {
		cy := float32(y) + 0.5
		for x := minX; x <= maxX; x++ {
			cx := float32(x) + 0.5
			w0 := edge(b, p, cx, cy) / area
			w1 := edge(p, a, cx, cy) / area
			w2 := edge(a, b, cx, cy) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			c.Plot(x, y, w0*a.level+w1*b.level+w2*p.level)
		}
	}
}

// line plots a straight run of dots from a to b.
func (c *Canvas) line(a, b screenPoint) {
	dx, dy := b.x-a.x, b.y-a.y
	steps := int(math.Ceil(math.Max(math.Abs(float64(dx)), math.Abs(float64(dy)))))
	if steps == 0 {
		c.Plot(int(floor32(a.x)), int(floor32(a.y)), a.level)
		return
	}
	// cap so a wild projection cannot stall a frame
	steps = min(steps, 4096)
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		c.Plot(int(floor32(a.x+dx*t)), int(floor32(a.y+dy*t)), a.level+(b.level-a.level)*t)
	}
}

func floor32(v float32) float32 {
	return float32(math.Floor(float64(v)))
}
