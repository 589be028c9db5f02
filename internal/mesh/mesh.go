// Package mesh turns a frame history into renderable triangle geometry.
//
// Builders are pure functions: the same history and parameters always
// produce the same mesh. History index 0 is the newest frame and sits nearest
// to the camera; older frames step back along -Z by ZWidth each.
package mesh

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrUnknownVisualisation is returned by Lookup for names other than
// "Bars1" and "Bars2".
var ErrUnknownVisualisation = errors.New("invalid visualisation")

// Vertex is one mesh vertex. UV.X is the bar position across the frame
// (0..1) and UV.Y the normalised height, which the rasterizer uses for color.
type Vertex struct {
	Position mgl32.Vec3
	UV       mgl32.Vec2
}

// Mesh is an indexed triangle list.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// Clone returns a deep copy that shares no backing arrays with m.
func (m Mesh) Clone() Mesh {
	out := Mesh{}
	if m.Vertices != nil {
		out.Vertices = append([]Vertex(nil), m.Vertices...)
	}
	if m.Indices != nil {
		out.Indices = append([]uint32(nil), m.Indices...)
	}
	return out
}

// Triangles returns the number of complete triangles.
func (m Mesh) Triangles() int {
	return len(m.Indices) / 3
}

// Empty reports whether the mesh has no triangles.
func (m Mesh) Empty() bool {
	return len(m.Indices) < 3
}

// Params carries the scale parameters shared by every builder.
type Params struct {
	Width           float32
	ZWidth          float32
	VolumeAmplitude float32
	VolumeFactoring float32
}

// Builder builds a mesh from a newest-first frame history.
type Builder func(history [][]float32, p Params) Mesh

// Lookup returns the builder registered under name.
func Lookup(name string) (Builder, error) {
	switch name {
	case "Bars1":
		return Bars1, nil
	case "Bars2":
		return Bars2, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownVisualisation, name)
	}
}

func (m *Mesh) addQuad(a, b, c, d Vertex) {
	base := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, a, b, c, d)
	m.Indices = append(m.Indices,
		base, base+1, base+2,
		base, base+2, base+3,
	)
}
