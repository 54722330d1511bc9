// Package core provides the connectivity, linking and matching engine for
// the Hexfall puzzle. It is UI-agnostic and deterministic for a given seed.
package core

import (
	"fmt"
	"math"
	"strings"
)

// EdgeIndex names one of the six edges of a hex block.
// The numeric values are load-bearing: they index Node.Links and the
// polygon edge table.
type EdgeIndex uint8

const (
	EdgeRightTop EdgeIndex = iota
	EdgeRightBottom
	EdgeBottom
	EdgeLeftBottom
	EdgeLeftTop
	EdgeTop
)

// EdgeCount is the number of edges of a hex block.
const EdgeCount = 6

// edgeStep is the angular distance between two consecutive edges.
const edgeStep = math.Pi / 3

// AllEdges lists every edge in index order.
var AllEdges = [EdgeCount]EdgeIndex{
	EdgeRightTop, EdgeRightBottom, EdgeBottom, EdgeLeftBottom, EdgeLeftTop, EdgeTop,
}

// edgeOffsets holds the unit normal of every edge in the block's local frame.
// Edge k points at 30° - 60°·k.
var edgeOffsets = func() [EdgeCount]Vec2 {
	var out [EdgeCount]Vec2
	for k := range out {
		out[k] = FromAngle(math.Pi/6 - float64(k)*edgeStep)
	}
	return out
}()

// String returns the name of the edge.
func (e EdgeIndex) String() string {
	switch e {
	case EdgeRightTop:
		return "RightTop"
	case EdgeRightBottom:
		return "RightBottom"
	case EdgeBottom:
		return "Bottom"
	case EdgeLeftBottom:
		return "LeftBottom"
	case EdgeLeftTop:
		return "LeftTop"
	case EdgeTop:
		return "Top"
	default:
		return "Invalid"
	}
}

// ParseEdge converts a config token such as "right_top" or "Top" to an
// EdgeIndex.
func ParseEdge(token string) (EdgeIndex, error) {
	norm := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(token))
	for _, e := range AllEdges {
		if strings.ToLower(e.String()) == norm {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown edge %q", ErrInvalidConfig, token)
}

// Valid reports whether e is one of the six edges.
func (e EdgeIndex) Valid() bool {
	return e < EdgeCount
}

// Opposite returns the edge facing the other way.
func (e EdgeIndex) Opposite() EdgeIndex {
	return (e + 3) % EdgeCount
}

// Offset returns the unit direction from the block center through the
// midpoint of this edge, in the block's local frame.
func (e EdgeIndex) Offset() Vec2 {
	if !e.Valid() {
		invariant("EdgeIndex.Offset", "edge index %d out of range", e)
	}
	return edgeOffsets[e]
}

// Direction returns Offset rotated into world space by rotation.
func (e EdgeIndex) Direction(rotation float64) Vec2 {
	return e.Offset().Rotate(rotation)
}

// Geometry holds the size constants of the hex lattice.
type Geometry struct {
	Radius         float64 // Center to vertex distance
	AttachOffset   float64 // Center to center distance of two linked blocks
	NeighbourRange float64 // Length of the inverse neighbour probe
}

// DefaultGeometry returns the geometry of a unit-radius lattice.
func DefaultGeometry() Geometry {
	return NewGeometry(1)
}

// NewGeometry derives the attach offset and probe range from the radius.
func NewGeometry(radius float64) Geometry {
	g := Geometry{Radius: radius}
	g.AttachOffset = 2 * g.Apothem()
	g.NeighbourRange = g.Apothem()
	return g
}

// Apothem returns the center to edge-midpoint distance.
func (g Geometry) Apothem() float64 {
	return g.Radius * math.Sqrt(3) / 2
}

// Validate checks the geometry for usable values.
func (g Geometry) Validate() error {
	if g.Radius <= 0 || g.AttachOffset <= 0 || g.NeighbourRange <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// HexPolygon returns the six vertices of a hex block in world space.
// Vertex k sits at -60°·k, so polygon edge k (vertex k-1 to vertex k)
// is EdgeIndex k.
func HexPolygon(center Vec2, rotation, radius float64) []Vec2 {
	pts := make([]Vec2, EdgeCount)
	for k := range pts {
		pts[k] = center.Add(FromAngle(rotation - float64(k)*edgeStep).Scale(radius))
	}
	return pts
}

// SegmentDistSq returns the squared distance from q to the segment ab
// together with the closest point on it.
func SegmentDistSq(a, b, q Vec2) (float64, Vec2) {
	ab := b.Sub(a)
	lenSq := ab.LenSq()
	if lenSq == 0 {
		return q.DistSq(a), a
	}
	t := q.Sub(a).Dot(ab) / lenSq
	t = math.Max(0, math.Min(1, t))
	p := a.Add(ab.Scale(t))
	return q.DistSq(p), p
}

// ClosestEdge returns the polygon edge nearest to q along with its end
// points. Edges are walked as points[i-1] -> points[i] with wrap-around,
// and the first minimum wins ties.
// A polygon that yields an index outside the six edges is a corrupt
// collider and panics.
func ClosestEdge(points []Vec2, q Vec2) (EdgeIndex, Vec2, Vec2) {
	n := len(points)
	if n < 2 {
		invariant("ClosestEdge", "polygon has %d points", n)
	}

	best := -1
	bestDist := math.Inf(1)
	for i := 0; i < n; i++ {
		prev := points[(i+n-1)%n]
		d, _ := SegmentDistSq(prev, points[i], q)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}

	if best < 0 || best >= EdgeCount {
		invariant("ClosestEdge", "closest edge %d outside 0..%d", best, EdgeCount-1)
	}
	return EdgeIndex(best), points[(best+n-1)%n], points[best]
}

// PointInPolygon reports whether q lies inside the convex polygon.
func PointInPolygon(points []Vec2, q Vec2) bool {
	n := len(points)
	if n < 3 {
		return false
	}
	sign := 0
	for i := 0; i < n; i++ {
		a := points[i]
		b := points[(i+1)%n]
		c := b.Sub(a).Cross(q.Sub(a))
		switch {
		case c > 0:
			if sign < 0 {
				return false
			}
			sign = 1
		case c < 0:
			if sign > 0 {
				return false
			}
			sign = -1
		}
	}
	return true
}
