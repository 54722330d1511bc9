// Package physics is the minimal rigid-body collaborator for Hexfall: it
// drifts free blocks toward the center, reports contacts with the
// structure and answers the spatial queries the linker needs.
package physics

import (
	"math"
	"sort"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

// Config holds the solver tuning.
type Config struct {
	// ContactScale multiplies the edge-to-edge distance (2·apothem) to get
	// the center distance at which a free block touches the structure.
	ContactScale float64
}

// DefaultConfig returns the stock solver tuning.
func DefaultConfig() Config {
	return Config{ContactScale: 1.0}
}

// World integrates free blocks over a board.
type World struct {
	board *core.Board
	cfg   Config
}

// NewWorld creates a world over the board.
func NewWorld(b *core.Board, cfg Config) *World {
	if cfg.ContactScale <= 0 {
		cfg.ContactScale = 1
	}
	return &World{board: b, cfg: cfg}
}

// contactDistance is the center distance at which two blocks touch.
func (w *World) contactDistance() float64 {
	return 2 * w.board.Geometry().Apothem() * w.cfg.ContactScale
}

// Step moves every simulated block toward the center at its current
// speed and returns the contacts, ordered by free id then attached id.
func (w *World) Step(dt float64) []core.Contact {
	center := w.board.Central().Pose.Pos

	var free, attached []*core.Node
	w.board.Each(func(n *core.Node) {
		switch {
		case n.Simulated:
			free = append(free, n)
		case n.Attached:
			attached = append(attached, n)
		}
	})

	for _, n := range free {
		speed := n.Motion.Vel.Len()
		n.Motion.Vel = center.Sub(n.Pose.Pos).Normalized().Scale(speed)
		n.Pose.Pos = n.Pose.Pos.Add(n.Motion.Vel.Scale(dt))
		n.Pose.Rot = core.NormalizeAngle(n.Pose.Rot + n.Motion.Spin*dt)
	}

	touch := w.contactDistance()
	var contacts []core.Contact
	for _, f := range free {
		for _, a := range attached {
			d := f.Pose.Pos.Dist(a.Pose.Pos)
			if d > touch {
				continue
			}
			contacts = append(contacts, core.Contact{Free: f.ID, Attached: a.ID, Distance: d})
			w.separate(f, a, touch)
		}
	}

	sort.SliceStable(contacts, func(i, j int) bool {
		if contacts[i].Free != contacts[j].Free {
			return contacts[i].Free < contacts[j].Free
		}
		return contacts[i].Attached < contacts[j].Attached
	})
	return contacts
}

// separate pushes a free block back out of an attached one.
func (w *World) separate(f, a *core.Node, touch float64) {
	delta := f.Pose.Pos.Sub(a.Pose.Pos)
	d := delta.Len()
	if d >= touch {
		return
	}
	normal := delta.Normalized()
	if d == 0 {
		normal = core.V(0, 1)
	}
	f.Pose.Pos = a.Pose.Pos.Add(normal.Scale(touch))
}

// onLayer reports whether a node belongs to one of the masked layers.
func onLayer(n *core.Node, mask core.LayerMask) bool {
	if mask&core.LayerAttached != 0 && n.Attached {
		return true
	}
	if mask&core.LayerFree != 0 && n.IsFree() {
		return true
	}
	return false
}

// Raycast implements core.SpatialQuery.
func (w *World) Raycast(origin, dir core.Vec2, maxLen float64, mask core.LayerMask) (core.RayHit, bool) {
	dir = dir.Normalized()
	if dir.LenSq() == 0 {
		return core.RayHit{}, false
	}

	best := core.RayHit{Node: core.NoNode, Distance: math.Inf(1)}
	w.board.Each(func(n *core.Node) {
		if !onLayer(n, mask) {
			return
		}
		poly := w.board.Polygon(n.ID)
		if t, ok := rayPolygon(origin, dir, maxLen, poly); ok && t < best.Distance {
			best = core.RayHit{Node: n.ID, Point: origin.Add(dir.Scale(t)), Distance: t}
		}
	})

	if best.Node == core.NoNode {
		return core.RayHit{}, false
	}
	return best, true
}

// ClosestPoint implements core.SpatialQuery. Points inside the collider
// are returned unchanged.
func (w *World) ClosestPoint(id core.NodeID, p core.Vec2) core.Vec2 {
	poly := w.board.Polygon(id)
	if core.PointInPolygon(poly, p) {
		return p
	}
	bestDist := math.Inf(1)
	var best core.Vec2
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		d, q := core.SegmentDistSq(a, b, p)
		if d < bestDist {
			bestDist = d
			best = q
		}
	}
	return best
}

// rayPolygon returns the distance along the ray to the polygon, zero if
// the origin is inside it.
func rayPolygon(origin, dir core.Vec2, maxLen float64, poly []core.Vec2) (float64, bool) {
	if core.PointInPolygon(poly, origin) {
		return 0, true
	}
	best := math.Inf(1)
	for i := range poly {
		a := poly[i]
		b := poly[(i+1)%len(poly)]
		if t, ok := raySegment(origin, dir, a, b); ok && t <= maxLen && t < best {
			best = t
		}
	}
	if math.IsInf(best, 1) {
		return 0, false
	}
	return best, true
}

// raySegment intersects a ray with the segment ab.
func raySegment(origin, dir, a, b core.Vec2) (float64, bool) {
	s := b.Sub(a)
	denom := dir.Cross(s)
	if math.Abs(denom) < 1e-12 {
		return 0, false
	}
	ao := a.Sub(origin)
	t := ao.Cross(s) / denom
	u := ao.Cross(dir) / denom
	if t < 0 || u < 0 || u > 1 {
		return 0, false
	}
	return t, true
}

var _ core.Physics = (*World)(nil)
