package core

import (
	"fmt"
	"math"
)

// Board is the arena that owns every node. Links are pairs of ids stored
// symmetrically on both sides; a destroyed node's slot is released only
// after both sides of each of its links are cleared.
type Board struct {
	geom    Geometry
	nodes   []*Node
	central NodeID
	live    int
}

// NewBoard creates a board holding only the Central block at the origin.
func NewBoard(geom Geometry) *Board {
	b := &Board{geom: geom}
	c := b.alloc(BlockCentral, Pose{})
	c.Attached = true
	c.Parented = true
	b.central = c.ID
	return b
}

// Geometry returns the lattice constants.
func (b *Board) Geometry() Geometry {
	return b.geom
}

// alloc appends a fresh node to the arena.
func (b *Board) alloc(t BlockType, pose Pose) *Node {
	n := &Node{
		ID:   NodeID(len(b.nodes)),
		Type: t,
		Pose: pose,
	}
	n.clearLinks()
	b.nodes = append(b.nodes, n)
	b.live++
	return n
}

// Create is the block factory: it adds a Free node driven by physics.
func (b *Board) Create(t BlockType, pos Vec2, rot float64) *Node {
	if t == BlockCentral {
		invariant("Board.Create", "a board has exactly one central block")
	}
	n := b.alloc(t, Pose{Pos: pos, Rot: rot})
	n.Simulated = true
	return n
}

// Central returns the root block.
func (b *Board) Central() *Node {
	return b.nodes[b.central]
}

// CentralID returns the id of the root block.
func (b *Board) CentralID() NodeID {
	return b.central
}

// Node returns the node with the given id, or nil if it was removed or
// never existed.
func (b *Board) Node(id NodeID) *Node {
	if id < 0 || int(id) >= len(b.nodes) {
		return nil
	}
	return b.nodes[id]
}

// mustNode returns a live node or panics.
func (b *Board) mustNode(op string, id NodeID) *Node {
	n := b.Node(id)
	if n == nil {
		invariant(op, "node %d does not exist", id)
	}
	return n
}

// Len returns the number of live nodes, Central included.
func (b *Board) Len() int {
	return b.live
}

// Each calls fn for every live node in ascending id order.
func (b *Board) Each(fn func(n *Node)) {
	for _, n := range b.nodes {
		if n != nil && !n.Destroyed {
			fn(n)
		}
	}
}

// AttachedCount returns the number of attached nodes, Central excluded.
func (b *Board) AttachedCount() int {
	count := 0
	b.Each(func(n *Node) {
		if n.Attached && n.Type != BlockCentral {
			count++
		}
	})
	return count
}

// Polygon returns the world-space collider of a node.
func (b *Board) Polygon(id NodeID) []Vec2 {
	n := b.mustNode("Board.Polygon", id)
	return HexPolygon(n.Pose.Pos, n.Pose.Rot, b.geom.Radius)
}

// link commits both sides of an adjacency.
func (b *Board) link(a NodeID, ea EdgeIndex, c NodeID, ec EdgeIndex) {
	if a == c {
		invariant("Board.link", "node %d linked to itself", a)
	}
	if !ea.Valid() || !ec.Valid() {
		invariant("Board.link", "edge out of range (%d, %d)", ea, ec)
	}
	na := b.mustNode("Board.link", a)
	nc := b.mustNode("Board.link", c)
	if !na.Links[ea].Empty() {
		invariant("Board.link", "edge %s of node %d already linked to %d", ea, a, na.Links[ea].Node)
	}
	if !nc.Links[ec].Empty() {
		invariant("Board.link", "edge %s of node %d already linked to %d", ec, c, nc.Links[ec].Node)
	}
	na.Links[ea] = Link{Node: c, Edge: ec}
	nc.Links[ec] = Link{Node: a, Edge: ea}
}

// unlink clears both sides of the link on edge e of node n.
func (b *Board) unlink(n *Node, e EdgeIndex) {
	l := n.Links[e]
	if l.Empty() {
		return
	}
	other := b.mustNode("Board.unlink", l.Node)
	back := other.Links[l.Edge]
	if back.Node != n.ID || back.Edge != e {
		invariant("Board.unlink", "asymmetric link %d.%s -> %d.%s", n.ID, e, l.Node, l.Edge)
	}
	other.Links[l.Edge] = EmptyLink()
	n.Links[e] = EmptyLink()
}

// Destroy unlinks a node from all of its neighbors and releases its slot.
func (b *Board) Destroy(id NodeID) {
	n := b.mustNode("Board.Destroy", id)
	if n.Type == BlockCentral {
		invariant("Board.Destroy", "central block cannot be destroyed")
	}
	if n.Destroyed {
		invariant("Board.Destroy", "node %d destroyed twice", id)
	}
	for _, e := range AllEdges {
		b.unlink(n, e)
	}
	n.Destroyed = true
	n.Attached = false
	n.Simulated = false
	b.nodes[id] = nil
	b.live--
}

// CheckLinks verifies link symmetry over the whole arena.
func (b *Board) CheckLinks() error {
	for _, n := range b.nodes {
		if n == nil {
			continue
		}
		for _, e := range AllEdges {
			l := n.Links[e]
			if l.Empty() {
				continue
			}
			other := b.Node(l.Node)
			if other == nil {
				return fmt.Errorf("node %d edge %s links to removed node %d", n.ID, e, l.Node)
			}
			if !l.Edge.Valid() {
				return fmt.Errorf("node %d edge %s links to invalid edge %d", n.ID, e, l.Edge)
			}
			back := other.Links[l.Edge]
			if back.Node != n.ID || back.Edge != e {
				return fmt.Errorf("asymmetric link %d.%s -> %d.%s", n.ID, e, l.Node, l.Edge)
			}
		}
	}
	return nil
}

// LatticePosition returns where a block linked on edge e of the given node
// would sit.
func (b *Board) LatticePosition(id NodeID, e EdgeIndex) Pose {
	n := b.mustNode("Board.LatticePosition", id)
	dir := e.Direction(n.Pose.Rot)
	return Pose{Pos: n.Pose.Pos.Add(dir.Scale(b.geom.AttachOffset)), Rot: n.Pose.Rot}
}

// RotateAttached turns every parented node around the central block.
func (b *Board) RotateAttached(angle float64) {
	if angle == 0 {
		return
	}
	pivot := b.Central().Pose.Pos
	b.Each(func(n *Node) {
		if !n.Parented {
			return
		}
		n.Pose.Pos = n.Pose.Pos.RotateAround(pivot, angle)
		n.Pose.Rot = NormalizeAngle(n.Pose.Rot + angle)
	})
}

// MaxAttachedDistance returns the distance from the center to the farthest
// attached block.
func (b *Board) MaxAttachedDistance() float64 {
	center := b.Central().Pose.Pos
	maxDist := 0.0
	b.Each(func(n *Node) {
		if n.Attached {
			maxDist = math.Max(maxDist, n.Pose.Pos.Dist(center))
		}
	})
	return maxDist
}
