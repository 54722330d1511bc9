package core

// LayerMask selects which bodies a spatial query considers.
type LayerMask uint8

const (
	LayerFree LayerMask = 1 << iota
	LayerAttached

	LayerAll = LayerFree | LayerAttached
)

// RayHit is the first body a raycast touched.
type RayHit struct {
	Node     NodeID
	Point    Vec2
	Distance float64
}

// SpatialQuery is the collider lookup provided by the physics collaborator.
type SpatialQuery interface {
	// Raycast returns the first body on the masked layers hit by the ray.
	// A ray starting inside a body hits it at distance zero.
	Raycast(origin, dir Vec2, maxLen float64, mask LayerMask) (RayHit, bool)

	// ClosestPoint returns the point of the node's collider nearest to p.
	ClosestPoint(id NodeID, p Vec2) Vec2
}

// pendingLink is one tentative adjacency found by a probe pass.
type pendingLink struct {
	edge         EdgeIndex
	neighbor     NodeID
	neighborEdge EdgeIndex
}

// attachSnapshot is the state restored when an attach is rolled back.
type attachSnapshot struct {
	pose     Pose
	parented bool
}

// Linker runs the collision-driven attach transaction.
type Linker struct {
	board *Board
	query SpatialQuery
}

// NewLinker creates a linker over a board and a spatial query.
func NewLinker(b *Board, q SpatialQuery) *Linker {
	return &Linker{board: b, query: q}
}

// OnCollision handles a contact reported by physics. Only Free-vs-Attached
// contacts are considered; anything else is ignored.
// Returns the free node and the number of links created (0 = no attach).
func (l *Linker) OnCollision(a, c NodeID) (NodeID, int) {
	na, nc := l.board.Node(a), l.board.Node(c)
	if na == nil || nc == nil {
		return NoNode, 0
	}

	var free, other *Node
	switch {
	case na.IsFree() && nc.Attached:
		free, other = na, nc
	case nc.IsFree() && na.Attached:
		free, other = nc, na
	default:
		return NoNode, 0
	}

	contact := l.query.ClosestPoint(other.ID, free.Pose.Pos)
	return free.ID, l.LinkWithNeighbours(free.ID, other.ID, contact)
}

// LinkWithNeighbours snaps a free node onto the lattice next to other and
// links it with every neighbor found around its new position.
// The pass is all-or-nothing: on any conflict, or when no neighbor is
// found, the node is restored to its pre-call pose and 0 is returned.
func (l *Linker) LinkWithNeighbours(freeID, otherID NodeID, contact Vec2) int {
	f := l.board.mustNode("Linker.LinkWithNeighbours", freeID)
	o := l.board.mustNode("Linker.LinkWithNeighbours", otherID)
	if !f.IsFree() || !o.Attached {
		return 0
	}

	snap := attachSnapshot{pose: f.Pose, parented: f.Parented}

	edgeO, _, _ := ClosestEdge(l.board.Polygon(o.ID), contact)
	if !o.Links[edgeO].Empty() {
		return 0
	}
	edgeF, _, _ := ClosestEdge(l.board.Polygon(f.ID), contact)

	// Turn F so its contact edge faces O's contact edge, then snap it into
	// the lattice cell beyond that edge.
	toEdgeO := edgeO.Direction(o.Pose.Rot)
	toCenterF := edgeF.Direction(f.Pose.Rot).Neg()
	f.Pose.Rot = NormalizeAngle(f.Pose.Rot + NormalizeAngle(toEdgeO.Angle()-toCenterF.Angle()))
	f.Pose.Pos = o.Pose.Pos.Add(toEdgeO.Scale(l.board.geom.AttachOffset))
	f.Parented = true

	pending := l.probe(f)
	if len(pending) == 0 {
		f.Pose = snap.pose
		f.Parented = snap.parented
		return 0
	}

	l.commit(f, pending)
	return len(pending)
}

// Settle links a node at its current pose without snapping. Used when a
// level seeds blocks directly onto the lattice.
func (l *Linker) Settle(id NodeID) int {
	n := l.board.mustNode("Linker.Settle", id)
	if n.Attached || n.Destroyed {
		return 0
	}
	pending := l.probe(n)
	if len(pending) == 0 {
		return 0
	}
	l.commit(n, pending)
	return len(pending)
}

// probe casts a short ray from each of the six neighbor cells back toward
// the node and collects the links it would form. Any ambiguity aborts the
// whole pass and returns nil.
func (l *Linker) probe(f *Node) []pendingLink {
	geom := l.board.geom
	poly := HexPolygon(f.Pose.Pos, f.Pose.Rot, geom.Radius)

	var pending []pendingLink
	var usedEdge [EdgeCount]bool

	for _, d := range AllEdges {
		dir := d.Direction(f.Pose.Rot)
		origin := f.Pose.Pos.Add(dir.Scale(geom.AttachOffset))

		hit, ok := l.query.Raycast(origin, dir.Neg(), geom.NeighbourRange, LayerAttached)
		if !ok || hit.Node == f.ID {
			continue
		}
		nb := l.board.Node(hit.Node)
		if nb == nil || !nb.Attached {
			continue
		}

		mid := f.Pose.Pos.Add(nb.Pose.Pos).Scale(0.5)
		edgeN, _, _ := ClosestEdge(l.board.Polygon(nb.ID), mid)
		edgeF, _, _ := ClosestEdge(poly, mid)

		if !nb.Links[edgeN].Empty() || usedEdge[edgeF] {
			return nil
		}
		for _, p := range pending {
			if p.neighbor == nb.ID && p.neighborEdge == edgeN {
				return nil
			}
		}

		usedEdge[edgeF] = true
		pending = append(pending, pendingLink{edge: edgeF, neighbor: nb.ID, neighborEdge: edgeN})
	}

	return pending
}

// commit writes every pending link on both sides and freezes the node.
func (l *Linker) commit(f *Node, pending []pendingLink) {
	for _, p := range pending {
		l.board.link(f.ID, p.edge, p.neighbor, p.neighborEdge)
	}
	f.Simulated = false
	f.Attached = true
	f.Parented = true
	f.Motion = Motion{}
}
