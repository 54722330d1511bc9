package core

// NodeID addresses a node in the Board arena.
type NodeID int32

// NoNode marks an empty link slot.
const NoNode NodeID = -1

// Link is one side of a bidirectional adjacency: the neighbor and the
// neighbor's edge that faces back.
type Link struct {
	Node NodeID
	Edge EdgeIndex
}

// EmptyLink returns an unoccupied link slot.
func EmptyLink() Link {
	return Link{Node: NoNode}
}

// Empty reports whether the slot is unoccupied.
func (l Link) Empty() bool {
	return l.Node == NoNode
}

// Pose is a position and rotation (radians) in playfield space.
type Pose struct {
	Pos Vec2
	Rot float64
}

// Motion is the velocity state driven by the physics collaborator.
type Motion struct {
	Vel  Vec2
	Spin float64
}

// Node is one hex cell.
type Node struct {
	ID        NodeID
	Type      BlockType
	Links     [EdgeCount]Link
	Attached  bool // Reachable from Central
	Destroyed bool
	Property  PropertyKind

	Pose      Pose
	Motion    Motion
	Simulated bool // Driven by the physics integrator
	Parented  bool // Carried by the rotating anchor
}

// IsFree reports whether the node is still drifting.
func (n *Node) IsFree() bool {
	return !n.Attached && !n.Destroyed
}

// LinkCount returns the number of occupied link slots.
func (n *Node) LinkCount() int {
	count := 0
	for _, l := range n.Links {
		if !l.Empty() {
			count++
		}
	}
	return count
}

// Neighbors returns the ids of every linked neighbor in edge order.
func (n *Node) Neighbors() []NodeID {
	out := make([]NodeID, 0, EdgeCount)
	for _, l := range n.Links {
		if !l.Empty() {
			out = append(out, l.Node)
		}
	}
	return out
}

// clearLinks empties every link slot.
func (n *Node) clearLinks() {
	for i := range n.Links {
		n.Links[i] = EmptyLink()
	}
}
