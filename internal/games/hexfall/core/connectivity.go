package core

// FindFloating re-derives every node's Attached flag from reachability and
// returns the live nodes that can no longer reach Central, in ascending id
// order. Call it once after a batch of destructions, not per destroy.
func (b *Board) FindFloating() []NodeID {
	visited := make([]bool, len(b.nodes))
	queue := []NodeID{b.central}
	visited[b.central] = true

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		n := b.nodes[id]
		n.Attached = true
		for _, l := range n.Links {
			if l.Empty() || visited[l.Node] {
				continue
			}
			nb := b.Node(l.Node)
			if nb == nil || nb.Destroyed {
				continue
			}
			visited[l.Node] = true
			queue = append(queue, l.Node)
		}
	}

	var floating []NodeID
	for id, n := range b.nodes {
		if n == nil || n.Destroyed || visited[id] {
			continue
		}
		n.Attached = false
		// Free blocks were never part of the structure.
		if !n.Parented {
			continue
		}
		floating = append(floating, NodeID(id))
	}
	return floating
}

// Reachable reports whether id can reach Central through links. It does not
// touch any flags.
func (b *Board) Reachable(id NodeID) bool {
	if b.Node(id) == nil {
		return false
	}
	visited := map[NodeID]bool{id: true}
	queue := []NodeID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == b.central {
			return true
		}
		for _, l := range b.nodes[cur].Links {
			if l.Empty() || visited[l.Node] || b.Node(l.Node) == nil {
				continue
			}
			visited[l.Node] = true
			queue = append(queue, l.Node)
		}
	}
	return false
}
