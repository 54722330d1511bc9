package core

import "sort"

// MatchOutcome describes what one attach did to the structure.
type MatchOutcome struct {
	Origin        NodeID   // The block whose attach triggered the check
	Flood         []NodeID // Same-type component around Origin
	Destroyed     []NodeID // Final destroy set, ascending
	Floating      []NodeID // Blocks cut off from Central, ascending
	Cancelled     bool     // A property stopped the match
	Score         int      // Match award, multiplier applied
	FloatingScore int      // Falling block award, multiplier applied
	Multiplier    int      // Multiplier used for both awards
	At            Vec2     // Where the match happened
}

// Matched reports whether the outcome removed any block.
func (o MatchOutcome) Matched() bool {
	return len(o.Destroyed) > 0
}

// Total returns the whole award of the outcome.
func (o MatchOutcome) Total() int {
	return o.Score + o.FloatingScore
}

// MatchEngine finds and clears same-type groups after every attach.
type MatchEngine struct {
	board      *Board
	scores     ScoreTable
	multiplier *Multiplier
	sink       EventSink
}

// NewMatchEngine creates a match engine.
func NewMatchEngine(b *Board, scores ScoreTable, m *Multiplier, sink EventSink) *MatchEngine {
	return &MatchEngine{
		board:      b,
		scores:     scores,
		multiplier: m,
		sink:       sinkOrDiscard(sink),
	}
}

// OnAttach flood-fills from a just-attached block and resolves the match:
// special properties, destruction, scoring, the floating prune and the
// multiplier bump.
func (m *MatchEngine) OnAttach(id NodeID) MatchOutcome {
	n := m.board.mustNode("MatchEngine.OnAttach", id)
	out := MatchOutcome{Origin: id, At: n.Pose.Pos, Multiplier: m.multiplier.Value()}
	if n.Type == BlockCentral || !n.Attached {
		return out
	}

	flood := m.flood(n)
	if len(flood) < MinMatchSize {
		return out
	}
	out.Flood = flood

	destroy := make(map[NodeID]bool, len(flood))
	for _, fid := range flood {
		destroy[fid] = true
	}

	// Run property hooks. Any StopMatching cancels the whole batch.
	var stopped, rules []*Node
	for _, fid := range flood {
		fn := m.board.Node(fid)
		if fn.Property == PropertyNone {
			continue
		}
		res := fn.Property.onMatch()
		if res.rule == SpecialMatchRule && res.remove {
			invariant("MatchEngine.OnAttach", "property %s on node %d asked for a rule and removal at once", fn.Property, fid)
		}
		switch res.rule {
		case StopMatching:
			stopped = append(stopped, fn)
		case SpecialMatchRule:
			rules = append(rules, fn)
		}
	}

	if len(stopped) > 0 {
		for _, s := range stopped {
			s.Property = PropertyNone
		}
		out.Cancelled = true
		m.sink.Emit(MatchResolvedEvent{Outcome: out})
		return out
	}

	for _, r := range rules {
		extra, spent := r.Property.execute(m.board, r)
		for _, eid := range extra {
			destroy[eid] = true
		}
		if spent {
			r.Property = PropertyNone
		}
	}

	out.Destroyed = sortedIDs(destroy)
	for _, did := range out.Destroyed {
		m.board.Destroy(did)
	}

	mult := m.multiplier.Value()
	out.Score = m.scores.MatchScore(len(out.Destroyed)) * mult
	m.sink.Emit(ScoreEvent{Delta: out.Score, At: out.At})

	out.Floating = m.board.FindFloating()
	for _, fid := range out.Floating {
		m.board.Destroy(fid)
	}
	if len(out.Floating) > 0 {
		out.FloatingScore = m.scores.FloatingScore(len(out.Floating)) * mult
		m.sink.Emit(ScoreEvent{Delta: out.FloatingScore, At: out.At, Floating: true})
	}

	m.multiplier.Increment()
	m.sink.Emit(MatchResolvedEvent{Outcome: out})
	return out
}

// DestroyBatch removes blocks destroyed outside of a match (obstructions),
// then prunes and removes everything left floating. Returns the floating set.
func (m *MatchEngine) DestroyBatch(ids []NodeID) []NodeID {
	for _, id := range ids {
		n := m.board.Node(id)
		if n == nil || n.Type == BlockCentral {
			continue
		}
		m.board.Destroy(id)
	}
	floating := m.board.FindFloating()
	for _, fid := range floating {
		m.board.Destroy(fid)
	}
	return floating
}

// flood returns the same-type linked component around n, n first.
func (m *MatchEngine) flood(n *Node) []NodeID {
	visited := map[NodeID]bool{n.ID: true}
	order := []NodeID{n.ID}
	queue := []*Node{n}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, l := range cur.Links {
			if l.Empty() || visited[l.Node] {
				continue
			}
			nb := m.board.Node(l.Node)
			if nb == nil || !MatchesWith(cur.Type, nb.Type) {
				continue
			}
			visited[l.Node] = true
			order = append(order, l.Node)
			queue = append(queue, nb)
		}
	}
	return order
}

func sortedIDs(set map[NodeID]bool) []NodeID {
	out := make([]NodeID, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
