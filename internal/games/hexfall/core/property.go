package core

import (
	"fmt"
	"strings"
)

// PropertyKind is the closed set of special match properties.
type PropertyKind uint8

const (
	PropertyNone PropertyKind = iota
	PropertyChained
	PropertyGlow
	PropertyBomb
)

// String returns the config token of the property.
func (k PropertyKind) String() string {
	switch k {
	case PropertyNone:
		return "none"
	case PropertyChained:
		return "chained"
	case PropertyGlow:
		return "glow"
	case PropertyBomb:
		return "bomb"
	default:
		return fmt.Sprintf("PropertyKind(%d)", uint8(k))
	}
}

// ParseProperty converts a config token to a PropertyKind.
func ParseProperty(token string) (PropertyKind, error) {
	switch strings.ToLower(strings.TrimSpace(token)) {
	case "", "none":
		return PropertyNone, nil
	case "chained":
		return PropertyChained, nil
	case "glow":
		return PropertyGlow, nil
	case "bomb":
		return PropertyBomb, nil
	}
	return PropertyNone, fmt.Errorf("%w: %q", ErrUnknownProperty, token)
}

// MatchRule is what a property's hook asks the match engine to do.
type MatchRule uint8

const (
	// ContinueNormalMatching destroys the node with the rest of the match.
	ContinueNormalMatching MatchRule = iota
	// StopMatching cancels the whole match and removes the property.
	StopMatching
	// SpecialMatchRule lets the property pick an alternate destroy set.
	SpecialMatchRule
)

// String returns the name of the rule.
func (r MatchRule) String() string {
	switch r {
	case ContinueNormalMatching:
		return "ContinueNormalMatching"
	case StopMatching:
		return "StopMatching"
	case SpecialMatchRule:
		return "SpecialMatchRule"
	default:
		return "Unknown"
	}
}

// hookResult is the answer of a property's match hook.
type hookResult struct {
	rule   MatchRule
	remove bool // Remove the property from its node now
}

// onMatch is the match hook of every property kind.
func (k PropertyKind) onMatch() hookResult {
	switch k {
	case PropertyChained:
		return hookResult{rule: StopMatching, remove: true}
	case PropertyGlow, PropertyBomb:
		return hookResult{rule: SpecialMatchRule}
	default:
		return hookResult{rule: ContinueNormalMatching}
	}
}

// execute runs a SpecialMatchRule property and returns the nodes it wants
// destroyed and whether the property is spent.
func (k PropertyKind) execute(b *Board, n *Node) ([]NodeID, bool) {
	switch k {
	case PropertyGlow:
		// Every live block of the same color, anywhere on the board.
		var out []NodeID
		b.Each(func(other *Node) {
			if other.Attached && other.Type == n.Type {
				out = append(out, other.ID)
			}
		})
		return out, true

	case PropertyBomb:
		out := []NodeID{n.ID}
		for _, l := range n.Links {
			if l.Empty() {
				continue
			}
			if nb := b.Node(l.Node); nb != nil && nb.Type != BlockCentral {
				out = append(out, nb.ID)
			}
		}
		return out, true
	}
	return nil, false
}
