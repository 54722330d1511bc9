package core_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
	"github.com/vovakirdan/hexfall/internal/games/hexfall/physics"
)

// lattice is a board with a linker wired to the stock physics world.
type lattice struct {
	board  *core.Board
	world  *physics.World
	linker *core.Linker
}

func newLattice() *lattice {
	b := core.NewBoard(core.DefaultGeometry())
	w := physics.NewWorld(b, physics.DefaultConfig())
	return &lattice{board: b, world: w, linker: core.NewLinker(b, w)}
}

// place seeds a block in the lattice cell beyond edge e of parent and
// links it with every neighbor.
func (l *lattice) place(t *testing.T, parent core.NodeID, e core.EdgeIndex, typ core.BlockType) core.NodeID {
	t.Helper()
	pose := l.board.LatticePosition(parent, e)
	n := l.board.Create(typ, pose.Pos, pose.Rot)
	n.Simulated = false
	n.Parented = true
	require.Positive(t, l.linker.Settle(n.ID), "block beyond %s of %d did not link", e, parent)
	return n.ID
}

// drop creates a free block drifting toward the center.
func (l *lattice) drop(typ core.BlockType, pos core.Vec2, rot float64) core.NodeID {
	n := l.board.Create(typ, pos, rot)
	n.Motion.Vel = pos.Neg().Normalized()
	return n.ID
}

const eps = 1e-9
