package core_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hexfall/internal/games/hexfall/core"
)

func TestEdgeOffsets(t *testing.T) {
	tests := []struct {
		edge  core.EdgeIndex
		angle float64 // degrees
	}{
		{core.EdgeRightTop, 30},
		{core.EdgeRightBottom, -30},
		{core.EdgeBottom, -90},
		{core.EdgeLeftBottom, -150},
		{core.EdgeLeftTop, 150},
		{core.EdgeTop, 90},
	}

	for _, tt := range tests {
		t.Run(tt.edge.String(), func(t *testing.T) {
			want := core.FromAngle(tt.angle * math.Pi / 180)
			got := tt.edge.Offset()
			assert.InDelta(t, want.X, got.X, eps)
			assert.InDelta(t, want.Y, got.Y, eps)
			assert.InDelta(t, 1.0, got.Len(), eps)
		})
	}
}

func TestEdgeOpposite(t *testing.T) {
	for _, e := range core.AllEdges {
		o := e.Opposite()
		assert.NotEqual(t, e, o)
		assert.Equal(t, e, o.Opposite())

		sum := e.Offset().Add(o.Offset())
		assert.InDelta(t, 0, sum.Len(), eps, "edge %s and %s should point apart", e, o)
	}
}

func TestEdgeDirectionRotates(t *testing.T) {
	d := core.EdgeTop.Direction(math.Pi / 3)
	want := core.FromAngle(math.Pi/2 + math.Pi/3)
	assert.InDelta(t, want.X, d.X, eps)
	assert.InDelta(t, want.Y, d.Y, eps)
}

func TestEdgeOffsetOutOfRangePanics(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		_, ok := r.(*core.InvariantError)
		assert.True(t, ok, "expected *InvariantError, got %T", r)
	}()
	core.EdgeIndex(7).Offset()
}

func TestParseEdge(t *testing.T) {
	tests := []struct {
		token string
		want  core.EdgeIndex
	}{
		{"top", core.EdgeTop},
		{"Top", core.EdgeTop},
		{"right_top", core.EdgeRightTop},
		{"RightBottom", core.EdgeRightBottom},
		{"left-bottom", core.EdgeLeftBottom},
		{"left top", core.EdgeLeftTop},
		{"BOTTOM", core.EdgeBottom},
	}
	for _, tt := range tests {
		got, err := core.ParseEdge(tt.token)
		require.NoError(t, err, tt.token)
		assert.Equal(t, tt.want, got, tt.token)
	}

	_, err := core.ParseEdge("diagonal")
	assert.True(t, errors.Is(err, core.ErrInvalidConfig))
}

func TestGeometryDerivedConstants(t *testing.T) {
	g := core.NewGeometry(2)
	apothem := math.Sqrt(3)
	assert.InDelta(t, apothem, g.Apothem(), eps)
	assert.InDelta(t, 2*apothem, g.AttachOffset, eps)
	assert.InDelta(t, apothem, g.NeighbourRange, eps)
	assert.NoError(t, g.Validate())

	assert.ErrorIs(t, core.Geometry{}.Validate(), core.ErrInvalidConfig)
}

func TestHexPolygonEdgesMatchOffsets(t *testing.T) {
	poly := core.HexPolygon(core.V(0, 0), 0, 1)
	require.Len(t, poly, core.EdgeCount)

	apothem := math.Sqrt(3) / 2
	for _, e := range core.AllEdges {
		// The midpoint of polygon edge k lies on the normal of EdgeIndex k.
		a := poly[(int(e)+core.EdgeCount-1)%core.EdgeCount]
		b := poly[e]
		mid := a.Add(b).Scale(0.5)
		want := e.Offset().Scale(apothem)
		assert.InDelta(t, want.X, mid.X, eps, "edge %s", e)
		assert.InDelta(t, want.Y, mid.Y, eps, "edge %s", e)
	}
}

func TestClosestEdge(t *testing.T) {
	poly := core.HexPolygon(core.V(0, 0), 0, 1)
	for _, e := range core.AllEdges {
		q := e.Offset().Scale(1.5)
		got, a, b := core.ClosestEdge(poly, q)
		assert.Equal(t, e, got)
		mid := a.Add(b).Scale(0.5)
		assert.InDelta(t, 0, mid.Normalized().Sub(e.Offset()).Len(), eps)
	}
}

func TestClosestEdgeRejectsCorruptPolygon(t *testing.T) {
	assert.Panics(t, func() {
		core.ClosestEdge([]core.Vec2{core.V(0, 0)}, core.V(1, 1))
	})

	// Seven vertices with the nearest edge beyond the six hex edges.
	poly := core.HexPolygon(core.V(0, 0), 0, 1)
	poly = append(poly, core.V(0, -5))
	assert.Panics(t, func() {
		core.ClosestEdge(poly, core.V(-0.2, -4))
	})
}

func TestPointInPolygon(t *testing.T) {
	poly := core.HexPolygon(core.V(1, 1), 0.4, 1)
	assert.True(t, core.PointInPolygon(poly, core.V(1, 1)))
	assert.True(t, core.PointInPolygon(poly, core.V(1.5, 1.2)))
	assert.False(t, core.PointInPolygon(poly, core.V(3, 1)))
}

func TestVecBasics(t *testing.T) {
	v := core.V(3, 4)
	assert.InDelta(t, 5, v.Len(), eps)
	assert.InDelta(t, 1, v.Normalized().Len(), eps)
	assert.Equal(t, core.Vec2{}, core.Vec2{}.Normalized())

	r := core.V(1, 0).Rotate(math.Pi / 2)
	assert.InDelta(t, 0, r.X, eps)
	assert.InDelta(t, 1, r.Y, eps)

	p := core.V(2, 0).RotateAround(core.V(1, 0), math.Pi)
	assert.InDelta(t, 0, p.X, eps)
	assert.InDelta(t, 0, p.Y, eps)

	assert.InDelta(t, -math.Pi/2, core.NormalizeAngle(3*math.Pi/2), eps)
}
