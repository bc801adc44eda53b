package PS1D

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gotraj/utils"
)

func TestGridSpecGaussLobatto(t *testing.T) {
	{
		// Compressed: segment boundaries share one global index
		gs, err := NewGridSpec(GaussLobatto, 2, true, 3, 5)
		assert.NoError(t, err)
		assert.Equal(t, 7, gs.NumNodes)
		assert.Equal(t, utils.Index{0, 1, 2}, gs.Segments[0].GlobalIndices)
		assert.Equal(t, utils.Index{2, 3, 4, 5, 6}, gs.Segments[1].GlobalIndices)
		assert.True(t, near(gs.Segments[0].Nodes[0], -1))
		assert.True(t, near(gs.Segments[0].Nodes[2], 1))
		assert.True(t, near(gs.Segments[1].Nodes[1], -0.65465367))
	}
	{
		// Uncompressed: disjoint index blocks
		gs, err := NewGridSpec(GaussLobatto, 2, false, 3, 5)
		assert.NoError(t, err)
		assert.Equal(t, 8, gs.NumNodes)
		assert.Equal(t, utils.Index{0, 1, 2}, gs.Segments[0].GlobalIndices)
		assert.Equal(t, utils.Index{3, 4, 5, 6, 7}, gs.Segments[1].GlobalIndices)
	}
	{
		// A single order broadcasts to all segments
		gs, err := NewGridSpec(GaussLobatto, 3, true, 4)
		assert.NoError(t, err)
		assert.Equal(t, 3, gs.NumSegments())
		for _, seg := range gs.Segments {
			assert.Equal(t, 4, seg.Order)
		}
		assert.Equal(t, 10, gs.NumNodes)
	}
}

func TestGridSpecRadau(t *testing.T) {
	// Radau segments own no +1 node, so compression shares nothing and
	// both modes produce the same layout.
	gsc, err := NewGridSpec(RadauPS, 2, true, 3, 5)
	assert.NoError(t, err)
	gsu, err := NewGridSpec(RadauPS, 2, false, 3, 5)
	assert.NoError(t, err)
	assert.Equal(t, 8, gsc.NumNodes)
	assert.Equal(t, gsu.NumNodes, gsc.NumNodes)
	for i := range gsc.Segments {
		assert.Equal(t, gsu.Segments[i].GlobalIndices, gsc.Segments[i].GlobalIndices)
	}
	// Last node strictly inside the segment
	seg := gsc.Segments[0]
	assert.True(t, near(seg.Nodes[0], -1))
	assert.True(t, seg.Nodes[len(seg.Nodes)-1] < 1)
}

func TestGridSpecValidation(t *testing.T) {
	var err error
	_, err = NewGridSpec(GaussLobatto, 0, true, 3)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = NewGridSpec(GaussLobatto, 2, true, 3, 0)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = NewGridSpec(GaussLobatto, 2, true, 1, 3)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = NewGridSpec(RadauPS, 2, true, -1)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	_, err = NewGridSpec(GaussLobatto, 3, true, 3, 5)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))

	// Radau allows a single node segment (constant interpolant)
	_, err = NewGridSpec(RadauPS, 1, false, 1)
	assert.NoError(t, err)
}

func TestSegmentLocator(t *testing.T) {
	gs, err := NewGridSpec(GaussLobatto, 2, true, 3, 5)
	assert.NoError(t, err)

	_, err = gs.SegmentIndices(-1)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))
	_, err = gs.SegmentIndices(2)
	assert.True(t, errors.Is(err, ErrIndexOutOfRange))

	values := utils.NewMatrix(7, 1, []float64{0, 3, 0, 4, 3, 4, 3})
	seg1, err := gs.SegmentValues(1, values)
	assert.NoError(t, err)
	nr, nc := seg1.Dims()
	assert.Equal(t, 5, nr)
	assert.Equal(t, 1, nc)
	// The shared boundary node leads the second segment's block
	assert.True(t, near(seg1.At(0, 0), 0))
	assert.True(t, near(seg1.At(4, 0), 3))

	// Mismatched node value array length
	short := utils.NewMatrix(6, 1)
	_, err = gs.SegmentValues(0, short)
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
}

func TestParseFamily(t *testing.T) {
	f, err := ParseFamily("gauss-lobatto")
	assert.NoError(t, err)
	assert.Equal(t, GaussLobatto, f)
	f, err = ParseFamily("radau-ps")
	assert.NoError(t, err)
	assert.Equal(t, RadauPS, f)
	_, err = ParseFamily("chebyshev")
	assert.True(t, errors.Is(err, ErrInvalidConfiguration))
	assert.Equal(t, "gauss-lobatto", GaussLobatto.String())
	assert.Equal(t, "radau-ps", RadauPS.String())
}
