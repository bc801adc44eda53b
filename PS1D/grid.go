package PS1D

import (
	"fmt"

	"github.com/notargets/gotraj/utils"
)

// Family selects the pseudospectral quadrature rule that places a
// segment's nodes.
type Family uint8

const (
	GaussLobatto Family = iota // endpoints -1 and +1 are nodes
	RadauPS                    // -1 is a node, +1 is not
)

func (f Family) String() string {
	switch f {
	case GaussLobatto:
		return "gauss-lobatto"
	case RadauPS:
		return "radau-ps"
	}
	return "unknown"
}

// ParseFamily maps the configuration names used in phase input files.
func ParseFamily(name string) (f Family, err error) {
	switch name {
	case "gauss-lobatto":
		f = GaussLobatto
	case "radau-ps":
		f = RadauPS
	default:
		err = fmt.Errorf("%w: unknown transcription family %q", ErrInvalidConfiguration, name)
	}
	return
}

// Segment is one sub-interval of the phase, with its node locations in the
// segment-local coordinate and the global indices of its entries in the
// flattened node value array.
type Segment struct {
	Order         int       // transcription order: the number of nodes
	Nodes         []float64 // strictly increasing, Nodes[0] = -1
	GlobalIndices utils.Index
}

// GridSpec is the immutable temporal discretization of one phase. It is
// built once per problem configuration and is safe to share read-only
// across concurrent evaluations.
type GridSpec struct {
	Family     Family
	Compressed bool
	Segments   []Segment
	NumNodes   int // length of the flattened node value array

	cache *BasisCache
}

// NewGridSpec builds the segment node layout. A single order is broadcast
// to all segments; otherwise one order per segment is required.
//
// With Compressed set, adjacent gauss-lobatto segments share the boundary
// node's global index. Radau segments own no +1 node, so their index
// blocks are disjoint in either mode and boundary continuity is left to
// the continuity constraints outside this engine.
func NewGridSpec(family Family, numSegments int, compressed bool, orders ...int) (gs *GridSpec, err error) {
	if numSegments < 1 {
		err = fmt.Errorf("%w: num segments = %d, must be >= 1", ErrInvalidConfiguration, numSegments)
		return
	}
	switch len(orders) {
	case 1:
		o := orders[0]
		orders = make([]int, numSegments)
		for i := range orders {
			orders[i] = o
		}
	case numSegments:
	default:
		err = fmt.Errorf("%w: got %d orders for %d segments", ErrInvalidConfiguration, len(orders), numSegments)
		return
	}
	for _, o := range orders {
		if o < 1 {
			err = fmt.Errorf("%w: order = %d, must be >= 1", ErrInvalidConfiguration, o)
			return
		}
		if family == GaussLobatto && o < 2 {
			err = fmt.Errorf("%w: order = %d, gauss-lobatto requires at least 2 nodes", ErrInvalidConfiguration, o)
			return
		}
	}

	gs = &GridSpec{
		Family:     family,
		Compressed: compressed,
		Segments:   make([]Segment, numSegments),
		cache:      NewBasisCache(family),
	}
	var start int
	for i, o := range orders {
		if compressed && family == GaussLobatto && i > 0 {
			start-- // reuse the previous segment's +1 endpoint index
		}
		gs.Segments[i] = Segment{
			Order:         o,
			Nodes:         gs.cache.Basis(o).Nodes,
			GlobalIndices: utils.NewRange(start, start+o-1),
		}
		start += o
	}
	gs.NumNodes = start
	return
}

func (gs *GridSpec) NumSegments() int { return len(gs.Segments) }

// SegmentIndices resolves the global index block owned by one segment.
func (gs *GridSpec) SegmentIndices(segment int) (I utils.Index, err error) {
	if segment < 0 || segment >= len(gs.Segments) {
		err = fmt.Errorf("%w: segment = %d, num segments = %d", ErrIndexOutOfRange, segment, len(gs.Segments))
		return
	}
	I = gs.Segments[segment].GlobalIndices
	return
}

// SegmentValues gathers the rows of the flattened node value array owned
// by one segment, ordered to match the segment's local node coordinates.
// Pure index arithmetic, no interpolation.
func (gs *GridSpec) SegmentValues(segment int, values utils.Matrix) (R utils.Matrix, err error) {
	var I utils.Index
	if I, err = gs.SegmentIndices(segment); err != nil {
		return
	}
	nr, _ := values.Dims()
	if nr != gs.NumNodes {
		err = fmt.Errorf("%w: node value array has %d rows, grid has %d nodes", ErrInvalidConfiguration, nr, gs.NumNodes)
		return
	}
	R = values.SliceRows(I)
	return
}
