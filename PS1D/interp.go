package PS1D

import (
	"fmt"

	"github.com/notargets/gotraj/utils"
)

// InterpolationResult carries one interpolated value and its exact
// analytic partials. Values may be vector shaped: Value and DValDTau have
// one entry per component, and the node weight applies identically to
// every component of a node entry because the interpolant is linear in
// the node values. Results are ephemeral, one per query.
type InterpolationResult struct {
	Value    utils.Vector // interpolated value, one entry per component
	DValDTau utils.Vector // derivative w.r.t. the local coordinate

	// Weights and GlobalIndices are d(value)/d(node values): Weights[k] is
	// the sensitivity of every component to node GlobalIndices[k]. All
	// other node sensitivities are structurally zero.
	Weights       []float64
	GlobalIndices utils.Index
}

// ScatterJacobian expands the active-segment weights into the full sparse
// Jacobian d(value)/d(nodes): one row per component, one column per
// (node, component) entry of a flattened numNodes x width value array.
func (r *InterpolationResult) ScatterJacobian(numNodes int) (J utils.DOK) {
	width := r.Value.Len()
	J = utils.NewDOK(width, numNodes*width)
	for k, gi := range r.GlobalIndices {
		for c := 0; c < width; c++ {
			J.Set(c, gi*width+c, r.Weights[k])
		}
	}
	return
}

// ControlInterpolator evaluates a segment-local control variable at a
// (segment, stau) query against a flattened node value array laid out per
// the GridSpec. It holds no per-call state: a single instance serves
// concurrent evaluations over a shared read-only grid.
type ControlInterpolator struct {
	Grid *GridSpec
}

func NewControlInterpolator(grid *GridSpec) *ControlInterpolator {
	return &ControlInterpolator{Grid: grid}
}

// Evaluate interpolates the control at local coordinate stau within the
// given segment. stau must lie in [-1,1]; node coordinates reproduce
// nodal values exactly, and with a compressed gauss-lobatto grid
// evaluating segment i at +1 and segment i+1 at -1 reads the same shared
// node.
func (ci *ControlInterpolator) Evaluate(segment int, stau float64, values utils.Matrix) (r *InterpolationResult, err error) {
	if stau < -1 || stau > 1 {
		err = fmt.Errorf("%w: stau = %v", ErrDomain, stau)
		return
	}
	var segVals utils.Matrix
	if segVals, err = ci.Grid.SegmentValues(segment, values); err != nil {
		return
	}
	seg := &ci.Grid.Segments[segment]
	L, Lp := ci.Grid.cache.Basis(seg.Order).Eval(stau)
	r = contract(L, Lp, segVals, seg.GlobalIndices)
	return
}

func contract(L, Lp []float64, segVals utils.Matrix, I utils.Index) (r *InterpolationResult) {
	_, width := segVals.Dims()
	r = &InterpolationResult{
		Value:         utils.NewVector(width),
		DValDTau:      utils.NewVector(width),
		Weights:       L,
		GlobalIndices: I,
	}
	var (
		val  = r.Value.DataP()
		dval = r.DValDTau.DataP()
		data = segVals.DataP()
	)
	for k := range L {
		row := data[k*width : (k+1)*width]
		for c, u := range row {
			val[c] += L[k] * u
			dval[c] += Lp[k] * u
		}
	}
	return
}

// PolynomialControlInterpolator evaluates a single polynomial of fixed
// order spanning the whole phase in the phase-wide coordinate ptau. Its
// node set is the order+1 LGL points regardless of the grid's segment
// layout or compression.
type PolynomialControlInterpolator struct {
	Order int // polynomial degree; the node count is Order+1
	basis *LagrangeBasis
}

func NewPolynomialControlInterpolator(order int) (pi *PolynomialControlInterpolator, err error) {
	if order < 1 {
		err = fmt.Errorf("%w: polynomial control order = %d, must be >= 1", ErrInvalidConfiguration, order)
		return
	}
	pi = &PolynomialControlInterpolator{
		Order: order,
		basis: newLagrangeBasis(order+1, GaussLobatto),
	}
	return
}

// Nodes exposes the phase-wide node locations in ptau.
func (pi *PolynomialControlInterpolator) Nodes() []float64 { return pi.basis.Nodes }

// Evaluate interpolates the polynomial control at ptau in [-1,1]. The
// values array has order+1 rows, one per phase-wide node.
func (pi *PolynomialControlInterpolator) Evaluate(ptau float64, values utils.Matrix) (r *InterpolationResult, err error) {
	if ptau < -1 || ptau > 1 {
		err = fmt.Errorf("%w: ptau = %v", ErrDomain, ptau)
		return
	}
	nr, _ := values.Dims()
	if nr != pi.Order+1 {
		err = fmt.Errorf("%w: node value array has %d rows, polynomial control has %d nodes", ErrInvalidConfiguration, nr, pi.Order+1)
		return
	}
	L, Lp := pi.basis.Eval(ptau)
	r = contract(L, Lp, values, utils.NewRange(0, pi.Order))
	return
}
