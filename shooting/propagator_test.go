package shooting

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notargets/gotraj/PS1D"
	"github.com/notargets/gotraj/utils"
)

func TestTimeMap(t *testing.T) {
	gs, err := PS1D.NewGridSpec(PS1D.GaussLobatto, 4, true, 3)
	assert.NoError(t, err)
	tm := TimeMap{T0: 1, TF: 3, Grid: gs}

	assert.True(t, near(tm.Ptau(1), -1))
	assert.True(t, near(tm.Ptau(2), 0))
	assert.True(t, near(tm.Ptau(3), 1))
	assert.True(t, near(tm.Time(-1), 1))
	assert.True(t, near(tm.Time(0.5), 2.75))

	// Segment resolution: four segments over [1,3], each 0.5 wide
	seg, stau := tm.Segment(1.25)
	assert.Equal(t, 0, seg)
	assert.True(t, near(stau, 0))
	seg, stau = tm.Segment(2.5)
	assert.Equal(t, 3, seg)
	assert.True(t, near(stau, -1))
	seg, stau = tm.Segment(3)
	assert.Equal(t, 3, seg)
	assert.True(t, near(stau, 1))

	ta, tb := tm.SegmentTimes(2)
	assert.True(t, near(ta, 2))
	assert.True(t, near(tb, 2.5))
}

func TestPropagatorValidation(t *testing.T) {
	gs, err := PS1D.NewGridSpec(PS1D.GaussLobatto, 2, true, 3)
	assert.NoError(t, err)
	_, err = NewPropagator(gs, 1, 1, 10)
	assert.True(t, errors.Is(err, PS1D.ErrInvalidConfiguration))
	_, err = NewPropagator(gs, 0, 1, 0)
	assert.True(t, errors.Is(err, PS1D.ErrInvalidConfiguration))

	p, err := NewPropagator(gs, 0, 1, 10)
	assert.NoError(t, err)
	_, err = p.Propagate([]float64{0, 0}, NewBrachistochrone(), utils.NewMatrix(gs.NumNodes, 1))
	assert.True(t, errors.Is(err, PS1D.ErrInvalidConfiguration))
}

func TestPropagateConstantControl(t *testing.T) {
	// With constant theta the brachistochrone has a closed form:
	//   v = g cos(theta) t, x = g sin cos t^2/2, y = -g cos^2 t^2/2
	// All states are polynomial in t of degree <= 2, so RK4 integrates
	// them to roundoff.
	var (
		g     = 9.80665
		theta = 45 * math.Pi / 180
		T     = 1.5
	)
	for _, family := range []PS1D.Family{PS1D.GaussLobatto, PS1D.RadauPS} {
		gs, err := PS1D.NewGridSpec(family, 3, true, 3, 5, 4)
		assert.NoError(t, err)
		p, err := NewPropagator(gs, 0, T, 16)
		assert.NoError(t, err)
		controls := utils.NewMatrix(gs.NumNodes, 1)
		for i := 0; i < gs.NumNodes; i++ {
			controls.Set(i, 0, theta)
		}
		tr, err := p.Propagate([]float64{0, 10, 0}, NewBrachistochrone(), controls)
		assert.NoError(t, err)

		final := tr.Final()
		sin, cos := math.Sin(theta), math.Cos(theta)
		assert.True(t, math.Abs(final.AtVec(0)-g*sin*cos*T*T/2) < 1.e-09)
		assert.True(t, math.Abs(final.AtVec(1)-(10-g*cos*cos*T*T/2)) < 1.e-09)
		assert.True(t, math.Abs(final.AtVec(2)-g*cos*T) < 1.e-09)

		// Dense history is in time order and starts at the initial state
		assert.True(t, near(tr.Times[0], 0))
		assert.True(t, near(tr.Times[len(tr.Times)-1], T))
		for i := 1; i < len(tr.Times); i++ {
			assert.True(t, tr.Times[i] > tr.Times[i-1])
		}
		first := tr.States.Row(0)
		assert.True(t, near(first.AtVec(1), 10))
	}
}

func TestPropagateInterpolatedControlContinuity(t *testing.T) {
	// A control profile linear in phase time is reproduced exactly by the
	// segment interpolants, so segment handoffs introduce no jumps in the
	// integrated states.
	gs, err := PS1D.NewGridSpec(PS1D.GaussLobatto, 2, true, 3, 5)
	assert.NoError(t, err)
	p, err := NewPropagator(gs, 0, 1.8016, 32)
	assert.NoError(t, err)

	controls := utils.NewMatrix(gs.NumNodes, 1)
	tm := p.Times
	for s, seg := range gs.Segments {
		ta, tb := tm.SegmentTimes(s)
		for j, x := range seg.Nodes {
			tj := ta + (x+1)/2*(tb-ta)
			controls.Set(seg.GlobalIndices[j], 0, 0.1+0.8*tj/1.8016)
		}
	}
	tr, err := p.Propagate([]float64{0, 10, 0}, NewBrachistochrone(), controls)
	assert.NoError(t, err)

	// Velocity must increase monotonically while theta < pi/2
	for i := 1; i < len(tr.Times); i++ {
		assert.True(t, tr.States.At(i, 2) > tr.States.At(i-1, 2))
	}
}

func TestSampleControl(t *testing.T) {
	gs, err := PS1D.NewGridSpec(PS1D.GaussLobatto, 2, true, 3, 5)
	assert.NoError(t, err)
	p, err := NewPropagator(gs, 0, 2, 8)
	assert.NoError(t, err)
	controls := utils.NewMatrix(7, 1, []float64{0.0, 3.0, 0.0, 4.0, 3.0, 4.0, 3.0})

	times := utils.Linspace(0, 2, 41)
	values, err := p.SampleControl(times, controls)
	assert.NoError(t, err)
	nr, nc := values.Dims()
	assert.Equal(t, 41, nr)
	assert.Equal(t, 1, nc)

	// Parallel reconstruction matches serial evaluation in query order
	ci := PS1D.NewControlInterpolator(gs)
	for i, tq := range times {
		segment, stau := p.Times.Segment(tq)
		r, err := ci.Evaluate(segment, stau, controls)
		assert.NoError(t, err)
		assert.True(t, near(values.At(i, 0), r.Value.AtVec(0)))
	}

	// Known node hits: phase midpoint is the shared boundary node
	mid, err := p.SampleControl([]float64{0, 1, 2}, controls)
	assert.NoError(t, err)
	assert.True(t, near(mid.At(0, 0), 0.0))
	assert.True(t, near(mid.At(1, 0), 0.0))
	assert.True(t, near(mid.At(2, 0), 3.0))
}

func TestBrachistochroneRates(t *testing.T) {
	b := NewBrachistochrone()
	assert.Equal(t, 3, b.NumStates())
	yDot := make([]float64, 3)
	b.Rates(0, []float64{0, 10, 2}, []float64{math.Pi / 2}, yDot)
	assert.True(t, near(yDot[0], 2))        // v sin(pi/2)
	assert.True(t, math.Abs(yDot[1]) < tol) // -v cos(pi/2)
	assert.True(t, math.Abs(yDot[2]) < tol) // g cos(pi/2)
}

const tol = 1.e-08

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(math.Abs(a), 1) {
		l = true
	}
	return
}
