// Package shooting propagates a phase's ODE explicitly through time,
// sampling segment-local and phase-wide controls through the
// pseudospectral interpolation engine at every integrator stage.
package shooting

import (
	"fmt"
	"sync"

	"github.com/notargets/gotraj/PS1D"
	"github.com/notargets/gotraj/utils"
)

// ODE is the right hand side of the propagated system. Rates writes
// dy/dt into yDot for state y and control u at time t.
type ODE interface {
	NumStates() int
	Rates(t float64, y, u, yDot []float64)
}

// TimeMap converts between phase time and the normalized coordinates of a
// grid whose segments are uniformly spaced in ptau.
type TimeMap struct {
	T0, TF float64
	Grid   *PS1D.GridSpec
}

// Ptau maps phase time to the phase-wide coordinate in [-1,1].
func (tm TimeMap) Ptau(t float64) float64 {
	return 2*(t-tm.T0)/(tm.TF-tm.T0) - 1
}

// Time maps the phase-wide coordinate back to phase time.
func (tm TimeMap) Time(ptau float64) float64 {
	return tm.T0 + (ptau+1)/2*(tm.TF-tm.T0)
}

// Segment resolves the segment containing phase time t and the
// segment-local coordinate there. Times at interior segment boundaries
// resolve to the right segment's stau = -1 side.
func (tm TimeMap) Segment(t float64) (segment int, stau float64) {
	var (
		S    = tm.Grid.NumSegments()
		ptau = tm.Ptau(t)
		h    = 2. / float64(S)
	)
	segment = int((ptau + 1) / h)
	if segment >= S {
		segment = S - 1
	}
	left := -1 + float64(segment)*h
	stau = 2*(ptau-left)/h - 1
	if stau > 1 {
		stau = 1
	} else if stau < -1 {
		stau = -1
	}
	return
}

// SegmentTimes returns the phase time interval covered by one segment.
func (tm TimeMap) SegmentTimes(segment int) (ta, tb float64) {
	h := 2. / float64(tm.Grid.NumSegments())
	ta = tm.Time(-1 + float64(segment)*h)
	tb = tm.Time(-1 + float64(segment+1)*h)
	return
}

// Propagator integrates an ODE over the phase with fixed-step RK4,
// stepping each segment in sequence so control interpolation never
// straddles a segment boundary within one step.
type Propagator struct {
	Grid            *PS1D.GridSpec
	Times           TimeMap
	StepsPerSegment int

	interp *PS1D.ControlInterpolator
}

func NewPropagator(grid *PS1D.GridSpec, t0, tf float64, stepsPerSegment int) (p *Propagator, err error) {
	if tf <= t0 {
		err = fmt.Errorf("%w: tf = %v must exceed t0 = %v", PS1D.ErrInvalidConfiguration, tf, t0)
		return
	}
	if stepsPerSegment < 1 {
		err = fmt.Errorf("%w: steps per segment = %d, must be >= 1", PS1D.ErrInvalidConfiguration, stepsPerSegment)
		return
	}
	p = &Propagator{
		Grid:            grid,
		Times:           TimeMap{T0: t0, TF: tf, Grid: grid},
		StepsPerSegment: stepsPerSegment,
		interp:          PS1D.NewControlInterpolator(grid),
	}
	return
}

// Trajectory is the dense propagation history: one row of States per
// entry of Times, in time order.
type Trajectory struct {
	Times  []float64
	States utils.Matrix // len(Times) x NumStates
}

// Final is the state at the end of the phase.
func (tr *Trajectory) Final() utils.Vector {
	nr, _ := tr.States.Dims()
	return tr.States.Row(nr - 1)
}

// Propagate integrates from y0 at the phase start to the phase end,
// sampling the control node values through the interpolation engine. The
// controls matrix is the flattened node value array for the grid layout.
func (p *Propagator) Propagate(y0 []float64, ode ODE, controls utils.Matrix) (tr *Trajectory, err error) {
	var (
		ns      = ode.NumStates()
		nSteps  = p.Grid.NumSegments()*p.StepsPerSegment + 1
		y       = make([]float64, ns)
		stage   = make([]float64, ns)
		k1      = make([]float64, ns)
		k2      = make([]float64, ns)
		k3      = make([]float64, ns)
		k4      = make([]float64, ns)
		rowIter int
	)
	if len(y0) != ns {
		err = fmt.Errorf("%w: initial state has %d entries, ode has %d states", PS1D.ErrInvalidConfiguration, len(y0), ns)
		return
	}
	tr = &Trajectory{
		Times:  make([]float64, nSteps),
		States: utils.NewMatrix(nSteps, ns),
	}
	copy(y, y0)
	tr.Times[0] = p.Times.T0
	tr.States.SetRow(0, y)
	rowIter = 1

	for s := 0; s < p.Grid.NumSegments(); s++ {
		ta, tb := p.Times.SegmentTimes(s)
		h := (tb - ta) / float64(p.StepsPerSegment)
		// Stage times stay inside the owning segment, so stau comes from
		// this segment's interval directly, clamped against roundoff at
		// the segment ends.
		u := func(t float64) (uv []float64, uerr error) {
			stau := 2*(t-ta)/(tb-ta) - 1
			if stau > 1 {
				stau = 1
			} else if stau < -1 {
				stau = -1
			}
			r, uerr := p.interp.Evaluate(s, stau, controls)
			if uerr != nil {
				return
			}
			uv = r.Value.DataP()
			return
		}
		t := ta
		for step := 0; step < p.StepsPerSegment; step++ {
			var u1, u2, u4 []float64
			if u1, err = u(t); err != nil {
				return nil, err
			}
			if u2, err = u(t + h/2); err != nil {
				return nil, err
			}
			if u4, err = u(t + h); err != nil {
				return nil, err
			}
			ode.Rates(t, y, u1, k1)
			for i := range stage {
				stage[i] = y[i] + h/2*k1[i]
			}
			ode.Rates(t+h/2, stage, u2, k2)
			for i := range stage {
				stage[i] = y[i] + h/2*k2[i]
			}
			ode.Rates(t+h/2, stage, u2, k3)
			for i := range stage {
				stage[i] = y[i] + h*k3[i]
			}
			ode.Rates(t+h, stage, u4, k4)
			for i := range y {
				y[i] += h / 6 * (k1[i] + 2*k2[i] + 2*k3[i] + k4[i])
			}
			t = ta + float64(step+1)*h
			tr.Times[rowIter] = t
			tr.States.SetRow(rowIter, y)
			rowIter++
		}
	}
	return
}

// SampleControl reconstructs the interpolated control at each query time,
// fanning the independent evaluations across goroutines. Results are
// written by query index, so the output order is the query order
// regardless of completion order.
func (p *Propagator) SampleControl(times []float64, controls utils.Matrix) (values utils.Matrix, err error) {
	var (
		_, width = controls.Dims()
		wg       sync.WaitGroup
		mu       sync.Mutex
	)
	values = utils.NewMatrix(len(times), width)
	for i, t := range times {
		wg.Add(1)
		go func(i int, t float64) {
			defer wg.Done()
			segment, stau := p.Times.Segment(t)
			r, eErr := p.interp.Evaluate(segment, stau, controls)
			if eErr != nil {
				mu.Lock()
				if err == nil {
					err = eErr
				}
				mu.Unlock()
				return
			}
			values.SetRow(i, r.Value.DataP())
		}(i, t)
	}
	wg.Wait()
	if err != nil {
		values = utils.Matrix{}
	}
	return
}
