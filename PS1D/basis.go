package PS1D

import (
	"math"
	"sync"

	"github.com/notargets/gotraj/utils"
)

// LagrangeBasis holds the fixed per-order data needed to evaluate the
// Lagrange interpolating basis on a segment's node set at arbitrary tau:
// the barycentric weights and the nodal differentiation matrix. Built once
// per (order, family) and immutable afterwards.
type LagrangeBasis struct {
	Order int
	Nodes []float64
	// Wb are the barycentric weights 1/prod_{k!=j}(x_j-x_k). The
	// barycentric form keeps evaluation well conditioned at orders the
	// naive Lagrange product cannot handle.
	Wb []float64
	// D is the differentiation matrix, D[i][j] = L'_j(x_i). Used for the
	// exact derivative when tau lands on a node, where the barycentric
	// quotient is singular.
	D utils.Matrix
}

// nodeSnapTol decides when tau is treated as coincident with a node. Well
// inside the spacing of any practical node set (order ~15 keeps nodes
// farther than 1e-2 apart).
const nodeSnapTol = 1.e-13

func newLagrangeBasis(order int, family Family) (lb *LagrangeBasis) {
	var nodes []float64
	switch family {
	case RadauPS:
		nodes = LegendreGaussRadau(order)
	default:
		nodes = LegendreGaussLobatto(order)
	}
	lb = &LagrangeBasis{
		Order: order,
		Nodes: nodes,
		Wb:    baryWeights(nodes),
	}
	lb.D = lb.diffMatrix()
	return
}

func baryWeights(nodes []float64) (w []float64) {
	n := len(nodes)
	w = utils.ConstArray(n, 1)
	for j := 0; j < n; j++ {
		for k := 0; k < n; k++ {
			if k != j {
				w[j] /= nodes[j] - nodes[k]
			}
		}
	}
	return
}

// diffMatrix builds D[i][j] = L'_j(x_i) from the barycentric weights:
// off-diagonal (w_j/w_i)/(x_i-x_j), diagonal the negated row sum.
func (lb *LagrangeBasis) diffMatrix() (D utils.Matrix) {
	n := len(lb.Nodes)
	D = utils.NewMatrix(n, n)
	for i := 0; i < n; i++ {
		var rowSum float64
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			d := (lb.Wb[j] / lb.Wb[i]) / (lb.Nodes[i] - lb.Nodes[j])
			D.Set(i, j, d)
			rowSum += d
		}
		D.Set(i, i, -rowSum)
	}
	return
}

// Eval returns the basis functions L(tau) and their derivatives L'(tau).
// L satisfies the Kronecker delta property at the node set, so values at
// nodes reproduce nodal data exactly. Both outputs are freshly allocated;
// Eval is safe for concurrent callers.
func (lb *LagrangeBasis) Eval(tau float64) (L, Lp []float64) {
	n := len(lb.Nodes)
	L = make([]float64, n)
	Lp = make([]float64, n)
	for j, x := range lb.Nodes {
		if math.Abs(tau-x) < nodeSnapTol {
			L[j] = 1
			for k := 0; k < n; k++ {
				Lp[k] = lb.D.At(j, k)
			}
			return
		}
	}
	// Second barycentric form: t_j = w_j/(tau-x_j), L_j = t_j/S with
	// S = sum t_k. Differentiating, L'_j = L_j*(T/S - 1/(tau-x_j)) with
	// T = sum t_k/(tau-x_k).
	var (
		t    = make([]float64, n)
		S, T float64
	)
	for j, x := range lb.Nodes {
		t[j] = lb.Wb[j] / (tau - x)
		S += t[j]
		T += t[j] / (tau - x)
	}
	for j, x := range lb.Nodes {
		L[j] = t[j] / S
		Lp[j] = L[j] * (T/S - 1./(tau-x))
	}
	return
}

// BasisCache memoizes LagrangeBasis instances keyed by order for a single
// family. The cache is owned by its GridSpec rather than being process
// global, so two problems in one process cannot alias each other's node
// sets. Lookup is cheap and guarded for concurrent evaluation calls.
type BasisCache struct {
	family Family

	mu    sync.RWMutex
	bases map[int]*LagrangeBasis
}

func NewBasisCache(family Family) *BasisCache {
	return &BasisCache{
		family: family,
		bases:  make(map[int]*LagrangeBasis),
	}
}

func (bc *BasisCache) Family() Family { return bc.family }

// Basis returns the memoized basis for the given order, computing it on
// first use.
func (bc *BasisCache) Basis(order int) (lb *LagrangeBasis) {
	bc.mu.RLock()
	lb = bc.bases[order]
	bc.mu.RUnlock()
	if lb != nil {
		return
	}
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if lb = bc.bases[order]; lb == nil {
		lb = newLagrangeBasis(order, bc.family)
		bc.bases[order] = lb
	}
	return
}
