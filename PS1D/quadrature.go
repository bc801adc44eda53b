package PS1D

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/notargets/gotraj/utils"
)

// JacobiGQ computes the N+1 Gauss quadrature points and weights for the
// Jacobi weight (1-x)^alpha (1+x)^beta via the Golub-Welsch symmetric
// tridiagonal eigenvalue problem.
func JacobiGQ(alpha, beta float64, N int) (X, W utils.Vector) {
	var (
		x, w       []float64
		fac        float64
		h1, d0, d1 []float64
		VVr        *mat.Dense
	)
	if N == 0 {
		x = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		w = []float64{2.}
		return utils.NewVector(len(x), x), utils.NewVector(len(w), w)
	}

	h1 = make([]float64, N+1)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: diag(-1/2*(alpha^2-beta^2)./(h1+2)./h1)
	d0 = make([]float64, N+1)
	fac = -.5 * (alpha*alpha - beta*beta)
	for i := 0; i < N+1; i++ {
		val := h1[i]
		d0[i] = fac / (val * (val + 2.))
	}
	// Handle division by zero
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}

	// 1st upper diagonal
	var ip1 float64
	d1 = make([]float64, N)
	for i := 0; i < N; i++ {
		ip1 = float64(i + 1)
		val := h1[i]
		d1[i] = 2. / (val + 2.)
		d1[i] *= math.Sqrt(ip1 * (ip1 + alpha + beta) * (ip1 + alpha) * (ip1 + beta) / ((val + 1.) * (val + 3.)))
	}

	JJ := newSymTriDiagonal(d0, d1)

	var eig mat.EigenSym
	ok := eig.Factorize(JJ, true)
	if !ok {
		panic("eigenvalue decomposition failed")
	}
	x = eig.Values(x)
	X = utils.NewVector(N+1, x)

	VVr = mat.NewDense(len(x), len(x), nil)
	eig.VectorsTo(VVr)
	w = make([]float64, len(x))
	g0 := gamma0(alpha, beta)
	for i := range w {
		v := VVr.At(0, i)
		w[i] = v * v * g0
	}
	W = utils.NewVector(len(w), w)
	return X, W
}

// JacobiGL computes the N+1 Gauss-Lobatto points for the Jacobi weight,
// which include both endpoints -1 and +1.
func JacobiGL(alpha, beta float64, N int) (X utils.Vector) {
	var (
		x = make([]float64, N+1)
	)
	if N == 1 {
		x[0] = -1
		x[1] = 1
		X = utils.NewVector(N+1, x)
		return
	}
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)
	x[0] = -1
	x[N] = 1
	dataXint := xint.DataP()
	for i := 1; i < N; i++ {
		x[i] = dataXint[i-1]
	}
	X = utils.NewVector(len(x), x)
	return
}

// LegendreGaussLobatto returns n LGL nodes on [-1,1], endpoints included.
// Requires n >= 2.
func LegendreGaussLobatto(n int) []float64 {
	X := JacobiGL(0, 0, n-1)
	return X.DataP()
}

// LegendreGaussRadau returns the n left-Radau nodes on [-1,1): the point -1
// plus the n-1 interior roots of P_{n-1}(x) + P_n(x). Requires n >= 1.
func LegendreGaussRadau(n int) []float64 {
	x := make([]float64, n)
	x[0] = -1
	if n == 1 {
		return x
	}
	// The Radau polynomial q(x) = P_{n-1}(x) + P_n(x) vanishes at -1 and at
	// n-1 simple interior points. Bracket by sampling, then polish with
	// Newton on the Legendre recurrence.
	q := func(t float64) float64 {
		p0, _ := legendre(n-1, t)
		p1, _ := legendre(n, t)
		return p0 + p1
	}
	dq := func(t float64) float64 {
		_, d0 := legendre(n-1, t)
		_, d1 := legendre(n, t)
		return d0 + d1
	}
	var (
		nSamp = 200 * n
		found = 1
		tPrev = -1. + 1./float64(nSamp)
		vPrev = q(tPrev)
	)
	for i := 2; i <= nSamp && found < n; i++ {
		t := -1. + 2.*float64(i)/float64(nSamp)
		v := q(t)
		if vPrev == 0 {
			x[found] = tPrev
			found++
		} else if vPrev*v < 0 {
			a, b := tPrev, t
			r := .5 * (a + b)
			for iter := 0; iter < 100; iter++ {
				r = .5 * (a + b)
				if q(a)*q(r) <= 0 {
					b = r
				} else {
					a = r
				}
			}
			// Newton polish
			for iter := 0; iter < 8; iter++ {
				r -= q(r) / dq(r)
			}
			x[found] = r
			found++
		}
		tPrev, vPrev = t, v
	}
	if found != n {
		panic("failed to locate all Radau nodes")
	}
	return x
}

// legendre evaluates P_n and its derivative at x by the three term
// recurrence. The derivative uses the endpoint limit when |x| = 1.
func legendre(n int, x float64) (p, dp float64) {
	if n == 0 {
		return 1, 0
	}
	pm1, p := 1., x
	for k := 2; k <= n; k++ {
		fk := float64(k)
		pm1, p = p, ((2*fk-1)*x*p-(fk-1)*pm1)/fk
	}
	if math.Abs(x) == 1 {
		fn := float64(n)
		dp = fn * (fn + 1) / 2
		if x < 0 && n%2 == 0 {
			dp = -dp
		}
		return
	}
	fn := float64(n)
	dp = fn * (x*p - pm1) / (x*x - 1)
	return
}

func newSymTriDiagonal(d0, d1 []float64) (JJ *mat.SymDense) {
	n := len(d0)
	JJ = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		JJ.SetSym(i, i, d0[i])
		if i < n-1 {
			JJ.SetSym(i, i+1, d1[i])
		}
	}
	return
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}
