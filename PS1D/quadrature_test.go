package PS1D

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLegendreGaussLobatto(t *testing.T) {
	{
		nodes := LegendreGaussLobatto(3)
		assert.Equal(t, 3, len(nodes))
		expected := []float64{-1, 0, 1}
		for j, x := range expected {
			assert.True(t, near(nodes[j], x))
		}
	}
	{
		nodes := LegendreGaussLobatto(5)
		expected := []float64{-1, -0.65465367, 0, 0.65465367, 1}
		for j, x := range expected {
			assert.True(t, near(nodes[j], x))
		}
	}
	{
		nodes := LegendreGaussLobatto(7)
		expected := []float64{-1, -0.83022390, -0.46884879, 0, 0.46884879, 0.83022390, 1}
		for j, x := range expected {
			assert.True(t, near(nodes[j], x))
		}
	}
	{
		// High order node sets stay ordered and bounded
		nodes := LegendreGaussLobatto(16)
		assert.Equal(t, 16, len(nodes))
		assert.True(t, near(nodes[0], -1))
		assert.True(t, near(nodes[15], 1))
		assert.True(t, near(nodes[1], -0.96956805))
		for j := 1; j < 16; j++ {
			assert.True(t, nodes[j] > nodes[j-1])
		}
	}
}

func TestLegendreGaussRadau(t *testing.T) {
	{
		nodes := LegendreGaussRadau(1)
		assert.Equal(t, []float64{-1}, nodes)
	}
	{
		nodes := LegendreGaussRadau(3)
		expected := []float64{-1, -0.28989795, 0.68989795}
		for j, x := range expected {
			assert.True(t, near(nodes[j], x))
		}
	}
	{
		nodes := LegendreGaussRadau(5)
		expected := []float64{-1, -0.72048027, -0.16718086, 0.44631397, 0.88579161}
		for j, x := range expected {
			assert.True(t, near(nodes[j], x))
		}
	}
	{
		// Radau sets exclude +1 at every order
		for n := 2; n <= 15; n++ {
			nodes := LegendreGaussRadau(n)
			assert.Equal(t, n, len(nodes))
			assert.True(t, near(nodes[0], -1))
			assert.True(t, nodes[n-1] < 1)
			for j := 1; j < n; j++ {
				assert.True(t, nodes[j] > nodes[j-1])
			}
		}
	}
}

func TestJacobiGQ(t *testing.T) {
	// Gauss weights integrate the unit weight exactly: sum W = 2
	for N := 0; N < 10; N++ {
		_, W := JacobiGQ(0, 0, N)
		var sum float64
		for _, w := range W.DataP() {
			sum += w
		}
		assert.True(t, near(sum, 2))
	}
	// Legendre-Gauss points for N=1 are +/- 1/sqrt(3)
	X, _ := JacobiGQ(0, 0, 1)
	assert.True(t, near(X.AtVec(0), -1/math.Sqrt(3)))
	assert.True(t, near(X.AtVec(1), 1/math.Sqrt(3)))
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08*math.Max(math.Abs(a), 1) {
		l = true
	}
	return
}
