package shooting

import "math"

// Brachistochrone is the classic bead-on-a-wire model problem: states
// [x, y, v], one control theta (wire angle). Gravity acts in -y.
//
//	xdot = v sin(theta)
//	ydot = -v cos(theta)
//	vdot = g cos(theta)
type Brachistochrone struct {
	G float64 // gravitational acceleration, m/s^2
}

func NewBrachistochrone() *Brachistochrone {
	return &Brachistochrone{G: 9.80665}
}

func (b *Brachistochrone) NumStates() int { return 3 }

func (b *Brachistochrone) Rates(t float64, y, u, yDot []float64) {
	var (
		v    = y[2]
		sinT = math.Sin(u[0])
		cosT = math.Cos(u[0])
	)
	yDot[0] = v * sinT
	yDot[1] = -v * cosT
	yDot[2] = b.G * cosT
}
