package PS1D

import "errors"

var (
	// ErrInvalidConfiguration flags malformed grid parameters at
	// construction time. Not recoverable.
	ErrInvalidConfiguration = errors.New("invalid grid configuration")

	// ErrIndexOutOfRange flags a segment index outside [0, NumSegments).
	ErrIndexOutOfRange = errors.New("segment index out of range")

	// ErrDomain flags a local coordinate outside [-1,1]. The engine never
	// extrapolates: pseudospectral polynomials diverge sharply outside the
	// node interval and a silently extrapolated value would corrupt
	// optimizer gradients.
	ErrDomain = errors.New("local coordinate outside [-1,1]")
)
