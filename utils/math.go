package utils

func ConstArray(N int, val float64) (v []float64) {
	v = make([]float64, N)
	for i := range v {
		v[i] = val
	}
	return
}

// Linspace produces N evenly spaced values covering [min, max] inclusive.
func Linspace(min, max float64, N int) (v []float64) {
	v = make([]float64, N)
	if N == 1 {
		v[0] = min
		return
	}
	h := (max - min) / float64(N-1)
	for i := range v {
		v[i] = min + float64(i)*h
	}
	v[N-1] = max
	return
}
