package stats

import "math"

// WinRate is the share of trials that ended in a success. A draw can be
// recorded as half a success.
type WinRate struct {
	Successes float64
	Trials    float64
}

func (w WinRate) Mean() float64 {
	if w.Trials == 0 {
		return 0
	}
	return w.Successes / w.Trials
}

// Bounds returns the Wilson score interval for the given z-value. With no
// trials the interval is the whole of [0, 1].
func (w WinRate) Bounds(z float64) (float64, float64) {
	if w.Trials == 0 {
		return 0, 1
	}
	n := w.Trials
	p := math.Min(math.Max(w.Mean(), 0), 1)
	z2 := z * z
	denom := 1 + z2/n
	centre := (p + z2/(2*n)) / denom
	margin := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom
	return math.Max(0, centre-margin), math.Min(1, centre+margin)
}

// Separated is true when a's lower bound clears b's upper bound.
func Separated(a, b WinRate, z float64) bool {
	alo, _ := a.Bounds(z)
	_, bhi := b.Bounds(z)
	return alo > bhi
}
