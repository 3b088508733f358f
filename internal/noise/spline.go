package noise

// Knot maps one sampled noise value to an output (typically a terrain height).
type Knot struct {
	In  float64
	Out float64
}

// Spline is a piecewise-linear curve over knots sorted by ascending In.
// Inputs outside the knot range clamp to the nearest endpoint.
type Spline []Knot

// Eval interpolates the curve at t.
func (s Spline) Eval(t float64) float64 {
	if len(s) == 0 {
		return 0
	}
	if t <= s[0].In {
		return s[0].Out
	}
	if t >= s[len(s)-1].In {
		return s[len(s)-1].Out
	}
	for i := 0; i < len(s)-1; i++ {
		a, b := s[i], s[i+1]
		if t >= a.In && t <= b.In {
			local := (t - a.In) / (b.In - a.In)
			return a.Out + local*(b.Out-a.Out)
		}
	}
	return s[len(s)-1].Out
}
