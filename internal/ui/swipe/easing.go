package swipe

// CubicBezier is a CSS style timing curve through (0,0) and (1,1).
type CubicBezier struct {
	X1, Y1, X2, Y2 float64
}

// FastOutSlowIn accelerates quickly and settles slowly.
var FastOutSlowIn = CubicBezier{X1: 0.4, Y1: 0, X2: 0.2, Y2: 1}

// Ease maps linear progress t in [0,1] to eased progress.
func (c CubicBezier) Ease(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	lo, hi := 0.0, 1.0
	u := t
	for i := 0; i < 48; i++ {
		x := bezier(u, c.X1, c.X2)
		if x < t {
			lo = u
		} else {
			hi = u
		}
		u = (lo + hi) / 2
	}
	return bezier(u, c.Y1, c.Y2)
}

func bezier(u, p1, p2 float64) float64 {
	v := 1 - u
	return 3*v*v*u*p1 + 3*v*u*u*p2 + u*u*u
}
