package scoring

// rule maps a metric value to points.
type rule interface {
	points(v float64) int
	floor() int
}

// band is one threshold row of a scale.
type band struct {
	bound  float64
	points int
}

type comparison int

const (
	atLeast comparison = iota // v >= bound
	atMost                    // v <= bound
	above                     // v > bound
)

// scale walks its bands in order and returns the points of the first band
// the value satisfies, or otherwise when none match.
type scale struct {
	cmp       comparison
	bands     []band
	otherwise int
}

func (s scale) points(v float64) int {
	for _, b := range s.bands {
		if s.match(v, b.bound) {
			return b.points
		}
	}
	return s.otherwise
}

func (s scale) match(v, bound float64) bool {
	switch s.cmp {
	case atMost:
		return v <= bound
	case above:
		return v > bound
	default:
		return v >= bound
	}
}

func (s scale) floor() int {
	lowest := s.otherwise
	for _, b := range s.bands {
		lowest = min(lowest, b.points)
	}
	return lowest
}

// window awards inside when lo <= v <= hi, near when v <= nearMax and far
// otherwise.
type window struct {
	lo, hi  float64
	nearMax float64
	inside  int
	near    int
	far     int
}

func (w window) points(v float64) int {
	switch {
	case v >= w.lo && v <= w.hi:
		return w.inside
	case v <= w.nearMax:
		return w.near
	default:
		return w.far
	}
}

func (w window) floor() int {
	return min(w.inside, w.near, w.far)
}

func higherBetter(otherwise int, bands ...band) scale {
	return scale{cmp: atLeast, bands: bands, otherwise: otherwise}
}

func lowerBetter(otherwise int, bands ...band) scale {
	return scale{cmp: atMost, bands: bands, otherwise: otherwise}
}

func strictlyAbove(otherwise int, bands ...band) scale {
	return scale{cmp: above, bands: bands, otherwise: otherwise}
}
