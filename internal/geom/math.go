package geom

// Circle is a hit area centered on (X, Y).
type Circle struct {
	X float64
	Y float64
	R float64
}

// Contains reports whether (x, y) lies within the circle, boundary included.
func (c Circle) Contains(x, y float64) bool {
	dx := x - c.X
	dy := y - c.Y
	return dx*dx+dy*dy <= c.R*c.R
}

// Clamp bounds v to [lo, hi]. When hi < lo the result is lo.
func Clamp(lo, v, hi float64) float64 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Between reports whether b lies between a and c, inclusive, in either order.
func Between(a, b, c float64) bool {
	return (a-b)*(c-b) <= 0
}
