// Package geom provides the small rectangle and circle primitives used by
// the crop editor. All values are float64 so the same types serve image and
// screen space.
package geom

import (
	"image"
	"math"
)

// Rect describes a rectangle using top-left origin and size.
type Rect struct {
	Left   float64 `json:"left" yaml:"left"`
	Top    float64 `json:"top" yaml:"top"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// RectFromBounds builds a rectangle from its four edges.
func RectFromBounds(left, top, right, bottom float64) Rect {
	return Rect{Left: left, Top: top, Width: right - left, Height: bottom - top}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.Left + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Top + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Normalize returns a rectangle with non-negative width/height.
func (r Rect) Normalize() Rect {
	if r.Width < 0 {
		r.Left += r.Width
		r.Width = -r.Width
	}
	if r.Height < 0 {
		r.Top += r.Height
		r.Height = -r.Height
	}
	return r
}

// Contains reports whether a point is inside the rectangle (edges inclusive).
// A zero-size rectangle still contains its own corner point.
func (r Rect) Contains(x, y float64) bool {
	if r.Width < 0 || r.Height < 0 {
		return false
	}
	return x >= r.Left && x <= r.Right() && y >= r.Top && y <= r.Bottom()
}

// Inflate grows the rectangle by dx on the left and right and dy on the top
// and bottom. Negative values shrink it.
func (r Rect) Inflate(dx, dy float64) Rect {
	return Rect{
		Left:   r.Left - dx,
		Top:    r.Top - dy,
		Width:  r.Width + 2*dx,
		Height: r.Height + 2*dy,
	}
}

// Intersect returns the overlap of r and o. Disjoint rectangles yield a
// zero-size rectangle.
func (r Rect) Intersect(o Rect) Rect {
	left := math.Max(r.Left, o.Left)
	top := math.Max(r.Top, o.Top)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if right < left || bottom < top {
		return Rect{Left: left, Top: top}
	}
	return RectFromBounds(left, top, right, bottom)
}

// Image rounds the rectangle to integer pixel coordinates.
func (r Rect) Image() image.Rectangle {
	r = r.Normalize()
	return image.Rect(
		int(math.Round(r.Left)),
		int(math.Round(r.Top)),
		int(math.Round(r.Right())),
		int(math.Round(r.Bottom())),
	)
}

// FromImage converts an integer rectangle.
func FromImage(r image.Rectangle) Rect {
	return Rect{
		Left:   float64(r.Min.X),
		Top:    float64(r.Min.Y),
		Width:  float64(r.Dx()),
		Height: float64(r.Dy()),
	}
}
