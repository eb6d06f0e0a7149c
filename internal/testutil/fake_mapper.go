// Package testutil holds test doubles shared across packages.
package testutil

import "github.com/frudas24/cropslice/internal/geom"

// FakeMapper is a fixed scale-and-offset viewport. Screen = Origin + image*Scale.
// Clip is the visible image region in image space.
type FakeMapper struct {
	Scale   float64
	OriginX float64
	OriginY float64
	Clip    geom.Rect
	// Clipped counts ImageClipped calls.
	Clipped int
	// ImageW and ImageH record the last SetImageSize call.
	ImageW int
	ImageH int
}

// NewFakeMapper returns a 1:1 mapper over a visible region of w x h at the origin.
func NewFakeMapper(w, h float64) *FakeMapper {
	return &FakeMapper{Scale: 1, Clip: geom.Rect{Width: w, Height: h}}
}

// ScreenToImageX converts a screen x to image space.
func (f *FakeMapper) ScreenToImageX(x float64) float64 { return (x - f.OriginX) / f.Scale }

// ScreenToImageY converts a screen y to image space.
func (f *FakeMapper) ScreenToImageY(y float64) float64 { return (y - f.OriginY) / f.Scale }

// ScreenToImageSize converts a screen length to image units.
func (f *FakeMapper) ScreenToImageSize(length float64) float64 { return length / f.Scale }

// ImageClipped returns Clip and counts the call.
func (f *FakeMapper) ImageClipped() geom.Rect {
	f.Clipped++
	return f.Clip
}

// ImageToScreenRect converts an image rectangle to screen space.
func (f *FakeMapper) ImageToScreenRect(r geom.Rect) geom.Rect {
	return geom.Rect{
		Left:   f.OriginX + r.Left*f.Scale,
		Top:    f.OriginY + r.Top*f.Scale,
		Width:  r.Width * f.Scale,
		Height: r.Height * f.Scale,
	}
}

// ScreenClipped returns Clip in screen space.
func (f *FakeMapper) ScreenClipped() geom.Rect {
	return f.ImageToScreenRect(f.Clip)
}

// SetImageSize records the size and makes the whole image visible.
func (f *FakeMapper) SetImageSize(w, h int) {
	f.ImageW, f.ImageH = w, h
	f.Clip = geom.Rect{Width: float64(w), Height: float64(h)}
}
