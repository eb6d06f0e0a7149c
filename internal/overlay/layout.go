// Package overlay computes where the crop frame and its shadow panels sit
// on screen and renders preview frames from that layout.
package overlay

import (
	"math"

	"github.com/frudas24/cropslice/internal/geom"
)

// Screen is the viewport surface the layout is computed against.
type Screen interface {
	ScreenClipped() geom.Rect
	ImageToScreenRect(r geom.Rect) geom.Rect
}

// Layout is the screen-space geometry of the crop overlay.
type Layout struct {
	// Clipped is the visible part of the image.
	Clipped geom.Rect `json:"clipped"`
	// Crop is the crop frame.
	Crop geom.Rect `json:"crop"`

	ShadowLeft   float64 `json:"shadowLeft"`
	ShadowTop    float64 `json:"shadowTop"`
	ShadowRight  float64 `json:"shadowRight"`
	ShadowBottom float64 `json:"shadowBottom"`

	// Tools overlapping the band between ToolsOuter and ToolsInner should
	// be hidden so they do not cover the grab handles.
	ToolsOuter geom.Rect `json:"toolsOuter"`
	ToolsInner geom.Rect `json:"toolsInner"`
}

// Compute lays out the overlay for an image-space crop rectangle. grab is
// the handle radius in screen pixels.
func Compute(s Screen, cropRect geom.Rect, grab float64) Layout {
	clipped := s.ScreenClipped()
	crop := s.ImageToScreenRect(cropRect)
	return Layout{
		Clipped:      clipped,
		Crop:         crop,
		ShadowLeft:   nonNeg(crop.Left - clipped.Left),
		ShadowTop:    nonNeg(crop.Top - clipped.Top),
		ShadowRight:  nonNeg(clipped.Right() - crop.Right()),
		ShadowBottom: nonNeg(clipped.Bottom() - crop.Bottom()),
		ToolsOuter:   crop.Inflate(grab, grab),
		ToolsInner:   crop.Inflate(-grab, -grab),
	}
}

// Panels returns the four shaded rectangles: top and bottom span the full
// visible width, left and right fill the band beside the crop.
func (l Layout) Panels() []geom.Rect {
	c := l.Clipped
	return []geom.Rect{
		{Left: c.Left, Top: c.Top, Width: c.Width, Height: l.ShadowTop},
		{Left: c.Left, Top: l.Crop.Top, Width: l.ShadowLeft, Height: l.Crop.Height},
		{Left: l.Crop.Right(), Top: l.Crop.Top, Width: l.ShadowRight, Height: l.Crop.Height},
		{Left: c.Left, Top: c.Bottom() - l.ShadowBottom, Width: c.Width, Height: l.ShadowBottom},
	}
}

// OverlapsTools reports whether a tool rectangle lies in the handle band.
func (l Layout) OverlapsTools(tool geom.Rect) bool {
	if tool.Empty() {
		return false
	}
	outer := l.ToolsOuter.Intersect(tool)
	if outer.Empty() {
		return false
	}
	inner := l.ToolsInner.Normalize()
	return !(tool.Left >= inner.Left && tool.Right() <= inner.Right() &&
		tool.Top >= inner.Top && tool.Bottom() <= inner.Bottom())
}

func nonNeg(v float64) float64 {
	return math.Max(0, v)
}
