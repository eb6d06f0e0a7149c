package overlay

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/frudas24/cropslice/internal/geom"
	xdraw "golang.org/x/image/draw"
)

var (
	shadeColor = color.NRGBA{A: 140}
	frameColor = color.NRGBA{R: 255, G: 255, B: 255, A: 230}
)

// View is the viewport surface needed to render a preview.
type View interface {
	Screen
	ScreenSize() (int, int)
	ImageClipped() geom.Rect
}

// Render draws the visible part of src scaled onto a screen-sized canvas,
// shades everything outside the crop and outlines the crop frame.
func Render(src image.Image, v View, l Layout) *image.RGBA {
	w, h := v.ScreenSize()
	dst := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	if src == nil {
		return dst
	}

	srcRect := v.ImageClipped().Image().Add(src.Bounds().Min).Intersect(src.Bounds())
	dstRect := l.Clipped.Image().Intersect(dst.Bounds())
	if !srcRect.Empty() && !dstRect.Empty() {
		xdraw.ApproxBiLinear.Scale(dst, dstRect, src, srcRect, draw.Src, nil)
	}

	shade := image.NewUniform(shadeColor)
	for _, p := range l.Panels() {
		r := p.Image().Intersect(dst.Bounds())
		if r.Empty() {
			continue
		}
		draw.Draw(dst, r, shade, image.Point{}, draw.Over)
	}
	drawFrame(dst, l.Crop.Image())
	return dst
}

// drawFrame outlines r with a one-pixel line.
func drawFrame(dst *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	line := image.NewUniform(frameColor)
	edges := []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1),
		image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y),
		image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(dst.Bounds()), line, image.Point{}, draw.Over)
	}
}
