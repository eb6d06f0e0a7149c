// Package viewport maps between image space and screen space for a single
// displayed image.
package viewport

import (
	"math"

	"github.com/frudas24/cropslice/internal/geom"
)

const (
	minZoom = 1
	maxZoom = 16
)

// Viewport describes how an image is placed on a screen (window). The image
// is fitted to the screen, never upscaled past 1:1 at zoom 1, centered, then
// zoomed and panned.
type Viewport struct {
	imageW  float64
	imageH  float64
	screenW float64
	screenH float64
	zoom    float64
	offsetX float64
	offsetY float64
}

// New returns a viewport for an image of imageW x imageH shown on a screen
// of screenW x screenH.
func New(imageW, imageH, screenW, screenH int) *Viewport {
	return &Viewport{
		imageW:  float64(imageW),
		imageH:  float64(imageH),
		screenW: float64(screenW),
		screenH: float64(screenH),
		zoom:    minZoom,
	}
}

// SetImageSize replaces the image dimensions, for example after a crop was
// committed. Zoom and pan are reset.
func (v *Viewport) SetImageSize(w, h int) {
	v.imageW = float64(w)
	v.imageH = float64(h)
	v.zoom = minZoom
	v.offsetX, v.offsetY = 0, 0
}

// SetScreenSize handles a window resize.
func (v *Viewport) SetScreenSize(w, h int) {
	v.screenW = float64(w)
	v.screenH = float64(h)
	v.clampOffset()
}

// ScreenSize returns the screen dimensions.
func (v *Viewport) ScreenSize() (int, int) {
	return int(v.screenW), int(v.screenH)
}

// SetZoom sets the zoom factor relative to the fitted scale.
func (v *Viewport) SetZoom(z float64) {
	v.zoom = geom.Clamp(minZoom, z, maxZoom)
	v.clampOffset()
}

// Zoom returns the zoom factor.
func (v *Viewport) Zoom() float64 { return v.zoom }

// SetOffset pans the view. The offset is the image-space displacement of the
// visible center from the image center.
func (v *Viewport) SetOffset(x, y float64) {
	v.offsetX = x
	v.offsetY = y
	v.clampOffset()
}

// Offset returns the current pan offset.
func (v *Viewport) Offset() (float64, float64) { return v.offsetX, v.offsetY }

// Scale returns screen pixels per image pixel.
func (v *Viewport) Scale() float64 {
	return v.fitScale() * v.zoom
}

func (v *Viewport) fitScale() float64 {
	if v.imageW <= 0 || v.imageH <= 0 || v.screenW <= 0 || v.screenH <= 0 {
		return 1
	}
	return math.Min(1, math.Min(v.screenW/v.imageW, v.screenH/v.imageH))
}

// clampOffset keeps the pan inside the range where the image still covers
// the screen along axes where it is larger than the screen.
func (v *Viewport) clampOffset() {
	s := v.Scale()
	v.offsetX = clampAxis(v.offsetX, v.imageW, v.screenW, s)
	v.offsetY = clampAxis(v.offsetY, v.imageH, v.screenH, s)
}

func clampAxis(offset, image, screen, scale float64) float64 {
	limit := image/2 - screen/(2*scale)
	if limit <= 0 {
		return 0
	}
	return geom.Clamp(-limit, offset, limit)
}

func (v *Viewport) originX() float64 {
	return v.screenW/2 - (v.imageW/2+v.offsetX)*v.Scale()
}

func (v *Viewport) originY() float64 {
	return v.screenH/2 - (v.imageH/2+v.offsetY)*v.Scale()
}

// ScreenToImageX converts a screen x coordinate to image space.
func (v *Viewport) ScreenToImageX(x float64) float64 {
	return (x - v.originX()) / v.Scale()
}

// ScreenToImageY converts a screen y coordinate to image space.
func (v *Viewport) ScreenToImageY(y float64) float64 {
	return (y - v.originY()) / v.Scale()
}

// ScreenToImageSize converts a screen length to image units.
func (v *Viewport) ScreenToImageSize(length float64) float64 {
	return length / v.Scale()
}

// ImageToScreenX converts an image x coordinate to screen space.
func (v *Viewport) ImageToScreenX(x float64) float64 {
	return v.originX() + x*v.Scale()
}

// ImageToScreenY converts an image y coordinate to screen space.
func (v *Viewport) ImageToScreenY(y float64) float64 {
	return v.originY() + y*v.Scale()
}

// ImageToScreenSize converts an image length to screen pixels.
func (v *Viewport) ImageToScreenSize(length float64) float64 {
	return length * v.Scale()
}

// ImageToScreenRect converts an image-space rectangle to screen space.
func (v *Viewport) ImageToScreenRect(r geom.Rect) geom.Rect {
	return geom.Rect{
		Left:   v.ImageToScreenX(r.Left),
		Top:    v.ImageToScreenY(r.Top),
		Width:  v.ImageToScreenSize(r.Width),
		Height: v.ImageToScreenSize(r.Height),
	}
}

// ScreenToImageRect converts a screen-space rectangle to image space.
func (v *Viewport) ScreenToImageRect(r geom.Rect) geom.Rect {
	return geom.Rect{
		Left:   v.ScreenToImageX(r.Left),
		Top:    v.ScreenToImageY(r.Top),
		Width:  v.ScreenToImageSize(r.Width),
		Height: v.ScreenToImageSize(r.Height),
	}
}

// ImageBounds returns the whole image in image space.
func (v *Viewport) ImageBounds() geom.Rect {
	return geom.Rect{Width: v.imageW, Height: v.imageH}
}

// ScreenClipped returns the visible part of the image in screen space.
func (v *Viewport) ScreenClipped() geom.Rect {
	screen := geom.Rect{Width: v.screenW, Height: v.screenH}
	return v.ImageToScreenRect(v.ImageBounds()).Intersect(screen)
}

// ImageClipped returns the visible part of the image in image space.
func (v *Viewport) ImageClipped() geom.Rect {
	return v.ScreenToImageRect(v.ScreenClipped())
}

// NormToScreen maps normalized client coordinates in [0..1] to screen pixels.
func (v *Viewport) NormToScreen(xn, yn float64) (float64, float64) {
	return clamp01(xn) * v.screenW, clamp01(yn) * v.screenH
}

// clamp01 bounds a float to the [0..1] range.
func clamp01(f float64) float64 {
	return geom.Clamp(0, f, 1)
}
