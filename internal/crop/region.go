// Package crop implements the crop editing mode: a draggable rectangle over
// the displayed image and the controller that exposes it as an editor mode.
package crop

import (
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/geom"
)

// Grab radii in screen pixels. Touch must stay larger than mouse.
const (
	MouseGrabRadius = 6
	TouchGrabRadius = 20
)

// CursorCropStart is shown where a press would start a new crop.
const CursorCropStart = "crop-start"

// Side selects which edge of an axis follows the pointer.
type Side int

const (
	// SideNone leaves the axis untouched.
	SideNone Side = iota
	// SideNear is the left edge on x and the top edge on y.
	SideNear
	// SideFar is the right edge on x and the bottom edge on y.
	SideFar
)

func (s Side) flip() Side {
	switch s {
	case SideNear:
		return SideFar
	case SideFar:
		return SideNear
	}
	return s
}

// Kind is the affordance a DragMode activates.
type Kind int

const (
	// KindCorner moves one horizontal and one vertical edge.
	KindCorner Kind = iota
	// KindEdge moves a single edge.
	KindEdge
	// KindWhole moves the rectangle without resizing it.
	KindWhole
	// KindNewCrop collapses the rectangle to the press point and redraws it.
	KindNewCrop
)

// String returns a short name for logs.
func (k Kind) String() string {
	switch k {
	case KindCorner:
		return "corner"
	case KindEdge:
		return "edge"
	case KindWhole:
		return "whole"
	case KindNewCrop:
		return "newcrop"
	}
	return "unknown"
}

// DragMode describes what a gesture started at a given point does.
type DragMode struct {
	XSide   Side
	YSide   Side
	Whole   bool
	NewCrop bool
}

// Kind classifies the mode. New crop and whole-region moves win over the
// side fields.
func (m DragMode) Kind() Kind {
	switch {
	case m.NewCrop:
		return KindNewCrop
	case m.Whole:
		return KindWhole
	case m.XSide != SideNone && m.YSide != SideNone:
		return KindCorner
	default:
		return KindEdge
	}
}

// Bounds holds the four edges of the crop rectangle in image space.
type Bounds struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

func (b *Bounds) x(s Side) *float64 {
	if s == SideNear {
		return &b.Left
	}
	return &b.Right
}

func (b *Bounds) y(s Side) *float64 {
	if s == SideNear {
		return &b.Top
	}
	return &b.Bottom
}

// Region is a rectangle over the image that can be resized, moved or
// redrawn by dragging. Public methods take screen coordinates, except
// Classify which works in image space.
type Region struct {
	bounds Bounds
	mapper editor.Mapper
	// mode is the drag mode of the current gesture. The drag handler
	// rewrites its sides when an edge crosses its opposite.
	mode *DragMode
}

// NewRegion seeds the region from rect.
func NewRegion(rect geom.Rect, mapper editor.Mapper) *Region {
	return &Region{
		bounds: Bounds{
			Left:   rect.Left,
			Right:  rect.Left + rect.Width,
			Top:    rect.Top,
			Bottom: rect.Top + rect.Height,
		},
		mapper: mapper,
	}
}

// Rect returns the current bounds as a rectangle.
func (r *Region) Rect() geom.Rect {
	return geom.RectFromBounds(r.bounds.Left, r.bounds.Top, r.bounds.Right, r.bounds.Bottom)
}

// Bounds returns a copy of the current edges.
func (r *Region) Bounds() Bounds { return r.bounds }

// Mode returns the drag mode of the gesture in progress.
func (r *Region) Mode() (DragMode, bool) {
	if r.mode == nil {
		return DragMode{}, false
	}
	return *r.mode, true
}

// EndDrag drops the drag mode once the gesture is over.
func (r *Region) EndDrag() { r.mode = nil }

func (r *Region) grabRadius(touch bool) float64 {
	if touch {
		return r.mapper.ScreenToImageSize(TouchGrabRadius)
	}
	return r.mapper.ScreenToImageSize(MouseGrabRadius)
}

// Classify returns the drag mode for an image-space point. Corners are
// tested before edges because a point near a corner is also near two edges;
// corners are tried top-left, bottom-left, top-right, bottom-right and the
// first hit wins when their circles overlap.
func (r *Region) Classify(x, y float64, touch bool) DragMode {
	b := r.bounds
	radius := r.grabRadius(touch)
	c := geom.Circle{X: x, Y: y, R: radius}

	xBetween := geom.Between(b.Left, x, b.Right)
	yBetween := geom.Between(b.Top, y, b.Bottom)

	switch {
	case c.Contains(b.Left, b.Top):
		return DragMode{XSide: SideNear, YSide: SideNear}
	case c.Contains(b.Left, b.Bottom):
		return DragMode{XSide: SideNear, YSide: SideFar}
	case c.Contains(b.Right, b.Top):
		return DragMode{XSide: SideFar, YSide: SideNear}
	case c.Contains(b.Right, b.Bottom):
		return DragMode{XSide: SideFar, YSide: SideFar}
	case yBetween && abs(x-b.Left) <= radius:
		return DragMode{XSide: SideNear}
	case yBetween && abs(x-b.Right) <= radius:
		return DragMode{XSide: SideFar}
	case xBetween && abs(y-b.Top) <= radius:
		return DragMode{YSide: SideNear}
	case xBetween && abs(y-b.Bottom) <= radius:
		return DragMode{YSide: SideFar}
	case xBetween && yBetween:
		return DragMode{Whole: true}
	default:
		return DragMode{XSide: SideFar, YSide: SideFar, NewCrop: true}
	}
}

// CursorStyle returns the cursor for a screen point. While pressed the
// gesture's mode is used, otherwise the point is classified with the mouse
// radius.
func (r *Region) CursorStyle(x, y float64, pressed bool) string {
	var mode DragMode
	if pressed && r.mode != nil {
		mode = *r.mode
	} else {
		mode = r.Classify(r.mapper.ScreenToImageX(x), r.mapper.ScreenToImageY(y), false)
	}
	switch mode.Kind() {
	case KindWhole:
		return editor.CursorMove
	case KindNewCrop:
		return CursorCropStart
	}
	return resizeCursor(mode)
}

// resizeCursor builds tokens such as "nw-resize" or "e-resize".
func resizeCursor(mode DragMode) string {
	var ySymbol, xSymbol string
	switch mode.YSide {
	case SideNear:
		ySymbol = "n"
	case SideFar:
		ySymbol = "s"
	}
	switch mode.XSide {
	case SideNear:
		xSymbol = "w"
	case SideFar:
		xSymbol = "e"
	}
	if xSymbol == "" && ySymbol == "" {
		return editor.CursorDefault
	}
	return ySymbol + xSymbol + "-resize"
}

// DragHandler starts a gesture at a screen point. It returns nil when the
// point is outside the visible image. The visible region is read once here
// and used for the whole gesture.
func (r *Region) DragHandler(startScreenX, startScreenY float64, touch bool) editor.DragFunc {
	startX := r.mapper.ScreenToImageX(startScreenX)
	startY := r.mapper.ScreenToImageY(startScreenY)
	r.mode = nil
	clip := r.mapper.ImageClipped()
	if !clip.Contains(startX, startY) {
		return nil
	}

	mode := r.Classify(startX, startY, touch)
	r.mode = &mode
	if mode.Whole {
		return r.moveHandler(startX, startY, clip)
	}
	return r.resizeHandler(startX, startY, clip)
}

// moveHandler keeps the size fixed and the grabbed point under the pointer.
func (r *Region) moveHandler(startX, startY float64, clip geom.Rect) editor.DragFunc {
	biasX := r.bounds.Left - startX
	biasY := r.bounds.Top - startY
	width := r.bounds.Right - r.bounds.Left
	height := r.bounds.Bottom - r.bounds.Top
	maxX := clip.Right() - width
	maxY := clip.Bottom() - height

	return func(screenX, screenY float64) {
		x := r.mapper.ScreenToImageX(screenX)
		y := r.mapper.ScreenToImageY(screenY)
		left := geom.Clamp(clip.Left, x+biasX, maxX)
		top := geom.Clamp(clip.Top, y+biasY, maxY)
		r.bounds.Left = left
		r.bounds.Right = left + width
		r.bounds.Top = top
		r.bounds.Bottom = top + height
	}
}

// resizeHandler moves the tracked edges. When a tracked edge crosses its
// opposite the two are swapped and the tracked side flips, so the pointer
// keeps dragging the same physical edge.
func (r *Region) resizeHandler(startX, startY float64, clip geom.Rect) editor.DragFunc {
	mode := r.mode
	var biasX, biasY float64
	if mode.XSide != SideNone {
		biasX = *r.bounds.x(mode.XSide) - startX
	}
	if mode.YSide != SideNone {
		biasY = *r.bounds.y(mode.YSide) - startY
	}

	return func(screenX, screenY float64) {
		x := r.mapper.ScreenToImageX(screenX)
		y := r.mapper.ScreenToImageY(screenY)

		if mode.NewCrop {
			mode.NewCrop = false
			px := geom.Clamp(clip.Left, x, clip.Right())
			py := geom.Clamp(clip.Top, y, clip.Bottom())
			r.bounds.Left, r.bounds.Right = px, px
			r.bounds.Top, r.bounds.Bottom = py, py
			biasX, biasY = 0, 0
		}

		if mode.XSide != SideNone {
			*r.bounds.x(mode.XSide) = geom.Clamp(clip.Left, x+biasX, clip.Right())
			if r.bounds.Left > r.bounds.Right {
				r.bounds.Left, r.bounds.Right = r.bounds.Right, r.bounds.Left
				mode.XSide = mode.XSide.flip()
			}
		}

		if mode.YSide != SideNone {
			*r.bounds.y(mode.YSide) = geom.Clamp(clip.Top, y+biasY, clip.Bottom())
			if r.bounds.Top > r.bounds.Bottom {
				r.bounds.Top, r.bounds.Bottom = r.bounds.Bottom, r.bounds.Top
				mode.YSide = mode.YSide.flip()
			}
		}
	}
}

// DoubleTapAction commits when the tap lands on the visible image.
func (r *Region) DoubleTapAction(x, y float64) editor.DoubleTapAction {
	ix := r.mapper.ScreenToImageX(x)
	iy := r.mapper.ScreenToImageY(y)
	if r.mapper.ImageClipped().Contains(ix, iy) {
		return editor.TapCommit
	}
	return editor.TapNothing
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
