package editor

import "github.com/frudas24/cropslice/internal/command"

// Panner is the part of a viewport the view mode drives.
type Panner interface {
	Offset() (float64, float64)
	SetOffset(x, y float64)
	ScreenToImageSize(length float64) float64
}

// View is the browsing mode: dragging pans a zoomed image, nothing is ever
// committed.
type View struct {
	panner Panner
	vp     Viewport
}

// NewView returns a view mode that pans p. A nil panner disables dragging.
func NewView(p Panner) *View {
	return &View{panner: p}
}

// Name implements Mode.
func (v *View) Name() string { return "view" }

// SetUp implements Mode.
func (v *View) SetUp(vp Viewport) { v.vp = vp }

// Reset implements Mode.
func (v *View) Reset() {}

// CleanUp implements Mode.
func (v *View) CleanUp() { v.vp = nil }

// Updated implements Mode; panning is not an edit.
func (v *View) Updated() bool { return false }

// Command implements Mode; viewing never produces a command.
func (v *View) Command() command.Command { return nil }

// CursorStyle implements Mode.
func (v *View) CursorStyle(_, _ float64, pressed bool) string {
	if pressed && v.panner != nil {
		return CursorMove
	}
	return CursorDefault
}

// DragHandler pans the image so the grabbed point follows the pointer.
func (v *View) DragHandler(x, y float64, _ bool) DragFunc {
	if v.panner == nil || v.vp == nil {
		return nil
	}
	if !v.vp.ImageClipped().Contains(v.vp.ScreenToImageX(x), v.vp.ScreenToImageY(y)) {
		return nil
	}
	startOffX, startOffY := v.panner.Offset()
	return func(sx, sy float64) {
		dx := v.panner.ScreenToImageSize(sx - x)
		dy := v.panner.ScreenToImageSize(sy - y)
		v.panner.SetOffset(startOffX-dx, startOffY-dy)
	}
}

// DoubleTapAction implements Mode.
func (v *View) DoubleTapAction(_, _ float64) DoubleTapAction { return TapNothing }

// OnResized implements Mode.
func (v *View) OnResized() {}
