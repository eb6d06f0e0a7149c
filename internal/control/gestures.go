package control

import (
	"time"

	"github.com/frudas24/cropslice/internal/crop"
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/geom"
)

// DefaultDoubleTap is the longest gap between two presses of a double tap.
const DefaultDoubleTap = 300 * time.Millisecond

// Target receives pointer queries in screen coordinates.
type Target interface {
	CursorStyle(x, y float64, pressed bool) string
	DragHandler(x, y float64, touch bool) editor.DragFunc
	DoubleTapAction(x, y float64) editor.DoubleTapAction
	EndDrag()
}

// GestureState tracks the single active pointer and routes its events to
// the target.
type GestureState struct {
	target    Target
	doubleTap time.Duration
	now       func() time.Time

	pressed bool
	pointer int
	drag    editor.DragFunc

	lastTapAt time.Time
	lastTapX  float64
	lastTapY  float64
}

// NewGestureState returns a tracker for target. A non-positive doubleTap
// uses DefaultDoubleTap.
func NewGestureState(target Target, doubleTap time.Duration) *GestureState {
	if doubleTap <= 0 {
		doubleTap = DefaultDoubleTap
	}
	return &GestureState{target: target, doubleTap: doubleTap, now: time.Now}
}

// SetNowFunc overrides the clock used for double-tap detection.
func (g *GestureState) SetNowFunc(fn func() time.Time) {
	if fn != nil {
		g.now = fn
	}
}

// Pressed reports whether a pointer is down.
func (g *GestureState) Pressed() bool { return g.pressed }

// HandleDown starts a gesture. A second press close in time and space to
// the previous one is a double tap and is answered by the target's double
// tap action instead of a drag.
func (g *GestureState) HandleDown(inputEnabled bool, pointerID int, x, y float64, touch bool) []Action {
	if !inputEnabled {
		return nil
	}
	if g.pressed && g.pointer != pointerID {
		return nil
	}

	now := g.now()
	if g.isDoubleTap(now, x, y) {
		g.lastTapAt = time.Time{}
		if g.target.DoubleTapAction(x, y) == editor.TapCommit {
			g.release()
			return []Action{{Type: ActCommit}}
		}
	} else {
		g.lastTapAt = now
		g.lastTapX, g.lastTapY = x, y
	}

	g.pressed = true
	g.pointer = pointerID
	g.drag = g.target.DragHandler(x, y, touch)
	return []Action{{Type: ActCursor, Cursor: g.target.CursorStyle(x, y, true)}}
}

// HandleMove feeds the active drag handler.
func (g *GestureState) HandleMove(inputEnabled bool, pointerID int, x, y float64) []Action {
	if !inputEnabled || !g.pressed || g.pointer != pointerID || g.drag == nil {
		return nil
	}
	g.drag(x, y)
	return []Action{
		{Type: ActRender},
		{Type: ActCursor, Cursor: g.target.CursorStyle(x, y, true)},
	}
}

// HandleUp ends the gesture. The region keeps whatever the last move set.
func (g *GestureState) HandleUp(pointerID int, x, y float64) []Action {
	if !g.pressed || g.pointer != pointerID {
		return nil
	}
	g.release()
	return []Action{{Type: ActCursor, Cursor: g.target.CursorStyle(x, y, false)}}
}

// HandleHover reports the cursor for a pointer that is not pressed.
func (g *GestureState) HandleHover(x, y float64) []Action {
	if g.pressed {
		return nil
	}
	return []Action{{Type: ActCursor, Cursor: g.target.CursorStyle(x, y, false)}}
}

// Reset drops the active gesture and any pending tap, for example after
// the image or mode changed under it.
func (g *GestureState) Reset() {
	g.release()
	g.lastTapAt = time.Time{}
}

func (g *GestureState) release() {
	if g.pressed {
		g.target.EndDrag()
	}
	g.pressed = false
	g.drag = nil
}

func (g *GestureState) isDoubleTap(now time.Time, x, y float64) bool {
	if g.lastTapAt.IsZero() || now.Sub(g.lastTapAt) > g.doubleTap {
		return false
	}
	c := geom.Circle{X: g.lastTapX, Y: g.lastTapY, R: crop.TouchGrabRadius}
	return c.Contains(x, y)
}
