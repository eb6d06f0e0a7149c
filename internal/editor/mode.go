// Package editor defines the editing-mode contract and the editor that owns
// the image, the active mode and the undo history.
package editor

import (
	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/geom"
)

// Mapper converts between screen and image space and reports the visible
// part of the image. The visible region may change between calls.
type Mapper interface {
	ScreenToImageX(x float64) float64
	ScreenToImageY(y float64) float64
	ScreenToImageSize(length float64) float64
	ImageClipped() geom.Rect
}

// Viewport is the mapper plus the screen-space queries modes need to lay
// out their overlays.
type Viewport interface {
	Mapper
	ImageToScreenRect(r geom.Rect) geom.Rect
	ScreenClipped() geom.Rect
}

// DragFunc receives screen coordinates for every pointer move of a gesture.
// Calls must be made in the order events were received.
type DragFunc func(screenX, screenY float64)

// DoubleTapAction tells the caller what a double tap should do.
type DoubleTapAction int

const (
	// TapNothing ignores the double tap.
	TapNothing DoubleTapAction = iota
	// TapCommit commits the active mode.
	TapCommit
)

// String returns the wire name of the action.
func (a DoubleTapAction) String() string {
	if a == TapCommit {
		return "commit"
	}
	return "nothing"
}

// Cursor styles shared by modes.
const (
	CursorDefault = "default"
	CursorMove    = "move"
)

// Mode is one editing mode. Implementations are not safe for concurrent use;
// the owner serializes calls.
type Mode interface {
	// Name is the stable identifier used by clients.
	Name() string
	// SetUp binds the mode to a viewport and builds its initial state.
	SetUp(vp Viewport)
	// Reset returns the mode to its initial state.
	Reset()
	// CleanUp releases state created by SetUp.
	CleanUp()
	// Updated reports whether the user changed anything since SetUp/Reset.
	Updated() bool
	// Command returns the command that commits the mode, or nil.
	Command() command.Command
	CursorStyle(x, y float64, pressed bool) string
	// DragHandler returns nil when no gesture should start at (x, y).
	DragHandler(x, y float64, touch bool) DragFunc
	DoubleTapAction(x, y float64) DoubleTapAction
	// OnResized is called after the viewport changed size, zoom or pan.
	OnResized()
}

// DragEnder is implemented by modes that hold per-gesture state.
type DragEnder interface {
	EndDrag()
}
