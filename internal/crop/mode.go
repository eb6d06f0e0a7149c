package crop

import (
	"math"

	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/logging"
	"github.com/frudas24/cropslice/internal/overlay"
)

// Name is the crop mode identifier.
const Name = "crop"

// Mode is the crop editing mode. It owns a Region and keeps the overlay
// layout in sync with it.
type Mode struct {
	vp       editor.Viewport
	region   *Region
	layout   overlay.Layout
	updated  bool
	onChange func(overlay.Layout)
}

var _ editor.Mode = (*Mode)(nil)

// NewMode returns a crop mode. onChange, when set, is called with the new
// layout after every drag update, reset and resize.
func NewMode(onChange func(overlay.Layout)) *Mode {
	return &Mode{onChange: onChange}
}

// Name implements editor.Mode.
func (m *Mode) Name() string { return Name }

// SetUp implements editor.Mode.
func (m *Mode) SetUp(vp editor.Viewport) {
	m.vp = vp
	m.updated = false
	m.createDefaultCrop()
}

// Reset discards the current rectangle and starts over from the default.
func (m *Mode) Reset() {
	if m.vp == nil {
		return
	}
	m.updated = false
	m.createDefaultCrop()
}

// CleanUp implements editor.Mode.
func (m *Mode) CleanUp() {
	m.vp = nil
	m.region = nil
	m.layout = overlay.Layout{}
}

// Updated implements editor.Mode.
func (m *Mode) Updated() bool { return m.updated }

// Region returns the active region, nil before SetUp.
func (m *Mode) Region() *Region { return m.region }

// Layout returns the last computed overlay layout.
func (m *Mode) Layout() overlay.Layout { return m.layout }

// Command returns the crop command for the current rectangle.
func (m *Mode) Command() command.Command {
	if m.region == nil {
		return nil
	}
	return command.Crop{Rect: m.region.Rect()}
}

// CursorStyle implements editor.Mode.
func (m *Mode) CursorStyle(x, y float64, pressed bool) string {
	if m.region == nil {
		return editor.CursorDefault
	}
	return m.region.CursorStyle(x, y, pressed)
}

// DragHandler wraps the region's handler so every update marks the mode
// updated and repositions the overlay.
func (m *Mode) DragHandler(x, y float64, touch bool) editor.DragFunc {
	if m.region == nil {
		return nil
	}
	drag := m.region.DragHandler(x, y, touch)
	if drag == nil {
		return nil
	}
	if mode, ok := m.region.Mode(); ok {
		logging.Logger().Debug("crop gesture", "kind", mode.Kind(), "touch", touch)
	}
	return func(sx, sy float64) {
		drag(sx, sy)
		m.updated = true
		m.positionOverlay()
	}
}

// EndDrag implements editor.DragEnder.
func (m *Mode) EndDrag() {
	if m.region != nil {
		m.region.EndDrag()
	}
}

// DoubleTapAction implements editor.Mode.
func (m *Mode) DoubleTapAction(x, y float64) editor.DoubleTapAction {
	if m.region == nil {
		return editor.TapNothing
	}
	return m.region.DoubleTapAction(x, y)
}

// OnResized repositions the overlay; a gesture in progress keeps running.
func (m *Mode) OnResized() {
	if m.region == nil {
		return
	}
	m.positionOverlay()
}

// DefaultRect is the initial crop: the visible region inset by a sixth of
// its size, rounded, on every side.
func DefaultRect(clip geom.Rect) geom.Rect {
	return clip.Inflate(-math.Round(clip.Width/6), -math.Round(clip.Height/6))
}

func (m *Mode) createDefaultCrop() {
	m.region = NewRegion(DefaultRect(m.vp.ImageClipped()), m.vp)
	m.positionOverlay()
}

func (m *Mode) positionOverlay() {
	m.layout = overlay.Compute(m.vp, m.region.Rect(), MouseGrabRadius)
	if m.onChange != nil {
		m.onChange(m.layout)
	}
}
