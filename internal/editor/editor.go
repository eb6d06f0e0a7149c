package editor

import (
	"errors"
	"fmt"
	"image"

	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/logging"
)

var (
	// ErrNoMode is returned when an operation needs an active mode.
	ErrNoMode = errors.New("no active mode")
	// ErrNothingToCommit is returned when the active mode has no command.
	ErrNothingToCommit = errors.New("nothing to commit")
	// ErrNothingToUndo is returned when the history is empty.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo is returned when no undone step is pending.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Canvas is the viewport the editor drives. It is told about image size
// changes after commits and undos.
type Canvas interface {
	Viewport
	SetImageSize(w, h int)
}

type historyEntry struct {
	cmd    command.Command
	before image.Image
}

type undoneEntry struct {
	historyEntry
	after image.Image
}

// Editor owns the edited image, the registered modes and the undo history.
// It is not safe for concurrent use.
type Editor struct {
	img     image.Image
	canvas  Canvas
	modes   map[string]Mode
	order   []string
	current Mode
	history []historyEntry
	undone  *undoneEntry
}

// New returns an editor for img. Modes are registered in the given order.
func New(img image.Image, canvas Canvas, modes ...Mode) *Editor {
	e := &Editor{
		img:    img,
		canvas: canvas,
		modes:  make(map[string]Mode, len(modes)),
	}
	for _, m := range modes {
		if _, dup := e.modes[m.Name()]; dup {
			continue
		}
		e.modes[m.Name()] = m
		e.order = append(e.order, m.Name())
	}
	return e
}

// Modes lists the registered mode names.
func (e *Editor) Modes() []string {
	return append([]string(nil), e.order...)
}

// Image returns the current image.
func (e *Editor) Image() image.Image { return e.img }

// Current returns the active mode or nil.
func (e *Editor) Current() Mode { return e.current }

// Enter leaves the active mode, if any, and sets up the named one.
func (e *Editor) Enter(name string) error {
	m, ok := e.modes[name]
	if !ok {
		return fmt.Errorf("unknown mode %q", name)
	}
	e.Leave()
	m.SetUp(e.canvas)
	e.current = m
	logging.Logger().Debug("mode entered", "mode", name)
	return nil
}

// Leave cleans up the active mode.
func (e *Editor) Leave() {
	if e.current == nil {
		return
	}
	e.current.CleanUp()
	logging.Logger().Debug("mode left", "mode", e.current.Name())
	e.current = nil
}

// Reset resets the active mode.
func (e *Editor) Reset() error {
	if e.current == nil {
		return ErrNoMode
	}
	e.current.Reset()
	return nil
}

// Commit executes the active mode's command on the image, records it for
// undo and sets the mode up again on the new image.
func (e *Editor) Commit() (command.Command, error) {
	if e.current == nil {
		return nil, ErrNoMode
	}
	cmd := e.current.Command()
	if cmd == nil {
		return nil, ErrNothingToCommit
	}
	out, err := cmd.Execute(e.img)
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", cmd.Name(), err)
	}
	e.history = append(e.history, historyEntry{cmd: cmd, before: e.img})
	e.undone = nil
	e.replaceImage(out)
	logging.Logger().Info("command committed", "command", cmd.Name(), "size", out.Bounds().Size())
	return cmd, nil
}

// Undo restores the image from before the last commit. The step can be
// reapplied with Redo until the next commit.
func (e *Editor) Undo() error {
	if len(e.history) == 0 {
		return ErrNothingToUndo
	}
	last := e.history[len(e.history)-1]
	e.history = e.history[:len(e.history)-1]
	e.undone = &undoneEntry{historyEntry: last, after: e.img}
	e.replaceImage(last.before)
	logging.Logger().Info("command undone", "command", last.cmd.Name())
	return nil
}

// Redo reapplies the step removed by the last Undo.
func (e *Editor) Redo() error {
	if e.undone == nil {
		return ErrNothingToRedo
	}
	u := e.undone
	e.undone = nil
	e.history = append(e.history, u.historyEntry)
	e.replaceImage(u.after)
	logging.Logger().Info("command redone", "command", u.cmd.Name())
	return nil
}

// History returns the names of committed commands, oldest first.
func (e *Editor) History() []string {
	out := make([]string, 0, len(e.history))
	for _, h := range e.history {
		out = append(out, h.cmd.Name())
	}
	return out
}

func (e *Editor) replaceImage(img image.Image) {
	e.img = img
	size := img.Bounds().Size()
	e.canvas.SetImageSize(size.X, size.Y)
	if e.current != nil {
		e.current.CleanUp()
		e.current.SetUp(e.canvas)
	}
}

// CursorStyle forwards to the active mode.
func (e *Editor) CursorStyle(x, y float64, pressed bool) string {
	if e.current == nil {
		return CursorDefault
	}
	return e.current.CursorStyle(x, y, pressed)
}

// DragHandler forwards to the active mode.
func (e *Editor) DragHandler(x, y float64, touch bool) DragFunc {
	if e.current == nil {
		return nil
	}
	return e.current.DragHandler(x, y, touch)
}

// EndDrag tells the active mode the gesture is over.
func (e *Editor) EndDrag() {
	if de, ok := e.current.(DragEnder); ok {
		de.EndDrag()
	}
}

// DoubleTapAction forwards to the active mode.
func (e *Editor) DoubleTapAction(x, y float64) DoubleTapAction {
	if e.current == nil {
		return TapNothing
	}
	return e.current.DoubleTapAction(x, y)
}

// Resized notifies the active mode that the viewport changed.
func (e *Editor) Resized() {
	if e.current != nil {
		e.current.OnResized()
	}
}
