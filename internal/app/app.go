// Package app wires the editor, control websocket, preview stream and
// persisted state together.
package app

import (
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/config"
	"github.com/frudas24/cropslice/internal/control"
	"github.com/frudas24/cropslice/internal/crop"
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/logging"
	"github.com/frudas24/cropslice/internal/mjpeg"
	"github.com/frudas24/cropslice/internal/overlay"
	"github.com/frudas24/cropslice/internal/session"
	"github.com/frudas24/cropslice/internal/source"
	"github.com/frudas24/cropslice/internal/state"
	"github.com/frudas24/cropslice/internal/viewport"
)

// App coordinates the HTTP API, the control websocket and the preview stream.
type App struct {
	mu      sync.Mutex
	cfg     config.Config
	session *session.Session
	view    *viewport.Viewport
	editor  *editor.Editor
	stream  *mjpeg.Stream
	control *control.Server
	state   state.State
	now     func() time.Time
}

// New creates an application editing img.
func New(cfg config.Config, sess *session.Session, img image.Image) (*App, error) {
	if sess == nil {
		return nil, errors.New("session is required")
	}
	if img == nil {
		return nil, errors.New("image is required")
	}

	size := img.Bounds().Size()
	a := &App{
		cfg:     cfg,
		session: sess,
		view:    viewport.New(size.X, size.Y, cfg.ScreenW, cfg.ScreenH),
		now:     time.Now,
	}
	if cfg.PreviewEnabled {
		a.stream = mjpeg.NewStream(time.Duration(cfg.PreviewIntervalMs)*time.Millisecond, cfg.PreviewQuality)
	}
	a.editor = editor.New(img, a.view, crop.NewMode(a.publishLayout), editor.NewView(a.view))
	a.control = control.NewServer(sess, a.editor, a.view, time.Duration(cfg.DoubleTapMs)*time.Millisecond, control.Hooks{
		Commit:  a.persistCommit,
		Undo:    a.persistUndo,
		Preview: a.publishPlain,
	})
	return a, nil
}

// Start loads persisted state and enters crop mode.
func (a *App) Start() error {
	st, err := state.Load(a.cfg.StatePath)
	if err != nil {
		return err
	}
	if st.Image != a.cfg.ImagePath {
		// History belongs to another source image.
		st = state.State{}
	}
	st.Image = a.cfg.ImagePath
	st.Output = a.cfg.OutputPath

	a.mu.Lock()
	a.state = st
	a.mu.Unlock()

	if err := a.editor.Enter(crop.Name); err != nil {
		return err
	}
	a.session.SetMode(crop.Name)
	logging.Logger().Info("editor ready", "image", a.cfg.ImagePath, "previousCommits", len(st.Commits))
	return nil
}

// Stop flushes persisted state.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return state.Save(a.cfg.StatePath, a.state)
}

// Control returns the control websocket handler.
func (a *App) Control() *control.Server {
	return a.control
}

// PreviewStream returns the MJPEG stream, nil when previews are disabled.
func (a *App) PreviewStream() *mjpeg.Stream {
	return a.stream
}

// State returns a copy of the persisted state.
func (a *App) State() state.State {
	a.mu.Lock()
	defer a.mu.Unlock()
	st := a.state
	st.Commits = append([]state.Commit(nil), a.state.Commits...)
	return st
}

// persistCommit writes the committed image and records the crop.
func (a *App) persistCommit(cmd command.Command, img image.Image) error {
	if err := source.Save(a.cfg.OutputPath, img); err != nil {
		return err
	}
	size := img.Bounds().Size()
	c := state.Commit{Width: size.X, Height: size.Y, CommittedAt: a.now().UTC()}
	if cr, ok := cmd.(command.Crop); ok {
		c.Rect = cr.Rect
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.state
	next.Commits = append(append([]state.Commit(nil), a.state.Commits...), c)
	if err := state.Save(a.cfg.StatePath, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	a.state = next
	logging.Logger().Info("crop saved", "output", a.cfg.OutputPath, "width", size.X, "height", size.Y)
	return nil
}

// persistUndo writes the restored image and drops the last recorded crop.
func (a *App) persistUndo(img image.Image) error {
	if err := source.Save(a.cfg.OutputPath, img); err != nil {
		return err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	next := a.state
	if n := len(a.state.Commits); n > 0 {
		next.Commits = a.state.Commits[:n-1:n-1]
	}
	if err := state.Save(a.cfg.StatePath, next); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	a.state = next
	return nil
}

// publishLayout renders a preview frame for the crop overlay. It runs on
// the goroutine that changed the editor, so the image is read directly.
func (a *App) publishLayout(l overlay.Layout) {
	if a.stream == nil || a.editor == nil {
		return
	}
	frame := overlay.Render(a.editor.Image(), a.view, l)
	if err := a.stream.PublishImage(frame); err != nil {
		logging.Logger().Warn("preview publish failed", "err", err)
	}
}

// publishPlain renders the visible image without an overlay.
func (a *App) publishPlain() {
	a.publishLayout(overlay.Layout{Clipped: a.view.ScreenClipped()})
}
