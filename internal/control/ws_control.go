package control

import (
	"fmt"
	"image"
	"net/http"
	"sync"
	"time"

	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/crop"
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/logging"
	"github.com/frudas24/cropslice/internal/overlay"
	"github.com/frudas24/cropslice/internal/session"
	"github.com/frudas24/cropslice/internal/viewport"
	"github.com/gorilla/websocket"
)

const writeTimeout = 5 * time.Second

// Hooks are called by the server after state changes. Any of them may be nil.
type Hooks struct {
	// Commit persists a committed command and the resulting image.
	Commit func(cmd command.Command, img image.Image) error
	// Undo persists the image restored by an undo.
	Undo func(img image.Image) error
	// Preview is called when the view changed in a mode without an overlay.
	Preview func()
}

// State is a read-only view of the editing state.
type State struct {
	Session session.Snapshot `json:"session"`
	Modes   []string         `json:"modes"`
	Width   int              `json:"width"`
	Height  int              `json:"height"`
	Zoom    float64          `json:"zoom"`
	Rect    *geom.Rect       `json:"rect,omitempty"`
	Layout  *overlay.Layout  `json:"layout,omitempty"`
	History []string         `json:"history"`
}

// layouter is implemented by modes that draw an overlay.
type layouter interface {
	Layout() overlay.Layout
	Region() *crop.Region
}

// Server handles the websocket control connection. All messages are
// applied under one lock so drag updates run in receipt order.
type Server struct {
	mu       sync.Mutex
	upgrader websocket.Upgrader
	conn     *websocket.Conn
	writeMu  sync.Mutex

	editMu   sync.Mutex
	session  *session.Session
	editor   *editor.Editor
	view     *viewport.Viewport
	gestures *GestureState
	hooks    Hooks
	// tools is the client's toolbar in screen pixels.
	tools geom.Rect
}

// NewServer creates a control websocket server.
func NewServer(sess *session.Session, ed *editor.Editor, view *viewport.Viewport, doubleTap time.Duration, hooks Hooks) *Server {
	return &Server{
		session:  sess,
		editor:   ed,
		view:     view,
		gestures: NewGestureState(ed, doubleTap),
		hooks:    hooks,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// SetNowFunc overrides the clock used for double-tap detection.
func (s *Server) SetNowFunc(fn func() time.Time) {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	s.gestures.SetNowFunc(fn)
}

// ServeHTTP upgrades the connection and processes control messages.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !s.session.IsAuthenticated() {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	if err := s.acceptConn(conn); err != nil {
		logging.Logger().Warn("control connection rejected", "remote", r.RemoteAddr, "err", err)
		_ = conn.Close()
		return
	}
	defer s.cleanupConn(conn)
	logging.Logger().Info("control connected", "remote", r.RemoteAddr)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		for _, ev := range s.handleMessage(msg) {
			if err := s.writeEvent(conn, ev); err != nil {
				return
			}
		}
	}
}

// acceptConn ensures only one active control connection exists.
func (s *Server) acceptConn(conn *websocket.Conn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn != nil {
		return fmt.Errorf("control connection already active")
	}
	s.conn = conn
	return nil
}

// cleanupConn clears the active connection and any gesture it left open.
func (s *Server) cleanupConn(conn *websocket.Conn) {
	s.mu.Lock()
	if s.conn == conn {
		s.conn = nil
	}
	s.mu.Unlock()

	s.editMu.Lock()
	s.gestures.Reset()
	s.editMu.Unlock()
	_ = conn.Close()
	logging.Logger().Info("control disconnected")
}

func (s *Server) writeEvent(conn *websocket.Conn, ev Event) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return conn.WriteJSON(ev)
}

// State returns a snapshot of the editing state.
func (s *Server) State() State {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	size := s.editor.Image().Bounds().Size()
	st := State{
		Session: s.session.Snapshot(),
		Modes:   s.editor.Modes(),
		Width:   size.X,
		Height:  size.Y,
		Zoom:    s.view.Zoom(),
		History: s.editor.History(),
	}
	if lm, ok := s.editor.Current().(layouter); ok && lm.Region() != nil {
		rect := lm.Region().Rect()
		layout := lm.Layout()
		st.Rect = &rect
		st.Layout = &layout
	}
	return st
}

// Image returns the current edited image.
func (s *Server) Image() image.Image {
	s.editMu.Lock()
	defer s.editMu.Unlock()
	return s.editor.Image()
}

// handleMessage applies one client message and returns the events to send
// back. Editor failures are reported as error events and keep the
// connection open.
func (s *Server) handleMessage(msg Message) []Event {
	s.editMu.Lock()
	defer s.editMu.Unlock()

	events, err := s.dispatch(msg)
	if err != nil {
		logging.Logger().Warn("control message failed", "t", msg.T, "err", err)
		events = append(events, Event{T: EvError, Error: err.Error()})
	}
	return events
}

func (s *Server) dispatch(msg Message) ([]Event, error) {
	inputEnabled := s.session.InputEnabled()
	switch msg.T {
	case MsgDown:
		x, y := s.view.NormToScreen(msg.X, msg.Y)
		s.session.SetTouch(msg.Touch)
		return s.applyActions(s.gestures.HandleDown(inputEnabled, msg.ID, x, y, msg.Touch))
	case MsgMove:
		x, y := s.view.NormToScreen(msg.X, msg.Y)
		return s.applyActions(s.gestures.HandleMove(inputEnabled, msg.ID, x, y))
	case MsgUp:
		x, y := s.view.NormToScreen(msg.X, msg.Y)
		return s.applyActions(s.gestures.HandleUp(msg.ID, x, y))
	case MsgHover:
		x, y := s.view.NormToScreen(msg.X, msg.Y)
		return s.applyActions(s.gestures.HandleHover(x, y))
	case MsgDoubleTap:
		if !inputEnabled {
			return nil, nil
		}
		x, y := s.view.NormToScreen(msg.X, msg.Y)
		if s.editor.DoubleTapAction(x, y) != editor.TapCommit {
			return nil, nil
		}
		return s.commit()
	case MsgResize:
		if msg.W <= 0 || msg.H <= 0 {
			return nil, fmt.Errorf("invalid screen size %dx%d", msg.W, msg.H)
		}
		s.view.SetScreenSize(msg.W, msg.H)
		if msg.Tools != nil {
			s.tools = *msg.Tools
		}
		return s.viewChanged(), nil
	case MsgZoom:
		s.view.SetZoom(msg.Zoom)
		return s.viewChanged(), nil
	case MsgPan:
		ox, oy := s.view.Offset()
		s.view.SetOffset(ox-s.view.ScreenToImageSize(msg.DX), oy-s.view.ScreenToImageSize(msg.DY))
		return s.viewChanged(), nil
	case MsgReset:
		s.gestures.Reset()
		if err := s.editor.Reset(); err != nil {
			return nil, err
		}
		return []Event{s.layoutEvent()}, nil
	case MsgCommit:
		return s.commit()
	case MsgUndo:
		return s.undo()
	case MsgSetMode:
		return s.setMode(msg.Mode)
	case MsgInputEnabled:
		if msg.Enabled != nil {
			s.session.SetInputEnabled(*msg.Enabled)
			if !*msg.Enabled {
				s.gestures.Reset()
			}
		}
		return nil, nil
	default:
		return nil, nil
	}
}

// applyActions turns gesture actions into events.
func (s *Server) applyActions(actions []Action) ([]Event, error) {
	var events []Event
	for _, a := range actions {
		switch a.Type {
		case ActCursor:
			events = append(events, Event{T: EvCursor, Cursor: a.Cursor})
		case ActRender:
			events = append(events, s.layoutEvent())
		case ActCommit:
			evs, err := s.commit()
			events = append(events, evs...)
			if err != nil {
				return events, err
			}
		}
	}
	return events, nil
}

func (s *Server) viewChanged() []Event {
	s.editor.Resized()
	ev := s.layoutEvent()
	if ev.Layout == nil && s.hooks.Preview != nil {
		s.hooks.Preview()
	}
	return []Event{ev}
}

func (s *Server) setMode(name string) ([]Event, error) {
	s.gestures.Reset()
	if name == "" {
		s.editor.Leave()
	} else if err := s.editor.Enter(name); err != nil {
		return nil, err
	}
	s.session.SetMode(name)
	ev := s.layoutEvent()
	if ev.Layout == nil && s.hooks.Preview != nil {
		s.hooks.Preview()
	}
	return []Event{ev}, nil
}

// commit applies the active mode and persists the result. When persisting
// fails the commit is rolled back so memory matches what was saved, and the
// client still gets the committed and layout events to resync.
func (s *Server) commit() ([]Event, error) {
	s.gestures.Reset()
	cmd, err := s.editor.Commit()
	if err != nil {
		return nil, err
	}
	if s.hooks.Commit != nil {
		if err := s.hooks.Commit(cmd, s.editor.Image()); err != nil {
			err = fmt.Errorf("persist %s: %w", cmd.Name(), err)
			if rerr := s.editor.Undo(); rerr != nil {
				err = fmt.Errorf("%w; rollback: %v", err, rerr)
			}
			return []Event{s.committedEvent(), s.layoutEvent()}, err
		}
	}
	return []Event{s.committedEvent(), s.layoutEvent()}, nil
}

func (s *Server) undo() ([]Event, error) {
	s.gestures.Reset()
	if err := s.editor.Undo(); err != nil {
		return nil, err
	}
	if s.hooks.Undo != nil {
		if err := s.hooks.Undo(s.editor.Image()); err != nil {
			err = fmt.Errorf("persist undo: %w", err)
			if rerr := s.editor.Redo(); rerr != nil {
				err = fmt.Errorf("%w; rollback: %v", err, rerr)
			}
			return []Event{s.committedEvent(), s.layoutEvent()}, err
		}
	}
	return []Event{s.committedEvent(), s.layoutEvent()}, nil
}

func (s *Server) committedEvent() Event {
	size := s.editor.Image().Bounds().Size()
	return Event{T: EvCommitted, Width: size.X, Height: size.Y, History: s.editor.History()}
}

// layoutEvent reports the active mode and, for overlay modes, the crop
// rectangle and overlay geometry.
func (s *Server) layoutEvent() Event {
	ev := Event{T: EvLayout}
	cur := s.editor.Current()
	if cur == nil {
		return ev
	}
	ev.Mode = cur.Name()
	if lm, ok := cur.(layouter); ok && lm.Region() != nil {
		rect := lm.Region().Rect()
		layout := lm.Layout()
		ev.Rect = &rect
		ev.Layout = &layout
		ev.ToolsHidden = layout.OverlapsTools(s.tools)
	}
	return ev
}
