package control

import (
	"errors"
	"image"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/frudas24/cropslice/internal/command"
	"github.com/frudas24/cropslice/internal/crop"
	"github.com/frudas24/cropslice/internal/editor"
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/session"
	"github.com/frudas24/cropslice/internal/viewport"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	*Server
	view     *viewport.Viewport
	commits  []command.Command
	undos    int
	previews int
	// persistErr is returned by the commit and undo hooks when set.
	persistErr error
}

// newTestServer shows a 48x48 image centered on a 64x64 screen, so the
// image starts at screen (8,8) and the default crop spans image 8..40,
// screen 16..48, normalized 0.25..0.75.
func newTestServer(t *testing.T) *testServer {
	t.Helper()
	vp := viewport.New(48, 48, 64, 64)
	ed := editor.New(image.NewRGBA(image.Rect(0, 0, 48, 48)), vp, crop.NewMode(nil), editor.NewView(vp))
	require.NoError(t, ed.Enter(crop.Name))

	ts := &testServer{view: vp}
	ts.Server = NewServer(session.New("pw"), ed, vp, 0, Hooks{
		Commit: func(cmd command.Command, _ image.Image) error {
			ts.commits = append(ts.commits, cmd)
			return ts.persistErr
		},
		Undo:    func(image.Image) error { ts.undos++; return ts.persistErr },
		Preview: func() { ts.previews++ },
	})
	now := time.Unix(0, 0)
	ts.SetNowFunc(func() time.Time { return now })
	return ts
}

// TestServer_DragCorner verifies a corner drag across the opposite corner
// flips the tracked sides and stays inside the image.
func TestServer_DragCorner(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.25, Y: 0.25})
	require.Equal(t, []Event{{T: EvCursor, Cursor: "nw-resize"}}, events)

	events = ts.handleMessage(Message{T: MsgMove, ID: 1, X: 0.125, Y: 0.125})
	require.Len(t, events, 2)
	require.Equal(t, EvLayout, events[0].T)
	require.Equal(t, crop.Name, events[0].Mode)
	require.Equal(t, geom.Rect{Width: 40, Height: 40}, *events[0].Rect)
	require.Equal(t, geom.Rect{Left: 8, Top: 8, Width: 40, Height: 40}, events[0].Layout.Crop)

	events = ts.handleMessage(Message{T: MsgMove, ID: 1, X: 1, Y: 1})
	require.Equal(t, geom.Rect{Left: 40, Top: 40, Width: 8, Height: 8}, *events[0].Rect)
	require.Equal(t, Event{T: EvCursor, Cursor: "se-resize"}, events[1])

	events = ts.handleMessage(Message{T: MsgUp, ID: 1, X: 1, Y: 1})
	require.Equal(t, []Event{{T: EvCursor, Cursor: crop.CursorCropStart}}, events)
}

// TestServer_Hover verifies hover cursors follow the crop affordances.
func TestServer_Hover(t *testing.T) {
	ts := newTestServer(t)
	require.Equal(t, "move", ts.handleMessage(Message{T: MsgHover, X: 0.5, Y: 0.5})[0].Cursor)
	require.Equal(t, "e-resize", ts.handleMessage(Message{T: MsgHover, X: 0.75, Y: 0.5})[0].Cursor)
}

// TestServer_CommitAndUndo verifies commits crop the image, run the hooks
// and start a new default crop on the result.
func TestServer_CommitAndUndo(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgCommit})
	require.Len(t, events, 2)
	require.Equal(t, Event{T: EvCommitted, Width: 32, Height: 32, History: []string{"crop"}}, events[0])
	require.Equal(t, geom.Rect{Left: 5, Top: 5, Width: 22, Height: 22}, *events[1].Rect)
	require.Equal(t, []command.Command{command.Crop{Rect: geom.Rect{Left: 8, Top: 8, Width: 32, Height: 32}}}, ts.commits)

	events = ts.handleMessage(Message{T: MsgUndo})
	require.Equal(t, EvCommitted, events[0].T)
	require.Equal(t, 48, events[0].Width)
	require.Empty(t, events[0].History)
	require.Equal(t, 1, ts.undos)

	events = ts.handleMessage(Message{T: MsgUndo})
	require.Equal(t, []Event{{T: EvError, Error: editor.ErrNothingToUndo.Error()}}, events)
}

// TestServer_CommitRollsBackWhenPersistFails verifies a failed save leaves
// the image and history as they were and resyncs the client.
func TestServer_CommitRollsBackWhenPersistFails(t *testing.T) {
	ts := newTestServer(t)
	ts.persistErr = errors.New("disk full")

	for i := 0; i < 2; i++ {
		events := ts.handleMessage(Message{T: MsgCommit})
		require.Len(t, events, 3)
		require.Equal(t, Event{T: EvCommitted, Width: 48, Height: 48, History: []string{}}, events[0])
		require.Equal(t, geom.Rect{Left: 8, Top: 8, Width: 32, Height: 32}, *events[1].Rect)
		require.Equal(t, EvError, events[2].T)
		require.Contains(t, events[2].Error, "disk full")
	}
	require.Len(t, ts.commits, 2)
	require.Equal(t, image.Rect(0, 0, 48, 48), ts.Image().Bounds())
	require.Empty(t, ts.State().History)

	ts.persistErr = nil
	events := ts.handleMessage(Message{T: MsgCommit})
	require.Equal(t, Event{T: EvCommitted, Width: 32, Height: 32, History: []string{"crop"}}, events[0])
}

// TestServer_UndoRollsBackWhenPersistFails verifies a failed save keeps the
// committed image.
func TestServer_UndoRollsBackWhenPersistFails(t *testing.T) {
	ts := newTestServer(t)
	ts.handleMessage(Message{T: MsgCommit})

	ts.persistErr = errors.New("disk full")
	events := ts.handleMessage(Message{T: MsgUndo})
	require.Len(t, events, 3)
	require.Equal(t, Event{T: EvCommitted, Width: 32, Height: 32, History: []string{"crop"}}, events[0])
	require.Equal(t, EvError, events[2].T)
	require.Equal(t, 1, ts.undos)
	require.Equal(t, image.Rect(0, 0, 32, 32), ts.Image().Bounds())
	require.Equal(t, []string{"crop"}, ts.State().History)
}

// TestServer_PressOutsideImageDropsDragMode verifies a press that starts no
// gesture does not report the previous gesture's cursor.
func TestServer_PressOutsideImageDropsDragMode(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.5, Y: 0.5})
	require.Equal(t, []Event{{T: EvCursor, Cursor: "move"}}, events)
	ts.handleMessage(Message{T: MsgUp, ID: 1, X: 0.5, Y: 0.5})

	events = ts.handleMessage(Message{T: MsgDown, ID: 1, X: 2.0 / 64, Y: 2.0 / 64})
	require.Equal(t, []Event{{T: EvCursor, Cursor: crop.CursorCropStart}}, events)
	mode, ok := ts.editor.Current().(*crop.Mode)
	require.True(t, ok)
	_, held := mode.Region().Mode()
	require.False(t, held)
}

// TestServer_DoubleTapCommits verifies two quick presses on the image commit.
func TestServer_DoubleTapCommits(t *testing.T) {
	ts := newTestServer(t)

	ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.5, Y: 0.5, Touch: true})
	ts.handleMessage(Message{T: MsgUp, ID: 1, X: 0.5, Y: 0.5})
	events := ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.5, Y: 0.5, Touch: true})
	require.Equal(t, EvCommitted, events[0].T)
	require.Len(t, ts.commits, 1)
	require.True(t, ts.State().Session.Touch)
}

// TestServer_DoubleTapMessage verifies explicit double taps only commit on the image.
func TestServer_DoubleTapMessage(t *testing.T) {
	ts := newTestServer(t)
	require.Nil(t, ts.handleMessage(Message{T: MsgDoubleTap, X: 0, Y: 0}))
	require.Empty(t, ts.commits)

	events := ts.handleMessage(Message{T: MsgDoubleTap, X: 0.875, Y: 0.875})
	require.Equal(t, EvCommitted, events[0].T)
}

// TestServer_InputDisabled verifies the kill switch drops pointer input.
func TestServer_InputDisabled(t *testing.T) {
	ts := newTestServer(t)
	disabled := false
	ts.handleMessage(Message{T: MsgInputEnabled, Enabled: &disabled})
	require.Nil(t, ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.25, Y: 0.25}))
	require.Nil(t, ts.handleMessage(Message{T: MsgDoubleTap, X: 0.5, Y: 0.5}))
}

// TestServer_ViewChanges verifies resize, zoom and pan relayout the overlay.
func TestServer_ViewChanges(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgResize, W: 128, H: 128})
	require.Equal(t, geom.Rect{Left: 48, Top: 48, Width: 32, Height: 32}, events[0].Layout.Crop)

	events = ts.handleMessage(Message{T: MsgResize})
	require.Equal(t, EvError, events[0].T)

	ts.handleMessage(Message{T: MsgResize, W: 64, H: 64})
	events = ts.handleMessage(Message{T: MsgZoom, Zoom: 2})
	require.Equal(t, geom.Rect{Width: 64, Height: 64}, events[0].Layout.Crop)
	require.Equal(t, geom.Rect{Width: 64, Height: 64}, events[0].Layout.Clipped)

	ts.handleMessage(Message{T: MsgPan, DX: 16})
	x, y := ts.view.Offset()
	require.Equal(t, -8.0, x)
	require.Equal(t, 0.0, y)
	require.Zero(t, ts.previews)
}

// TestServer_ToolsHiddenOverHandles verifies the toolbar is hidden only when
// it reaches into the band around the crop frame.
func TestServer_ToolsHiddenOverHandles(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgResize, W: 64, H: 64, Tools: &geom.Rect{Width: 64, Height: 12}})
	require.True(t, events[0].ToolsHidden)

	events = ts.handleMessage(Message{T: MsgResize, W: 64, H: 64, Tools: &geom.Rect{Left: 30, Top: 30, Width: 4, Height: 4}})
	require.False(t, events[0].ToolsHidden)

	events = ts.handleMessage(Message{T: MsgResize, W: 64, H: 64})
	require.False(t, events[0].ToolsHidden)
}

// TestServer_SetMode verifies switching modes and rejecting unknown names.
func TestServer_SetMode(t *testing.T) {
	ts := newTestServer(t)

	events := ts.handleMessage(Message{T: MsgSetMode, Mode: "view"})
	require.Equal(t, []Event{{T: EvLayout, Mode: "view"}}, events)
	require.Equal(t, 1, ts.previews)
	require.Equal(t, "view", ts.State().Session.Mode)
	require.Nil(t, ts.State().Rect)

	events = ts.handleMessage(Message{T: MsgSetMode, Mode: "rotate"})
	require.Equal(t, EvError, events[0].T)

	events = ts.handleMessage(Message{T: MsgSetMode, Mode: crop.Name})
	require.Equal(t, geom.Rect{Left: 8, Top: 8, Width: 32, Height: 32}, *events[0].Rect)
}

// TestServer_Reset verifies reset restores the default crop.
func TestServer_Reset(t *testing.T) {
	ts := newTestServer(t)
	ts.handleMessage(Message{T: MsgDown, ID: 1, X: 0.5, Y: 0.5})
	ts.handleMessage(Message{T: MsgMove, ID: 1, X: 0.625, Y: 0.5})
	require.Equal(t, 16.0, ts.State().Rect.Left)

	events := ts.handleMessage(Message{T: MsgReset})
	require.Equal(t, geom.Rect{Left: 8, Top: 8, Width: 32, Height: 32}, *events[0].Rect)
}

// TestServer_State verifies the snapshot served to the UI.
func TestServer_State(t *testing.T) {
	ts := newTestServer(t)
	st := ts.State()
	require.Equal(t, []string{crop.Name, "view"}, st.Modes)
	require.Equal(t, 48, st.Width)
	require.Equal(t, 1.0, st.Zoom)
	require.Equal(t, geom.Rect{Left: 8, Top: 8, Width: 32, Height: 32}, *st.Rect)
	require.Empty(t, st.History)
}

// TestServer_Unauthorized verifies the upgrade requires a login.
func TestServer_Unauthorized(t *testing.T) {
	ts := newTestServer(t)
	rec := httptest.NewRecorder()
	ts.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws/control", nil))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

// TestServer_WebsocketRoundTrip verifies events are written back over the socket.
func TestServer_WebsocketRoundTrip(t *testing.T) {
	ts := newTestServer(t)
	require.True(t, ts.session.Authenticate("pw"))

	srv := httptest.NewServer(ts.Server)
	defer srv.Close()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteJSON(Message{T: MsgHover, X: 0.5, Y: 0.5}))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var ev Event
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, Event{T: EvCursor, Cursor: "move"}, ev)
}
