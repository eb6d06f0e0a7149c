package control

import (
	"encoding/json"
	"testing"

	"github.com/frudas24/cropslice/internal/geom"
	"github.com/google/go-cmp/cmp"
)

// TestProtocol_Pointer verifies decoding pointer messages.
func TestProtocol_Pointer(t *testing.T) {
	var msg Message
	if err := json.Unmarshal([]byte(`{"t":"down","id":1,"x":0.5,"y":0.25,"touch":true}`), &msg); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	want := Message{T: MsgDown, ID: 1, X: 0.5, Y: 0.25, Touch: true}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Fatalf("message mismatch (-want +got):\n%s", diff)
	}
}

// TestProtocol_Commands verifies decoding view and mode messages.
func TestProtocol_Commands(t *testing.T) {
	enabled := false
	cases := []struct {
		raw  string
		want Message
	}{
		{`{"t":"resize","w":800,"h":600}`, Message{T: MsgResize, W: 800, H: 600}},
		{`{"t":"setMode","mode":"crop"}`, Message{T: MsgSetMode, Mode: "crop"}},
		{`{"t":"zoom","zoom":2.5}`, Message{T: MsgZoom, Zoom: 2.5}},
		{`{"t":"pan","dx":-4,"dy":12}`, Message{T: MsgPan, DX: -4, DY: 12}},
		{`{"t":"inputEnabled","enabled":false}`, Message{T: MsgInputEnabled, Enabled: &enabled}},
		{`{"t":"commit"}`, Message{T: MsgCommit}},
	}
	for _, tc := range cases {
		var msg Message
		if err := json.Unmarshal([]byte(tc.raw), &msg); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.raw, err)
		}
		if diff := cmp.Diff(tc.want, msg); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

// TestProtocol_EventOmitsEmpty verifies events only carry the fields that are set.
func TestProtocol_EventOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Event{T: EvCursor, Cursor: "nw-resize"})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `{"t":"cursor","cursor":"nw-resize"}` {
		t.Fatalf("unexpected json: %s", b)
	}

	b, err = json.Marshal(Event{T: EvLayout, Rect: &geom.Rect{Left: 1, Top: 2, Width: 3, Height: 4}})
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	if string(b) != `{"t":"layout","rect":{"left":1,"top":2,"width":3,"height":4}}` {
		t.Fatalf("unexpected json: %s", b)
	}
}
