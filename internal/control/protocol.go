// Package control turns client pointer and command messages into editor
// operations and reports cursor and overlay changes back to the client.
package control

import (
	"github.com/frudas24/cropslice/internal/geom"
	"github.com/frudas24/cropslice/internal/overlay"
)

// Client message types.
const (
	MsgDown         = "down"
	MsgMove         = "move"
	MsgUp           = "up"
	MsgHover        = "hover"
	MsgDoubleTap    = "dbltap"
	MsgResize       = "resize"
	MsgReset        = "reset"
	MsgCommit       = "commit"
	MsgUndo         = "undo"
	MsgSetMode      = "setMode"
	MsgZoom         = "zoom"
	MsgPan          = "pan"
	MsgInputEnabled = "inputEnabled"
)

// Server event types.
const (
	EvCursor    = "cursor"
	EvLayout    = "layout"
	EvCommitted = "committed"
	EvError     = "error"
)

// Message is a control websocket payload. Pointer coordinates are
// normalized to [0..1] against the client canvas; W and H are the canvas
// size in pixels for resize; DX and DY are screen pixels for pan. Tools is
// the client's toolbar in canvas pixels, sent with resize.
type Message struct {
	T       string     `json:"t"`
	ID      int        `json:"id,omitempty"`
	X       float64    `json:"x,omitempty"`
	Y       float64    `json:"y,omitempty"`
	Touch   bool       `json:"touch,omitempty"`
	W       int        `json:"w,omitempty"`
	H       int        `json:"h,omitempty"`
	Mode    string     `json:"mode,omitempty"`
	Zoom    float64    `json:"zoom,omitempty"`
	DX      float64    `json:"dx,omitempty"`
	DY      float64    `json:"dy,omitempty"`
	Enabled *bool      `json:"enabled,omitempty"`
	Tools   *geom.Rect `json:"tools,omitempty"`
}

// Event is a server to client payload. ToolsHidden is set on layout events
// when the client's toolbar would cover the crop handles.
type Event struct {
	T           string          `json:"t"`
	Cursor      string          `json:"cursor,omitempty"`
	Mode        string          `json:"mode,omitempty"`
	Layout      *overlay.Layout `json:"layout,omitempty"`
	Rect        *geom.Rect      `json:"rect,omitempty"`
	Width       int             `json:"width,omitempty"`
	Height      int             `json:"height,omitempty"`
	History     []string        `json:"history,omitempty"`
	Error       string          `json:"error,omitempty"`
	ToolsHidden bool            `json:"toolsHidden,omitempty"`
}
