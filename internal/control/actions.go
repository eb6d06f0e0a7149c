package control

// ActionType identifies what the server must do after a gesture step.
type ActionType string

const (
	// ActCursor tells the client which cursor to show.
	ActCursor ActionType = "cursor"
	// ActRender reports that the overlay changed.
	ActRender ActionType = "render"
	// ActCommit commits the active mode.
	ActCommit ActionType = "commit"
)

// Action is one step produced by the gesture tracker.
type Action struct {
	Type   ActionType
	Cursor string
}
