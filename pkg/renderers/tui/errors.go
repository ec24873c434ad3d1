package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoContent signals a session whose resolved layout is empty.
	ErrNoContent = errors.New("tui: schema has no renderable content")
)
