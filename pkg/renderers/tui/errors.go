package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrUnknownField is returned when a form path has no prompt mapping.
	ErrUnknownField = errors.New("tui: unknown field")
)
