package render

import (
	theme "github.com/goliatone/go-theme"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form model.
type RenderOptions struct {
	// Method overrides the HTTP method declared by the form model.
	Method string
	// Values pre-populates rendered controls using dotted field paths (e.g.
	// "dob.day").
	Values map[string]any
	// Errors surfaces validation feedback keyed by field path. Renderers show
	// the messages next to the bound control.
	Errors map[string][]string
	// FormErrors carries messages that could not be attached to a field.
	FormErrors []string
	// HiddenFields are emitted as hidden inputs (CSRF token and similar).
	HiddenFields map[string]string
	// Theme carries the resolved theme tokens and partial overrides.
	Theme *theme.RendererConfig
	// Success replaces the form with a confirmation message when set.
	Success string
}

// ErrorsFor returns the messages attached to path.
func (o RenderOptions) ErrorsFor(path string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[path]
}

// Value returns the prefilled value for path.
func (o RenderOptions) Value(path string) (any, bool) {
	if len(o.Values) == 0 {
		return nil, false
	}
	value, ok := o.Values[path]
	return value, ok
}
