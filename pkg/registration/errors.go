package registration

import "sort"

// Code classifies a validation failure.
type Code string

const (
	CodeEmptyField       Code = "empty_field"
	CodeInvalidFormat    Code = "invalid_format"
	CodeTooShort         Code = "too_short"
	CodeMissingUppercase Code = "missing_uppercase"
	CodeMissingLowercase Code = "missing_lowercase"
	CodeMissingDigit     Code = "missing_digit"
	CodeMissingSymbol    Code = "missing_symbol"
	CodePasswordMismatch Code = "password_mismatch"
	CodeInvalidDate      Code = "invalid_date"
)

// Issue is one failure attached to a field path.
type Issue struct {
	Path    string `json:"path"`
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

// ErrorMap groups issues by field path. A path with no issues has no entry.
type ErrorMap map[string][]Issue

// Add appends an issue under its path.
func (m ErrorMap) Add(issue Issue) {
	if m == nil || issue.Path == "" {
		return
	}
	m[issue.Path] = append(m[issue.Path], issue)
}

// Has reports whether path carries at least one issue.
func (m ErrorMap) Has(path string) bool {
	return len(m[path]) > 0
}

// Get returns the issues for path.
func (m ErrorMap) Get(path string) []Issue {
	return m[path]
}

// First returns the first message for path, or "".
func (m ErrorMap) First(path string) string {
	issues := m[path]
	if len(issues) == 0 {
		return ""
	}
	return issues[0].Message
}

// Set replaces the issues for path; an empty slice clears the entry.
func (m ErrorMap) Set(path string, issues []Issue) {
	if m == nil {
		return
	}
	if len(issues) == 0 {
		delete(m, path)
		return
	}
	m[path] = append([]Issue(nil), issues...)
}

// Clear drops the entry for path.
func (m ErrorMap) Clear(path string) {
	delete(m, path)
}

// Paths returns the failing paths sorted.
func (m ErrorMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for path, issues := range m {
		if len(issues) > 0 {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	return paths
}

// Messages flattens the map into path -> messages, the shape renderers and the
// JSON API expose.
func (m ErrorMap) Messages() map[string][]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string][]string, len(m))
	for path, issues := range m {
		if len(issues) == 0 {
			continue
		}
		msgs := make([]string, 0, len(issues))
		for _, issue := range issues {
			msgs = append(msgs, issue.Message)
		}
		out[path] = msgs
	}
	return out
}

// Clone returns an independent copy.
func (m ErrorMap) Clone() ErrorMap {
	out := make(ErrorMap, len(m))
	for path, issues := range m {
		out.Set(path, issues)
	}
	return out
}
