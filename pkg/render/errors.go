package render

import (
	"strconv"
	"strings"

	"github.com/goliatone/go-regform/pkg/model"
)

// ErrorMapping splits an error payload into field-level and form-level
// messages keyed by the dotted paths of the form model.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// MergeFormErrors concatenates form-level messages, trimming whitespace and
// dropping duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload attaches each entry of payload to a field of form. Keys may
// be dotted ("dob.day"), JSON pointers ("/dob/day") or wrapped in a request
// envelope ("body.email"). Keys that match no field become form-level errors
// so messages are never lost.
func MapErrorPayload(form model.FormModel, payload map[string][]string) ErrorMapping {
	mapping := ErrorMapping{Fields: make(map[string][]string)}
	if len(payload) == 0 {
		mapping.Fields = nil
		return mapping
	}

	known := make(map[string]struct{})
	form.Walk(func(field model.Field) {
		if path := strings.TrimSpace(field.Path); path != "" {
			known[path] = struct{}{}
		}
	})

	for raw, messages := range payload {
		messages = normalizeMessages(messages)
		if len(messages) == 0 {
			continue
		}
		path, ok := resolvePath(raw, known)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		mapping.Fields[path] = append(mapping.Fields[path], messages...)
	}

	if len(mapping.Fields) == 0 {
		mapping.Fields = nil
	}
	mapping.Form = normalizeMessages(mapping.Form)
	return mapping
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func resolvePath(raw string, known map[string]struct{}) (string, bool) {
	if isFormLevelKey(raw) {
		return "", false
	}
	segments := splitSegments(raw)
	if len(segments) == 0 {
		return "", false
	}

	best := ""
	for _, variant := range [][]string{
		segments,
		dropWrappers(segments),
		dropIndexes(segments),
		dropIndexes(dropWrappers(segments)),
	} {
		candidate := longestKnownPrefix(variant, known)
		if strings.Count(candidate, ".") > strings.Count(best, ".") || best == "" {
			best = candidate
		}
	}
	return best, best != ""
}

func splitSegments(path string) []string {
	clean := strings.TrimSpace(path)
	clean = strings.TrimLeft(clean, "#$/.")
	clean = strings.NewReplacer("[", ".", "]", "").Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool { return r == '.' || r == '/' })
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		out = append(out, part)
	}
	return out
}

var wrapperSegments = map[string]struct{}{
	"body":    {},
	"request": {},
	"payload": {},
	"data":    {},
	"errors":  {},
}

func dropWrappers(segments []string) []string {
	out := segments
	for len(out) > 0 {
		if _, ok := wrapperSegments[strings.ToLower(out[0])]; !ok {
			break
		}
		out = out[1:]
	}
	return out
}

func dropIndexes(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestKnownPrefix(segments []string, known map[string]struct{}) string {
	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "__all__", "non_field_errors":
		return true
	default:
		return false
	}
}
