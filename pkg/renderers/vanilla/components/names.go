package components

import "github.com/goliatone/go-regform/pkg/model"

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameRadio    = "radio"
	NameSelect   = "select"
	NameCheckbox = "checkbox"
	NameGroup    = "group"
)

// NameFor picks the component that renders field.
func NameFor(field model.Field) string {
	switch field.Input {
	case model.InputRadio:
		return NameRadio
	case model.InputSelect:
		return NameSelect
	case model.InputCheckbox:
		return NameCheckbox
	case model.InputGroup:
		return NameGroup
	}
	if len(field.Nested) > 0 {
		return NameGroup
	}
	return NameInput
}
