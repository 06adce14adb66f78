package model

import "strings"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

// InputType names the control a renderer should emit for a field.
type InputType string

const (
	InputText     InputType = "text"
	InputEmail    InputType = "email"
	InputTel      InputType = "tel"
	InputPassword InputType = "password"
	InputRadio    InputType = "radio"
	InputSelect   InputType = "select"
	InputCheckbox InputType = "checkbox"
	InputGroup    InputType = "group"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleFormat    = "format"
	ValidationRuleMatches   = "matches"
)

// ValidationRule represents a single constraint advertised to renderers. Length
// limits encode their threshold in Params["value"], pattern rules keep the
// expression in Params["pattern"] and cross-field rules name their peer in
// Params["field"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Option is one selectable value for radio and select controls.
type Option struct {
	Value    string `json:"value"`
	Label    string `json:"label"`
	Disabled bool   `json:"disabled,omitempty"`
}

// Field models an individual input inside the form. Name is the local segment;
// Path is the dotted path used for value binding and error lookup.
type Field struct {
	Name        string            `json:"name"`
	Path        string            `json:"path"`
	Type        FieldType         `json:"type"`
	Input       InputType         `json:"input"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	SubmitLabel string            `json:"submitLabel"`
	Fields      []Field           `json:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Walk visits every field depth first, parents before children.
func (f FormModel) Walk(visit func(Field)) {
	walkFields(f.Fields, visit)
}

func walkFields(fields []Field, visit func(Field)) {
	for _, field := range fields {
		visit(field)
		if len(field.Nested) > 0 {
			walkFields(field.Nested, visit)
		}
	}
}

// Lookup returns the field bound to the dotted path.
func (f FormModel) Lookup(path string) (Field, bool) {
	path = strings.TrimSpace(path)
	var (
		found Field
		ok    bool
	)
	f.Walk(func(field Field) {
		if !ok && field.Path == path {
			found, ok = field, true
		}
	})
	return found, ok
}

// Paths lists every leaf path in declaration order.
func (f FormModel) Paths() []string {
	var paths []string
	f.Walk(func(field Field) {
		if len(field.Nested) == 0 {
			paths = append(paths, field.Path)
		}
	})
	return paths
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}
