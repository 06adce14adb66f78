package form

// FieldState is the lifecycle of a single bound field.
type FieldState int

const (
	FieldUntouched FieldState = iota
	FieldValidating
	FieldValid
	FieldInvalid
)

func (s FieldState) String() string {
	switch s {
	case FieldUntouched:
		return "untouched"
	case FieldValidating:
		return "validating"
	case FieldValid:
		return "valid"
	case FieldInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// State is the lifecycle of the whole form.
type State int

const (
	StateEditing State = iota
	StateSubmitting
	StateAccepted
	StateRejected
)

func (s State) String() string {
	switch s {
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateAccepted:
		return "accepted"
	case StateRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// FieldStatus is the observable state of one field. Message holds the first
// issue while the field is invalid.
type FieldStatus struct {
	State   FieldState
	Message string
}
