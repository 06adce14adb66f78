package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassForm     ChromeClass = "rf-form"
	ClassHeader   ChromeClass = "rf-header"
	ClassField    ChromeClass = "rf-field"
	ClassRequired ChromeClass = "rf-required"
	ClassError    ChromeClass = "rf-error"
	ClassErrors   ChromeClass = "rf-errors"
	ClassHelp     ChromeClass = "rf-help"
	ClassActions  ChromeClass = "rf-actions"
	ClassSuccess  ChromeClass = "rf-success"
)
