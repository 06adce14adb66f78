package registration

import (
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// PhonePattern accepts local numbers: a leading 7, 0 or +94 followed by nine
// or ten digits.
const PhonePattern = `^(?:7|0|(?:\+94))[0-9]{9,10}$`

// PasswordMinLength is the shortest accepted password.
const PasswordMinLength = 8

// DateLayout is the layout the calendar check parses "day-month-year" with.
const DateLayout = "2-1-2006"

const (
	tagNotBlank     = "notblank"
	tagPhone        = "lk_phone"
	tagHasUpper     = "has_upper"
	tagHasLower     = "has_lower"
	tagHasDigit     = "has_digit"
	tagHasSymbol    = "has_symbol"
	tagCalendarDate = "calendar_date"
	tagMinLength    = "min=8"
)

var phonePattern = regexp.MustCompile(PhonePattern)

// Rule is one declarative constraint. Tag is a validator tag evaluated against
// the string value at Path; Code and Message describe the failure.
type Rule struct {
	Path    string
	Tag     string
	Code    Code
	Message string
}

func passwordRules(path string) []Rule {
	return []Rule{
		{Path: path, Tag: tagMinLength, Code: CodeTooShort, Message: "At least 8 characters"},
		{Path: path, Tag: tagHasUpper, Code: CodeMissingUppercase, Message: "At least one capital letter"},
		{Path: path, Tag: tagHasLower, Code: CodeMissingLowercase, Message: "At least one lowercase letter"},
		{Path: path, Tag: tagHasDigit, Code: CodeMissingDigit, Message: "At least one number"},
		{Path: path, Tag: tagHasSymbol, Code: CodeMissingSymbol, Message: "At least one special character"},
	}
}

func defaultRules() []Rule {
	rules := []Rule{
		{Path: PathFirstName, Tag: tagNotBlank, Code: CodeEmptyField, Message: "First name is required"},
		{Path: PathLastName, Tag: tagNotBlank, Code: CodeEmptyField, Message: "Last name is required"},
		{Path: PathEmail, Tag: "email", Code: CodeInvalidFormat, Message: "Email address not valid"},
		{Path: PathPhoneNumber, Tag: tagPhone, Code: CodeInvalidFormat, Message: "Phone number not valid"},
		{Path: PathGender, Tag: tagNotBlank, Code: CodeEmptyField, Message: "Gender is required"},
	}
	rules = append(rules, passwordRules(PathPassword)...)
	rules = append(rules, passwordRules(PathConfirmPassword)...)
	return rules
}

var (
	mismatchIssue = Issue{
		Path:    PathConfirmPassword,
		Code:    CodePasswordMismatch,
		Message: "Passwords don't match",
	}
	invalidDateIssue = Issue{
		Path:    PathDOBDay,
		Code:    CodeInvalidDate,
		Message: "Date of birth is not a valid date",
	}
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation(tagNotBlank, func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagHasUpper, containsClass(func(r rune) bool { return r >= 'A' && r <= 'Z' }))
	_ = v.RegisterValidation(tagHasLower, containsClass(func(r rune) bool { return r >= 'a' && r <= 'z' }))
	_ = v.RegisterValidation(tagHasDigit, containsClass(func(r rune) bool { return r >= '0' && r <= '9' }))
	_ = v.RegisterValidation(tagHasSymbol, containsClass(isSymbol))
	_ = v.RegisterValidation(tagCalendarDate, func(fl validator.FieldLevel) bool {
		_, err := time.Parse(DateLayout, fl.Field().String())
		return err == nil
	})
	return v
}

func containsClass(match func(rune) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), match) >= 0
	}
}

// isSymbol matches anything outside [A-Za-z0-9].
func isSymbol(r rune) bool {
	switch {
	case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return false
	default:
		return true
	}
}
