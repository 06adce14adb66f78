package registration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
)

// Field paths. Nested date parts use dotted paths.
const (
	PathFirstName       = "firstName"
	PathLastName        = "lastName"
	PathEmail           = "email"
	PathPhoneNumber     = "phoneNumber"
	PathGender          = "gender"
	PathDOB             = "dob"
	PathDOBDay          = "dob.day"
	PathDOBMonth        = "dob.month"
	PathDOBYear         = "dob.year"
	PathPassword        = "password"
	PathConfirmPassword = "confirmPassword"
	PathMarketing       = "marketing"
)

// DefaultGender is preselected on a fresh form.
const DefaultGender = "male"

const redactedValue = "[redacted]"

// Paths lists every leaf path in form order.
func Paths() []string {
	return []string{
		PathFirstName,
		PathLastName,
		PathEmail,
		PathPhoneNumber,
		PathGender,
		PathDOBDay,
		PathDOBMonth,
		PathDOBYear,
		PathPassword,
		PathConfirmPassword,
		PathMarketing,
	}
}

// DateOfBirth holds the three select values as submitted.
type DateOfBirth struct {
	Day   string `json:"day" mapstructure:"day"`
	Month string `json:"month" mapstructure:"month"`
	Year  string `json:"year" mapstructure:"year"`
}

// Complete reports whether all three parts were chosen.
func (d DateOfBirth) Complete() bool {
	return strings.TrimSpace(d.Day) != "" &&
		strings.TrimSpace(d.Month) != "" &&
		strings.TrimSpace(d.Year) != ""
}

// FormData is the full record of registration inputs.
type FormData struct {
	FirstName       string      `json:"firstName" mapstructure:"firstName"`
	LastName        string      `json:"lastName" mapstructure:"lastName"`
	Email           string      `json:"email" mapstructure:"email"`
	PhoneNumber     string      `json:"phoneNumber" mapstructure:"phoneNumber"`
	Gender          string      `json:"gender" mapstructure:"gender"`
	DOB             DateOfBirth `json:"dob" mapstructure:"dob"`
	Password        string      `json:"password" mapstructure:"password"`
	ConfirmPassword string      `json:"confirmPassword" mapstructure:"confirmPassword"`
	Marketing       bool        `json:"marketing" mapstructure:"marketing"`
}

// Defaults returns the snapshot a fresh form starts from.
func Defaults() FormData {
	return FormData{Gender: DefaultGender}
}

// Get returns the string form of the value bound to path. Booleans render as
// "true" or "false".
func (d FormData) Get(path string) (string, bool) {
	switch path {
	case PathFirstName:
		return d.FirstName, true
	case PathLastName:
		return d.LastName, true
	case PathEmail:
		return d.Email, true
	case PathPhoneNumber:
		return d.PhoneNumber, true
	case PathGender:
		return d.Gender, true
	case PathDOBDay:
		return d.DOB.Day, true
	case PathDOBMonth:
		return d.DOB.Month, true
	case PathDOBYear:
		return d.DOB.Year, true
	case PathPassword:
		return d.Password, true
	case PathConfirmPassword:
		return d.ConfirmPassword, true
	case PathMarketing:
		return strconv.FormatBool(d.Marketing), true
	default:
		return "", false
	}
}

// Set writes value to path. Unknown paths return an error; the marketing flag
// accepts the checkbox spellings understood by ParseCheckbox.
func (d *FormData) Set(path, value string) error {
	if d == nil {
		return fmt.Errorf("registration: set %q on nil form data", path)
	}
	switch path {
	case PathFirstName:
		d.FirstName = value
	case PathLastName:
		d.LastName = value
	case PathEmail:
		d.Email = value
	case PathPhoneNumber:
		d.PhoneNumber = value
	case PathGender:
		d.Gender = value
	case PathDOBDay:
		d.DOB.Day = value
	case PathDOBMonth:
		d.DOB.Month = value
	case PathDOBYear:
		d.DOB.Year = value
	case PathPassword:
		d.Password = value
	case PathConfirmPassword:
		d.ConfirmPassword = value
	case PathMarketing:
		d.Marketing = ParseCheckbox(value)
	default:
		return fmt.Errorf("registration: unknown field %q", path)
	}
	return nil
}

// Values flattens the record into dotted paths for renderers.
func (d FormData) Values() map[string]any {
	return map[string]any{
		PathFirstName:       d.FirstName,
		PathLastName:        d.LastName,
		PathEmail:           d.Email,
		PathPhoneNumber:     d.PhoneNumber,
		PathGender:          d.Gender,
		PathDOBDay:          d.DOB.Day,
		PathDOBMonth:        d.DOB.Month,
		PathDOBYear:         d.DOB.Year,
		PathPassword:        d.Password,
		PathConfirmPassword: d.ConfirmPassword,
		PathMarketing:       d.Marketing,
	}
}

// Redacted returns a copy safe to log.
func (d FormData) Redacted() FormData {
	out := d
	if out.Password != "" {
		out.Password = redactedValue
	}
	if out.ConfirmPassword != "" {
		out.ConfirmPassword = redactedValue
	}
	return out
}

// ParseCheckbox reports whether a posted checkbox value means checked.
func ParseCheckbox(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// FromValues builds a record from an HTML form post. Missing keys keep their
// zero value; an unchecked marketing box is simply absent from the post.
func FromValues(values url.Values) FormData {
	var data FormData
	for _, path := range Paths() {
		if !values.Has(path) {
			continue
		}
		_ = data.Set(path, values.Get(path))
	}
	return data
}

// DecodeJSON reads a record from a JSON body. Unknown keys are rejected.
func DecodeJSON(r io.Reader) (FormData, error) {
	var data FormData
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&data); err != nil {
		return FormData{}, fmt.Errorf("registration: decode json: %w", err)
	}
	return data, nil
}
