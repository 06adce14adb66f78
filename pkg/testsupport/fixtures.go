// Package testsupport holds fixtures and golden-file helpers shared by tests.
package testsupport

import (
	"bytes"
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/goliatone/go-regform/pkg/registration"
)

// FixedNow is the instant tests pin clocks to; its year list spans 2024 down
// to 1900.
var FixedNow = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)

// FixedClock returns FixedNow.
func FixedClock() time.Time {
	return FixedNow
}

// ValidRegistration returns a record that passes every registration rule.
func ValidRegistration() registration.FormData {
	return registration.FormData{
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Email:           "a@b.com",
		PhoneNumber:     "0712345678",
		Gender:          "female",
		DOB:             registration.DateOfBirth{Day: "10", Month: "12", Year: "1990"},
		Password:        "Abcdef1!",
		ConfirmPassword: "Abcdef1!",
		Marketing:       true,
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
