package registration

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/model"
)

func TestFromValues(t *testing.T) {
	values := url.Values{
		"firstName":       {"Ada"},
		"lastName":        {"Lovelace"},
		"email":           {"ada@example.com"},
		"phoneNumber":     {"0712345678"},
		"gender":          {"female"},
		"dob.day":         {"10"},
		"dob.month":       {"12"},
		"dob.year":        {"1990"},
		"password":        {"Abcdef1!"},
		"confirmPassword": {"Abcdef1!"},
		"marketing":       {"on"},
		"csrf_token":      {"ignored"},
	}
	if diff := cmp.Diff(validData(), FromValues(values)); diff != "" {
		t.Fatalf("decoded form mismatch (-want +got):\n%s", diff)
	}

	values.Del("marketing")
	if FromValues(values).Marketing {
		t.Fatalf("absent checkbox must decode as false")
	}
}

func TestDecodeJSON(t *testing.T) {
	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phoneNumber":"0712345678",
"gender":"female","dob":{"day":"10","month":"12","year":"1990"},"password":"Abcdef1!","confirmPassword":"Abcdef1!","marketing":true}`
	got, err := DecodeJSON(strings.NewReader(body))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if diff := cmp.Diff(validData(), got); diff != "" {
		t.Fatalf("decoded json mismatch (-want +got):\n%s", diff)
	}

	if _, err := DecodeJSON(strings.NewReader(`{"nickname":"x"}`)); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestFormData_GetSet(t *testing.T) {
	var data FormData
	for _, path := range Paths() {
		if err := data.Set(path, "true"); err != nil {
			t.Fatalf("set %s: %v", path, err)
		}
		got, ok := data.Get(path)
		if !ok || got != "true" {
			t.Fatalf("get %s: got %q ok=%v", path, got, ok)
		}
	}
	if err := data.Set("nickname", "x"); err == nil {
		t.Fatalf("expected error for unknown path")
	}
	if _, ok := data.Get("dob"); ok {
		t.Fatalf("group path must not resolve to a value")
	}
}

func TestFormData_Redacted(t *testing.T) {
	data := validData()
	redacted := data.Redacted()
	if redacted.Password != "[redacted]" || redacted.ConfirmPassword != "[redacted]" {
		t.Fatalf("passwords not redacted: %#v", redacted)
	}
	if data.Password != "Abcdef1!" {
		t.Fatalf("redaction mutated the source")
	}
	if empty := (FormData{}).Redacted(); empty.Password != "" {
		t.Fatalf("empty passwords stay empty, got %q", empty.Password)
	}
}

func TestErrorMap(t *testing.T) {
	errs := ErrorMap{}
	errs.Add(Issue{Path: PathEmail, Code: CodeInvalidFormat, Message: "Email address not valid"})
	errs.Add(Issue{Path: PathFirstName, Code: CodeEmptyField, Message: "First name is required"})
	errs.Add(Issue{Code: CodeEmptyField, Message: "dropped"})

	if diff := cmp.Diff([]string{PathEmail, PathFirstName}, errs.Paths()); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{
		PathEmail:     {"Email address not valid"},
		PathFirstName: {"First name is required"},
	}
	if diff := cmp.Diff(want, errs.Messages()); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}

	clone := errs.Clone()
	errs.Clear(PathEmail)
	errs.Set(PathFirstName, nil)
	if len(errs) != 0 {
		t.Fatalf("expected cleared map, got %#v", errs)
	}
	if clone.First(PathEmail) != "Email address not valid" {
		t.Fatalf("clone shares storage with source")
	}
}

func TestSchemaFormModel(t *testing.T) {
	now := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	form := New().FormModel(now)

	if diff := cmp.Diff(Paths(), form.Paths()); diff != "" {
		t.Fatalf("leaf paths mismatch (-want +got):\n%s", diff)
	}

	year, ok := form.Lookup(PathDOBYear)
	if !ok {
		t.Fatalf("dob.year missing")
	}
	if len(year.Options) != 125 || year.Options[0].Value != "2024" || year.Placeholder != "year" {
		t.Fatalf("unexpected year field: %d options, placeholder %q", len(year.Options), year.Placeholder)
	}

	gender, _ := form.Lookup(PathGender)
	if gender.Default != DefaultGender || gender.Input != model.InputRadio {
		t.Fatalf("unexpected gender field: %#v", gender)
	}

	confirm, _ := form.Lookup(PathConfirmPassword)
	rule, ok := confirm.Rule(model.ValidationRuleMatches)
	if !ok || rule.Params["field"] != PathPassword {
		t.Fatalf("confirmPassword must advertise the matches rule: %#v", confirm.Validations)
	}
	if form.SubmitLabel != "Sign Up" || form.Title != "Registration Form" {
		t.Fatalf("unexpected form chrome: %q / %q", form.Title, form.SubmitLabel)
	}
}
