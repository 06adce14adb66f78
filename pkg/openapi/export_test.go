package openapi

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-regform/pkg/registration"
)

func TestBuildDescribesRegistration(t *testing.T) {
	doc, err := Build(context.Background(), registration.New(), Options{})
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	reg := doc.Components.Schemas[SchemaRegistration]
	if reg == nil || reg.Value == nil {
		t.Fatalf("registration schema missing")
	}
	wantRequired := []string{"firstName", "lastName", "email", "phoneNumber", "gender", "password", "confirmPassword"}
	if diff := cmp.Diff(wantRequired, reg.Value.Required); diff != "" {
		t.Fatalf("required mismatch (-want +got):\n%s", diff)
	}

	phone := reg.Value.Properties[registration.PathPhoneNumber].Value
	if phone.Pattern != registration.PhonePattern {
		t.Fatalf("unexpected phone pattern %q", phone.Pattern)
	}
	password := reg.Value.Properties[registration.PathPassword].Value
	if password.MinLength != registration.PasswordMinLength {
		t.Fatalf("unexpected password min length %d", password.MinLength)
	}
	gender := reg.Value.Properties[registration.PathGender].Value
	if len(gender.Enum) != 0 {
		t.Fatalf("gender must not be restricted to an enum, got %v", gender.Enum)
	}
	wantOptions := []map[string]string{
		{"value": "male", "label": "Male"},
		{"value": "female", "label": "Female"},
	}
	if diff := cmp.Diff(wantOptions, gender.Extensions["x-options"]); diff != "" {
		t.Fatalf("gender options mismatch (-want +got):\n%s", diff)
	}
	if err := gender.VisitJSON("other"); err != nil {
		t.Fatalf("schema should accept any non-empty gender: %v", err)
	}

	messages, _ := password.Extensions["x-messages"].([]string)
	if len(messages) != 5 || messages[0] != "At least 8 characters" {
		t.Fatalf("unexpected password messages %v", messages)
	}
	if got := reg.Value.Extensions["x-password-reporting"]; got != string(registration.ReportFirst) {
		t.Fatalf("unexpected reporting extension %v", got)
	}

	post := doc.Paths.Find("/api/registrations")
	if post == nil || post.Post == nil || post.Post.OperationID != OperationCreateRegistration {
		t.Fatalf("registration operation missing")
	}
	if post.Post.Responses.Status(422) == nil {
		t.Fatalf("expected a 422 response")
	}
	list := doc.Paths.Find("/api/birthdate/{list}")
	if list == nil || list.Get == nil {
		t.Fatalf("birthdate operation missing")
	}
	enum := list.Get.Parameters[0].Value.Schema.Value.Enum
	if diff := cmp.Diff([]any{"day", "month", "year"}, enum); diff != "" {
		t.Fatalf("list enum mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildHonoursOptions(t *testing.T) {
	schema := registration.New(registration.WithPasswordReporting(registration.ReportAll), registration.WithCalendarCheck(true))
	doc, err := Build(context.Background(), schema, Options{
		Title:             "Signup",
		ServerURL:         "https://forms.example.com",
		RegistrationsPath: "/v2/registrations",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if doc.Info.Title != "Signup" {
		t.Fatalf("unexpected title %q", doc.Info.Title)
	}
	if len(doc.Servers) != 1 || doc.Servers[0].URL != "https://forms.example.com" {
		t.Fatalf("unexpected servers %+v", doc.Servers)
	}
	item := doc.Paths.Find("/v2/registrations")
	if item == nil || item.Post == nil {
		t.Fatalf("custom registrations path missing")
	}
	if item.Post.Extensions["x-calendar-check"] != true {
		t.Fatalf("calendar check not advertised")
	}
	reg := doc.Components.Schemas[SchemaRegistration].Value
	if reg.Extensions["x-password-reporting"] != string(registration.ReportAll) {
		t.Fatalf("reporting mode not advertised")
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	ctx := context.Background()
	doc, err := Build(ctx, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	raw, err := MarshalJSON(doc)
	if err != nil {
		t.Fatalf("marshal json: %v", err)
	}
	loaded, err := Load(ctx, raw)
	if err != nil {
		t.Fatalf("load json: %v", err)
	}
	if loaded.Components.Schemas[SchemaDateOfBirth] == nil {
		t.Fatalf("date of birth schema lost in round trip")
	}

	yml, err := MarshalYAML(doc)
	if err != nil {
		t.Fatalf("marshal yaml: %v", err)
	}
	text := string(yml)
	for _, want := range []string{"openapi: 3.0.3", "operationId: createRegistration", "x-messages:"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in yaml:\n%s", want, text)
		}
	}
	if strings.HasPrefix(text, "{") {
		t.Fatalf("yaml should use block style:\n%s", text)
	}
	if _, err := Load(ctx, yml); err != nil {
		t.Fatalf("load yaml: %v", err)
	}
}

func TestMarshalNilDocument(t *testing.T) {
	if _, err := MarshalJSON(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}
