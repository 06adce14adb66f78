package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"pgregory.net/rapid"

	"github.com/goliatone/go-regform/pkg/registration"
)

func validData() registration.FormData {
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

type recorder struct {
	calls []registration.FormData
}

func (r *recorder) submit(data registration.FormData) {
	r.calls = append(r.calls, data)
}

func TestController_FreshState(t *testing.T) {
	c := New(nil)

	if c.State() != StateEditing {
		t.Fatalf("expected editing, got %s", c.State())
	}
	for _, path := range registration.Paths() {
		if got := c.Field(path).State; got != FieldUntouched {
			t.Fatalf("%s: expected untouched, got %s", path, got)
		}
	}
	if c.Data().Gender != registration.DefaultGender {
		t.Fatalf("expected default gender, got %q", c.Data().Gender)
	}
}

func TestController_AcceptedSubmitInvokesCallbackOnce(t *testing.T) {
	rec := &recorder{}
	c := New(nil, WithOnValidSubmit(rec.submit), WithIDGenerator(func() string { return "sub-1" }))

	if err := c.Fill(validData()); err != nil {
		t.Fatalf("fill: %v", err)
	}
	sub := c.Submit()

	if !sub.Accepted() || sub.ID != "sub-1" {
		t.Fatalf("expected accepted submission, got %#v", sub)
	}
	if c.State() != StateAccepted {
		t.Fatalf("expected accepted, got %s", c.State())
	}
	if len(rec.calls) != 1 {
		t.Fatalf("expected one callback, got %d", len(rec.calls))
	}
	if diff := cmp.Diff(validData(), rec.calls[0]); diff != "" {
		t.Fatalf("callback data mismatch (-want +got):\n%s", diff)
	}
}

func TestController_RejectedSubmitSkipsCallback(t *testing.T) {
	rec := &recorder{}
	c := New(nil, WithOnValidSubmit(rec.submit))

	data := validData()
	data.FirstName = ""
	data.LastName = ""
	if err := c.Fill(data); err != nil {
		t.Fatalf("fill: %v", err)
	}
	sub := c.Submit()

	if sub.Accepted() || sub.ID != "" {
		t.Fatalf("expected rejected submission, got %#v", sub)
	}
	if len(rec.calls) != 0 {
		t.Fatalf("callback must not fire, got %d calls", len(rec.calls))
	}
	if c.State() != StateRejected {
		t.Fatalf("expected rejected, got %s", c.State())
	}
	want := FieldStatus{State: FieldInvalid, Message: "First name is required"}
	if diff := cmp.Diff(want, c.Field(registration.PathFirstName)); diff != "" {
		t.Fatalf("field status mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{registration.PathFirstName, registration.PathLastName}, c.Errors().Paths()); diff != "" {
		t.Fatalf("error paths mismatch (-want +got):\n%s", diff)
	}

	if err := c.Change(registration.PathFirstName, "Ada"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if c.State() != StateEditing {
		t.Fatalf("rejected form must return to editing, got %s", c.State())
	}
	if c.Field(registration.PathFirstName).State != FieldValid {
		t.Fatalf("corrected field must become valid")
	}
	if c.Errors().Has(registration.PathFirstName) {
		t.Fatalf("corrected field must clear its error")
	}
	if !c.Errors().Has(registration.PathLastName) {
		t.Fatalf("untouched failures stay until corrected")
	}
}

func TestController_ChangeTransitions(t *testing.T) {
	c := New(nil)

	if err := c.Change(registration.PathEmail, "nope"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := c.Field(registration.PathEmail); got.State != FieldInvalid || got.Message != "Email address not valid" {
		t.Fatalf("unexpected status: %#v", got)
	}
	if err := c.Change(registration.PathEmail, "a@b.com"); err != nil {
		t.Fatalf("change: %v", err)
	}
	if got := c.Field(registration.PathEmail).State; got != FieldValid {
		t.Fatalf("expected valid, got %s", got)
	}
	if err := c.Change("nickname", "x"); err == nil {
		t.Fatalf("expected error for unbound path")
	}
}

func TestController_PasswordEditRechecksConfirm(t *testing.T) {
	c := New(nil)
	_ = c.Change(registration.PathPassword, "Abcdef1!")
	_ = c.Change(registration.PathConfirmPassword, "Abcdef1!")
	if c.Errors().Has(registration.PathConfirmPassword) {
		t.Fatalf("matching passwords flagged: %#v", c.Errors())
	}

	_ = c.Change(registration.PathPassword, "Abcdef2!")
	if got := c.Field(registration.PathConfirmPassword).Message; got != "Passwords don't match" {
		t.Fatalf("expected mismatch on confirmPassword, got %q", got)
	}
	if c.Errors().Has(registration.PathPassword) {
		t.Fatalf("mismatch must not attach to password")
	}
}

func TestController_DatePartEditRechecksDay(t *testing.T) {
	const invalidDate = "Date of birth is not a valid date"
	newCalendarController := func() *Controller {
		return New(registration.New(registration.WithCalendarCheck(true)))
	}

	c := newCalendarController()
	_ = c.Change(registration.PathDOBDay, "30")
	_ = c.Change(registration.PathDOBMonth, "2")
	_ = c.Change(registration.PathDOBYear, "2001")
	if got := c.Field(registration.PathDOBDay); got.State != FieldInvalid || got.Message != invalidDate {
		t.Fatalf("expected invalid day after completing 30/2/2001, got %+v", got)
	}
	if got := c.Errors().First(registration.PathDOBDay); got != invalidDate {
		t.Fatalf("expected calendar issue in error map, got %q", got)
	}

	c = newCalendarController()
	_ = c.Change(registration.PathDOBMonth, "2")
	_ = c.Change(registration.PathDOBYear, "2001")
	_ = c.Change(registration.PathDOBDay, "30")
	if c.Field(registration.PathDOBDay).State != FieldInvalid {
		t.Fatalf("expected invalid day for 30/2/2001")
	}
	_ = c.Change(registration.PathDOBMonth, "3")
	if got := c.Field(registration.PathDOBDay); got.State != FieldValid {
		t.Fatalf("expected day to clear for 30/3/2001, got %+v", got)
	}
	if c.Errors().Has(registration.PathDOBDay) {
		t.Fatalf("stale calendar issue: %#v", c.Errors())
	}
}

func TestController_DatePartEditLeavesUntouchedDay(t *testing.T) {
	c := New(registration.New(registration.WithCalendarCheck(true)))
	_ = c.Change(registration.PathDOBMonth, "2")
	_ = c.Change(registration.PathDOBYear, "2001")
	if got := c.Field(registration.PathDOBDay).State; got != FieldUntouched {
		t.Fatalf("expected untouched day, got %v", got)
	}
}

func TestController_ResetRestoresInitial(t *testing.T) {
	initial := registration.Defaults()
	initial.FirstName = "Seed"
	c := New(nil, WithInitial(initial))

	_ = c.Change(registration.PathFirstName, "")
	c.Submit()
	c.Reset()

	if diff := cmp.Diff(initial, c.Data()); diff != "" {
		t.Fatalf("reset data mismatch (-want +got):\n%s", diff)
	}
	if c.State() != StateEditing || len(c.Errors()) != 0 {
		t.Fatalf("reset must clear state: %s %#v", c.State(), c.Errors())
	}
}

func TestController_SubmitHookAndDefaultLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	var events []SubmitEvent
	c := New(nil,
		WithLogger(zap.New(core)),
		WithSubmitHook(func(ev SubmitEvent) { events = append(events, ev) }),
		WithIDGenerator(func() string { return "abc" }),
	)

	c.Submit()
	_ = c.Fill(validData())
	c.Submit()

	if len(events) != 2 || events[0].State != StateRejected || events[1].State != StateAccepted {
		t.Fatalf("unexpected events: %#v", events)
	}
	entries := logs.FilterMessage("registration accepted").All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["submission_id"] != "abc" || fields["password"] != "[redacted]" || fields["email"] != "a@b.com" {
		t.Fatalf("unexpected log fields: %#v", fields)
	}
}

func TestBindings_CoverEveryPath(t *testing.T) {
	var paths []string
	data := validData()
	var copyTo registration.FormData
	for _, b := range Bindings() {
		paths = append(paths, b.Path)
		if err := b.Set(&copyTo, b.Get(data)); err != nil {
			t.Fatalf("bind %s: %v", b.Path, err)
		}
	}
	if diff := cmp.Diff(registration.Paths(), paths); diff != "" {
		t.Fatalf("binding paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(data, copyTo); diff != "" {
		t.Fatalf("round trip through bindings mismatch (-want +got):\n%s", diff)
	}
}

func TestController_CallbackOnlySeesValidData(t *testing.T) {
	schema := registration.New()
	rapid.Check(t, func(rt *rapid.T) {
		rec := &recorder{}
		c := New(schema, WithOnValidSubmit(rec.submit))
		for _, path := range registration.Paths() {
			value := rapid.OneOf(
				rapid.Just(""),
				rapid.StringMatching(`[A-Za-z0-9@.+!]{0,12}`),
			).Draw(rt, path)
			_ = c.Change(path, value)
		}
		sub := c.Submit()

		if schema.Validate(c.Data()).Valid() != sub.Accepted() {
			rt.Fatalf("submit outcome disagrees with schema")
		}
		if !sub.Accepted() && len(rec.calls) != 0 {
			rt.Fatalf("callback fired for invalid data")
		}
		if sub.Accepted() && len(rec.calls) != 1 {
			rt.Fatalf("expected one callback, got %d", len(rec.calls))
		}
	})
}
