package form

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/registration"
)

// SubmitEvent describes a finished submit attempt.
type SubmitEvent struct {
	ID       string
	State    State
	Errors   registration.ErrorMap
	Duration time.Duration
}

// Submission is returned from Submit. ID is set only for accepted submits.
type Submission struct {
	ID     string
	Result registration.Result
}

// Accepted reports whether the submit fired the completion callback.
func (s Submission) Accepted() bool {
	return s.Result.Valid()
}

// Option customises a Controller.
type Option func(*Controller)

// WithOnValidSubmit replaces the default logging callback.
func WithOnValidSubmit(fn func(registration.FormData)) Option {
	return func(c *Controller) {
		c.onValidSubmit = fn
	}
}

// WithLogger sets the logger used by the default callback.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithInitial seeds the snapshot Reset returns to.
func WithInitial(data registration.FormData) Option {
	return func(c *Controller) {
		c.initial = data
	}
}

// WithSubmitHook registers an observer called after every submit attempt.
func WithSubmitHook(hook func(SubmitEvent)) Option {
	return func(c *Controller) {
		if hook != nil {
			c.hooks = append(c.hooks, hook)
		}
	}
}

// WithIDGenerator overrides the submission id source.
func WithIDGenerator(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// Controller owns the current form snapshot.
type Controller struct {
	schema        *registration.Schema
	bindings      map[string]Binding
	initial       registration.FormData
	data          registration.FormData
	fields        map[string]FieldStatus
	errors        registration.ErrorMap
	state         State
	onValidSubmit func(registration.FormData)
	hooks         []func(SubmitEvent)
	logger        *zap.Logger
	newID         func() string
	now           func() time.Time
}

// New builds a controller over schema. A nil schema uses registration.New().
func New(schema *registration.Schema, opts ...Option) *Controller {
	if schema == nil {
		schema = registration.New()
	}
	c := &Controller{
		schema:   schema,
		bindings: make(map[string]Binding),
		initial:  registration.Defaults(),
		logger:   zap.NewNop(),
		newID:    func() string { return uuid.NewString() },
		now:      time.Now,
	}
	for _, binding := range Bindings() {
		c.bindings[binding.Path] = binding
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.Reset()
	return c
}

// Reset returns to the initial snapshot with every field untouched.
func (c *Controller) Reset() {
	c.data = c.initial
	c.errors = registration.ErrorMap{}
	c.state = StateEditing
	c.fields = make(map[string]FieldStatus, len(c.bindings))
	for path := range c.bindings {
		c.fields[path] = FieldStatus{State: FieldUntouched}
	}
}

// Change writes value through the binding for path and re-validates it.
func (c *Controller) Change(path, value string) error {
	binding, ok := c.bindings[path]
	if !ok {
		return fmt.Errorf("form: no binding for %q", path)
	}
	if err := binding.Set(&c.data, value); err != nil {
		return fmt.Errorf("form: change %q: %w", path, err)
	}
	if c.state != StateSubmitting {
		c.state = StateEditing
	}
	c.revalidate(path)

	// the mismatch lives on confirmPassword, so a password edit re-checks it
	if path == registration.PathPassword && c.fields[registration.PathConfirmPassword].State != FieldUntouched {
		c.revalidate(registration.PathConfirmPassword)
	}
	// the calendar issue lives on dob.day but depends on every date part
	if (path == registration.PathDOBMonth || path == registration.PathDOBYear) &&
		c.fields[registration.PathDOBDay].State != FieldUntouched {
		c.revalidate(registration.PathDOBDay)
	}
	return nil
}

// Fill applies every value in data as a change, in form order.
func (c *Controller) Fill(data registration.FormData) error {
	for _, binding := range Bindings() {
		if err := c.Change(binding.Path, binding.Get(data)); err != nil {
			return err
		}
	}
	return nil
}

// Submit validates the full snapshot. Only an accepted submit invokes the
// completion callback, exactly once, with the validated data.
func (c *Controller) Submit() Submission {
	started := c.now()
	c.state = StateSubmitting
	for path := range c.bindings {
		c.fields[path] = FieldStatus{State: FieldValidating}
	}

	result := c.schema.Validate(c.data)
	c.errors = result.Errors.Clone()
	for path := range c.bindings {
		c.fields[path] = c.statusFor(path)
	}

	submission := Submission{Result: result}
	if result.Valid() {
		c.state = StateAccepted
		submission.ID = c.newID()
		c.complete(submission.ID, result.Data)
	} else {
		c.state = StateRejected
	}

	event := SubmitEvent{
		ID:       submission.ID,
		State:    c.state,
		Errors:   c.errors.Clone(),
		Duration: c.now().Sub(started),
	}
	for _, hook := range c.hooks {
		hook(event)
	}
	return submission
}

func (c *Controller) complete(id string, data registration.FormData) {
	if c.onValidSubmit != nil {
		c.onValidSubmit(data)
		return
	}
	LogSubmission(c.logger, id, data)
}

func (c *Controller) revalidate(path string) {
	c.fields[path] = FieldStatus{State: FieldValidating}
	c.errors.Set(path, c.schema.ValidateField(c.data, path))
	c.fields[path] = c.statusFor(path)
}

func (c *Controller) statusFor(path string) FieldStatus {
	if c.errors.Has(path) {
		return FieldStatus{State: FieldInvalid, Message: c.errors.First(path)}
	}
	return FieldStatus{State: FieldValid}
}

// State reports the whole-form state.
func (c *Controller) State() State {
	return c.state
}

// Field reports the state of one field.
func (c *Controller) Field(path string) FieldStatus {
	return c.fields[path]
}

// Errors returns a copy of the current error map.
func (c *Controller) Errors() registration.ErrorMap {
	return c.errors.Clone()
}

// Data returns the current snapshot.
func (c *Controller) Data() registration.FormData {
	return c.data
}

// Values exposes the snapshot keyed by dotted path.
func (c *Controller) Values() map[string]any {
	return c.data.Values()
}

// Schema returns the schema the controller validates with.
func (c *Controller) Schema() *registration.Schema {
	return c.schema
}

// LogSubmission is the default completion callback: it writes the accepted
// record to the log with both passwords redacted.
func LogSubmission(logger *zap.Logger, id string, data registration.FormData) {
	if logger == nil {
		return
	}
	safe := data.Redacted()
	logger.Info("registration accepted",
		zap.String("submission_id", id),
		zap.String("first_name", safe.FirstName),
		zap.String("last_name", safe.LastName),
		zap.String("email", safe.Email),
		zap.String("phone_number", safe.PhoneNumber),
		zap.String("gender", safe.Gender),
		zap.String("dob_day", safe.DOB.Day),
		zap.String("dob_month", safe.DOB.Month),
		zap.String("dob_year", safe.DOB.Year),
		zap.String("password", safe.Password),
		zap.String("confirm_password", safe.ConfirmPassword),
		zap.Bool("marketing", safe.Marketing),
	)
}
