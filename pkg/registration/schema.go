package registration

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// PasswordReporting controls how many unmet password rules surface per field.
type PasswordReporting string

const (
	// ReportFirst stops at the first unmet rule for each field.
	ReportFirst PasswordReporting = "first"
	// ReportAll collects every unmet rule.
	ReportAll PasswordReporting = "all"
)

// ParsePasswordReporting resolves a configured mode. Blank selects ReportFirst.
func ParsePasswordReporting(raw string) (PasswordReporting, error) {
	switch PasswordReporting(strings.ToLower(strings.TrimSpace(raw))) {
	case "", ReportFirst:
		return ReportFirst, nil
	case ReportAll:
		return ReportAll, nil
	default:
		return "", fmt.Errorf("registration: unknown password reporting mode %q", raw)
	}
}

// Option customises a Schema.
type Option func(*Schema)

// WithPasswordReporting selects first-only or all-rules reporting for the
// password fields.
func WithPasswordReporting(mode PasswordReporting) Option {
	return func(s *Schema) {
		if mode == ReportAll {
			s.reporting = ReportAll
			return
		}
		s.reporting = ReportFirst
	}
}

// WithCalendarCheck rejects impossible dates such as 30/2 once all three date
// parts are set.
func WithCalendarCheck(enabled bool) Option {
	return func(s *Schema) {
		s.calendar = enabled
	}
}

// Schema validates FormData against the registration rules.
type Schema struct {
	validate  *validator.Validate
	rules     []Rule
	byPath    map[string][]Rule
	reporting PasswordReporting
	calendar  bool
}

// New builds a schema with the default rule set.
func New(opts ...Option) *Schema {
	s := &Schema{
		validate:  newValidator(),
		rules:     defaultRules(),
		reporting: ReportFirst,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.byPath = make(map[string][]Rule, len(s.rules))
	for _, rule := range s.rules {
		s.byPath[rule.Path] = append(s.byPath[rule.Path], rule)
	}
	return s
}

// Result is the outcome of a validation pass. Data is populated only when the
// input was valid.
type Result struct {
	Data   FormData
	Errors ErrorMap
}

// Valid reports whether the pass produced no issues.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Rules returns a copy of the per-field rules in declaration order.
func (s *Schema) Rules() []Rule {
	return append([]Rule(nil), s.rules...)
}

// RulesFor returns the rules bound to path.
func (s *Schema) RulesFor(path string) []Rule {
	return append([]Rule(nil), s.byPath[path]...)
}

// Reporting returns the configured password reporting mode.
func (s *Schema) Reporting() PasswordReporting {
	return s.reporting
}

// CalendarCheck reports whether impossible dates are rejected.
func (s *Schema) CalendarCheck() bool {
	return s.calendar
}

// Validate runs every field rule, then the cross-field checks, against the
// full record.
func (s *Schema) Validate(data FormData) Result {
	errs := ErrorMap{}
	for _, path := range Paths() {
		errs.Set(path, s.fieldIssues(data, path))
	}
	if issue, ok := s.mismatch(data, errs); ok {
		errs.Add(issue)
	}
	if issue, ok := s.calendarIssue(data, errs); ok {
		errs.Add(issue)
	}
	if len(errs) > 0 {
		return Result{Errors: errs}
	}
	return Result{Data: data, Errors: errs}
}

// ValidateField returns the issues for a single path, including any
// cross-field issue that attaches to it.
func (s *Schema) ValidateField(data FormData, path string) []Issue {
	issues := s.fieldIssues(data, path)
	switch path {
	case PathConfirmPassword:
		if len(issues) > 0 {
			return issues
		}
		peers := ErrorMap{}
		peers.Set(PathPassword, s.fieldIssues(data, PathPassword))
		if issue, ok := s.mismatch(data, peers); ok {
			issues = append(issues, issue)
		}
	case PathDOBDay:
		parts := ErrorMap{}
		parts.Set(PathDOBDay, issues)
		if issue, ok := s.calendarIssue(data, parts); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

func (s *Schema) fieldIssues(data FormData, path string) []Issue {
	rules := s.byPath[path]
	if len(rules) == 0 {
		return nil
	}
	value, _ := data.Get(path)
	var issues []Issue
	for _, rule := range rules {
		if err := s.validate.Var(value, rule.Tag); err == nil {
			continue
		}
		issues = append(issues, Issue{Path: rule.Path, Code: rule.Code, Message: rule.Message})
		if s.reporting == ReportFirst {
			break
		}
	}
	return issues
}

// mismatch runs only once both password fields pass on their own.
func (s *Schema) mismatch(data FormData, errs ErrorMap) (Issue, bool) {
	if errs.Has(PathPassword) || errs.Has(PathConfirmPassword) {
		return Issue{}, false
	}
	if data.Password == data.ConfirmPassword {
		return Issue{}, false
	}
	return mismatchIssue, true
}

func (s *Schema) calendarIssue(data FormData, errs ErrorMap) (Issue, bool) {
	if !s.calendar || !data.DOB.Complete() {
		return Issue{}, false
	}
	if errs.Has(PathDOBDay) || errs.Has(PathDOBMonth) || errs.Has(PathDOBYear) {
		return Issue{}, false
	}
	joined := strings.TrimSpace(data.DOB.Day) + "-" + strings.TrimSpace(data.DOB.Month) + "-" + strings.TrimSpace(data.DOB.Year)
	if err := s.validate.Var(joined, tagCalendarDate); err == nil {
		return Issue{}, false
	}
	return invalidDateIssue, true
}
