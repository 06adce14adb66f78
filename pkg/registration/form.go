package registration

import (
	"net/http"
	"strconv"
	"time"

	"github.com/goliatone/go-regform/components/birthdate"
	"github.com/goliatone/go-regform/pkg/model"
)

// FormID identifies the registration form in rendered markup.
const FormID = "registration"

// FormOptions tweaks the rendered description.
type FormOptions struct {
	Endpoint string
	Method   string
	MinYear  int
}

// FormModel describes the form for renderers. Option lists are derived from
// now on every call.
func (s *Schema) FormModel(now time.Time, opts ...FormOptions) model.FormModel {
	cfg := FormOptions{Endpoint: "/register", Method: http.MethodPost, MinYear: birthdate.MinYear}
	if len(opts) > 0 {
		if opts[0].Endpoint != "" {
			cfg.Endpoint = opts[0].Endpoint
		}
		if opts[0].Method != "" {
			cfg.Method = opts[0].Method
		}
		if opts[0].MinYear > 0 {
			cfg.MinYear = opts[0].MinYear
		}
	}

	return model.FormModel{
		ID:          FormID,
		Title:       "Registration Form",
		Endpoint:    cfg.Endpoint,
		Method:      cfg.Method,
		SubmitLabel: "Sign Up",
		Fields: []model.Field{
			s.textField(PathFirstName, "First Name", model.InputText),
			s.textField(PathLastName, "Last Name", model.InputText),
			s.textField(PathEmail, "Email", model.InputEmail),
			s.textField(PathPhoneNumber, "Phone", model.InputTel),
			{
				Name:        PathGender,
				Path:        PathGender,
				Type:        model.FieldTypeString,
				Input:       model.InputRadio,
				Label:       "Gender",
				Default:     DefaultGender,
				Options:     GenderOptions(),
				Validations: s.advertised(PathGender),
			},
			{
				Name:  PathDOB,
				Path:  PathDOB,
				Type:  model.FieldTypeObject,
				Input: model.InputGroup,
				Label: "Birthday",
				Nested: []model.Field{
					dateField(PathDOBDay, "day", birthdate.Days()),
					dateField(PathDOBMonth, "month", birthdate.Months()),
					dateField(PathDOBYear, "year", birthdate.YearsFrom(now.Year(), cfg.MinYear)),
				},
			},
			s.textField(PathPassword, "Password", model.InputPassword),
			s.textField(PathConfirmPassword, "Confirm Password", model.InputPassword),
			{
				Name:    PathMarketing,
				Path:    PathMarketing,
				Type:    model.FieldTypeBoolean,
				Input:   model.InputCheckbox,
				Label:   "I'd like to receive marketing promotions and special offers updates.",
				Default: false,
			},
		},
		Metadata: map[string]string{
			"passwordReporting": string(s.reporting),
			"calendarCheck":     strconv.FormatBool(s.calendar),
		},
	}
}

// GenderOptions lists the radio choices offered by the form. The schema
// accepts any non-empty gender; these are presentation only.
func GenderOptions() []model.Option {
	return []model.Option{
		{Value: "male", Label: "Male"},
		{Value: "female", Label: "Female"},
	}
}

func (s *Schema) textField(path, label string, input model.InputType) model.Field {
	return model.Field{
		Name:        path,
		Path:        path,
		Type:        model.FieldTypeString,
		Input:       input,
		Required:    true,
		Label:       label,
		Validations: s.advertised(path),
	}
}

func dateField(path, placeholder string, options []birthdate.Option) model.Field {
	converted := make([]model.Option, 0, len(options))
	for _, opt := range options {
		converted = append(converted, model.Option{Value: opt.Value, Label: opt.Label})
	}
	name := path[len(PathDOB)+1:]
	return model.Field{
		Name:        name,
		Path:        path,
		Type:        model.FieldTypeString,
		Input:       model.InputSelect,
		Placeholder: placeholder,
		Options:     converted,
	}
}

// advertised translates validator tags into renderer-facing rules.
func (s *Schema) advertised(path string) []model.ValidationRule {
	var out []model.ValidationRule
	for _, rule := range s.byPath[path] {
		switch rule.Tag {
		case tagNotBlank:
			out = append(out, model.ValidationRule{Kind: model.ValidationRuleRequired})
		case "email":
			out = append(out, model.ValidationRule{Kind: model.ValidationRuleFormat, Params: map[string]string{"value": "email"}})
		case tagPhone:
			out = append(out, model.ValidationRule{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": PhonePattern}})
		case tagMinLength:
			out = append(out, model.ValidationRule{Kind: model.ValidationRuleMinLength, Params: map[string]string{"value": strconv.Itoa(PasswordMinLength)}})
		case tagHasUpper:
			out = append(out, patternRule("[A-Z]"))
		case tagHasLower:
			out = append(out, patternRule("[a-z]"))
		case tagHasDigit:
			out = append(out, patternRule("[0-9]"))
		case tagHasSymbol:
			out = append(out, patternRule("[^A-Za-z0-9]"))
		}
	}
	if path == PathConfirmPassword {
		out = append(out, model.ValidationRule{Kind: model.ValidationRuleMatches, Params: map[string]string{"field": PathPassword}})
	}
	return out
}

func patternRule(expr string) model.ValidationRule {
	return model.ValidationRule{Kind: model.ValidationRulePattern, Params: map[string]string{"pattern": expr}}
}
