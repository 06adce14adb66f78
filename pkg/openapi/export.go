package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-regform/components/birthdate"
	"github.com/goliatone/go-regform/pkg/registration"
)

// Component schema names.
const (
	SchemaRegistration = "Registration"
	SchemaDateOfBirth  = "DateOfBirth"
	SchemaErrors       = "ValidationErrors"
	SchemaCreated      = "Created"
	SchemaOption       = "Option"
	SchemaOptionList   = "OptionList"
)

// Operation identifiers.
const (
	OperationCreateRegistration = "createRegistration"
	OperationListBirthdate      = "listBirthdateOptions"
)

// Options tune the exported document.
type Options struct {
	Title   string
	Version string
	// ServerURL is listed under servers when set.
	ServerURL string
	// RegistrationsPath and BirthdatePath locate the JSON endpoints.
	RegistrationsPath string
	BirthdatePath     string
}

// DefaultOptions mirrors the routes mounted by the HTTP server.
func DefaultOptions() Options {
	return Options{
		Title:             "Registration Form",
		Version:           "1.0.0",
		RegistrationsPath: "/api/registrations",
		BirthdatePath:     "/api/birthdate",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Title == "" {
		o.Title = def.Title
	}
	if o.Version == "" {
		o.Version = def.Version
	}
	if o.RegistrationsPath == "" {
		o.RegistrationsPath = def.RegistrationsPath
	}
	if o.BirthdatePath == "" {
		o.BirthdatePath = def.BirthdatePath
	}
	return o
}

// Build assembles and validates the document for schema.
func Build(ctx context.Context, schema *registration.Schema, opts Options) (*openapi3.T, error) {
	if schema == nil {
		schema = registration.New()
	}
	opts = opts.withDefaults()

	components := componentSchemas(schema)
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   opts.Title,
			Version: opts.Version,
		},
		Components: &openapi3.Components{
			Schemas: components,
		},
		Paths: openapi3.NewPaths(),
	}
	if opts.ServerURL != "" {
		doc.Servers = openapi3.Servers{{URL: opts.ServerURL}}
	}

	doc.Paths.Set(opts.RegistrationsPath, &openapi3.PathItem{Post: createOperation(components, schema)})
	doc.Paths.Set(strings.TrimRight(opts.BirthdatePath, "/")+"/{list}", &openapi3.PathItem{Get: listOperation(components)})

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}

func componentSchemas(schema *registration.Schema) openapi3.Schemas {
	dob := openapi3.NewObjectSchema().
		WithProperty("day", openapi3.NewStringSchema()).
		WithProperty("month", openapi3.NewStringSchema()).
		WithProperty("year", openapi3.NewStringSchema())
	dob.Description = "Date of birth parts as selected in the form."
	if schema.CalendarCheck() {
		dob.Description += " Complete dates must exist in the calendar."
	}

	reg := openapi3.NewObjectSchema()
	reg.Title = "Registration"
	reg.Required = []string{
		registration.PathFirstName,
		registration.PathLastName,
		registration.PathEmail,
		registration.PathPhoneNumber,
		registration.PathGender,
		registration.PathPassword,
		registration.PathConfirmPassword,
	}
	reg.Properties = openapi3.Schemas{
		registration.PathFirstName:       ruled(openapi3.NewStringSchema().WithMinLength(1), schema, registration.PathFirstName),
		registration.PathLastName:        ruled(openapi3.NewStringSchema().WithMinLength(1), schema, registration.PathLastName),
		registration.PathEmail:           ruled(openapi3.NewStringSchema().WithFormat("email"), schema, registration.PathEmail),
		registration.PathPhoneNumber:     ruled(openapi3.NewStringSchema().WithPattern(registration.PhonePattern), schema, registration.PathPhoneNumber),
		registration.PathGender:          ruled(genderSchema(), schema, registration.PathGender),
		registration.PathDOB:             openapi3.NewSchemaRef("#/components/schemas/"+SchemaDateOfBirth, dob),
		registration.PathPassword:        ruled(passwordSchema(), schema, registration.PathPassword),
		registration.PathConfirmPassword: ruled(passwordSchema(), schema, registration.PathConfirmPassword),
		registration.PathMarketing:       openapi3.NewSchemaRef("", openapi3.NewBoolSchema().WithDefault(false)),
	}
	reg.Extensions = map[string]any{
		"x-password-reporting": string(schema.Reporting()),
	}

	errs := openapi3.NewObjectSchema().
		WithProperty("errors", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema())))
	errs.Required = []string{"errors"}
	errs.Description = "Messages keyed by field path, for example dob.day or confirmPassword."

	created := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewUUIDSchema())
	created.Required = []string{"id"}

	option := openapi3.NewObjectSchema().
		WithProperty("value", openapi3.NewStringSchema()).
		WithProperty("label", openapi3.NewStringSchema())
	option.Required = []string{"value", "label"}

	list := openapi3.NewObjectSchema().
		WithPropertyRef("data", &openapi3.SchemaRef{
			Value: openapi3.NewArraySchema().WithItems(option),
		})
	list.Required = []string{"data"}

	return openapi3.Schemas{
		SchemaRegistration: openapi3.NewSchemaRef("", reg),
		SchemaDateOfBirth:  openapi3.NewSchemaRef("", dob),
		SchemaErrors:       openapi3.NewSchemaRef("", errs),
		SchemaCreated:      openapi3.NewSchemaRef("", created),
		SchemaOption:       openapi3.NewSchemaRef("", option),
		SchemaOptionList:   openapi3.NewSchemaRef("", list),
	}
}

func passwordSchema() *openapi3.Schema {
	s := openapi3.NewStringSchema().WithMinLength(registration.PasswordMinLength)
	s.WriteOnly = true
	s.Description = "Needs an uppercase letter, a lowercase letter, a digit and a symbol."
	return s
}

// genderSchema advertises the form's choices as x-options without an enum:
// the API accepts any non-empty value.
func genderSchema() *openapi3.Schema {
	s := openapi3.NewStringSchema().
		WithMinLength(1).
		WithDefault(registration.DefaultGender)
	options := make([]map[string]string, 0, 2)
	for _, opt := range registration.GenderOptions() {
		options = append(options, map[string]string{"value": opt.Value, "label": opt.Label})
	}
	s.Extensions = map[string]any{"x-options": options}
	return s
}

// ruled attaches the messages a field can fail with as x-messages.
func ruled(s *openapi3.Schema, schema *registration.Schema, path string) *openapi3.SchemaRef {
	rules := schema.RulesFor(path)
	if len(rules) > 0 {
		messages := make([]string, 0, len(rules))
		for _, rule := range rules {
			messages = append(messages, rule.Message)
		}
		if s.Extensions == nil {
			s.Extensions = map[string]any{}
		}
		s.Extensions["x-messages"] = messages
	}
	return openapi3.NewSchemaRef("", s)
}

// ref points at a component and carries its value so the document validates
// without a resolving loader.
func ref(components openapi3.Schemas, name string) *openapi3.SchemaRef {
	var value *openapi3.Schema
	if component, ok := components[name]; ok && component != nil {
		value = component.Value
	}
	return openapi3.NewSchemaRef("#/components/schemas/"+name, value)
}

func jsonResponse(components openapi3.Schemas, description, schema string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{
		Value: openapi3.NewResponse().
			WithDescription(description).
			WithJSONSchemaRef(ref(components, schema)),
	}
}

func createOperation(components openapi3.Schemas, schema *registration.Schema) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = OperationCreateRegistration
	op.Summary = "Validate a registration and log it"
	op.Description = "Accepted records are logged with passwords redacted; nothing is stored or forwarded."
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(ref(components, SchemaRegistration)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusCreated, jsonResponse(components, "Registration accepted", SchemaCreated)),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Malformed JSON body"),
		}),
		openapi3.WithStatus(http.StatusUnprocessableEntity, jsonResponse(components, "Validation failed", SchemaErrors)),
	)
	if schema.CalendarCheck() {
		op.Extensions = map[string]any{"x-calendar-check": true}
	}
	return op
}

func listOperation(components openapi3.Schemas) *openapi3.Operation {
	lists := make([]any, 0, 3)
	for _, list := range []birthdate.List{birthdate.ListDay, birthdate.ListMonth, birthdate.ListYear} {
		lists = append(lists, string(list))
	}

	op := openapi3.NewOperation()
	op.OperationID = OperationListBirthdate
	op.Summary = "Date of birth option list"
	op.Parameters = openapi3.Parameters{
		{Value: openapi3.NewPathParameter("list").
			WithSchema(openapi3.NewStringSchema().WithEnum(lists...))},
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, jsonResponse(components, "Options in display order", SchemaOptionList)),
		openapi3.WithStatus(http.StatusNotFound, &openapi3.ResponseRef{
			Value: openapi3.NewResponse().WithDescription("Unknown list"),
		}),
	)
	return op
}

// MarshalJSON encodes doc as indented JSON.
func MarshalJSON(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("openapi: document is nil")
	}
	raw, err := doc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("openapi: encode json: %w", err)
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("openapi: indent json: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// MarshalYAML encodes doc as YAML. The JSON encoding is decoded into a node
// tree first so key order survives the conversion.
func MarshalYAML(doc *openapi3.T) ([]byte, error) {
	raw, err := MarshalJSON(doc)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("openapi: decode json as yaml: %w", err)
	}
	restyle(&node)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&node); err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("openapi: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// restyle drops the flow and quoting styles inherited from JSON.
func restyle(node *yaml.Node) {
	node.Style = 0
	for _, child := range node.Content {
		restyle(child)
	}
}

// Load parses and validates an exported document.
func Load(ctx context.Context, data []byte) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate document: %w", err)
	}
	return doc, nil
}
