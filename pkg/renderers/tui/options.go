package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/registration"
)

// OutputFormat controls how the accepted record is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a config value onto an OutputFormat. Blank means JSON.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case "", OutputFormatJSON:
		return OutputFormatJSON, true
	case OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	default:
		return "", false
	}
}

// Theme captures optional prefixes applied to printed messages.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	ErrorPrefix  string
}

// DefaultTheme is used when WithTheme is not supplied.
func DefaultTheme() Theme {
	return Theme{ErrorPrefix: "✗ ", InfoPrefix: "› "}
}

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSchema sets the schema every prompt session validates against.
func WithSchema(schema *registration.Schema) Option {
	return func(r *Renderer) {
		if schema != nil {
			r.schema = schema
		}
	}
}

// WithControllerOptions forwards options to the controller built per session.
func WithControllerOptions(opts ...form.Option) Option {
	return func(r *Renderer) {
		r.controllerOpts = append(r.controllerOpts, opts...)
	}
}

// WithLogger sets the logger used for session events and the default
// completion callback.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
