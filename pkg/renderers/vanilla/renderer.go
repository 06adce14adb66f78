package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	rendertemplate "github.com/goliatone/go-regform/pkg/render/template"
	gotemplate "github.com/goliatone/go-regform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla/components"
)

// Name is the registry key of the HTML renderer.
const Name = "vanilla"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templatesDir     string
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	policy           *bluemonday.Policy
	inlineStyles     bool
	stylesheets      []string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk. Files missing on
// disk fall back to the embedded bundle.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templatesDir = strings.TrimSpace(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in control registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.components = registry
		}
	}
}

// WithSanitizer overrides the policy applied to field descriptions and the
// success message.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithDefaultStyles inlines the embedded stylesheet into the page.
func WithDefaultStyles() Option {
	return func(cfg *config) {
		cfg.inlineStyles = true
	}
}

// WithStylesheet links an external stylesheet.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		if href = strings.TrimSpace(href); href != "" {
			cfg.stylesheets = append(cfg.stylesheets, href)
		}
	}
}

// Renderer renders a form model to a standalone HTML page.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	components   *components.Registry
	policy       *bluemonday.Policy
	inlineStyles bool
	stylesheets  []string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}

	templates := cfg.templateRenderer
	if templates == nil {
		engineOpts := []gotemplate.Option{gotemplate.WithFS(cfg.templateFS)}
		if cfg.templatesDir != "" {
			if _, err := os.Stat(cfg.templatesDir); err != nil {
				return nil, fmt.Errorf("vanilla renderer: templates dir: %w", err)
			}
			engineOpts = append(engineOpts, gotemplate.WithBaseDir(cfg.templatesDir))
		}
		engine, err := gotemplate.New(engineOpts...)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		templates = engine
	}

	return &Renderer{
		templates:    templates,
		components:   cfg.components,
		policy:       cfg.policy,
		inlineStyles: cfg.inlineStyles,
		stylesheets:  cfg.stylesheets,
	}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render emits the page for form. Values prefill the controls, Errors appear
// next to the bound control and FormErrors above the fields.
func (r *Renderer) Render(_ context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	partials := render.DefaultPartials()
	var cssVars map[string]string
	stylesheets := append([]string(nil), r.stylesheets...)
	if opts.Theme != nil {
		for key, value := range opts.Theme.Partials {
			if strings.TrimSpace(value) != "" {
				partials[key] = value
			}
		}
		cssVars = opts.Theme.CSSVars
		if opts.Theme.AssetURL != nil {
			if href := opts.Theme.AssetURL("stylesheet"); href != "" {
				stylesheets = append(stylesheets, href)
			}
		}
	}

	fields := newFieldRenderer(r.templates, r.components, partials, r.policy, opts)
	rendered := make([]string, 0, len(form.Fields))
	if opts.Success == "" {
		for _, field := range form.Fields {
			markup, err := fields.render(field)
			if err != nil {
				return nil, fmt.Errorf("vanilla renderer: %w", err)
			}
			rendered = append(rendered, markup)
		}
	}
	stylesheets = append(stylesheets, r.components.Stylesheets(fields.used())...)

	method := strings.ToUpper(strings.TrimSpace(opts.Method))
	if method == "" {
		method = strings.ToUpper(form.Method)
	}
	if method == "" {
		method = "POST"
	}

	inline := ""
	if r.inlineStyles {
		inline = defaultStylesheet()
	}

	name := partials[render.PartialForm]
	result, err := r.templates.RenderTemplate(name, map[string]any{
		"form":        form,
		"method":      method,
		"fields":      rendered,
		"form_errors": opts.FormErrors,
		"hidden":      hiddenInputs(opts.HiddenFields),
		"css_vars":    cssVarsBlock(cssVars),
		"inline_css":  inline,
		"stylesheets": stylesheets,
		"success":     r.policy.Sanitize(opts.Success),
		"classes":     chromeClasses(),
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template %q: %w", name, err)
	}
	return []byte(result), nil
}

func hiddenInputs(fields map[string]string) []map[string]string {
	sorted := render.SortedHiddenFields(fields)
	out := make([]map[string]string, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]string{"name": field.Name, "value": field.Value})
	}
	return out
}

func cssVarsBlock(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		value := vars[key]
		if strings.ContainsAny(value, "<>{};") {
			continue
		}
		b.WriteString("  ")
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(value)
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func chromeClasses() map[string]string {
	return map[string]string{
		"form":    string(ClassForm),
		"header":  string(ClassHeader),
		"errors":  string(ClassErrors),
		"actions": string(ClassActions),
		"success": string(ClassSuccess),
	}
}
