package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSchema injects the registration schema the form model is built from.
func WithSchema(schema *registration.Schema) Option {
	return func(o *Orchestrator) {
		o.schema = schema
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithThemeSelector supplies the selector used to resolve themes per request.
func WithThemeSelector(selector render.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithDefaultTheme sets the theme and variant used when a request names none.
func WithDefaultTheme(name, variant string) Option {
	return func(o *Orchestrator) {
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeFallbacks overrides the partials used when a theme omits one.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithTokenOverrides sets tokens that win over every theme value.
func WithTokenOverrides(tokens map[string]string) Option {
	return func(o *Orchestrator) {
		o.tokenOverrides = tokens
	}
}

// WithClock sets the clock the date option lists derive from.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// WithFormOptions overrides the form endpoint, method or oldest year.
func WithFormOptions(opts registration.FormOptions) Option {
	return func(o *Orchestrator) {
		o.formOptions = opts
	}
}

// WithLogger sets the orchestrator logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates the pipeline from schema to rendered output. It
// applies sensible defaults (vanilla renderer, built-in theme) while remaining
// open to dependency injection for advanced callers.
type Orchestrator struct {
	schema          *registration.Schema
	registry        *render.Registry
	defaultRenderer string
	themeSelector   render.ThemeSelector
	themeName       string
	themeVariant    string
	themeFallbacks  map[string]string
	tokenOverrides  map[string]string
	formOptions     registration.FormOptions
	now             func() time.Time
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations so callers
// can start with a single constructor call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		now:             time.Now,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes a single render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select the theme. Blank values use the
	// orchestrator defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries per-request instructions such as prefilled values
	// or validation errors. A Theme set here is passed through untouched.
	RenderOptions render.RenderOptions
}

// Form builds the form model. Option lists are regenerated on every call.
func (o *Orchestrator) Form() model.FormModel {
	return o.schema.FormModel(o.now(), o.formOptions)
}

// Schema returns the schema forms are built from.
func (o *Orchestrator) Schema() *registration.Schema {
	return o.schema
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Generate builds the form model, resolves the theme and renders the result
// with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := o.initialiseErr; err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.themeConfig(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	form := o.Form()
	output, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	o.logger.Debug("form rendered",
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(output)),
	)
	return output, nil
}

func (o *Orchestrator) themeConfig(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.themeName
	}
	if variant == "" {
		variant = o.themeVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.ThemeConfig(selection, o.themeFallbacks, o.tokenOverrides), nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	renderer, err := o.registry.Resolve(name, o.defaultRenderer)
	if err == nil {
		return renderer, nil
	}
	if name != "" {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	renderer, err = o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.schema == nil {
		o.schema = registration.New()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = render.DefaultPartials()
	}
	if o.themeSelector == nil {
		selector, err := render.NewManifestSelector("", render.DefaultManifest())
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default theme: %w", err)
			return
		}
		o.themeSelector = selector
	}
}
