// Package regform is the top-level entry point for the registration form. It
// re-exports the pieces most callers need so a single import covers
// rendering, validation and the embedded assets.
package regform

import (
	"context"
	"io/fs"

	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// FormData is the registration record.
type FormData = registration.FormData

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the registration page with the vanilla renderer.
func GenerateHTML(ctx context.Context, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      vanilla.Name,
		RenderOptions: opts,
	})
}

// Validate runs the default schema over data.
func Validate(data FormData, options ...registration.Option) registration.Result {
	return registration.New(options...).Validate(data)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}

// EmbeddedTemplates exposes the built-in vanilla templates so callers can
// copy and override them.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// AssetsFS exposes the stylesheet served under /assets.
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/", http.FileServerFS(regform.AssetsFS())),
//	)
func AssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
