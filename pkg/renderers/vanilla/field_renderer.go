package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/render/template"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla/components"
)

type fieldRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	partials  map[string]string
	policy    *bluemonday.Policy
	opts      render.RenderOptions

	usedComponents map[string]struct{}
}

func newFieldRenderer(templates template.TemplateRenderer, registry *components.Registry, partials map[string]string, policy *bluemonday.Policy, opts render.RenderOptions) *fieldRenderer {
	return &fieldRenderer{
		templates:      templates,
		registry:       registry,
		partials:       partials,
		policy:         policy,
		opts:           opts,
		usedComponents: make(map[string]struct{}),
	}
}

func (r *fieldRenderer) render(field model.Field) (string, error) {
	componentName := components.NameFor(field)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Path)
	}

	errs := r.opts.ErrorsFor(field.Path)
	data := components.ComponentData{
		Template:    r.templates,
		Partials:    r.partials,
		ControlID:   controlID(field.Path),
		Value:       r.valueFor(field),
		Errors:      errs,
		RenderChild: r.render,
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Path, err)
	}
	r.usedComponents[componentName] = struct{}{}

	return r.chrome(field, componentName, control.String(), errs), nil
}

func (r *fieldRenderer) valueFor(field model.Field) any {
	if value, ok := r.opts.Value(field.Path); ok {
		return value
	}
	return field.Default
}

func (r *fieldRenderer) used() []string {
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// chrome wraps the control with its label, help text and inline errors.
func (r *fieldRenderer) chrome(field model.Field, componentName, control string, errs []string) string {
	id := controlID(field.Path)
	var b strings.Builder
	b.Grow(len(control) + 256)

	b.WriteString(`<div class="`)
	b.WriteString(string(ClassField))
	b.WriteString(`" data-component="`)
	b.WriteString(html.EscapeString(componentName))
	b.WriteString(`" data-path="`)
	b.WriteString(html.EscapeString(field.Path))
	b.WriteString(`"`)
	if len(errs) > 0 {
		b.WriteString(` data-invalid="true"`)
	}
	b.WriteString(">\n")

	if label := strings.TrimSpace(field.Label); label != "" && labelOutside(componentName) {
		if componentName == components.NameGroup || componentName == components.NameRadio {
			b.WriteString(`  <span class="rf-label" id="`)
			b.WriteString(html.EscapeString(id))
			b.WriteString(`-label">`)
		} else {
			b.WriteString(`  <label class="rf-label" for="`)
			b.WriteString(html.EscapeString(id))
			b.WriteString(`">`)
		}
		b.WriteString(html.EscapeString(label))
		if field.Required {
			b.WriteString(`<span class="`)
			b.WriteString(string(ClassRequired))
			b.WriteString(`">*</span>`)
		}
		if componentName == components.NameGroup || componentName == components.NameRadio {
			b.WriteString("</span>\n")
		} else {
			b.WriteString("</label>\n")
		}
	}

	for _, line := range strings.Split(control, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString("  ")
		b.WriteString(line)
		b.WriteByte('\n')
	}

	if desc := strings.TrimSpace(field.Description); desc != "" {
		b.WriteString(`  <small class="`)
		b.WriteString(string(ClassHelp))
		b.WriteString(`">`)
		b.WriteString(r.policy.Sanitize(desc))
		b.WriteString("</small>\n")
	}

	// one container per field so aria-describedby resolves to every message
	if len(errs) > 0 {
		b.WriteString(`  <span class="`)
		b.WriteString(string(ClassError))
		b.WriteString(`" id="`)
		b.WriteString(html.EscapeString(id))
		b.WriteString(`-error" role="alert">`)
		for i, msg := range errs {
			if i > 0 {
				b.WriteString("<br>")
			}
			b.WriteString(html.EscapeString(msg))
		}
		b.WriteString("</span>\n")
	}

	b.WriteString("</div>\n")
	return b.String()
}

// labelOutside reports whether the chrome owns the label. Checkboxes render
// their label next to the box.
func labelOutside(componentName string) bool {
	return componentName != components.NameCheckbox
}

func controlID(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	return "rf-" + strings.ReplaceAll(path, ".", "-")
}
