package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
)

// NewDefaultRegistry returns a registry with the built-in controls.
func NewDefaultRegistry() *Registry {
	registry := New()
	registry.MustRegister(NameInput, Descriptor{Renderer: templateComponentRenderer(render.PartialInput)})
	registry.MustRegister(NameRadio, Descriptor{Renderer: templateComponentRenderer(render.PartialRadio)})
	registry.MustRegister(NameSelect, Descriptor{Renderer: templateComponentRenderer(render.PartialSelect)})
	registry.MustRegister(NameCheckbox, Descriptor{Renderer: templateComponentRenderer(render.PartialCheckbox)})
	registry.MustRegister(NameGroup, Descriptor{Renderer: groupRenderer})
	return registry
}

func templateComponentRenderer(partialKey string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", partialKey)
		}
		name := resolvePartial(data.Partials, partialKey)
		if name == "" {
			return fmt.Errorf("components: no template for partial %q", partialKey)
		}

		rendered, err := data.Template.RenderTemplate(name, map[string]any{
			"field":   field,
			"id":      data.ControlID,
			"value":   stringValue(data.Value),
			"checked": isChecked(data.Value),
			"invalid": len(data.Errors) > 0,
		})
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", name, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

func groupRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	if data.RenderChild == nil {
		return fmt.Errorf("components: group %q needs a child renderer", field.Path)
	}
	children := make([]string, 0, len(field.Nested))
	for _, child := range field.Nested {
		markup, err := data.RenderChild(child)
		if err != nil {
			return err
		}
		children = append(children, markup)
	}

	name := resolvePartial(data.Partials, render.PartialGroup)
	if data.Template == nil || name == "" {
		buf.WriteString(strings.Join(children, ""))
		return nil
	}
	rendered, err := data.Template.RenderTemplate(name, map[string]any{
		"field":    field,
		"id":       data.ControlID,
		"children": children,
	})
	if err != nil {
		return fmt.Errorf("components: render group %q: %w", field.Path, err)
	}
	buf.WriteString(rendered)
	return nil
}

func resolvePartial(partials map[string]string, key string) string {
	if name := strings.TrimSpace(partials[key]); name != "" {
		return name
	}
	return render.DefaultPartials()[key]
}

func stringValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "on", "1", "yes":
			return true
		}
	}
	return false
}
