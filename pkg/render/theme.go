package render

import (
	"fmt"
	"path"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
)

// DefaultThemeName is the built-in theme shipped with the HTML renderer.
const DefaultThemeName = "regform"

// Partial keys a theme may override. Values are template names relative to the
// renderer's template root, without extension.
const (
	PartialForm     = "forms.form"
	PartialInput    = "forms.input"
	PartialRadio    = "forms.radio"
	PartialSelect   = "forms.select"
	PartialCheckbox = "forms.checkbox"
	PartialGroup    = "forms.group"
)

// DefaultPartials maps every partial key to the built-in template.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialForm:     "form",
		PartialInput:    "partials/input",
		PartialRadio:    "partials/radio",
		PartialSelect:   "partials/select",
		PartialCheckbox: "partials/checkbox",
		PartialGroup:    "partials/group",
	}
}

// ThemeSelector resolves a theme and variant into a go-theme selection.
type ThemeSelector interface {
	Select(name, variant string, opts ...theme.QueryOption) (*theme.Selection, error)
}

// ManifestSelector selects among a fixed set of manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers every manifest with a go-theme registry, which
// rejects malformed or duplicate manifests, and keeps them for selection. The
// first manifest becomes the default theme.
func NewManifestSelector(defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	selector := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultVariant: strings.TrimSpace(defaultVariant),
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("render: register theme %q: %w", manifest.Name, err)
		}
		selector.manifests[manifest.Name] = manifest
		if selector.defaultTheme == "" {
			selector.defaultTheme = manifest.Name
		}
	}
	if selector.defaultTheme == "" {
		return nil, fmt.Errorf("render: at least one theme manifest is required")
	}
	return selector, nil
}

// Select returns the named theme. Blank names fall back to the defaults.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = s.defaultTheme
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("render: theme %q not found", name)
	}

	variant = strings.TrimSpace(variant)
	if variant == "" {
		variant = s.defaultVariant
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("render: theme %q has no variant %q", name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// Themes lists the selectable theme names.
func (s *ManifestSelector) Themes() []string {
	names := make([]string, 0, len(s.manifests))
	for name := range s.manifests {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultManifest is the built-in theme. Tokens become CSS custom properties
// in the HTML renderer.
func DefaultManifest() *theme.Manifest {
	return &theme.Manifest{
		Name:    DefaultThemeName,
		Version: "1.0.0",
		Tokens: map[string]string{
			"color-primary":   "#0d6efd",
			"color-error":     "#dc3545",
			"color-surface":   "#ffffff",
			"color-text":      "#212529",
			"radius":          "0.375rem",
			"font-family":     "system-ui, sans-serif",
			"form-max-width":  "40rem",
			"required-marker": "#dc3545",
		},
		Templates: DefaultPartials(),
		Variants: map[string]theme.Variant{
			"dark": {
				Tokens: map[string]string{
					"color-surface": "#212529",
					"color-text":    "#f8f9fa",
				},
			},
		},
	}
}

// ThemeConfig flattens a selection into renderer configuration: variant tokens
// and templates override the base manifest, fallbacks fill partials the theme
// does not define, and overrides win over every token.
func ThemeConfig(selection *theme.Selection, fallbacks, overrides map[string]string) *theme.RendererConfig {
	if selection == nil || selection.Manifest == nil {
		return nil
	}
	manifest := selection.Manifest
	variant := manifest.Variants[selection.Variant]

	tokens := mergeStrings(manifest.Tokens, variant.Tokens, overrides)
	partials := mergeStrings(fallbacks, manifest.Templates, variant.Templates)

	cssVars := make(map[string]string, len(tokens))
	for key, value := range tokens {
		cssVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	return &theme.RendererConfig{
		Theme:    selection.Theme,
		Variant:  selection.Variant,
		Tokens:   tokens,
		CSSVars:  cssVars,
		Partials: partials,
		AssetURL: assetResolver(manifest.Assets, variant.Assets),
	}
}

func assetResolver(base, override theme.Assets) func(string) string {
	prefix := strings.TrimSpace(override.Prefix)
	if prefix == "" {
		prefix = strings.TrimSpace(base.Prefix)
	}
	files := mergeStrings(base.Files, override.Files)
	return func(key string) string {
		file, ok := files[key]
		if !ok || strings.TrimSpace(file) == "" {
			return ""
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return path.Join(prefix, file)
	}
}

func mergeStrings(layers ...map[string]string) map[string]string {
	out := make(map[string]string)
	for _, layer := range layers {
		for key, value := range layer {
			key = strings.TrimSpace(key)
			if key == "" {
				continue
			}
			out[key] = value
		}
	}
	return out
}
