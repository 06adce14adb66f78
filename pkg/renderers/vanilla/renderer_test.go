package vanilla_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
	"github.com/goliatone/go-regform/pkg/testsupport"
)

func registrationForm() model.FormModel {
	return registration.New().FormModel(testsupport.FixedNow)
}

func renderForm(t *testing.T, opts render.RenderOptions, options ...vanilla.Option) string {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(testsupport.Context(), registrationForm(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func assertContains(t *testing.T, output string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(output, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, output)
		}
	}
}

func TestRenderer_RendersEveryControl(t *testing.T) {
	output := renderForm(t, render.RenderOptions{
		Values: registration.Defaults().Values(),
	})

	assertContains(t, output,
		"<h1>Registration Form</h1>",
		`action="/register" method="POST"`,
		`<input type="text" id="rf-firstName" name="firstName" value=""`,
		`<input type="email" id="rf-email" name="email"`,
		`<input type="tel" id="rf-phoneNumber" name="phoneNumber"`,
		`<input type="password" id="rf-confirmPassword" name="confirmPassword"`,
		`name="gender" value="male" checked`,
		`<option value="" disabled selected>day</option>`,
		`<option value="" disabled selected>month</option>`,
		`<option value="2024">2024</option>`,
		`<option value="1900">1900</option>`,
		`<input type="checkbox" id="rf-marketing" name="marketing" value="on">`,
		`<button type="submit">Sign Up</button>`,
		`First Name<span class="rf-required">*</span>`,
	)
	if strings.Contains(output, "Birthday<span") {
		t.Fatalf("birthday is optional and must not carry a required marker")
	}
}

func TestRenderer_ShowsErrorsNextToFields(t *testing.T) {
	values := registration.Defaults().Values()
	values[registration.PathDOBMonth] = "2"
	values[registration.PathEmail] = "not-an-email"
	values[registration.PathPassword] = "secret"

	output := renderForm(t, render.RenderOptions{
		Values: values,
		Errors: map[string][]string{
			registration.PathFirstName:       {"First name is required"},
			registration.PathConfirmPassword: {"Passwords don't match"},
		},
		FormErrors:   []string{"Please correct the highlighted fields"},
		HiddenFields: map[string]string{render.CSRFFieldName: "tok-1"},
	})

	assertContains(t, output,
		`data-path="firstName" data-invalid="true"`,
		`<span class="rf-error" id="rf-firstName-error" role="alert">First name is required</span>`,
		`<span class="rf-error" id="rf-confirmPassword-error" role="alert">Passwords don&#39;t match</span>`,
		`<option value="2" selected>2</option>`,
		`value="not-an-email"`,
		`<input type="hidden" name="csrf_token" value="tok-1">`,
		`<li>Please correct the highlighted fields</li>`,
	)
	if strings.Contains(output, `value="secret"`) {
		t.Fatalf("password values must never be echoed back")
	}
}

func TestRenderer_GroupsEveryIssueUnderOneErrorID(t *testing.T) {
	output := renderForm(t, render.RenderOptions{
		Errors: map[string][]string{
			registration.PathPassword: {"At least 8 characters", "At least one capital letter", "At least one number"},
		},
	})

	assertContains(t, output,
		`aria-describedby="rf-password-error"`,
		`<span class="rf-error" id="rf-password-error" role="alert">At least 8 characters<br>At least one capital letter<br>At least one number</span>`,
	)
	if n := strings.Count(output, `id="rf-password-error"`); n != 1 {
		t.Fatalf("expected a single error container for password, got %d", n)
	}
}

func TestRenderer_ThemeTokensBecomeCSSVars(t *testing.T) {
	selector, err := render.NewManifestSelector("dark", render.DefaultManifest())
	if err != nil {
		t.Fatalf("selector: %v", err)
	}
	selection, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := render.ThemeConfig(selection, render.DefaultPartials(), map[string]string{"radius": "0"})

	output := renderForm(t, render.RenderOptions{Theme: cfg}, vanilla.WithDefaultStyles())
	assertContains(t, output,
		"--color-surface: #212529;",
		"--radius: 0;",
		".rf-form-page {",
	)
}

func TestRenderer_SuccessReplacesForm(t *testing.T) {
	output := renderForm(t, render.RenderOptions{Success: `Thanks for registering!<script>alert(1)</script>`})

	assertContains(t, output, `<p class="rf-success" role="status">Thanks for registering!</p>`)
	if strings.Contains(output, "<form") || strings.Contains(output, "<script>") {
		t.Fatalf("success page must drop the form and unsafe markup:\n%s", output)
	}
}

func TestRenderer_SanitisesDescriptions(t *testing.T) {
	form := registrationForm()
	form.Fields[0].Description = `Your <b>given</b> name<img src=x onerror=alert(1)>`

	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(context.Background(), form, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(output), "<b>given</b>") || strings.Contains(string(output), "onerror") {
		t.Fatalf("description not sanitised:\n%s", output)
	}
}

func TestRenderer_WithTemplateRenderer(t *testing.T) {
	stub := &stubTemplateRenderer{
		renderTemplateFunc: func(name string, data any, out ...io.Writer) (string, error) {
			if name == "form" {
				return "custom-output", nil
			}
			return "<component />", nil
		},
	}

	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(stub))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(context.Background(), registrationForm(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(output) != "custom-output" {
		t.Fatalf("unexpected output %q", output)
	}
	if stub.calls == 0 {
		t.Fatalf("expected component templates to be rendered through the stub")
	}
}

type stubTemplateRenderer struct {
	renderTemplateFunc func(name string, data any, out ...io.Writer) (string, error)
	calls              int
}

func (s *stubTemplateRenderer) Render(name string, data any, out ...io.Writer) (string, error) {
	return s.RenderTemplate(name, data, out...)
}

func (s *stubTemplateRenderer) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	s.calls++
	return s.renderTemplateFunc(name, data, out...)
}

func (s *stubTemplateRenderer) RenderString(string, any, ...io.Writer) (string, error) {
	return "", nil
}

func (s *stubTemplateRenderer) RegisterFilter(string, func(any, any) (any, error)) error {
	return nil
}

func (s *stubTemplateRenderer) GlobalContext(any) error {
	return nil
}
