package tui

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"

	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
)

// Name is the registry identifier of the terminal renderer.
const Name = "tui"

const selectPageSize = 12

var _ render.Renderer = (*Renderer)(nil)

// Renderer implements render.Renderer for terminal-driven sessions. Each
// Render call runs one prompt session against a fresh form.Controller and
// serializes the accepted record.
type Renderer struct {
	driver         PromptDriver
	outputFormat   OutputFormat
	schema         *registration.Schema
	controllerOpts []form.Option
	logger         *zap.Logger
	theme          Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
		theme:        DefaultTheme(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.schema == nil {
		r.schema = registration.New()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render prompts for every field of form until the record is accepted and
// returns the serialized submission. Passwords are redacted in the output.
func (r *Renderer) Render(ctx context.Context, fm model.FormModel, opts render.RenderOptions) ([]byte, error) {
	submission, err := r.Prompt(ctx, fm, opts)
	if err != nil {
		return nil, err
	}
	return r.Serialize(submission)
}

// Prompt runs a session with a controller seeded from opts.Values.
func (r *Renderer) Prompt(ctx context.Context, fm model.FormModel, opts render.RenderOptions) (form.Submission, error) {
	initial, err := prefill(opts.Values)
	if err != nil {
		return form.Submission{}, err
	}
	controllerOpts := append([]form.Option{
		form.WithLogger(r.logger),
		form.WithInitial(initial),
	}, r.controllerOpts...)
	ctrl := form.New(r.schema, controllerOpts...)
	return r.Run(ctx, ctrl, fm, opts.Errors)
}

// Run drives ctrl through the prompts. Invalid answers are re-asked inline;
// after a rejected submit only the fields carrying errors are asked again.
func (r *Renderer) Run(ctx context.Context, ctrl *form.Controller, fm model.FormModel, existing map[string][]string) (form.Submission, error) {
	if ctx == nil {
		return form.Submission{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return form.Submission{}, err
	}
	if ctrl == nil {
		return form.Submission{}, errors.New("tui: controller is nil")
	}

	if fm.Title != "" {
		if err := r.driver.Info(ctx, r.theme.InfoPrefix+fm.Title); err != nil {
			return form.Submission{}, err
		}
	}
	for _, path := range sortedKeys(existing) {
		for _, msg := range existing[path] {
			if err := r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, path, msg)); err != nil {
				return form.Submission{}, err
			}
		}
	}

	fields := leaves(fm)
	pending := fields
	for {
		for _, field := range pending {
			if err := r.promptField(ctx, ctrl, field); err != nil {
				return form.Submission{}, err
			}
		}

		submission := ctrl.Submit()
		if submission.Accepted() {
			r.logger.Debug("tui session accepted", zap.String("submission_id", submission.ID))
			return submission, nil
		}

		errs := submission.Result.Errors
		pending = pending[:0:0]
		for _, field := range fields {
			if errs.Has(field.Path) {
				pending = append(pending, field)
			}
		}
		if len(pending) == 0 {
			return submission, fmt.Errorf("tui: submit rejected for %s", strings.Join(errs.Paths(), ", "))
		}
		for _, path := range errs.Paths() {
			if err := r.driver.Info(ctx, r.theme.ErrorPrefix+errs.First(path)); err != nil {
				return form.Submission{}, err
			}
		}
	}
}

func (r *Renderer) promptField(ctx context.Context, ctrl *form.Controller, field model.Field) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		current, _ := ctrl.Data().Get(field.Path)
		value, err := r.ask(ctx, field, current)
		if err != nil {
			return err
		}
		if err := ctrl.Change(field.Path, value); err != nil {
			return fmt.Errorf("tui: %w", err)
		}
		status := ctrl.Field(field.Path)
		if status.State != form.FieldInvalid {
			return nil
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+status.Message); err != nil {
			return err
		}
	}
}

func (r *Renderer) ask(ctx context.Context, field model.Field, current string) (string, error) {
	message := r.theme.PromptPrefix + promptLabel(field)
	help := field.Description

	switch field.Input {
	case model.InputPassword:
		return r.driver.Password(ctx, InputConfig{Message: message, Help: help})
	case model.InputCheckbox:
		checked, _ := strconv.ParseBool(current)
		answer, err := r.driver.Confirm(ctx, ConfirmConfig{Message: message, Default: checked, Help: help})
		if err != nil {
			return "", err
		}
		return strconv.FormatBool(answer), nil
	case model.InputRadio, model.InputSelect:
		options := enabledOptions(field.Options)
		if len(options) == 0 {
			return "", fmt.Errorf("%w: %s has no options", ErrUnknownField, field.Path)
		}
		labels := make([]string, len(options))
		defaultIndex := 0
		for i, opt := range options {
			labels[i] = opt.Label
			if opt.Value == current {
				defaultIndex = i
			}
		}
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      message,
			Options:      labels,
			DefaultIndex: defaultIndex,
			Help:         help,
			PageSize:     selectPageSize,
		})
		if err != nil {
			return "", err
		}
		if idx < 0 || idx >= len(options) {
			return "", fmt.Errorf("tui: %s: selection %d out of range", field.Path, idx)
		}
		return options[idx].Value, nil
	case model.InputText, model.InputEmail, model.InputTel:
		return r.driver.Input(ctx, InputConfig{Message: message, Default: current, Help: help})
	default:
		return "", fmt.Errorf("%w: %s (%s)", ErrUnknownField, field.Path, field.Input)
	}
}

// Serialize writes the accepted record in the configured output format.
func (r *Renderer) Serialize(submission form.Submission) ([]byte, error) {
	data := submission.Result.Data.Redacted()
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		values.Set("id", submission.ID)
		for _, path := range registration.Paths() {
			value, _ := data.Get(path)
			values.Set(path, value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var buf bytes.Buffer
		w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "id\t%s\n", submission.ID)
		for _, path := range registration.Paths() {
			value, _ := data.Get(path)
			fmt.Fprintf(w, "%s\t%s\n", path, value)
		}
		if err := w.Flush(); err != nil {
			return nil, fmt.Errorf("tui: write summary: %w", err)
		}
		return buf.Bytes(), nil
	default:
		payload := struct {
			ID   string                `json:"id"`
			Data registration.FormData `json:"data"`
		}{ID: submission.ID, Data: data}
		out, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("tui: encode submission: %w", err)
		}
		return append(out, '\n'), nil
	}
}

// leaves flattens groups so each bound control is prompted once. Children of
// a group borrow the group label.
func leaves(fm model.FormModel) []model.Field {
	var out []model.Field
	for _, field := range fm.Fields {
		if len(field.Nested) == 0 {
			out = append(out, field)
			continue
		}
		for _, child := range field.Nested {
			if child.Label == "" {
				child.Label = field.Label
				if child.Placeholder != "" {
					child.Label = fmt.Sprintf("%s (%s)", field.Label, child.Placeholder)
				}
			}
			out = append(out, child)
		}
	}
	return out
}

func promptLabel(field model.Field) string {
	label := field.Label
	if label == "" {
		label = field.Path
	}
	if field.Required {
		label += " *"
	}
	return label
}

func enabledOptions(options []model.Option) []model.Option {
	out := make([]model.Option, 0, len(options))
	for _, opt := range options {
		if !opt.Disabled {
			out = append(out, opt)
		}
	}
	return out
}

func prefill(values map[string]any) (registration.FormData, error) {
	data := registration.Defaults()
	for _, path := range sortedKeys(values) {
		var raw string
		switch v := values[path].(type) {
		case nil:
			continue
		case string:
			raw = v
		case bool:
			raw = strconv.FormatBool(v)
		default:
			raw = fmt.Sprint(v)
		}
		if err := data.Set(path, raw); err != nil {
			return data, fmt.Errorf("tui: prefill: %w", err)
		}
	}
	return data, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
