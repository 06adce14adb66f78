package server

import (
	"context"
	"encoding/json"
	"net/http"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/internal/metrics"
	"github.com/goliatone/go-regform/pkg/form"
	"github.com/goliatone/go-regform/pkg/orchestrator"
	"github.com/goliatone/go-regform/pkg/registration"
	"github.com/goliatone/go-regform/pkg/render"
	"github.com/goliatone/go-regform/pkg/renderers/vanilla"
)

// SuccessMessage replaces the form after an accepted HTML submit.
const SuccessMessage = "Thanks for signing up!"

func (s *Server) handleForm(w http.ResponseWriter, r *http.Request) {
	token := s.ensureCSRF(w, r)
	s.renderForm(w, r, http.StatusOK, render.RenderOptions{
		Values:       registration.Defaults().Values(),
		HiddenFields: render.MergeHiddenFields(nil, render.CSRFToken("", token)),
	})
}

func (s *Server) handleFormSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form payload", http.StatusBadRequest)
		return
	}
	if !s.validCSRF(r) {
		http.Error(w, "invalid csrf token", http.StatusForbidden)
		return
	}
	token := s.ensureCSRF(w, r)
	hidden := render.MergeHiddenFields(nil, render.CSRFToken("", token))

	data := registration.FromValues(r.PostForm)
	submission, err := s.submit(r.Context(), metrics.SurfaceHTML, data)
	if err != nil {
		s.logger.Error("submit failed", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if submission.Accepted() {
		s.renderForm(w, r, http.StatusOK, render.RenderOptions{
			Success:      SuccessMessage,
			HiddenFields: hidden,
		})
		return
	}

	mapping := render.MapErrorPayload(s.orch.Form(), submission.Result.Errors.Messages())
	s.renderForm(w, r, http.StatusUnprocessableEntity, render.RenderOptions{
		Values:       echoValues(data),
		Errors:       mapping.Fields,
		FormErrors:   mapping.Form,
		HiddenFields: hidden,
	})
}

func (s *Server) handleAPISubmit(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	data, err := registration.DecodeJSON(body)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	submission, err := s.submit(r.Context(), metrics.SurfaceAPI, data)
	if err != nil {
		s.logger.Error("submit failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
		return
	}
	if !submission.Accepted() {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"errors": submission.Result.Errors.Messages(),
		})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"id": submission.ID})
}

// submit runs one controller through a full submit inside a span.
func (s *Server) submit(ctx context.Context, surface string, data registration.FormData) (form.Submission, error) {
	_, span := s.tracer.Start(ctx, "registration.submit",
		trace.WithAttributes(attribute.String("regform.surface", surface)))
	defer span.End()

	ctrl := s.controller(surface)
	if err := ctrl.Fill(data); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fill")
		return form.Submission{}, err
	}
	submission := ctrl.Submit()

	span.SetAttributes(
		attribute.Bool("regform.accepted", submission.Accepted()),
		attribute.StringSlice("regform.invalid_fields", submission.Result.Errors.Paths()),
	)
	if submission.Accepted() {
		span.SetAttributes(attribute.String("regform.submission_id", submission.ID))
	}
	return submission, nil
}

func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, status int, opts render.RenderOptions) {
	query := r.URL.Query()
	renderer, err := s.orch.Registry().Resolve(s.renderer, vanilla.Name)
	if err != nil {
		s.logger.Error("resolve renderer", zap.Error(err))
		http.Error(w, "renderer unavailable", http.StatusInternalServerError)
		return
	}
	req := orchestrator.Request{
		Renderer:      renderer.Name(),
		ThemeName:     query.Get("theme"),
		ThemeVariant:  query.Get("variant"),
		RenderOptions: opts,
	}

	output, err := s.orch.Generate(r.Context(), req)
	if err != nil {
		s.logger.Error("render form", zap.Error(err))
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	s.metrics.IncrementRenders(renderer.Name())

	w.Header().Set("Content-Type", renderer.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(output); err != nil {
		s.logger.Debug("write response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
