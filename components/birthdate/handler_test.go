package birthdate

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type handlerResponse struct {
	Data []Option `json:"data"`
}

func fixedClock() time.Time {
	return time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)
}

func TestNewHandler_YearList(t *testing.T) {
	h := NewHandler(WithClock(fixedClock))

	req := httptest.NewRequest(http.MethodGet, "/api/birthdate/year", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	res := rec.Result()
	if res.StatusCode != http.StatusOK {
		t.Fatalf("expected status 200, got %d", res.StatusCode)
	}
	if ct := strings.TrimSpace(res.Header.Get("Content-Type")); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("expected JSON content-type, got %q", ct)
	}

	var payload handlerResponse
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 125 {
		t.Fatalf("expected 125 years, got %d", len(payload.Data))
	}
	if payload.Data[0].Value != "2024" {
		t.Fatalf("unexpected first option: %#v", payload.Data[0])
	}
}

func TestNewHandler_QueryParamSelectsList(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/birthdate?list=month", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 12 {
		t.Fatalf("expected 12 months, got %d", len(payload.Data))
	}
}

func TestNewHandler_MinYearOverride(t *testing.T) {
	h := NewHandler(WithClock(fixedClock), WithMinYear(2020))

	req := httptest.NewRequest(http.MethodGet, "/api/birthdate/year", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var payload handlerResponse
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Data) != 5 {
		t.Fatalf("expected 5 years, got %d", len(payload.Data))
	}
}

func TestNewHandler_UnknownList(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/birthdate/week", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestNewHandler_GuardRejects(t *testing.T) {
	h := NewHandler(WithGuard(func(r *http.Request) error {
		return StatusError{Code: http.StatusUnauthorized}
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/birthdate/day", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", rec.Code)
	}
}

func TestNewHandler_MethodNotAllowed(t *testing.T) {
	h := NewHandler()

	req := httptest.NewRequest(http.MethodPost, "/api/birthdate/day", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
}
