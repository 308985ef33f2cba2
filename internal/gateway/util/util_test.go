package util

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gradebook/internal/shared"
)

func TestHandleServiceError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"Validation Maps To 400", shared.NewValidationError("name", "name is required"), http.StatusBadRequest},
		{"Not Found Maps To 404", shared.NewNotFoundError("assessment", "ASMT_x"), http.StatusNotFound},
		{"Deadline Maps To 504", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"Upstream Maps To 503", shared.NewUpstreamError("list", errors.New("connection refused")), http.StatusServiceUnavailable},
		{"Unknown Maps To 500", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tc.err)
			if rec.Code != tc.wantStatus {
				t.Errorf("Expected status %d, got %d", tc.wantStatus, rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("Expected JSON content type, got %q", ct)
			}
		})
	}

	t.Run("Wrapped Errors Still Match", func(t *testing.T) {
		rec := httptest.NewRecorder()
		wrapped := shared.NewUpstreamError("roster", context.DeadlineExceeded)
		HandleServiceError(rec, wrapped)
		// Deadline takes precedence over the upstream wrapper.
		if rec.Code != http.StatusGatewayTimeout {
			t.Errorf("Expected 504 for wrapped deadline, got %d", rec.Code)
		}
	})
}

func TestExtractToken(t *testing.T) {
	t.Run("Valid Bearer Header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")
		token, err := ExtractToken(r)
		if err != nil || token != "abc123" {
			t.Errorf("Expected abc123, got %q (err %v)", token, err)
		}
	})

	t.Run("Case Insensitive Scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "bearer abc123")
		if _, err := ExtractToken(r); err != nil {
			t.Errorf("Expected lowercase scheme to be accepted, got %v", err)
		}
	})

	t.Run("Missing Header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("Expected error for missing header")
		}
	})

	t.Run("Malformed Header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("Expected error for malformed header")
		}
	})
}
