package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"calmpath/internal/classifier"
	"calmpath/internal/emotion"
	"calmpath/internal/logging"
	"calmpath/internal/security"
	"calmpath/internal/service"

	"github.com/rs/zerolog"
)

func TestRespondWithErrorWritesStatusAndBody(t *testing.T) {
	recorder := httptest.NewRecorder()

	respondWithError(recorder, 418, "Teapot", "", nil)

	if recorder.Code != 418 {
		t.Fatalf("expected status 418, got %d", recorder.Code)
	}

	body := strings.TrimSpace(recorder.Body.String())
	if body != `{"error":"Teapot"}` {
		t.Fatalf("expected JSON error body, got %q", body)
	}
	if ct := recorder.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}
}

func TestRespondWithErrorLogsMessage(t *testing.T) {
	var buf bytes.Buffer
	original := logging.Logger()
	logging.SetLogger(zerolog.New(&buf))
	defer logging.SetLogger(original)

	recorder := httptest.NewRecorder()
	err := errors.New("boom")

	respondWithError(recorder, 500, "Internal server error", "", err)

	logOutput := buf.String()
	if !strings.Contains(logOutput, "Internal server error") {
		t.Fatalf("expected log to include user message, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "boom") {
		t.Fatalf("expected log to include error, got %q", logOutput)
	}
}

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "child not found",
			err:        fmt.Errorf("lookup: %w", service.ErrChildNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `"error":"Child not found"`,
		},
		{
			name:       "invalid emotion",
			err:        &emotion.InvalidEmotionError{Label: "bored", Allowed: emotion.Canonical},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"allowed":["happy","sad","anxious","calm","excited","frustrated","neutral"]`,
		},
		{
			name:       "upstream passes status through",
			err:        &classifier.UpstreamError{Status: http.StatusBadGateway, Message: "Bad Gateway", Hint: classifier.DefaultHint},
			wantStatus: http.StatusBadGateway,
			wantBody:   `"hint":"start the emotion classifier service`,
		},
		{
			name:       "upstream without status",
			err:        &classifier.UpstreamError{Message: "dial failed"},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `ML service error (0): dial failed`,
		},
		{
			name:       "wrapped outcome not found",
			err:        fmt.Errorf("failed to load outcome 7: %w", service.ErrOutcomeNotFound),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Outcome not found"}`,
		},
		{
			name:       "wrapped username taken",
			err:        fmt.Errorf("register: %w", service.ErrUsernameTaken),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Username already taken"}`,
		},
		{
			name:       "wrapped invalid token",
			err:        fmt.Errorf("verify: %w", security.ErrInvalidToken),
			wantStatus: http.StatusUnauthorized,
			wantBody:   `{"error":"Invalid or expired token"}`,
		},
		{
			name:       "bad credentials",
			err:        service.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   `"error":"Invalid username or password"`,
		},
		{
			name:       "unexpected",
			err:        errors.New("disk on fire"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `"error":"Internal server error"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respondWithServiceError(recorder, "test", tt.err)

			if recorder.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", recorder.Code, tt.wantStatus)
			}
			if !strings.Contains(recorder.Body.String(), tt.wantBody) {
				t.Errorf("body %q does not contain %q", recorder.Body.String(), tt.wantBody)
			}
		})
	}
}
