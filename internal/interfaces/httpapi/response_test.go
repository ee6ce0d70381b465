package httpapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/nation-points/internal/domain/event"
	"github.com/riskibarqy/nation-points/internal/platform/logging"
	"github.com/riskibarqy/nation-points/internal/usecase"
)

func TestWriteSuccess_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected data key in success response")
	}
	if _, ok := body["error"]; ok {
		t.Fatalf("did not expect error key in success response")
	}
}

func TestWriteError_GoogleEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(context.Background(), rec, fmt.Errorf("%w: bad payload", usecase.ErrInvalidInput))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}

	if got, _ := body["apiVersion"].(string); got != "2.0" {
		t.Fatalf("expected apiVersion=2.0, got %v", body["apiVersion"])
	}
	errorObj, ok := body["error"].(map[string]any)
	if !ok {
		t.Fatalf("expected error object in response")
	}
	if got, _ := errorObj["status"].(string); got != "INVALID_ARGUMENT" {
		t.Fatalf("expected error status INVALID_ARGUMENT, got %v", errorObj["status"])
	}
}

type brokenPayload struct{}

func (brokenPayload) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func TestWriteSuccess_EncodeFailureBecomesInternalError(t *testing.T) {
	var logs bytes.Buffer
	previous := logging.Default()
	logging.SetDefault(logging.New(logging.Options{Format: logging.FormatJSON, Level: logging.LevelWarn, Writer: &logs}))
	t.Cleanup(func() { logging.SetDefault(previous) })

	rec := httptest.NewRecorder()
	writeSuccess(context.Background(), rec, http.StatusOK, map[string]any{"item": brokenPayload{}})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected status 500, got %d", rec.Code)
	}
	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("expected a JSON envelope, got %q: %v", rec.Body.String(), err)
	}
	if _, ok := body["error"].(map[string]any); !ok {
		t.Fatalf("expected error object, got %v", body)
	}
	if !strings.Contains(logs.String(), "encode response failed") {
		t.Fatalf("expected a warning to be logged, logs=%s", logs.String())
	}
}

func TestMapError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantReason string
	}{
		{name: "invalid url", err: fmt.Errorf("%w: %w", usecase.ErrInvalidInput, event.ErrInvalidURL), wantStatus: http.StatusBadRequest, wantReason: "invalidURL"},
		{name: "invalid input", err: usecase.ErrInvalidInput, wantStatus: http.StatusBadRequest, wantReason: "invalidInput"},
		{name: "empty result set", err: &usecase.EmptyResultSetError{EventID: "1", Candidates: 3}, wantStatus: http.StatusUnprocessableEntity, wantReason: "emptyResultSet"},
		{name: "transport", err: fmt.Errorf("%w: feed status=500", usecase.ErrTransportFailure), wantStatus: http.StatusBadGateway, wantReason: "transportFailure"},
		{name: "open circuit", err: fmt.Errorf("%w: %w", usecase.ErrTransportFailure, usecase.ErrDependencyUnavailable), wantStatus: http.StatusServiceUnavailable, wantReason: "dependencyUnavailable"},
		{name: "body too large", err: fmt.Errorf("%w: %w", usecase.ErrInvalidInput, &http.MaxBytesError{Limit: 10}), wantStatus: http.StatusRequestEntityTooLarge, wantReason: "payloadTooLarge"},
		{name: "deadline", err: context.DeadlineExceeded, wantStatus: http.StatusGatewayTimeout, wantReason: "deadlineExceeded"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantReason: "internalError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(context.Background(), tt.err)
			if got.HTTPStatus != tt.wantStatus || got.Reason != tt.wantReason {
				t.Fatalf("mapError()=%+v want status=%d reason=%s", got, tt.wantStatus, tt.wantReason)
			}
		})
	}
}
