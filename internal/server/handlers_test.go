package server

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vanshika/muletrace/backend/internal/pipeline"
)

const triangleCSV = `transaction_id,sender_id,receiver_id,amount,timestamp
T1,A,B,100,2024-01-01T00:00:00Z
T2,B,C,100,2024-01-01T01:00:00Z
T3,C,A,100,2024-01-01T02:00:00Z
`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func multipartRequest(t *testing.T, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", "batch.csv")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := part.Write([]byte(csv)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestHandleAnalyzeHappyPath(t *testing.T) {
	svc := pipeline.New(discardLogger())
	h := NewAPIHandlers(discardLogger(), svc, 1<<20)

	rec := httptest.NewRecorder()
	requestIDMiddleware(http.HandlerFunc(h.handleAnalyze)).ServeHTTP(rec, multipartRequest(t, triangleCSV))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["request_id"] == "" {
		t.Fatalf("expected a request id in the response")
	}
	rings, ok := payload["fraud_rings"].([]any)
	if !ok || len(rings) != 1 {
		t.Fatalf("expected exactly one ring in fraud_rings, got %v", payload["fraud_rings"])
	}
	if _, ok := payload["suspicious_accounts"].([]any); !ok {
		t.Fatalf("expected a suspicious_accounts array in the response, got %v", payload["suspicious_accounts"])
	}
	if _, ok := payload["summary"].(map[string]any); !ok {
		t.Fatalf("expected a summary object in the response, got %v", payload["summary"])
	}
	if _, ok := payload["graph_data"].(map[string]any); !ok {
		t.Fatalf("expected a graph_data object in the response, got %v", payload["graph_data"])
	}
}

func TestHandleAnalyzeRejectsMissingFile(t *testing.T) {
	svc := pipeline.New(discardLogger())
	h := NewAPIHandlers(discardLogger(), svc, 1<<20)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("not_file", "irrelevant")
	w.Close()

	req := httptest.NewRequest(http.MethodPost, "/analyze", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())

	rec := httptest.NewRecorder()
	h.handleAnalyze(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleAnalyzeRejectsMalformedCSV(t *testing.T) {
	svc := pipeline.New(discardLogger())
	h := NewAPIHandlers(discardLogger(), svc, 1<<20)

	rec := httptest.NewRecorder()
	h.handleAnalyze(rec, multipartRequest(t, "not,a,valid,header\n1,2,3,4\n"))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed input, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestHandleAnalyzeRejectsWrongMethod(t *testing.T) {
	svc := pipeline.New(discardLogger())
	h := NewAPIHandlers(discardLogger(), svc, 1<<20)

	req := httptest.NewRequest(http.MethodGet, "/analyze", nil)
	rec := httptest.NewRecorder()
	h.handleAnalyze(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
