package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/vanshika/muletrace/backend/internal/ingest"
	"github.com/vanshika/muletrace/backend/internal/pipeline"
)

// APIHandlers exposes the analysis HTTP surface: a single endpoint accepting
// a multipart upload whose "file" field holds the CSV batch. A raw CSV
// request body is rejected.
type APIHandlers struct {
	logger         *slog.Logger
	service        *pipeline.Service
	maxUploadBytes int64
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, service *pipeline.Service, maxUploadBytes int64) *APIHandlers {
	return &APIHandlers{logger: logger, service: service, maxUploadBytes: maxUploadBytes}
}

func (h *APIHandlers) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	requestID := requestIDFrom(r.Context())
	logger := h.logger.With("request_id", requestID)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeUploadError(w, logger, err)
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, `multipart field "file" is required`)
		return
	}
	defer file.Close()

	result, err := h.service.Analyze(r.Context(), file)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size")
			return
		}
		if ingest.IsInputError(err) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, "analysis failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"suspicious_accounts": result.Findings,
		"fraud_rings":         result.Rings,
		"summary":             result.Summary,
		"graph_data":          result.Export,
		"request_id":          requestID,
		"case_id":             result.CaseID,
	})
}

func writeUploadError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		writeError(w, http.StatusRequestEntityTooLarge, "upload exceeds the maximum allowed size")
		return
	}
	logger.Warn("multipart parse failed", "error", err)
	writeError(w, http.StatusBadRequest, "malformed multipart upload")
}

type requestIDKey struct{}

// requestIDMiddleware stamps every request with a correlation id, generating
// one when the caller did not supply X-Request-ID. Grounded on the
// uuid.New().String() request-id pattern used elsewhere in the retrieval
// pack for per-request log correlation.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"detail": msg})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
