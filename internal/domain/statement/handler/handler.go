// Package handler exposes the statement processor over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/service"
)

// multipartOverhead leaves room for form fields around the file part
const multipartOverhead = 64 << 10

// StatementService is the part of service.StatementService the handler uses
type StatementService interface {
	Convert(ctx context.Context, req service.ConvertRequest) (*model.Result, error)
	GetRun(ctx context.Context, id uuid.UUID) (*repository.Run, error)
	ListRuns(ctx context.Context, limit int) ([]repository.Run, error)
}

// maxListLimit caps ?limit on the run listing
const maxListLimit = 100

// StatementHandler serves the conversion endpoints
type StatementHandler struct {
	svc            StatementService
	maxUploadBytes int64
	logger         *slog.Logger
}

func NewStatementHandler(svc StatementService, maxUploadBytes int64, logger *slog.Logger) *StatementHandler {
	return &StatementHandler{
		svc:            svc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger,
	}
}

type convertBody struct {
	Bank        string `json:"bank"`
	ResourceURL string `json:"resource_url"`
}

// Convert handles POST /api/bank_statement_processor. The statement is
// either a multipart file in the resource_url field or a URL to fetch.
func (h *StatementHandler) Convert(w http.ResponseWriter, r *http.Request) {
	req, status, err := h.decodeConvert(w, r)
	if err != nil {
		writeError(w, status, err.Error(), nil)
		return
	}

	hasBank := strings.TrimSpace(req.Bank) != ""
	hasResource := len(req.Data) > 0 || strings.TrimSpace(req.ResourceURL) != ""
	if !hasBank && !hasResource {
		writeError(w, http.StatusBadRequest, missingMessage(hasBank, hasResource), nil)
		return
	}

	result, err := h.svc.Convert(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrMissingInput) {
			writeError(w, http.StatusBadRequest, missingMessage(hasBank, hasResource), nil)
			return
		}
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.logger.Error("statement conversion failed",
				slog.String("bank", req.Bank),
				slog.String("request_id", RequestIDFrom(r.Context())),
				slog.String("subject", SubjectFrom(r.Context())),
				slog.Any("error", err),
			)
		}
		writeError(w, status, msg, err)
		return
	}

	writeJSON(w, http.StatusOK, SuccessResponse{
		Success:       true,
		Message:       msgProcessed,
		ProcessedData: result,
	})
}

// GetRun handles GET /api/bank_statement_runs/{id}
func (h *StatementHandler) GetRun(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidRunID, err)
		return
	}

	run, err := h.svc.GetRun(r.Context(), id)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg, nil)
		return
	}

	body := struct {
		*repository.Run
		Result json.RawMessage `json:"result,omitempty"`
	}{Run: run}
	if len(run.Result) > 0 {
		body.Result = run.Result
	}
	writeJSON(w, http.StatusOK, body)
}

// ListRuns handles GET /api/bank_statement_runs?limit=N
func (h *StatementHandler) ListRuns(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, msgInvalidLimit, nil)
			return
		}
		limit = min(n, maxListLimit)
	}

	runs, err := h.svc.ListRuns(r.Context(), limit)
	if err != nil {
		status, msg := statusFor(err)
		writeError(w, status, msg, nil)
		return
	}
	if runs == nil {
		runs = []repository.Run{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// Health handles GET /healthz
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers unknown routes
func NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, NotFoundResponse{
		Success: false,
		Message: "Not Found - " + r.URL.RequestURI(),
	})
}

func (h *StatementHandler) decodeConvert(w http.ResponseWriter, r *http.Request) (service.ConvertRequest, int, error) {
	var req service.ConvertRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
		if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				return req, http.StatusRequestEntityTooLarge, errors.New(msgTooLarge)
			}
			return req, http.StatusBadRequest, errors.New("invalid multipart form")
		}
		req.Bank = r.FormValue("bank")

		file, header, err := r.FormFile("resource_url")
		if errors.Is(err, http.ErrMissingFile) {
			req.ResourceURL = r.FormValue("resource_url")
			return req, 0, nil
		}
		if err != nil {
			return req, http.StatusBadRequest, errors.New("invalid file upload")
		}
		defer file.Close()

		if !parser.IsAllowedExtension(header.Filename) {
			return req, http.StatusBadRequest, errors.New(msgFileType)
		}
		if header.Size > h.maxUploadBytes {
			return req, http.StatusRequestEntityTooLarge, errors.New(msgTooLarge)
		}
		data, err := io.ReadAll(file)
		if err != nil {
			return req, http.StatusBadRequest, errors.New("invalid file upload")
		}
		req.Data = data
		req.Filename = header.Filename
		req.ContentType = header.Header.Get("Content-Type")

	default:
		var body convertBody
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, multipartOverhead)).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
			return req, http.StatusBadRequest, errors.New("invalid request body")
		}
		req.Bank = body.Bank
		req.ResourceURL = body.ResourceURL
	}
	return req, 0, nil
}
