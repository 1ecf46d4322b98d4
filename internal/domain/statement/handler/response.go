package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/FACorreiaa/statement-processor/internal/domain/statement/bank"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/model"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/parser"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/repository"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/service"
	"github.com/FACorreiaa/statement-processor/internal/domain/statement/sniffer"
)

const (
	msgProcessed     = "File processed successfully"
	msgFailed        = "Failed to process file"
	msgBankNotFound  = "BANK_NOT_FOUND"
	msgBothRequired  = "Bank Name and Resource URL are required!"
	msgBankRequired  = "Bank Name is required!"
	msgURLRequired   = "Resource URL is required!"
	msgFileType      = "Only Excel or CSV files (.xls, .xlsx, .csv) are allowed!"
	msgTooLarge      = "File too large"
	msgRunNotFound   = "Statement run not found"
	msgInvalidRunID  = "Invalid run id"
	msgInvalidLimit  = "limit must be a positive integer"
	msgNoPersistence = "Run history is not enabled"
)

// SuccessResponse is the body of a processed statement
type SuccessResponse struct {
	Success       bool          `json:"success"`
	Message       string        `json:"message"`
	ProcessedData *model.Result `json:"processed_data"`
}

// ErrorResponse is the body of a rejected request
type ErrorResponse struct {
	Flag    int    `json:"flag"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

// NotFoundResponse is the body for unknown routes
type NotFoundResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	body := ErrorResponse{Flag: 0, Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	writeJSON(w, status, body)
}

// statusFor maps a conversion error onto an HTTP status and message
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, bank.ErrUnsupportedBank):
		return http.StatusBadRequest, msgBankNotFound
	case errors.Is(err, service.ErrResourceTooLarge):
		return http.StatusRequestEntityTooLarge, msgTooLarge
	case errors.Is(err, service.ErrFetchFailed):
		return http.StatusBadGateway, msgFailed
	case errors.Is(err, bank.ErrBankMismatch),
		errors.Is(err, sniffer.ErrHeaderNotFound),
		errors.Is(err, sniffer.ErrDateColumnMissing),
		errors.Is(err, parser.ErrUnknownFormat),
		errors.Is(err, parser.ErrEmptyWorkbook):
		return http.StatusUnprocessableEntity, msgFailed
	case errors.Is(err, repository.ErrRunNotFound):
		return http.StatusNotFound, msgRunNotFound
	case errors.Is(err, service.ErrPersistenceDisabled):
		return http.StatusNotFound, msgNoPersistence
	default:
		return http.StatusInternalServerError, msgFailed
	}
}

// missingMessage names what a request left out
func missingMessage(hasBank, hasResource bool) string {
	switch {
	case !hasBank && !hasResource:
		return msgBothRequired
	case !hasBank:
		return msgBankRequired
	default:
		return msgURLRequired
	}
}
