package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/vbonduro/shishalog/internal/backup"
	"github.com/vbonduro/shishalog/internal/backupstore"
	"github.com/vbonduro/shishalog/internal/kv"
	"github.com/vbonduro/shishalog/internal/validation"
)

// maxBodySize bounds request bodies, restores included.
const maxBodySize = 10 << 20

const (
	codeValidation  = "VALIDATION_ERROR"
	codeNotFound    = "NOT_FOUND"
	codeStorageFull = "STORAGE_FULL"
	codeInvalidData = "INVALID_DATA"
	codeBadRequest  = "BAD_REQUEST"
	codeRateLimited = "RATE_LIMITED"
	codeInternal    = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("write response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorBody{Code: code, Message: message}, slog.Default())
}

func (s *Server) writeInvalid(w http.ResponseWriter, r validation.Result) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody{
		Code:    codeValidation,
		Message: "validation failed",
		Details: r,
	}, s.logger)
}

func (s *Server) writeNotFound(w http.ResponseWriter, what string) {
	writeJSON(w, http.StatusNotFound, errorBody{
		Code:    codeNotFound,
		Message: what + " not found",
	}, s.logger)
}

// writeServiceError maps a service failure to a status code. Anything that is
// not a known sentinel is logged and reported as a 500.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, msg string, args ...any) {
	switch {
	case errors.Is(err, kv.ErrStorageFull):
		s.logger.Warn(msg, append(args, "error", err)...)
		writeJSON(w, http.StatusInsufficientStorage, errorBody{Code: codeStorageFull, Message: "storage is full"}, s.logger)
	case errors.Is(err, backup.ErrInvalidBackup):
		writeJSON(w, http.StatusBadRequest, errorBody{Code: codeInvalidData, Message: err.Error()}, s.logger)
	case errors.Is(err, backupstore.ErrNotFound):
		s.writeNotFound(w, "backup")
	case errors.Is(err, backupstore.ErrInvalidKey):
		writeJSON(w, http.StatusBadRequest, errorBody{Code: codeBadRequest, Message: err.Error()}, s.logger)
	case errors.Is(err, kv.ErrInvalidData):
		s.logger.Error(msg, append(args, "error", err)...)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: codeInvalidData, Message: "stored data could not be written"}, s.logger)
	default:
		s.logger.Error(msg, append(args, "error", err)...)
		writeJSON(w, http.StatusInternalServerError, errorBody{Code: codeInternal, Message: "internal error"}, s.logger)
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("failed to decode request body: %w", err)
	}
	return nil
}

// readBody reads a raw request body, bounded by maxBodySize.
func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read request body: %w", err)
	}
	return data, nil
}

func writeBadRequest(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, codeBadRequest, "request body too large")
		return
	}
	writeError(w, http.StatusBadRequest, codeBadRequest, err.Error())
}
