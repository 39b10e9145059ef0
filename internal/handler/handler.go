package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"inventory-billing/internal/model"

	"github.com/rs/zerolog"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  any    `json:"detail,omitempty"`
}

// statusByCode maps domain error codes to HTTP statuses.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:       http.StatusBadRequest,
	model.ErrCodeValidation:        http.StatusBadRequest,
	model.ErrCodeNotFound:          http.StatusNotFound,
	model.ErrCodeProductNotFound:   http.StatusNotFound,
	model.ErrCodeInsufficientStock: http.StatusConflict,
	model.ErrCodeConflict:          http.StatusConflict,
	model.ErrCodeUnauthenticated:   http.StatusUnauthorized,
	model.ErrCodeForbidden:         http.StatusForbidden,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// The status line is already sent; nothing useful left to report.
		return
	}
}

// writeError translates err into a status and JSON payload. Domain errors are
// returned as-is; anything else is logged and reported as an internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	log := requestLogger(r, logger)

	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		status, ok := statusByCode[domainErr.Code]
		if !ok {
			status = http.StatusInternalServerError
		}

		log.Debug().
			Str("code", domainErr.Code).
			Int("status", status).
			Msg(domainErr.Message)

		writeJSON(w, status, ErrorResponse{
			Error:   domainErr.Code,
			Message: domainErr.Message,
			Detail:  domainErr.Detail,
		})
		return
	}

	log.Error().Err(err).Str("path", r.URL.Path).Msg("handler error")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   model.ErrCodeInternalError,
		Message: "internal server error",
	})
}

// decodeJSON reads a JSON body into dst, rejecting malformed or oversized input.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return model.NewDomainError(model.ErrCodeInvalidJSON, "invalid request body")
	}
	return nil
}

func requestLogger(r *http.Request, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}
