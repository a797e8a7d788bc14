package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidtube/internal/apperr"
	"vidtube/internal/logging"
)

// Error codes not tied to an apperr kind.
const (
	ErrCodeRateLimited = "RATE_LIMITED"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// ErrorResponse represents the standard error response format
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error code and message
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		// Headers are already sent; nothing useful to do on failure.
		_ = json.NewEncoder(w).Encode(data)
	}
}

// WriteError writes an error response:
// {"error": {"code": "ERROR_CODE", "message": "Human readable message"}}
func WriteError(w http.ResponseWriter, status int, code string, message string) {
	WriteJSON(w, status, ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	})
}

// WriteAppError maps err to a status through its apperr kind. Unclassified
// errors are logged and answered with a generic 500; their text never leaves
// the server.
func WriteAppError(w http.ResponseWriter, r *http.Request, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		kind := apperr.KindOf(err)
		log := logging.Component(r.Context(), "http").WithError(err)
		if kind == apperr.Upstream {
			log.Warn("upstream timeout")
			WriteError(w, http.StatusBadGateway, apperr.CodeUpstream, "upstream service unavailable")
			return
		}
		log.Error("unhandled error")
		WriteError(w, http.StatusInternalServerError, apperr.CodeInternal, "internal server error")
		return
	}

	status := StatusFor(ae.Kind)
	switch {
	case status >= http.StatusInternalServerError:
		logging.Component(r.Context(), "http").WithError(err).Error("request failed")
	case ae.Err != nil:
		logging.Component(r.Context(), "http").WithError(ae.Err).Debug(ae.Message)
	}
	WriteError(w, status, ae.Code, ae.Message)
}

// StatusFor returns the HTTP status of an error kind.
func StatusFor(kind apperr.Kind) int {
	switch kind {
	case apperr.InvalidRequest:
		return http.StatusBadRequest
	case apperr.Unauthorized:
		return http.StatusUnauthorized
	case apperr.Forbidden:
		return http.StatusForbidden
	case apperr.NotFound:
		return http.StatusNotFound
	case apperr.Conflict:
		return http.StatusConflict
	case apperr.Upstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusBadRequest, apperr.CodeBadRequest, message)
}

// WriteUnauthorized writes a 401 Unauthorized error
func WriteUnauthorized(w http.ResponseWriter, message string) {
	WriteError(w, http.StatusUnauthorized, apperr.CodeUnauthorized, message)
}

// WriteTooManyRequests writes a 429 error
func WriteTooManyRequests(w http.ResponseWriter) {
	WriteError(w, http.StatusTooManyRequests, ErrCodeRateLimited, "too many requests, slow down")
}

// DecodeJSON reads a bounded JSON body into dst.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return apperr.Invalid("request body too large")
		}
		return apperr.Invalid("invalid request body")
	}
	return nil
}
