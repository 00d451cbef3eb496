package server

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/NCAR/cirrus-portal/pkg/errors"
	"github.com/NCAR/cirrus-portal/pkg/serializers"
)

// ErrorResponse is the JSON error body all API routes return.
type ErrorResponse struct {
	Code      string         `json:"code"`
	Message   string         `json:"message"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"requestId"`
	Timestamp time.Time      `json:"timestamp"`
	Retryable bool           `json:"retryable"`
}

// WriteError writes an error response with the given status and code.
func WriteError(w http.ResponseWriter, r *http.Request, statusCode int,
	code errors.ErrorCode, message string, retryable bool, details map[string]any) {

	requestID, _ := r.Context().Value(contextKeyRequestID).(string)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	serializers.RespondJSON(w, statusCode, ErrorResponse{
		Code:      string(code),
		Message:   message,
		Details:   details,
		RequestID: requestID,
		Timestamp: time.Now().UTC(),
		Retryable: retryable,
	})
}

// WriteErrorFromErr maps a structured error to its HTTP status and writes
// the response. The error's context becomes the details map.
func WriteErrorFromErr(w http.ResponseWriter, r *http.Request, err error, message string) {
	code := errors.CodeOf(err)

	var details map[string]any
	var se *errors.StructuredError
	if errors.As(err, &se) {
		details = se.Context
		if message == "" {
			message = se.Message
		}
	}
	if message == "" {
		message = err.Error()
	}

	WriteError(w, r, statusForCode(code), code, message, retryableCode(code), details)
}

func statusForCode(code errors.ErrorCode) int {
	switch code {
	case errors.ErrCodeValidation, errors.ErrCodeUnknownAddon, errors.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case errors.ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case errors.ErrCodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func retryableCode(code errors.ErrorCode) bool {
	switch code {
	case errors.ErrCodeUpstream, errors.ErrCodeTimeout, errors.ErrCodeRateLimitExceeded, errors.ErrCodeInternal:
		return true
	default:
		return false
	}
}
