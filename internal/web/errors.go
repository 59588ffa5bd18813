package web

// errors.go turns pipeline errors into HTTP responses.
//
// The technical error is logged with the request ID; the client gets the
// mapped user message and its code.

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/tsvreorder/internal/logging"
	"github.com/JonMunkholm/tsvreorder/internal/reorder"
	"github.com/JonMunkholm/tsvreorder/internal/table"
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// errTooLarge is reported when the request body exceeds the configured cap.
var errTooLarge = errors.New("request body too large")

// statusFor picks the response status for a pipeline error.
func statusFor(err error) int {
	var (
		maxErr        *http.MaxBytesError
		unresolvedErr *reorder.UnresolvedError
		rowErr        *reorder.RowError
	)

	switch {
	case errors.As(err, &maxErr), errors.Is(err, errTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBusy):
		return http.StatusTooManyRequests
	case errors.As(err, &unresolvedErr), errors.As(err, &rowErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, table.ErrEmptyTable):
		return http.StatusUnprocessableEntity
	}

	if reorder.MapError(err).Code == "FILE003" {
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// respondError logs err and writes its user-facing JSON form.
func respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	msg := reorder.MapError(err)
	switch status {
	case http.StatusRequestEntityTooLarge:
		msg = reorder.UserMessage{
			Message: "The uploaded table is too large",
			Action:  "Split the table or raise REORDER_MAX_BODY_SIZE",
			Code:    "REQ001",
		}
	case http.StatusTooManyRequests:
		msg = reorder.UserMessage{
			Message: "The server is busy with other tables",
			Action:  "Retry in a few seconds",
			Code:    "REQ003",
		}
		w.Header().Set("Retry-After", "5")
	}

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", msg.Code,
	)

	writeJSON(w, status, ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
