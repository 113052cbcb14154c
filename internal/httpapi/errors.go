package httpapi

import (
	"errors"
	"net/http"

	"github.com/kdiallo/sikabooks/internal/errs"
)

// errorResponse is the standard error payload for the API.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeErr(w http.ResponseWriter, status int, msg, code string) {
	toJSON(w, status, errorResponse{Error: msg, Code: code})
}

func badRequest(w http.ResponseWriter, msg string) { writeErr(w, http.StatusBadRequest, msg, "") }

// serviceErr maps domain sentinel errors onto HTTP statuses. Anything
// unrecognized is a 500 with a generic message so internals never leak.
func serviceErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		writeErr(w, http.StatusNotFound, "not found", "not_found")
	case errors.Is(err, errs.ErrUnbalanced):
		writeErr(w, http.StatusUnprocessableEntity, "sum(debits) must equal sum(credits)", "unbalanced_entry")
	case errors.Is(err, errs.ErrInvalidAmount):
		writeErr(w, http.StatusBadRequest, "invalid amount", "invalid_amount")
	case errors.Is(err, errs.ErrInvalid):
		writeErr(w, http.StatusBadRequest, "invalid request", "validation_error")
	case errors.Is(err, errs.ErrConflict):
		writeErr(w, http.StatusConflict, "conflict", "conflict")
	case errors.Is(err, errs.ErrInsufficientStock):
		writeErr(w, http.StatusConflict, "insufficient stock", "insufficient_stock")
	case errors.Is(err, errs.ErrInvalidStatus):
		writeErr(w, http.StatusConflict, "invalid status for operation", "invalid_status")
	default:
		writeErr(w, http.StatusInternalServerError, "internal error", "")
	}
}
