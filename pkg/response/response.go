// Package response writes the JSON envelope used by every controller and
// maps apperr kinds to transport status codes. Controllers never pick status
// codes themselves; they hand errors to FromError.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/shashiranjanraj/kirana/pkg/apperr"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response with an explicit status.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationErrors sends a 422 with a field-level error map.
func ValidationErrors(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Unauthorized sends a 401.
func Unauthorized(w http.ResponseWriter) {
	Error(w, http.StatusUnauthorized, "Unauthorized")
}

// NotFound sends a 404.
func NotFound(w http.ResponseWriter) {
	Error(w, http.StatusNotFound, "Not found")
}

// FromError maps a service error to its transport representation:
//
//	validation          → 422 (with field map when present)
//	not found           → 404
//	gateway declined    → 402
//	gateway unavailable → 503
//	order not recorded  → 500, flagged for reconciliation
//	anything else       → 500
func FromError(w http.ResponseWriter, err error) {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		var e *apperr.Error
		if errors.As(err, &e) && len(e.Fields) > 0 {
			ValidationErrors(w, e.Fields)
			return
		}
		Error(w, http.StatusUnprocessableEntity, err.Error())
	case apperr.KindNotFound:
		Error(w, http.StatusNotFound, err.Error())
	case apperr.KindGatewayDeclined:
		Error(w, http.StatusPaymentRequired, err.Error())
	case apperr.KindGatewayUnavailable:
		Error(w, http.StatusServiceUnavailable, err.Error())
	case apperr.KindOrderNotRecorded:
		var e *apperr.Error
		if errors.As(err, &e) {
			write(w, http.StatusInternalServerError, envelope{
				Status:  http.StatusInternalServerError,
				Message: e.Msg,
				Errors:  map[string]string{"transaction_id": e.TransactionID},
			})
			return
		}
		Error(w, http.StatusInternalServerError, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "Internal Server Error")
	}
}
