// Package apperr defines the error taxonomy shared by the catalog and
// checkout services. Every error leaving a service is one of these kinds;
// the HTTP boundary maps kinds to status codes and nothing else inspects
// error strings.
package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind classifies an error for the caller.
type Kind int

const (
	// KindValidation — the input is wrong; permanent until corrected.
	KindValidation Kind = iota + 1
	// KindNotFound — unknown id or slug; permanent.
	KindNotFound
	// KindGatewayDeclined — the payment was refused; permanent for this nonce.
	KindGatewayDeclined
	// KindGatewayUnavailable — could not reach the payment gateway; transient.
	KindGatewayUnavailable
	// KindRepository — the underlying store failed.
	KindRepository
	// KindOrderNotRecorded — the payment settled but the order could not be
	// persisted. Carries the gateway transaction id for manual reconciliation.
	KindOrderNotRecorded
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindGatewayDeclined:
		return "gateway_declined"
	case KindGatewayUnavailable:
		return "gateway_unavailable"
	case KindRepository:
		return "repository"
	case KindOrderNotRecorded:
		return "order_not_recorded"
	default:
		return "unknown"
	}
}

// Error is the concrete error type carried across service boundaries.
type Error struct {
	Kind          Kind
	Msg           string
	Fields        map[string]string // field → message, validation only
	TransactionID string            // set for KindOrderNotRecorded
	Err           error             // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if len(e.Fields) > 0 {
		keys := make([]string, 0, len(e.Fields))
		for k := range e.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, 0, len(keys))
		for _, k := range keys {
			parts = append(parts, k+": "+e.Fields[k])
		}
		return strings.Join(parts, "; ")
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.Err }

// Validation builds a single-message validation error.
func Validation(msg string) *Error {
	return &Error{Kind: KindValidation, Msg: msg}
}

// ValidationFields builds a field-level validation error.
func ValidationFields(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Fields: fields}
}

// NotFound reports that the named thing does not exist.
func NotFound(what string) *Error {
	return &Error{Kind: KindNotFound, Msg: what + " not found"}
}

// Declined reports a payment refused by the gateway.
func Declined(reason string) *Error {
	if reason == "" {
		reason = "payment declined"
	}
	return &Error{Kind: KindGatewayDeclined, Msg: reason}
}

// Unavailable reports a transport failure talking to the gateway.
func Unavailable(err error) *Error {
	return &Error{Kind: KindGatewayUnavailable, Msg: "payment gateway unavailable", Err: err}
}

// Repository wraps a store failure.
func Repository(err error) *Error {
	return &Error{Kind: KindRepository, Msg: "storage error", Err: err}
}

// OrderNotRecorded reports the one case that needs operator attention:
// the charge settled but the order write failed.
func OrderNotRecorded(transactionID string, err error) *Error {
	return &Error{
		Kind:          KindOrderNotRecorded,
		Msg:           fmt.Sprintf("payment captured (transaction %s) but order not recorded", transactionID),
		TransactionID: transactionID,
		Err:           err,
	}
}

// KindOf returns the Kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }
