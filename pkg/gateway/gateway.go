// Package gateway abstracts the payment processor behind a small port so the
// checkout service can be tested without network access.
package gateway

import "context"

// SaleResult is the outcome of a successfully submitted sale.
type SaleResult struct {
	TransactionID string
	Status        string
	AmountCents   int64
}

// PaymentGateway is the payment processor port. Amounts are integer cents.
type PaymentGateway interface {
	// GenerateClientToken returns a token the browser SDK uses to tokenize
	// payment details into a nonce.
	GenerateClientToken(ctx context.Context) (string, error)
	// Sale charges amountCents against the payment method identified by
	// nonce and submits it for settlement. A declined charge returns
	// *DeclinedError; transport or processor outages return
	// *UnavailableError.
	Sale(ctx context.Context, amountCents int64, nonce string) (*SaleResult, error)
}

// DeclinedError means the processor reached a decision and said no.
// Retrying the same nonce will not succeed.
type DeclinedError struct {
	Status string
	Reason string
}

func (e *DeclinedError) Error() string {
	if e.Reason != "" {
		return "payment declined: " + e.Reason
	}
	return "payment declined (" + e.Status + ")"
}

// UnavailableError means no decision was reached: the processor could not be
// contacted or errored. The charge may be retried.
type UnavailableError struct {
	Err error
}

func (e *UnavailableError) Error() string { return "payment gateway unavailable: " + e.Err.Error() }
func (e *UnavailableError) Unwrap() error { return e.Err }
