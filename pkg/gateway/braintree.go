package gateway

import (
	"context"
	"errors"

	"github.com/braintree-go/braintree-go"

	"github.com/shashiranjanraj/kirana/config"
)

// Braintree adapts the Braintree SDK to the PaymentGateway port.
type Braintree struct {
	bt *braintree.Braintree
}

// NewBraintree builds a gateway from BRAINTREE_* config. BRAINTREE_ENV
// selects sandbox (default) or production.
func NewBraintree() *Braintree {
	env := braintree.Sandbox
	if config.BraintreeEnv() == "production" {
		env = braintree.Production
	}
	return &Braintree{
		bt: braintree.New(
			env,
			config.BraintreeMerchantID(),
			config.BraintreePublicKey(),
			config.BraintreePrivateKey(),
		),
	}
}

func (g *Braintree) GenerateClientToken(ctx context.Context) (string, error) {
	token, err := g.bt.ClientToken().Generate(ctx)
	if err != nil {
		return "", &UnavailableError{Err: err}
	}
	return token, nil
}

// Statuses Braintree reports when the processor reached a negative decision.
var declinedStatuses = map[string]bool{
	"processor_declined":               true,
	"gateway_rejected":                 true,
	"failed":                           true,
	"settlement_declined":              true,
	"authorization_expired":            true,
	"processor_settlement_declined":    true,
	"submitted_for_settlement_blocked": true,
}

func (g *Braintree) Sale(ctx context.Context, amountCents int64, nonce string) (*SaleResult, error) {
	tx, err := g.bt.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             braintree.NewDecimal(amountCents, 2),
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		// A structured API error means Braintree processed the request
		// and rejected it; anything else is a transport failure.
		var btErr *braintree.BraintreeError
		if errors.As(err, &btErr) {
			return nil, &DeclinedError{Status: "gateway_rejected", Reason: btErr.Error()}
		}
		return nil, &UnavailableError{Err: err}
	}

	status := string(tx.Status)
	if declinedStatuses[status] {
		return nil, &DeclinedError{Status: status}
	}

	return &SaleResult{
		TransactionID: tx.Id,
		Status:        status,
		AmountCents:   amountCents,
	}, nil
}
