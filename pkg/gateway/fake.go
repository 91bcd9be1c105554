package gateway

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// FakeSale records one Sale call made against the Fake gateway.
type FakeSale struct {
	AmountCents int64
	Nonce       string
}

// Fake is an in-memory PaymentGateway for tests and for local development
// when no Braintree credentials are configured. By default every sale
// settles; flip DeclineAll or FailAll to exercise the error paths.
type Fake struct {
	mu         sync.Mutex
	seq        int
	sales      []FakeSale
	DeclineAll bool
	FailAll    bool
}

func NewFake() *Fake { return &Fake{} }

func (g *Fake) GenerateClientToken(ctx context.Context) (string, error) {
	if g.FailAll {
		return "", &UnavailableError{Err: errors.New("fake gateway down")}
	}
	return "fake-client-token", nil
}

func (g *Fake) Sale(ctx context.Context, amountCents int64, nonce string) (*SaleResult, error) {
	if g.FailAll {
		return nil, &UnavailableError{Err: errors.New("fake gateway down")}
	}
	if g.DeclineAll {
		return nil, &DeclinedError{Status: "processor_declined"}
	}

	g.mu.Lock()
	g.seq++
	id := fmt.Sprintf("fake-txn-%d", g.seq)
	g.sales = append(g.sales, FakeSale{AmountCents: amountCents, Nonce: nonce})
	g.mu.Unlock()

	return &SaleResult{TransactionID: id, Status: "submitted_for_settlement", AmountCents: amountCents}, nil
}

// Sales returns a copy of every recorded sale.
func (g *Fake) Sales() []FakeSale {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]FakeSale, len(g.sales))
	copy(out, g.sales)
	return out
}
