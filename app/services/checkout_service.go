package services

import (
	"context"
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/repositories"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
	"github.com/shashiranjanraj/kirana/pkg/gateway"
	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/metrics"
	"github.com/shashiranjanraj/kirana/pkg/queue"
)

// CheckoutInput is what the client submits to place an order: the single-use
// payment-method nonce from the payment form and the assembled cart.
type CheckoutInput struct {
	Nonce string            `json:"nonce"`
	Cart  []models.CartLine `json:"cart"`
}

// CheckoutService turns a cart into a captured payment and a persisted
// order. The charge always completes before persistence is attempted; an
// order exists only for a settled payment.
type CheckoutService struct {
	orders  repositories.OrderRepository
	users   repositories.UserRepository
	gateway gateway.PaymentGateway
}

func NewCheckoutService(orders repositories.OrderRepository, users repositories.UserRepository, gw gateway.PaymentGateway) *CheckoutService {
	return &CheckoutService{orders: orders, users: users, gateway: gw}
}

// ClientToken fetches a fresh token for initializing the client-side payment
// form.
func (s *CheckoutService) ClientToken(ctx context.Context) (string, error) {
	token, err := s.gateway.GenerateClientToken(ctx)
	if err != nil {
		return "", mapGatewayErr(err)
	}
	return token, nil
}

// Checkout validates the cart, charges the buyer and persists the order.
// Validation failures return before any gateway or store call. A repository
// failure after a settled charge is reported as an order-not-recorded error
// carrying the transaction id so operators can reconcile; the settled
// payment is never rolled back.
func (s *CheckoutService) Checkout(ctx context.Context, buyerID string, in CheckoutInput) (*models.Order, error) {
	totalCents, err := validateCart(in)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		return nil, err
	}

	buyer, err := primitive.ObjectIDFromHex(buyerID)
	if err != nil {
		metrics.CheckoutTotal.WithLabelValues("invalid").Inc()
		return nil, apperr.Validation("invalid buyer id")
	}

	sale, err := s.gateway.Sale(ctx, totalCents, in.Nonce)
	if err != nil {
		mapped := mapGatewayErr(err)
		switch apperr.KindOf(mapped) {
		case apperr.KindGatewayDeclined:
			metrics.CheckoutTotal.WithLabelValues("declined").Inc()
		default:
			metrics.CheckoutTotal.WithLabelValues("unavailable").Inc()
		}
		return nil, mapped
	}

	order := &models.Order{
		Lines: append([]models.CartLine(nil), in.Cart...), // snapshot, never aliased
		Payment: models.PaymentRecord{
			TransactionID: sale.TransactionID,
			Status:        sale.Status,
			AmountCents:   sale.AmountCents,
		},
		BuyerID: buyer,
	}

	if err := s.orders.Create(ctx, order); err != nil {
		metrics.CheckoutTotal.WithLabelValues("not_recorded").Inc()
		logger.Error("checkout: payment captured but order not recorded",
			"transaction_id", sale.TransactionID, "buyer_id", buyerID, "error", err)
		return nil, apperr.OrderNotRecorded(sale.TransactionID, err)
	}

	metrics.CheckoutTotal.WithLabelValues("settled").Inc()
	metrics.ChargedCents.Add(float64(totalCents))

	if err := queue.Dispatch(&OrderConfirmationJob{
		OrderID:       order.ID.Hex(),
		TransactionID: sale.TransactionID,
		BuyerEmail:    s.buyerEmail(ctx, buyer),
		AmountCents:   totalCents,
		PlacedAt:      time.Now().UTC(),
	}); err != nil {
		logger.Warn("checkout: confirmation job not queued", "order_id", order.ID.Hex(), "error", err)
	}

	return order, nil
}

// buyerEmail looks up the buyer for the confirmation mail. Best effort; the
// checkout already succeeded at this point.
func (s *CheckoutService) buyerEmail(ctx context.Context, buyer primitive.ObjectID) string {
	if s.users == nil {
		return ""
	}
	user, err := s.users.FindByID(ctx, buyer)
	if err != nil || user == nil {
		return ""
	}
	return user.Email
}

// validateCart checks the cart and nonce and returns the total in cents.
// Each line is rounded to cents independently before summing.
func validateCart(in CheckoutInput) (int64, error) {
	if in.Nonce == "" {
		return 0, apperr.Validation("payment nonce is required")
	}
	if len(in.Cart) == 0 {
		return 0, apperr.Validation("cart is empty")
	}

	var total int64
	for _, line := range in.Cart {
		if math.IsNaN(line.Price) || math.IsInf(line.Price, 0) {
			return 0, apperr.Validation("cart line price must be a number")
		}
		if line.Price < 0 {
			return 0, apperr.Validation("cart line price must not be negative")
		}
		total += int64(math.Round(line.Price * 100))
	}
	return total, nil
}

func mapGatewayErr(err error) error {
	switch e := err.(type) {
	case *gateway.DeclinedError:
		return apperr.Declined(e.Error())
	case *gateway.UnavailableError:
		return apperr.Unavailable(err)
	default:
		return apperr.Unavailable(err)
	}
}
