package services

import (
	"fmt"
	"time"

	"github.com/shashiranjanraj/kirana/pkg/logger"
	"github.com/shashiranjanraj/kirana/pkg/mail"
	"github.com/shashiranjanraj/kirana/pkg/queue"
)

// OrderConfirmationJob emails the buyer after a settled checkout. It is
// dispatched off the request path so a slow mail server never delays the
// checkout response.
type OrderConfirmationJob struct {
	OrderID       string    `json:"order_id"`
	TransactionID string    `json:"transaction_id"`
	BuyerEmail    string    `json:"buyer_email"`
	AmountCents   int64     `json:"amount_cents"`
	PlacedAt      time.Time `json:"placed_at"`
}

func (j *OrderConfirmationJob) Handle() error {
	if j.BuyerEmail == "" {
		logger.Info("order confirmation skipped, no buyer email", "order_id", j.OrderID)
		return nil
	}

	body := fmt.Sprintf(
		"<p>Thanks for your order!</p><p>Order %s for $%.2f was placed on %s.</p>",
		j.OrderID, float64(j.AmountCents)/100, j.PlacedAt.Format("Jan 2, 2006"),
	)
	return mail.To(j.BuyerEmail).
		Subject("Your order is confirmed").
		Body(body).
		Send()
}

// RegisterJobs wires every job type into the queue. Call once at boot.
func RegisterJobs() {
	queue.Register("*services.OrderConfirmationJob", func() queue.Job { return &OrderConfirmationJob{} })
}
