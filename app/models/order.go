package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartLine is one purchased item as submitted by the client at checkout.
type CartLine struct {
	ProductID primitive.ObjectID `bson:"product_id" json:"product_id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
}

// PaymentRecord is the settled gateway transaction attached to an order.
type PaymentRecord struct {
	TransactionID string `bson:"transaction_id" json:"transaction_id"`
	Status        string `bson:"status" json:"status"`
	AmountCents   int64  `bson:"amount_cents" json:"amount_cents"`
}

// Order records a completed checkout: the purchased lines, the payment that
// settled them and the buyer who placed it.
type Order struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Lines     []CartLine         `bson:"products" json:"products"`
	Payment   PaymentRecord      `bson:"payment" json:"payment"`
	BuyerID   primitive.ObjectID `bson:"buyer_id" json:"buyer_id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
