package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/apperr"
	"github.com/shashiranjanraj/kirana/pkg/gateway"
)

type fakeOrderRepo struct {
	orders  []models.Order
	failAll bool
}

func (f *fakeOrderRepo) Create(ctx context.Context, o *models.Order) error {
	if f.failAll {
		return errors.New("write concern timeout")
	}
	o.ID = primitive.NewObjectID()
	f.orders = append(f.orders, *o)
	return nil
}

func newCheckout(orders *fakeOrderRepo, gw gateway.PaymentGateway) *services.CheckoutService {
	return services.NewCheckoutService(orders, nil, gw)
}

func TestCheckoutSettled(t *testing.T) {
	orders := &fakeOrderRepo{}
	gw := gateway.NewFake()
	svc := newCheckout(orders, gw)

	buyer := primitive.NewObjectID()
	cart := []models.CartLine{
		{ProductID: primitive.NewObjectID(), Name: "Apples", Price: 10},
		{ProductID: primitive.NewObjectID(), Name: "Cheese", Price: 25},
	}

	order, err := svc.Checkout(context.Background(), buyer.Hex(), services.CheckoutInput{
		Nonce: "fake-valid-nonce",
		Cart:  cart,
	})
	require.NoError(t, err)

	sales := gw.Sales()
	require.Len(t, sales, 1)
	assert.Equal(t, int64(3500), sales[0].AmountCents, "10 + 25 dollars charged as cents")

	require.Len(t, orders.orders, 1, "exactly one order persisted")
	persisted := orders.orders[0]
	assert.Len(t, persisted.Lines, 2)
	assert.Equal(t, buyer, persisted.BuyerID)
	assert.Equal(t, int64(3500), persisted.Payment.AmountCents)
	assert.NotEmpty(t, persisted.Payment.TransactionID)
	assert.Equal(t, persisted.Payment.TransactionID, order.Payment.TransactionID)
}

func TestCheckoutSnapshotsCart(t *testing.T) {
	orders := &fakeOrderRepo{}
	svc := newCheckout(orders, gateway.NewFake())

	cart := []models.CartLine{{ProductID: primitive.NewObjectID(), Name: "Milk", Price: 3}}
	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), services.CheckoutInput{
		Nonce: "n",
		Cart:  cart,
	})
	require.NoError(t, err)

	cart[0].Price = 9999 // later cart mutation must not reach the order
	assert.Equal(t, 3.0, orders.orders[0].Lines[0].Price)
}

func TestCheckoutDeclined(t *testing.T) {
	orders := &fakeOrderRepo{}
	gw := gateway.NewFake()
	gw.DeclineAll = true
	svc := newCheckout(orders, gw)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), services.CheckoutInput{
		Nonce: "fake-declined-nonce",
		Cart:  []models.CartLine{{ProductID: primitive.NewObjectID(), Name: "Apples", Price: 10}},
	})
	assert.Equal(t, apperr.KindGatewayDeclined, apperr.KindOf(err))
	assert.Empty(t, orders.orders, "no order for a declined payment")
}

func TestCheckoutGatewayUnavailable(t *testing.T) {
	orders := &fakeOrderRepo{}
	gw := gateway.NewFake()
	gw.FailAll = true
	svc := newCheckout(orders, gw)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), services.CheckoutInput{
		Nonce: "n",
		Cart:  []models.CartLine{{ProductID: primitive.NewObjectID(), Name: "Apples", Price: 10}},
	})
	assert.Equal(t, apperr.KindGatewayUnavailable, apperr.KindOf(err))
	assert.Empty(t, orders.orders)
}

func TestCheckoutEmptyCart(t *testing.T) {
	orders := &fakeOrderRepo{}
	gw := gateway.NewFake()
	svc := newCheckout(orders, gw)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), services.CheckoutInput{
		Nonce: "n",
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
	assert.Empty(t, gw.Sales(), "validation must precede any gateway call")
	assert.Empty(t, orders.orders)
}

func TestCheckoutRejectsBadLines(t *testing.T) {
	gw := gateway.NewFake()
	svc := newCheckout(&fakeOrderRepo{}, gw)
	ctx := context.Background()
	buyer := primitive.NewObjectID().Hex()

	_, err := svc.Checkout(ctx, buyer, services.CheckoutInput{
		Nonce: "n",
		Cart:  []models.CartLine{{Name: "Refund me", Price: -5}},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	_, err = svc.Checkout(ctx, buyer, services.CheckoutInput{
		Cart: []models.CartLine{{Name: "No nonce", Price: 5}},
	})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	assert.Empty(t, gw.Sales())
}

func TestCheckoutPersistFailureSurfacesTransaction(t *testing.T) {
	orders := &fakeOrderRepo{failAll: true}
	gw := gateway.NewFake()
	svc := newCheckout(orders, gw)

	_, err := svc.Checkout(context.Background(), primitive.NewObjectID().Hex(), services.CheckoutInput{
		Nonce: "n",
		Cart:  []models.CartLine{{ProductID: primitive.NewObjectID(), Name: "Apples", Price: 10}},
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindOrderNotRecorded, apperr.KindOf(err))

	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.NotEmpty(t, appErr.TransactionID, "operators need the transaction id to reconcile")

	require.Len(t, gw.Sales(), 1, "the charge did go through")
}

func TestClientToken(t *testing.T) {
	svc := newCheckout(&fakeOrderRepo{}, gateway.NewFake())

	token, err := svc.ClientToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fake-client-token", token)

	down := gateway.NewFake()
	down.FailAll = true
	svc = newCheckout(&fakeOrderRepo{}, down)
	_, err = svc.ClientToken(context.Background())
	assert.Equal(t, apperr.KindGatewayUnavailable, apperr.KindOf(err))
}
