package controllers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/kirana/app/controllers"
	"github.com/shashiranjanraj/kirana/app/models"
	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/gateway"
)

type memOrderRepo struct {
	orders []models.Order
}

func (f *memOrderRepo) Create(ctx context.Context, o *models.Order) error {
	o.ID = primitive.NewObjectID()
	f.orders = append(f.orders, *o)
	return nil
}

func payRequest(body string, authenticated bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/checkout/payment", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if authenticated {
		claims := &auth.Claims{UserID: primitive.NewObjectID().Hex()}
		req = req.WithContext(auth.WithClaims(req.Context(), claims))
	}
	return req
}

func newController(gw gateway.PaymentGateway) (*controllers.CheckoutController, *memOrderRepo) {
	orders := &memOrderRepo{}
	svc := services.NewCheckoutService(orders, nil, gw)
	return controllers.NewCheckoutController(svc), orders
}

func TestPayStatusMapping(t *testing.T) {
	validBody := `{"nonce":"n","cart":[{"name":"Apples","price":10}]}`

	t.Run("settled", func(t *testing.T) {
		c, orders := newController(gateway.NewFake())
		rec := httptest.NewRecorder()
		c.Pay(rec, payRequest(validBody, true))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Len(t, orders.orders, 1)
	})

	t.Run("declined maps to 402", func(t *testing.T) {
		gw := gateway.NewFake()
		gw.DeclineAll = true
		c, orders := newController(gw)
		rec := httptest.NewRecorder()
		c.Pay(rec, payRequest(validBody, true))

		assert.Equal(t, http.StatusPaymentRequired, rec.Code)
		assert.Empty(t, orders.orders)
	})

	t.Run("gateway down maps to 503", func(t *testing.T) {
		gw := gateway.NewFake()
		gw.FailAll = true
		c, _ := newController(gw)
		rec := httptest.NewRecorder()
		c.Pay(rec, payRequest(validBody, true))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("empty cart maps to 422", func(t *testing.T) {
		c, _ := newController(gateway.NewFake())
		rec := httptest.NewRecorder()
		c.Pay(rec, payRequest(`{"nonce":"n","cart":[]}`, true))

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("unauthenticated maps to 401", func(t *testing.T) {
		c, _ := newController(gateway.NewFake())
		rec := httptest.NewRecorder()
		c.Pay(rec, payRequest(validBody, false))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestTokenEndpoint(t *testing.T) {
	c, _ := newController(gateway.NewFake())
	rec := httptest.NewRecorder()
	c.Token(rec, httptest.NewRequest(http.MethodGet, "/api/checkout/token", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fake-client-token")
}
