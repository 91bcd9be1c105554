package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kirana/pkg/apperr"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(apperr.Validation("empty cart")))
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(apperr.NotFound("product")))
	assert.Equal(t, apperr.KindGatewayDeclined, apperr.KindOf(apperr.Declined("insufficient funds")))
	assert.Equal(t, apperr.KindGatewayUnavailable, apperr.KindOf(apperr.Unavailable(errors.New("dial tcp"))))
	assert.Equal(t, apperr.KindRepository, apperr.KindOf(apperr.Repository(errors.New("write concern"))))
	assert.Equal(t, apperr.Kind(0), apperr.KindOf(errors.New("plain")))
	assert.Equal(t, apperr.Kind(0), apperr.KindOf(nil))
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("checkout: %w", apperr.Declined("do not honor"))
	assert.Equal(t, apperr.KindGatewayDeclined, apperr.KindOf(err))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := apperr.Unavailable(cause)
	require.ErrorIs(t, err, cause)
}

func TestOrderNotRecordedCarriesTransactionID(t *testing.T) {
	cause := errors.New("insert failed")
	err := apperr.OrderNotRecorded("tx-123", cause)

	require.Equal(t, apperr.KindOrderNotRecorded, apperr.KindOf(err))
	assert.Equal(t, "tx-123", err.TransactionID)
	assert.Contains(t, err.Error(), "tx-123")
	assert.ErrorIs(t, err, cause)
}

func TestValidationFieldsMessage(t *testing.T) {
	err := apperr.ValidationFields(map[string]string{
		"name":  "The name field is required.",
		"price": "The price must be at least 0.",
	})
	// Fields are joined deterministically.
	assert.Equal(t, "name: The name field is required.; price: The price must be at least 0.", err.Error())
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, apperr.IsNotFound(apperr.NotFound("category")))
	assert.False(t, apperr.IsNotFound(apperr.Validation("nope")))
}
