package controllers

import (
	"net/http"

	"github.com/shashiranjanraj/kirana/app/services"
	"github.com/shashiranjanraj/kirana/pkg/auth"
	"github.com/shashiranjanraj/kirana/pkg/bind"
	"github.com/shashiranjanraj/kirana/pkg/response"
)

// CheckoutController exposes the payment token and checkout endpoints. Both
// sit behind the auth middleware; the buyer id comes from the JWT claims.
type CheckoutController struct {
	checkout *services.CheckoutService
}

func NewCheckoutController(checkout *services.CheckoutService) *CheckoutController {
	return &CheckoutController{checkout: checkout}
}

// Token handles GET /checkout/token.
func (c *CheckoutController) Token(w http.ResponseWriter, r *http.Request) {
	token, err := c.checkout.ClientToken(r.Context())
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Success(w, map[string]string{"client_token": token})
}

// Pay handles POST /checkout/payment.
func (c *CheckoutController) Pay(w http.ResponseWriter, r *http.Request) {
	buyerID := auth.UserIDFromCtx(r.Context())
	if buyerID == "" {
		response.Unauthorized(w)
		return
	}

	var in services.CheckoutInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusUnprocessableEntity, err.Error())
		return
	} else if errs != nil {
		response.ValidationErrors(w, errs)
		return
	}

	order, err := c.checkout.Checkout(r.Context(), buyerID, in)
	if err != nil {
		response.FromError(w, err)
		return
	}
	response.Created(w, order)
}
