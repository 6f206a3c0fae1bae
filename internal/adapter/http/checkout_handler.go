package http

import (
	"context"
	"net/http"
	"time"

	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	checkout *usecase.Checkout
}

func NewCheckoutHandler(checkout *usecase.Checkout) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout}
}

type checkoutReq struct {
	NameAddress string `json:"nameAddress"`
	Notes       string `json:"notes"`
}

// POST /v1/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	idemKey := c.GetHeader("X-Idempotency-Key") // prevent duplicated requests

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		SessionID:      sessionID(c),
		IdempotencyKey: idemKey,
		NameAddress:    req.NameAddress,
		Notes:          req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
