package http

import (
	"net/http"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
)

type CartHandler struct {
	carts *usecase.CartService
}

func NewCartHandler(carts *usecase.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

type setQuantityReq struct {
	ID    domain.ItemID `json:"id" binding:"required"`
	Offer bool          `json:"offer"`
	Delta *int          `json:"delta"` // default +1
}

type orderTypeReq struct {
	OrderType string `json:"orderType" binding:"required"`
}

// GET /v1/cart
func (h *CartHandler) Get(c *gin.Context) {
	view, err := h.carts.View(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// POST /v1/cart/items {"id": "201", "offer": false, "delta": 1}
func (h *CartHandler) SetQuantity(c *gin.Context) {
	var req setQuantityReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}
	view, err := h.carts.SetQuantity(c.Request.Context(), sessionID(c), usecase.ItemRef{ID: req.ID, Offer: req.Offer}, delta)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PUT /v1/cart/order-type {"orderType": "pickup"}
func (h *CartHandler) SetOrderType(c *gin.Context) {
	var req orderTypeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	view, err := h.carts.SetOrderType(c.Request.Context(), sessionID(c), domain.OrderType(req.OrderType))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// DELETE /v1/cart
func (h *CartHandler) Clear(c *gin.Context) {
	view, err := h.carts.Clear(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
