package http

import (
	"net/http"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
)

// StatusSource publishes the current store status.
type StatusSource interface {
	Status() domain.StoreStatus
}

type StorefrontHandler struct {
	front  *usecase.Storefront
	status StatusSource
}

func NewStorefrontHandler(front *usecase.Storefront, status StatusSource) *StorefrontHandler {
	return &StorefrontHandler{front: front, status: status}
}

type storeStatusResp struct {
	domain.StoreStatus
	Banner string `json:"banner"`
}

// GET /v1/menu?q=paneer
func (h *StorefrontHandler) Menu(c *gin.Context) {
	c.JSON(http.StatusOK, h.front.Menu(c.Query("q")))
}

// GET /v1/store/status
func (h *StorefrontHandler) StoreStatus(c *gin.Context) {
	st := h.status.Status()
	c.JSON(http.StatusOK, storeStatusResp{StoreStatus: st, Banner: st.Banner()})
}

// GET /v1/contact
func (h *StorefrontHandler) Contact(c *gin.Context) {
	c.JSON(http.StatusOK, h.front.Contact())
}

// GET /v1/enquiry
func (h *StorefrontHandler) Enquiry(c *gin.Context) {
	c.JSON(http.StatusOK, h.front.Enquiry())
}

// POST /v1/booking
func (h *StorefrontHandler) Booking(c *gin.Context) {
	var req domain.Booking
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	out, err := h.front.Booking(req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
