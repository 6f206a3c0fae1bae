package http

import (
	"errors"
	"net/http"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
)

type errorResp struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	Field           string `json:"field,omitempty"`
	NextOpenMessage string `json:"nextOpenMessage,omitempty"`
}

// writeError maps domain errors to a status and a message the storefront can
// show as is.
func writeError(c *gin.Context, err error) {
	var (
		closed  *domain.StoreClosedError
		missing *domain.MissingFieldError
	)
	status, resp := http.StatusInternalServerError, errorResp{Error: "INTERNAL", Message: "Something went wrong. Please try again."}
	switch {
	case errors.As(err, &closed):
		status = http.StatusConflict
		resp = errorResp{Error: "STORE_CLOSED", Message: "We are closed now. " + closed.NextOpenMessage + ".", NextOpenMessage: closed.NextOpenMessage}
	case errors.Is(err, domain.ErrOfferLocked):
		status = http.StatusConflict
		resp = errorResp{Error: "OFFER_LOCKED", Message: "Add any one regular menu item to unlock Today's Offer."}
	case errors.Is(err, domain.ErrOfferAlreadyApplied):
		status = http.StatusConflict
		resp = errorResp{Error: "OFFER_ALREADY_APPLIED", Message: "Today's Offer already applied."}
	case errors.Is(err, domain.ErrOfferLimitExceeded):
		status = http.StatusConflict
		resp = errorResp{Error: "OFFER_LIMIT_EXCEEDED", Message: "Today's Offer is limited to 1 item per order."}
	case errors.Is(err, domain.ErrEmptyCart):
		status = http.StatusUnprocessableEntity
		resp = errorResp{Error: "EMPTY_CART", Message: "Cart is empty."}
	case errors.As(err, &missing):
		status = http.StatusBadRequest
		resp = errorResp{Error: "MISSING_FIELD", Field: missing.Field, Message: missingFieldMessage(missing.Field)}
	case errors.Is(err, domain.ErrUnknownItem):
		status = http.StatusNotFound
		resp = errorResp{Error: "UNKNOWN_ITEM", Message: "This item is not available right now."}
	case errors.Is(err, domain.ErrCatalogUnavailable), errors.Is(err, domain.ErrCatalogLoad):
		status = http.StatusServiceUnavailable
		resp = errorResp{Error: "CATALOG_UNAVAILABLE", Message: "Menu load error. Please try again shortly."}
	case errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
		resp = errorResp{Error: "INVALID_QUANTITY", Message: "Quantity change must be between -99 and 99."}
	case errors.Is(err, domain.ErrInvalidOrderType):
		status = http.StatusBadRequest
		resp = errorResp{Error: "INVALID_ORDER_TYPE", Message: "Order type must be delivery or pickup."}
	case errors.Is(err, usecase.ErrDuplicate):
		status = http.StatusConflict
		resp = errorResp{Error: "DUPLICATE_REQUEST", Message: "This order is already being placed."}
	}
	if status >= http.StatusInternalServerError {
		logging.From(c).Error("request failed", "err", err)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, resp)
}

func missingFieldMessage(field string) string {
	switch field {
	case "nameAddress":
		return "Please enter Full Name & Address."
	case "name":
		return "Please enter your name."
	case "phone":
		return "Please enter your phone number."
	case "date":
		return "Please choose a date."
	case "time":
		return "Please choose a time."
	case "guests":
		return "Please enter the number of guests."
	default:
		return "Missing required field: " + field
	}
}

func badRequest(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResp{Error: "BAD_REQUEST", Message: "Invalid request body."})
}
