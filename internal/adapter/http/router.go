package http

import (
	"log/slog"

	"github.com/aq2208/gorder-cart/internal/adapter/http/middleware"
	"github.com/aq2208/gorder-cart/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Cart       *CartHandler
	Checkout   *CheckoutHandler
	Storefront *StorefrontHandler
	Admin      *AdminHandler
	Token      *TokenHandler
	Authz      *middleware.Authz
}

func NewRouter(h Handlers, l *slog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		logging.From(c).Debug("health check")
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", h.Token.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/menu", h.Storefront.Menu)
		v1.GET("/store/status", h.Storefront.StoreStatus)
		v1.GET("/contact", h.Storefront.Contact)
		v1.GET("/enquiry", h.Storefront.Enquiry)
		v1.POST("/booking", h.Storefront.Booking)
	}

	cart := v1.Group("", Session())
	{
		cart.GET("/cart", h.Cart.Get)
		cart.POST("/cart/items", h.Cart.SetQuantity)
		cart.PUT("/cart/order-type", h.Cart.SetOrderType)
		cart.DELETE("/cart", h.Cart.Clear)
		cart.POST("/checkout", h.Checkout.Checkout)
	}

	admin := v1.Group("/admin")
	{
		admin.GET("/catalog", h.Authz.Require("catalog.read"), h.Admin.Catalog)
		admin.POST("/catalog/reload", h.Authz.Require("catalog.write"), h.Admin.Reload)
	}

	return r
}
