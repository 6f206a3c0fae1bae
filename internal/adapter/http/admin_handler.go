package http

import (
	"net/http"

	"github.com/aq2208/gorder-cart/internal/usecase"
	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	catalogs *usecase.CatalogHolder
}

func NewAdminHandler(catalogs *usecase.CatalogHolder) *AdminHandler {
	return &AdminHandler{catalogs: catalogs}
}

type catalogInfo struct {
	Loaded       bool `json:"loaded"`
	Categories   int  `json:"categories"`
	Items        int  `json:"items"`
	OfferEnabled bool `json:"offerEnabled"`
}

func (h *AdminHandler) info() catalogInfo {
	cur := h.catalogs.Current()
	if cur == nil {
		return catalogInfo{}
	}
	return catalogInfo{Loaded: true, Categories: len(cur.Categories), Items: cur.ItemCount(), OfferEnabled: cur.TodayOffer.Enabled}
}

// GET /v1/admin/catalog
func (h *AdminHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.info())
}

// POST /v1/admin/catalog/reload
func (h *AdminHandler) Reload(c *gin.Context) {
	if err := h.catalogs.Load(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.info())
}
