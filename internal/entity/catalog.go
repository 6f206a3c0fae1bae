package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// MaxOfferItems is how many entries of todayOffer.items the menu shows.
const MaxOfferItems = 2

type CatalogItem struct {
	ID        ItemID `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc"`
	Veg       bool   `json:"veg"`
	Image     string `json:"image"`
	Price     Amount `json:"price"`
	Available *bool  `json:"available,omitempty"`
}

// IsAvailable treats a missing flag as available.
func (i CatalogItem) IsAvailable() bool { return i.Available == nil || *i.Available }

type Category struct {
	Title string        `json:"title"`
	Items []CatalogItem `json:"items"`
}

type OfferItem struct {
	ID            ItemID `json:"id"`
	Name          string `json:"name"`
	Desc          string `json:"desc"`
	Veg           bool   `json:"veg"`
	Image         string `json:"image"`
	OriginalPrice Amount `json:"originalPrice"`
	OfferPrice    Amount `json:"offerPrice"`
}

type OfferDefinition struct {
	Enabled bool        `json:"enabled"`
	Items   []OfferItem `json:"items"`
}

type DiscountSlab struct {
	MinSubtotal Amount  `json:"minSubtotal"`
	Percent     Percent `json:"percent"`
}

type Discounts struct {
	DeliverySlabs []DiscountSlab `json:"deliverySlabs"`
}

type TaxConfig struct {
	GSTPercent Percent `json:"gstPercent"`
}

type Contact struct {
	Phone         string `json:"phone"`
	WhatsApp      string `json:"whatsapp"`
	DirectionsURL string `json:"directionsUrl"`
}

// Catalog is the menu document. A nil *Catalog is a valid, empty menu.
type Catalog struct {
	Categories []Category      `json:"categories"`
	TodayOffer OfferDefinition `json:"todayOffer"`
	Discounts  Discounts       `json:"discounts"`
	Tax        TaxConfig       `json:"tax"`
	Contact    Contact         `json:"contact"`
}

func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCatalogLoad, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) Validate() error {
	seen := map[ItemID]struct{}{}
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			if it.ID == "" {
				return fmt.Errorf("%w: item %q in %q has no id", ErrCatalogLoad, it.Name, cat.Title)
			}
			if it.Price < 0 {
				return fmt.Errorf("%w: item %s has negative price", ErrCatalogLoad, it.ID)
			}
			if _, dup := seen[it.ID]; dup {
				return fmt.Errorf("%w: duplicate item id %s", ErrCatalogLoad, it.ID)
			}
			seen[it.ID] = struct{}{}
		}
	}
	for _, o := range c.TodayOffer.Items {
		if o.ID == "" || o.OfferPrice < 0 || o.OriginalPrice < 0 {
			return fmt.Errorf("%w: invalid offer item %q", ErrCatalogLoad, o.Name)
		}
	}
	for _, s := range c.Discounts.DeliverySlabs {
		if s.MinSubtotal < 0 || s.Percent < 0 || s.Percent > PercentOf(100) {
			return fmt.Errorf("%w: invalid discount slab %+v", ErrCatalogLoad, s)
		}
	}
	if c.Tax.GSTPercent < 0 {
		return fmt.Errorf("%w: negative gst", ErrCatalogLoad)
	}
	return nil
}

// OfferItems returns the offer items on sale today, at most MaxOfferItems.
func (c *Catalog) OfferItems() []OfferItem {
	if c == nil || !c.TodayOffer.Enabled {
		return nil
	}
	items := c.TodayOffer.Items
	if len(items) > MaxOfferItems {
		items = items[:MaxOfferItems]
	}
	return items
}

// Lookup resolves an orderable item. Unavailable regular items and offer
// items outside today's offer are reported as ErrUnknownItem.
func (c *Catalog) Lookup(id ItemID, offer bool) (LineItem, error) {
	if c == nil {
		return LineItem{}, ErrCatalogUnavailable
	}
	if offer {
		for _, o := range c.OfferItems() {
			if o.ID == id {
				return offerLineItem(o), nil
			}
		}
		return LineItem{}, fmt.Errorf("%w: offer %s", ErrUnknownItem, id)
	}
	for _, cat := range c.Categories {
		for _, it := range cat.Items {
			if it.ID == id && it.IsAvailable() {
				return regularLineItem(it), nil
			}
		}
	}
	return LineItem{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
}

// Menu returns the available items grouped by category. With a non-empty
// search only matching items are kept and empty categories are dropped.
func (c *Catalog) Menu(search string) []Category {
	if c == nil {
		return []Category{}
	}
	q := normalize(search)
	out := make([]Category, 0, len(c.Categories))
	for _, cat := range c.Categories {
		items := make([]CatalogItem, 0, len(cat.Items))
		for _, it := range cat.Items {
			if !it.IsAvailable() {
				continue
			}
			if q != "" && !strings.Contains(normalize(it.Name+" "+it.Desc), q) {
				continue
			}
			items = append(items, it)
		}
		if q != "" && len(items) == 0 {
			continue
		}
		out = append(out, Category{Title: cat.Title, Items: items})
	}
	return out
}

func (c *Catalog) Pricing(rule DeliveryRule) Pricing {
	if c == nil {
		return Pricing{DeliveryRule: rule}
	}
	return Pricing{
		Slabs:        c.Discounts.DeliverySlabs,
		GSTPercent:   c.Tax.GSTPercent,
		DeliveryRule: rule,
	}
}

func (c *Catalog) ItemCount() int {
	if c == nil {
		return 0
	}
	n := 0
	for _, cat := range c.Categories {
		n += len(cat.Items)
	}
	return n
}

func normalize(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func regularLineItem(it CatalogItem) LineItem {
	return LineItem{
		ID:    it.ID,
		Name:  it.Name,
		Desc:  it.Desc,
		Veg:   it.Veg,
		Image: it.Image,
		Price: it.Price,
	}
}

func offerLineItem(o OfferItem) LineItem {
	orig, offer := o.OriginalPrice, o.OfferPrice
	return LineItem{
		ID:            o.ID,
		Name:          o.Name,
		Desc:          o.Desc,
		Veg:           o.Veg,
		Image:         o.Image,
		IsOfferItem:   true,
		OriginalPrice: &orig,
		OfferPrice:    &offer,
		Price:         o.OfferPrice,
	}
}
