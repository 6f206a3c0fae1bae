package usecase

import (
	domain "github.com/aq2208/gorder-cart/internal/entity"
)

// Storefront serves the read-only parts of the site: menu, contact and the
// booking and enquiry deep links.
type Storefront struct {
	catalogs CatalogProvider
	brand    string
	fallback domain.Contact
}

func NewStorefront(catalogs CatalogProvider, brand string, fallback domain.Contact) *Storefront {
	return &Storefront{catalogs: catalogs, brand: brand, fallback: fallback}
}

type MenuView struct {
	Loaded     bool               `json:"loaded"`
	Categories []domain.Category  `json:"categories"`
	Offers     []domain.OfferItem `json:"offers"`
}

type LinkOutput struct {
	URL     string `json:"url"`
	Message string `json:"message"`
}

func (f *Storefront) Menu(search string) MenuView {
	c := f.catalogs.Current()
	offers := c.OfferItems()
	if offers == nil {
		offers = []domain.OfferItem{}
	}
	return MenuView{Loaded: c != nil, Categories: c.Menu(search), Offers: offers}
}

// Contact merges the catalog contact block over the configured defaults.
func (f *Storefront) Contact() domain.Contact {
	out := f.fallback
	if c := f.catalogs.Current(); c != nil {
		if c.Contact.Phone != "" {
			out.Phone = c.Contact.Phone
		}
		if c.Contact.WhatsApp != "" {
			out.WhatsApp = c.Contact.WhatsApp
		}
		if c.Contact.DirectionsURL != "" {
			out.DirectionsURL = c.Contact.DirectionsURL
		}
	}
	return out
}

func (f *Storefront) Booking(bk domain.Booking) (LinkOutput, error) {
	if err := bk.Validate(); err != nil {
		return LinkOutput{}, err
	}
	text := bk.Message(f.brand)
	return LinkOutput{URL: domain.WhatsAppLink(f.Contact().WhatsApp, text), Message: text}, nil
}

func (f *Storefront) Enquiry() LinkOutput {
	text := "Hello! I want to enquire about " + f.brand + "."
	return LinkOutput{URL: domain.WhatsAppLink(f.Contact().WhatsApp, text), Message: text}
}
