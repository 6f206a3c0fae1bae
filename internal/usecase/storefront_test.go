package usecase

import (
	"net/url"
	"testing"

	domain "github.com/aq2208/gorder-cart/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fallbackContact = domain.Contact{Phone: "+91 11111 11111", WhatsApp: "+91 22222 22222", DirectionsURL: "https://maps.example/lf"}

func TestStorefront_MenuNotLoaded(t *testing.T) {
	f := NewStorefront(staticCatalogs{}, "Lucky Food", fallbackContact)

	m := f.Menu("")
	assert.False(t, m.Loaded)
	assert.NotNil(t, m.Categories)
	assert.Empty(t, m.Categories)
	assert.NotNil(t, m.Offers)

	assert.Equal(t, fallbackContact, f.Contact())
}

func TestStorefront_MenuSearch(t *testing.T) {
	f := NewStorefront(staticCatalogs{testCatalog()}, "Lucky Food", fallbackContact)

	m := f.Menu("butter")
	assert.True(t, m.Loaded)
	require.Len(t, m.Categories, 1)
	require.Len(t, m.Categories[0].Items, 1)
	assert.Equal(t, domain.ItemID("202"), m.Categories[0].Items[0].ID)
	assert.Len(t, m.Offers, 2)
}

func TestStorefront_ContactMergesCatalog(t *testing.T) {
	f := NewStorefront(staticCatalogs{testCatalog()}, "Lucky Food", fallbackContact)

	c := f.Contact()
	assert.Equal(t, "+91 93265-10688", c.WhatsApp)
	assert.Equal(t, fallbackContact.Phone, c.Phone)
	assert.Equal(t, fallbackContact.DirectionsURL, c.DirectionsURL)
}

func TestStorefront_Booking(t *testing.T) {
	f := NewStorefront(staticCatalogs{testCatalog()}, "Lucky Food", fallbackContact)

	_, err := f.Booking(domain.Booking{Name: "Asha", Phone: "98200"})
	var missing *domain.MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "date", missing.Field)

	out, err := f.Booking(domain.Booking{Name: "Asha", Phone: "98200", Date: "2026-03-10", Time: "20:00", Guests: "4"})
	require.NoError(t, err)
	u, err := url.Parse(out.URL)
	require.NoError(t, err)
	assert.Equal(t, "/+919326510688", u.Path)
	assert.Contains(t, u.Query().Get("text"), "Table Booking (Website)")
}

func TestStorefront_Enquiry(t *testing.T) {
	f := NewStorefront(staticCatalogs{}, "Lucky Food", fallbackContact)

	out := f.Enquiry()
	assert.Equal(t, "Hello! I want to enquire about Lucky Food.", out.Message)
	assert.Equal(t, "https://wa.me/+912222222222?text=Hello%21%20I%20want%20to%20enquire%20about%20Lucky%20Food.", out.URL)
}
