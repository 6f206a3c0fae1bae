package domain

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// OrderDraft is everything the order handoff text is built from.
type OrderDraft struct {
	Brand       string
	OrderType   OrderType
	Lines       []CartLine
	Bill        Bill
	Notes       string
	NameAddress string
}

func (d OrderDraft) Validate() error {
	if len(d.Lines) == 0 {
		return ErrEmptyCart
	}
	if strings.TrimSpace(d.NameAddress) == "" {
		return &MissingFieldError{Field: "nameAddress"}
	}
	return nil
}

// Message renders the WhatsApp order text.
func (d OrderDraft) Message() string {
	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}

	line("🍽️ *" + d.Brand + " – Website Order*")
	line("Order Type: *" + strings.ToUpper(string(d.OrderType)) + "*")
	line("")
	for _, l := range d.Lines {
		tag := ""
		if l.IsOfferItem {
			tag = " (Offer)"
		}
		line("• " + l.Name + tag + " — " + strconv.Itoa(l.Qty) + " x " + FormatINR(l.Price) + " = " + FormatINR(l.Total()))
	}
	line("")
	line("Subtotal: " + FormatINR(d.Bill.SubTotal))
	line("Discount: -" + FormatINR(d.Bill.Discount))
	line("GST (" + d.Bill.GSTPercent.String() + "): " + FormatINR(d.Bill.GST))
	line("Delivery Fee: " + FormatINR(d.Bill.DeliveryFee))
	line("*Total Payable: " + FormatINR(d.Bill.GrandTotal) + "*")
	line("")
	if n := strings.TrimSpace(d.Notes); n != "" {
		line("Notes: " + n)
	}
	if a := strings.TrimSpace(d.NameAddress); a != "" {
		line("Name & Address: " + a)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Booking is a table reservation request.
type Booking struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Date   string `json:"date"`
	Time   string `json:"time"`
	Guests string `json:"guests"`
	Note   string `json:"note"`
}

func (bk Booking) Validate() error {
	for _, f := range []struct{ name, v string }{
		{"name", bk.Name}, {"phone", bk.Phone}, {"date", bk.Date}, {"time", bk.Time}, {"guests", bk.Guests},
	} {
		if strings.TrimSpace(f.v) == "" {
			return &MissingFieldError{Field: f.name}
		}
	}
	return nil
}

func (bk Booking) Message(brand string) string {
	lines := []string{
		"🍽️ *" + brand + " – Table Booking (Website)*",
		"Name: " + strings.TrimSpace(bk.Name),
		"Phone: " + strings.TrimSpace(bk.Phone),
		"Date: " + bk.Date,
		"Time: " + bk.Time,
		"Guests: " + bk.Guests,
	}
	if n := strings.TrimSpace(bk.Note); n != "" {
		lines = append(lines, "Notes: "+n)
	}
	return strings.Join(lines, "\n")
}

var nonDialable = regexp.MustCompile(`[^\d+]`)

// WhatsAppLink builds a wa.me deep link with the text pre-filled.
func WhatsAppLink(number, text string) string {
	phone := nonDialable.ReplaceAllString(number, "")
	return "https://wa.me/" + phone + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}
