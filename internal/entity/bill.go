package domain

import "fmt"

type OrderType string

const (
	OrderDelivery OrderType = "delivery"
	OrderPickup   OrderType = "pickup"
)

func ParseOrderType(s string) (OrderType, error) {
	switch t := OrderType(normalize(s)); t {
	case OrderDelivery, OrderPickup:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderType, s)
	}
}

// DeliveryRule charges Fee on delivery orders whose total is below FreeAbove.
type DeliveryRule struct {
	Fee       Amount
	FreeAbove Amount
}

var DefaultDeliveryRule = DeliveryRule{Fee: 50, FreeAbove: 200}

type Pricing struct {
	Slabs        []DiscountSlab
	GSTPercent   Percent
	DeliveryRule DeliveryRule
}

// Bill is derived from a ledger on every read and never stored.
type Bill struct {
	SubTotal        Amount  `json:"subTotal"`
	NormalSub       Amount  `json:"normalSub"`
	OfferSub        Amount  `json:"offerSub"`
	DiscountPercent Percent `json:"discountPercent"`
	Discount        Amount  `json:"discount"`
	AfterDiscount   Amount  `json:"afterDiscount"`
	GSTPercent      Percent `json:"gstPercent"`
	GST             Amount  `json:"gst"`
	Total           Amount  `json:"total"`
	DeliveryFee     Amount  `json:"deliveryFee"`
	GrandTotal      Amount  `json:"grandTotal"`
	// FreeDeliveryGap is how much more the customer must add to drop the delivery fee.
	FreeDeliveryGap Amount `json:"freeDeliveryGap"`
}

// BestSlabPercent returns the highest percent among slabs whose threshold is met.
func BestSlabPercent(slabs []DiscountSlab, normalSub Amount) Percent {
	var best Percent
	for _, s := range slabs {
		if normalSub >= s.MinSubtotal && s.Percent > best {
			best = s.Percent
		}
	}
	return best
}

// ComputeBill prices a ledger. Offer lines are already discounted and never
// earn a slab discount. An empty ledger always yields the zero Bill.
func ComputeBill(l *Ledger, orderType OrderType, p Pricing) Bill {
	if l == nil || l.Count() == 0 {
		return Bill{}
	}

	b := Bill{
		SubTotal:   l.Subtotal(nil),
		NormalSub:  l.Subtotal(IsRegular),
		OfferSub:   l.Subtotal(IsOffer),
		GSTPercent: p.GSTPercent,
	}
	delivery := orderType == OrderDelivery
	if delivery {
		b.DiscountPercent = BestSlabPercent(p.Slabs, b.NormalSub)
		b.Discount = b.DiscountPercent.Apply(b.NormalSub)
	}
	b.AfterDiscount = max(0, b.SubTotal-b.Discount)
	b.GST = p.GSTPercent.Apply(b.AfterDiscount)
	b.Total = b.AfterDiscount + b.GST
	if delivery && b.Total < p.DeliveryRule.FreeAbove {
		b.DeliveryFee = p.DeliveryRule.Fee
		b.FreeDeliveryGap = p.DeliveryRule.FreeAbove - b.Total
	}
	b.GrandTotal = b.Total + b.DeliveryFee
	return b
}
