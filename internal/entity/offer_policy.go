package domain

type NoticeCode string

const (
	// NoticeOfferAutoRemoved is emitted when the offer line is dropped because
	// no regular item is left in the cart.
	NoticeOfferAutoRemoved NoticeCode = "OFFER_AUTO_REMOVED"
	// NoticeLineRepaired is emitted when a restored snapshot held a line that
	// broke the ledger rules and had to be fixed.
	NoticeLineRepaired NoticeCode = "LINE_REPAIRED"
)

type Notice struct {
	Code    NoticeCode `json:"code"`
	Message string     `json:"message"`
	Key     LineKey    `json:"key,omitempty"`
}

// Outcome is the result of a policy-checked mutation.
type Outcome struct {
	Changed bool
	Notices []Notice
}

// MaxQuantityDelta bounds a single quantity change in either direction.
const MaxQuantityDelta = 99

// ApplyQuantity validates an offer-aware mutation, applies it to the ledger
// and normalizes the result. A rejected mutation leaves the ledger untouched.
func ApplyQuantity(l *Ledger, item LineItem, delta int) (Outcome, error) {
	if delta > MaxQuantityDelta || delta < -MaxQuantityDelta {
		return Outcome{}, ErrInvalidQuantity
	}
	if item.IsOfferItem && delta > 0 {
		if l.CountWhere(IsRegular) == 0 {
			return Outcome{}, ErrOfferLocked
		}
		for _, line := range l.lines {
			if line.IsOfferItem && line.Qty >= 1 && line.Key() != item.Key() {
				return Outcome{}, ErrOfferAlreadyApplied
			}
		}
	}

	changed, err := l.SetQuantity(item, delta)
	if err != nil {
		return Outcome{}, err
	}
	notices := Normalize(l)
	return Outcome{Changed: changed || len(notices) > 0, Notices: notices}, nil
}

// Normalize repairs a ledger so that it satisfies the cart rules: no line with
// a non-positive quantity, at most one offer line with quantity 1, and no offer
// line without a regular item. It is idempotent.
func Normalize(l *Ledger) []Notice {
	var notices []Notice

	for _, k := range append([]LineKey(nil), l.order...) {
		line := l.lines[k]
		if line.Qty <= 0 {
			l.remove(k)
			notices = append(notices, Notice{Code: NoticeLineRepaired, Key: k, Message: "Removed an empty cart line."})
		}
	}

	var offerSeen bool
	for _, k := range append([]LineKey(nil), l.order...) {
		line := l.lines[k]
		if !line.IsOfferItem {
			continue
		}
		if offerSeen {
			l.remove(k)
			notices = append(notices, Notice{Code: NoticeLineRepaired, Key: k, Message: "Only one Today's Offer item is allowed per order."})
			continue
		}
		offerSeen = true
		if line.Qty > 1 {
			line.Qty = 1
			notices = append(notices, Notice{Code: NoticeLineRepaired, Key: k, Message: "Today's Offer is limited to 1 item per order."})
		}
	}

	if offerSeen && l.CountWhere(IsRegular) == 0 {
		for _, k := range append([]LineKey(nil), l.order...) {
			if l.lines[k].IsOfferItem {
				l.remove(k)
			}
		}
		notices = append(notices, Notice{
			Code:    NoticeOfferAutoRemoved,
			Message: "Today's Offer removed. Add any regular item to unlock it again.",
		})
	}
	return notices
}
