package domain

import "sort"

// LineKey identifies a cart line. Offer lines live in their own namespace so an
// offer and a regular item sharing an id stay separate lines.
type LineKey string

const offerKeyPrefix = "offer:"

func KeyFor(id ItemID, offer bool) LineKey {
	if offer {
		return LineKey(offerKeyPrefix + string(id))
	}
	return LineKey(id)
}

// LineItem is the display and price snapshot captured when an item is added.
type LineItem struct {
	ID            ItemID  `json:"id"`
	Name          string  `json:"name"`
	Desc          string  `json:"desc"`
	Veg           bool    `json:"veg"`
	Image         string  `json:"image"`
	IsOfferItem   bool    `json:"isOfferItem"`
	OriginalPrice *Amount `json:"originalPrice"`
	OfferPrice    *Amount `json:"offerPrice"`
	Price         Amount  `json:"price"`
}

func (i LineItem) Key() LineKey { return KeyFor(i.ID, i.IsOfferItem) }

type CartLine struct {
	LineItem
	Qty int `json:"qty"`
}

func (l CartLine) Total() Amount { return l.Price * Amount(l.Qty) }

func IsOffer(l CartLine) bool   { return l.IsOfferItem }
func IsRegular(l CartLine) bool { return !l.IsOfferItem }

// Ledger is the live cart. It is not safe for concurrent use; callers hold
// the owning session's lock.
type Ledger struct {
	lines map[LineKey]*CartLine
	order []LineKey
}

func NewLedger() *Ledger {
	return &Ledger{lines: map[LineKey]*CartLine{}}
}

// SetQuantity adjusts a line by delta. It reports whether the ledger changed.
func (l *Ledger) SetQuantity(item LineItem, delta int) (bool, error) {
	key := item.Key()
	line, ok := l.lines[key]
	if !ok {
		if delta <= 0 {
			return false, nil
		}
		if item.IsOfferItem {
			delta = 1
		}
		l.put(CartLine{LineItem: item, Qty: delta})
		return true, nil
	}
	if delta == 0 {
		return false, nil
	}
	if line.IsOfferItem {
		if delta > 0 {
			return false, ErrOfferLimitExceeded
		}
		l.remove(key)
		return true, nil
	}
	line.Qty += delta
	if line.Qty <= 0 {
		l.remove(key)
	}
	return true, nil
}

func (l *Ledger) Line(key LineKey) (CartLine, bool) {
	line, ok := l.lines[key]
	if !ok {
		return CartLine{}, false
	}
	return *line, true
}

// Lines returns copies of all lines in the order they were added.
func (l *Ledger) Lines() []CartLine {
	out := make([]CartLine, 0, len(l.order))
	for _, k := range l.order {
		out = append(out, *l.lines[k])
	}
	return out
}

func (l *Ledger) Len() int { return len(l.order) }

// Count is the sum of all quantities.
func (l *Ledger) Count() int {
	return l.CountWhere(nil)
}

func (l *Ledger) CountWhere(pred func(CartLine) bool) int {
	n := 0
	for _, line := range l.lines {
		if pred == nil || pred(*line) {
			n += line.Qty
		}
	}
	return n
}

// Subtotal sums price*qty over lines matching pred, or all lines when pred is nil.
func (l *Ledger) Subtotal(pred func(CartLine) bool) Amount {
	var sum Amount
	for _, line := range l.lines {
		if pred == nil || pred(*line) {
			sum += line.Total()
		}
	}
	return sum
}

func (l *Ledger) Clear() {
	l.lines = map[LineKey]*CartLine{}
	l.order = nil
}

func (l *Ledger) put(line CartLine) {
	key := line.Key()
	if _, ok := l.lines[key]; !ok {
		l.order = append(l.order, key)
	}
	l.lines[key] = &line
}

func (l *Ledger) remove(key LineKey) {
	if _, ok := l.lines[key]; !ok {
		return
	}
	delete(l.lines, key)
	for i, k := range l.order {
		if k == key {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
}

// Snapshot is the persisted form: line key to line.
type Snapshot map[LineKey]CartLine

func (l *Ledger) Snapshot() Snapshot {
	snap := make(Snapshot, len(l.lines))
	for k, line := range l.lines {
		snap[k] = *line
	}
	return snap
}

// RestoreLedger rebuilds a ledger from a snapshot. Lines are re-keyed from
// their own id and offer flag, so a hand-edited key cannot alias another line.
// The result is not normalized; run Normalize before use.
func RestoreLedger(snap Snapshot) *Ledger {
	l := NewLedger()
	keys := make([]string, 0, len(snap))
	for k := range snap {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for _, k := range keys {
		line := snap[LineKey(k)]
		if line.ID == "" {
			continue
		}
		l.put(line)
	}
	return l
}
