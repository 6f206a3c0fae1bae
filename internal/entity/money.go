package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Amount is a price in the smallest currency unit (whole rupees for this menu).
type Amount = int64

// Percent is a rate held in hundredths of a percent, so 5% is 500 and 2.5% is 250.
type Percent int64

const percentScale = 100 * 100

func PercentOf(p float64) Percent { return Percent(math.Round(p * 100)) }

func (p Percent) Float() float64 { return float64(p) / 100 }

func (p Percent) String() string {
	return strconv.FormatFloat(p.Float(), 'f', -1, 64) + "%"
}

func (p *Percent) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("percent %q: %w", string(b), err)
	}
	*p = PercentOf(f)
	return nil
}

func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(p.Float(), 'f', -1, 64)), nil
}

// Apply returns round(amount * p / 100) with halves rounded away from zero.
func (p Percent) Apply(amount Amount) Amount {
	return divRound(amount*int64(p), percentScale)
}

func divRound(num, den int64) int64 {
	q, r := num/den, num%den
	if r < 0 {
		r = -r
	}
	if 2*r >= den {
		if num < 0 {
			return q - 1
		}
		return q + 1
	}
	return q
}

var inrPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatINR renders an amount the way the menu prints prices, e.g. ₹1,200.
func FormatINR(v Amount) string {
	if v < 0 {
		return "-₹" + inrPrinter.Sprintf("%d", -v)
	}
	return "₹" + inrPrinter.Sprintf("%d", v)
}

// ItemID accepts both JSON strings and numbers; the catalog uses either.
type ItemID string

func (id *ItemID) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ItemID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("item id: %w", err)
	}
	*id = ItemID(n.String())
	return nil
}
