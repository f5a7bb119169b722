// Package payment holds the card-input formatting and method validation
// rules of the checkout page.
package payment

import (
	"slices"
	"strings"
	"unicode"

	"github.com/samirrijal/yatra/internal/core/domain"
)

const (
	TabCards      = "cards"
	TabWallets    = "wallets"
	TabNetbanking = "netbanking"
	TabUPI        = "upi"

	cardDigits   = 16
	expiryDigits = 4

	MsgMethodRequired = "Please select a payment method and enter required details"
)

// Tabs lists the payment method tabs in display order.
var Tabs = []string{TabCards, TabWallets, TabNetbanking, TabUPI}

// Options lists the choices offered under each non-card tab.
var Options = map[string][]string{
	TabWallets:    {"paytm", "phonepe", "amazonpay", "mobikwik"},
	TabNetbanking: {"sbi", "hdfc", "icici", "axis", "kotak"},
	TabUPI:        {"gpay", "phonepe", "paytm", "bhim"},
}

// Card is a card entered by hand.
type Card struct {
	Number string `json:"number"`
	Name   string `json:"name"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

func (c Card) complete() bool {
	return strings.TrimSpace(c.Number) != "" &&
		strings.TrimSpace(c.Name) != "" &&
		strings.TrimSpace(c.Expiry) != "" &&
		strings.TrimSpace(c.CVV) != ""
}

// Request is a pay-now submission.
type Request struct {
	BookingID string `json:"booking_id"`
	Tab       string `json:"tab"`
	SavedCard string `json:"saved_card,omitempty"`
	Card      *Card  `json:"card,omitempty"`
	Option    string `json:"option,omitempty"`
}

// Validate checks that the active tab has a usable method: a saved card or a
// fully entered card for cards, one of the listed options otherwise.
func (r Request) Validate() error {
	ok := false
	switch r.Tab {
	case TabCards:
		ok = r.SavedCard != "" || (r.Card != nil && r.Card.complete())
	case TabWallets, TabNetbanking, TabUPI:
		ok = slices.Contains(Options[r.Tab], r.Option)
	}
	if !ok {
		return domain.Invalid(MsgMethodRequired)
	}
	return nil
}

// Last4 returns the last four digits of the hand-entered card, if any.
func (r Request) Last4() string {
	if r.Tab != TabCards || r.Card == nil {
		return ""
	}
	d := digits(r.Card.Number, cardDigits)
	if len(d) < 4 {
		return ""
	}
	return d[len(d)-4:]
}

// Method returns the option label stored on the payment.
func (r Request) Method() string {
	if r.Tab == TabCards && r.SavedCard != "" {
		return r.SavedCard
	}
	return r.Option
}

// FormatCardNumber keeps the first 16 digits and groups them by four:
// "1234567890123456" becomes "1234 5678 9012 3456".
func FormatCardNumber(in string) string {
	d := digits(in, cardDigits)
	var b strings.Builder
	for i, r := range d {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatExpiry keeps the first four digits and inserts a slash once more
// than two are present: "1228" becomes "12/28", "12" stays "12".
func FormatExpiry(in string) string {
	d := digits(in, expiryDigits)
	if len(d) > 2 {
		return d[:2] + "/" + d[2:]
	}
	return d
}

func digits(in string, limit int) string {
	var b strings.Builder
	n := 0
	for _, r := range in {
		if n == limit {
			break
		}
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
			n++
		}
	}
	return b.String()
}
