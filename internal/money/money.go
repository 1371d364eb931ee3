// Package money parses and formats the rupee amounts users type into
// profile fields. Stored values are canonical decimal strings; the ₹ prefix
// and digit grouping only exist at the edges.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const rupee = "₹"

var ErrInvalidAmount = errors.New("invalid amount")

// Parse accepts "12500", "12,500.50", "₹ 1,25,000" and similar. Negative
// values are rejected.
func Parse(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, rupee)
	clean = strings.TrimPrefix(clean, "INR")
	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// Canonical is the storage form: no grouping, no trailing zeros.
func Canonical(d decimal.Decimal) string {
	return d.String()
}

// FormatINR renders d rounded to whole rupees with Indian digit grouping,
// e.g. ₹1,25,000. Negative values keep their sign after the symbol.
func FormatINR(d decimal.Decimal) string {
	r := d.Round(0)
	neg := r.IsNegative()
	digits := r.Abs().String()

	var b strings.Builder
	b.WriteString(rupee)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(groupIndian(digits))
	return b.String()
}

// FromFloat converts ledger amounts, which are float64 in storage.
func FromFloat(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// groupIndian places a comma after the last three digits and then after
// every two: 1234567 -> 12,34,567.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
	var parts []string
	for len(head) > 2 {
		parts = append([]string{head[len(head)-2:]}, parts...)
		head = head[:len(head)-2]
	}
	if head != "" {
		parts = append([]string{head}, parts...)
	}
	return strings.Join(parts, ",") + "," + tail
}
