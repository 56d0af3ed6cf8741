// Package money holds the fixed-point currency helpers shared by the
// ingestion pipeline and the report builders. All amounts are decimals with
// two fractional digits; rounding is half-up away from zero.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the scale every stored currency amount is rounded to.
const Places = 2

var Zero = decimal.Zero

// Round2 rounds to two fractional digits, half-up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Coerce converts a raw spreadsheet cell into a currency amount. Blank cells,
// unparsable values and anything excelize hands back that is not a number
// collapse to 0.00 rather than failing the row.
func Coerce(cell string) decimal.Decimal {
	cleaned := sanitize(cell)
	if cleaned == "" {
		return Zero
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero
	}
	return Round2(d)
}

// sanitize strips thousands separators, currency markers and surrounding
// whitespace, keeping digits, one leading minus and the decimal point.
// Filtering starts at the first digit so the dot in a prefix like "Rs." is
// not mistaken for a decimal separator.
func sanitize(raw string) string {
	s := strings.TrimSpace(raw)
	start := strings.IndexFunc(s, func(r rune) bool { return r >= '0' && r <= '9' })
	if start == -1 {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s) - start + 1)
	if strings.ContainsRune(s[:start], '-') {
		b.WriteByte('-')
	}
	for _, r := range s[start:] {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), ".")
}

// MustParse is a test and fixture helper for literal amounts.
func MustParse(value string) decimal.Decimal {
	return Round2(decimal.RequireFromString(value))
}
