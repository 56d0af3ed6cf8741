package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// currencyNumFmt renders spreadsheet currency cells with the rupee glyph;
// xlsx files carry their own fonts so the glyph is safe there. The PDF
// builders use inr instead because gofpdf's core fonts are cp1252 and cannot
// draw it.
const currencyNumFmt = `₹#,##0.00`

// inr formats an amount as "Rs. 1,234.56" with thousands grouping.
func inr(d decimal.Decimal) string {
	return "Rs. " + grouped(d)
}

// grouped renders two fixed decimals with comma-grouped integer digits.
func grouped(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.IndexByte(s, '.')
	intPart, frac := s[:dot], s[dot:]

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	b.WriteString(frac)
	return b.String()
}
