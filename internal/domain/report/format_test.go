package report

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestGrouped(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "0.00"},
		{"123", "123.00"},
		{"68000", "68,000.00"},
		{"1234567.89", "1,234,567.89"},
		{"-1234.5", "-1,234.50"},
	}
	for _, tc := range cases {
		got := grouped(decimal.RequireFromString(tc.in))
		assert.Equal(t, tc.want, got, "grouped(%s)", tc.in)
	}
}

func TestInr(t *testing.T) {
	assert.Equal(t, "Rs. 55,491.67", inr(decimal.RequireFromString("55491.67")))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("excel")
	assert.NoError(t, err)
	assert.Equal(t, FormatExcel, f)

	f, err = ParseFormat("pdf")
	assert.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	_, err = ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestFormatMetadata(t *testing.T) {
	assert.Equal(t, ".xlsx", FormatExcel.Extension())
	assert.Equal(t, ".pdf", FormatPDF.Extension())
	assert.Equal(t, "application/pdf", FormatPDF.ContentType())
	assert.Contains(t, FormatExcel.ContentType(), "spreadsheetml")
}
