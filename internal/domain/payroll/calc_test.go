package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"paysheet/internal/money"
)

func breakdown(basic, hra, variable, special, other string) CompensationBreakdown {
	return CompensationBreakdown{
		BasicPay:         money.MustParse(basic),
		HRA:              money.MustParse(hra),
		VariablePay:      money.MustParse(variable),
		SpecialAllowance: money.MustParse(special),
		OtherAllowances:  money.MustParse(other),
		OtherDeductions:  money.Zero,
	}
}

func TestCalculate(t *testing.T) {
	b := breakdown("50000", "10000", "5000", "2000", "1000")
	Calculate(&b)

	assert.Equal(t, "68000.00", b.GrossSalary.StringFixed(2))
	assert.Equal(t, "6000.00", b.ProvidentFund.StringFixed(2))
	assert.Equal(t, "200.00", b.ProfessionalTax.StringFixed(2))
	assert.Equal(t, "6308.33", b.IncomeTax.StringFixed(2))
	assert.Equal(t, "12508.33", b.TotalDeductions.StringFixed(2))
	assert.Equal(t, "55491.67", b.NetSalary.StringFixed(2))
	assert.True(t, b.TakeHomePay.Equal(b.NetSalary))
}

func TestCalculateProfessionalTaxThreshold(t *testing.T) {
	at := breakdown("15000", "0", "0", "0", "0")
	Calculate(&at)
	assert.Equal(t, "0.00", at.ProfessionalTax.StringFixed(2), "gross of exactly 15000 pays no professional tax")

	above := breakdown("15000.01", "0", "0", "0", "0")
	Calculate(&above)
	assert.Equal(t, "200.00", above.ProfessionalTax.StringFixed(2))
}

func TestCalculateIncomeTaxSlabs(t *testing.T) {
	tests := []struct {
		name  string
		basic string
		want  string
	}{
		// monthly gross × 12 lands in each slab
		{"below first slab", "20000", "0.00"},                // 240000 annual
		{"at first slab boundary", "20833.33", "0.00"},       // 249999.96 annual
		{"second slab", "25000", "208.33"},                   // 300000: 50000 × 5% / 12
		{"at second slab boundary", "41666.67", "1041.67"},   // 500000.04: still ~12500 / 12
		{"third slab", "50000", "2708.33"},                   // 600000: 12500 + 100000 × 20% / 12
		{"fourth slab", "100000", "14375.00"},                // 1200000: 112500 + 200000 × 30% / 12
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := breakdown(tc.basic, "0", "0", "0", "0")
			Calculate(&b)
			assert.Equal(t, tc.want, b.IncomeTax.StringFixed(2))
		})
	}
}

func TestMonthlyIncomeTaxBoundaries(t *testing.T) {
	// the slabs are continuous: tax at each boundary equals the accumulated
	// liability of the slabs below it, with no step
	tests := []struct {
		annual int64
		want   string
	}{
		{250000, "0.00"},
		{250012, "0.05"},     // 12 over the first slab at 5%
		{500000, "1041.67"},  // 12500 / 12
		{500012, "1041.87"},  // 12500 + 12 × 20%, / 12
		{1000000, "9375.00"}, // 112500 / 12
		{1000012, "9375.30"}, // 112500 + 12 × 30%, / 12
	}
	for _, tc := range tests {
		got := monthlyIncomeTax(decimal.NewFromInt(tc.annual))
		assert.Equal(t, tc.want, got.StringFixed(2), "annual gross %d", tc.annual)
	}
}

func TestCalculateZeroEarnings(t *testing.T) {
	b := breakdown("0", "0", "0", "0", "0")
	Calculate(&b)
	assert.Equal(t, "0.00", b.GrossSalary.StringFixed(2))
	assert.Equal(t, "0.00", b.TotalDeductions.StringFixed(2))
	assert.Equal(t, "0.00", b.NetSalary.StringFixed(2))
}

func TestCalculateIdempotent(t *testing.T) {
	b := breakdown("50000", "10000", "5000", "2000", "1000")
	Calculate(&b)
	first := b
	Calculate(&b)
	assert.Equal(t, first, b, "recalculating a calculated breakdown must not drift")
}

func TestCalculateGrossIdentity(t *testing.T) {
	b := breakdown("12345.67", "891.01", "23.45", "6.78", "9.10")
	Calculate(&b)
	sum := b.BasicPay.Add(b.HRA).Add(b.VariablePay).Add(b.SpecialAllowance).Add(b.OtherAllowances)
	assert.True(t, b.GrossSalary.Equal(money.Round2(sum)))
	assert.True(t, b.NetSalary.Equal(b.GrossSalary.Sub(b.TotalDeductions)))
}
