package payroll

import (
	"github.com/shopspring/decimal"

	"paysheet/internal/money"
)

var (
	pfRate = decimal.RequireFromString("0.12")

	profTaxThreshold = decimal.NewFromInt(15000)
	profTaxAmount    = decimal.NewFromInt(200)

	months = decimal.NewFromInt(12)

	slabOne   = decimal.NewFromInt(250000)
	slabTwo   = decimal.NewFromInt(500000)
	slabThree = decimal.NewFromInt(1000000)

	rateSlabTwo   = decimal.RequireFromString("0.05")
	rateSlabThree = decimal.RequireFromString("0.20")
	rateSlabFour  = decimal.RequireFromString("0.30")

	taxAtSlabTwo   = decimal.NewFromInt(12500)
	taxAtSlabThree = decimal.NewFromInt(112500)
)

// Calculate fills the derived fields of a breakdown from its five earning
// components and the externally supplied other-deductions amount. It is pure
// and deterministic: the same inputs always produce the same decimals, and
// nothing outside the one record is touched.
//
// Deductions follow the simplified statutory model: provident fund is 12% of
// basic pay; professional tax is a flat 200 once gross exceeds 15000 (exactly
// 15000 pays none); income tax annualizes gross, applies the progressive
// slabs, and divides back to a monthly figure. Every derived amount is rounded
// half-up to two places.
func Calculate(b *CompensationBreakdown) {
	b.GrossSalary = money.Round2(b.BasicPay.
		Add(b.HRA).
		Add(b.VariablePay).
		Add(b.SpecialAllowance).
		Add(b.OtherAllowances))

	b.ProvidentFund = money.Round2(b.BasicPay.Mul(pfRate))

	if b.GrossSalary.GreaterThan(profTaxThreshold) {
		b.ProfessionalTax = profTaxAmount
	} else {
		b.ProfessionalTax = decimal.Zero
	}

	b.IncomeTax = monthlyIncomeTax(b.GrossSalary.Mul(months))

	b.TotalDeductions = money.Round2(b.ProvidentFund.
		Add(b.ProfessionalTax).
		Add(b.IncomeTax).
		Add(b.OtherDeductions))

	b.NetSalary = money.Round2(b.GrossSalary.Sub(b.TotalDeductions))
	b.TakeHomePay = b.NetSalary
}

// monthlyIncomeTax applies the progressive slabs to an annualized gross and
// divides the annual liability back across twelve months.
func monthlyIncomeTax(annualGross decimal.Decimal) decimal.Decimal {
	var annual decimal.Decimal
	switch {
	case annualGross.LessThanOrEqual(slabOne):
		return decimal.Zero
	case annualGross.LessThanOrEqual(slabTwo):
		annual = annualGross.Sub(slabOne).Mul(rateSlabTwo)
	case annualGross.LessThanOrEqual(slabThree):
		annual = taxAtSlabTwo.Add(annualGross.Sub(slabTwo).Mul(rateSlabThree))
	default:
		annual = taxAtSlabThree.Add(annualGross.Sub(slabThree).Mul(rateSlabFour))
	}
	return money.Round2(annual.Div(months))
}
