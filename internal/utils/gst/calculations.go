package gst

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)
var two = decimal.NewFromInt(2)

// TaxBreakdown is the computed tax for one inventory line.
type TaxBreakdown struct {
	TaxableAmount decimal.Decimal
	TaxAmount     decimal.Decimal
	CGST          decimal.Decimal
	SGST          decimal.Decimal
	IGST          decimal.Decimal
}

// ComputeLine computes the taxable amount, tax amount and CGST/SGST/IGST
// split for a single line.
//
// taxable = quantity*rate - discount, clamped at zero (a discount can never
// push a line negative). tax = taxable*gstRate/100 rounded half-even at the
// currency precision. An intra-state supply (placeOfSupply == homeState)
// splits the tax into CGST+SGST; anything else is IGST in full. The split
// always sums back to the tax amount exactly: CGST takes the half-even
// rounded half and SGST the remainder.
func ComputeLine(quantity, rate, discount, gstRatePercent decimal.Decimal, homeState, placeOfSupply string, precision int32) TaxBreakdown {
	taxable := quantity.Mul(rate).Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}
	taxable = taxable.RoundBank(precision)

	tax := taxable.Mul(gstRatePercent).Div(hundred).RoundBank(precision)

	bd := TaxBreakdown{
		TaxableAmount: taxable,
		TaxAmount:     tax,
		CGST:          decimal.Zero,
		SGST:          decimal.Zero,
		IGST:          decimal.Zero,
	}

	if IsIntraState(homeState, placeOfSupply) {
		half := tax.Div(two).RoundBank(precision)
		bd.CGST = half
		bd.SGST = tax.Sub(half)
	} else {
		bd.IGST = tax
	}
	return bd
}

// IsIntraState reports whether the supply stays within the company's home
// state. An empty place of supply defaults to the home state.
func IsIntraState(homeState, placeOfSupply string) bool {
	if placeOfSupply == "" {
		return true
	}
	return placeOfSupply == homeState
}
