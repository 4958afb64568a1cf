package workflow

import (
	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
)

var decimalOneHundred = decimal.NewFromInt(100)
var decimalTwoHundred = decimal.NewFromInt(200)

// LineValuation holds the computed money fields of one voucher line.
type LineValuation struct {
	Amount         decimal.Decimal `json:"amount"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	Cgst           decimal.Decimal `json:"cgst"`
	Sgst           decimal.Decimal `json:"sgst"`
	Igst           decimal.Decimal `json:"igst"`
	LineTotal      decimal.Decimal `json:"line_total"`
}

// ComputeLine is pure decimal arithmetic:
// amount = quantity*rate; discount = amount*discountPct/100;
// taxable = amount - discount; taxes per the CGST/SGST/IGST split;
// lineTotal = taxable + cgst + sgst + igst.
func ComputeLine(quantity, rate, discountPct, taxRate decimal.Decimal, treatment models.GstTreatment) LineValuation {
	amount := quantity.Mul(rate)

	var discountAmount decimal.Decimal
	if discountPct.GreaterThan(decimal.Zero) {
		discountAmount = amount.Mul(discountPct).DivRound(decimalOneHundred, 4)
	}
	taxable := amount.Sub(discountAmount)

	v := LineValuation{
		Amount:         amount,
		DiscountAmount: discountAmount,
		TaxableAmount:  taxable,
	}
	if treatment == models.GstTreatmentInterState {
		v.Igst = taxable.Mul(taxRate).DivRound(decimalOneHundred, 4)
	} else {
		half := taxable.Mul(taxRate).DivRound(decimalTwoHundred, 4)
		v.Cgst = half
		v.Sgst = half
	}
	v.LineTotal = taxable.Add(v.Cgst).Add(v.Sgst).Add(v.Igst)
	return v
}

// DocumentTotals aggregates line valuations into header totals.
type DocumentTotals struct {
	SubTotal       decimal.Decimal `json:"sub_total"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxableAmount  decimal.Decimal `json:"taxable_amount"`
	Cgst           decimal.Decimal `json:"cgst"`
	Sgst           decimal.Decimal `json:"sgst"`
	Igst           decimal.Decimal `json:"igst"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TcsAmount      decimal.Decimal `json:"tcs_amount"`
	RoundOff       decimal.Decimal `json:"round_off"`
	NetAmount      decimal.Decimal `json:"net_amount"`
}

// ComputeTotals sums the lines, applies TCS on (taxable + tax), and rounds
// the grand total to the nearest whole currency unit when enableRoundOff is
// set. RoundOff stays strictly inside (-1, 1) and the rounded net is integral
// in the currency's smallest denomination.
func ComputeTotals(lines []LineValuation, tcsPercent decimal.Decimal, enableRoundOff bool) DocumentTotals {
	totals := DocumentTotals{}
	for _, l := range lines {
		totals.SubTotal = totals.SubTotal.Add(l.Amount)
		totals.DiscountAmount = totals.DiscountAmount.Add(l.DiscountAmount)
		totals.TaxableAmount = totals.TaxableAmount.Add(l.TaxableAmount)
		totals.Cgst = totals.Cgst.Add(l.Cgst)
		totals.Sgst = totals.Sgst.Add(l.Sgst)
		totals.Igst = totals.Igst.Add(l.Igst)
	}
	totals.TaxAmount = totals.Cgst.Add(totals.Sgst).Add(totals.Igst)

	if tcsPercent.GreaterThan(decimal.Zero) {
		totals.TcsAmount = totals.TaxableAmount.Add(totals.TaxAmount).
			Mul(tcsPercent).DivRound(decimalOneHundred, 4)
	}

	preRound := totals.TaxableAmount.Add(totals.TaxAmount).Add(totals.TcsAmount)
	if enableRoundOff {
		totals.RoundOff = preRound.Round(0).Sub(preRound)
	}
	totals.NetAmount = preRound.Add(totals.RoundOff)
	return totals
}
