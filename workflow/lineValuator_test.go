package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
)

func TestComputeLineIntraState(t *testing.T) {
	// 10 x 100 with 10% discount at 18% GST intra-state
	v := ComputeLine(decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(18), models.GstTreatmentIntraState)

	if !v.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("amount: expected 1000, got %s", v.Amount)
	}
	if !v.DiscountAmount.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("discount: expected 100, got %s", v.DiscountAmount)
	}
	if !v.TaxableAmount.Equal(decimal.NewFromInt(900)) {
		t.Fatalf("taxable: expected 900, got %s", v.TaxableAmount)
	}
	if !v.Cgst.Equal(decimal.NewFromInt(81)) || !v.Sgst.Equal(decimal.NewFromInt(81)) {
		t.Fatalf("cgst/sgst: expected 81/81, got %s/%s", v.Cgst, v.Sgst)
	}
	if !v.Igst.IsZero() {
		t.Fatalf("igst: expected 0, got %s", v.Igst)
	}
	if !v.LineTotal.Equal(decimal.NewFromInt(1062)) {
		t.Fatalf("line total: expected 1062, got %s", v.LineTotal)
	}
}

func TestComputeLineInterState(t *testing.T) {
	v := ComputeLine(decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(10), decimal.NewFromInt(18), models.GstTreatmentInterState)

	if !v.Igst.Equal(decimal.NewFromInt(162)) {
		t.Fatalf("igst: expected 162, got %s", v.Igst)
	}
	if !v.Cgst.IsZero() || !v.Sgst.IsZero() {
		t.Fatalf("cgst/sgst must be zero inter-state, got %s/%s", v.Cgst, v.Sgst)
	}
	if !v.LineTotal.Equal(decimal.NewFromInt(1062)) {
		t.Fatalf("line total: expected 1062, got %s", v.LineTotal)
	}
}

func TestComputeLineNoDiscount(t *testing.T) {
	v := ComputeLine(decimal.NewFromInt(3), decimal.NewFromFloat(33.33),
		decimal.Zero, decimal.NewFromInt(5), models.GstTreatmentIntraState)

	if !v.DiscountAmount.IsZero() {
		t.Fatalf("discount: expected 0, got %s", v.DiscountAmount)
	}
	if !v.TaxableAmount.Equal(decimal.NewFromFloat(99.99)) {
		t.Fatalf("taxable: expected 99.99, got %s", v.TaxableAmount)
	}
	// 99.99 * 5 / 200 = 2.49975, rounded at 4 places
	if !v.Cgst.Equal(v.Sgst) {
		t.Fatalf("cgst and sgst must match, got %s/%s", v.Cgst, v.Sgst)
	}
}

func TestComputeTotalsTcs(t *testing.T) {
	lines := []LineValuation{
		ComputeLine(decimal.NewFromInt(10), decimal.NewFromInt(100),
			decimal.NewFromInt(10), decimal.NewFromInt(18), models.GstTreatmentIntraState),
	}
	totals := ComputeTotals(lines, decimal.NewFromInt(1), false)

	// TCS at 1% on taxable + tax = 1062
	if !totals.TcsAmount.Equal(decimal.NewFromFloat(10.62)) {
		t.Fatalf("tcs: expected 10.62, got %s", totals.TcsAmount)
	}
	if !totals.NetAmount.Equal(decimal.NewFromFloat(1072.62)) {
		t.Fatalf("net: expected 1072.62, got %s", totals.NetAmount)
	}
	if !totals.RoundOff.IsZero() {
		t.Fatalf("round-off disabled, got %s", totals.RoundOff)
	}
}

func TestComputeTotalsRoundOff(t *testing.T) {
	lines := []LineValuation{
		ComputeLine(decimal.NewFromInt(1), decimal.NewFromFloat(1057.37),
			decimal.Zero, decimal.NewFromInt(18), models.GstTreatmentInterState),
	}
	totals := ComputeTotals(lines, decimal.Zero, true)

	one := decimal.NewFromInt(1)
	if totals.RoundOff.Abs().GreaterThanOrEqual(one) {
		t.Fatalf("round-off must stay inside (-1, 1), got %s", totals.RoundOff)
	}
	if !totals.NetAmount.Equal(totals.NetAmount.Round(0)) {
		t.Fatalf("rounded net must be a whole amount, got %s", totals.NetAmount)
	}
	preRound := totals.TaxableAmount.Add(totals.TaxAmount).Add(totals.TcsAmount)
	if !totals.NetAmount.Equal(preRound.Add(totals.RoundOff)) {
		t.Fatalf("net must equal pre-round total plus round-off")
	}
}

func TestComputeTotalsRoundOffBounded(t *testing.T) {
	one := decimal.NewFromInt(1)
	rates := []decimal.Decimal{
		decimal.NewFromFloat(99.99), decimal.NewFromFloat(100.47),
		decimal.NewFromFloat(0.01), decimal.NewFromFloat(12345.67),
		decimal.NewFromFloat(7.77),
	}
	for _, rate := range rates {
		lines := []LineValuation{
			ComputeLine(decimal.NewFromInt(7), rate, decimal.NewFromFloat(2.5),
				decimal.NewFromInt(12), models.GstTreatmentIntraState),
		}
		totals := ComputeTotals(lines, decimal.NewFromFloat(0.1), true)
		if totals.RoundOff.Abs().GreaterThanOrEqual(one) {
			t.Fatalf("rate %s: round-off out of bounds: %s", rate, totals.RoundOff)
		}
		if !totals.NetAmount.Equal(totals.NetAmount.Round(0)) {
			t.Fatalf("rate %s: net not whole: %s", rate, totals.NetAmount)
		}
	}
}

func TestComputeTotalsMultipleLines(t *testing.T) {
	lines := []LineValuation{
		ComputeLine(decimal.NewFromInt(2), decimal.NewFromInt(250),
			decimal.Zero, decimal.NewFromInt(18), models.GstTreatmentIntraState),
		ComputeLine(decimal.NewFromInt(5), decimal.NewFromInt(40),
			decimal.NewFromInt(5), decimal.NewFromInt(5), models.GstTreatmentIntraState),
	}
	totals := ComputeTotals(lines, decimal.Zero, false)

	if !totals.SubTotal.Equal(decimal.NewFromInt(700)) {
		t.Fatalf("sub total: expected 700, got %s", totals.SubTotal)
	}
	expectedTaxable := lines[0].TaxableAmount.Add(lines[1].TaxableAmount)
	if !totals.TaxableAmount.Equal(expectedTaxable) {
		t.Fatalf("taxable: expected %s, got %s", expectedTaxable, totals.TaxableAmount)
	}
	expectedNet := lines[0].LineTotal.Add(lines[1].LineTotal)
	if !totals.NetAmount.Equal(expectedNet) {
		t.Fatalf("net: expected %s, got %s", expectedNet, totals.NetAmount)
	}
}
