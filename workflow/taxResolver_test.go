package workflow

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
)

func TestSplitTaxRateIntraState(t *testing.T) {
	split := SplitTaxRate(decimal.NewFromInt(18), models.GstTreatmentIntraState)

	if !split.Cgst.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("cgst: expected 9, got %s", split.Cgst)
	}
	if !split.Sgst.Equal(decimal.NewFromInt(9)) {
		t.Fatalf("sgst: expected 9, got %s", split.Sgst)
	}
	if !split.Igst.IsZero() {
		t.Fatalf("igst: expected 0, got %s", split.Igst)
	}
	if !split.Cgst.Add(split.Sgst).Equal(split.Rate) {
		t.Fatalf("cgst+sgst should equal the full rate, got %s", split.Cgst.Add(split.Sgst))
	}
}

func TestSplitTaxRateInterState(t *testing.T) {
	split := SplitTaxRate(decimal.NewFromInt(18), models.GstTreatmentInterState)

	if !split.Igst.Equal(decimal.NewFromInt(18)) {
		t.Fatalf("igst: expected 18, got %s", split.Igst)
	}
	if !split.Cgst.IsZero() || !split.Sgst.IsZero() {
		t.Fatalf("inter-state must not carry cgst/sgst, got %s/%s", split.Cgst, split.Sgst)
	}
}

func TestSplitTaxRateOddRate(t *testing.T) {
	split := SplitTaxRate(decimal.NewFromInt(5), models.GstTreatmentIntraState)

	expected := decimal.NewFromFloat(2.5)
	if !split.Cgst.Equal(expected) || !split.Sgst.Equal(expected) {
		t.Fatalf("expected 2.5/2.5, got %s/%s", split.Cgst, split.Sgst)
	}
}

func TestSplitTaxRateZero(t *testing.T) {
	split := SplitTaxRate(decimal.Zero, models.GstTreatmentIntraState)

	if !split.Cgst.IsZero() || !split.Sgst.IsZero() || !split.Igst.IsZero() {
		t.Fatalf("zero rate must yield zero components, got %s/%s/%s", split.Cgst, split.Sgst, split.Igst)
	}
}
