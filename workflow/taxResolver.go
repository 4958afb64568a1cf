package workflow

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/models"
)

// TaxSplit is an applicable GST rate and its CGST/SGST/IGST decomposition,
// all in percent.
type TaxSplit struct {
	Rate decimal.Decimal `json:"rate"`
	Cgst decimal.Decimal `json:"cgst"`
	Sgst decimal.Decimal `json:"sgst"`
	Igst decimal.Decimal `json:"igst"`
}

var decimalTwo = decimal.NewFromInt(2)

// SplitTaxRate decomposes a GST rate by transaction classification:
// intra-state splits evenly into CGST and SGST, inter-state assigns the full
// rate to IGST. The classification comes from the voucher's GST treatment,
// never inferred here.
func SplitTaxRate(rate decimal.Decimal, treatment models.GstTreatment) TaxSplit {
	split := TaxSplit{Rate: rate}
	if treatment == models.GstTreatmentInterState {
		split.Igst = rate
		return split
	}
	half := rate.DivRound(decimalTwo, 4)
	split.Cgst = half
	split.Sgst = half
	return split
}

// ResolveTax looks up an HSN/SAC code in the master; a configured rate wins,
// an absent code falls back to the item's stored rate, and a missing fallback
// yields a zero rate. GST-exempt lines are a valid business state, not a
// fault, so no error is returned for unresolved codes.
func ResolveTax(ctx context.Context, distributorId string, hsnCode string, fallbackRate decimal.Decimal, treatment models.GstTreatment) (TaxSplit, error) {
	rate, found, err := models.LookupHsnRate(ctx, distributorId, hsnCode)
	if err != nil {
		return TaxSplit{}, err
	}
	if !found {
		rate = fallbackRate
	}
	return SplitTaxRate(rate, treatment), nil
}
