package models

import (
	"database/sql/driver"
	"errors"
	"fmt"
)

type VoucherType string

const (
	VoucherTypeSalesInvoice    VoucherType = "SI"
	VoucherTypePurchaseInvoice VoucherType = "PI"
	VoucherTypeSalesQuotation  VoucherType = "SQ"
	VoucherTypeSalesOrder      VoucherType = "SO"
	VoucherTypeSalesEnquiry    VoucherType = "SE"
	VoucherTypeDeliveryChallan VoucherType = "DC"
	VoucherTypeDebitNote       VoucherType = "DN"
	VoucherTypeCreditNote      VoucherType = "CN"
	VoucherTypePayment         VoucherType = "PV"
	VoucherTypeReceipt         VoucherType = "RV"
	VoucherTypeJournalEntry    VoucherType = "JE"
	VoucherTypeGstPayment      VoucherType = "GP"
	VoucherTypeGstExpense      VoucherType = "GE"
	VoucherTypeGstIncome       VoucherType = "GI"
	VoucherTypeTcsPayment      VoucherType = "TCS"
	VoucherTypeTdsPayment      VoucherType = "TDS"
	VoucherTypeStockPacking    VoucherType = "SP"
)

var allVoucherTypes = []VoucherType{
	VoucherTypeSalesInvoice, VoucherTypePurchaseInvoice, VoucherTypeSalesQuotation,
	VoucherTypeSalesOrder, VoucherTypeSalesEnquiry, VoucherTypeDeliveryChallan,
	VoucherTypeDebitNote, VoucherTypeCreditNote, VoucherTypePayment,
	VoucherTypeReceipt, VoucherTypeJournalEntry, VoucherTypeGstPayment,
	VoucherTypeGstExpense, VoucherTypeGstIncome, VoucherTypeTcsPayment,
	VoucherTypeTdsPayment, VoucherTypeStockPacking,
}

func (t VoucherType) IsValid() bool {
	for _, v := range allVoucherTypes {
		if t == v {
			return true
		}
	}
	return false
}

// IsPosting reports whether vouchers of this type produce ledger postings.
// Quotations, orders, enquiries, challans and stock packing are document-only.
func (t VoucherType) IsPosting() bool {
	switch t {
	case VoucherTypeSalesQuotation, VoucherTypeSalesOrder, VoucherTypeSalesEnquiry,
		VoucherTypeDeliveryChallan, VoucherTypeStockPacking:
		return false
	}
	return true
}

func (t *VoucherType) Scan(value interface{}) error {
	s, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return fmt.Errorf("voucher type must be string, got %T", value)
		}
		*t = VoucherType(str)
		return nil
	}
	*t = VoucherType(s)
	return nil
}

func (t VoucherType) Value() (driver.Value, error) {
	if !t.IsValid() {
		return nil, errors.New("invalid voucher type")
	}
	return string(t), nil
}

type VoucherStatus string

const (
	VoucherStatusDraft     VoucherStatus = "Draft"
	VoucherStatusConfirmed VoucherStatus = "Confirmed"
	VoucherStatusCancelled VoucherStatus = "Cancelled"
)

type GstTreatment string

const (
	GstTreatmentIntraState GstTreatment = "Intra"
	GstTreatmentInterState GstTreatment = "Inter"
)

type LedgerGroup string

const (
	LedgerGroupParty    LedgerGroup = "Party"
	LedgerGroupCash     LedgerGroup = "Cash"
	LedgerGroupBank     LedgerGroup = "Bank"
	LedgerGroupSales    LedgerGroup = "Sales"
	LedgerGroupPurchase LedgerGroup = "Purchase"
	LedgerGroupTax      LedgerGroup = "Tax"
	LedgerGroupIncome   LedgerGroup = "Income"
	LedgerGroupExpense  LedgerGroup = "Expense"
	LedgerGroupDiscount LedgerGroup = "Discount"
)

// System ledger codes. Each distributor gets one ledger per code at seed time;
// the posting engine resolves ledgers through these, never by display name.
type SystemLedgerCode string

const (
	SystemLedgerCash       SystemLedgerCode = "CSH"
	SystemLedgerBank       SystemLedgerCode = "BNK"
	SystemLedgerSales      SystemLedgerCode = "SAL"
	SystemLedgerPurchase   SystemLedgerCode = "PUR"
	SystemLedgerOutputCgst SystemLedgerCode = "OCG"
	SystemLedgerOutputSgst SystemLedgerCode = "OSG"
	SystemLedgerOutputIgst SystemLedgerCode = "OIG"
	SystemLedgerInputCgst  SystemLedgerCode = "ICG"
	SystemLedgerInputSgst  SystemLedgerCode = "ISG"
	SystemLedgerInputIgst  SystemLedgerCode = "IIG"
	SystemLedgerKasar      SystemLedgerCode = "KSR"
	SystemLedgerRoundOff   SystemLedgerCode = "RND"
	SystemLedgerTcs        SystemLedgerCode = "TCS"
	SystemLedgerTds        SystemLedgerCode = "TDS"
	SystemLedgerGstPayable SystemLedgerCode = "GSP"
	SystemLedgerGstExpense SystemLedgerCode = "GEX"
	SystemLedgerGstIncome  SystemLedgerCode = "GIN"
)
