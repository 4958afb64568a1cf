package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/utils"
	"gorm.io/gorm"
)

// Voucher is a business document (invoice, payment, journal entry, ...).
// Once confirmed it is immutable except for the transition to Cancelled;
// cancellation is a reversing transition, never erasure.
type Voucher struct {
	ID            int           `gorm:"primary_key" json:"id"`
	DistributorId string        `gorm:"index;not null;uniqueIndex:idx_voucher_number,priority:1;index:idx_voucher_type_status,priority:1" json:"distributor_id"`
	VoucherType   VoucherType   `gorm:"type:enum('SI','PI','SQ','SO','SE','DC','DN','CN','PV','RV','JE','GP','GE','GI','TCS','TDS','SP');not null;uniqueIndex:idx_voucher_number,priority:2;index:idx_voucher_type_status,priority:2" json:"voucher_type"`
	VoucherNumber string        `gorm:"size:64;not null;uniqueIndex:idx_voucher_number,priority:3" json:"voucher_number"`
	SequenceNo    int64         `gorm:"not null" json:"sequence_no"`
	VoucherDate   time.Time     `gorm:"index;not null" json:"voucher_date"`
	PartyId       int           `gorm:"index" json:"party_id"`
	GstTreatment  GstTreatment  `gorm:"type:enum('Intra','Inter');default:'Intra';size:5" json:"gst_treatment"`
	Narration     string        `gorm:"type:text" json:"narration"`
	Status        VoucherStatus `gorm:"type:enum('Draft','Confirmed','Cancelled');default:'Draft';index;index:idx_voucher_type_status,priority:3;not null" json:"status"`

	// Monetary totals (document currency, decimal(20,4)).
	SubTotal       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sub_total"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxableAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"taxable_amount"`
	CgstAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst_amount"`
	SgstAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst_amount"`
	IgstAmount     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst_amount"`
	TcsPercent     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tcs_percent"`
	TcsAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tcs_amount"`
	EnableRoundOff *bool           `gorm:"not null;default:false" json:"enable_round_off"`
	RoundOff       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"round_off"`
	NetAmount      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"net_amount"`

	// Settlement fields (receipt/payment/GST settlement/TCS/TDS vouchers).
	SettlementLedgerId int             `gorm:"index" json:"settlement_ledger_id"`
	KasarAmount        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"kasar_amount"`

	// Cancellation linkage (metadata-only update path).
	CancelledAt        *time.Time `gorm:"index" json:"cancelled_at"`
	CancellationReason *string    `gorm:"type:text" json:"cancellation_reason"`

	LineItems []VoucherLineItem `gorm:"foreignKey:VoucherId" json:"line_items"`
	Postings  []LedgerPosting   `gorm:"foreignKey:VoucherId" json:"postings"`
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updated_at"`
}

func (v *Voucher) GetId() int {
	return v.ID
}

// VoucherLineItem is one priced line within a voucher. Created with the
// voucher, never mutated afterwards.
type VoucherLineItem struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DistributorId string          `gorm:"index;not null" json:"distributor_id"`
	VoucherId     int             `gorm:"index;not null" json:"voucher_id" binding:"required"`
	LineOrder     int             `gorm:"not null;default:0" json:"line_order"`
	ItemId        int             `gorm:"index" json:"item_id"`
	ItemName      string          `gorm:"size:255" json:"item_name"`
	Quantity      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"quantity"`
	Unit          string          `gorm:"size:20" json:"unit"`
	Rate          decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"rate"`
	DiscountPct   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_pct"`
	HsnCode       string          `gorm:"size:10" json:"hsn_code"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`

	// Computed by the line valuator at create time.
	Amount         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"amount"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"discount_amount"`
	TaxableAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"taxable_amount"`
	Cgst           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"cgst"`
	Sgst           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sgst"`
	Igst           decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"igst"`
	LineTotal      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"line_total"`
}

func (li VoucherLineItem) GetId() int {
	return li.ID
}

// Immutability guardrails, same policy as ledger postings:
// - vouchers are never hard-deleted; cancellation is a status transition.
// - after creation only lifecycle fields may change.

func (v *Voucher) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable voucher: vouchers cannot be deleted, cancel instead")
}

func (v *Voucher) BeforeUpdate(tx *gorm.DB) error {
	// Allow only lifecycle fields to be updated.
	allowed := map[string]bool{
		"Status":             true,
		"CancelledAt":        true,
		"CancellationReason": true,
		"UpdatedAt":          true,
	}
	if tx == nil || tx.Statement == nil || tx.Statement.Schema == nil {
		return nil
	}
	for _, f := range tx.Statement.Schema.Fields {
		if tx.Statement.Changed(f.Name) && !allowed[f.Name] {
			return errors.New("immutable voucher: only lifecycle fields may be updated")
		}
	}
	return nil
}

func (li *VoucherLineItem) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("immutable voucher: line items cannot be updated")
}

func (li *VoucherLineItem) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable voucher: line items cannot be deleted")
}

/* Inputs */

type NewVoucher struct {
	VoucherType  VoucherType  `json:"voucher_type" binding:"required"`
	SequenceNo   int64        `json:"sequence_no" binding:"required"`
	VoucherDate  time.Time    `json:"voucher_date" binding:"required"`
	PartyId      int          `json:"party_id"`
	GstTreatment GstTreatment `json:"gst_treatment"`
	Narration    string       `json:"narration"`
	SaveAsDraft  bool         `json:"save_as_draft"`

	TcsPercent     decimal.Decimal `json:"tcs_percent"`
	EnableRoundOff bool            `json:"enable_round_off"`

	SettlementLedgerId int             `json:"settlement_ledger_id"`
	Amount             decimal.Decimal `json:"amount"`
	KasarAmount        decimal.Decimal `json:"kasar_amount"`

	LineItems []NewVoucherLineItem `json:"line_items"`
	// Journal entry vouchers carry their postings explicitly.
	JournalPostings []NewJournalPosting `json:"journal_postings"`
}

type NewVoucherLineItem struct {
	ItemId      int             `json:"item_id"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Unit        string          `json:"unit"`
	Rate        decimal.Decimal `json:"rate"`
	DiscountPct decimal.Decimal `json:"discount_pct"`
}

type NewJournalPosting struct {
	LedgerId  int             `json:"ledger_id" binding:"required"`
	Narration string          `json:"narration"`
	Debit     decimal.Decimal `json:"debit"`
	Credit    decimal.Decimal `json:"credit"`
}

/* Reads */

type VouchersConnection struct {
	Edges    []*VouchersEdge `json:"edges"`
	PageInfo *PageInfo       `json:"pageInfo"`
}

type VouchersEdge struct {
	Cursor string   `json:"cursor"`
	Node   *Voucher `json:"node"`
}

func GetVoucher(ctx context.Context, distributorId string, id int) (*Voucher, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}
	return utils.FetchModel[Voucher](ctx, distributorId, id, "LineItems", "Postings")
}

func PaginateVouchers(ctx context.Context, distributorId string, voucherType *VoucherType, status *VoucherStatus, limit *int, after *string, fromDate *time.Time, toDate *time.Time) (*VouchersConnection, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	decodedCursor, _ := DecodeCursor(after)
	edges := make([]*VouchersEdge, *limit)
	count := 0
	hasNextPage := false

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Preload("LineItems").Where("distributor_id = ?", distributorId)
	if voucherType != nil && *voucherType != "" {
		dbCtx = dbCtx.Where("voucher_type = ?", voucherType)
	}
	if status != nil && *status != "" {
		dbCtx = dbCtx.Where("status = ?", status)
	}
	if fromDate != nil && toDate != nil {
		dbCtx = dbCtx.Where("voucher_date BETWEEN ? AND ?", fromDate, toDate)
	}

	// db query
	var results []*Voucher
	var err error
	if decodedCursor == "" {
		err = dbCtx.Order("created_at DESC").Limit(*limit + 1).Find(&results).Error
	} else {
		err = dbCtx.Order("created_at DESC").Limit(*limit+1).Where("created_at < ?", decodedCursor).Find(&results).Error
	}
	if err != nil {
		return nil, err
	}

	for _, result := range results {
		// If there are any elements left after the current page
		// we indicate that in the response
		if count == *limit {
			hasNextPage = true
		}

		if count < *limit {
			edges[count] = &VouchersEdge{
				Cursor: EncodeCursor(result.CreatedAt.String()),
				Node:   result,
			}
			count++
		}
	}

	pageInfo := PageInfo{
		StartCursor: "",
		EndCursor:   "",
		HasNextPage: &hasNextPage,
	}
	if count > 0 {
		pageInfo.StartCursor = EncodeCursor(edges[0].Node.CreatedAt.String())
		pageInfo.EndCursor = EncodeCursor(edges[count-1].Node.CreatedAt.String())
	}

	connection := VouchersConnection{
		Edges:    edges[:count],
		PageInfo: &pageInfo,
	}

	return &connection, nil
}
