package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/config"
	"gorm.io/gorm"
)

// LedgerPosting is one side of a double-entry movement. Exactly one of
// Debit/Credit is non-zero per row. A voucher's postings always sum to equal
// debit and credit totals before they are allowed to persist.
type LedgerPosting struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DistributorId string          `gorm:"index;not null;index:idx_lp_dist_ledger,priority:1" json:"distributor_id"`
	VoucherId     int             `gorm:"index;not null" json:"voucher_id" binding:"required"`
	LedgerId      int             `gorm:"index;not null;index:idx_lp_dist_ledger,priority:2" json:"ledger_id" binding:"required"`
	PostingOrder  int             `gorm:"not null;default:0" json:"posting_order"`
	Narration     string          `gorm:"size:255" json:"narration"`
	Debit         decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"debit"`
	Credit        decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"credit"`
	// Cancellation linkage: reversal rows are inserted, originals are never
	// touched. For a cancelled voucher the two sets net to zero per ledger.
	IsReversal        bool      `gorm:"not null;default:false;index" json:"is_reversal"`
	ReversesPostingId *int      `gorm:"index" json:"reverses_posting_id"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (p LedgerPosting) GetId() int {
	return p.ID
}

// Ledger immutability guardrails:
// - ledger_postings are append-only (no updates/deletes).

func (p *LedgerPosting) BeforeUpdate(tx *gorm.DB) error {
	return errors.New("immutable ledger: ledger_postings cannot be updated")
}

func (p *LedgerPosting) BeforeDelete(tx *gorm.DB) error {
	return errors.New("immutable ledger: ledger_postings cannot be deleted")
}

// GetVoucherPostings returns a voucher's postings in posting order,
// reversals included.
func GetVoucherPostings(ctx context.Context, distributorId string, voucherId int) ([]*LedgerPosting, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}
	db := config.GetDB()
	var results []*LedgerPosting
	err := db.WithContext(ctx).
		Where("distributor_id = ? AND voucher_id = ?", distributorId, voucherId).
		Order("is_reversal, posting_order").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
