package workflow

import (
	"context"

	"gorm.io/gorm"

	"github.com/vittabooks/distributor_backend/models"
)

// ApplyPostings folds a voucher's postings into each ledger's closing
// balance. Balances are debit-positive. Must run inside the same
// transaction that inserts the postings.
func ApplyPostings(ctx context.Context, tx *gorm.DB, distributorId string, postings []models.LedgerPosting) error {
	for _, p := range postings {
		delta := p.Debit.Sub(p.Credit)
		if delta.IsZero() {
			continue
		}
		err := tx.WithContext(ctx).Model(&models.Ledger{}).
			Where("distributor_id = ? AND id = ?", distributorId, p.LedgerId).
			Update("closing_balance", gorm.Expr("closing_balance + ?", delta)).Error
		if err != nil {
			return err
		}
	}
	return nil
}

// ReversePostings undoes the balance effect of previously applied postings.
// Used by cancellation alongside the reversal posting rows.
func ReversePostings(ctx context.Context, tx *gorm.DB, distributorId string, postings []models.LedgerPosting) error {
	for _, p := range postings {
		delta := p.Credit.Sub(p.Debit)
		if delta.IsZero() {
			continue
		}
		err := tx.WithContext(ctx).Model(&models.Ledger{}).
			Where("distributor_id = ? AND id = ?", distributorId, p.LedgerId).
			Update("closing_balance", gorm.Expr("closing_balance + ?", delta)).Error
		if err != nil {
			return err
		}
	}
	return nil
}
