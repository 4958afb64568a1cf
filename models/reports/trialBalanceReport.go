package reports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/vittabooks/distributor_backend/config"
)

type TrialBalanceRow struct {
	LedgerId    int             `json:"LedgerId"`
	LedgerName  string          `json:"LedgerName"`
	LedgerGroup string          `json:"LedgerGroup"`
	Debit       decimal.Decimal `json:"Debit"`
	Credit      decimal.Decimal `json:"Credit"`
}

// GetTrialBalanceReport lays out every ledger's closing balance on its
// natural side. Balances are stored debit-positive, so a negative closing
// balance lands in the credit column.
func GetTrialBalanceReport(ctx context.Context, distributorId string) ([]*TrialBalanceRow, error) {

	sql := `
SELECT
    ledgers.id AS ledger_id,
    ledgers.name AS ledger_name,
    ledgers.ledger_group,
    CASE WHEN ledgers.closing_balance >= 0 THEN ledgers.closing_balance ELSE 0 END AS debit,
    CASE WHEN ledgers.closing_balance < 0 THEN - ledgers.closing_balance ELSE 0 END AS credit
FROM
    ledgers
WHERE
    ledgers.distributor_id = @distributorId
        AND ledgers.is_active = TRUE
ORDER BY ledgers.ledger_group , ledgers.name;
`

	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	var records []*TrialBalanceRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"distributorId": distributorId,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}
