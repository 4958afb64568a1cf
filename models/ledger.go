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

// Ledger is a named account. ClosingBalance is a derived, debit-positive
// running total maintained only by the balance projector inside the same
// transaction as the posting write.
type Ledger struct {
	ID              int              `gorm:"primary_key" json:"id"`
	DistributorId   string           `gorm:"index;not null" json:"distributor_id"`
	Name            string           `gorm:"index;size:100;not null" json:"name" binding:"required"`
	LedgerGroup     LedgerGroup      `gorm:"type:enum('Party','Cash','Bank','Sales','Purchase','Tax','Income','Expense','Discount');default:'Expense';index;size:10;not null" json:"ledger_group" binding:"required"`
	SystemCode      SystemLedgerCode `gorm:"index;size:3" json:"system_code"`
	IsSystemDefault *bool            `gorm:"not null;default:false" json:"is_system_default"`
	IsActive        *bool            `gorm:"not null;default:true" json:"is_active"`
	ClosingBalance  decimal.Decimal  `gorm:"type:decimal(20,4);default:0" json:"closing_balance"`
	CreatedAt       time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

func (l *Ledger) GetId() int {
	return l.ID
}

type NewLedger struct {
	Name        string      `json:"name" binding:"required"`
	LedgerGroup LedgerGroup `json:"ledger_group" binding:"required"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewLedger) validate(ctx context.Context, distributorId string, id int) error {
	// name
	if err := utils.ValidateUnique[Ledger](ctx, distributorId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateLedger(ctx context.Context, distributorId string, input *NewLedger) (*Ledger, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	if err := input.validate(ctx, distributorId, 0); err != nil {
		return nil, err
	}

	ledger := Ledger{
		DistributorId:   distributorId,
		Name:            input.Name,
		LedgerGroup:     input.LedgerGroup,
		IsActive:        utils.NewTrue(),
		IsSystemDefault: utils.NewFalse(),
	}

	db := config.GetDB()
	// db action
	if err := db.WithContext(ctx).Create(&ledger).Error; err != nil {
		return nil, err
	}
	return &ledger, nil
}

func GetLedger(ctx context.Context, distributorId string, id int) (*Ledger, error) {
	return utils.FetchModel[Ledger](ctx, distributorId, id)
}

func GetLedgersAll(ctx context.Context, distributorId string, name *string) ([]*Ledger, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	db := config.GetDB()
	var results []*Ledger

	dbCtx := db.WithContext(ctx).Where("distributor_id = ?", distributorId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	// db query
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// GetSystemLedger resolves one of a distributor's seeded default ledgers.
// It takes the db handle so transactional callers see their own writes.
// A missing ledger is ErrorRecordNotFound; anything else is a store failure
// and passes through unchanged.
func GetSystemLedger(ctx context.Context, db *gorm.DB, distributorId string, code SystemLedgerCode) (*Ledger, error) {
	var ledger Ledger
	err := db.WithContext(ctx).
		Where("distributor_id = ? AND system_code = ?", distributorId, code).
		First(&ledger).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrorRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ledger, nil
}

// GetLedgerClosingBalance is a pure read used by report screens.
func GetLedgerClosingBalance(ctx context.Context, distributorId string, id int) (decimal.Decimal, error) {
	ledger, err := utils.FetchModel[Ledger](ctx, distributorId, id)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.ClosingBalance, nil
}
