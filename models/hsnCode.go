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

// HsnCode maps an HSN/SAC classification code to its configured GST rate.
// When a code is present here, its rate wins over the item's stored rate.
type HsnCode struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DistributorId string          `gorm:"index;not null;uniqueIndex:idx_hsn_dist_code,priority:1" json:"distributor_id"`
	Code          string          `gorm:"size:10;not null;uniqueIndex:idx_hsn_dist_code,priority:2" json:"code" binding:"required"`
	Description   string          `gorm:"size:255" json:"description"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`
	IsService     *bool           `gorm:"not null;default:false" json:"is_service"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (h *HsnCode) GetId() int {
	return h.ID
}

type NewHsnCode struct {
	Code        string          `json:"code" binding:"required"`
	Description string          `json:"description"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	IsService   bool            `json:"is_service"`
}

func CreateHsnCode(ctx context.Context, distributorId string, input *NewHsnCode) (*HsnCode, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	if err := utils.ValidateUnique[HsnCode](ctx, distributorId, "code", input.Code, 0); err != nil {
		return nil, err
	}

	hsn := HsnCode{
		DistributorId: distributorId,
		Code:          input.Code,
		Description:   input.Description,
		TaxPercent:    input.TaxPercent,
		IsService:     &input.IsService,
	}

	db := config.GetDB()
	// db action
	if err := db.WithContext(ctx).Create(&hsn).Error; err != nil {
		return nil, err
	}
	return &hsn, nil
}

// LookupHsnRate returns the configured rate for a code, reporting whether the
// code exists. An absent code is a valid state (caller falls back to the
// item's stored rate).
func LookupHsnRate(ctx context.Context, distributorId string, code string) (decimal.Decimal, bool, error) {
	if code == "" {
		return decimal.Zero, false, nil
	}
	db := config.GetDB()
	var hsn HsnCode
	err := db.WithContext(ctx).
		Where("distributor_id = ? AND code = ?", distributorId, code).
		First(&hsn).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return hsn.TaxPercent, true, nil
}

func GetHsnCodesAll(ctx context.Context, distributorId string) ([]*HsnCode, error) {
	return utils.FetchAllModels[HsnCode](ctx, distributorId)
}
