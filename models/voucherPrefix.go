package models

import (
	"context"
	"errors"
	"time"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/utils"
	"gorm.io/gorm"
)

// VoucherPrefix configures numbering for one voucher type of one distributor.
// One default per type is expected, but the allocator tolerates zero or many.
type VoucherPrefix struct {
	ID            int         `gorm:"primary_key" json:"id"`
	DistributorId string      `gorm:"index;not null" json:"distributor_id"`
	VoucherType   VoucherType `gorm:"type:enum('SI','PI','SQ','SO','SE','DC','DN','CN','PV','RV','JE','GP','GE','GI','TCS','TDS','SP');index;not null" json:"voucher_type" binding:"required"`
	Prefix        string      `gorm:"size:10;not null" json:"prefix" binding:"required"`
	Separator     string      `gorm:"size:3;default:'/'" json:"separator"`
	YearFormat    string      `gorm:"size:10" json:"year_format"`
	AutoStartNo   int64       `gorm:"not null;default:1" json:"auto_start_no"`
	IsDefault     *bool       `gorm:"not null;default:false" json:"is_default"`
	IsActive      *bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewVoucherPrefix struct {
	VoucherType VoucherType `json:"voucher_type" binding:"required"`
	Prefix      string      `json:"prefix" binding:"required"`
	Separator   string      `json:"separator"`
	YearFormat  string      `json:"year_format"`
	AutoStartNo int64       `json:"auto_start_no"`
	IsDefault   bool        `json:"is_default"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewVoucherPrefix) validate(ctx context.Context, distributorId string, id int) error {
	if !input.VoucherType.IsValid() {
		return errors.New("invalid voucher type")
	}
	return nil
}

func CreateVoucherPrefix(ctx context.Context, distributorId string, input *NewVoucherPrefix) (*VoucherPrefix, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	if err := input.validate(ctx, distributorId, 0); err != nil {
		return nil, err
	}

	separator := input.Separator
	if separator == "" {
		separator = "/"
	}
	autoStartNo := input.AutoStartNo
	if autoStartNo <= 0 {
		autoStartNo = 1
	}

	prefix := VoucherPrefix{
		DistributorId: distributorId,
		VoucherType:   input.VoucherType,
		Prefix:        input.Prefix,
		Separator:     separator,
		YearFormat:    input.YearFormat,
		AutoStartNo:   autoStartNo,
		IsDefault:     &input.IsDefault,
		IsActive:      utils.NewTrue(),
	}

	db := config.GetDB()
	// db action
	tx := db.Begin()
	// only one default per voucher type
	if input.IsDefault {
		if err := tx.WithContext(ctx).Model(&VoucherPrefix{}).
			Where("distributor_id = ? AND voucher_type = ?", distributorId, input.VoucherType).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Create(&prefix).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return &prefix, nil
}

func UpdateVoucherPrefix(ctx context.Context, distributorId string, id int, input *NewVoucherPrefix) (*VoucherPrefix, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}
	if err := input.validate(ctx, distributorId, id); err != nil {
		return nil, err
	}

	prefix, err := utils.FetchModel[VoucherPrefix](ctx, distributorId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	tx := db.Begin()
	if input.IsDefault {
		if err := tx.WithContext(ctx).Model(&VoucherPrefix{}).
			Where("distributor_id = ? AND voucher_type = ? AND NOT id = ?", distributorId, input.VoucherType, id).
			Update("is_default", false).Error; err != nil {
			tx.Rollback()
			return nil, err
		}
	}
	if err := tx.WithContext(ctx).Model(&prefix).Updates(map[string]interface{}{
		"Prefix":      input.Prefix,
		"Separator":   input.Separator,
		"YearFormat":  input.YearFormat,
		"AutoStartNo": input.AutoStartNo,
		"IsDefault":   input.IsDefault,
	}).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}
	return prefix, nil
}

func DeactivateVoucherPrefix(ctx context.Context, distributorId string, id int) (*VoucherPrefix, error) {
	prefix, err := utils.FetchModel[VoucherPrefix](ctx, distributorId, id)
	if err != nil {
		return nil, err
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Model(&prefix).Updates(map[string]interface{}{
		"IsActive":  false,
		"IsDefault": false,
	}).Error; err != nil {
		return nil, err
	}
	return prefix, nil
}

// GetVoucherPrefixes returns all active prefixes configured for a type.
func GetVoucherPrefixes(ctx context.Context, db *gorm.DB, distributorId string, voucherType VoucherType) ([]*VoucherPrefix, error) {
	var results []*VoucherPrefix
	err := db.WithContext(ctx).
		Where("distributor_id = ? AND voucher_type = ? AND is_active = true", distributorId, voucherType).
		Order("is_default DESC, id").
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
