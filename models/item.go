package models

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/utils"
)

// Item is a stocked product. TaxPercent is the item's stored rate, used only
// when the HSN master has no entry for its code.
type Item struct {
	ID            int             `gorm:"primary_key" json:"id"`
	DistributorId string          `gorm:"index;not null" json:"distributor_id"`
	Name          string          `gorm:"index;size:255;not null" json:"name" binding:"required"`
	HsnCode       string          `gorm:"index;size:10" json:"hsn_code"`
	Unit          string          `gorm:"size:20" json:"unit"`
	TaxPercent    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_percent"`
	PurchasePrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"purchase_price"`
	SalePrice     decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"sale_price"`
	IsActive      *bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *Item) GetId() int {
	return i.ID
}

type NewItem struct {
	Name          string          `json:"name" binding:"required"`
	HsnCode       string          `json:"hsn_code"`
	Unit          string          `json:"unit"`
	TaxPercent    decimal.Decimal `json:"tax_percent"`
	PurchasePrice decimal.Decimal `json:"purchase_price"`
	SalePrice     decimal.Decimal `json:"sale_price"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewItem) validate(ctx context.Context, distributorId string, id int) error {
	// name
	if err := utils.ValidateUnique[Item](ctx, distributorId, "name", input.Name, id); err != nil {
		return err
	}
	return nil
}

func CreateItem(ctx context.Context, distributorId string, input *NewItem) (*Item, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	if err := input.validate(ctx, distributorId, 0); err != nil {
		return nil, err
	}

	item := Item{
		DistributorId: distributorId,
		Name:          input.Name,
		HsnCode:       input.HsnCode,
		Unit:          input.Unit,
		TaxPercent:    input.TaxPercent,
		PurchasePrice: input.PurchasePrice,
		SalePrice:     input.SalePrice,
		IsActive:      utils.NewTrue(),
	}

	db := config.GetDB()
	// db action
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetItem(ctx context.Context, distributorId string, id int) (*Item, error) {
	return utils.FetchModel[Item](ctx, distributorId, id)
}

func GetItemsAll(ctx context.Context, distributorId string, name *string) ([]*Item, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	db := config.GetDB()
	var results []*Item
	dbCtx := db.WithContext(ctx).Where("distributor_id = ?", distributorId)
	if name != nil && len(*name) > 0 {
		dbCtx = dbCtx.Where("name LIKE ?", "%"+*name+"%")
	}
	if err := dbCtx.Order("name").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
