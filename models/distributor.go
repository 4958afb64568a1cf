package models

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/vittabooks/distributor_backend/config"
)

// Distributor is the owning tenant of all records. Every engine operation
// takes its id as an explicit argument.
type Distributor struct {
	ID        uuid.UUID `gorm:"type:char(36);primary_key" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name" binding:"required"`
	Gstin     string    `gorm:"size:15" json:"gstin"`
	StateCode string    `gorm:"size:2" json:"state_code"`
	IsActive  *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (d *Distributor) GetId() string {
	return d.ID.String()
}

func GetDistributor(ctx context.Context, id string) (*Distributor, error) {
	if id == "" {
		return nil, errors.New("distributor id is required")
	}
	db := config.GetDB()
	var result Distributor
	if err := db.WithContext(ctx).Where("id = ?", id).First(&result).Error; err != nil {
		return nil, err
	}
	return &result, nil
}

func CreateDistributor(ctx context.Context, name string, gstin string, stateCode string) (*Distributor, error) {
	distributor := Distributor{
		ID:        uuid.New(),
		Name:      name,
		Gstin:     gstin,
		StateCode: stateCode,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&distributor).Error; err != nil {
		return nil, err
	}
	return &distributor, nil
}
