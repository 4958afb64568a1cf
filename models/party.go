package models

import (
	"context"
	"errors"
	"time"

	"github.com/vittabooks/distributor_backend/config"
	"github.com/vittabooks/distributor_backend/utils"
)

// Party is a customer or supplier. Each party owns exactly one ledger account;
// the posting engine debits/credits the party through that ledger.
type Party struct {
	ID            int       `gorm:"primary_key" json:"id"`
	DistributorId string    `gorm:"index;not null" json:"distributor_id"`
	Name          string    `gorm:"index;size:100;not null" json:"name" binding:"required"`
	Gstin         string    `gorm:"size:15" json:"gstin"`
	StateCode     string    `gorm:"size:2" json:"state_code"`
	Phone         string    `gorm:"size:20" json:"phone"`
	Email         string    `gorm:"size:100" json:"email"`
	Address       string    `gorm:"type:text" json:"address"`
	LedgerId      int       `gorm:"index;not null" json:"ledger_id"`
	IsActive      *bool     `gorm:"not null;default:true" json:"is_active"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (p *Party) GetId() int {
	return p.ID
}

type NewParty struct {
	Name      string `json:"name" binding:"required"`
	Gstin     string `json:"gstin"`
	StateCode string `json:"state_code"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Address   string `json:"address"`
}

// validate input for both create & update. (id = 0 for create)

func (input *NewParty) validate(ctx context.Context, distributorId string, id int) error {
	// name
	if err := utils.ValidateUnique[Party](ctx, distributorId, "name", input.Name, id); err != nil {
		return err
	}
	if input.Phone != "" {
		if err := utils.ValidatePhoneNumber(input.Phone, utils.CountryCode); err != nil {
			return errors.New("phone number is not valid")
		}
	}
	if input.Email != "" && !utils.IsValidEmail(input.Email) {
		return errors.New("email is not valid")
	}
	if input.Gstin != "" && !utils.IsValidGstin(input.Gstin) {
		return errors.New("gstin is not valid")
	}
	return nil
}

func partyCacheKey(distributorId string) string {
	return distributorId + "-parties"
}

func CreateParty(ctx context.Context, distributorId string, input *NewParty) (*Party, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	if err := input.validate(ctx, distributorId, 0); err != nil {
		return nil, err
	}

	party := Party{
		DistributorId: distributorId,
		Name:          input.Name,
		Gstin:         input.Gstin,
		StateCode:     input.StateCode,
		Phone:         input.Phone,
		Email:         input.Email,
		Address:       input.Address,
		IsActive:      utils.NewTrue(),
	}

	db := config.GetDB()
	// db action: party and its ledger account in one unit
	tx := db.Begin()
	ledger := Ledger{
		DistributorId:   distributorId,
		Name:            input.Name,
		LedgerGroup:     LedgerGroupParty,
		IsActive:        utils.NewTrue(),
		IsSystemDefault: utils.NewFalse(),
	}
	if err := tx.WithContext(ctx).Create(&ledger).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	party.LedgerId = ledger.ID
	if err := tx.WithContext(ctx).Create(&party).Error; err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit().Error; err != nil {
		return nil, err
	}

	config.DeleteRedisKey(partyCacheKey(distributorId))
	return &party, nil
}

func GetParty(ctx context.Context, distributorId string, id int) (*Party, error) {
	return utils.FetchModel[Party](ctx, distributorId, id)
}

func GetPartiesAll(ctx context.Context, distributorId string) ([]*Party, error) {
	if distributorId == "" {
		return nil, errors.New("distributor id is required")
	}

	// read-through cache; a cold or absent redis falls back to db
	var cached []*Party
	if found, err := config.GetRedisObject(partyCacheKey(distributorId), &cached); err == nil && found {
		return cached, nil
	}

	results, err := utils.FetchAllModels[Party](ctx, distributorId)
	if err != nil {
		return nil, err
	}
	config.SetRedisObject(partyCacheKey(distributorId), results, time.Hour)
	return results, nil
}
