package utils

import (
	"context"

	"github.com/vittabooks/distributor_backend/config"
)

/* DB fetching */

// fetch model from db, scoped by distributor_id
// (may return RecordNotFound)
func FetchModel[T any](ctx context.Context, distributorId string, id int, associations ...string) (*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("distributor_id = ?", distributorId)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var result T
	err := dbCtx.First(&result, id).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return &result, nil
}

// fetch all models from db, scoped by distributor_id
func FetchAllModels[T any](ctx context.Context, distributorId string, associations ...string) ([]*T, error) {

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Where("distributor_id = ?", distributorId)
	// preloading
	for _, field := range associations {
		dbCtx = dbCtx.Preload(field)
	}
	var results []*T
	err := dbCtx.Find(&results).Error
	if err != nil {
		return nil, ErrorRecordNotFound
	}
	return results, nil
}
