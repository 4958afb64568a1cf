package utils

import (
	"context"
	"errors"
	"reflect"

	"github.com/vittabooks/distributor_backend/config"
)

// check if id exists, scoped by distributor_id, return RecordNotFound error
func ValidateResourceId[T any](ctx context.Context, distributorId string, id interface{}) error {

	count, err := ResourceCountWhere[T](ctx, distributorId, "id = ?", id)
	if err != nil {
		return err
	}
	if count <= 0 {
		return ErrorRecordNotFound
	}

	return nil
}

// check if ALL ids exist, scoped by distributor_id, return RecordNotFound error
func ValidateResourcesId[M any, ID comparable](ctx context.Context, distributorId string, ids []ID) error {
	unqIds := UniqueSlice(ids)

	count, err := ResourceCountWhere[M](ctx, distributorId, "id IN ?", unqIds)
	if err != nil {
		return err
	}
	if count != int64(len(unqIds)) {
		return ErrorRecordNotFound
	}

	return nil
}

func ValidateUnique[T any](ctx context.Context, distributorId string, column string, value interface{}, exceptId interface{}) error {
	var count int64
	var err error
	if reflect.ValueOf(exceptId).IsZero() {
		count, err = ResourceCountWhere[T](ctx, distributorId, column+" = ?", value)
	} else {
		count, err = ResourceCountWhere[T](ctx, distributorId, column+" = ? AND NOT id = ?", value, exceptId)
	}

	if err != nil {
		return err
	}
	if count > 0 {
		return errors.New("duplicate " + column)
	}
	return nil
}

// count records, using WHERE distributor_id = ? AND $condition
// distributor_id can be blank for admin tooling
func ResourceCountWhere[T any](ctx context.Context, distributorId string, condition string, value ...interface{}) (int64, error) {
	var model T

	db := config.GetDB()
	dbCtx := db.WithContext(ctx).Model(&model)
	var count int64
	if distributorId != "" {
		dbCtx = dbCtx.Where("distributor_id = ?", distributorId)
	}
	dbCtx = dbCtx.Where(condition, value...)
	if err := dbCtx.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
