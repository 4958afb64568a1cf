package utils

import (
	"context"

	"github.com/vittabooks/distributor_backend/appctx"
)

var (
	ContextKeyToken         = appctx.ContextKeyToken
	ContextKeyDistributorId = appctx.ContextKeyDistributorId
	ContextKeyUserId        = appctx.ContextKeyUserId
	ContextKeyCorrelationId = appctx.ContextKeyCorrelationId
)

// GetDistributorIdFromContext is the HTTP layer's source for the acting
// distributor. Engine functions never read it themselves; handlers extract the
// id here and pass it down as an explicit argument.
func GetDistributorIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyDistributorId)
}

func GetUserIdFromContext(ctx context.Context) (int, bool) {
	return appctx.GetInt(ctx, ContextKeyUserId)
}

func GetCorrelationIdFromContext(ctx context.Context) (string, bool) {
	return appctx.GetString(ctx, ContextKeyCorrelationId)
}

func SetTokenInContext(ctx context.Context, token string) context.Context {
	return appctx.Set(ctx, ContextKeyToken, token)
}

func SetDistributorIdInContext(ctx context.Context, distributorId string) context.Context {
	return appctx.Set(ctx, ContextKeyDistributorId, distributorId)
}

func SetUserIdInContext(ctx context.Context, userId int) context.Context {
	return appctx.Set(ctx, ContextKeyUserId, userId)
}

func SetCorrelationIdInContext(ctx context.Context, correlationId string) context.Context {
	return appctx.Set(ctx, ContextKeyCorrelationId, correlationId)
}
