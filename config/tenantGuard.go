package config

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vittabooks/distributor_backend/appctx"
)

// TenantGuardPlugin enforces multi-tenant isolation by automatically scoping
// queries/updates/deletes to the session's distributor_id when the model has
// a distributor_id column.
//
// NOTE:
// - This does NOT apply to Raw SQL queries. Those must include distributor_id manually.
// - Contexts without a distributor (seed tooling, internal jobs) are not scoped.
type TenantGuardPlugin struct{}

func NewTenantGuardPlugin() *TenantGuardPlugin { return &TenantGuardPlugin{} }

func (p *TenantGuardPlugin) Name() string { return "tenant_guard" }

func (p *TenantGuardPlugin) Initialize(db *gorm.DB) error {
	// Query
	if err := db.Callback().Query().Before("gorm:query").Register("tenant_guard:query", tenantGuardCallback); err != nil {
		return err
	}
	// Row (First/Take)
	if err := db.Callback().Row().Before("gorm:row").Register("tenant_guard:row", tenantGuardCallback); err != nil {
		return err
	}
	// Update
	if err := db.Callback().Update().Before("gorm:update").Register("tenant_guard:update", tenantGuardCallback); err != nil {
		return err
	}
	// Delete
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenant_guard:delete", tenantGuardCallback); err != nil {
		return err
	}
	return nil
}

func tenantGuardCallback(db *gorm.DB) {
	if db == nil || db.Statement == nil {
		return
	}
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	distributorId := distributorIdFromContext(ctx)
	if distributorId == "" {
		return
	}

	// Only apply if the current model/table includes a distributor_id column.
	if db.Statement.Schema == nil {
		return
	}
	hasDistributorId := false
	for _, f := range db.Statement.Schema.Fields {
		if strings.EqualFold(f.DBName, "distributor_id") {
			hasDistributorId = true
			break
		}
	}
	if !hasDistributorId {
		return
	}

	// Don't duplicate an explicit tenant filter.
	if whereHasDistributorId(db.Statement.Clauses["WHERE"]) {
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: db.Statement.Table, Name: "distributor_id"},
				Value:  distributorId,
			},
		},
	})
}

func distributorIdFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(appctx.ContextKeyDistributorId).(string); ok && v != "" {
		return v
	}
	return ""
}

func whereHasDistributorId(c clause.Clause) bool {
	if c.Expression == nil {
		return false
	}
	w, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, e := range w.Exprs {
		if exprHasDistributorId(e) {
			return true
		}
	}
	return false
}

func exprHasDistributorId(e clause.Expression) bool {
	switch v := e.(type) {
	case clause.Eq:
		return colIsDistributorId(v.Column)
	case clause.Neq:
		return colIsDistributorId(v.Column)
	case clause.IN:
		return colIsDistributorId(v.Column)
	case clause.AndConditions:
		for _, x := range v.Exprs {
			if exprHasDistributorId(x) {
				return true
			}
		}
		return false
	case clause.OrConditions:
		for _, x := range v.Exprs {
			if exprHasDistributorId(x) {
				return true
			}
		}
		return false
	case clause.Expr:
		// Best-effort for raw expressions.
		return strings.Contains(strings.ToLower(v.SQL), "distributor_id")
	default:
		return false
	}
}

func colIsDistributorId(col any) bool {
	switch c := col.(type) {
	case string:
		return strings.EqualFold(c, "distributor_id")
	case clause.Column:
		return strings.EqualFold(c.Name, "distributor_id")
	default:
		return false
	}
}
