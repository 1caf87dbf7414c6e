package tenant

import (
	"reflect"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

const tenantColumn = "tenant_id"

// RegisterCallbacks installs tenant scoping on a GORM instance. Models
// without a tenant_id field, such as companies themselves, are left alone.
func RegisterCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:query", scopeRead); err != nil {
		return err
	}
	if err := db.Callback().Row().Before("gorm:row").Register("tenant:row", scopeRead); err != nil {
		return err
	}
	if err := db.Callback().Create().Before("gorm:create").Register("tenant:create", stampCreate); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:update", scopeWrite); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenant:delete", scopeWrite); err != nil {
		return err
	}
	return nil
}

func tenantField(db *gorm.DB) *schema.Field {
	if db.Statement.Schema == nil {
		return nil
	}
	return db.Statement.Schema.LookUpField(tenantColumn)
}

// scopeRead constrains reads to the active tenant. With no active tenant the
// query is forced to match nothing rather than leak rows across companies.
func scopeRead(db *gorm.DB) {
	if db.Error != nil || tenantField(db) == nil {
		return
	}
	if db.Statement.Unscoped {
		return
	}

	tenantID, err := ActiveTenant(db.Statement.Context)
	if err != nil {
		_ = db.AddError(err)
		return
	}
	if tenantID == uuid.Nil {
		db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "1 = 0"},
		}})
		return
	}
	db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: tenantColumn},
			Value:  tenantID,
		},
	}})
}

// stampCreate fills tenant_id on new rows from the active tenant. A row that
// already carries a tenant must carry the active one.
func stampCreate(db *gorm.DB) {
	field := tenantField(db)
	if db.Error != nil || field == nil {
		return
	}

	tenantID, err := ActiveTenant(db.Statement.Context)
	if err != nil {
		_ = db.AddError(err)
		return
	}

	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !stampValue(db, field, reflect.Indirect(rv.Index(i)), tenantID) {
				return
			}
		}
	case reflect.Struct:
		stampValue(db, field, rv, tenantID)
	}
}

func stampValue(db *gorm.DB, field *schema.Field, rv reflect.Value, tenantID uuid.UUID) bool {
	current, isZero := field.ValueOf(db.Statement.Context, rv)
	if !isZero {
		if existing, ok := current.(uuid.UUID); ok && tenantID != uuid.Nil && existing != tenantID {
			_ = db.AddError(ErrTenantMismatch)
			return false
		}
		return true
	}
	if tenantID == uuid.Nil {
		_ = db.AddError(ErrTenantRequired)
		return false
	}
	if err := field.Set(db.Statement.Context, rv, tenantID); err != nil {
		_ = db.AddError(err)
		return false
	}
	return true
}

// scopeWrite constrains updates and deletes to the active tenant. Writes with
// no active tenant are refused outright.
func scopeWrite(db *gorm.DB) {
	if db.Error != nil || tenantField(db) == nil {
		return
	}
	if db.Statement.Unscoped {
		return
	}

	tenantID, err := ActiveTenant(db.Statement.Context)
	if err != nil {
		_ = db.AddError(err)
		return
	}
	if tenantID == uuid.Nil {
		_ = db.AddError(ErrTenantRequired)
		return
	}
	db.Statement.AddClause(clause.Where{Exprs: []clause.Expression{
		clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: tenantColumn},
			Value:  tenantID,
		},
	}})
}
