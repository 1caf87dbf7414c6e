package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type uowRecord struct {
	ID   int    `gorm:"primaryKey"`
	Name string `gorm:"not null"`
}

func (uowRecord) TableName() string {
	return "uow_records"
}

func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&uowRecord{}))
	return db
}

func countRecords(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&uowRecord{}).Count(&count).Error)
	return count
}

func TestWithinTransaction_Commit(t *testing.T) {
	db := newSQLiteDB(t)
	uow := NewGormUnitOfWork(db)

	err := uow.WithinTransaction(context.Background(), func(ctx context.Context) error {
		return conn(ctx, db).Create(&uowRecord{ID: 1, Name: "first"}).Error
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRecords(t, db))
}

func TestWithinTransaction_RollbackOnError(t *testing.T) {
	db := newSQLiteDB(t)
	uow := NewGormUnitOfWork(db)

	boom := errors.New("boom")
	err := uow.WithinTransaction(context.Background(), func(ctx context.Context) error {
		if err := conn(ctx, db).Create(&uowRecord{ID: 1, Name: "doomed"}).Error; err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(0), countRecords(t, db))
}

func TestWithinTransaction_NestedReusesTransaction(t *testing.T) {
	db := newSQLiteDB(t)
	uow := NewGormUnitOfWork(db)

	err := uow.WithinTransaction(context.Background(), func(outer context.Context) error {
		if err := conn(outer, db).Create(&uowRecord{ID: 1, Name: "outer"}).Error; err != nil {
			return err
		}
		return uow.WithinTransaction(outer, func(inner context.Context) error {
			// The nested call must see the outer, uncommitted write
			var count int64
			if err := conn(inner, db).Model(&uowRecord{}).Count(&count).Error; err != nil {
				return err
			}
			assert.Equal(t, int64(1), count)
			return conn(inner, db).Create(&uowRecord{ID: 2, Name: "inner"}).Error
		})
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), countRecords(t, db))
}

func TestWithinTransaction_NestedErrorRollsBackEverything(t *testing.T) {
	db := newSQLiteDB(t)
	uow := NewGormUnitOfWork(db)

	boom := errors.New("inner failure")
	err := uow.WithinTransaction(context.Background(), func(outer context.Context) error {
		if err := conn(outer, db).Create(&uowRecord{ID: 1, Name: "outer"}).Error; err != nil {
			return err
		}
		return uow.WithinTransaction(outer, func(inner context.Context) error {
			return boom
		})
	})
	require.ErrorIs(t, err, boom)

	assert.Equal(t, int64(0), countRecords(t, db))
}

func TestConn_WithoutTransactionUsesBaseConnection(t *testing.T) {
	db := newSQLiteDB(t)

	err := conn(context.Background(), db).Create(&uowRecord{ID: 1, Name: "direct"}).Error
	require.NoError(t, err)

	assert.Equal(t, int64(1), countRecords(t, db))
}
