package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type sampleRow struct {
	ID   uint
	Name string
}

func TestConnect_SQLite(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	db, err := Connect(Config{Driver: DriverSQLite, SQLitePath: ":memory:"}, zap.New(core))
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	assert.Equal(t, 1, logs.FilterMessage("connected to database").Len())
	require.NoError(t, db.AutoMigrate(&sampleRow{}))

	var row sampleRow
	err = db.First(&row, 42).Error
	require.True(t, errors.Is(err, gorm.ErrRecordNotFound))
	assert.Zero(t, logs.FilterMessageSnippet("record not found").Len())
}

func TestConnect_UnknownDriver(t *testing.T) {
	_, err := Connect(Config{Driver: "mysql"}, zap.NewNop())
	assert.Error(t, err)
}
