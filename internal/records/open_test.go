package records

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homemade/pickleshop/pkg/config"
)

func baseConfig(driver string) *config.Config {
	return &config.Config{
		Store: config.StoreConfig{Driver: driver, StartupTimeout: time.Second},
		AWS:   config.AWSConfig{Region: "ap-south-1"},
	}
}

func TestOpenNoneDegradesToLocal(t *testing.T) {
	handle := Open(context.Background(), Options{Config: baseConfig(config.StoreDriverNone)})
	assert.False(t, handle.Availability.Available)
	assert.Equal(t, BackendLocal, handle.Store.Backend())
	assert.Equal(t, []string{"local"}, handle.Availability.Services())
	assert.NoError(t, handle.Close())
}

func TestOpenDynamoWithoutCredentialsDegradesToLocal(t *testing.T) {
	handle := Open(context.Background(), Options{Config: baseConfig(config.StoreDriverDynamoDB)})
	assert.False(t, handle.Availability.Available)
	assert.Equal(t, BackendLocal, handle.Store.Backend())
	assert.NoError(t, handle.Store.Put(context.Background(), "PickleOrders", Record{"order_id": "o"}))
}

func TestOpenSQLiteMigratesAndWrites(t *testing.T) {
	cfg := baseConfig(config.StoreDriverSQLite)
	cfg.DB = config.DBConfig{DSN: "file::memory:", MaxOpenConns: 1, AutoMigrate: true}

	handle := Open(context.Background(), Options{Config: cfg})
	t.Cleanup(func() { _ = handle.Close() })

	require.True(t, handle.Availability.Available)
	assert.Equal(t, []string{"local", "sqlite"}, handle.Availability.Services())

	err := handle.Store.Put(context.Background(), "ContactMessages", Record{
		"contact_id": "c-1",
		"name":       "Asha",
		"email":      "asha@example.com",
		"message":    "More mango please",
		"timestamp":  "2024-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, handle.db.DB().Table("ContactMessages").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	err = handle.Store.Put(context.Background(), "NoSuchTable", Record{"id": 1})
	assert.Error(t, err)
}

func TestOpenSQLiteBadDSNDegrades(t *testing.T) {
	cfg := baseConfig(config.StoreDriverSQLite)
	cfg.DB = config.DBConfig{DSN: "file:/nonexistent-dir/pickles.db?mode=ro"}

	handle := Open(context.Background(), Options{Config: cfg})
	assert.False(t, handle.Availability.Available)
	assert.Equal(t, BackendLocal, handle.Store.Backend())
}
