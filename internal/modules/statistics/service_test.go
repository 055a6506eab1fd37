package statistics

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"apartments/internal/database"
	"apartments/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:statistics_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

var seq int

func seed(t *testing.T, db *gorm.DB, price float64, status domain.ApartmentStatus) {
	t.Helper()
	seq++
	a := &domain.Apartment{
		Title: fmt.Sprintf("Apartment %d", seq), Description: "desc", Price: price,
		Bedrooms: 1, Bathrooms: 1, AreaSqm: 50, Status: status,
	}
	require.NoError(t, db.Omit("Images", "Features", "Amenities").Create(a).Error)
}

func TestCompute_Pricing(t *testing.T) {
	db := setupTestDB(t)
	for _, p := range []float64{1000, 2000, 3000} {
		seed(t, db, p, domain.StatusAvailable)
	}

	stats, err := NewService(db).Compute(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2000.0, stats.Pricing.Average)
	assert.Equal(t, 1000.0, stats.Pricing.Minimum)
	assert.Equal(t, 3000.0, stats.Pricing.Maximum)
	assert.Equal(t, "USD", stats.Pricing.Currency)
}

func TestCompute_Occupancy(t *testing.T) {
	db := setupTestDB(t)
	for i := 0; i < 8; i++ {
		seed(t, db, 1500, domain.StatusAvailable)
	}
	seed(t, db, 1500, domain.StatusRented)
	seed(t, db, 1500, domain.StatusRented)
	require.NoError(t, db.Create(&domain.Amenity{Name: "Elevator", Category: "building"}).Error)

	svc := NewService(db)
	svc.now = func() time.Time { return time.Date(2025, 3, 7, 14, 5, 9, 0, time.UTC) }

	stats, err := svc.Compute(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 10, stats.Apartments.Total)
	assert.EqualValues(t, 8, stats.Apartments.Available)
	assert.EqualValues(t, 2, stats.Apartments.Rented)
	assert.Equal(t, 20.0, stats.Apartments.OccupancyRate)
	assert.EqualValues(t, 1, stats.Amenities.Total)
	assert.Equal(t, "2025-03-07 14:05:09", stats.GeneratedAt)
}

func TestCompute_Empty(t *testing.T) {
	stats, err := NewService(setupTestDB(t)).Compute(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Apartments.Total)
	assert.Zero(t, stats.Apartments.OccupancyRate)
	assert.Zero(t, stats.Pricing.Average)
}

func TestOccupancyRate(t *testing.T) {
	assert.Equal(t, 0.0, OccupancyRate(0, 0))
	assert.Equal(t, 33.33, OccupancyRate(1, 3))
	assert.Equal(t, 66.67, OccupancyRate(2, 3))
	assert.Equal(t, 100.0, OccupancyRate(4, 4))
}
