package repository

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
	dsn := fmt.Sprintf("file:repo_test_%s?mode=memory&cache=shared", name)
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

func seedApartment(t *testing.T, db *gorm.DB, title string, price float64, bedrooms int, area float64, status domain.ApartmentStatus) *domain.Apartment {
	t.Helper()
	a := &domain.Apartment{
		Title:       title,
		Description: title + " description with a view",
		Price:       price,
		Bedrooms:    bedrooms,
		Bathrooms:   1,
		AreaSqm:     area,
		Floor:       2,
		Status:      status,
	}
	require.NoError(t, NewApartmentRepository(db).Create(context.Background(), a))
	return a
}

func ptr[T any](v T) *T { return &v }

func titles(apartments []domain.Apartment) []string {
	out := make([]string, 0, len(apartments))
	for _, a := range apartments {
		out = append(out, a.Title)
	}
	return out
}

func TestApartmentRepository_ListInclusivePriceRange(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	seedApartment(t, db, "Cheap", 999, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Low edge", 1000, 1, 45, domain.StatusAvailable)
	seedApartment(t, db, "High edge", 2000, 2, 60, domain.StatusRented)
	seedApartment(t, db, "Pricey", 2001, 3, 90, domain.StatusAvailable)

	got, total, err := repo.List(ctx, ApartmentFilters{
		MinPrice: ptr(1000.0),
		MaxPrice: ptr(2000.0),
		SortBy:   SortPriceAsc,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2), total)
	assert.Equal(t, []string{"Low edge", "High edge"}, titles(got))
}

func TestApartmentRepository_FiltersComposeAsAnd(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	seedApartment(t, db, "Garden Loft", 1500, 2, 70, domain.StatusAvailable)
	seedApartment(t, db, "Garden Studio", 900, 1, 30, domain.StatusAvailable)
	seedApartment(t, db, "City Loft", 1600, 2, 75, domain.StatusRented)

	got, total, err := repo.List(ctx, ApartmentFilters{
		Status:   ptr(domain.StatusAvailable),
		Bedrooms: ptr(2),
		Query:    "GARDEN",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(1), total)
	assert.Equal(t, []string{"Garden Loft"}, titles(got))
}

func TestApartmentRepository_TextMatchesDescription(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	seedApartment(t, db, "Alpha", 1000, 1, 40, domain.StatusAvailable)
	require.NoError(t, db.Model(&domain.Apartment{}).Where("title = ?", "Alpha").
		Update("description", "Quiet courtyard apartment").Error)
	seedApartment(t, db, "Beta", 1000, 1, 40, domain.StatusAvailable)

	got, _, err := repo.List(context.Background(), ApartmentFilters{Query: "courtyard"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha"}, titles(got))
}

func TestApartmentRepository_TextWildcardsMatchLiterally(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	seedApartment(t, db, "Plain flat", 1000, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Studio 100% renovated", 1200, 1, 35, domain.StatusAvailable)

	got, _, err := repo.List(ctx, ApartmentFilters{Query: "%"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Studio 100% renovated"}, titles(got))

	got, total, err := repo.List(ctx, ApartmentFilters{Query: "_"})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, got)

	got, _, err = repo.List(ctx, ApartmentFilters{Query: `\`})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestApartmentRepository_SortKeys(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	a := seedApartment(t, db, "A", 2000, 1, 90, domain.StatusAvailable)
	b := seedApartment(t, db, "B", 1000, 3, 50, domain.StatusAvailable)
	c := seedApartment(t, db, "C", 3000, 2, 70, domain.StatusAvailable)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, ap := range []*domain.Apartment{a, b, c} {
		require.NoError(t, db.Model(&domain.Apartment{}).Where("id = ?", ap.ID).
			UpdateColumn("created_at", base.Add(time.Duration(i)*time.Hour)).Error)
	}

	cases := map[string][]string{
		SortPriceAsc:   {"B", "A", "C"},
		SortPriceDesc:  {"C", "A", "B"},
		SortBedrooms:   {"B", "C", "A"},
		SortSquareFeet: {"A", "C", "B"},
		SortNewest:     {"C", "B", "A"},
		SortOldest:     {"A", "B", "C"},
		"":             {"C", "B", "A"},
	}
	for sortBy, want := range cases {
		got, _, err := repo.List(ctx, ApartmentFilters{SortBy: sortBy})
		require.NoError(t, err)
		assert.Equal(t, want, titles(got), "sort_by=%q", sortBy)
	}
}

func TestApartmentRepository_Pagination(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	for i := 1; i <= 5; i++ {
		seedApartment(t, db, fmt.Sprintf("Unit %d", i), float64(1000*i), 1, 40, domain.StatusAvailable)
	}

	got, total, err := repo.List(context.Background(), ApartmentFilters{
		SortBy: SortPriceAsc,
		Limit:  2,
		Offset: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Equal(t, []string{"Unit 3", "Unit 4"}, titles(got))
}

func TestApartmentRepository_Summarize(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	seedApartment(t, db, "One", 1000, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Two", 1100, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Three", 1200, 2, 40, domain.StatusRented)
	seedApartment(t, db, "Four", 1300, 2, 40, domain.StatusMaintenance)

	s, err := repo.Summarize(context.Background(), ApartmentFilters{})
	require.NoError(t, err)
	assert.Equal(t, ListSummary{Total: 4, Available: 2, Rented: 1}, s)

	s, err = repo.Summarize(context.Background(), ApartmentFilters{Bedrooms: ptr(2)})
	require.NoError(t, err)
	assert.Equal(t, ListSummary{Total: 2, Available: 0, Rented: 1}, s)
}

func TestApartmentRepository_Stats(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	s, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ApartmentStats{}, s)

	seedApartment(t, db, "One", 1000, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Two", 2000, 1, 40, domain.StatusRented)
	seedApartment(t, db, "Three", 3000, 1, 40, domain.StatusMaintenance)

	s, err = repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), s.Total)
	assert.Equal(t, int64(1), s.Available)
	assert.Equal(t, int64(1), s.Rented)
	assert.Equal(t, int64(1), s.Maintenance)
	assert.InDelta(t, 2000, s.AveragePrice, 0.001)
	assert.InDelta(t, 1000, s.MinPrice, 0.001)
	assert.InDelta(t, 3000, s.MaxPrice, 0.001)
}

func TestApartmentRepository_AvailableAndFeatured(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	seedApartment(t, db, "Mid", 2000, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Top", 5000, 1, 40, domain.StatusAvailable)
	seedApartment(t, db, "Taken", 9000, 1, 40, domain.StatusRented)
	seedApartment(t, db, "Low", 800, 1, 40, domain.StatusAvailable)

	available, err := repo.Available(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Low", "Mid", "Top"}, titles(available))

	featured, err := repo.Featured(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Top", "Mid"}, titles(featured))
}

func TestApartmentRepository_GetByIDLoadsRelations(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	a := seedApartment(t, db, "Loaded", 1500, 2, 60, domain.StatusAvailable)
	pool := &domain.Amenity{Name: "Pool", Category: domain.AmenityCategoryBuilding}
	require.NoError(t, db.Create(pool).Error)
	require.NoError(t, repo.ReplaceAmenities(ctx, a.ID, []int64{pool.ID, pool.ID}))
	require.NoError(t, repo.ReplaceFeatures(ctx, a.ID, []domain.Feature{{Name: "View", Value: "Park"}}))
	require.NoError(t, db.Create(&[]domain.Image{
		{ApartmentID: a.ID, URL: "https://img/2.jpg", Order: 2},
		{ApartmentID: a.ID, URL: "https://img/1.jpg", Order: 1, IsPrimary: true},
	}).Error)

	got, err := repo.GetByID(ctx, a.ID)
	require.NoError(t, err)

	require.Len(t, got.Images, 2)
	assert.Equal(t, "https://img/1.jpg", got.Images[0].URL)
	require.NotNil(t, got.PrimaryImage())
	assert.Equal(t, 1, got.PrimaryImage().Order)
	require.Len(t, got.Amenities, 1)
	assert.Equal(t, "Pool", got.Amenities[0].Name)
	require.Len(t, got.Features, 1)
	assert.Equal(t, "Park", got.Features[0].Value)

	_, err = repo.GetByID(ctx, 999)
	assert.True(t, IsNotFound(err))
}

func TestApartmentRepository_DeleteRemovesChildren(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)
	ctx := context.Background()

	a := seedApartment(t, db, "Gone", 1500, 2, 60, domain.StatusAvailable)
	require.NoError(t, repo.ReplaceFeatures(ctx, a.ID, []domain.Feature{{Name: "Balcony", Value: "Yes"}}))
	require.NoError(t, db.Create(&domain.Image{ApartmentID: a.ID, URL: "https://img/x.jpg", IsPrimary: true}).Error)

	require.NoError(t, repo.Delete(ctx, a.ID))

	var images, features int64
	db.Model(&domain.Image{}).Where("apartment_id = ?", a.ID).Count(&images)
	db.Model(&domain.Feature{}).Where("apartment_id = ?", a.ID).Count(&features)
	assert.Zero(t, images)
	assert.Zero(t, features)

	assert.True(t, IsNotFound(repo.Delete(ctx, a.ID)))
}

func TestApartmentRepository_DuplicateTitle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	seedApartment(t, db, "Same", 1000, 1, 40, domain.StatusAvailable)
	err := repo.Create(context.Background(), &domain.Apartment{
		Title: "Same", Description: "d", Price: 1, Bedrooms: 1, Bathrooms: 1, AreaSqm: 10, Status: domain.StatusAvailable,
	})
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))

	taken, err := repo.TitleTaken(context.Background(), "Same", 0)
	require.NoError(t, err)
	assert.True(t, taken)
}

func TestApartmentRepository_UpdateMissing(t *testing.T) {
	db := setupTestDB(t)
	repo := NewApartmentRepository(db)

	err := repo.Update(context.Background(), 404, map[string]any{"price": 10})
	assert.True(t, IsNotFound(err))
}
