package repository

import (
	"context"

	"apartments/internal/domain"

	"gorm.io/gorm"
)

// AmenityWithCount is an amenity together with the number of apartments using it.
type AmenityWithCount struct {
	domain.Amenity
	ApartmentsCount int64 `gorm:"column:apartments_count"`
}

type CategoryCount struct {
	Category string
	Total    int64
}

type AmenityRepository struct {
	db *gorm.DB
}

func NewAmenityRepository(db *gorm.DB) *AmenityRepository {
	return &AmenityRepository{db: db}
}

func (r *AmenityRepository) All(ctx context.Context) ([]domain.Amenity, error) {
	var amenities []domain.Amenity
	err := r.db.WithContext(ctx).Order("category ASC, name ASC").Find(&amenities).Error
	return amenities, err
}

func (r *AmenityRepository) GetByID(ctx context.Context, id int64) (*domain.Amenity, error) {
	var a domain.Amenity
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ExistingIDs returns the subset of ids that exist.
func (r *AmenityRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	err := r.db.WithContext(ctx).Model(&domain.Amenity{}).Where("id IN ?", ids).Pluck("id", &found).Error
	return found, err
}

func (r *AmenityRepository) NameTaken(ctx context.Context, name string, exceptID int64) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.Amenity{}).Where("LOWER(name) = LOWER(?)", name)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *AmenityRepository) Create(ctx context.Context, a *domain.Amenity) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *AmenityRepository) Update(ctx context.Context, a *domain.Amenity) error {
	return r.db.WithContext(ctx).Save(a).Error
}

// Delete removes the amenity and detaches it from every apartment.
func (r *AmenityRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("amenity_id = ?", id).Delete(&domain.ApartmentAmenity{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Amenity{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// WithApartmentCount returns amenities ordered by how many apartments use them.
// limit <= 0 returns all of them.
func (r *AmenityRepository) WithApartmentCount(ctx context.Context, limit int) ([]AmenityWithCount, error) {
	var rows []AmenityWithCount
	q := r.db.WithContext(ctx).
		Table("amenities").
		Select("amenities.*, COUNT(apartment_amenity.apartment_id) AS apartments_count").
		Joins("LEFT JOIN apartment_amenity ON apartment_amenity.amenity_id = amenities.id").
		Group("amenities.id").
		Order("apartments_count DESC, amenities.name ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Scan(&rows).Error
	return rows, err
}

// ApartmentCount returns how many apartments use the amenity.
func (r *AmenityRepository) ApartmentCount(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ApartmentAmenity{}).Where("amenity_id = ?", id).Count(&n).Error
	return n, err
}

func (r *AmenityRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Amenity{}).Count(&n).Error
	return n, err
}

func (r *AmenityRepository) CountByCategory(ctx context.Context) ([]CategoryCount, error) {
	var rows []CategoryCount
	err := r.db.WithContext(ctx).Model(&domain.Amenity{}).
		Select("category, COUNT(*) AS total").
		Group("category").
		Order("category ASC").
		Scan(&rows).Error
	return rows, err
}
