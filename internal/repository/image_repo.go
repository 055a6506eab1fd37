package repository

import (
	"context"

	"apartments/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ImageRepository holds the queries behind the primary image transitions.
// Bind it to a transaction with WithTx before calling the write helpers.
type ImageRepository struct {
	db *gorm.DB
}

func NewImageRepository(db *gorm.DB) *ImageRepository {
	return &ImageRepository{db: db}
}

func (r *ImageRepository) WithTx(tx *gorm.DB) *ImageRepository {
	return &ImageRepository{db: tx}
}

// Transaction runs fn with a repository bound to a new transaction.
func (r *ImageRepository) Transaction(ctx context.Context, fn func(repo *ImageRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(r.WithTx(tx))
	})
}

func (r *ImageRepository) GetByID(ctx context.Context, id int64) (*domain.Image, error) {
	var img domain.Image
	if err := r.db.WithContext(ctx).First(&img, id).Error; err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *ImageRepository) ListByApartment(ctx context.Context, apartmentID int64) ([]domain.Image, error) {
	var images []domain.Image
	err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Order("sort_order ASC, id ASC").
		Find(&images).Error
	return images, err
}

func (r *ImageRepository) CountByApartment(ctx context.Context, apartmentID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Image{}).Where("apartment_id = ?", apartmentID).Count(&n).Error
	return n, err
}

func (r *ImageRepository) Create(ctx context.Context, img *domain.Image) error {
	return r.db.WithContext(ctx).Create(img).Error
}

// CreateMany inserts images as given. Callers set the primary flags.
func (r *ImageRepository) CreateMany(ctx context.Context, images []domain.Image) error {
	if len(images) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

func (r *ImageRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.Image{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UnsetPrimary clears the primary flag on every image of the apartment.
func (r *ImageRepository) UnsetPrimary(ctx context.Context, apartmentID int64) error {
	return r.db.WithContext(ctx).
		Model(&domain.Image{}).
		Where("apartment_id = ? AND is_primary = ?", apartmentID, true).
		Update("is_primary", false).Error
}

func (r *ImageRepository) MarkPrimary(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Image{}).
		Where("id = ?", id).
		Update("is_primary", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// FirstByOrder returns the image with the lowest order, ties broken by id.
func (r *ImageRepository) FirstByOrder(ctx context.Context, apartmentID int64) (*domain.Image, error) {
	var img domain.Image
	err := r.db.WithContext(ctx).
		Where("apartment_id = ?", apartmentID).
		Order("sort_order ASC, id ASC").
		First(&img).Error
	if err != nil {
		return nil, err
	}
	return &img, nil
}

// LockApartment takes a row lock on the owning apartment so concurrent
// primary transitions of the same apartment run one after another.
// The sqlite dialect ignores the locking clause; there the connection opens
// immediate transactions (see database.Connect), which serialize writers.
func (r *ImageRepository) LockApartment(ctx context.Context, apartmentID int64) (*domain.Apartment, error) {
	var a domain.Apartment
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&a, apartmentID).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// PublicIDsByApartment lists the remote identifiers of the apartment's images.
func (r *ImageRepository) PublicIDsByApartment(ctx context.Context, apartmentID int64) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Image{}).
		Where("apartment_id = ? AND public_id <> ''", apartmentID).
		Pluck("public_id", &ids).Error
	return ids, err
}
