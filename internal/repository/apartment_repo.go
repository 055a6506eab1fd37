package repository

import (
	"context"
	"strings"

	"apartments/internal/domain"

	"gorm.io/gorm"
)

const (
	SortPriceAsc   = "price_asc"
	SortPriceDesc  = "price_desc"
	SortBedrooms   = "bedrooms"
	SortSquareFeet = "square_feet"
	SortNewest     = "newest"
	SortOldest     = "oldest"
)

var SortKeys = []string{SortPriceAsc, SortPriceDesc, SortBedrooms, SortSquareFeet, SortNewest, SortOldest}

// ApartmentFilters is the optional filter set of the listing query.
// A nil field adds no predicate.
type ApartmentFilters struct {
	Status    *domain.ApartmentStatus
	Bedrooms  *int
	Bathrooms *int
	MinPrice  *float64
	MaxPrice  *float64
	MinArea   *float64
	MaxArea   *float64
	Query     string
	SortBy    string
	Limit     int
	Offset    int
}

// ListSummary counts the filtered set by status.
type ListSummary struct {
	Total     int64 `json:"total"`
	Available int64 `json:"available_count"`
	Rented    int64 `json:"rented_count"`
}

type ApartmentStats struct {
	Total        int64
	Available    int64
	Rented       int64
	Maintenance  int64
	AveragePrice float64
	MinPrice     float64
	MaxPrice     float64
}

type ApartmentRepository struct {
	db *gorm.DB
}

func NewApartmentRepository(db *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: db}
}

// WithTx rebinds the repository to a running transaction.
func (r *ApartmentRepository) WithTx(tx *gorm.DB) *ApartmentRepository {
	return &ApartmentRepository{db: tx}
}

// withRelations preloads everything the apartment resource renders.
func withRelations(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Amenities", func(db *gorm.DB) *gorm.DB {
			return db.Order("amenities.name ASC")
		}).
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		})
}

// likeEscaper makes user text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func applyFilters(q *gorm.DB, f ApartmentFilters) *gorm.DB {
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.Bedrooms != nil {
		q = q.Where("bedrooms = ?", *f.Bedrooms)
	}
	if f.Bathrooms != nil {
		q = q.Where("bathrooms = ?", *f.Bathrooms)
	}
	if f.MinPrice != nil {
		q = q.Where("price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("price <= ?", *f.MaxPrice)
	}
	if f.MinArea != nil {
		q = q.Where("area_sqm >= ?", *f.MinArea)
	}
	if f.MaxArea != nil {
		q = q.Where("area_sqm <= ?", *f.MaxArea)
	}
	if text := strings.TrimSpace(f.Query); text != "" {
		like := "%" + likeEscaper.Replace(strings.ToLower(text)) + "%"
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`, like, like)
	}
	return q
}

func orderBy(sortBy string) string {
	switch sortBy {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id DESC"
	case SortBedrooms:
		return "bedrooms DESC, id DESC"
	case SortSquareFeet:
		return "area_sqm DESC, id DESC"
	case SortOldest:
		return "created_at ASC, id ASC"
	default:
		return "created_at DESC, id DESC"
	}
}

// List returns one page of the filtered listing and the size of the whole filtered set.
func (r *ApartmentRepository) List(ctx context.Context, f ApartmentFilters) ([]domain.Apartment, int64, error) {
	var total int64
	if err := applyFilters(r.db.WithContext(ctx).Model(&domain.Apartment{}), f).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	q := withRelations(applyFilters(r.db.WithContext(ctx).Model(&domain.Apartment{}), f)).
		Order(orderBy(f.SortBy))
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var apartments []domain.Apartment
	if err := q.Find(&apartments).Error; err != nil {
		return nil, 0, err
	}
	return apartments, total, nil
}

func (r *ApartmentRepository) Summarize(ctx context.Context, f ApartmentFilters) (ListSummary, error) {
	var s ListSummary
	err := applyFilters(r.db.WithContext(ctx).Model(&domain.Apartment{}), f).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS available, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rented",
			domain.StatusAvailable, domain.StatusRented,
		).
		Scan(&s).Error
	return s, err
}

// GetByID loads the apartment with images, amenities and features.
func (r *ApartmentRepository) GetByID(ctx context.Context, id int64) (*domain.Apartment, error) {
	var a domain.Apartment
	if err := withRelations(r.db.WithContext(ctx)).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// FindByID loads the bare row.
func (r *ApartmentRepository) FindByID(ctx context.Context, id int64) (*domain.Apartment, error) {
	var a domain.Apartment
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApartmentRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("id = ?", id).Count(&n).Error
	return n > 0, err
}

func (r *ApartmentRepository) TitleTaken(ctx context.Context, title string, exceptID int64) (bool, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("title = ?", title)
	if exceptID > 0 {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

// Create inserts the apartment row only. Relations are written by the service.
func (r *ApartmentRepository) Create(ctx context.Context, a *domain.Apartment) error {
	return r.db.WithContext(ctx).Omit("Images", "Features", "Amenities").Create(a).Error
}

// Update writes the given columns. A missing row yields gorm.ErrRecordNotFound.
func (r *ApartmentRepository) Update(ctx context.Context, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	res := r.db.WithContext(ctx).Model(&domain.Apartment{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ReplaceAmenities syncs the join table to exactly ids.
func (r *ApartmentRepository) ReplaceAmenities(ctx context.Context, apartmentID int64, ids []int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("apartment_id = ?", apartmentID).Delete(&domain.ApartmentAmenity{}).Error; err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	rows := make([]domain.ApartmentAmenity, 0, len(ids))
	for _, id := range uniqueIDs(ids) {
		rows = append(rows, domain.ApartmentAmenity{ApartmentID: apartmentID, AmenityID: id})
	}
	return db.Create(&rows).Error
}

// ReplaceFeatures deletes every feature of the apartment and inserts features.
func (r *ApartmentRepository) ReplaceFeatures(ctx context.Context, apartmentID int64, features []domain.Feature) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("apartment_id = ?", apartmentID).Delete(&domain.Feature{}).Error; err != nil {
		return err
	}
	if len(features) == 0 {
		return nil
	}
	for i := range features {
		features[i].ID = 0
		features[i].ApartmentID = apartmentID
	}
	return db.Create(&features).Error
}

// Delete removes the apartment and every row that belongs to it.
func (r *ApartmentRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("apartment_id = ?", id).Delete(&domain.Image{}).Error; err != nil {
			return err
		}
		if err := tx.Where("apartment_id = ?", id).Delete(&domain.Feature{}).Error; err != nil {
			return err
		}
		if err := tx.Where("apartment_id = ?", id).Delete(&domain.ApartmentAmenity{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Apartment{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ApartmentRepository) Stats(ctx context.Context) (ApartmentStats, error) {
	var s ApartmentStats
	err := r.db.WithContext(ctx).Model(&domain.Apartment{}).
		Select(
			"COUNT(*) AS total, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS available, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS rented, "+
				"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS maintenance, "+
				"COALESCE(AVG(price), 0) AS average_price, "+
				"COALESCE(MIN(price), 0) AS min_price, "+
				"COALESCE(MAX(price), 0) AS max_price",
			domain.StatusAvailable, domain.StatusRented, domain.StatusMaintenance,
		).
		Scan(&s).Error
	return s, err
}

// Available lists every available apartment, cheapest first.
func (r *ApartmentRepository) Available(ctx context.Context) ([]domain.Apartment, error) {
	var apartments []domain.Apartment
	err := withRelations(r.db.WithContext(ctx)).
		Where("status = ?", domain.StatusAvailable).
		Order("price ASC, id ASC").
		Find(&apartments).Error
	return apartments, err
}

// Featured returns the most expensive available apartments.
func (r *ApartmentRepository) Featured(ctx context.Context, limit int) ([]domain.Apartment, error) {
	var apartments []domain.Apartment
	err := withRelations(r.db.WithContext(ctx)).
		Where("status = ?", domain.StatusAvailable).
		Order("price DESC, id DESC").
		Limit(limit).
		Find(&apartments).Error
	return apartments, err
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
