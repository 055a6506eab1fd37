package amenity

import (
	"context"
	"fmt"
	"sort"

	"apartments/internal/domain"
	"apartments/internal/pkg/validator"
	"apartments/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Group is the amenities of one category.
type Group struct {
	Category  string
	Amenities []domain.Amenity
}

// Counts is the number of amenities overall and per category.
type Counts struct {
	Total      int64
	ByCategory map[string]int64
}

type Service struct {
	amenities *repository.AmenityRepository
	log       *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		amenities: repository.NewAmenityRepository(db),
		log:       log.Named("amenity"),
	}
}

func (s *Service) All(ctx context.Context) ([]domain.Amenity, error) {
	return s.amenities.All(ctx)
}

// Grouped lists amenities by category. Building, apartment and area always
// come first, even when empty; any other category follows alphabetically.
func (s *Service) Grouped(ctx context.Context) ([]Group, error) {
	all, err := s.amenities.All(ctx)
	if err != nil {
		return nil, err
	}

	byCategory := make(map[string][]domain.Amenity)
	for _, a := range all {
		byCategory[a.Category] = append(byCategory[a.Category], a)
	}

	known := []string{domain.AmenityCategoryBuilding, domain.AmenityCategoryApartment, domain.AmenityCategoryArea}
	groups := make([]Group, 0, len(byCategory)+len(known))
	for _, c := range known {
		groups = append(groups, Group{Category: c, Amenities: byCategory[c]})
		delete(byCategory, c)
	}

	rest := make([]string, 0, len(byCategory))
	for c := range byCategory {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	for _, c := range rest {
		groups = append(groups, Group{Category: c, Amenities: byCategory[c]})
	}
	return groups, nil
}

// Get returns the amenity with the number of apartments that use it.
func (s *Service) Get(ctx context.Context, id int64) (*repository.AmenityWithCount, error) {
	a, err := s.amenities.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	n, err := s.amenities.ApartmentCount(ctx, id)
	if err != nil {
		return nil, err
	}
	return &repository.AmenityWithCount{Amenity: *a, ApartmentsCount: n}, nil
}

// Popular returns the most used amenities.
func (s *Service) Popular(ctx context.Context, limit int) ([]repository.AmenityWithCount, error) {
	if limit <= 0 {
		limit = DefaultPopularLimit
	}
	if limit > MaxPopularLimit {
		limit = MaxPopularLimit
	}
	return s.amenities.WithApartmentCount(ctx, limit)
}

func (s *Service) Create(ctx context.Context, req CreateAmenityRequest) (*domain.Amenity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	taken, err := s.amenities.NameTaken(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, validator.Single("name", MsgNameTaken)
	}

	a := &domain.Amenity{Name: req.Name, Icon: req.Icon, Category: req.Category}
	if err := s.amenities.Create(ctx, a); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.Single("name", MsgNameTaken)
		}
		s.log.Error("create amenity failed", zap.String("name", req.Name), zap.Error(err))
		return nil, fmt.Errorf("create amenity: %w", err)
	}

	s.log.Info("amenity created", zap.Int64("amenity_id", a.ID), zap.String("category", a.Category))
	return a, nil
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateAmenityRequest) (*domain.Amenity, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a, err := s.amenities.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if req.Name != nil {
		taken, err := s.amenities.NameTaken(ctx, *req.Name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, validator.Single("name", MsgNameTaken)
		}
		a.Name = *req.Name
	}
	if req.Icon != nil {
		a.Icon = req.Icon
	}
	if req.Category != nil {
		a.Category = *req.Category
	}

	if err := s.amenities.Update(ctx, a); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.Single("name", MsgNameTaken)
		}
		s.log.Error("update amenity failed", zap.Int64("amenity_id", id), zap.Error(err))
		return nil, fmt.Errorf("update amenity: %w", err)
	}
	return a, nil
}

// Delete removes the amenity and detaches it from every apartment.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.amenities.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		s.log.Error("delete amenity failed", zap.Int64("amenity_id", id), zap.Error(err))
		return fmt.Errorf("delete amenity: %w", err)
	}
	s.log.Info("amenity deleted", zap.Int64("amenity_id", id))
	return nil
}

// Counts reports the total and a per-category breakdown. Every known
// category is present, with zero when unused.
func (s *Service) Counts(ctx context.Context) (*Counts, error) {
	rows, err := s.amenities.CountByCategory(ctx)
	if err != nil {
		return nil, err
	}

	out := &Counts{ByCategory: make(map[string]int64, len(domain.AmenityCategories))}
	for _, c := range domain.AmenityCategories {
		out.ByCategory[c] = 0
	}
	for _, r := range rows {
		out.ByCategory[r.Category] = r.Total
		out.Total += r.Total
	}
	return out, nil
}
