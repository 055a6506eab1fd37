package apartment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"apartments/internal/domain"
	"apartments/internal/imagestore"
	"apartments/internal/pkg/validator"
	"apartments/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ListResult is one page of apartments plus counts over the filtered set.
type ListResult struct {
	Apartments []domain.Apartment
	Summary    repository.ListSummary
	Page       int
	PerPage    int
}

type Service struct {
	db         *gorm.DB
	apartments *repository.ApartmentRepository
	amenities  *repository.AmenityRepository
	images     *repository.ImageRepository
	store      imagestore.Store
	log        *zap.Logger
}

func NewService(db *gorm.DB, store imagestore.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		db:         db,
		apartments: repository.NewApartmentRepository(db),
		amenities:  repository.NewAmenityRepository(db),
		images:     repository.NewImageRepository(db),
		store:      store,
		log:        log.Named("apartment"),
	}
}

func (s *Service) List(ctx context.Context, f SearchFilters) (*ListResult, error) {
	rf := f.RepositoryFilters()

	list, _, err := s.apartments.List(ctx, rf)
	if err != nil {
		return nil, err
	}
	summary, err := s.apartments.Summarize(ctx, rf)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Apartments: list,
		Summary:    summary,
		Page:       f.Page,
		PerPage:    f.PerPage,
	}, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*domain.Apartment, error) {
	a, err := s.apartments.GetByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// FindByID loads the bare apartment row.
func (s *Service) FindByID(ctx context.Context, id int64) (*domain.Apartment, error) {
	a, err := s.apartments.FindByID(ctx, id)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *Service) Available(ctx context.Context) ([]domain.Apartment, error) {
	return s.apartments.Available(ctx)
}

func (s *Service) Featured(ctx context.Context, limit int) ([]domain.Apartment, error) {
	if limit <= 0 {
		limit = DefaultFeaturedLimit
	}
	if limit > MaxFeaturedLimit {
		limit = MaxFeaturedLimit
	}
	return s.apartments.Featured(ctx, limit)
}

// Create writes the apartment, its amenity links, features and images in one transaction.
func (s *Service) Create(ctx context.Context, req CreateApartmentRequest) (*domain.Apartment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(req.Title)
	errs := validator.Errors{}
	if err := s.checkTitle(ctx, title, 0, errs); err != nil {
		return nil, err
	}
	if err := s.checkAmenities(ctx, req.AmenityIDs, errs); err != nil {
		return nil, err
	}
	if len(errs) > 0 {
		return nil, errs
	}

	a := &domain.Apartment{
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Price:       *req.Price,
		Bedrooms:    *req.Bedrooms,
		Bathrooms:   *req.Bathrooms,
		AreaSqm:     *req.AreaSqm,
		Status:      domain.ApartmentStatus(req.Status),
	}
	if req.Floor != nil {
		a.Floor = *req.Floor
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apartments := s.apartments.WithTx(tx)
		if err := apartments.Create(ctx, a); err != nil {
			return err
		}
		if err := apartments.ReplaceAmenities(ctx, a.ID, req.AmenityIDs); err != nil {
			return err
		}
		if err := apartments.ReplaceFeatures(ctx, a.ID, toFeatures(req.Features)); err != nil {
			return err
		}
		return s.images.WithTx(tx).CreateMany(ctx, toImages(a, req.Images))
	})
	if err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, validator.Single("title", MsgTitleTaken)
		}
		return nil, fmt.Errorf("create apartment: %w", err)
	}

	s.log.Info("apartment created", zap.Int64("apartment_id", a.ID), zap.String("title", a.Title))
	return s.Get(ctx, a.ID)
}

// Update applies a partial update. Amenities and features are replaced only when sent.
func (s *Service) Update(ctx context.Context, id int64, req UpdateApartmentRequest) (*domain.Apartment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.apartments.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrNotFound
	}

	errs := validator.Errors{}
	if req.Title != nil {
		t := strings.TrimSpace(*req.Title)
		req.Title = &t
		if err := s.checkTitle(ctx, t, id, errs); err != nil {
			return nil, err
		}
	}
	if req.AmenityIDs != nil {
		if err := s.checkAmenities(ctx, *req.AmenityIDs, errs); err != nil {
			return nil, err
		}
	}
	if len(errs) > 0 {
		return nil, errs
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apartments := s.apartments.WithTx(tx)
		if err := apartments.Update(ctx, id, updateColumns(req)); err != nil {
			return err
		}
		if req.AmenityIDs != nil {
			if err := apartments.ReplaceAmenities(ctx, id, *req.AmenityIDs); err != nil {
				return err
			}
		}
		if req.Features != nil {
			if err := apartments.ReplaceFeatures(ctx, id, toFeatures(*req.Features)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case repository.IsNotFound(err):
			return nil, ErrNotFound
		case repository.IsUniqueViolation(err):
			return nil, validator.Single("title", MsgTitleTaken)
		}
		return nil, fmt.Errorf("update apartment %d: %w", id, err)
	}

	s.log.Info("apartment updated", zap.Int64("apartment_id", id))
	return s.Get(ctx, id)
}

// Delete removes the apartment with its images, features and amenity links.
// Remote image copies are removed after the commit; failures there are only logged.
func (s *Service) Delete(ctx context.Context, id int64) error {
	publicIDs, err := s.images.PublicIDsByApartment(ctx, id)
	if err != nil {
		return err
	}

	if err := s.apartments.Delete(ctx, id); err != nil {
		if repository.IsNotFound(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete apartment %d: %w", id, err)
	}

	for _, pid := range publicIDs {
		if err := s.store.Delete(ctx, pid); err != nil {
			s.log.Warn("remote image delete failed",
				zap.Int64("apartment_id", id),
				zap.String("public_id", pid),
				zap.Error(err),
			)
		}
	}

	s.log.Info("apartment deleted", zap.Int64("apartment_id", id), zap.Int("images", len(publicIDs)))
	return nil
}

func (s *Service) checkTitle(ctx context.Context, title string, exceptID int64, errs validator.Errors) error {
	taken, err := s.apartments.TitleTaken(ctx, title, exceptID)
	if err != nil {
		return err
	}
	if taken {
		errs.Add("title", MsgTitleTaken)
	}
	return nil
}

func (s *Service) checkAmenities(ctx context.Context, ids []int64, errs validator.Errors) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := s.amenities.ExistingIDs(ctx, ids)
	if err != nil {
		return err
	}
	known := make(map[int64]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			errs.Add("amenity_ids", MsgAmenityMissing)
			return nil
		}
	}
	return nil
}

func updateColumns(req UpdateApartmentRequest) map[string]any {
	cols := map[string]any{}
	if req.Title != nil {
		cols["title"] = *req.Title
	}
	if req.Description != nil {
		cols["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		cols["price"] = *req.Price
	}
	if req.Bedrooms != nil {
		cols["bedrooms"] = *req.Bedrooms
	}
	if req.Bathrooms != nil {
		cols["bathrooms"] = *req.Bathrooms
	}
	if req.AreaSqm != nil {
		cols["area_sqm"] = *req.AreaSqm
	}
	if req.Floor != nil {
		cols["floor"] = *req.Floor
	}
	if req.Status != nil {
		cols["status"] = *req.Status
	}
	return cols
}

func toFeatures(in []FeatureInput) []domain.Feature {
	out := make([]domain.Feature, 0, len(in))
	for _, f := range in {
		out = append(out, domain.Feature{
			Name:  strings.TrimSpace(f.Name),
			Value: strings.TrimSpace(f.Value),
		})
	}
	return out
}

// toImages orders the images and keeps exactly one primary: the first one
// flagged by the client, or the first by order when none is.
func toImages(a *domain.Apartment, in []ImageInput) []domain.Image {
	if len(in) == 0 {
		return nil
	}

	out := make([]domain.Image, 0, len(in))
	for i, img := range in {
		order := i
		if img.Order != nil {
			order = *img.Order
		}
		alt := strings.TrimSpace(img.AltText)
		if alt == "" {
			alt = a.Title + " - Image"
		}
		out = append(out, domain.Image{
			ApartmentID: a.ID,
			URL:         img.URL,
			AltText:     alt,
			Order:       order,
			IsPrimary:   img.IsPrimary,
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })

	primary := -1
	for i := range out {
		if out[i].IsPrimary && primary < 0 {
			primary = i
		}
		out[i].IsPrimary = false
	}
	if primary < 0 {
		primary = 0
	}
	out[primary].IsPrimary = true
	return out
}

// IsNotFound reports whether err means the apartment does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
