package image

import (
	"context"
	"time"

	"apartments/internal/domain"
	"apartments/internal/imagestore"
	"apartments/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ApartmentGate loads the apartment an image belongs to. Its "missing"
// error is recognised through the isMissing func given to NewService.
type ApartmentGate interface {
	FindByID(ctx context.Context, id int64) (*domain.Apartment, error)
}

// Service keeps the one-primary-image-per-apartment invariant across
// upload, delete and set-primary. Every transition runs in a transaction
// that first locks the owning apartment row.
type Service struct {
	images     *repository.ImageRepository
	apartments ApartmentGate
	isMissing  func(error) bool
	store      imagestore.Store
	log        *zap.Logger
	now        func() time.Time
}

func NewService(db *gorm.DB, apartments ApartmentGate, isMissing func(error) bool, store imagestore.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if isMissing == nil {
		isMissing = repository.IsNotFound
	}
	return &Service{
		images:     repository.NewImageRepository(db),
		apartments: apartments,
		isMissing:  isMissing,
		store:      store,
		log:        log.Named("image"),
		now:        time.Now,
	}
}

func (s *Service) ListByApartment(ctx context.Context, apartmentID int64) ([]domain.Image, error) {
	if _, err := s.apartments.FindByID(ctx, apartmentID); err != nil {
		if s.isMissing(err) {
			return nil, ErrApartmentNotFound
		}
		return nil, err
	}
	return s.images.ListByApartment(ctx, apartmentID)
}

// Upload stores the file remotely and records it. The first image of an
// apartment is always primary; a primary upload demotes the others.
func (s *Service) Upload(ctx context.Context, apartmentID int64, in UploadInput) (*domain.Image, error) {
	file, mimeType, err := sniff(in.Header)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	if _, err := s.apartments.FindByID(ctx, apartmentID); err != nil {
		if s.isMissing(err) {
			return nil, ErrApartmentNotFound
		}
		return nil, err
	}

	uploaded, err := s.store.Upload(ctx, file, imagestore.UploadOptions{
		PublicID: imagestore.NewPublicID(apartmentID, s.now()),
		Filename: in.Header.Filename,
		MimeType: mimeType,
	})
	if err != nil {
		s.log.Error("remote upload failed", zap.Int64("apartment_id", apartmentID), zap.Error(err))
		return nil, &ExternalError{Err: err}
	}

	img := &domain.Image{
		ApartmentID: apartmentID,
		URL:         uploaded.URL,
		PublicID:    uploaded.PublicID,
		Width:       uploaded.Width,
		Height:      uploaded.Height,
		Format:      uploaded.Format,
		Bytes:       uploaded.Bytes,
	}

	err = s.images.Transaction(ctx, func(repo *repository.ImageRepository) error {
		apt, err := repo.LockApartment(ctx, apartmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrApartmentNotFound
			}
			return err
		}

		count, err := repo.CountByApartment(ctx, apartmentID)
		if err != nil {
			return err
		}

		img.IsPrimary = in.IsPrimary || count == 0
		img.Order = int(count)
		img.AltText = apt.Title + " - Image"

		if img.IsPrimary {
			if err := repo.UnsetPrimary(ctx, apartmentID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, img)
	})
	if err != nil {
		s.discard(uploaded.PublicID, apartmentID)
		return nil, err
	}

	s.log.Info("image uploaded",
		zap.Int64("apartment_id", apartmentID),
		zap.Int64("image_id", img.ID),
		zap.String("public_id", img.PublicID),
		zap.Int64("bytes", img.Bytes),
		zap.String("format", img.Format),
		zap.Bool("is_primary", img.IsPrimary),
	)
	return img, nil
}

// Delete removes the image. When it was primary the remaining image with the
// lowest order (then lowest id) is promoted.
func (s *Service) Delete(ctx context.Context, imageID int64) error {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return ErrImageNotFound
		}
		return err
	}

	if img.PublicID != "" {
		if err := s.store.Delete(ctx, img.PublicID); err != nil {
			s.log.Warn("remote image delete failed",
				zap.Int64("image_id", imageID),
				zap.String("public_id", img.PublicID),
				zap.Error(err),
			)
		}
	}

	var promoted int64
	err = s.images.Transaction(ctx, func(repo *repository.ImageRepository) error {
		if _, err := repo.LockApartment(ctx, img.ApartmentID); err != nil {
			if repository.IsNotFound(err) {
				return ErrImageNotFound
			}
			return err
		}

		current, err := repo.GetByID(ctx, imageID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrImageNotFound
			}
			return err
		}
		if err := repo.Delete(ctx, imageID); err != nil {
			return err
		}
		if !current.IsPrimary {
			return nil
		}

		next, err := repo.FirstByOrder(ctx, current.ApartmentID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil
			}
			return err
		}
		promoted = next.ID
		return repo.MarkPrimary(ctx, next.ID)
	})
	if err != nil {
		return err
	}

	fields := []zap.Field{zap.Int64("image_id", imageID), zap.Int64("apartment_id", img.ApartmentID)}
	if promoted != 0 {
		fields = append(fields, zap.Int64("promoted_image_id", promoted))
	}
	s.log.Info("image deleted", fields...)
	return nil
}

// SetPrimary makes the image the apartment's primary. Already primary is a no-op.
func (s *Service) SetPrimary(ctx context.Context, imageID int64) (*domain.Image, error) {
	img, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	if img.IsPrimary {
		return img, nil
	}

	err = s.images.Transaction(ctx, func(repo *repository.ImageRepository) error {
		if _, err := repo.LockApartment(ctx, img.ApartmentID); err != nil {
			if repository.IsNotFound(err) {
				return ErrImageNotFound
			}
			return err
		}

		current, err := repo.GetByID(ctx, imageID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrImageNotFound
			}
			return err
		}
		if current.IsPrimary {
			return nil
		}

		if err := repo.UnsetPrimary(ctx, current.ApartmentID); err != nil {
			return err
		}
		if err := repo.MarkPrimary(ctx, imageID); err != nil {
			if repository.IsNotFound(err) {
				return ErrImageNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("primary image changed", zap.Int64("apartment_id", img.ApartmentID), zap.Int64("image_id", imageID))

	fresh, err := s.images.GetByID(ctx, imageID)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrImageNotFound
		}
		return nil, err
	}
	return fresh, nil
}

// discard removes an uploaded file whose row could not be written.
func (s *Service) discard(publicID string, apartmentID int64) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.store.Delete(ctx, publicID); err != nil {
		s.log.Warn("orphaned remote image",
			zap.Int64("apartment_id", apartmentID),
			zap.String("public_id", publicID),
			zap.Error(err),
		)
	}
}
