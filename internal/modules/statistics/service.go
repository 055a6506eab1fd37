// Package statistics builds the dashboard summary of the listing inventory.
package statistics

import (
	"context"
	"math"
	"time"

	"apartments/internal/repository"
	"apartments/internal/resource"

	"gorm.io/gorm"
)

type ApartmentTotals struct {
	Total         int64   `json:"total"`
	Available     int64   `json:"available"`
	Rented        int64   `json:"rented"`
	Maintenance   int64   `json:"maintenance"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

type Pricing struct {
	Average  float64 `json:"average"`
	Minimum  float64 `json:"minimum"`
	Maximum  float64 `json:"maximum"`
	Currency string  `json:"currency"`
}

type AmenityTotals struct {
	Total int64 `json:"total"`
}

type Statistics struct {
	Apartments  ApartmentTotals `json:"apartments"`
	Pricing     Pricing         `json:"pricing"`
	Amenities   AmenityTotals   `json:"amenities"`
	GeneratedAt string          `json:"generated_at"`
}

type Service struct {
	apartments *repository.ApartmentRepository
	amenities  *repository.AmenityRepository
	now        func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{
		apartments: repository.NewApartmentRepository(db),
		amenities:  repository.NewAmenityRepository(db),
		now:        time.Now,
	}
}

func (s *Service) Compute(ctx context.Context) (*Statistics, error) {
	st, err := s.apartments.Stats(ctx)
	if err != nil {
		return nil, err
	}
	amenities, err := s.amenities.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Statistics{
		Apartments: ApartmentTotals{
			Total:         st.Total,
			Available:     st.Available,
			Rented:        st.Rented,
			Maintenance:   st.Maintenance,
			OccupancyRate: OccupancyRate(st.Rented, st.Total),
		},
		Pricing: Pricing{
			Average:  round2(st.AveragePrice),
			Minimum:  st.MinPrice,
			Maximum:  st.MaxPrice,
			Currency: resource.Currency,
		},
		Amenities:   AmenityTotals{Total: amenities},
		GeneratedAt: s.now().Format(resource.DateTimeLayout),
	}, nil
}

// OccupancyRate is the rented share in percent, rounded to two decimals.
func OccupancyRate(rented, total int64) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(rented) / float64(total) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
