package domain

import (
	"errors"
	"strings"
	"time"
)

type ApartmentStatus string

const (
	StatusAvailable   ApartmentStatus = "available"
	StatusRented      ApartmentStatus = "rented"
	StatusMaintenance ApartmentStatus = "maintenance"
)

var ErrInvalidStatus = errors.New("invalid apartment status")

func ParseApartmentStatus(s string) (ApartmentStatus, error) {
	switch ApartmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusAvailable:
		return StatusAvailable, nil
	case StatusRented:
		return StatusRented, nil
	case StatusMaintenance:
		return StatusMaintenance, nil
	}
	return "", ErrInvalidStatus
}

type Apartment struct {
	ID          int64           `gorm:"primaryKey" json:"id"`
	Title       string          `gorm:"size:255;not null;uniqueIndex" json:"title"`
	Description string          `gorm:"type:text;not null" json:"description"`
	Price       float64         `gorm:"type:decimal(10,2);not null;index" json:"price"`
	Bedrooms    int             `gorm:"not null" json:"bedrooms"`
	Bathrooms   int             `gorm:"not null" json:"bathrooms"`
	AreaSqm     float64         `gorm:"column:area_sqm;type:decimal(8,2);not null" json:"area_sqm"`
	Floor       int             `gorm:"not null;default:0" json:"floor"`
	Status      ApartmentStatus `gorm:"size:20;not null;default:available;index" json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`

	// Relations
	Images    []Image   `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE" json:"images,omitempty"`
	Features  []Feature `gorm:"foreignKey:ApartmentID;constraint:OnDelete:CASCADE" json:"features,omitempty"`
	Amenities []Amenity `gorm:"many2many:apartment_amenity" json:"amenities,omitempty"`
}

func (Apartment) TableName() string { return "apartments" }

// PrimaryImage returns the loaded image flagged as primary, if any.
func (a *Apartment) PrimaryImage() *Image {
	for i := range a.Images {
		if a.Images[i].IsPrimary {
			return &a.Images[i]
		}
	}
	return nil
}

func (a *Apartment) IsAvailable() bool {
	return a.Status == StatusAvailable
}

// ApartmentAmenity is the join row between apartments and amenities.
type ApartmentAmenity struct {
	ApartmentID int64 `gorm:"primaryKey;autoIncrement:false"`
	AmenityID   int64 `gorm:"primaryKey;autoIncrement:false"`
}

func (ApartmentAmenity) TableName() string { return "apartment_amenity" }
