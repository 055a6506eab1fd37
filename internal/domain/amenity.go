package domain

import "time"

const (
	AmenityCategoryBuilding  = "building"
	AmenityCategoryApartment = "apartment"
	AmenityCategoryArea      = "area"
)

// AmenityCategories lists every category an amenity may carry. The first
// three are the groups the listing UI always renders.
var AmenityCategories = []string{
	AmenityCategoryBuilding,
	AmenityCategoryApartment,
	AmenityCategoryArea,
	"recreational",
	"security",
	"utilities",
	"services",
	"other",
}

type Amenity struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Icon      *string   `gorm:"size:50" json:"icon"`
	Category  string    `gorm:"size:50;not null;index" json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Amenity) TableName() string { return "amenities" }
