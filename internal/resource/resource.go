package resource

import (
	"apartments/internal/domain"
)

type Specifications struct {
	Bedrooms  int     `json:"bedrooms"`
	Bathrooms int     `json:"bathrooms"`
	AreaSqm   float64 `json:"area_sqm"`
	Floor     int     `json:"floor"`
}

type Price struct {
	Amount    float64 `json:"amount"`
	Currency  string  `json:"currency"`
	Formatted string  `json:"formatted"`
	Per       string  `json:"per"`
}

type Apartment struct {
	ID             int64          `json:"id"`
	Title          string         `json:"title"`
	Slug           string         `json:"slug"`
	Description    string         `json:"description"`
	Specifications Specifications `json:"specifications"`
	Price          Price          `json:"price"`
	Status         string         `json:"status"`
	IsAvailable    bool           `json:"is_available"`
	Images         []Image        `json:"images"`
	PrimaryImage   *Image         `json:"primary_image"`
	Amenities      []Amenity      `json:"amenities"`
	Features       []Feature      `json:"features"`
	ImageCount     int            `json:"image_count"`
	AmenityCount   int            `json:"amenity_count"`
	CreatedAt      string         `json:"created_at"`
	UpdatedAt      string         `json:"updated_at"`
}

type Image struct {
	ID          int64  `json:"id"`
	ApartmentID int64  `json:"apartment_id"`
	URL         string `json:"url"`
	PublicID    string `json:"public_id"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Format      string `json:"format"`
	Bytes       int64  `json:"bytes"`
	AltText     string `json:"alt_text"`
	Order       int    `json:"order"`
	IsPrimary   bool   `json:"is_primary"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

type Amenity struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Icon           *string `json:"icon"`
	Category       string  `json:"category"`
	IsPopular      bool    `json:"is_popular"`
	ApartmentCount *int64  `json:"apartment_count,omitempty"`
}

type Feature struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Value   string `json:"value"`
	Display string `json:"display"`
}

// ListMeta describes the filtered set behind one page of apartments.
type ListMeta struct {
	Total          int64 `json:"total"`
	AvailableCount int64 `json:"available_count"`
	RentedCount    int64 `json:"rented_count"`
	Page           int   `json:"page"`
	PerPage        int   `json:"per_page"`
	LastPage       int   `json:"last_page"`
}

type ApartmentCollection struct {
	Data []Apartment `json:"data"`
	Meta ListMeta    `json:"meta"`
}

// AmenityGroup is one category of the grouped amenity listing.
type AmenityGroup struct {
	Category  string    `json:"category"`
	Label     string    `json:"label"`
	Amenities []Amenity `json:"amenities"`
}

func NewApartment(a *domain.Apartment) Apartment {
	out := Apartment{
		ID:          a.ID,
		Title:       a.Title,
		Slug:        Slug(a.Title),
		Description: a.Description,
		Specifications: Specifications{
			Bedrooms:  a.Bedrooms,
			Bathrooms: a.Bathrooms,
			AreaSqm:   a.AreaSqm,
			Floor:     a.Floor,
		},
		Price: Price{
			Amount:    a.Price,
			Currency:  Currency,
			Formatted: FormatPrice(a.Price),
			Per:       "month",
		},
		Status:       string(a.Status),
		IsAvailable:  a.IsAvailable(),
		Images:       NewImages(a.Images),
		Amenities:    NewAmenities(a.Amenities),
		Features:     NewFeatures(a.Features),
		ImageCount:   len(a.Images),
		AmenityCount: len(a.Amenities),
		CreatedAt:    LongDate(a.CreatedAt),
		UpdatedAt:    Relative(a.UpdatedAt),
	}
	if p := a.PrimaryImage(); p != nil {
		img := NewImage(p)
		out.PrimaryImage = &img
	}
	return out
}

func NewApartments(list []domain.Apartment) []Apartment {
	out := make([]Apartment, 0, len(list))
	for i := range list {
		out = append(out, NewApartment(&list[i]))
	}
	return out
}

func NewImage(img *domain.Image) Image {
	return Image{
		ID:          img.ID,
		ApartmentID: img.ApartmentID,
		URL:         img.URL,
		PublicID:    img.PublicID,
		Width:       img.Width,
		Height:      img.Height,
		Format:      img.Format,
		Bytes:       img.Bytes,
		AltText:     img.AltText,
		Order:       img.Order,
		IsPrimary:   img.IsPrimary,
		CreatedAt:   ISO(img.CreatedAt),
		UpdatedAt:   ISO(img.UpdatedAt),
	}
}

func NewImages(list []domain.Image) []Image {
	out := make([]Image, 0, len(list))
	for i := range list {
		out = append(out, NewImage(&list[i]))
	}
	return out
}

func NewAmenity(a *domain.Amenity) Amenity {
	return Amenity{
		ID:       a.ID,
		Name:     a.Name,
		Icon:     a.Icon,
		Category: a.Category,
	}
}

// NewAmenityWithCount also reports usage. More than three apartments makes it popular.
func NewAmenityWithCount(a *domain.Amenity, apartments int64) Amenity {
	out := NewAmenity(a)
	out.ApartmentCount = &apartments
	out.IsPopular = apartments > 3
	return out
}

func NewAmenities(list []domain.Amenity) []Amenity {
	out := make([]Amenity, 0, len(list))
	for i := range list {
		out = append(out, NewAmenity(&list[i]))
	}
	return out
}

func NewFeature(f *domain.Feature) Feature {
	return Feature{
		ID:      f.ID,
		Name:    f.Name,
		Value:   f.Value,
		Display: f.Name + ": " + f.Value,
	}
}

func NewFeatures(list []domain.Feature) []Feature {
	out := make([]Feature, 0, len(list))
	for i := range list {
		out = append(out, NewFeature(&list[i]))
	}
	return out
}
