package apartment

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"apartments/internal/domain"
	"apartments/internal/pkg/validator"
	"apartments/internal/repository"
)

const (
	DefaultPerPage       = 15
	MaxPerPage           = 50
	DefaultFeaturedLimit = 3
	MaxFeaturedLimit     = 20
)

type FeatureInput struct {
	Name  string `json:"name" validate:"required,max=100"`
	Value string `json:"value" validate:"required,max=255"`
}

type ImageInput struct {
	URL       string `json:"url" validate:"required,url,max=500"`
	AltText   string `json:"alt_text" validate:"max=255"`
	Order     *int   `json:"order" validate:"omitnil,min=0,max=255"`
	IsPrimary bool   `json:"is_primary"`
}

type CreateApartmentRequest struct {
	Title       string         `json:"title" validate:"required,max=255"`
	Description string         `json:"description" validate:"required,min=50,max=2000"`
	Price       *float64       `json:"price" validate:"required,min=0,max=999999.99"`
	Bedrooms    *int           `json:"bedrooms" validate:"required,min=1,max=10"`
	Bathrooms   *int           `json:"bathrooms" validate:"required,min=1,max=10"`
	AreaSqm     *float64       `json:"area_sqm" validate:"required,min=1,max=10000"`
	Floor       *int           `json:"floor" validate:"omitnil,min=0,max=200"`
	Status      string         `json:"status" validate:"required,oneof=available rented maintenance"`
	AmenityIDs  []int64        `json:"amenity_ids" validate:"omitempty,dive,min=1"`
	Features    []FeatureInput `json:"features" validate:"omitempty,dive"`
	Images      []ImageInput   `json:"images" validate:"omitempty,max=10,dive"`
}

// UpdateApartmentRequest is a partial update. Nil fields are left untouched;
// a present amenity_ids or features list replaces the stored one.
type UpdateApartmentRequest struct {
	Title       *string         `json:"title" validate:"omitnil,min=1,max=255"`
	Description *string         `json:"description" validate:"omitnil,min=50,max=2000"`
	Price       *float64        `json:"price" validate:"omitnil,min=0,max=999999.99"`
	Bedrooms    *int            `json:"bedrooms" validate:"omitnil,min=1,max=10"`
	Bathrooms   *int            `json:"bathrooms" validate:"omitnil,min=1,max=10"`
	AreaSqm     *float64        `json:"area_sqm" validate:"omitnil,min=1,max=10000"`
	Floor       *int            `json:"floor" validate:"omitnil,min=0,max=200"`
	Status      *string         `json:"status" validate:"omitnil,oneof=available rented maintenance"`
	AmenityIDs  *[]int64        `json:"amenity_ids" validate:"omitnil,dive,min=1"`
	Features    *[]FeatureInput `json:"features" validate:"omitnil,dive"`
}

var writeMessages = validator.Messages{
	"title.required":            "The apartment title is required.",
	"title.max":                 "The apartment title cannot exceed 255 characters.",
	"description.required":      "Please provide a description for the apartment.",
	"description.min":           "The description must be at least 50 characters.",
	"description.max":           "The description cannot exceed 2000 characters.",
	"bedrooms.required":         "Please specify the number of bedrooms.",
	"bedrooms.min":              "An apartment must have at least 1 bedroom.",
	"bedrooms.max":              "Maximum 10 bedrooms allowed.",
	"bathrooms.required":        "Please specify the number of bathrooms.",
	"bathrooms.min":             "An apartment must have at least 1 bathroom.",
	"bathrooms.max":             "Maximum 10 bathrooms allowed.",
	"price.required":            "Monthly rent amount is required.",
	"price.min":                 "Monthly rent cannot be negative.",
	"price.max":                 "Monthly rent cannot exceed $999,999.99.",
	"status.required":           "Please specify the apartment status.",
	"status.oneof":              `Status must be one of "available", "rented" or "maintenance".`,
	"features.*.name.required":  "Each feature must have a name.",
	"features.*.value.required": "Each feature must have a value.",
	"images.max":                "Maximum 10 images allowed per apartment.",
	"images.*.url.required":     "Each image must have a URL.",
	"images.*.url.url":          "Each image URL must be valid.",
}

func (r *CreateApartmentRequest) Validate() error {
	return validator.ValidateWith(r, writeMessages).OrNil()
}

func (r *UpdateApartmentRequest) Validate() error {
	return validator.ValidateWith(r, writeMessages).OrNil()
}

// SearchFilters is the query string of GET /apartments.
type SearchFilters struct {
	Status    *string  `form:"status" validate:"omitnil,oneof=available rented maintenance"`
	Bedrooms  *int     `form:"bedrooms" validate:"omitnil,min=1,max=10"`
	Bathrooms *int     `form:"bathrooms" validate:"omitnil,min=1,max=10"`
	MinPrice  *float64 `form:"min_price" validate:"omitnil,min=0"`
	MaxPrice  *float64 `form:"max_price" validate:"omitnil,min=0"`
	MinSqft   *float64 `form:"min_sqft" validate:"omitnil,min=0"`
	MaxSqft   *float64 `form:"max_sqft" validate:"omitnil,min=0"`
	Query     string   `form:"q" validate:"max=255"`
	SortBy    string   `form:"sort_by" validate:"omitempty,oneof=price_asc price_desc bedrooms square_feet newest oldest"`
	Page      int      `form:"page" validate:"min=1"`
	PerPage   int      `form:"per_page" validate:"min=1,max=50"`
}

var searchMessages = validator.Messages{
	"status.oneof":  `Status must be one of "available", "rented" or "maintenance".`,
	"bedrooms.min":  "Number of bedrooms must be at least 1.",
	"bedrooms.max":  "Number of bedrooms cannot exceed 10.",
	"bathrooms.min": "Number of bathrooms must be at least 1.",
	"bathrooms.max": "Number of bathrooms cannot exceed 10.",
	"min_price.min": "Minimum price cannot be negative.",
	"max_price.min": "Maximum price cannot be negative.",
	"min_sqft.min":  "Minimum square footage cannot be negative.",
	"max_sqft.min":  "Maximum square footage cannot be negative.",
	"sort_by.oneof": "Invalid sort option. Valid options: price_asc, price_desc, bedrooms, square_feet, newest, oldest.",
	"per_page.max":  "Cannot retrieve more than 50 items per page.",
	"per_page.min":  "The items per page must be at least 1.",
	"page.min":      "The page must be at least 1.",
}

var numberMessages = map[string]string{
	"bedrooms":  "Number of bedrooms must be a valid number.",
	"bathrooms": "Number of bathrooms must be a valid number.",
	"min_price": "Minimum price must be a valid number.",
	"max_price": "Maximum price must be a valid number.",
	"min_sqft":  "Minimum square footage must be a valid number.",
	"max_sqft":  "Maximum square footage must be a valid number.",
	"page":      "The page must be an integer.",
	"per_page":  "The items per page must be an integer.",
}

// ParseSearchFilters reads and validates the listing query string.
// The returned error is a validator.Errors when the input is rejected.
func ParseSearchFilters(q url.Values) (SearchFilters, error) {
	f := SearchFilters{Page: 1, PerPage: DefaultPerPage}
	errs := validator.Errors{}

	if v := strings.TrimSpace(q.Get("status")); v != "" {
		f.Status = &v
	}
	f.Bedrooms = parseIntParam(q, "bedrooms", errs)
	f.Bathrooms = parseIntParam(q, "bathrooms", errs)
	f.MinPrice = parseFloatParam(q, "min_price", errs)
	f.MaxPrice = parseFloatParam(q, "max_price", errs)
	f.MinSqft = parseFloatParam(q, "min_sqft", errs)
	f.MaxSqft = parseFloatParam(q, "max_sqft", errs)

	for _, key := range []string{"q", "query", "search"} {
		if v := strings.TrimSpace(q.Get(key)); v != "" {
			f.Query = v
			break
		}
	}
	f.SortBy = strings.TrimSpace(q.Get("sort_by"))

	if p := parseIntParam(q, "page", errs); p != nil {
		f.Page = *p
	}
	if p := parseIntParam(q, "per_page", errs); p != nil {
		f.PerPage = *p
	}

	if len(errs) > 0 {
		return f, errs
	}

	errs.Merge(validator.ValidateWith(&f, searchMessages))

	if f.MinPrice != nil && f.MaxPrice != nil && *f.MaxPrice < *f.MinPrice {
		errs.Add("max_price", "Maximum price must be greater than or equal to minimum price.")
	}
	if f.MinSqft != nil && f.MaxSqft != nil && *f.MaxSqft < *f.MinSqft {
		errs.Add("max_sqft", "Maximum square footage must be greater than or equal to minimum square footage.")
	}

	return f, errs.OrNil()
}

// RepositoryFilters maps the validated query onto the repository filter set.
func (f SearchFilters) RepositoryFilters() repository.ApartmentFilters {
	rf := repository.ApartmentFilters{
		Bedrooms:  f.Bedrooms,
		Bathrooms: f.Bathrooms,
		MinPrice:  f.MinPrice,
		MaxPrice:  f.MaxPrice,
		MinArea:   f.MinSqft,
		MaxArea:   f.MaxSqft,
		Query:     f.Query,
		SortBy:    f.SortBy,
		Limit:     f.PerPage,
		Offset:    (f.Page - 1) * f.PerPage,
	}
	if f.Status != nil {
		if st, err := domain.ParseApartmentStatus(*f.Status); err == nil {
			rf.Status = &st
		}
	}
	return rf
}

func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total == 0 {
		return 1
	}
	return int(math.Ceil(float64(total) / float64(perPage)))
}

func parseIntParam(q url.Values, key string, errs validator.Errors) *int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		errs.Add(key, numberMessages[key])
		return nil
	}
	return &v
}

func parseFloatParam(q url.Values, key string, errs validator.Errors) *float64 {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Add(key, numberMessages[key])
		return nil
	}
	return &v
}
