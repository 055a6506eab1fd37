package amenity

import (
	"strings"

	"apartments/internal/domain"
	"apartments/internal/pkg/validator"
)

const (
	DefaultPopularLimit = 10
	MaxPopularLimit     = 50
)

type CreateAmenityRequest struct {
	Name     string  `json:"name" validate:"required,max=255"`
	Icon     *string `json:"icon" validate:"omitnil,max=50"`
	Category string  `json:"category" validate:"required,oneof=building apartment area recreational security utilities services other"`
}

// UpdateAmenityRequest changes only the fields that are present.
type UpdateAmenityRequest struct {
	Name     *string `json:"name" validate:"omitnil,min=1,max=255"`
	Icon     *string `json:"icon" validate:"omitnil,max=50"`
	Category *string `json:"category" validate:"omitnil,oneof=building apartment area recreational security utilities services other"`
}

var messages = validator.Messages{
	"name.required":     "The amenity name is required.",
	"name.min":          "The amenity name is required.",
	"name.max":          "The amenity name cannot exceed 255 characters.",
	"icon.max":          "The icon cannot exceed 50 characters.",
	"category.required": "Please select an amenity category.",
	"category.oneof":    "Invalid category. Valid categories: " + strings.Join(domain.AmenityCategories, ", ") + ".",
}

func (r *CreateAmenityRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Category = strings.ToLower(strings.TrimSpace(r.Category))
}

func (r *CreateAmenityRequest) Validate() error {
	r.normalize()
	return validator.ValidateWith(r, messages).OrNil()
}

func (r *UpdateAmenityRequest) normalize() {
	if r.Name != nil {
		v := strings.TrimSpace(*r.Name)
		r.Name = &v
	}
	if r.Category != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Category))
		r.Category = &v
	}
}

func (r *UpdateAmenityRequest) Validate() error {
	r.normalize()
	return validator.ValidateWith(r, messages).OrNil()
}
