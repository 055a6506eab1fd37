package domain

import "time"

// Image is a picture of an apartment stored on the remote image host.
// At most one image per apartment has IsPrimary set, and an apartment
// with images always has exactly one.
type Image struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ApartmentID int64     `gorm:"not null;index;index:idx_images_apartment_primary,priority:1" json:"apartment_id"`
	URL         string    `gorm:"size:500;not null" json:"url"`
	PublicID    string    `gorm:"size:255" json:"public_id"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Format      string    `gorm:"size:20" json:"format"`
	Bytes       int64     `json:"bytes"`
	AltText     string    `gorm:"size:255" json:"alt_text"`
	Order       int       `gorm:"column:sort_order;not null;default:0" json:"order"`
	IsPrimary   bool      `gorm:"not null;default:false;index:idx_images_apartment_primary,priority:2" json:"is_primary"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Image) TableName() string { return "images" }
