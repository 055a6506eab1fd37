package domain

import "time"

// Feature is a free-form name/value attribute owned by one apartment.
type Feature struct {
	ID          int64     `gorm:"primaryKey" json:"id"`
	ApartmentID int64     `gorm:"not null;index" json:"apartment_id"`
	Name        string    `gorm:"size:100;not null" json:"name"`
	Value       string    `gorm:"size:255;not null" json:"value"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Feature) TableName() string { return "features" }
