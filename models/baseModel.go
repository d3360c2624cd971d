package models

import "time"

// Base replaces gorm.Model for marketplace entities: records are hard-deleted and the
// JSON keys follow the dashboard's camelCase convention.
type Base struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Image is an uploaded asset as returned by the media backend.
type Image struct {
	URL      string `json:"url"`
	PublicID string `json:"publicId"`
}
