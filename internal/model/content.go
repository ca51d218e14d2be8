package model

import "time"

// Content is a single geo-tagged point of interest submitted by a user.
type Content struct {
	ID     uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID uint `gorm:"not null;index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	// restaurant, museum, monument, viewpoint, ...
	Category string `json:"category"`

	// image, video or audio, derived from the uploaded file extension
	MediaType string `json:"media_type"`
	// Key of the stored media object. The bytes live in the storage backend,
	// only the key is kept here
	MediaFilename string `json:"media_filename"`

	Latitude     *float64 `json:"latitude"`
	Longitude    *float64 `json:"longitude"`
	LocationName string   `json:"location_name"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
