package model

import "time"

// Picture is an uploaded image belonging to a component. A nil VariantID
// means the picture is part of the component-level gallery; otherwise it
// belongs to that variant. At most one picture per gallery is primary.
type Picture struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	ComponentID  uint      `json:"component_id" gorm:"index;not null"`
	VariantID    *uint     `json:"variant_id" gorm:"index"`
	FileName     string    `json:"file_name" gorm:"type:varchar(255);not null"`
	URL          string    `json:"url" gorm:"type:varchar(500)"`
	ThumbnailURL string    `json:"thumbnail_url" gorm:"type:varchar(500)"`
	AltText      string    `json:"alt_text" gorm:"type:varchar(255)"`
	IsPrimary    bool      `json:"is_primary" gorm:"default:false"`
	SortOrder    int       `json:"sort_order" gorm:"default:0"`
	Width        int       `json:"width"`
	Height       int       `json:"height"`
	FileSize     int64     `json:"file_size"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
