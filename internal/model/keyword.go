package model

import "time"

// Keyword is a searchable tag attached to components. Names are stored
// lowercase; UsageCount tracks how many components currently carry the tag
// and drives autocomplete ranking.
type Keyword struct {
	ID         uint      `json:"id" gorm:"primarykey"`
	Name       string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	UsageCount int       `json:"usage_count" gorm:"default:0"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
