package model

import (
	"time"

	"gorm.io/gorm"
)

// Variant is a color variation of a component with its own SKU and picture
// set. The SKU is derived from supplier code, product number and color name.
type Variant struct {
	ID          uint           `json:"id" gorm:"primarykey"`
	ComponentID uint           `json:"component_id" gorm:"index;not null"`
	ColorID     uint           `json:"color_id" gorm:"index;not null"`
	Color       *Color         `json:"color,omitempty"`
	SKU         string         `json:"sku" gorm:"type:varchar(150);uniqueIndex;not null"`
	IsActive    bool           `json:"is_active" gorm:"default:true"`
	Pictures    []Picture      `json:"pictures,omitempty" gorm:"foreignKey:VariantID"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// Color is a named color with its display hex code, shared across variants.
type Color struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	Name      string    `json:"name" gorm:"type:varchar(100);uniqueIndex;not null"`
	HexCode   string    `json:"hex_code" gorm:"type:varchar(7)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
