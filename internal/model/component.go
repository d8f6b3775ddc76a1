package model

import (
	"time"

	"gorm.io/gorm"
)

// Approval status values for the proto/SMS/PPS checkpoints.
const (
	StatusPending = "pending"
	StatusOK      = "ok"
	StatusNotOK   = "not_ok"
)

// Approval stage names, in checkpoint order.
const (
	StageProto = "proto"
	StageSMS   = "sms"
	StagePPS   = "pps"
)

// Component represents a manufacturable catalog part. Approval runs through
// three sequential checkpoints: prototype, sample (SMS) and pre-production
// sample (PPS).
type Component struct {
	ID            uint           `json:"id" gorm:"primarykey"`
	ProductNumber string         `json:"product_number" gorm:"type:varchar(100);uniqueIndex;not null"`
	Name          string         `json:"name" gorm:"type:varchar(255);not null"`
	Description   string         `json:"description" gorm:"type:text"`
	ComponentType string         `json:"component_type" gorm:"type:varchar(100);index"`
	SupplierID    uint           `json:"supplier_id" gorm:"index;not null"`
	Supplier      *Supplier      `json:"supplier,omitempty"`
	BrandID       *uint          `json:"brand_id" gorm:"index"`
	Brand         *Brand         `json:"brand,omitempty"`
	CategoryID    *uint          `json:"category_id" gorm:"index"`
	Category      *Category      `json:"category,omitempty"`
	ProtoStatus   string         `json:"proto_status" gorm:"type:varchar(10);default:'pending'"`
	ProtoDate     *time.Time     `json:"proto_date"`
	ProtoComment  string         `json:"proto_comment" gorm:"type:text"`
	SMSStatus     string         `json:"sms_status" gorm:"type:varchar(10);default:'pending'"`
	SMSDate       *time.Time     `json:"sms_date"`
	SMSComment    string         `json:"sms_comment" gorm:"type:text"`
	PPSStatus     string         `json:"pps_status" gorm:"type:varchar(10);default:'pending'"`
	PPSDate       *time.Time     `json:"pps_date"`
	PPSComment    string         `json:"pps_comment" gorm:"type:text"`
	Keywords      []Keyword      `json:"keywords,omitempty" gorm:"many2many:component_keywords"`
	Variants      []Variant      `json:"variants,omitempty"`
	Pictures      []Picture      `json:"pictures,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// ApprovalStage returns the furthest checkpoint the component has reached:
// "none" before the prototype is approved, otherwise the last stage with
// status ok.
func (c *Component) ApprovalStage() string {
	switch {
	case c.PPSStatus == StatusOK:
		return StagePPS
	case c.SMSStatus == StatusOK:
		return StageSMS
	case c.ProtoStatus == StatusOK:
		return StageProto
	default:
		return "none"
	}
}
