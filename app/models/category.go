package models

import (
	"time"

	"gorm.io/datatypes"
)

type Category struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null;uniqueIndex:idx_category_name_parent" json:"name"`
	ParentID *uint  `gorm:"uniqueIndex:idx_category_name_parent;index" json:"parent"`
	// FilterAttributes is the legacy denormalized filter schema; Filters is authoritative.
	FilterAttributes datatypes.JSONMap `json:"filter_attributes,omitempty"`
	Filters          []FilterAttribute `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE" json:"filters,omitempty"`
	Children         []Category        `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

type FilterType string

const (
	FilterText     FilterType = "text"
	FilterNumber   FilterType = "number"
	FilterSelect   FilterType = "select"
	FilterCheckbox FilterType = "checkbox"
	FilterRange    FilterType = "range"
)

func (t FilterType) Valid() bool {
	switch t {
	case FilterText, FilterNumber, FilterSelect, FilterCheckbox, FilterRange:
		return true
	}
	return false
}

type FilterAttribute struct {
	ID            uint                        `gorm:"primaryKey" json:"id"`
	CategoryID    uint                        `gorm:"not null;uniqueIndex:idx_filter_name_category" json:"category_id"`
	Name          string                      `gorm:"size:100;not null;uniqueIndex:idx_filter_name_category" json:"name"`
	AttributeType FilterType                  `gorm:"size:20;not null" json:"attribute_type"`
	Options       datatypes.JSONSlice[string] `json:"options"`
	MinValue      *float64                    `json:"min_value"`
	MaxValue      *float64                    `json:"max_value"`
	Unit          string                      `gorm:"size:20" json:"unit"`
}
