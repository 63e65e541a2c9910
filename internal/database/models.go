package database

import (
	"time"
)

// MaterialProperty is one material condition row. Placeholder conditions
// have Available false and zero coefficients.
type MaterialProperty struct {
	ID        uint      `gorm:"primaryKey"`
	Material  string    `gorm:"column:material;not null;uniqueIndex:idx_material_condition"`
	Condition string    `gorm:"column:condition;not null;uniqueIndex:idx_material_condition"`
	A         float64   `gorm:"column:a"`
	B         float64   `gorm:"column:b"`
	C         float64   `gorm:"column:c"`
	D         float64   `gorm:"column:d"`
	Available bool      `gorm:"column:available;not null"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

// TableName overrides the table name
func (MaterialProperty) TableName() string {
	return "material_properties"
}
