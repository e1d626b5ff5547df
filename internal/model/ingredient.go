package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Ingredient is immutable reference data. (Name, MeasurementUnit) is not
// unique in the store; it is the key the shopping-list aggregation merges by.
type Ingredient struct {
	ID              string `gorm:"primaryKey;uuid;not null"`
	Name            string `gorm:"not null;index"`
	MeasurementUnit string `gorm:"not null"`
}

func (i *Ingredient) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}
