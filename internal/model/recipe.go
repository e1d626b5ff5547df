package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Recipe struct {
	ID                 string `gorm:"primaryKey;uuid;not null"`
	AuthorID           string `gorm:"uuid;not null;index"`
	Name               string `gorm:"not null"`
	ImageURL           string `gorm:"not null"`
	Text               string `gorm:"not null"`
	CookingTimeMinutes int    `gorm:"not null"`
	CreatedAt          time.Time

	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}

// RecipeIngredient is one line item of a recipe. A recipe keeps at least one
// line item and never references the same ingredient twice; both rules are
// enforced by the service before any write.
type RecipeIngredient struct {
	ID           string `gorm:"primaryKey;uuid;not null"`
	RecipeID     string `gorm:"uuid;not null;index;uniqueIndex:idx_recipe_ingredient"`
	IngredientID string `gorm:"uuid;not null;uniqueIndex:idx_recipe_ingredient"`
	Amount       int    `gorm:"not null"`
	// Position preserves the order the author listed the ingredients in.
	Position int `gorm:"not null;default:0"`

	Recipe     Recipe     `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	Ingredient Ingredient `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
}

func (ri *RecipeIngredient) BeforeCreate(tx *gorm.DB) error {
	if ri.ID == "" {
		ri.ID = uuid.New().String()
	}
	return nil
}
