package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Favorite marks a recipe as favorited by a user. One row per pair.
type Favorite struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	UserID    string `gorm:"uuid;not null;uniqueIndex:idx_favorites_pair"`
	RecipeID  string `gorm:"uuid;not null;uniqueIndex:idx_favorites_pair"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (f *Favorite) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.New().String()
	}
	return nil
}

// CartItem puts a recipe into a user's shopping cart. One row per pair.
type CartItem struct {
	ID        string `gorm:"primaryKey;uuid;not null"`
	UserID    string `gorm:"uuid;not null;uniqueIndex:idx_cart_items_pair"`
	RecipeID  string `gorm:"uuid;not null;uniqueIndex:idx_cart_items_pair"`
	CreatedAt time.Time

	User   User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return nil
}
