package model

import "gorm.io/gorm"

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&User{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Ingredient{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Recipe{}, &RecipeIngredient{}); err != nil {
		return err
	}

	if err := db.AutoMigrate(&Favorite{}, &CartItem{}, &Subscription{}); err != nil {
		return err
	}

	return db.AutoMigrate(&ShortLink{})
}
