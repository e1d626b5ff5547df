package model

import "time"

// ShortLink binds a minted 8-character token to a recipe. Tokens are never
// reused or looked up on mint; several links may point at the same recipe.
type ShortLink struct {
	Token     string `gorm:"primaryKey;size:8;not null"`
	RecipeID  string `gorm:"uuid;not null;index"`
	CreatedAt time.Time

	Recipe Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

func (s *ShortLink) TableName() string {
	return "short_links"
}
