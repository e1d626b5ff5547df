package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           string `gorm:"primaryKey;uuid;not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	Username     string `gorm:"uniqueIndex;not null"`
	FirstName    string `gorm:"not null"`
	LastName     string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	AvatarURL    string
	CreatedAt    time.Time

	Recipes []Recipe `gorm:"foreignKey:AuthorID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return nil
}

// Subscription links a subscriber to an author they follow. At most one row
// per (subscriber, author) pair; the self-subscription check lives in the
// service layer, not here.
type Subscription struct {
	ID           string `gorm:"primaryKey;uuid;not null"`
	SubscriberID string `gorm:"uuid;not null;uniqueIndex:idx_subscriptions_pair"`
	AuthorID     string `gorm:"uuid;not null;uniqueIndex:idx_subscriptions_pair"`
	CreatedAt    time.Time

	Subscriber User `gorm:"foreignKey:SubscriberID;constraint:OnDelete:CASCADE"`
	Author     User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

func (s *Subscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}
