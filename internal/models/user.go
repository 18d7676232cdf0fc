package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username     string    `gorm:"type:varchar(20);uniqueIndex;not null" json:"username"`
	Email        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"` // Never expose password hash in JSON
	FirstName    *string   `gorm:"type:varchar(255)" json:"firstName,omitempty"`
	LastName     *string   `gorm:"type:varchar(255)" json:"lastName,omitempty"`

	// Non-owning references to restaurants.
	FavoriteRestaurants []uuid.UUID `gorm:"serializer:json" json:"favoriteRestaurants"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
