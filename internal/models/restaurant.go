package models

import (
	"time"

	"github.com/google/uuid"
)

// Location is the human label of where a restaurant currently operates.
// Its coordinates are kept as given and are not used for geo queries.
type Location struct {
	Label       string    `gorm:"column:label;type:varchar(255)" json:"label"`
	Coordinates []float64 `gorm:"column:coordinates;serializer:json" json:"coordinates,omitempty"`
}

type ScheduleEntry struct {
	Day   string `json:"day"`
	Open  string `json:"open"`
	Close string `json:"close"`
}

type SocialMedia struct {
	Facebook  *string `gorm:"type:varchar(255)" json:"facebook,omitempty"`
	Twitter   *string `gorm:"type:varchar(255)" json:"twitter,omitempty"`
	Instagram *string `gorm:"type:varchar(255)" json:"instagram,omitempty"`
}

type Restaurant struct {
	ID          uuid.UUID `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Address     string    `gorm:"type:varchar(255);not null" json:"address"`
	Cuisine     string    `gorm:"type:varchar(255);not null;index" json:"cuisine"`
	Rating      float64   `gorm:"not null;index" json:"rating"`
	Reviews     string    `gorm:"type:varchar(255);not null" json:"reviews"`
	Menu        []string  `gorm:"serializer:json" json:"menu"`
	PhoneNumber string    `gorm:"type:varchar(255);not null" json:"phoneNumber"`

	CurrentLocation Location        `gorm:"embedded;embeddedPrefix:current_location_" json:"currentLocation"`
	Schedule        []ScheduleEntry `gorm:"serializer:json" json:"schedule"`
	SocialMedia     SocialMedia     `gorm:"embedded;embeddedPrefix:social_" json:"socialMedia"`

	// Geo query point, independent of CurrentLocation.Coordinates.
	Longitude *float64 `gorm:"index:idx_restaurants_point" json:"longitude,omitempty"`
	Latitude  *float64 `gorm:"index:idx_restaurants_point" json:"latitude,omitempty"`

	OwnerID uuid.UUID `gorm:"type:varchar(36);not null;index" json:"userId"`
	Owner   User      `gorm:"foreignKey:OwnerID;constraint:OnDelete:RESTRICT" json:"-"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Coordinates returns the geo point as [lng, lat], or nil when unset.
func (r *Restaurant) Coordinates() []float64 {
	if r.Longitude == nil || r.Latitude == nil {
		return nil
	}
	return []float64{*r.Longitude, *r.Latitude}
}

// SetCoordinates stores a [lng, lat] pair. Anything else clears the point.
func (r *Restaurant) SetCoordinates(lngLat []float64) {
	if len(lngLat) != 2 {
		r.Longitude, r.Latitude = nil, nil
		return
	}
	lng, lat := lngLat[0], lngLat[1]
	r.Longitude, r.Latitude = &lng, &lat
}

// OwnedBy reports whether userID is the restaurant's owner.
func (r *Restaurant) OwnedBy(userID uuid.UUID) bool {
	return r.OwnerID != uuid.Nil && r.OwnerID == userID
}
