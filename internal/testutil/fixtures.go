package testutil

import (
	"context"
	"testing"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fastHash keeps fixture hashing cheap; the format is the production one.
var fastHash = utils.HashParams{
	Memory:      8 * 1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

// CreateTestUser inserts a user with a hashed password.
func CreateTestUser(t *testing.T, db *gorm.DB, username, email, password string) *models.User {
	t.Helper()

	hash, err := utils.HashPasswordWith(password, fastHash)
	if err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}

	user := &models.User{
		ID:                  uuid.New(),
		Username:            username,
		Email:               email,
		PasswordHash:        hash,
		FavoriteRestaurants: []uuid.UUID{},
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user
}

// DefaultTestUser inserts the "ana" user.
func DefaultTestUser(t *testing.T, db *gorm.DB) *models.User {
	return CreateTestUser(t, db, "ana", "ana@x.com", "secret1")
}

// NewTestRestaurant builds an unsaved restaurant owned by ownerID at (lng, lat).
func NewTestRestaurant(ownerID uuid.UUID, name string, lng, lat float64) *models.Restaurant {
	facebook := "fb.com/" + name
	restaurant := &models.Restaurant{
		ID:          uuid.New(),
		Name:        name,
		Address:     "1 Collins Street, Melbourne",
		Cuisine:     "Italian",
		Rating:      4,
		Reviews:     "Reliable pasta",
		Menu:        []string{"Cacio e pepe", "Tiramisu"},
		PhoneNumber: "+61 3 9000 0000",
		CurrentLocation: models.Location{
			Label:       "Melbourne CBD",
			Coordinates: []float64{lng, lat},
		},
		Schedule: []models.ScheduleEntry{
			{Day: "Monday", Open: "11:00", Close: "22:00"},
		},
		SocialMedia: models.SocialMedia{Facebook: &facebook},
		OwnerID:     ownerID,
	}
	restaurant.SetCoordinates([]float64{lng, lat})
	return restaurant
}

// CreateTestRestaurant inserts a restaurant built by NewTestRestaurant.
func CreateTestRestaurant(t *testing.T, db *gorm.DB, ownerID uuid.UUID, name string, lng, lat float64) *models.Restaurant {
	t.Helper()

	restaurant := NewTestRestaurant(ownerID, name, lng, lat)
	if err := db.Omit("Owner").Create(restaurant).Error; err != nil {
		t.Fatalf("Failed to create test restaurant: %v", err)
	}
	return restaurant
}

// AuthContext returns a context carrying the user's verified identity.
func AuthContext(user *models.User) context.Context {
	claims := utils.ClaimsFor(user)
	return access.WithIdentity(context.Background(), &claims)
}
