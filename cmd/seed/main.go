package main

import (
	"context"
	"log"
	"os"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/config"
	"github.com/Baaaki/restaurant-directory/internal/database"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/service"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/internal/validation"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"go.uber.org/zap"
)

// demoRestaurants is loaded once for the demo user; reruns are no-ops.
var demoRestaurants = []validation.RestaurantInput{
	{
		Name:            "Degraves Espresso",
		Address:         "23 Degraves Street, Melbourne VIC 3000",
		Cuisine:         "Cafe",
		Rating:          rating(4.4),
		Reviews:         "Laneway coffee and toasties",
		Menu:            []string{"Flat white", "Ham and cheese toastie", "Banana bread"},
		CurrentLocation: &validation.LocationInput{Label: "Degraves Street", Coordinates: []float64{144.9654, -37.8170}},
		Coordinates:     []float64{144.9654, -37.8170},
		Schedule: []validation.ScheduleInput{
			{Day: "Monday-Friday", Open: "07:00", Close: "17:00"},
			{Day: "Saturday", Open: "08:00", Close: "15:00"},
		},
		SocialMedia: &validation.SocialMediaInput{Instagram: "@degravesespresso"},
		PhoneNumber: "+61 3 9654 1111",
	},
	{
		Name:            "Lygon Street Trattoria",
		Address:         "120 Lygon Street, Carlton VIC 3053",
		Cuisine:         "Italian",
		Rating:          rating(4.6),
		Reviews:         "Handmade pasta, loud and friendly",
		Menu:            []string{"Cacio e pepe", "Tiramisu"},
		CurrentLocation: &validation.LocationInput{Label: "Carlton", Coordinates: []float64{144.9668, -37.8032}},
		Coordinates:     []float64{144.9668, -37.8032},
		Schedule: []validation.ScheduleInput{
			{Day: "Tuesday-Sunday", Open: "12:00", Close: "22:30"},
		},
		PhoneNumber: "+61 3 9347 2222",
	},
	{
		Name:            "Acland Street Dumplings",
		Address:         "88 Acland Street, St Kilda VIC 3182",
		Cuisine:         "Chinese",
		Rating:          rating(4.1),
		Reviews:         "Pork and chive dumplings by the dozen",
		Menu:            []string{"Pork and chive dumplings", "Spring onion pancake"},
		CurrentLocation: &validation.LocationInput{Label: "St Kilda", Coordinates: []float64{144.9799, -37.8676}},
		Coordinates:     []float64{144.9799, -37.8676},
		Schedule: []validation.ScheduleInput{
			{Day: "Every day", Open: "11:30", Close: "21:30"},
		},
		SocialMedia: &validation.SocialMediaInput{Facebook: "acland.dumplings", Instagram: "@aclanddumplings"},
		PhoneNumber: "+61 3 9534 3333",
	},
	{
		Name:            "Footscray Pho House",
		Address:         "41 Hopkins Street, Footscray VIC 3011",
		Cuisine:         "Vietnamese",
		Rating:          rating(4.3),
		Reviews:         "Big bowls, fast service",
		Menu:            []string{"Pho bo", "Bun cha"},
		CurrentLocation: &validation.LocationInput{Label: "Footscray", Coordinates: []float64{144.8998, -37.8001}},
		Coordinates:     []float64{144.8998, -37.8001},
		PhoneNumber:     "+61 3 9689 4444",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := logger.Init(cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.Migrate(db); err != nil {
		logger.Log.Fatal("Failed to migrate database", zap.Error(err))
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	restaurantRepo := repository.NewRestaurantRepository(db)
	authService := service.NewAuthService(userRepo, cfg.AppPrivateKey, cfg.TokenTTL, nil)
	restaurantService := service.NewRestaurantService(restaurantRepo, userRepo, service.RestaurantServiceOptions{})

	owner, err := demoUser(ctx, userRepo, authService)
	if err != nil {
		logger.Log.Fatal("Failed to prepare demo user", zap.Error(err))
	}

	owned, err := userRepo.CountOwnedRestaurants(ctx, owner.ID)
	if err != nil {
		logger.Log.Fatal("Failed to count demo restaurants", zap.Error(err))
	}
	if owned > 0 {
		logger.Log.Info("Demo data already present",
			zap.String("email", owner.Email),
			zap.Int64("restaurants", owned),
		)
		return
	}

	claims := utils.ClaimsFor(owner)
	asOwner := access.WithIdentity(ctx, &claims)
	for _, input := range demoRestaurants {
		restaurant, err := restaurantService.CreateRestaurant(asOwner, input)
		if err != nil {
			logger.Log.Fatal("Failed to seed restaurant", zap.String("name", input.Name), zap.Error(err))
		}
		logger.Log.Info("Seeded restaurant",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.String("name", restaurant.Name),
		)
	}
}

// demoUser returns the demo account, creating it on the first run.
func demoUser(ctx context.Context, users *repository.UserRepository, auth *service.AuthService) (*models.User, error) {
	email := getEnv("SEED_EMAIL", "demo@restaurants.local")

	user, err := users.FindByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}

	user, _, err = auth.CreateUser(ctx, validation.CreateUserInput{
		Username: getEnv("SEED_USERNAME", "demo"),
		Email:    email,
		Password: getEnv("SEED_PASSWORD", "demo-password"),
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("Created demo user", zap.String("email", email))
	return user, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func rating(v float64) *float64 {
	return &v
}
