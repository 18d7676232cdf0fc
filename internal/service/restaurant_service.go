package service

import (
	"context"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/audit"
	"github.com/Baaaki/restaurant-directory/internal/broker"
	"github.com/Baaaki/restaurant-directory/internal/cache"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/internal/validation"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const restaurantNotFound = "Restaurant not found"

// RestaurantService runs every restaurant operation through the same gates:
// authenticate, validate, load, check ownership, then write.
type RestaurantService struct {
	restaurantRepo *repository.RestaurantRepository
	userRepo       *repository.UserRepository
	cache          *cache.RestaurantCache
	events         broker.Publisher
	audit          audit.Recorder

	// publicReads leaves search and nearby open to anonymous callers.
	publicReads bool
}

// RestaurantServiceOptions carries the optional collaborators. Zero values
// disable caching, events and auditing.
type RestaurantServiceOptions struct {
	Cache       *cache.RestaurantCache
	Events      broker.Publisher
	Audit       audit.Recorder
	PublicReads bool
}

func NewRestaurantService(
	restaurantRepo *repository.RestaurantRepository,
	userRepo *repository.UserRepository,
	opts RestaurantServiceOptions,
) *RestaurantService {
	events := opts.Events
	if events == nil {
		events = broker.NopPublisher{}
	}
	return &RestaurantService{
		restaurantRepo: restaurantRepo,
		userRepo:       userRepo,
		cache:          opts.Cache,
		events:         events,
		audit:          orDiscard(opts.Audit),
		publicReads:    opts.PublicReads,
	}
}

// GetRestaurant returns one restaurant to any authenticated caller.
func (s *RestaurantService) GetRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	if _, err := access.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}

	restaurantID, err := parseID(id, restaurantNotFound)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.cache.GetOrLoad(ctx, restaurantID, func() (*models.Restaurant, error) {
		return s.restaurantRepo.FindByID(ctx, restaurantID)
	})
	if err != nil {
		logFailure("Failed to get restaurant", err, zap.String("restaurant_id", id))
		return nil, err
	}
	return restaurant, nil
}

// ListRestaurants returns the full directory to any authenticated caller.
func (s *RestaurantService) ListRestaurants(ctx context.Context) ([]*models.Restaurant, error) {
	if _, err := access.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}

	restaurants, err := s.restaurantRepo.FindAll(ctx)
	if err != nil {
		logFailure("Failed to list restaurants", err)
		return nil, err
	}
	return restaurants, nil
}

// FindByIDs resolves favorite references; missing restaurants are skipped.
func (s *RestaurantService) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Restaurant, error) {
	return s.restaurantRepo.FindByIDs(ctx, ids)
}

// SearchRestaurants filters by cuisine and an inclusive rating range.
func (s *RestaurantService) SearchRestaurants(ctx context.Context, input validation.SearchInput) ([]*models.Restaurant, error) {
	if err := s.requireReader(ctx); err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	restaurants, err := s.restaurantRepo.FindByFilter(ctx, repository.RestaurantFilter{
		Cuisine:   input.Cuisine,
		MinRating: input.MinRating,
		MaxRating: input.MaxRating,
	})
	if err != nil {
		logFailure("Failed to search restaurants", err)
		return nil, err
	}
	return restaurants, nil
}

// NearbyRestaurants returns restaurants within input.Radius km of the point.
func (s *RestaurantService) NearbyRestaurants(ctx context.Context, input validation.NearbyInput) ([]*models.Restaurant, error) {
	if err := s.requireReader(ctx); err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	restaurants, err := s.restaurantRepo.FindByRadius(ctx, input.Longitude, input.Latitude, input.Radius)
	if err != nil {
		logFailure("Failed to find nearby restaurants", err,
			zap.Float64("latitude", input.Latitude),
			zap.Float64("longitude", input.Longitude),
			zap.Float64("radius_km", input.Radius),
		)
		return nil, err
	}

	logger.Log.Debug("Nearby restaurants resolved",
		zap.Float64("radius_km", input.Radius),
		zap.Int("count", len(restaurants)),
	)
	return restaurants, nil
}

// CreateRestaurant stores a restaurant owned by the caller. A userId in the
// payload must name the caller.
func (s *RestaurantService) CreateRestaurant(ctx context.Context, input validation.RestaurantInput) (*models.Restaurant, error) {
	start := time.Now()

	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		logFailure("Restaurant create validation failed", err,
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}

	if input.UserID != "" && input.UserID != claims.UserID.String() {
		logger.Log.Warn("Restaurant create for another user rejected",
			zap.String("caller_id", claims.UserID.String()),
			zap.String("user_id", input.UserID),
		)
		return nil, apperr.Forbidden("User is not authorized to perform this action")
	}

	// the token may outlive its user
	if _, err := s.userRepo.FindByID(ctx, claims.UserID); err != nil {
		logFailure("Restaurant create: owner lookup failed", err,
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}

	restaurant := &models.Restaurant{
		ID:      uuid.New(),
		OwnerID: claims.UserID,
	}
	applyRestaurantInput(restaurant, input)

	if err := s.restaurantRepo.Create(ctx, restaurant); err != nil {
		logFailure("Failed to create restaurant in database", err,
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}

	s.afterWrite(ctx, broker.EventCreated, "createRestaurant", claims, restaurant)

	logger.Log.Info("Restaurant created",
		zap.String("restaurant_id", restaurant.ID.String()),
		zap.String("owner_id", restaurant.OwnerID.String()),
		zap.Duration("total_duration", time.Since(start)),
	)
	return restaurant, nil
}

// UpdateRestaurant replaces every field of an owned restaurant. The owner
// never changes.
func (s *RestaurantService) UpdateRestaurant(ctx context.Context, id string, input validation.RestaurantInput) (*models.Restaurant, error) {
	start := time.Now()

	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		logFailure("Restaurant update validation failed", err, zap.String("restaurant_id", id))
		return nil, err
	}

	restaurant, err := s.loadOwned(ctx, id, claims, "update")
	if err != nil {
		return nil, err
	}

	if input.UserID != "" && input.UserID != restaurant.OwnerID.String() {
		logger.Log.Warn("Restaurant owner transfer rejected",
			zap.String("restaurant_id", id),
			zap.String("user_id", input.UserID),
		)
		return nil, apperr.InvalidInput("userId", "userId cannot change the restaurant owner")
	}

	applyRestaurantInput(restaurant, input)

	if err := s.restaurantRepo.Update(ctx, restaurant); err != nil {
		logFailure("Failed to update restaurant in database", err, zap.String("restaurant_id", id))
		return nil, err
	}

	s.afterWrite(ctx, broker.EventUpdated, "updateRestaurant", claims, restaurant)

	logger.Log.Info("Restaurant updated",
		zap.String("restaurant_id", id),
		zap.Duration("total_duration", time.Since(start)),
	)
	return restaurant, nil
}

// DeleteRestaurant removes an owned restaurant and returns it as it was.
func (s *RestaurantService) DeleteRestaurant(ctx context.Context, id string) (*models.Restaurant, error) {
	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.loadOwned(ctx, id, claims, "delete")
	if err != nil {
		return nil, err
	}

	if err := s.restaurantRepo.Delete(ctx, restaurant.ID); err != nil {
		logFailure("Failed to delete restaurant", err, zap.String("restaurant_id", id))
		return nil, err
	}

	s.afterWrite(ctx, broker.EventDeleted, "deleteRestaurant", claims, restaurant)

	logger.Log.Info("Restaurant deleted",
		zap.String("restaurant_id", id),
		zap.String("owner_id", restaurant.OwnerID.String()),
	)
	return restaurant, nil
}

// UpdateRestaurantLocation moves the geo point of an owned restaurant.
// Coordinates are stored as [lng, lat].
func (s *RestaurantService) UpdateRestaurantLocation(ctx context.Context, id string, input validation.LocationUpdateInput) (*models.Restaurant, error) {
	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	restaurant, err := s.loadOwned(ctx, id, claims, "update location")
	if err != nil {
		return nil, err
	}

	if err := s.restaurantRepo.UpdateCoordinates(ctx, restaurant.ID, input.Longitude, input.Latitude); err != nil {
		logFailure("Failed to update restaurant location", err, zap.String("restaurant_id", id))
		return nil, err
	}
	restaurant.SetCoordinates([]float64{input.Longitude, input.Latitude})

	s.afterWrite(ctx, broker.EventUpdated, "updateRestaurantLocation", claims, restaurant)

	logger.Log.Info("Restaurant location updated",
		zap.String("restaurant_id", id),
		zap.Float64("longitude", input.Longitude),
		zap.Float64("latitude", input.Latitude),
	)
	return restaurant, nil
}

// UpdateRestaurantSchedule replaces the operating hours of an owned restaurant.
func (s *RestaurantService) UpdateRestaurantSchedule(ctx context.Context, id string, input validation.ScheduleUpdateInput) (*models.Restaurant, error) {
	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		return nil, err
	}

	restaurant, err := s.loadOwned(ctx, id, claims, "update schedule")
	if err != nil {
		return nil, err
	}

	schedule := toSchedule(input.OperatingHours)
	if err := s.restaurantRepo.UpdateSchedule(ctx, restaurant.ID, schedule); err != nil {
		logFailure("Failed to update restaurant schedule", err, zap.String("restaurant_id", id))
		return nil, err
	}
	restaurant.Schedule = schedule

	s.afterWrite(ctx, broker.EventUpdated, "updateRestaurantSchedule", claims, restaurant)

	logger.Log.Info("Restaurant schedule updated",
		zap.String("restaurant_id", id),
		zap.Int("entries", len(schedule)),
	)
	return restaurant, nil
}

func (s *RestaurantService) requireReader(ctx context.Context) error {
	if s.publicReads {
		return nil
	}
	_, err := access.RequireAuthenticated(ctx)
	return err
}

// loadOwned loads the target (NotFound first) and then checks ownership.
// It reads the store, never the cache.
func (s *RestaurantService) loadOwned(ctx context.Context, id string, claims *utils.Claims, action string) (*models.Restaurant, error) {
	restaurantID, err := parseID(id, restaurantNotFound)
	if err != nil {
		return nil, err
	}

	restaurant, err := s.restaurantRepo.FindByID(ctx, restaurantID)
	if err != nil {
		logFailure("Restaurant "+action+": lookup failed", err, zap.String("restaurant_id", id))
		return nil, err
	}

	if err := access.RequireOwner(restaurant, claims); err != nil {
		logger.Log.Warn("Restaurant "+action+" forbidden",
			zap.String("restaurant_id", id),
			zap.String("owner_id", restaurant.OwnerID.String()),
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}
	return restaurant, nil
}

// afterWrite drops the cached copy, announces the change and journals it.
// None of these can undo the committed write.
func (s *RestaurantService) afterWrite(ctx context.Context, eventType broker.EventType, op string, claims *utils.Claims, restaurant *models.Restaurant) {
	s.cache.Invalidate(ctx, restaurant.ID)

	event := broker.RestaurantEvent{
		Type:         eventType,
		RestaurantID: restaurant.ID,
		OwnerID:      restaurant.OwnerID,
		Timestamp:    time.Now().UTC(),
	}
	if err := s.events.Publish(ctx, event); err != nil {
		logger.Log.Warn("Failed to publish restaurant event",
			zap.String("restaurant_id", restaurant.ID.String()),
			zap.String("type", string(eventType)),
			zap.Error(err),
		)
	}

	record(s.audit, op, claims, restaurant.ID)
}

func applyRestaurantInput(restaurant *models.Restaurant, input validation.RestaurantInput) {
	restaurant.Name = input.Name
	restaurant.Address = input.Address
	restaurant.Cuisine = input.Cuisine
	restaurant.Rating = *input.Rating
	restaurant.Reviews = input.Reviews
	restaurant.Menu = append([]string{}, input.Menu...)
	restaurant.PhoneNumber = input.PhoneNumber
	restaurant.Schedule = toSchedule(input.Schedule)
	restaurant.SetCoordinates(input.Coordinates)

	restaurant.CurrentLocation = models.Location{
		Label:       input.CurrentLocation.Label,
		Coordinates: append([]float64(nil), input.CurrentLocation.Coordinates...),
	}

	restaurant.SocialMedia = models.SocialMedia{}
	if sm := input.SocialMedia; sm != nil {
		restaurant.SocialMedia = models.SocialMedia{
			Facebook:  optional(sm.Facebook),
			Twitter:   optional(sm.Twitter),
			Instagram: optional(sm.Instagram),
		}
	}
}

func toSchedule(entries []validation.ScheduleInput) []models.ScheduleEntry {
	schedule := make([]models.ScheduleEntry, 0, len(entries))
	for _, e := range entries {
		schedule = append(schedule, models.ScheduleEntry{Day: e.Day, Open: e.Open, Close: e.Close})
	}
	return schedule
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
