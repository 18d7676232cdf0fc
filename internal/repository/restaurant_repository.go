package repository

import (
	"context"

	"github.com/Baaaki/restaurant-directory/internal/geo"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const restaurantNotFound = "Restaurant not found"

// RestaurantFilter narrows a listing. Nil fields do not filter.
type RestaurantFilter struct {
	Cuisine   *string
	MinRating *float64
	MaxRating *float64
}

type RestaurantRepository struct {
	db *gorm.DB
}

func NewRestaurantRepository(db *gorm.DB) *RestaurantRepository {
	return &RestaurantRepository{db: db}
}

func (r *RestaurantRepository) Create(ctx context.Context, restaurant *models.Restaurant) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Create(restaurant).Error
	return translate(err, restaurantNotFound)
}

func (r *RestaurantRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Restaurant, error) {
	var restaurant models.Restaurant
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&restaurant).Error; err != nil {
		return nil, translate(err, restaurantNotFound)
	}
	return &restaurant, nil
}

// FindByIDs returns the restaurants that still exist among ids, in the
// order given. Unknown ids are skipped.
func (r *RestaurantRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*models.Restaurant, error) {
	if len(ids) == 0 {
		return []*models.Restaurant{}, nil
	}

	var found []*models.Restaurant
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translate(err, restaurantNotFound)
	}

	byID := make(map[uuid.UUID]*models.Restaurant, len(found))
	for _, restaurant := range found {
		byID[restaurant.ID] = restaurant
	}
	ordered := make([]*models.Restaurant, 0, len(found))
	for _, id := range ids {
		if restaurant, ok := byID[id]; ok {
			ordered = append(ordered, restaurant)
			delete(byID, id)
		}
	}
	return ordered, nil
}

func (r *RestaurantRepository) FindAll(ctx context.Context) ([]*models.Restaurant, error) {
	var restaurants []*models.Restaurant
	if err := r.db.WithContext(ctx).Order("created_at ASC").Find(&restaurants).Error; err != nil {
		return nil, translate(err, restaurantNotFound)
	}
	return restaurants, nil
}

// FindByFilter matches cuisine exactly and rating within the inclusive range.
func (r *RestaurantRepository) FindByFilter(ctx context.Context, filter RestaurantFilter) ([]*models.Restaurant, error) {
	query := r.db.WithContext(ctx).Model(&models.Restaurant{})
	if filter.Cuisine != nil {
		query = query.Where("cuisine = ?", *filter.Cuisine)
	}
	if filter.MinRating != nil {
		query = query.Where("rating >= ?", *filter.MinRating)
	}
	if filter.MaxRating != nil {
		query = query.Where("rating <= ?", *filter.MaxRating)
	}

	var restaurants []*models.Restaurant
	if err := query.Order("created_at ASC").Find(&restaurants).Error; err != nil {
		return nil, translate(err, restaurantNotFound)
	}
	return restaurants, nil
}

// FindByRadius returns restaurants whose coordinates lie within radiusKm
// great-circle distance of (lng, lat). The bounding box narrows the scan
// through idx_restaurants_point; the exact cap test runs here.
func (r *RestaurantRepository) FindByRadius(ctx context.Context, lng, lat, radiusKm float64) ([]*models.Restaurant, error) {
	box := geo.BoundingBox(lng, lat, radiusKm)

	query := r.db.WithContext(ctx).
		Where("longitude IS NOT NULL AND latitude IS NOT NULL").
		Where("latitude BETWEEN ? AND ?", box.MinLat, box.MaxLat)
	if box.CrossesAntimeridian() {
		query = query.Where("(longitude >= ? OR longitude <= ?)", box.MinLng, box.MaxLng)
	} else {
		query = query.Where("longitude BETWEEN ? AND ?", box.MinLng, box.MaxLng)
	}

	var candidates []*models.Restaurant
	if err := query.Order("created_at ASC").Find(&candidates).Error; err != nil {
		return nil, translate(err, restaurantNotFound)
	}

	matches := make([]*models.Restaurant, 0, len(candidates))
	for _, restaurant := range candidates {
		if geo.Within(lng, lat, radiusKm, *restaurant.Longitude, *restaurant.Latitude) {
			matches = append(matches, restaurant)
		}
	}
	return matches, nil
}

// Update writes every column of an already loaded restaurant.
func (r *RestaurantRepository) Update(ctx context.Context, restaurant *models.Restaurant) error {
	err := r.db.WithContext(ctx).Omit(clause.Associations).Save(restaurant).Error
	return translate(err, restaurantNotFound)
}

// UpdateCoordinates sets only the geo point.
func (r *RestaurantRepository) UpdateCoordinates(ctx context.Context, id uuid.UUID, lng, lat float64) error {
	result := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).
		Updates(map[string]interface{}{"longitude": lng, "latitude": lat})
	return rowsOrNotFound(result)
}

// UpdateSchedule replaces the operating hours.
func (r *RestaurantRepository) UpdateSchedule(ctx context.Context, id uuid.UUID, schedule []models.ScheduleEntry) error {
	result := r.db.WithContext(ctx).Model(&models.Restaurant{}).Where("id = ?", id).
		Select("Schedule", "UpdatedAt").
		Updates(&models.Restaurant{Schedule: schedule})
	return rowsOrNotFound(result)
}

func (r *RestaurantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Restaurant{})
	return rowsOrNotFound(result)
}

func rowsOrNotFound(result *gorm.DB) error {
	if result.Error != nil {
		return translate(result.Error, restaurantNotFound)
	}
	if result.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, restaurantNotFound)
	}
	return nil
}
