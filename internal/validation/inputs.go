package validation

// CreateUserInput is the sign-up payload.
type CreateUserInput struct {
	Username            string   `json:"username" validate:"required,min=3,max=20"`
	Email               string   `json:"email" validate:"required,min=3,max=255,email"`
	Password            string   `json:"password" validate:"required,min=6,max=255"`
	FirstName           *string  `json:"firstName" validate:"omitempty,min=3,max=255"`
	LastName            *string  `json:"lastName" validate:"omitempty,min=3,max=255"`
	FavoriteRestaurants []string `json:"favoriteRestaurants" validate:"omitempty,dive,uuid"`
}

// UpdateUserInput is a patch; every supplied field obeys the sign-up bounds.
type UpdateUserInput struct {
	Username            *string  `json:"username" validate:"omitempty,min=3,max=20"`
	Email               *string  `json:"email" validate:"omitempty,min=3,max=255,email"`
	Password            *string  `json:"password" validate:"omitempty,min=6,max=255"`
	FirstName           *string  `json:"firstName" validate:"omitempty,min=3,max=255"`
	LastName            *string  `json:"lastName" validate:"omitempty,min=3,max=255"`
	FavoriteRestaurants []string `json:"favoriteRestaurants" validate:"omitempty,dive,uuid"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LocationInput struct {
	Label       string    `json:"label" validate:"required,min=3,max=255"`
	Coordinates []float64 `json:"coordinates" validate:"omitempty,lnglat"`
}

type ScheduleInput struct {
	Day   string `json:"day" validate:"required,min=1,max=50"`
	Open  string `json:"open" validate:"required"`
	Close string `json:"close" validate:"required"`
}

type SocialMediaInput struct {
	Facebook  string `json:"facebook" validate:"omitempty,min=3,max=255"`
	Twitter   string `json:"twitter" validate:"omitempty,min=3,max=255"`
	Instagram string `json:"instagram" validate:"omitempty,min=3,max=255"`
}

// RestaurantInput is the full payload for both create and update; updates
// are not partial.
type RestaurantInput struct {
	Name            string            `json:"name" validate:"required,min=3,max=255"`
	Address         string            `json:"address" validate:"required,min=3,max=255"`
	Cuisine         string            `json:"cuisine" validate:"required,min=3,max=255"`
	Rating          *float64          `json:"rating" validate:"required,min=0,max=5"`
	Reviews         string            `json:"reviews" validate:"required,min=3,max=255"`
	Menu            []string          `json:"menu" validate:"omitempty,dive,min=3,max=255"`
	CurrentLocation *LocationInput    `json:"currentLocation" validate:"required"`
	Coordinates     []float64         `json:"coordinates" validate:"omitempty,lnglat"`
	Schedule        []ScheduleInput   `json:"schedule" validate:"omitempty,dive"`
	SocialMedia     *SocialMediaInput `json:"socialMedia"`
	PhoneNumber     string            `json:"phoneNumber" validate:"required,min=3,max=255"`
	UserID          string            `json:"userId" validate:"omitempty,uuid"`
}

type LocationUpdateInput struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
}

type ScheduleUpdateInput struct {
	OperatingHours []ScheduleInput `json:"operatingHours" validate:"required,dive"`
}

type SearchInput struct {
	Cuisine   *string  `json:"cuisine" validate:"omitempty,max=255"`
	MinRating *float64 `json:"minRating" validate:"omitempty,min=0,max=5"`
	MaxRating *float64 `json:"maxRating" validate:"omitempty,min=0,max=5"`
}

type NearbyInput struct {
	Latitude  float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64 `json:"longitude" validate:"min=-180,max=180"`
	Radius    float64 `json:"radius" validate:"gt=0"`
}
