package graph

import (
	"github.com/Baaaki/restaurant-directory/internal/models"
)

// Payload builders turn models into the maps graphql-go resolves fields
// from. Password hashes never leave this package.

func restaurantPayload(r *models.Restaurant) map[string]interface{} {
	if r == nil {
		return nil
	}

	schedule := make([]interface{}, 0, len(r.Schedule))
	for _, entry := range r.Schedule {
		schedule = append(schedule, map[string]interface{}{
			"day":   entry.Day,
			"open":  entry.Open,
			"close": entry.Close,
		})
	}

	return map[string]interface{}{
		"id":      r.ID.String(),
		"name":    r.Name,
		"address": r.Address,
		"cuisine": r.Cuisine,
		"rating":  r.Rating,
		"reviews": r.Reviews,
		"menu":    r.Menu,
		"currentLocation": map[string]interface{}{
			"label":       r.CurrentLocation.Label,
			"coordinates": floats(r.CurrentLocation.Coordinates),
		},
		"coordinates": floats(r.Coordinates()),
		"schedule":    schedule,
		"socialMedia": map[string]interface{}{
			"facebook":  str(r.SocialMedia.Facebook),
			"twitter":   str(r.SocialMedia.Twitter),
			"instagram": str(r.SocialMedia.Instagram),
		},
		"phoneNumber": r.PhoneNumber,
		"userId":      r.OwnerID.String(),
	}
}

func restaurantsPayload(restaurants []*models.Restaurant) []interface{} {
	out := make([]interface{}, 0, len(restaurants))
	for _, r := range restaurants {
		out = append(out, restaurantPayload(r))
	}
	return out
}

func userPayload(u *models.User, token string) map[string]interface{} {
	if u == nil {
		return nil
	}

	payload := map[string]interface{}{
		"id":                    u.ID.String(),
		"username":              u.Username,
		"email":                 u.Email,
		"firstName":             str(u.FirstName),
		"lastName":              str(u.LastName),
		"favoriteRestaurantIds": u.FavoriteRestaurants,
		"token":                 nil,
	}
	if token != "" {
		payload["token"] = token
	}
	return payload
}

func usersPayload(users []*models.User) []interface{} {
	out := make([]interface{}, 0, len(users))
	for _, u := range users {
		out = append(out, userPayload(u, ""))
	}
	return out
}

// str maps a nil *string to an untyped nil so graphql-go renders null.
func str(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func floats(values []float64) interface{} {
	if values == nil {
		return nil
	}
	return values
}
