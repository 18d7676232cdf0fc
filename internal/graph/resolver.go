// Package graph is the GraphQL surface: schema, resolvers and the mapping
// of service errors to operation-scoped codes.
package graph

import (
	"time"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/metrics"
	"github.com/Baaaki/restaurant-directory/internal/service"
	"github.com/Baaaki/restaurant-directory/internal/validation"
	"github.com/google/uuid"
	"github.com/graphql-go/graphql"
)

type Resolver struct {
	auth          *service.AuthService
	userSvc       *service.UserService
	restaurantSvc *service.RestaurantService
}

func NewResolver(auth *service.AuthService, users *service.UserService, restaurants *service.RestaurantService) *Resolver {
	return &Resolver{
		auth:          auth,
		userSvc:       users,
		restaurantSvc: restaurants,
	}
}

// op wraps a resolver: every error leaves scoped to the operation, and the
// call is counted.
func (r *Resolver) op(name string, code apperr.Op, fn graphql.FieldResolveFn) graphql.FieldResolveFn {
	return func(p graphql.ResolveParams) (interface{}, error) {
		start := time.Now()
		result, err := fn(p)
		metrics.Observe(name, start, err)
		if err != nil {
			return nil, apperr.WithOp(err, code)
		}
		return result, nil
	}
}

func stringArg(p graphql.ResolveParams, name string) string {
	s, _ := p.Args[name].(string)
	return s
}

func floatArg(p graphql.ResolveParams, name string) *float64 {
	switch v := p.Args[name].(type) {
	case float64:
		return &v
	case int:
		f := float64(v)
		return &f
	}
	return nil
}

// --- users ---

func (r *Resolver) user(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.userSvc.GetUser(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, err
	}
	return userPayload(user, ""), nil
}

func (r *Resolver) users(p graphql.ResolveParams) (interface{}, error) {
	users, err := r.userSvc.ListUsers(p.Context)
	if err != nil {
		return nil, err
	}
	return usersPayload(users), nil
}

func (r *Resolver) createUser(p graphql.ResolveParams) (interface{}, error) {
	var input validation.CreateUserInput
	if err := decode(p.Args["input"], &input); err != nil {
		return nil, err
	}

	user, token, err := r.auth.CreateUser(p.Context, input)
	if err != nil {
		return nil, err
	}
	return userPayload(user, token), nil
}

func (r *Resolver) loginUser(p graphql.ResolveParams) (interface{}, error) {
	var input validation.LoginInput
	if err := decode(p.Args["input"], &input); err != nil {
		return nil, err
	}

	user, token, err := r.auth.Login(p.Context, input)
	if err != nil {
		return nil, err
	}
	return userPayload(user, token), nil
}

func (r *Resolver) updateUser(p graphql.ResolveParams) (interface{}, error) {
	var input validation.UpdateUserInput
	if err := decode(p.Args["input"], &input); err != nil {
		return nil, err
	}

	user, err := r.userSvc.UpdateUser(p.Context, stringArg(p, "id"), input)
	if err != nil {
		return nil, err
	}
	return userPayload(user, ""), nil
}

func (r *Resolver) deleteUser(p graphql.ResolveParams) (interface{}, error) {
	user, err := r.userSvc.DeleteUser(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, err
	}
	return userPayload(user, ""), nil
}

func (r *Resolver) favoriteRestaurants(p graphql.ResolveParams) (interface{}, error) {
	source, _ := p.Source.(map[string]interface{})
	ids, _ := source["favoriteRestaurantIds"].([]uuid.UUID)
	if len(ids) == 0 {
		return []interface{}{}, nil
	}

	restaurants, err := r.restaurantSvc.FindByIDs(p.Context, ids)
	if err != nil {
		return nil, apperr.WithOp(err, apperr.OpGetUser)
	}
	return restaurantsPayload(restaurants), nil
}

// --- restaurants ---

func (r *Resolver) restaurant(p graphql.ResolveParams) (interface{}, error) {
	restaurant, err := r.restaurantSvc.GetRestaurant(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}

func (r *Resolver) restaurants(p graphql.ResolveParams) (interface{}, error) {
	restaurants, err := r.restaurantSvc.ListRestaurants(p.Context)
	if err != nil {
		return nil, err
	}
	return restaurantsPayload(restaurants), nil
}

func (r *Resolver) searchRestaurants(p graphql.ResolveParams) (interface{}, error) {
	input := validation.SearchInput{
		MinRating: floatArg(p, "minRating"),
		MaxRating: floatArg(p, "maxRating"),
	}
	if cuisine, ok := p.Args["cuisine"].(string); ok {
		input.Cuisine = &cuisine
	}

	restaurants, err := r.restaurantSvc.SearchRestaurants(p.Context, input)
	if err != nil {
		return nil, err
	}
	return restaurantsPayload(restaurants), nil
}

func (r *Resolver) nearbyRestaurants(p graphql.ResolveParams) (interface{}, error) {
	var input validation.NearbyInput
	if err := decode(p.Args, &input); err != nil {
		return nil, err
	}

	restaurants, err := r.restaurantSvc.NearbyRestaurants(p.Context, input)
	if err != nil {
		return nil, err
	}
	return restaurantsPayload(restaurants), nil
}

func (r *Resolver) createRestaurant(p graphql.ResolveParams) (interface{}, error) {
	var input validation.RestaurantInput
	if err := decode(p.Args["input"], &input); err != nil {
		return nil, err
	}

	restaurant, err := r.restaurantSvc.CreateRestaurant(p.Context, input)
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}

func (r *Resolver) updateRestaurant(p graphql.ResolveParams) (interface{}, error) {
	var input validation.RestaurantInput
	if err := decode(p.Args["input"], &input); err != nil {
		return nil, err
	}

	restaurant, err := r.restaurantSvc.UpdateRestaurant(p.Context, stringArg(p, "id"), input)
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}

func (r *Resolver) deleteRestaurant(p graphql.ResolveParams) (interface{}, error) {
	restaurant, err := r.restaurantSvc.DeleteRestaurant(p.Context, stringArg(p, "id"))
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}

func (r *Resolver) updateRestaurantLocation(p graphql.ResolveParams) (interface{}, error) {
	var input validation.LocationUpdateInput
	if err := decode(p.Args, &input); err != nil {
		return nil, err
	}

	restaurant, err := r.restaurantSvc.UpdateRestaurantLocation(p.Context, stringArg(p, "id"), input)
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}

func (r *Resolver) updateRestaurantSchedule(p graphql.ResolveParams) (interface{}, error) {
	var input validation.ScheduleUpdateInput
	if err := decode(p.Args, &input); err != nil {
		return nil, err
	}

	restaurant, err := r.restaurantSvc.UpdateRestaurantSchedule(p.Context, stringArg(p, "id"), input)
	if err != nil {
		return nil, err
	}
	return restaurantPayload(restaurant), nil
}
