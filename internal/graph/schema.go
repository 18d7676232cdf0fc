package graph

import (
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/graphql-go/graphql"
)

// Payload input fields are nullable on purpose: missing values reach the
// validator, which reports them as INVALID_INPUT with the field name.

var locationType = graphql.NewObject(graphql.ObjectConfig{
	Name: "LocationType",
	Fields: graphql.Fields{
		"label":       &graphql.Field{Type: graphql.String},
		"coordinates": &graphql.Field{Type: graphql.NewList(graphql.Float)},
	},
})

var operatingHoursType = graphql.NewObject(graphql.ObjectConfig{
	Name: "OperatingHoursType",
	Fields: graphql.Fields{
		"day":   &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"open":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"close": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
	},
})

var socialMediaType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SocialMediaType",
	Fields: graphql.Fields{
		"facebook":  &graphql.Field{Type: graphql.String},
		"twitter":   &graphql.Field{Type: graphql.String},
		"instagram": &graphql.Field{Type: graphql.String},
	},
})

var restaurantType = graphql.NewObject(graphql.ObjectConfig{
	Name: "RestaurantType",
	Fields: graphql.Fields{
		"id":              &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
		"name":            &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"address":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"cuisine":         &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		"rating":          &graphql.Field{Type: graphql.NewNonNull(graphql.Float)},
		"reviews":         &graphql.Field{Type: graphql.String},
		"menu":            &graphql.Field{Type: graphql.NewList(graphql.String)},
		"currentLocation": &graphql.Field{Type: locationType},
		"coordinates":     &graphql.Field{Type: graphql.NewList(graphql.Float)},
		"schedule":        &graphql.Field{Type: graphql.NewList(operatingHoursType)},
		"socialMedia":     &graphql.Field{Type: socialMediaType},
		"phoneNumber":     &graphql.Field{Type: graphql.String},
		"userId":          &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
	},
})

var locationInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LocationInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"label":       &graphql.InputObjectFieldConfig{Type: graphql.String},
		"coordinates": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.Float)},
	},
})

var operatingHoursInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "OperatingHoursInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"day":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"open":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"close": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var socialMediaInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "SocialMediaInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"facebook":  &graphql.InputObjectFieldConfig{Type: graphql.String},
		"twitter":   &graphql.InputObjectFieldConfig{Type: graphql.String},
		"instagram": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var restaurantInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "RestaurantInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"name":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"address":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"cuisine":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"rating":          &graphql.InputObjectFieldConfig{Type: graphql.Float},
		"reviews":         &graphql.InputObjectFieldConfig{Type: graphql.String},
		"menu":            &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
		"currentLocation": &graphql.InputObjectFieldConfig{Type: locationInput},
		"coordinates":     &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.Float)},
		"schedule":        &graphql.InputObjectFieldConfig{Type: graphql.NewList(operatingHoursInput)},
		"socialMedia":     &graphql.InputObjectFieldConfig{Type: socialMediaInput},
		"phoneNumber":     &graphql.InputObjectFieldConfig{Type: graphql.String},
		"userId":          &graphql.InputObjectFieldConfig{Type: graphql.ID},
	},
})

var userInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":               &graphql.InputObjectFieldConfig{Type: graphql.String},
		"password":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"firstName":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lastName":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"favoriteRestaurants": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
	},
})

var loginUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "LoginUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"email":    &graphql.InputObjectFieldConfig{Type: graphql.String},
		"password": &graphql.InputObjectFieldConfig{Type: graphql.String},
	},
})

var updateUserInput = graphql.NewInputObject(graphql.InputObjectConfig{
	Name: "UpdateUserInput",
	Fields: graphql.InputObjectConfigFieldMap{
		"username":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"email":               &graphql.InputObjectFieldConfig{Type: graphql.String},
		"password":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"firstName":           &graphql.InputObjectFieldConfig{Type: graphql.String},
		"lastName":            &graphql.InputObjectFieldConfig{Type: graphql.String},
		"favoriteRestaurants": &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.NewNonNull(graphql.ID))},
	},
})

func idArg() *graphql.ArgumentConfig {
	return &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)}
}

// NewSchema builds the executable schema around r.
func NewSchema(r *Resolver) (graphql.Schema, error) {
	userType := graphql.NewObject(graphql.ObjectConfig{
		Name: "UserType",
		Fields: graphql.Fields{
			"id":        &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"username":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"email":     &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"firstName": &graphql.Field{Type: graphql.String},
			"lastName":  &graphql.Field{Type: graphql.String},
			"favoriteRestaurants": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.NewList(restaurantType)),
				Resolve: r.favoriteRestaurants,
			},
			"token": &graphql.Field{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"user": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"id": idArg()},
				Resolve: r.op("user", apperr.OpGetUser, r.user),
			},
			"users": &graphql.Field{
				Type:    graphql.NewList(userType),
				Resolve: r.op("users", apperr.OpGetUsers, r.users),
			},
			"restaurant": &graphql.Field{
				Type:    restaurantType,
				Args:    graphql.FieldConfigArgument{"id": idArg()},
				Resolve: r.op("restaurant", apperr.OpGetRestaurant, r.restaurant),
			},
			"restaurants": &graphql.Field{
				Type:    graphql.NewList(restaurantType),
				Resolve: r.op("restaurants", apperr.OpGetRestaurants, r.restaurants),
			},
			"searchRestaurants": &graphql.Field{
				Type: graphql.NewList(restaurantType),
				Args: graphql.FieldConfigArgument{
					"cuisine":   &graphql.ArgumentConfig{Type: graphql.String},
					"minRating": &graphql.ArgumentConfig{Type: graphql.Float},
					"maxRating": &graphql.ArgumentConfig{Type: graphql.Float},
				},
				Resolve: r.op("searchRestaurants", apperr.OpSearchRestaurants, r.searchRestaurants),
			},
			"getNearbyRestaurants": &graphql.Field{
				Type: graphql.NewList(restaurantType),
				Args: graphql.FieldConfigArgument{
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"radius":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: r.op("getNearbyRestaurants", apperr.OpGetNearbyRestaurants, r.nearbyRestaurants),
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(userInput)}},
				Resolve: r.op("createUser", apperr.OpCreateUser, r.createUser),
			},
			"loginUser": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: loginUserInput}},
				Resolve: r.op("loginUser", apperr.OpLoginUser, r.loginUser),
			},
			"updateUser": &graphql.Field{
				Type: userType,
				Args: graphql.FieldConfigArgument{
					"id":    idArg(),
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(updateUserInput)},
				},
				Resolve: r.op("updateUser", apperr.OpUpdateUser, r.updateUser),
			},
			"deleteUser": &graphql.Field{
				Type:    userType,
				Args:    graphql.FieldConfigArgument{"id": idArg()},
				Resolve: r.op("deleteUser", apperr.OpDeleteUser, r.deleteUser),
			},
			"createRestaurant": &graphql.Field{
				Type:    restaurantType,
				Args:    graphql.FieldConfigArgument{"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(restaurantInput)}},
				Resolve: r.op("createRestaurant", apperr.OpCreateRestaurant, r.createRestaurant),
			},
			"updateRestaurant": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"id":    idArg(),
					"input": &graphql.ArgumentConfig{Type: graphql.NewNonNull(restaurantInput)},
				},
				Resolve: r.op("updateRestaurant", apperr.OpUpdateRestaurant, r.updateRestaurant),
			},
			"deleteRestaurant": &graphql.Field{
				Type:    restaurantType,
				Args:    graphql.FieldConfigArgument{"id": idArg()},
				Resolve: r.op("deleteRestaurant", apperr.OpDeleteRestaurant, r.deleteRestaurant),
			},
			"updateRestaurantLocation": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"id":        idArg(),
					"latitude":  &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"longitude": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: r.op("updateRestaurantLocation", apperr.OpUpdateRestaurantLocation, r.updateRestaurantLocation),
			},
			"updateRestaurantSchedule": &graphql.Field{
				Type: restaurantType,
				Args: graphql.FieldConfigArgument{
					"id":             idArg(),
					"operatingHours": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.NewNonNull(operatingHoursInput))},
				},
				Resolve: r.op("updateRestaurantSchedule", apperr.OpUpdateRestaurantSchedule, r.updateRestaurantSchedule),
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
}
