package graph

import (
	"context"
	"testing"

	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/service"
	"github.com/Baaaki/restaurant-directory/internal/testutil"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/graphql-go/graphql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-private-key"

type harness struct {
	schema graphql.Schema
	testDB *testutil.TestDatabase
	ana    *models.User
	ben    *models.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	testDB := testutil.SetupTestDatabase(t)
	t.Cleanup(func() { testDB.Teardown(t) })

	userRepo := repository.NewUserRepository(testDB.DB)
	restaurantRepo := repository.NewRestaurantRepository(testDB.DB)

	resolver := NewResolver(
		service.NewAuthService(userRepo, testSecret, 0, nil),
		service.NewUserService(userRepo, nil),
		service.NewRestaurantService(restaurantRepo, userRepo, service.RestaurantServiceOptions{PublicReads: true}),
	)
	schema, err := NewSchema(resolver)
	require.NoError(t, err)

	return &harness{
		schema: schema,
		testDB: testDB,
		ana:    testutil.DefaultTestUser(t, testDB.DB),
		ben:    testutil.CreateTestUser(t, testDB.DB, "ben", "ben@x.com", "secret2"),
	}
}

func (h *harness) do(ctx context.Context, query string, vars map[string]interface{}) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  query,
		VariableValues: vars,
		Context:        ctx,
	})
}

func data(t *testing.T, result *graphql.Result, field string) map[string]interface{} {
	t.Helper()
	require.Empty(t, result.Errors)
	root, ok := result.Data.(map[string]interface{})
	require.True(t, ok)
	value, ok := root[field].(map[string]interface{})
	require.True(t, ok, "missing %s in %v", field, root)
	return value
}

const createRestaurant = `
mutation Create($input: RestaurantInput!) {
  createRestaurant(input: $input) {
    id name rating menu userId coordinates
    currentLocation { label coordinates }
    schedule { day open close }
    socialMedia { facebook twitter instagram }
  }
}`

func restaurantVars(name string, rating float64) map[string]interface{} {
	return map[string]interface{}{
		"input": map[string]interface{}{
			"name":            name,
			"address":         "21 Degraves Street, Melbourne",
			"cuisine":         "Cafe",
			"rating":          rating,
			"reviews":         "Good coffee, tiny tables",
			"menu":            []interface{}{"Flat white", "Toastie"},
			"currentLocation": map[string]interface{}{"label": "Degraves", "coordinates": []interface{}{144.9654, -37.8170}},
			"coordinates":     []interface{}{144.9654, -37.8170},
			"schedule":        []interface{}{map[string]interface{}{"day": "Monday", "open": "07:00", "close": "16:00"}},
			"socialMedia":     map[string]interface{}{"instagram": "@degraves"},
			"phoneNumber":     "+61 3 9654 0000",
		},
	}
}

func TestCreateUser_ReturnsToken(t *testing.T) {
	h := newHarness(t)

	result := h.do(context.Background(), `
mutation {
  createUser(input: {username: "carla", email: "carla@x.com", password: "secret1", firstName: "Carla"}) {
    id username email firstName lastName token favoriteRestaurants { id }
  }
}`, nil)

	user := data(t, result, "createUser")
	assert.Equal(t, "carla", user["username"])
	assert.Equal(t, "Carla", user["firstName"])
	assert.Nil(t, user["lastName"])
	assert.Equal(t, []interface{}{}, user["favoriteRestaurants"])

	claims, err := utils.ValidateToken(user["token"].(string), testSecret)
	require.NoError(t, err)
	assert.Equal(t, "carla@x.com", claims.Email)
}

func TestPasswordIsNotInSchema(t *testing.T) {
	h := newHarness(t)

	result := h.do(testutil.AuthContext(h.ana), `{ users { password } }`, nil)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0].Message, "password")
}

func TestLoginUser_ErrorCodes(t *testing.T) {
	h := newHarness(t)

	result := h.do(context.Background(), `mutation { loginUser(input: {email: "ana@x.com", password: "wrong"}) { id } }`, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Failed to login user: Invalid password", result.Errors[0].Message)
	assert.Equal(t, "LOGIN_USER_ERROR", result.Errors[0].Extensions["code"])
	assert.Equal(t, "INVALID_PASSWORD", result.Errors[0].Extensions["kind"])

	result = h.do(context.Background(), `mutation { loginUser(input: {email: "nobody@x.com", password: "wrong"}) { id } }`, nil)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "NOT_FOUND", result.Errors[0].Extensions["kind"])

	result = h.do(context.Background(), `mutation { loginUser(input: {email: "ana@x.com", password: "secret1"}) { username token } }`, nil)
	user := data(t, result, "loginUser")
	assert.Equal(t, "ana", user["username"])
	assert.NotEmpty(t, user["token"])
}

func TestCreateRestaurant_Payload(t *testing.T) {
	h := newHarness(t)

	result := h.do(testutil.AuthContext(h.ana), createRestaurant, restaurantVars("Degraves Espresso", 4.4))
	restaurant := data(t, result, "createRestaurant")

	assert.Equal(t, "Degraves Espresso", restaurant["name"])
	assert.Equal(t, 4.4, restaurant["rating"])
	assert.Equal(t, h.ana.ID.String(), restaurant["userId"])
	assert.Equal(t, []interface{}{144.9654, -37.8170}, restaurant["coordinates"])
	assert.Equal(t, map[string]interface{}{"label": "Degraves", "coordinates": []interface{}{144.9654, -37.8170}}, restaurant["currentLocation"])
	assert.Equal(t, map[string]interface{}{"facebook": nil, "twitter": nil, "instagram": "@degraves"}, restaurant["socialMedia"])
}

func TestCreateRestaurant_Unauthenticated(t *testing.T) {
	h := newHarness(t)

	result := h.do(context.Background(), createRestaurant, restaurantVars("Degraves Espresso", 4.4))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "CREATE_RESTAURANT_ERROR", result.Errors[0].Extensions["code"])
	assert.Equal(t, "UNAUTHENTICATED", result.Errors[0].Extensions["kind"])
}

func TestCreateRestaurant_InvalidRating(t *testing.T) {
	h := newHarness(t)

	result := h.do(testutil.AuthContext(h.ana), createRestaurant, restaurantVars("Degraves Espresso", 5.1))
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Failed to create restaurant: rating must be less than or equal to 5", result.Errors[0].Message)
	assert.Equal(t, "INVALID_INPUT", result.Errors[0].Extensions["kind"])
	assert.Equal(t, "rating", result.Errors[0].Extensions["field"])

	var count int64
	require.NoError(t, h.testDB.DB.Model(&models.Restaurant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDeleteRestaurant_ForbiddenThenNotFound(t *testing.T) {
	h := newHarness(t)
	restaurant := testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "Owned By Ana", 144.96, -37.81)
	vars := map[string]interface{}{"id": restaurant.ID.String()}
	const mutation = `mutation Delete($id: ID!) { deleteRestaurant(id: $id) { id name } }`

	result := h.do(testutil.AuthContext(h.ben), mutation, vars)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "DELETE_RESTAURANT_ERROR", result.Errors[0].Extensions["code"])
	assert.Equal(t, "FORBIDDEN", result.Errors[0].Extensions["kind"])

	result = h.do(testutil.AuthContext(h.ana), mutation, vars)
	assert.Equal(t, "Owned By Ana", data(t, result, "deleteRestaurant")["name"])

	result = h.do(testutil.AuthContext(h.ana), mutation, vars)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Failed to delete restaurant: Restaurant not found", result.Errors[0].Message)
	assert.Equal(t, "NOT_FOUND", result.Errors[0].Extensions["kind"])
}

func TestGetNearbyRestaurants(t *testing.T) {
	h := newHarness(t)
	testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "Fitzroy", 144.9780, -37.7984)
	testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "St Kilda", 144.9780, -37.8676)

	result := h.do(context.Background(), `{
  getNearbyRestaurants(latitude: -37.8136, longitude: 144.9631, radius: 5) { name }
}`, nil)
	require.Empty(t, result.Errors)

	list := result.Data.(map[string]interface{})["getNearbyRestaurants"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Fitzroy", list[0].(map[string]interface{})["name"])
}

func TestUpdateLocationAndSchedule(t *testing.T) {
	h := newHarness(t)
	restaurant := testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "Moving", 144.96, -37.81)
	ctx := testutil.AuthContext(h.ana)

	result := h.do(ctx, `mutation Move($id: ID!) {
  updateRestaurantLocation(id: $id, latitude: -37.9, longitude: 145.1) { coordinates }
}`, map[string]interface{}{"id": restaurant.ID.String()})
	assert.Equal(t, []interface{}{145.1, -37.9}, data(t, result, "updateRestaurantLocation")["coordinates"])

	result = h.do(ctx, `mutation Hours($id: ID!) {
  updateRestaurantSchedule(id: $id, operatingHours: [{day: "Sunday", open: "09:00", close: "14:00"}]) {
    schedule { day open close }
  }
}`, map[string]interface{}{"id": restaurant.ID.String()})
	schedule := data(t, result, "updateRestaurantSchedule")["schedule"].([]interface{})
	require.Len(t, schedule, 1)
	assert.Equal(t, "Sunday", schedule[0].(map[string]interface{})["day"])
}

func TestUpdateScheduleRequiresOperatingHours(t *testing.T) {
	h := newHarness(t)
	restaurant := testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "Keeps Hours", 144.96, -37.81)
	ctx := testutil.AuthContext(h.ana)

	result := h.do(ctx, `mutation Hours($id: ID!) {
  updateRestaurantSchedule(id: $id) { schedule { day } }
}`, map[string]interface{}{"id": restaurant.ID.String()})

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "INVALID_INPUT", result.Errors[0].Extensions["kind"])
	assert.Equal(t, "operatingHours", result.Errors[0].Extensions["field"])

	var stored models.Restaurant
	require.NoError(t, h.testDB.DB.First(&stored, "id = ?", restaurant.ID).Error)
	assert.Equal(t, restaurant.Schedule, stored.Schedule)
}

func TestUserFavorites(t *testing.T) {
	h := newHarness(t)
	restaurant := testutil.CreateTestRestaurant(t, h.testDB.DB, h.ana.ID, "Favourite", 144.96, -37.81)

	result := h.do(context.Background(), `mutation Create($fav: [ID!]) {
  createUser(input: {username: "dana", email: "dana@x.com", password: "secret1", favoriteRestaurants: $fav}) {
    favoriteRestaurants { id name }
  }
}`, map[string]interface{}{"fav": []interface{}{restaurant.ID.String()}})

	favorites := data(t, result, "createUser")["favoriteRestaurants"].([]interface{})
	require.Len(t, favorites, 1)
	assert.Equal(t, "Favourite", favorites[0].(map[string]interface{})["name"])
}
