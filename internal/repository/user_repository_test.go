package repository

import (
	"context"
	"testing"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository_CreateAndFind(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	first := "Ana"
	fav := uuid.New()
	user := &models.User{
		ID:                  uuid.New(),
		Username:            "ana",
		Email:               "ana@x.com",
		PasswordHash:        "$argon2id$stub",
		FirstName:           &first,
		FavoriteRestaurants: []uuid.UUID{fav},
	}
	require.NoError(t, repo.Create(ctx, user))

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana", byID.Username)
	assert.Equal(t, "Ana", *byID.FirstName)
	assert.Nil(t, byID.LastName)
	assert.Equal(t, []uuid.UUID{fav}, byID.FavoriteRestaurants)

	byEmail, err := repo.FindByEmail(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byName, err := repo.FindByUsername(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)
}

func TestUserRepository_NotFound(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	_, err := repo.FindByID(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = repo.FindByEmail(ctx, "nobody@x.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = repo.Delete(ctx, uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserRepository_DuplicateEmailIsConflict(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	testutil.DefaultTestUser(t, testDB.DB)

	err := repo.Create(ctx, &models.User{
		ID:           uuid.New(),
		Username:     "ana2",
		Email:        "ana@x.com",
		PasswordHash: "x",
	})
	assert.True(t, apperr.Is(err, apperr.KindConflict))
	assert.NotContains(t, err.Error(), "UNIQUE", "driver text stays out of the message")
}

func TestUserRepository_UpdateAndDelete(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	user := testutil.DefaultTestUser(t, testDB.DB)

	user.Username = "anabel"
	require.NoError(t, repo.Update(ctx, user))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "anabel", reloaded.Username)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.FindByID(ctx, user.ID)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUserRepository_FindAllAndOwnership(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	defer testDB.Teardown(t)
	repo := NewUserRepository(testDB.DB)
	ctx := context.Background()

	ana := testutil.DefaultTestUser(t, testDB.DB)
	ben := testutil.CreateTestUser(t, testDB.DB, "ben", "ben@x.com", "secret2")
	testutil.CreateTestRestaurant(t, testDB.DB, ana.ID, "Tipo 00", 144.9631, -37.8136)

	users, err := repo.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 2)

	count, err := repo.CountOwnedRestaurants(ctx, ana.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	count, err = repo.CountOwnedRestaurants(ctx, ben.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
