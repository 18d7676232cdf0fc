package service

import (
	"context"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/audit"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/internal/validation"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"go.uber.org/zap"
)

type UserService struct {
	userRepo *repository.UserRepository
	audit    audit.Recorder
}

func NewUserService(userRepo *repository.UserRepository, recorder audit.Recorder) *UserService {
	return &UserService{
		userRepo: userRepo,
		audit:    orDiscard(recorder),
	}
}

// GetUser returns any user to an authenticated caller.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	if _, err := access.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}

	userID, err := parseID(id, "User not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logFailure("Failed to get user", err, zap.String("user_id", id))
		return nil, err
	}
	return user, nil
}

// ListUsers returns every user to an authenticated caller.
func (s *UserService) ListUsers(ctx context.Context) ([]*models.User, error) {
	if _, err := access.RequireAuthenticated(ctx); err != nil {
		return nil, err
	}

	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		logFailure("Failed to list users", err)
		return nil, err
	}
	return users, nil
}

// UpdateUser applies a partial update to the caller's own record. The
// password is re-hashed only when the patch carries one.
func (s *UserService) UpdateUser(ctx context.Context, id string, input validation.UpdateUserInput) (*models.User, error) {
	start := time.Now()

	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	if err := validation.Validate(input); err != nil {
		logFailure("User update validation failed", err, zap.String("user_id", id))
		return nil, err
	}

	userID, err := parseID(id, "User not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logFailure("User update: lookup failed", err, zap.String("user_id", id))
		return nil, err
	}

	if err := access.RequireSelf(user.ID, claims); err != nil {
		logger.Log.Warn("User update forbidden",
			zap.String("user_id", id),
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}

	var email, username string
	if input.Email != nil && *input.Email != user.Email {
		email = *input.Email
	}
	if input.Username != nil && *input.Username != user.Username {
		username = *input.Username
	}
	if err := checkAvailable(ctx, s.userRepo, email, username, user.ID); err != nil {
		logFailure("User update rejected", err, zap.String("user_id", id))
		return nil, err
	}

	if err := applyUserPatch(user, input); err != nil {
		return nil, err
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		logFailure("Failed to update user in database", err, zap.String("user_id", id))
		return nil, err
	}

	record(s.audit, "updateUser", claims, user.ID)

	logger.Log.Info("User updated",
		zap.String("user_id", id),
		zap.Bool("password_changed", input.Password != nil),
		zap.Duration("total_duration", time.Since(start)),
	)
	return user, nil
}

// DeleteUser removes the caller's own record. A user who still owns
// restaurants cannot be deleted.
func (s *UserService) DeleteUser(ctx context.Context, id string) (*models.User, error) {
	claims, err := access.RequireAuthenticated(ctx)
	if err != nil {
		return nil, err
	}

	userID, err := parseID(id, "User not found")
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		logFailure("User delete: lookup failed", err, zap.String("user_id", id))
		return nil, err
	}

	if err := access.RequireSelf(user.ID, claims); err != nil {
		logger.Log.Warn("User delete forbidden",
			zap.String("user_id", id),
			zap.String("caller_id", claims.UserID.String()),
		)
		return nil, err
	}

	owned, err := s.userRepo.CountOwnedRestaurants(ctx, user.ID)
	if err != nil {
		logFailure("User delete: ownership count failed", err, zap.String("user_id", id))
		return nil, err
	}
	if owned > 0 {
		logger.Log.Warn("User delete rejected: owns restaurants",
			zap.String("user_id", id),
			zap.Int64("restaurants", owned),
		)
		return nil, apperr.Conflict("restaurants", "User still owns restaurants")
	}

	if err := s.userRepo.Delete(ctx, user.ID); err != nil {
		logFailure("Failed to delete user", err, zap.String("user_id", id))
		return nil, err
	}

	record(s.audit, "deleteUser", claims, user.ID)

	logger.Log.Info("User deleted", zap.String("user_id", id))
	return user, nil
}

func applyUserPatch(user *models.User, input validation.UpdateUserInput) error {
	if input.Username != nil {
		user.Username = *input.Username
	}
	if input.Email != nil {
		user.Email = *input.Email
	}
	if input.FirstName != nil {
		user.FirstName = input.FirstName
	}
	if input.LastName != nil {
		user.LastName = input.LastName
	}
	if input.FavoriteRestaurants != nil {
		user.FavoriteRestaurants = mustParseIDs(input.FavoriteRestaurants)
	}
	if input.Password != nil {
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			logger.Log.Error("Failed to hash password", zap.Error(err))
			return apperr.StoreUnavailable(err)
		}
		user.PasswordHash = hashed
	}
	return nil
}
