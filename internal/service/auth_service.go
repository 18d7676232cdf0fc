package service

import (
	"context"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/audit"
	"github.com/Baaaki/restaurant-directory/internal/models"
	"github.com/Baaaki/restaurant-directory/internal/repository"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/internal/validation"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AuthService signs users up and in, and owns the token key.
type AuthService struct {
	userRepo  *repository.UserRepository
	secretKey string
	tokenTTL  time.Duration
	audit     audit.Recorder
}

func NewAuthService(userRepo *repository.UserRepository, secretKey string, tokenTTL time.Duration, recorder audit.Recorder) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		secretKey: secretKey,
		tokenTTL:  tokenTTL,
		audit:     orDiscard(recorder),
	}
}

// IssueToken signs the identity claims of user.
func (s *AuthService) IssueToken(user *models.User) (string, error) {
	return utils.GenerateToken(utils.ClaimsFor(user), s.secretKey, s.tokenTTL)
}

// VerifyToken checks a raw token and returns its claims.
func (s *AuthService) VerifyToken(token string) (*utils.Claims, error) {
	return utils.ValidateToken(token, s.secretKey)
}

// CreateUser validates the payload, rejects taken usernames and emails,
// stores the user with a hashed password and returns it with a fresh token.
func (s *AuthService) CreateUser(ctx context.Context, input validation.CreateUserInput) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", input.Username),
		zap.String("email", input.Email),
	)

	// 1. Validate input
	if err := validation.Validate(input); err != nil {
		logFailure("Registration validation failed", err,
			zap.String("username", input.Username),
		)
		return nil, "", err
	}

	// 2. Email and username must be free
	if err := checkAvailable(ctx, s.userRepo, input.Email, input.Username, uuid.Nil); err != nil {
		logFailure("Registration rejected", err,
			zap.String("username", input.Username),
			zap.String("email", input.Email),
		)
		return nil, "", err
	}

	// 3. Hash password (Argon2)
	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(input.Password)
	if err != nil {
		logger.Log.Error("Failed to hash password", zap.Error(err))
		return nil, "", apperr.StoreUnavailable(err)
	}
	hashDuration := time.Since(hashStart)

	// 4. Create user
	user := &models.User{
		ID:                  uuid.New(),
		Username:            input.Username,
		Email:               input.Email,
		PasswordHash:        hashedPassword,
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		FavoriteRestaurants: mustParseIDs(input.FavoriteRestaurants),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		logFailure("Failed to create user in database", err,
			zap.String("username", input.Username),
		)
		return nil, "", err
	}

	// 5. Issue token
	token, err := s.IssueToken(user)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", apperr.StoreUnavailable(err)
	}

	record(s.audit, "createUser", &utils.Claims{UserID: user.ID}, user.ID)

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login checks the password of the user registered under email. Unknown
// emails are NotFound and wrong passwords are InvalidPassword.
func (s *AuthService) Login(ctx context.Context, input validation.LoginInput) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user login",
		zap.String("email", input.Email),
	)

	if err := validation.Validate(input); err != nil {
		logFailure("Login validation failed", err)
		return nil, "", err
	}

	// 1. Get user by email
	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		logFailure("Login failed: user lookup", err,
			zap.String("email", input.Email),
		)
		return nil, "", err
	}

	// 2. Verify password
	verifyStart := time.Now()
	valid, err := utils.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		logger.Log.Error("Failed to verify password",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", apperr.StoreUnavailable(err)
	}
	verifyDuration := time.Since(verifyStart)

	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("user_id", user.ID.String()),
		)
		return nil, "", apperr.InvalidPassword()
	}

	// 3. Issue token
	token, err := s.IssueToken(user)
	if err != nil {
		logger.Log.Error("Failed to generate token",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", apperr.StoreUnavailable(err)
	}

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// checkAvailable fails with Conflict when email or username belongs to a
// user other than self. Empty values are not checked.
func checkAvailable(ctx context.Context, users *repository.UserRepository, email, username string, self uuid.UUID) error {
	if email != "" {
		existing, err := users.FindByEmail(ctx, email)
		switch {
		case err == nil && existing.ID != self:
			return apperr.Conflict("email", "email already exists")
		case err != nil && !apperr.Is(err, apperr.KindNotFound):
			return err
		}
	}

	if username != "" {
		existing, err := users.FindByUsername(ctx, username)
		switch {
		case err == nil && existing.ID != self:
			return apperr.Conflict("username", "username already exists")
		case err != nil && !apperr.Is(err, apperr.KindNotFound):
			return err
		}
	}
	return nil
}

// mustParseIDs converts already validated ids.
func mustParseIDs(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil || seen[parsed] {
			continue
		}
		seen[parsed] = true
		out = append(out, parsed)
	}
	return out
}
