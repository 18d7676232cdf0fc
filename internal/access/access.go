// Package access holds the two gates every resolver passes through:
// authentication before authorization, always.
package access

import (
	"context"

	"github.com/Baaaki/restaurant-directory/internal/apperr"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/google/uuid"
)

type identityKey struct{}

// WithIdentity attaches verified token claims to ctx.
func WithIdentity(ctx context.Context, claims *utils.Claims) context.Context {
	if claims == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, claims)
}

// IdentityFrom returns the verified identity attached to ctx, if any.
func IdentityFrom(ctx context.Context) (*utils.Claims, bool) {
	claims, ok := ctx.Value(identityKey{}).(*utils.Claims)
	return claims, ok && claims != nil
}

// RequireAuthenticated fails with Unauthenticated when no verified identity
// travels with the call.
func RequireAuthenticated(ctx context.Context) (*utils.Claims, error) {
	claims, ok := IdentityFrom(ctx)
	if !ok || claims.UserID == uuid.Nil {
		return nil, apperr.Unauthenticated("User is not authenticated")
	}
	return claims, nil
}

// Owned is anything with a single owning user.
type Owned interface {
	OwnedBy(userID uuid.UUID) bool
}

// RequireOwner fails with Forbidden unless the caller owns the resource.
// The resource must already be loaded.
func RequireOwner(resource Owned, claims *utils.Claims) error {
	if claims == nil || !resource.OwnedBy(claims.UserID) {
		return apperr.Forbidden("User is not authorized to perform this action")
	}
	return nil
}

// RequireSelf is the ownership gate for user records: a user owns itself.
func RequireSelf(userID uuid.UUID, claims *utils.Claims) error {
	if claims == nil || userID == uuid.Nil || claims.UserID != userID {
		return apperr.Forbidden("User is not authorized to perform this action")
	}
	return nil
}
