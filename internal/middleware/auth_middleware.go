package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClaimsKey is the gin context key holding verified claims.
const ClaimsKey = "claims"

// TokenVerifier turns a raw session token into identity claims.
type TokenVerifier interface {
	VerifyToken(token string) (*utils.Claims, error)
}

// TokenAuth reads the Authorization header (raw token, "Bearer " optional).
// A missing header lets the request through anonymously; a present but
// invalid token fails the whole request with 401.
func TokenAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromHeader(c.GetHeader("Authorization"))
		if raw == "" {
			c.Next()
			return
		}
		authenticate(c, tokens, raw)
	}
}

// QueryTokenAuth is TokenAuth for browser websocket upgrades, which cannot
// set headers: the token may also come from the "token" query parameter.
func QueryTokenAuth(tokens TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := tokenFromHeader(c.GetHeader("Authorization"))
		if raw == "" {
			raw = strings.TrimSpace(c.Query("token"))
		}
		if raw == "" {
			c.Next()
			return
		}
		authenticate(c, tokens, raw)
	}
}

// RequireAuth rejects requests that reached it without a verified identity.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := access.IdentityFrom(c.Request.Context()); !ok {
			abortUnauthenticated(c, "User is not authenticated")
			return
		}
		c.Next()
	}
}

func authenticate(c *gin.Context, tokens TokenVerifier, raw string) {
	claims, err := tokens.VerifyToken(raw)
	if err != nil {
		reason := "invalid token"
		if errors.Is(err, utils.ErrExpiredToken) {
			reason = "token expired"
		}
		logger.Log.Debug("Rejected session token",
			zap.String("ip", c.ClientIP()),
			zap.Error(err),
		)
		abortUnauthenticated(c, reason)
		return
	}

	c.Set(ClaimsKey, claims)
	c.Request = c.Request.WithContext(access.WithIdentity(c.Request.Context(), claims))
	c.Next()
}

func tokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= len("Bearer ") && strings.EqualFold(header[:len("Bearer ")], "Bearer ") {
		header = header[len("Bearer "):]
	}
	return strings.TrimSpace(header)
}

// abortUnauthenticated answers in the GraphQL error shape so clients parse
// one format for every failure.
func abortUnauthenticated(c *gin.Context, reason string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"errors": []gin.H{{
			"message": "Failed to authenticate user: " + reason,
			"extensions": gin.H{
				"code": "AUTHENTICATION_ERROR",
			},
		}},
	})
}
