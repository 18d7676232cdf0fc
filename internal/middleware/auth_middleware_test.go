package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Baaaki/restaurant-directory/internal/access"
	"github.com/Baaaki/restaurant-directory/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "middleware-secret"

type secretVerifier string

func (s secretVerifier) VerifyToken(token string) (*utils.Claims, error) {
	return utils.ValidateToken(token, string(s))
}

func signedToken(t *testing.T, userID uuid.UUID, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateToken(utils.Claims{UserID: userID, Username: "ana", Email: "ana@x.com"}, testSecret, ttl)
	require.NoError(t, err)
	return token
}

// identityRouter echoes the identity the middleware attached, if any.
func identityRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(handlers...)
	router.GET("/whoami", func(c *gin.Context) {
		claims, ok := access.IdentityFrom(c.Request.Context())
		if !ok {
			c.JSON(http.StatusOK, gin.H{"anonymous": true})
			return
		}
		_, inGin := c.Get(ClaimsKey)
		c.JSON(http.StatusOK, gin.H{"id": claims.UserID.String(), "gin": inGin})
	})
	return router
}

func get(router *gin.Engine, target, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestTokenAuth_AcceptsRawAndBearerTokens(t *testing.T) {
	userID := uuid.New()
	token := signedToken(t, userID, 0)
	router := identityRouter(TokenAuth(secretVerifier(testSecret)))

	for _, header := range []string{token, "Bearer " + token, "bearer " + token} {
		w := get(router, "/whoami", header)

		require.Equal(t, http.StatusOK, w.Code, header)
		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["id"])
		assert.Equal(t, true, body["gin"])
	}
}

func TestTokenAuth_MissingHeaderIsAnonymous(t *testing.T) {
	router := identityRouter(TokenAuth(secretVerifier(testSecret)))

	w := get(router, "/whoami", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
}

func TestTokenAuth_InvalidTokenFailsTheRequest(t *testing.T) {
	router := identityRouter(TokenAuth(secretVerifier(testSecret)))

	tests := []struct {
		name    string
		header  string
		message string
	}{
		{"garbage", "not-a-token", "Failed to authenticate user: invalid token"},
		{"wrong key", "Bearer " + func() string {
			token, err := utils.GenerateToken(utils.Claims{UserID: uuid.New()}, "other-secret", 0)
			require.NoError(t, err)
			return token
		}(), "Failed to authenticate user: invalid token"},
		{"expired", signedToken(t, uuid.New(), -time.Minute), "Failed to authenticate user: token expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, "/whoami", tt.header)

			assert.Equal(t, http.StatusUnauthorized, w.Code)

			var body struct {
				Errors []struct {
					Message    string            `json:"message"`
					Extensions map[string]string `json:"extensions"`
				} `json:"errors"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			require.Len(t, body.Errors, 1)
			assert.Equal(t, tt.message, body.Errors[0].Message)
			assert.Equal(t, "AUTHENTICATION_ERROR", body.Errors[0].Extensions["code"])
		})
	}
}

func TestQueryTokenAuth_ReadsQueryParameter(t *testing.T) {
	userID := uuid.New()
	router := identityRouter(QueryTokenAuth(secretVerifier(testSecret)), RequireAuth())

	w := get(router, "/whoami?token="+signedToken(t, userID, 0), "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), userID.String())
}

func TestTokenAuth_IgnoresQueryParameter(t *testing.T) {
	router := identityRouter(TokenAuth(secretVerifier(testSecret)))

	w := get(router, "/whoami?token="+signedToken(t, uuid.New(), 0), "")

	assert.JSONEq(t, `{"anonymous":true}`, w.Body.String())
}

func TestRequireAuth_RejectsAnonymous(t *testing.T) {
	router := identityRouter(TokenAuth(secretVerifier(testSecret)), RequireAuth())

	w := get(router, "/whoami", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "AUTHENTICATION_ERROR")
}
