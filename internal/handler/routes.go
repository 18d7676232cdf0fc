package handler

import (
	"net/http"

	"github.com/Baaaki/restaurant-directory/internal/middleware"
	"github.com/gin-gonic/gin"
)

// Routes holds everything the HTTP surface is assembled from. Feed, Limiter
// and Metrics are optional.
type Routes struct {
	GraphQL *GraphQLHandler
	Feed    *RestaurantFeedHandler
	Health  *HealthHandler
	Tokens  middleware.TokenVerifier
	Limiter *middleware.RateLimiter
	Metrics http.Handler
}

// Register mounts the API on router.
func (r Routes) Register(router gin.IRouter) {
	router.GET("/healthz", r.Health.Health)
	if r.Metrics != nil {
		router.GET("/metrics", gin.WrapH(r.Metrics))
	}

	api := router.Group("/graphql")
	api.Use(r.Limiter.Middleware(), middleware.TokenAuth(r.Tokens))
	{
		api.POST("", r.GraphQL.Handle)
		api.GET("", r.GraphQL.Handle)
	}

	if r.Feed != nil {
		ws := router.Group("/ws")
		ws.Use(middleware.QueryTokenAuth(r.Tokens), middleware.RequireAuth())
		{
			ws.GET("/restaurants", r.Feed.HandleWebSocket)
		}
	}
}
