package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/Baaaki/restaurant-directory/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"go.uber.org/zap"
)

// GraphQLRequest is the standard GraphQL-over-HTTP request body.
type GraphQLRequest struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

type GraphQLHandler struct {
	schema graphql.Schema
}

func NewGraphQLHandler(schema graphql.Schema) *GraphQLHandler {
	return &GraphQLHandler{schema: schema}
}

// Handle executes POST bodies and GET ?query= requests. The request context
// carries the caller identity set by the token middleware.
func (h *GraphQLHandler) Handle(c *gin.Context) {
	var req GraphQLRequest

	switch c.Request.Method {
	case http.MethodGet:
		req.Query = c.Query("query")
		req.OperationName = c.Query("operationName")
		if raw := c.Query("variables"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &req.Variables); err != nil {
				badRequest(c, "variables must be a JSON object")
				return
			}
		}
	default:
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "request body must be a JSON object")
			return
		}
	}

	if req.Query == "" {
		badRequest(c, "query is required")
		return
	}

	start := time.Now()
	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request.Context(),
	})

	logger.Log.Debug("GraphQL request served",
		zap.String("operation", req.OperationName),
		zap.Int("errors", len(result.Errors)),
		zap.Duration("duration", time.Since(start)),
	)

	c.JSON(http.StatusOK, result)
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
		"errors": []gin.H{{
			"message": message,
			"extensions": gin.H{
				"code": "BAD_REQUEST",
			},
		}},
	})
}
