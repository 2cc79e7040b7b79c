package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esisa/student-records/internal/app/models"
	"github.com/esisa/student-records/internal/app/models/dto"
	"github.com/esisa/student-records/internal/pkg/auth"
)

// actorContextKey is where the authenticated actor lives in the gin context
const actorContextKey = "actor"

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService) *AuthMiddleware {
	return &AuthMiddleware{jwtService: jwtService}
}

// RequireAuth validates the bearer token and stores the resulting actor in
// the request context. Requests from disabled accounts are rejected even
// when the token is otherwise valid.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(authHeader)
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, code, "Authentication failed", details)
			return
		}

		actor := claims.Actor()
		if !actor.IsActive {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeAccountDisabled, "Account is disabled")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Set(actorContextKey, actor)
		c.Next()
	}
}

// RequireRole gates a route group to actors holding the given role.
// It must run after RequireAuth.
func (m *AuthMiddleware) RequireRole(role models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authentication required", "Actor not found in context")
			return
		}

		if actor.Role != role {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")
			errorDetail = errorDetail.WithDetails("You don't have sufficient permissions for this operation")
			c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
			return
		}

		c.Next()
	}
}

// ActorFromContext retrieves the authenticated actor stored by RequireAuth
func ActorFromContext(c *gin.Context) (models.Actor, bool) {
	value, exists := c.Get(actorContextKey)
	if !exists {
		return models.Actor{}, false
	}
	actor, ok := value.(models.Actor)
	return actor, ok
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, message, details string) {
	errorDetail := dto.NewErrorDetail(code, message).WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}
