package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/versity-app/volunteer-api/internal/constants"
	apierrors "github.com/versity-app/volunteer-api/internal/errors"
	"github.com/versity-app/volunteer-api/internal/models"
	"github.com/versity-app/volunteer-api/internal/services"
	"github.com/versity-app/volunteer-api/internal/utils"
)

// RequireAuth validates the bearer token and stores the caller's identity
// in the request context.
func RequireAuth(jwtService *utils.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			apierrors.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			apierrors.Unauthorized(c, "Invalid authorization header format. Expected: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Set(constants.ContextKeyUserRole, claims.Role)
		if claims.OrganizationID != nil {
			c.Set(constants.ContextKeyOrganizationID, *claims.OrganizationID)
		}

		c.Next()
	}
}

// RequireRole lets the request through only when the caller holds one of the
// given roles. It must run after RequireAuth.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRole(c)
		if !ok {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetUserRole retrieves the current user role from context
func GetUserRole(c *gin.Context) (models.Role, bool) {
	role, exists := c.Get(constants.ContextKeyUserRole)
	if !exists {
		return "", false
	}

	switch v := role.(type) {
	case models.Role:
		return v, true
	case string:
		return models.Role(v), true
	default:
		return "", false
	}
}

// GetOrganizationID retrieves the caller's organization ID from context.
// Only organization accounts carry one.
func GetOrganizationID(c *gin.Context) (uint64, bool) {
	orgID, exists := c.Get(constants.ContextKeyOrganizationID)
	if !exists {
		return 0, false
	}

	v, ok := orgID.(uint64)
	return v, ok
}

// GetActor assembles the caller identity that services authorize against
func GetActor(c *gin.Context) (services.Actor, bool) {
	userID, ok := GetUserID(c)
	if !ok {
		return services.Actor{}, false
	}

	role, ok := GetUserRole(c)
	if !ok {
		return services.Actor{}, false
	}

	actor := services.Actor{
		UserID: userID,
		Role:   role,
	}

	if orgID, ok := GetOrganizationID(c); ok {
		actor.OrganizationID = &orgID
	}

	return actor, true
}
