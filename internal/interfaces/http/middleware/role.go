package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hostelhub/backend/internal/domain/shared"
	"github.com/hostelhub/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	Logger *zap.Logger
	// OnDenied is called when the role check fails (optional)
	OnDenied func(c *gin.Context, required []shared.Role)
}

// RequireRole lets the request through when the caller holds any of roles
func RequireRole(roles ...shared.Role) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireAdmin is RequireRole(shared.RoleAdmin)
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(shared.RoleAdmin)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...shared.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			denyUnauthenticated(c)
			return
		}

		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}

		if cfg.Logger != nil {
			cfg.Logger.Warn("Role check failed",
				zap.String("user_id", actor.UserID.String()),
				zap.String("role", string(actor.Role)),
				zap.String("required_any", joinRoles(roles)),
				zap.String("path", c.Request.URL.Path),
			)
		}
		if cfg.OnDenied != nil {
			cfg.OnDenied(c, roles)
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden,
			"Insufficient role for this operation",
			GetRequestID(c),
		))
	}
}

// RequireSelfOrAdmin allows admins and the user whose ID is in the param path
// segment. Students reaching another user's resource get 403.
func RequireSelfOrAdmin(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := GetActor(c)
		if !ok {
			denyUnauthenticated(c)
			return
		}
		if actor.IsAdmin() || strings.EqualFold(c.Param(param), actor.UserID.String()) {
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeForbidden,
			"You can only access your own resources",
			GetRequestID(c),
		))
	}
}

func denyUnauthenticated(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized,
		"Authentication required",
		GetRequestID(c),
	))
}

func joinRoles(roles []shared.Role) string {
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return strings.Join(parts, ",")
}
