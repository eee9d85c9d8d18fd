package auth

import (
	"errors"
	"slices"
	"strings"

	"gymclass/internal/api"
	"gymclass/internal/apperror"

	"github.com/gin-gonic/gin"
)

const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserRole  = "user_role"
)

type AccessValidator interface {
	ValidateAccess(token string) (*JWTClaims, error)
}

func AuthMiddleware(tokens AccessValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			api.Fail(c, apperror.Unauthorized("Authorization header required"))
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.TrimSpace(parts[0]) != "Bearer" {
			api.Fail(c, apperror.Unauthorized("Invalid authorization header format"))
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			api.Fail(c, apperror.Unauthorized("Token is empty"))
			return
		}

		claims, err := tokens.ValidateAccess(tokenString)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				api.Fail(c, apperror.Unauthorized("Token expired"))
			case errors.Is(err, ErrInvalidTokenType):
				api.Fail(c, apperror.Unauthorized("Access token required"))
			default:
				api.Fail(c, apperror.Unauthorized("Invalid or malformed token"))
			}
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxUserEmail, claims.Email)
		c.Set(ctxUserRole, claims.Role)

		c.Next()
	}
}

// RequireRole lets the request through only if the caller holds one of roles.
func RequireRole(roles ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRole(c)
		if !ok {
			api.Fail(c, apperror.Unauthorized("User role not found"))
			return
		}

		if !slices.Contains(roles, role) {
			api.Fail(c, apperror.Forbidden("You do not have permission to perform this action."))
			return
		}

		c.Next()
	}
}

func GetUserID(c *gin.Context) (int, bool) {
	userID, exists := c.Get(ctxUserID)
	if !exists {
		return 0, false
	}

	id, ok := userID.(int)
	return id, ok
}

func GetRole(c *gin.Context) (Role, bool) {
	v, exists := c.Get(ctxUserRole)
	if !exists {
		return "", false
	}

	role, ok := v.(Role)
	return role, ok
}

func GetEmail(c *gin.Context) string {
	return c.GetString(ctxUserEmail)
}
