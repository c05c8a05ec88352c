package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"silkscan/internal/domain/auth"
	"silkscan/internal/pkg/jwt"
	"silkscan/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UserFinder is the slice of the user repository the middleware needs.
type UserFinder interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

// JWTAuth verifies the bearer credential and resolves it to a stored user.
//
// Flow:
// 1. Parses "Authorization: Bearer <token>" (two-part scheme/token shape)
// 2. Verifies signature and expiry
// 3. Looks up the subject in the user store
// 4. Sets user_id (int64) and role in the Gin context
func JWTAuth(jwtService *jwt.Service, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Missing Authorization header")
			return
		}

		parts := strings.SplitN(h, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Invalid Authorization header")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		user, err := users.GetByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				response.CustomError(c, http.StatusNotFound, "USER_NOT_FOUND", "Account no longer exists")
				return
			}
			response.CustomError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to lookup user")
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", string(user.Role))

		c.Next()
	}
}
