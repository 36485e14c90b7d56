package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"redbutton/internal/models/db_models"
	"redbutton/internal/repositories"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

const (
	ContextUserIDKey = "userID"
	ContextUserKey   = "user"
)

// JWTAuth validates the bearer token and loads the account behind it. The
// account must still exist and be active; tokens outlive neither.
func JWTAuth(cfg *config.Config, userRepo repositories.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(cfg.JWTSecret, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
			c.Abort()
			return
		}
		if user == nil {
			utils.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}
		if user.Status != db_models.UserStatusActive {
			utils.RespondError(c, http.StatusForbidden, "Your account is not active")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, user.ID.String())
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil || user.Role != db_models.UserRoleAdmin {
			utils.RespondError(c, http.StatusForbidden, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the authenticated account, or nil outside JWTAuth.
func CurrentUser(c *gin.Context) *db_models.User {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*db_models.User)
	if !ok {
		return nil
	}
	return user
}

// CurrentUserID returns the authenticated account id, or "" outside JWTAuth.
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
