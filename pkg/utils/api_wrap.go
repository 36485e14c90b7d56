package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RespondSuccess writes a {success: true, ...payload} body.
func RespondSuccess(c *gin.Context, code int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{
		"success": false,
		"message": message,
	})
}

// HandleServiceError maps service sentinel errors onto the HTTP error
// taxonomy. Unknown errors become a generic 500; details stay server-side.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, ErrAccountNotActive):
		RespondError(c, http.StatusForbidden, "Your account is not active")
	case errors.Is(err, ErrOAuthOnlyAccount):
		RespondError(c, http.StatusBadRequest, "Please sign in with Google")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusBadRequest, "User already exists and is active")
	case errors.Is(err, ErrPasswordTooShort):
		RespondError(c, http.StatusBadRequest, "Password must be at least 8 characters")
	case errors.Is(err, ErrInviteNotFound):
		RespondError(c, http.StatusNotFound, "Invalid invite token or already used")
	case errors.Is(err, ErrInviteExpired):
		RespondError(c, http.StatusBadRequest, "Invite token has expired")
	case errors.Is(err, ErrUserNotFound):
		RespondError(c, http.StatusNotFound, "User not found")
	case errors.Is(err, ErrUserDataNotFound):
		RespondError(c, http.StatusNotFound, "User data not found")
	case errors.Is(err, ErrGoalNotFound):
		RespondError(c, http.StatusNotFound, "Goal not found")
	case errors.Is(err, ErrEntityNotFound):
		RespondError(c, http.StatusNotFound, "Entity not found")
	case errors.Is(err, ErrInvalidProduct):
		RespondError(c, http.StatusBadRequest, "Invalid product ID")
	case errors.Is(err, ErrNoStripeCustomer):
		RespondError(c, http.StatusNotFound, "No Stripe customer found for user")
	case errors.Is(err, ErrMissingFields):
		RespondError(c, http.StatusBadRequest, "Missing required fields")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	case errors.Is(err, ErrUpstreamFailure):
		log.Printf("Upstream error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
