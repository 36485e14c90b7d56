package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"redbutton/internal/repositories"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

// Endpoint kinds for the subscription gate. Each kind has its own degraded
// payload so non-subscribers still get a usable response shape.
const (
	GateChat        = "chat"
	GateSuggestions = "suggestions"
	GateJournal     = "journal"
	GatePolish      = "polish"
)

// RequireSubscription gates an AI endpoint behind an active subscription.
// With the paywall disabled everyone passes; otherwise non-subscribers get
// a canned payload instead of an error. Must run after JWTAuth.
func RequireSubscription(cfg *config.Config, userDataRepo repositories.UserDataRepository, kind string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := CurrentUserID(c)
		if userID == "" {
			utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		data, err := userDataRepo.FindByUserID(c.Request.Context(), userID)
		if err != nil {
			utils.RespondError(c, http.StatusInternalServerError, "Failed to check subscription status")
			c.Abort()
			return
		}
		if data == nil {
			utils.RespondError(c, http.StatusNotFound, "User data not found")
			c.Abort()
			return
		}

		if !cfg.PaywallEnabled || data.IsSubscribed {
			c.Next()
			return
		}

		utils.RespondSuccess(c, http.StatusOK, gin.H{"data": gatePayload(c, kind)})
		c.Abort()
	}
}

func gatePayload(c *gin.Context, kind string) gin.H {
	switch kind {
	case GateChat:
		return gin.H{
			"message": "I'm here to help you reflect on your goals and emotions. To get personalized AI assistance, please subscribe to RedButton.",
			"suggestions": []string{
				"Try our free features to get started",
				"Subscribe to unlock AI-powered goal setting and emotional support",
				"Explore our community resources",
			},
		}
	case GateSuggestions:
		return gin.H{
			"suggestions": []string{
				"Take a moment to breathe and reflect",
				"Write down your thoughts in a journal",
				"Share your feelings with a friend",
				"Try a short meditation",
				"Go for a walk in nature",
			},
		}
	case GateJournal:
		return gin.H{
			"template": "Today I feel...\n\nWhat's on my mind?\n\nWhat am I grateful for?\n\nWhat would I like to improve?",
		}
	case GatePolish:
		var body struct {
			EntryContent string `json:"entryContent"`
		}
		// Best effort echo of the submitted entry.
		_ = c.ShouldBindJSON(&body)
		return gin.H{"polishedContent": body.EntryContent}
	default:
		return gin.H{}
	}
}
