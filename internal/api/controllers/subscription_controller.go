package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"redbutton/internal/models/request_models"
	"redbutton/internal/services"
	"redbutton/pkg/middleware"
	"redbutton/pkg/utils"
)

// Webhook payloads are small; anything bigger is not from the provider.
const maxWebhookBytes = 64 << 10

type SubscriptionController struct {
	subscriptionService services.SubscriptionServiceInterface
}

func NewSubscriptionController(subscriptionService services.SubscriptionServiceInterface) *SubscriptionController {
	return &SubscriptionController{
		subscriptionService: subscriptionService,
	}
}

// Products godoc
// @Summary List subscription products
// @Description Return the monthly and yearly plans with their resolved price ids
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/subscription/products [get]
func (s *SubscriptionController) Products(c *gin.Context) {
	utils.RespondSuccess(c, http.StatusOK, gin.H{"products": s.subscriptionService.Products()})
}

// CreateSession godoc
// @Summary Create a hosted checkout session
// @Description Start a checkout for the chosen product. If the user already has an active subscription, state is reconciled and no session is created.
// @Tags Subscription
// @Accept json
// @Produce json
// @Param request body request_models.CreateSessionRequest true "Checkout payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/subscription/create-session [post]
func (s *SubscriptionController) CreateSession(c *gin.Context) {
	var req request_models.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	user := middleware.CurrentUser(c)
	result, err := s.subscriptionService.CreateCheckoutSession(c.Request.Context(), user, req.ProductID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if result.AlreadySubscribed {
		utils.RespondSuccess(c, http.StatusOK, gin.H{
			"alreadySubscribed":  true,
			"subscriptionId":     result.SubscriptionID,
			"subscriptionStatus": result.SubscriptionStatus,
		})
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"sessionId": result.SessionID,
		"url":       result.URL,
	})
}

// Status godoc
// @Summary Get the cached subscription status
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/subscription/status [get]
func (s *SubscriptionController) Status(c *gin.Context) {
	status, err := s.subscriptionService.Status(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"subscription": status})
}

// Restore godoc
// @Summary Restore subscription state from the billing provider
// @Description Re-query the provider by stored customer id and reconcile the cached fields
// @Tags Subscription
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/subscription/restore [post]
func (s *SubscriptionController) Restore(c *gin.Context) {
	status, found, err := s.subscriptionService.Restore(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	if !found {
		// Still a 200: the account is simply not subscribed anymore.
		c.JSON(http.StatusOK, gin.H{
			"success":      false,
			"message":      "No active subscription found to restore.",
			"subscription": status,
		})
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message":      "Subscription restored",
		"subscription": status,
	})
}

// Webhook godoc
// @Summary Billing provider webhook
// @Description Verify the event signature and reconcile subscription state. Errors answer 400 so bad payloads are not retried forever.
// @Tags Subscription
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/subscription/webhook [post]
func (s *SubscriptionController) Webhook(c *gin.Context) {
	signature := c.GetHeader("Stripe-Signature")
	if signature == "" {
		utils.RespondError(c, http.StatusBadRequest, "Missing signature header")
		return
	}

	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Could not read payload")
		return
	}

	if err := s.subscriptionService.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		// Never a 5xx here: the provider would retry a payload that can
		// never succeed.
		utils.RespondError(c, http.StatusBadRequest, "Webhook processing failed")
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"received": true})
}
