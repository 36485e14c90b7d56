package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/response_models"
	"redbutton/internal/services"
	"redbutton/pkg/utils"
)

type stubSubscriptionService struct {
	webhookErr    error
	webhookCalled bool

	restoreStatus *response_models.SubscriptionStatus
	restoreFound  bool
	restoreErr    error
}

func (s *stubSubscriptionService) Products() map[string]response_models.ProductInfo {
	return map[string]response_models.ProductInfo{
		"monthly": {Name: "RedButton Monthly"},
		"yearly":  {Name: "RedButton Yearly"},
	}
}

func (s *stubSubscriptionService) CreateCheckoutSession(context.Context, *db_models.User, string) (*services.CheckoutResult, error) {
	return &services.CheckoutResult{SessionID: "cs_123", URL: "https://checkout.example"}, nil
}

func (s *stubSubscriptionService) Status(context.Context, string) (*response_models.SubscriptionStatus, error) {
	return &response_models.SubscriptionStatus{IsSubscribed: true}, nil
}

func (s *stubSubscriptionService) Restore(context.Context, string) (*response_models.SubscriptionStatus, bool, error) {
	return s.restoreStatus, s.restoreFound, s.restoreErr
}

func (s *stubSubscriptionService) HandleWebhook(context.Context, []byte, string) error {
	s.webhookCalled = true
	return s.webhookErr
}

func webhookRouter(svc *stubSubscriptionService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewSubscriptionController(svc)
	r := gin.New()
	r.POST("/api/subscription/webhook", controller.Webhook)
	r.POST("/api/subscription/restore", controller.Restore)
	r.GET("/api/subscription/products", controller.Products)
	return r
}

func TestWebhookMissingSignature(t *testing.T) {
	svc := &stubSubscriptionService{}
	r := webhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader("{}"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, svc.webhookCalled, "handler must not run without a signature")
}

func TestWebhookErrorAnswersBadRequest(t *testing.T) {
	svc := &stubSubscriptionService{webhookErr: utils.ErrDatabaseError}
	r := webhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	// Never a 5xx, whatever went wrong.
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, svc.webhookCalled)
}

func TestWebhookSuccessAcknowledges(t *testing.T) {
	svc := &stubSubscriptionService{}
	r := webhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=abc")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success  bool `json:"success"`
		Received bool `json:"received"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Received)
}

func TestRestoreNothingToRestore(t *testing.T) {
	svc := &stubSubscriptionService{
		restoreStatus: &response_models.SubscriptionStatus{IsSubscribed: false},
		restoreFound:  false,
	}
	r := webhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/restore", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "No active subscription found to restore.", body.Message)
}

func TestRestoreFoundSubscription(t *testing.T) {
	svc := &stubSubscriptionService{
		restoreStatus: &response_models.SubscriptionStatus{IsSubscribed: true},
		restoreFound:  true,
	}
	r := webhookRouter(svc)

	req := httptest.NewRequest(http.MethodPost, "/api/subscription/restore", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success      bool `json:"success"`
		Subscription struct {
			IsSubscribed bool `json:"isSubscribed"`
		} `json:"subscription"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.True(t, body.Subscription.IsSubscribed)
}

func TestProductsEndpoint(t *testing.T) {
	r := webhookRouter(&stubSubscriptionService{})

	req := httptest.NewRequest(http.MethodGet, "/api/subscription/products", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "RedButton Monthly")
	assert.Contains(t, w.Body.String(), "RedButton Yearly")
}
