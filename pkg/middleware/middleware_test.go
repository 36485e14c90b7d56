package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbutton/internal/models/db_models"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

type stubUserRepo struct {
	user *db_models.User
}

func (s *stubUserRepo) Insert(context.Context, *db_models.User) error { return nil }
func (s *stubUserRepo) FindByID(_ context.Context, id string) (*db_models.User, error) {
	if s.user != nil && s.user.ID.String() == id {
		return s.user, nil
	}
	return nil, nil
}
func (s *stubUserRepo) FindByEmail(context.Context, string) (*db_models.User, error) {
	return nil, nil
}
func (s *stubUserRepo) FindByInviteToken(context.Context, string) (*db_models.User, error) {
	return nil, nil
}
func (s *stubUserRepo) Save(context.Context, *db_models.User) error { return nil }

type stubUserDataRepo struct {
	data *db_models.UserData
}

func (s *stubUserDataRepo) Insert(context.Context, *db_models.UserData) error { return nil }
func (s *stubUserDataRepo) FindByUserID(_ context.Context, userID string) (*db_models.UserData, error) {
	if s.data != nil && s.data.UserID == userID {
		return s.data, nil
	}
	return nil, nil
}
func (s *stubUserDataRepo) FindByStripeCustomerID(context.Context, string) (*db_models.UserData, error) {
	return nil, nil
}
func (s *stubUserDataRepo) Save(context.Context, *db_models.UserData) error { return nil }

func middlewareConfig() *config.Config {
	return &config.Config{
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		RateLimitWindow: time.Minute,
		RateLimitMax:    100,
	}
}

func activeUser() *db_models.User {
	return &db_models.User{
		BaseModel: db_models.BaseModel{ID: uuid.New()},
		Email:     "a@example.com",
		Role:      db_models.UserRoleUser,
		Status:    db_models.UserStatusActive,
	}
}

func performRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	user := activeUser()
	repo := &stubUserRepo{user: user}

	r := gin.New()
	r.GET("/protected", JWTAuth(cfg, repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userID": CurrentUserID(c)})
	})

	token, err := utils.CreateToken(cfg.JWTSecret, cfg.JWTExpiry, user.ID.String(), user.Email, user.Role)
	require.NoError(t, err)

	w := performRequest(r, http.MethodGet, "/protected", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), user.ID.String())
}

func TestJWTAuthRejectsMissingAndBadTokens(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	r := gin.New()
	r.GET("/protected", JWTAuth(cfg, &stubUserRepo{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusUnauthorized, performRequest(r, http.MethodGet, "/protected", "").Code)
	assert.Equal(t, http.StatusUnauthorized, performRequest(r, http.MethodGet, "/protected", "garbage").Code)
}

func TestJWTAuthRejectsUnknownUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	r := gin.New()
	r.GET("/protected", JWTAuth(cfg, &stubUserRepo{}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := utils.CreateToken(cfg.JWTSecret, cfg.JWTExpiry, uuid.NewString(), "ghost@example.com", "user")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, performRequest(r, http.MethodGet, "/protected", token).Code)
}

func TestJWTAuthRejectsInactiveUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	user := activeUser()
	user.Status = db_models.UserStatusBlocked
	repo := &stubUserRepo{user: user}

	r := gin.New()
	r.GET("/protected", JWTAuth(cfg, repo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := utils.CreateToken(cfg.JWTSecret, cfg.JWTExpiry, user.ID.String(), user.Email, user.Role)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, performRequest(r, http.MethodGet, "/protected", token).Code)
}

func TestRequireAdminBlocksRegularUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	user := activeUser()
	repo := &stubUserRepo{user: user}

	r := gin.New()
	r.GET("/admin", JWTAuth(cfg, repo), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	token, err := utils.CreateToken(cfg.JWTSecret, cfg.JWTExpiry, user.ID.String(), user.Email, user.Role)
	require.NoError(t, err)

	assert.Equal(t, http.StatusForbidden, performRequest(r, http.MethodGet, "/admin", token).Code)

	user.Role = db_models.UserRoleAdmin
	assert.Equal(t, http.StatusOK, performRequest(r, http.MethodGet, "/admin", token).Code)
}

func gateRouter(cfg *config.Config, repo *stubUserDataRepo, kind string, userID string, handlerHit *bool) *gin.Engine {
	r := gin.New()
	r.POST("/gated", func(c *gin.Context) {
		// Simulate JWTAuth having run.
		c.Set(ContextUserIDKey, userID)
		c.Next()
	}, RequireSubscription(cfg, repo, kind), func(c *gin.Context) {
		*handlerHit = true
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return r
}

func TestSubscriptionGateDisabledPaywallPassesEveryone(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	repo := &stubUserDataRepo{data: &db_models.UserData{UserID: "u1", IsSubscribed: false}}

	hit := false
	r := gateRouter(cfg, repo, GateSuggestions, "u1", &hit)

	w := performRequest(r, http.MethodPost, "/gated", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hit)
}

func TestSubscriptionGateBlocksUnsubscribed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	cfg.PaywallEnabled = true
	repo := &stubUserDataRepo{data: &db_models.UserData{UserID: "u1", IsSubscribed: false}}

	hit := false
	r := gateRouter(cfg, repo, GateJournal, "u1", &hit)

	w := performRequest(r, http.MethodPost, "/gated", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, hit)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Template string `json:"template"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Contains(t, body.Data.Template, "Today I feel...")
}

func TestSubscriptionGateAllowsSubscriber(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	cfg.PaywallEnabled = true
	repo := &stubUserDataRepo{data: &db_models.UserData{UserID: "u1", IsSubscribed: true}}

	hit := false
	r := gateRouter(cfg, repo, GateChat, "u1", &hit)

	w := performRequest(r, http.MethodPost, "/gated", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, hit)
}

func TestSubscriptionGateMissingDocument(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	repo := &stubUserDataRepo{}

	hit := false
	r := gateRouter(cfg, repo, GateChat, "ghost", &hit)

	w := performRequest(r, http.MethodPost, "/gated", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, hit)
}

func TestRateLimitCapsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	cfg.RateLimitMax = 3

	r := gin.New()
	r.GET("/limited", RateLimit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, performRequest(r, http.MethodGet, "/limited", "").Code)
	}
	assert.Equal(t, http.StatusTooManyRequests, performRequest(r, http.MethodGet, "/limited", "").Code)
}

func TestTraceIDGeneratedAndEchoed(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/ping", TraceID(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := performRequest(r, http.MethodGet, "/ping", "")
	assert.NotEmpty(t, w.Header().Get(TraceIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(TraceIDHeader, "trace-abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "trace-abc", w.Header().Get(TraceIDHeader))
}

func TestRateLimitZeroMaxClampsToOne(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := middlewareConfig()
	cfg.RateLimitMax = 0

	r := gin.New()
	r.GET("/limited", RateLimit(cfg), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	assert.Equal(t, http.StatusOK, performRequest(r, http.MethodGet, "/limited", "").Code)
	assert.Equal(t, http.StatusTooManyRequests, performRequest(r, http.MethodGet, "/limited", "").Code)
}
