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
	"redbutton/internal/models/request_models"
	"redbutton/internal/services"
	"redbutton/pkg/utils"
)

type stubAuthService struct {
	verifyEmail string
	verifyErr   error
}

func (s *stubAuthService) Login(context.Context, request_models.LoginRequest) (string, *db_models.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) Register(context.Context, request_models.RegisterRequest) (string, *db_models.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) VerifyInvite(context.Context, string) (string, error) {
	return s.verifyEmail, s.verifyErr
}

func (s *stubAuthService) CreateInvite(context.Context, string, string) error { return nil }

func (s *stubAuthService) GenerateInviteLink(context.Context, request_models.GenerateInviteRequest) (*services.InviteLinks, error) {
	return nil, nil
}

func (s *stubAuthService) OAuthLogin(context.Context, *services.GoogleProfile) (string, *db_models.User, error) {
	return "", nil, nil
}

func (s *stubAuthService) GetUserByID(context.Context, string) (*db_models.User, error) {
	return nil, nil
}

func (s *stubAuthService) UpdateAPIKey(context.Context, string, string) error { return nil }

func verifyInviteRouter(svc *stubAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	controller := NewAuthController(svc, nil, nil, "http://localhost:3000")
	r := gin.New()
	r.POST("/api/auth/verify-invite", controller.VerifyInvite)
	return r
}

func TestVerifyInviteWrapsEmailInData(t *testing.T) {
	r := verifyInviteRouter(&stubAuthService{verifyEmail: "invited@example.com"})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-invite", strings.NewReader(`{"token":"tok-1"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Email string `json:"email"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, "invited@example.com", body.Data.Email)
}

func TestVerifyInviteUnknownToken(t *testing.T) {
	r := verifyInviteRouter(&stubAuthService{verifyErr: utils.ErrInviteNotFound})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-invite", strings.NewReader(`{"token":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
