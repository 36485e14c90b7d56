package controllers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"redbutton/internal/models/request_models"
	"redbutton/internal/models/response_models"
	"redbutton/internal/services"
	mem "redbutton/pkg/memcache"
	"redbutton/pkg/middleware"
	"redbutton/pkg/utils"
)

const oauthStateTTL = 10 * time.Minute

type AuthController struct {
	authService   services.AuthServiceInterface
	googleService services.GoogleServiceInterface
	oauthStates   mem.OAuthStateStore
	clientURL     string
}

func NewAuthController(
	authService services.AuthServiceInterface,
	googleService services.GoogleServiceInterface,
	oauthStates mem.OAuthStateStore,
	clientURL string,
) *AuthController {
	return &AuthController{
		authService:   authService,
		googleService: googleService,
		oauthStates:   oauthStates,
		clientURL:     clientURL,
	}
}

// Login godoc
// @Summary Log in with email and password
// @Description Authenticate a user and return a token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.LoginRequest true "Login payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (a *AuthController) Login(c *gin.Context) {
	var req request_models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, user, err := a.authService.Login(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  response_models.ToUserResponse(user),
	})
}

// Register godoc
// @Summary Register a new account
// @Description Create an account, optionally redeeming an invite token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.RegisterRequest true "Registration payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (a *AuthController) Register(c *gin.Context) {
	var req request_models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	token, user, err := a.authService.Register(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusCreated, gin.H{
		"token": token,
		"user":  response_models.ToUserResponse(user),
	})
}

// VerifyInvite godoc
// @Summary Verify an invite token
// @Description Check an invite token and return the invited email
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.VerifyInviteRequest true "Invite token"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/auth/verify-invite [post]
func (a *AuthController) VerifyInvite(c *gin.Context) {
	var req request_models.VerifyInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	email, err := a.authService.VerifyInvite(c.Request.Context(), req.Token)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"data": gin.H{"email": email}})
}

// Me godoc
// @Summary Get the authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func (a *AuthController) Me(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		utils.RespondError(c, http.StatusUnauthorized, "Authentication required")
		return
	}
	utils.RespondSuccess(c, http.StatusOK, gin.H{"user": response_models.ToUserResponse(user)})
}

// Invite godoc
// @Summary Invite a user by email
// @Description Send an invitation mail with a single-use token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.InviteRequest true "Invite payload"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/invite [post]
func (a *AuthController) Invite(c *gin.Context) {
	var req request_models.InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.authService.CreateInvite(c.Request.Context(), req.Email, middleware.CurrentUserID(c)); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"message": fmt.Sprintf("Invitation sent to %s", req.Email),
	})
}

// GenerateInvite godoc
// @Summary Generate an invite link with the admin secret
// @Description Create an invite link without sending mail. Guarded by the admin secret key.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.GenerateInviteRequest true "Invite payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/admin/generate-invite [post]
func (a *AuthController) GenerateInvite(c *gin.Context) {
	var req request_models.GenerateInviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	links, err := a.authService.GenerateInviteLink(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"inviteLink":  links.WebURL,
		"desktopLink": links.DesktopURL,
		"token":       links.Token,
		"userId":      links.UserID,
	})
}

// GoogleStart godoc
// @Summary Begin the Google OAuth flow
// @Description Redirect the browser to Google's consent screen
// @Tags Auth
// @Success 302
// @Router /api/auth/google [get]
func (a *AuthController) GoogleStart(c *gin.Context) {
	state, err := utils.GenerateSecureToken(16)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}
	a.oauthStates.Set(state, oauthStateTTL)

	authURL, err := a.googleService.AuthCodeURL(state)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, "Google sign-in is not available")
		return
	}
	c.Redirect(http.StatusFound, authURL)
}

// GoogleCallback godoc
// @Summary Google OAuth callback
// @Description Exchange the authorization code and redirect to the client with a token
// @Tags Auth
// @Success 302
// @Router /api/auth/google/callback [get]
func (a *AuthController) GoogleCallback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")

	if state == "" || code == "" || !a.oauthStates.Consume(state) {
		a.redirectWithError(c, "Invalid sign-in attempt, please try again")
		return
	}

	profile, err := a.googleService.ExchangeCode(c.Request.Context(), code)
	if err != nil {
		a.redirectWithError(c, "Google sign-in failed")
		return
	}

	token, _, err := a.authService.OAuthLogin(c.Request.Context(), profile)
	if err != nil {
		a.redirectWithError(c, "Google sign-in failed")
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth/google/callback?token=%s", a.clientURL, url.QueryEscape(token)))
}

func (a *AuthController) redirectWithError(c *gin.Context, message string) {
	c.Redirect(http.StatusFound, fmt.Sprintf("%s/auth/google/callback?error=%s", a.clientURL, url.QueryEscape(message)))
}

// OAuthLogin godoc
// @Summary Log in with a provider ID token
// @Description Verify a Google ID token obtained by the client and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.OAuthLoginRequest true "OAuth payload"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/oauth [post]
func (a *AuthController) OAuthLogin(c *gin.Context) {
	var req request_models.OAuthLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Provider != "google" {
		utils.RespondError(c, http.StatusBadRequest, "Unsupported OAuth provider")
		return
	}

	profile, err := a.googleService.VerifyIDToken(c.Request.Context(), req.Token)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid OAuth token")
		return
	}

	token, user, err := a.authService.OAuthLogin(c.Request.Context(), profile)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{
		"token": token,
		"user":  response_models.ToUserResponse(user),
	})
}

// UpdateAPIKey godoc
// @Summary Store a personal AI provider key
// @Description Set or clear the user's own completion API key
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body request_models.UpdateAPIKeyRequest true "API key payload"
// @Success 200 {object} map[string]interface{}
// @Router /api/auth/api-key [put]
func (a *AuthController) UpdateAPIKey(c *gin.Context) {
	var req request_models.UpdateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := a.authService.UpdateAPIKey(c.Request.Context(), middleware.CurrentUserID(c), req.APIKey); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, http.StatusOK, gin.H{"message": "API key updated"})
}
