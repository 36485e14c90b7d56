package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/request_models"
	"redbutton/internal/repositories"
	"redbutton/pkg/config"
	"redbutton/pkg/utils"
)

const inviteValidity = 7 * 24 * time.Hour

// InviteLinks holds the two link flavors for one invite token.
type InviteLinks struct {
	WebURL     string
	DesktopURL string
	Token      string
	UserID     string
}

type AuthServiceInterface interface {
	Login(ctx context.Context, request request_models.LoginRequest) (string, *db_models.User, error)
	Register(ctx context.Context, request request_models.RegisterRequest) (string, *db_models.User, error)
	VerifyInvite(ctx context.Context, token string) (string, error)
	CreateInvite(ctx context.Context, email string, createdBy string) error
	GenerateInviteLink(ctx context.Context, request request_models.GenerateInviteRequest) (*InviteLinks, error)
	OAuthLogin(ctx context.Context, profile *GoogleProfile) (string, *db_models.User, error)
	GetUserByID(ctx context.Context, userID string) (*db_models.User, error)
	UpdateAPIKey(ctx context.Context, userID string, apiKey string) error
}

type AuthService struct {
	cfg             *config.Config
	userRepo        repositories.UserRepository
	inviteRepo      repositories.InviteRepository
	userDataService UserDataServiceInterface
	mailService     IMailService
}

func NewAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	inviteRepo repositories.InviteRepository,
	userDataService UserDataServiceInterface,
	mailService IMailService,
) AuthServiceInterface {
	return &AuthService{
		cfg:             cfg,
		userRepo:        userRepo,
		inviteRepo:      inviteRepo,
		userDataService: userDataService,
		mailService:     mailService,
	}
}

func (a *AuthService) Login(ctx context.Context, request request_models.LoginRequest) (string, *db_models.User, error) {
	user, err := a.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}
	if user == nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	if user.Status != db_models.UserStatusActive {
		return "", nil, utils.ErrAccountNotActive
	}

	// OAuth-created accounts carry no password.
	if user.Password == nil {
		return "", nil, utils.ErrOAuthOnlyAccount
	}

	if err := utils.ComparePasswords(*user.Password, request.Password); err != nil {
		return "", nil, utils.ErrInvalidCredentials
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (a *AuthService) Register(ctx context.Context, request request_models.RegisterRequest) (string, *db_models.User, error) {
	if len(request.Password) < 8 {
		return "", nil, utils.ErrPasswordTooShort
	}

	if request.InviteToken != "" {
		return a.redeemInvite(ctx, request)
	}

	existing, err := a.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}
	if existing != nil && existing.Status == db_models.UserStatusActive {
		return "", nil, utils.ErrEmailAlreadyExists
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}

	user := &db_models.User{
		Email:    request.Email,
		Password: &hashed,
		Name:     request.Name,
		Role:     db_models.UserRoleUser,
		Status:   db_models.UserStatusActive,
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		return "", nil, utils.ErrDatabaseError
	}

	if err := a.userDataService.EnsureDefaults(ctx, user.ID.String()); err != nil {
		return "", nil, err
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// redeemInvite activates a pre-created invited user and consumes the token.
// A second redemption attempt fails: activation clears the token.
func (a *AuthService) redeemInvite(ctx context.Context, request request_models.RegisterRequest) (string, *db_models.User, error) {
	user, err := a.userRepo.FindByInviteToken(ctx, request.InviteToken)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}
	if user == nil || user.Status != db_models.UserStatusInvited {
		return "", nil, utils.ErrInviteNotFound
	}
	if user.InviteExpires > 0 && user.InviteExpires < time.Now().Unix() {
		return "", nil, utils.ErrInviteExpired
	}

	hashed, err := utils.HashPassword(request.Password)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}

	user.Password = &hashed
	user.Status = db_models.UserStatusActive
	user.InviteToken = nil
	user.InviteExpires = 0
	if request.Name != "" {
		user.Name = request.Name
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		return "", nil, utils.ErrDatabaseError
	}

	if invite, err := a.inviteRepo.FindByToken(ctx, request.InviteToken); err == nil && invite != nil {
		invite.Status = db_models.InviteStatusAccepted
		if err := a.inviteRepo.Save(ctx, invite); err != nil {
			log.Printf("Failed to mark invite %s accepted: %v", invite.ID, err)
		}
	}

	if err := a.userDataService.EnsureDefaults(ctx, user.ID.String()); err != nil {
		return "", nil, err
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (a *AuthService) VerifyInvite(ctx context.Context, token string) (string, error) {
	user, err := a.userRepo.FindByInviteToken(ctx, token)
	if err != nil {
		return "", utils.ErrDatabaseError
	}
	if user == nil || user.Status != db_models.UserStatusInvited {
		return "", utils.ErrInviteNotFound
	}
	if user.InviteExpires > 0 && user.InviteExpires < time.Now().Unix() {
		return "", utils.ErrInviteExpired
	}
	return user.Email, nil
}

// CreateInvite issues (or refreshes) an invitation and emails it. A pending
// invite for the same email has its token rotated instead of duplicating.
func (a *AuthService) CreateInvite(ctx context.Context, email string, createdBy string) error {
	existing, err := a.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil && existing.Status == db_models.UserStatusActive {
		return utils.ErrEmailAlreadyExists
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return utils.ErrDatabaseError
	}
	expires := time.Now().Add(inviteValidity).Unix()

	invite, err := a.inviteRepo.FindPendingByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if invite != nil {
		invite.Token = token
		invite.Expires = expires
		if err := a.inviteRepo.Save(ctx, invite); err != nil {
			return utils.ErrDatabaseError
		}
	} else {
		invite = &db_models.Invite{
			Email:     email,
			Token:     token,
			Expires:   expires,
			Status:    db_models.InviteStatusPending,
			CreatedBy: createdBy,
		}
		if err := a.inviteRepo.Insert(ctx, invite); err != nil {
			return utils.ErrDatabaseError
		}
	}

	if _, err := a.upsertInvitedUser(ctx, existing, email, token, expires); err != nil {
		return err
	}

	webURL := fmt.Sprintf("%s/accept-invite?token=%s&email=%s", a.cfg.ClientURL, token, url.QueryEscape(email))
	desktopURL := fmt.Sprintf("redbutton://register?token=%s", token)

	if err := a.mailService.SendInviteMail(email, webURL, desktopURL); err != nil {
		log.Printf("Failed to send invite mail to %s: %v", email, err)
		return utils.ErrUpstreamFailure
	}
	return nil
}

func (a *AuthService) GenerateInviteLink(ctx context.Context, request request_models.GenerateInviteRequest) (*InviteLinks, error) {
	if a.cfg.AdminSecretKey == "" || request.AdminSecretKey != a.cfg.AdminSecretKey {
		return nil, utils.ErrInvalidCredentials
	}

	existing, err := a.userRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if existing != nil && existing.Status == db_models.UserStatusActive {
		return nil, utils.ErrEmailAlreadyExists
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	expires := time.Now().Add(inviteValidity).Unix()

	user, err := a.upsertInvitedUser(ctx, existing, request.Email, token, expires)
	if err != nil {
		return nil, err
	}

	return &InviteLinks{
		WebURL:     fmt.Sprintf("%s/register?token=%s", a.cfg.ClientURL, token),
		DesktopURL: fmt.Sprintf("redbutton://register?token=%s", token),
		Token:      token,
		UserID:     user.ID.String(),
	}, nil
}

// upsertInvitedUser creates the invited-status user stub the registration
// flow redeems, or refreshes the token on an existing one.
func (a *AuthService) upsertInvitedUser(ctx context.Context, existing *db_models.User, email, token string, expires int64) (*db_models.User, error) {
	if existing != nil {
		existing.InviteToken = &token
		existing.InviteExpires = expires
		if existing.Status != db_models.UserStatusActive {
			existing.Status = db_models.UserStatusInvited
		}
		if err := a.userRepo.Save(ctx, existing); err != nil {
			return nil, utils.ErrDatabaseError
		}
		return existing, nil
	}

	user := &db_models.User{
		Email:         email,
		Role:          db_models.UserRoleUser,
		Status:        db_models.UserStatusInvited,
		InviteToken:   &token,
		InviteExpires: expires,
	}
	if err := a.userRepo.Insert(ctx, user); err != nil {
		return nil, utils.ErrDatabaseError
	}
	if err := a.userDataService.EnsureDefaults(ctx, user.ID.String()); err != nil {
		return nil, err
	}
	return user, nil
}

// OAuthLogin finds or creates the account matching a verified provider
// profile. New accounts are activated immediately.
func (a *AuthService) OAuthLogin(ctx context.Context, profile *GoogleProfile) (string, *db_models.User, error) {
	user, err := a.userRepo.FindByEmail(ctx, profile.Email)
	if err != nil {
		return "", nil, utils.ErrDatabaseError
	}

	if user == nil {
		user = &db_models.User{
			Email:         profile.Email,
			Name:          profile.Name,
			Picture:       profile.Picture,
			OAuthProvider: "google",
			Role:          db_models.UserRoleUser,
			Status:        db_models.UserStatusActive,
		}
		if err := a.userRepo.Insert(ctx, user); err != nil {
			return "", nil, utils.ErrDatabaseError
		}
		if err := a.userDataService.EnsureDefaults(ctx, user.ID.String()); err != nil {
			return "", nil, err
		}
	} else if user.Status != db_models.UserStatusActive {
		return "", nil, utils.ErrAccountNotActive
	}

	token, err := a.issueToken(user)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

func (a *AuthService) GetUserByID(ctx context.Context, userID string) (*db_models.User, error) {
	user, err := a.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if user == nil {
		return nil, utils.ErrUserNotFound
	}
	return user, nil
}

// UpdateAPIKey stores a personal completion-provider key. An empty key
// clears the override.
func (a *AuthService) UpdateAPIKey(ctx context.Context, userID string, apiKey string) error {
	user, err := a.GetUserByID(ctx, userID)
	if err != nil {
		return err
	}

	if apiKey == "" {
		user.APIKey = nil
	} else {
		user.APIKey = &apiKey
	}

	if err := a.userRepo.Save(ctx, user); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (a *AuthService) issueToken(user *db_models.User) (string, error) {
	token, err := utils.CreateToken(a.cfg.JWTSecret, a.cfg.JWTExpiry, user.ID.String(), user.Email, user.Role)
	if err != nil {
		return "", utils.ErrInvalidCredentials
	}
	return token, nil
}
