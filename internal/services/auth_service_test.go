package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redbutton/internal/models/db_models"
	"redbutton/internal/models/request_models"
	"redbutton/pkg/utils"
)

func newAuthFixture() (AuthServiceInterface, *fakeUserRepo, *fakeInviteRepo, *fakeUserDataRepo, *fakeMailService) {
	userRepo := newFakeUserRepo()
	inviteRepo := newFakeInviteRepo()
	dataRepo := newFakeUserDataRepo()
	mail := &fakeMailService{}
	svc := NewAuthService(testConfig(), userRepo, inviteRepo, NewUserDataService(dataRepo), mail)
	return svc, userRepo, inviteRepo, dataRepo, mail
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "short12",
	})
	assert.ErrorIs(t, err, utils.ErrPasswordTooShort)
}

func TestRegisterCreatesActiveUserWithDefaults(t *testing.T) {
	svc, userRepo, _, dataRepo, _ := newAuthFixture()

	token, user, err := svc.Register(context.Background(), request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
		Name:     "Alice",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, db_models.UserStatusActive, user.Status)

	stored, err := userRepo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)

	data, err := dataRepo.FindByUserID(context.Background(), user.ID.String())
	require.NoError(t, err)
	require.NotNil(t, data)
	assert.Len(t, data.Emotions, 10)
	assert.Len(t, data.Goals, 3)
	for _, g := range data.Goals {
		assert.True(t, g.IsFixed)
	}
}

func TestRegisterRejectsExistingActiveEmail(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	_, _, err = svc.Register(context.Background(), request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password2",
	})
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	_, _, err := svc.Register(context.Background(), request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	_, _, err = svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "a@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	_, _, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "password1",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginOAuthOnlyAccount(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthFixture()

	require.NoError(t, userRepo.Insert(context.Background(), &db_models.User{
		Email:         "o@example.com",
		OAuthProvider: "google",
		Role:          db_models.UserRoleUser,
		Status:        db_models.UserStatusActive,
	}))

	_, _, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "o@example.com",
		Password: "whatever1",
	})
	assert.ErrorIs(t, err, utils.ErrOAuthOnlyAccount)
}

func TestInviteLinkRedemption(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	links, err := svc.GenerateInviteLink(ctx, request_models.GenerateInviteRequest{
		Email:          "invitee@example.com",
		AdminSecretKey: "admin-secret",
	})
	require.NoError(t, err)
	require.NotEmpty(t, links.Token)

	email, err := svc.VerifyInvite(ctx, links.Token)
	require.NoError(t, err)
	assert.Equal(t, "invitee@example.com", email)

	token, user, err := svc.Register(ctx, request_models.RegisterRequest{
		Email:       "invitee@example.com",
		Password:    "password1",
		Name:        "Invitee",
		InviteToken: links.Token,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, db_models.UserStatusActive, user.Status)
	assert.Nil(t, user.InviteToken)

	// Activation consumed the token.
	_, _, err = svc.Register(ctx, request_models.RegisterRequest{
		Email:       "invitee@example.com",
		Password:    "password1",
		InviteToken: links.Token,
	})
	assert.ErrorIs(t, err, utils.ErrInviteNotFound)
}

func TestGenerateInviteLinkRejectsBadSecret(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()

	_, err := svc.GenerateInviteLink(context.Background(), request_models.GenerateInviteRequest{
		Email:          "invitee@example.com",
		AdminSecretKey: "nope",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestVerifyInviteExpired(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthFixture()
	ctx := context.Background()

	token := "expired-token"
	require.NoError(t, userRepo.Insert(ctx, &db_models.User{
		Email:         "late@example.com",
		Role:          db_models.UserRoleUser,
		Status:        db_models.UserStatusInvited,
		InviteToken:   &token,
		InviteExpires: time.Now().Add(-time.Hour).Unix(),
	}))

	_, err := svc.VerifyInvite(ctx, token)
	assert.ErrorIs(t, err, utils.ErrInviteExpired)
}

func TestCreateInviteSendsMail(t *testing.T) {
	svc, _, inviteRepo, _, mail := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.CreateInvite(ctx, "friend@example.com", "admin-id"))
	assert.Equal(t, []string{"friend@example.com"}, mail.sent)

	invite, err := inviteRepo.FindPendingByEmail(ctx, "friend@example.com")
	require.NoError(t, err)
	require.NotNil(t, invite)
	assert.NotEmpty(t, invite.Token)
}

func TestCreateInviteRejectsActiveUser(t *testing.T) {
	svc, _, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, _, err := svc.Register(ctx, request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	err = svc.CreateInvite(ctx, "a@example.com", "admin-id")
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestOAuthLoginCreatesAndReusesAccount(t *testing.T) {
	svc, userRepo, _, dataRepo, _ := newAuthFixture()
	ctx := context.Background()

	profile := &GoogleProfile{Email: "g@example.com", Name: "Gal", Picture: "http://p"}

	_, first, err := svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, "google", first.OAuthProvider)

	data, err := dataRepo.FindByUserID(ctx, first.ID.String())
	require.NoError(t, err)
	require.NotNil(t, data)

	_, second, err := svc.OAuthLogin(ctx, profile)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, userRepo.users, 1)
}

func TestUpdateAPIKeySetAndClear(t *testing.T) {
	svc, userRepo, _, _, _ := newAuthFixture()
	ctx := context.Background()

	_, user, err := svc.Register(ctx, request_models.RegisterRequest{
		Email:    "a@example.com",
		Password: "password1",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateAPIKey(ctx, user.ID.String(), "sk-personal"))
	stored, _ := userRepo.FindByID(ctx, user.ID.String())
	require.NotNil(t, stored.APIKey)
	assert.Equal(t, "sk-personal", *stored.APIKey)

	require.NoError(t, svc.UpdateAPIKey(ctx, user.ID.String(), ""))
	stored, _ = userRepo.FindByID(ctx, user.ID.String())
	assert.Nil(t, stored.APIKey)
}
