package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"redbutton/internal/models/db_models"
	"redbutton/pkg/config"
)

// In-memory repository fakes backing the service tests.

type fakeUserRepo struct {
	users map[string]*db_models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*db_models.User)}
}

func (f *fakeUserRepo) Insert(_ context.Context, user *db_models.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	copied := *user
	f.users[user.ID.String()] = &copied
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*db_models.User, error) {
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*db_models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindByInviteToken(_ context.Context, token string) (*db_models.User, error) {
	for _, u := range f.users {
		if u.InviteToken != nil && *u.InviteToken == token {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) Save(_ context.Context, user *db_models.User) error {
	copied := *user
	f.users[user.ID.String()] = &copied
	return nil
}

type fakeInviteRepo struct {
	invites map[string]*db_models.Invite
}

func newFakeInviteRepo() *fakeInviteRepo {
	return &fakeInviteRepo{invites: make(map[string]*db_models.Invite)}
}

func (f *fakeInviteRepo) Insert(_ context.Context, invite *db_models.Invite) error {
	if invite.ID == uuid.Nil {
		invite.ID = uuid.New()
	}
	copied := *invite
	f.invites[invite.ID.String()] = &copied
	return nil
}

func (f *fakeInviteRepo) FindByToken(_ context.Context, token string) (*db_models.Invite, error) {
	for _, i := range f.invites {
		if i.Token == token {
			copied := *i
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) FindPendingByEmail(_ context.Context, email string) (*db_models.Invite, error) {
	for _, i := range f.invites {
		if i.Email == email && i.Status == db_models.InviteStatusPending {
			copied := *i
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeInviteRepo) Save(_ context.Context, invite *db_models.Invite) error {
	copied := *invite
	f.invites[invite.ID.String()] = &copied
	return nil
}

type fakeUserDataRepo struct {
	byUserID map[string]*db_models.UserData
	saves    int
}

func newFakeUserDataRepo() *fakeUserDataRepo {
	return &fakeUserDataRepo{byUserID: make(map[string]*db_models.UserData)}
}

func (f *fakeUserDataRepo) Insert(_ context.Context, data *db_models.UserData) error {
	if data.ID == uuid.Nil {
		data.ID = uuid.New()
	}
	copied := *data
	f.byUserID[data.UserID] = &copied
	return nil
}

func (f *fakeUserDataRepo) FindByUserID(_ context.Context, userID string) (*db_models.UserData, error) {
	if d, ok := f.byUserID[userID]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeUserDataRepo) FindByStripeCustomerID(_ context.Context, customerID string) (*db_models.UserData, error) {
	for _, d := range f.byUserID {
		if d.StripeCustomerID != nil && *d.StripeCustomerID == customerID {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserDataRepo) Save(_ context.Context, data *db_models.UserData) error {
	f.saves++
	copied := *data
	f.byUserID[data.UserID] = &copied
	return nil
}

type fakeMailService struct {
	sent []string
	err  error
}

func (f *fakeMailService) SendInviteMail(to, webLink, desktopLink string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, to)
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:       "test",
		JWTSecret: "test-secret",
		JWTExpiry: time.Hour,
		ClientURL: "http://localhost:3000",
		AILimits: config.AILimits{
			MaxTokensChat:        1000,
			MaxTokensSuggestions: 600,
			MaxTokensJournal:     750,
			MaxTokensPolish:      1000,
		},
		OpenAIAPIKey:   "sk-test",
		DefaultModel:   "gpt-4o-mini",
		ChatModel:      "gpt-4o",
		AdminSecretKey: "admin-secret",
	}
}
