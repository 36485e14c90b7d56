package services

import (
	"context"
	"errors"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"redbutton/pkg/config"
)

const googleIssuer = "https://accounts.google.com"

// GoogleProfile is the identity extracted from a verified Google token.
type GoogleProfile struct {
	Email   string
	Name    string
	Picture string
}

type GoogleServiceInterface interface {
	AuthCodeURL(state string) (string, error)
	ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error)
	VerifyIDToken(ctx context.Context, rawToken string) (*GoogleProfile, error)
}

type googleService struct {
	cfg *config.Config

	mu       sync.Mutex
	oauthCfg *oauth2.Config
	verifier *oidc.IDTokenVerifier
}

func NewGoogleService(cfg *config.Config) GoogleServiceInterface {
	return &googleService{cfg: cfg}
}

// init discovers the Google OIDC endpoints lazily so the server can start
// without outbound network access when OAuth is not configured.
func (g *googleService) init(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.verifier != nil {
		return nil
	}
	if g.cfg.GoogleClientID == "" || g.cfg.GoogleClientSecret == "" {
		return errors.New("google oauth is not configured")
	}

	provider, err := oidc.NewProvider(ctx, googleIssuer)
	if err != nil {
		return err
	}

	g.oauthCfg = &oauth2.Config{
		ClientID:     g.cfg.GoogleClientID,
		ClientSecret: g.cfg.GoogleClientSecret,
		RedirectURL:  g.cfg.GoogleRedirectURL,
		Endpoint:     provider.Endpoint(),
		Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
	}
	g.verifier = provider.Verifier(&oidc.Config{ClientID: g.cfg.GoogleClientID})
	return nil
}

func (g *googleService) AuthCodeURL(state string) (string, error) {
	if err := g.init(context.Background()); err != nil {
		return "", err
	}
	return g.oauthCfg.AuthCodeURL(state), nil
}

func (g *googleService) ExchangeCode(ctx context.Context, code string) (*GoogleProfile, error) {
	if err := g.init(ctx); err != nil {
		return nil, err
	}

	token, err := g.oauthCfg.Exchange(ctx, code)
	if err != nil {
		return nil, err
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		return nil, errors.New("no id_token in token response")
	}

	return g.profileFromIDToken(ctx, rawIDToken)
}

func (g *googleService) VerifyIDToken(ctx context.Context, rawToken string) (*GoogleProfile, error) {
	if err := g.init(ctx); err != nil {
		return nil, err
	}
	return g.profileFromIDToken(ctx, rawToken)
}

func (g *googleService) profileFromIDToken(ctx context.Context, rawIDToken string) (*GoogleProfile, error) {
	idToken, err := g.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, err
	}

	var claims struct {
		Email   string `json:"email"`
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, err
	}
	if claims.Email == "" {
		return nil, errors.New("google token has no email claim")
	}

	return &GoogleProfile{
		Email:   claims.Email,
		Name:    claims.Name,
		Picture: claims.Picture,
	}, nil
}
