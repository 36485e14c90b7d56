package controllers_fx

import (
	"go.uber.org/fx"

	"redbutton/internal/api/controllers"
	"redbutton/internal/services"
	"redbutton/pkg/config"
	mem "redbutton/pkg/memcache"
)

var Module = fx.Options(
	fx.Provide(provideAuthController),
	fx.Provide(controllers.NewUserDataController),
	fx.Provide(controllers.NewAIController),
	fx.Provide(controllers.NewSubscriptionController),
	fx.Provide(controllers.NewSystemController))

func provideAuthController(
	cfg *config.Config,
	authService services.AuthServiceInterface,
	googleService services.GoogleServiceInterface,
	oauthStates mem.OAuthStateStore,
) *controllers.AuthController {
	return controllers.NewAuthController(authService, googleService, oauthStates, cfg.ClientURL)
}
