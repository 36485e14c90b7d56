package auth_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redbutton/internal/repositories"
	"redbutton/internal/services"
	"redbutton/pkg/config"
)

var Module = fx.Provide(
	provideAuthService, provideGoogleService, provideUserRepo, provideInviteRepo)

func provideUserRepo(db *gorm.DB) repositories.UserRepository {
	return repositories.NewUserRepository(db)
}

func provideInviteRepo(db *gorm.DB) repositories.InviteRepository {
	return repositories.NewInviteRepository(db)
}

func provideGoogleService(cfg *config.Config) services.GoogleServiceInterface {
	return services.NewGoogleService(cfg)
}

func provideAuthService(
	cfg *config.Config,
	userRepo repositories.UserRepository,
	inviteRepo repositories.InviteRepository,
	userDataService services.UserDataServiceInterface,
	mailService services.IMailService,
) services.AuthServiceInterface {
	return services.NewAuthService(cfg, userRepo, inviteRepo, userDataService, mailService)
}
