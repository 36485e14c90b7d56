package userdata_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redbutton/internal/repositories"
	"redbutton/internal/services"
)

var Module = fx.Provide(
	provideUserDataService, provideUserDataRepo)

func provideUserDataRepo(db *gorm.DB) repositories.UserDataRepository {
	return repositories.NewUserDataRepository(db)
}

func provideUserDataService(userDataRepo repositories.UserDataRepository) services.UserDataServiceInterface {
	return services.NewUserDataService(userDataRepo)
}
