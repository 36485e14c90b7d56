package db_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"redbutton/internal/infra"
	"redbutton/pkg/config"
)

var Module = fx.Provide(
	provideDB)

func provideDB(cfg *config.Config) *gorm.DB {
	return infra.InitPostgresql(cfg)
}
