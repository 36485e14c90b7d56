package config_fx

import (
	"go.uber.org/fx"

	"redbutton/pkg/config"
)

var Module = fx.Provide(
	config.Load)
