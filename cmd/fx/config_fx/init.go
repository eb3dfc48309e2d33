package config_fx

import (
	"go.uber.org/fx"
	"tripplan/internal/config"
)

var Module = fx.Provide(config.Load)
