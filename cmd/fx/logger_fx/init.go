package logger_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplan/internal/config"
)

var Module = fx.Provide(ProvideLogger)

func ProvideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsDevelopment() {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
	return logger, nil
}
