package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripplan/internal/config"
	"tripplan/internal/infra"
	"tripplan/internal/repositories"
)

var Module = fx.Options(
	fx.Provide(provideDB),
	fx.Provide(repositories.NewTravelPlanRepository),
	fx.Provide(repositories.NewPoiEmbededRepository),
	fx.Provide(repositories.NewPOIRepository),
)

func provideDB(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	if err := infra.Migrate(db); err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, logger)
			return nil
		},
	})
	return db, nil
}
