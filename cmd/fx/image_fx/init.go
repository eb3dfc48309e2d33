package image_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"tripplan/internal/config"
	"tripplan/internal/infra"
	"tripplan/internal/services"
)

var Module = fx.Provide(
	ProvidePhotoCache,
	ProvideImageResolver,
)

func ProvidePhotoCache(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) services.PhotoCache {
	if cfg.Images.CacheBackend != "redis" {
		return services.NewMemoryPhotoCache(cfg.Images.CacheTTL)
	}

	client := infra.NewRedis(cfg.Redis.Addr)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("redis unreachable, photo lookups will not be cached", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return services.NewRedisPhotoCache(client, cfg.Images.CacheTTL, logger)
}

// ProvideImageResolver orders the tiers: places, then pexels. Tiers without a key are skipped.
func ProvideImageResolver(cfg config.Config, cache services.PhotoCache, logger *zap.Logger) services.ImageResolverInterface {
	limiter := rate.NewLimiter(rate.Limit(cfg.Images.RatePerSecond), max(1, int(cfg.Images.RatePerSecond)))

	var tiers []services.ImageProvider
	if cfg.Images.GoogleMapsKey != "" {
		places, err := services.NewPlacePhotoProvider(cfg.Images.GoogleMapsKey, limiter, cache)
		if err != nil {
			logger.Warn("places photo tier disabled", zap.Error(err))
		} else {
			tiers = append(tiers, places)
		}
	}
	if cfg.Images.PexelsKey != "" {
		tiers = append(tiers, services.NewPexelsProvider(cfg.Images.PexelsBaseURL, cfg.Images.PexelsKey, limiter, cache))
	}
	if len(tiers) == 0 {
		logger.Warn("no image providers configured, every activity gets the placeholder image")
	}

	return services.NewImageResolver(tiers, services.ImageResolverConfig{
		LookupTimeout:  cfg.Images.LookupTimeout,
		Concurrency:    cfg.Images.Concurrency,
		PlaceholderURL: cfg.Images.PlaceholderURL,
	}, logger)
}
