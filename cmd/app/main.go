package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"tripplan/cmd/fx/config_fx"
	"tripplan/cmd/fx/controllers_fx"
	"tripplan/cmd/fx/db_fx"
	"tripplan/cmd/fx/image_fx"
	"tripplan/cmd/fx/itinerary_fx"
	"tripplan/cmd/fx/knowledge_fx"
	"tripplan/cmd/fx/llm_fx"
	"tripplan/cmd/fx/logger_fx"
	"tripplan/internal/api/controllers"
	"tripplan/internal/config"
	"tripplan/pkg/middleware"
	"tripplan/pkg/utils"
)

func main() {
	app := fx.New(
		config_fx.Module,
		logger_fx.Module,
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger}
		}),
		db_fx.Module,
		llm_fx.Module,
		image_fx.Module,
		knowledge_fx.Module,
		itinerary_fx.Module,
		controllers_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, logger *zap.Logger) {
	server := &http.Server{
		Addr:              ":" + cfg.HTTP.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("starting HTTP server", zap.String("addr", server.Addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("failed to start server", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("stopping HTTP server")
			return server.Shutdown(ctx)
		},
	})
}

func ProvideRouter(
	cfg config.Config,
	logger *zap.Logger,
	itineraryController *controllers.ItineraryController) *gin.Engine {

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Auth.JWTSecret == "" {
		logger.Warn("JWT_SECRET is empty, every request will be rejected as unauthorized")
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r, cfg, itineraryController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	cfg config.Config,
	itineraryController *controllers.ItineraryController) {

	r.GET("/healthz", func(c *gin.Context) {
		utils.RespondSuccess(c, gin.H{"status": "ok"}, "healthy")
	})

	limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitPerMinute, cfg.HTTP.RateLimitPerMinute)

	itineraryGroup := r.Group("/api/v1/itineraries")
	itineraryGroup.Use(middleware.JWTAuthMiddleware([]byte(cfg.Auth.JWTSecret)))
	itineraryGroup.POST("/generate", limiter.Middleware(), itineraryController.GenerateItinerary)
	itineraryGroup.POST("/:planId/chunks", limiter.Middleware(), itineraryController.GenerateChunk)
	itineraryGroup.POST("/:planId/update", limiter.Middleware(), itineraryController.UpdateItinerary)
	itineraryGroup.GET("/:planId", itineraryController.GetItinerary)
	itineraryGroup.GET("", itineraryController.ListItineraries)
	itineraryGroup.DELETE("/:planId", itineraryController.DeleteItinerary)
}
