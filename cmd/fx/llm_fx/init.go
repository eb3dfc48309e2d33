package llm_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplan/internal/config"
	"tripplan/internal/services"
	"tripplan/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextGenerator,
	ProvideEmbeddingClient,
	services.NewPromptBuilder,
	ProvideModelGateway,
)

func ProvideTextGenerator(lc fx.Lifecycle, cfg config.Config, logger *zap.Logger) (utils.TextGenerator, error) {
	logger.Info("initializing text generator",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	generator, err := utils.NewTextGenerator(cfg.LLM.Provider, cfg.LLM.APIKey, cfg.LLM.Model, cfg.LLM.BaseURL)
	if err != nil {
		return nil, err
	}
	if gemini, ok := generator.(*utils.GeminiClient); ok {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return gemini.Close()
			},
		})
	}
	return generator, nil
}

func ProvideEmbeddingClient(cfg config.Config, logger *zap.Logger) (utils.EmbeddingClientInterface, error) {
	logger.Info("initializing embedding client", zap.String("provider", cfg.Embedding.Provider))
	return utils.NewEmbeddingClient(cfg.Embedding.Provider, cfg.Embedding.APIKey, cfg.Embedding.Model, cfg.Embedding.BaseURL)
}

func ProvideModelGateway(
	generator utils.TextGenerator,
	builder *services.PromptBuilder,
	cfg config.Config,
	logger *zap.Logger,
) services.ModelGatewayInterface {
	return services.NewModelGateway(generator, builder, services.GatewayConfig{
		Timeout:         cfg.LLM.Timeout,
		RepairTimeout:   cfg.LLM.RepairTimeout,
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
	}, logger)
}
