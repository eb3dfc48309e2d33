package itinerary_fx

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplan/internal/config"
	"tripplan/internal/services"
)

var Module = fx.Provide(
	ProvideItineraryService,
	services.NewTravelPlanService,
)

func ProvideItineraryService(
	builder *services.PromptBuilder,
	gateway services.ModelGatewayInterface,
	images services.ImageResolverInterface,
	cfg config.Config,
	logger *zap.Logger,
) services.ItineraryServiceInterface {
	return services.NewItineraryService(builder, gateway, images, services.ItineraryConfig{
		MaxOutputTokens: cfg.LLM.MaxOutputTokens,
		Temperature:     cfg.LLM.Temperature,
	}, logger)
}
