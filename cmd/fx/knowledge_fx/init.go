package knowledge_fx

import (
	"go.uber.org/fx"
	"tripplan/internal/services"
)

var Module = fx.Provide(services.NewKnowledgeService)
