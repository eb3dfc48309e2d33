package controllers_fx

import (
	"go.uber.org/fx"
	"tripplan/internal/api/controllers"
)

var Module = fx.Options(
	fx.Provide(controllers.NewItineraryController))
