package main

import (
	"context"
	"log/slog"
	"os"

	"rota/config"
	"rota/internal/delivery"
	"rota/internal/delivery/http"
	"rota/internal/delivery/http/middleware"
	"rota/internal/delivery/http/router/handler"
	logs "rota/internal/infra/log"
	"rota/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		plannerConfig,
	)
}

// plannerConfig exposes the planner section as its own dependency.
func plannerConfig(cfg *config.Config) *config.PlannerConfig {
	return cfg.Planner
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewTourService,
			impl.NewMetricsService,
			impl.NewEtaService,
			impl.NewReoptimizationService,
			impl.NewGeofenceService,
			impl.NewCapacityService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewErrorMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewRouteHandler,
			handler.NewGeofenceHandler,
			handler.NewCapacityHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
