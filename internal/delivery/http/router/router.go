// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"rota/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	RouteHandler    *handler.RouteHandler
	GeofenceHandler *handler.GeofenceHandler
	CapacityHandler *handler.CapacityHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	routeHandler    *handler.RouteHandler
	geofenceHandler *handler.GeofenceHandler
	capacityHandler *handler.CapacityHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		routeHandler:    params.RouteHandler,
		geofenceHandler: params.GeofenceHandler,
		capacityHandler: params.CapacityHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Route planning
	routeGroup := e.Group("/routes")
	{
		routeGroup.POST("/tour", r.routeHandler.BuildTour)
		routeGroup.POST("/metrics", r.routeHandler.ComputeMetrics)
		routeGroup.POST("/arrivals", r.routeHandler.PredictArrivals)
		routeGroup.POST("/reoptimize", r.routeHandler.Reoptimize)
	}

	// Zone containment
	zoneGroup := e.Group("/zones")
	{
		zoneGroup.POST("/check", r.geofenceHandler.CheckZones)
	}

	// Cargo capacity
	capacityGroup := e.Group("/capacity")
	{
		capacityGroup.POST("/check", r.capacityHandler.CheckCapacity)
		capacityGroup.POST("/route", r.capacityHandler.CheckRouteCapacity)
	}
}
