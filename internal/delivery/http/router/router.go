// Package router contains routing setup for the HTTP delivery.
package router

import (
	"agrinet/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	FarmerHandler       *handler.FarmerHandler
	AlertHandler        *handler.AlertHandler
	NotificationHandler *handler.NotificationHandler
	LocationHandler     *handler.LocationHandler
	DashboardHandler    *handler.DashboardHandler
}

// router holds all the handlers that need to be registered.
type router struct {
	farmers       *handler.FarmerHandler
	alerts        *handler.AlertHandler
	notifications *handler.NotificationHandler
	locations     *handler.LocationHandler
	dashboards    *handler.DashboardHandler
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		farmers:       params.FarmerHandler,
		alerts:        params.AlertHandler,
		notifications: params.NotificationHandler,
		locations:     params.LocationHandler,
		dashboards:    params.DashboardHandler,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Disease reports fan out alerts to similar farmers.
	e.POST("/reports", r.alerts.ReportDisease)

	// Network-wide views
	e.GET("/stats", r.dashboards.Stats)
	e.GET("/farmers/nearby", r.locations.Nearby)

	farmerGroup := e.Group("/farmers")
	{
		farmerGroup.POST("", r.farmers.Register)
		farmerGroup.GET("/:id", r.farmers.Get)
		farmerGroup.GET("/:id/share-card", r.farmers.ShareCard)
		farmerGroup.GET("/:id/similar", r.dashboards.Similar)
		farmerGroup.GET("/:id/dashboard", r.dashboards.Get)

		farmerGroup.PUT("/:id/location", r.locations.Update)
		farmerGroup.GET("/:id/location", r.locations.Get)

		farmerGroup.GET("/:id/alerts", r.alerts.List)
		farmerGroup.POST("/:id/alerts/:alertID/read", r.alerts.MarkRead)
		farmerGroup.DELETE("/:id/alerts/:alertID", r.alerts.Dismiss)

		farmerGroup.GET("/:id/notifications", r.notifications.List)
		farmerGroup.GET("/:id/notifications/unread-count", r.notifications.UnreadCount)
		farmerGroup.POST("/:id/notifications/:notificationID/read", r.notifications.MarkRead)
		farmerGroup.POST("/:id/notifications/read-all", r.notifications.MarkAllRead)
		farmerGroup.GET("/:id/preferences", r.notifications.GetPreferences)
		farmerGroup.PUT("/:id/preferences", r.notifications.SetPreferences)
	}
}
