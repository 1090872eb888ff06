package events

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupEventRoutes(router *gin.RouterGroup, controller Controller) {
	// Public pages - anyone can browse events
	router.GET("/", controller.Home)
	router.GET("/event/:id/", controller.GetEvent)

	// Organizer dashboard - NavGuard sends everyone else away from /organizer/
	organizer := router.Group("/organizer")
	organizer.Use(middleware.RequireAuth())
	{
		organizer.GET("/", controller.Dashboard)
		organizer.GET("/preview", controller.PreviewSeats)           // JSON seat split for the creation form
		organizer.POST("/events", controller.CreateEvent)            // multipart creation form
		organizer.POST("/events/:id/delete", controller.DeleteEvent) // form button on each card
	}
}
