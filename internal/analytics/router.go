package analytics

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

func SetupAnalyticsRoutes(rg *gin.RouterGroup, controller Controller) {
	// Organizer only: NavGuard already keeps other roles out of /organizer/
	organizer := rg.Group("/organizer")
	organizer.Use(middleware.RequireAuth())

	organizer.GET("/analytics", controller.GetSummary)
}
