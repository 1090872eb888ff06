package bookings

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/shared/middleware"
)

// SetupBookingRoutes configures the booking page and its selection endpoints
func SetupBookingRoutes(rg *gin.RouterGroup, controller *Controller, corsOrigins []string) {
	booking := rg.Group("/book-event/:id")
	{
		booking.GET("/", controller.BookingPage)
		booking.POST("/clear", controller.ClearSelection)
		booking.POST("/confirm", controller.Confirm) // anonymous visitors are redirected to /login/
	}

	// Selection endpoints also answer JSON for the interactive seat map
	selection := booking.Group("")
	selection.Use(middleware.CORS(corsOrigins))
	{
		selection.POST("/toggle", controller.ToggleSeat)
		selection.GET("/summary", controller.Summary)
		selection.OPTIONS("/toggle", func(c *gin.Context) {})
	}

	confirmation := rg.Group("/order-confirmation")
	confirmation.Use(middleware.RequireAuth())
	{
		confirmation.GET("/", controller.OrderConfirmation)
	}
}

// Route definitions for reference:
//
// GET    /book-event/:id/          - seat map with the session's selection
// POST   /book-event/:id/toggle    - seat_id form field or {"seat_id": 12}
// GET    /book-event/:id/summary   - {"seats": [...], "summary": {...}}
// POST   /book-event/:id/clear     - empty the selection
// POST   /book-event/:id/confirm   - submit to /api/tickets/ and redirect
// GET    /order-confirmation/?tickets=101,102
