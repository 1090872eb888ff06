package tickets

import (
	"github.com/gin-gonic/gin"
)

func SetupTicketRoutes(router *gin.RouterGroup, controller Controller) {
	// Guarded by NavGuard: anonymous visitors are sent to /login/
	router.GET("/my-orders/", controller.MyOrders)
}
