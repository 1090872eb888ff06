package adminlogs

import (
	"github.com/gin-gonic/gin"
)

func SetupAdminLogRoutes(router *gin.RouterGroup, controller Controller) {
	router.GET("/admin-logs/", controller.ListLogs)
}
