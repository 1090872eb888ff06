package analytics

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/gateway"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/pkg/logger"
)

// Controller defines the analytics controller interface
type Controller interface {
	// GetSummary answers the dashboard's refresh with the organizer's figures
	GetSummary(c *gin.Context)
}

// controller implements the Controller interface
type controller struct {
	gw  *gateway.Gateway
	log *logger.Logger
}

// NewController creates a new analytics controller instance
func NewController(gw *gateway.Gateway, log *logger.Logger) Controller {
	return &controller{gw: gw, log: log}
}

func (ctrl *controller) GetSummary(c *gin.Context) {
	svc := NewService(ctrl.gw.WithStore(middleware.Store(c)), ctrl.log)

	summary, err := svc.Get(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if gateway.IsSessionExpired(err) {
			return
		}
		status := http.StatusBadGateway
		if gateway.IsHTTPStatus(err, http.StatusForbidden) {
			status = http.StatusForbidden
		}
		response.RespondJSON(c, "error", status, "Failed to load analytics", nil, err.Error())
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Analytics retrieved successfully", summary, nil)
}
