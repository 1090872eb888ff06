package adminlogs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	v "boxoffice/internal/views"
)

const pageTitle = "Admin Dashboard"

type Controller interface {
	ListLogs(c *gin.Context)
}

type controller struct {
	gw *gateway.Gateway
}

func NewController(gw *gateway.Gateway) Controller {
	return &controller{gw: gw}
}

func (ctrl *controller) ListLogs(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	if !sess.Authenticated() {
		c.Redirect(http.StatusFound, navigation.LoginPath)
		return
	}

	logs, err := NewService(ctrl.gw.WithStore(middleware.Store(c))).List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		switch {
		case gateway.IsSessionExpired(err):
			return
		case errors.Is(err, ErrForbidden):
			response.RenderPage(c, http.StatusForbidden, pageTitle, middleware.Links(c),
				v.Heading("Action Logs"), v.ErrorMessage("You do not have permission to view this page."))
		default:
			response.RenderPage(c, http.StatusBadGateway, pageTitle, middleware.Links(c),
				v.Heading("Action Logs"), v.ErrorMessage("Error loading logs."))
		}
		return
	}

	response.RenderPage(c, http.StatusOK, pageTitle, middleware.Links(c),
		v.Heading("Action Logs"), AdminLogs(logs))
}
