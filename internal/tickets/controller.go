package tickets

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/gateway"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	v "boxoffice/internal/views"
)

type Controller interface {
	MyOrders(c *gin.Context)
}

type controller struct {
	gw *gateway.Gateway
}

func NewController(gw *gateway.Gateway) Controller {
	return &controller{gw: gw}
}

func (ctrl *controller) service(c *gin.Context) Service {
	return NewService(ctrl.gw.WithStore(middleware.Store(c)))
}

func (ctrl *controller) MyOrders(c *gin.Context) {
	tickets, err := ctrl.service(c).List(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if gateway.IsSessionExpired(err) {
			return
		}
		response.RenderPage(c, http.StatusBadGateway, "My Orders", middleware.Links(c),
			v.Heading("My Orders"), v.ErrorMessage("Error loading orders."))
		return
	}

	response.RenderPage(c, http.StatusOK, "My Orders", middleware.Links(c),
		v.Heading("My Orders"), OrderHistory(tickets))
}
