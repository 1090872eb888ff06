package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"boxoffice/internal/activity"
	"boxoffice/internal/gateway"
	"boxoffice/internal/navigation"
	"boxoffice/internal/selection"
	"boxoffice/internal/shared/middleware"
	"boxoffice/internal/shared/utils/response"
	"boxoffice/pkg/inflight"
	"boxoffice/pkg/logger"
)

type Controller struct {
	gw        *gateway.Gateway
	publisher activity.Publisher
	registry  *selection.Registry
	guard     *inflight.Guard
	log       *logger.Logger
}

func NewController(gw *gateway.Gateway, publisher activity.Publisher, registry *selection.Registry, guard *inflight.Guard, log *logger.Logger) *Controller {
	return &Controller{
		gw:        gw,
		publisher: publisher,
		registry:  registry,
		guard:     guard,
		log:       log,
	}
}

func (ctrl *Controller) service(c *gin.Context) Service {
	return NewService(ctrl.gw.WithStore(middleware.Store(c)), ctrl.log)
}

func (ctrl *Controller) LoginPage(c *gin.Context) {
	info := ""
	if c.Query("registered") != "" {
		info = "Registration successful! Please login."
	}
	response.RenderPage(c, http.StatusOK, "Login", middleware.Links(c), LoginForm("", "", info))
}

func (ctrl *Controller) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RenderPage(c, http.StatusBadRequest, "Login", middleware.Links(c),
			LoginForm(req.Username, "Invalid request", ""))
		return
	}

	result, err := ctrl.service(c).Login(c.Request.Context(), &req)
	if err != nil {
		status, msg := http.StatusBadGateway, "Unable to reach the server. Please try again."
		if errors.Is(err, ErrInvalidCredentials) {
			status, msg = http.StatusUnauthorized, "Invalid credentials"
		}
		ctrl.log.LogAuthFailure(c.Request.Context(), err.Error(), c.ClientIP())
		response.RenderPage(c, status, "Login", middleware.Links(c), LoginForm(req.Username, msg, ""))
		return
	}

	ctrl.publisher.Publish(c.Request.Context(),
		activity.NewAction(activity.ActionLogin, req.Username, "User logged in successfully").
			WithRequestID(middleware.RequestIDFrom(c)))

	c.Redirect(http.StatusSeeOther, result.LandingPath)
}

func (ctrl *Controller) RegisterPage(c *gin.Context) {
	response.RenderPage(c, http.StatusOK, "Register", middleware.Links(c), RegisterForm(RegisterRequest{}, ""))
}

func (ctrl *Controller) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		response.RenderPage(c, http.StatusBadRequest, "Register", middleware.Links(c),
			RegisterForm(req, "Invalid request"))
		return
	}

	// a double submit joins the first registration attempt. The shared call
	// may outlive this request, so it must not read c.
	svc, requestID := ctrl.service(c), middleware.RequestIDFrom(c)
	key := inflight.Key(middleware.SessionID(c), "register", req.Username)
	_, _, err := inflight.DoContext(c.Request.Context(), ctrl.guard, key, func(ctx context.Context) (struct{}, error) {
		if err := svc.Register(ctx, &req); err != nil {
			return struct{}{}, err
		}
		ctrl.publisher.Publish(ctx,
			activity.NewAction(activity.ActionRegister, req.Username, "Account created").
				WithRequestID(requestID))
		return struct{}{}, nil
	})
	if err != nil {
		status, msg := http.StatusBadGateway, "Registration failed."
		var verr *ValidationError
		if errors.As(err, &verr) {
			status, msg = http.StatusBadRequest, verr.Message
		}
		response.RenderPage(c, status, "Register", middleware.Links(c), RegisterForm(req, msg))
		return
	}

	c.Redirect(http.StatusSeeOther, navigation.LoginPath+"?registered=1")
}

func (ctrl *Controller) Logout(c *gin.Context) {
	userID := middleware.UserID(c)

	if err := ctrl.service(c).Logout(c.Request.Context()); err != nil {
		ctrl.log.ErrorWithContext(c.Request.Context(), "Failed to clear session", err, nil)
		response.RespondHTML(c, http.StatusServiceUnavailable, "Logout", "Logout failed. Please try again.")
		return
	}
	ctrl.registry.DropSession(middleware.SessionID(c))

	if userID != "" {
		ctrl.publisher.Publish(c.Request.Context(),
			activity.NewAction(activity.ActionLogout, "user:"+userID, "User logged out").
				WithRequestID(middleware.RequestIDFrom(c)))
	}

	c.Redirect(http.StatusSeeOther, navigation.HomePath)
}

// Me returns the current profile as JSON
func (ctrl *Controller) Me(c *gin.Context) {
	user, err := ctrl.service(c).Me(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		if gateway.IsSessionExpired(err) {
			return
		}
		response.RespondJSON(c, "error", http.StatusBadGateway, "Failed to load profile", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Profile retrieved successfully", user, nil)
}
