package auth

import (
	"github.com/gin-gonic/gin"

	"boxoffice/internal/navigation"
	"boxoffice/internal/shared/middleware"
)

// Router handles auth-related routes
type Router struct {
	controller *Controller
}

// NewRouter creates a new auth router
func NewRouter(controller *Controller) *Router {
	return &Router{controller: controller}
}

// SetupRoutes registers all auth routes
func (authRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	// Public pages
	rg.GET(navigation.LoginPath, authRouter.controller.LoginPage)
	rg.POST(navigation.LoginPath, authRouter.controller.Login)
	rg.GET(RegisterPath, authRouter.controller.RegisterPage)
	rg.POST(RegisterPath, authRouter.controller.Register)

	// Logout is a form post from the nav bar; GET is kept for plain links
	rg.POST(navigation.LogoutPath, authRouter.controller.Logout)
	rg.GET(navigation.LogoutPath, authRouter.controller.Logout)

	protected := rg.Group("/account")
	protected.Use(middleware.RequireAuth())
	{
		protected.GET("/me", authRouter.controller.Me)
	}
}
