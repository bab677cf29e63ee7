package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// UserRoutes sets up the routes scoped to the authenticated user, plus the
// public app settings endpoint.
func UserRoutes(r *gin.Engine) {
	me := r.Group("/api/me", middlewares.AuthMiddleware())
	{
		me.GET("/issues", controllers.MyIssues)
		me.GET("/upvotes", controllers.MyUpvotes)
		me.GET("/profile", controllers.GetProfile)
		me.PUT("/profile", controllers.UpdateProfile)
	}

	r.GET("/api/settings", controllers.GetSettings)
}
