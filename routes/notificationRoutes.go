package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// NotificationRoutes sets up the notification inbox routes.
func NotificationRoutes(r *gin.Engine) {
	n := r.Group("/api/notifications", middlewares.AuthMiddleware())
	{
		n.GET("", controllers.ListNotifications)
		n.POST("/:id/read", controllers.MarkNotificationRead)
		n.POST("/read-all", controllers.MarkAllNotificationsRead)
	}
}
