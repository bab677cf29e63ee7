package routes

import (
	"civicpulse-be/controllers"
	"civicpulse-be/middlewares"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the issue feed, submission and moderation routes.
func IssueRoutes(r *gin.Engine) {
	issues := r.Group("/api/issues")
	{
		issues.GET("", controllers.ListIssues)
		issues.GET("/recent", controllers.RecentIssues)
		issues.GET("/stats", controllers.IssueStats)
		issues.GET("/:id", controllers.GetIssue)
		issues.GET("/:id/comments", controllers.ListComments)

		issues.POST("", middlewares.AuthMiddleware(), middlewares.IssueRateLimiter(10), controllers.CreateIssue)
		issues.POST("/:id/upvote", middlewares.AuthMiddleware(), controllers.ToggleUpvote)
		issues.POST("/:id/comments", middlewares.AuthMiddleware(), controllers.AddComment)
		issues.POST("/:id/resolve", middlewares.AuthMiddleware(), controllers.ResolveIssue)
		issues.PATCH("/:id/status", middlewares.AuthMiddleware(), controllers.SetIssueStatus)
	}
}
