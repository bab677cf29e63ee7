package controllers

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/config"
	"civicpulse-be/gateway"
	"civicpulse-be/services"
)

// Shared gateway and services, wired on first use so that importing this
// package never dials the database; config comes from the environment, which
// main loads from .env before serving. The auth middleware supplies identity
// per request; nothing here reads it ambiently.
var (
	wireOnce      sync.Once
	gw            gateway.Gateway
	feed          *services.IssueFeed
	notifications *services.NotificationService
	comments      *services.CommentService
	profiles      *services.ProfileService
	resolutions   *services.ResolutionService
)

func wireServices() {
	wireOnce.Do(func() {
		gw = gateway.NewMongoGateway(config.ConnectDB())
		feed = services.NewIssueFeed(gw)
		notifications = services.NewNotificationService(gw)
		comments = services.NewCommentService(gw)
		profiles = services.NewProfileService(gw)
		resolutions = services.NewResolutionService(gw, notifications)
	})
}

// currentUserID extracts the authenticated identity set by the auth
// middleware. It writes the error response itself when identity is missing.
func currentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}

	id, err := primitive.ObjectIDFromHex(userID.(string))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// issueIDParam parses the :id route parameter.
func issueIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid issue ID"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// respondServiceError maps the service error taxonomy onto HTTP statuses.
func respondServiceError(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Validation failed", "fields": verr.Fields})
	case errors.Is(err, services.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	case errors.Is(err, services.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "A submission is already in progress"})
	case errors.Is(err, gateway.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Already upvoted"})
	case errors.Is(err, gateway.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, gateway.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service temporarily unavailable, please try again"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
	}
}
