package controllers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ListNotifications returns the user's notifications, newest first, with the
// unread count alongside.
func ListNotifications(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := notifications.List(ctx, userID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	unread, err := notifications.UnreadCount(ctx, userID)
	if err != nil {
		unread = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"notifications": list,
		"unread_count":  unread,
	})
}

// MarkNotificationRead flips one notification to read
func MarkNotificationRead(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	notificationID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if err := notifications.MarkRead(ctx, notificationID, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllNotificationsRead flips every unread notification for the user
func MarkAllNotificationsRead(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	modified, err := notifications.MarkAllRead(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":  "All notifications marked as read",
		"modified": modified,
	})
}
