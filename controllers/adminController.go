package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/models"
)

// requireAdmin checks the caller's profile role. It writes the error
// response itself when the check fails.
func requireAdmin(c *gin.Context, ctx context.Context, userID primitive.ObjectID) bool {
	profile, err := profiles.Get(ctx, userID)
	if err != nil {
		respondServiceError(c, err)
		return false
	}
	if profile.Role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Administrator access required"})
		return false
	}
	return true
}

// ResolveIssue marks an issue resolved with an optional comment and proof
// image, and notifies the reporter.
func ResolveIssue(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Comment  string  `json:"comment,omitempty" binding:"omitempty,max=1000"`
		ImageURL *string `json:"image_url,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if !requireAdmin(c, ctx, userID) {
		return
	}

	if err := resolutions.Resolve(ctx, issueID, input.Comment, input.ImageURL); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue resolved"})
}

// SetIssueStatus moves an issue to open or in_progress, optionally recording
// an assignee.
func SetIssueStatus(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	var input struct {
		Status     string  `json:"status" binding:"required"`
		AssignedTo *string `json:"assigned_to,omitempty"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var assignedTo *primitive.ObjectID
	if input.AssignedTo != nil {
		id, err := primitive.ObjectIDFromHex(*input.AssignedTo)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee ID"})
			return
		}
		assignedTo = &id
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	if !requireAdmin(c, ctx, userID) {
		return
	}

	if err := resolutions.SetStatus(ctx, issueID, models.IssueStatus(input.Status), assignedTo); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Issue status updated"})
}
