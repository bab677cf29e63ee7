package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"civicpulse-be/gateway"
	"civicpulse-be/services"
)

// ToggleUpvote adds or removes the authenticated user's upvote on an issue.
// The response carries the post-toggle state the caller should display.
func ToggleUpvote(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issue, err := feed.GetIssue(ctx, issueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	tracker := services.NewUpvoteTracker(gw)
	if err := tracker.LoadUserUpvotes(ctx, userID); err != nil {
		respondServiceError(c, err)
		return
	}
	tracker.SeedCounter(issueID, issue.UpvotesCount)

	result, err := tracker.ToggleUpvote(ctx, issueID, userID)
	if err != nil {
		// Duplicate insert from another tab: report the state as upvoted
		// rather than failing the request.
		if errors.Is(err, gateway.ErrConflict) {
			c.JSON(http.StatusOK, gin.H{
				"message":       "Already upvoted",
				"upvoted":       result.Upvoted,
				"upvotes_count": result.Count,
			})
			return
		}
		respondServiceError(c, err)
		return
	}

	message := "Upvote added"
	if !result.Upvoted {
		message = "Upvote removed"
	}
	c.JSON(http.StatusOK, gin.H{
		"message":       message,
		"upvoted":       result.Upvoted,
		"upvotes_count": result.Count,
	})
}

// MyUpvotes returns the issue IDs the authenticated user has upvoted, so
// views can mark buttons without extra per-issue reads.
func MyUpvotes(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	tracker := services.NewUpvoteTracker(gw)
	if err := tracker.LoadUserUpvotes(ctx, userID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"issue_ids": tracker.UpvotedIssueIDs()})
}
