package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ListComments returns an issue's comments, oldest first
func ListComments(c *gin.Context) {
	wireServices()

	issueID, ok := issueIDParam(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	list, err := comments.List(ctx, issueID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": list})
}

// AddComment appends a comment to an issue
func AddComment(c *gin.Context) {
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
		Content string `json:"content" binding:"required,max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	comment, err := comments.Add(ctx, issueID, userID, input.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
