package controllers

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"civicpulse-be/config"
	"civicpulse-be/gateway"
	"civicpulse-be/models"
	"civicpulse-be/services"
)

// feedIssue decorates an issue with the derived resolution time for the
// resolved-history view.
type feedIssue struct {
	models.Issue
	ResolutionTime string `json:"resolution_time,omitempty"`
}

// ListIssues handles the feed: open issues ordered by upvotes, or resolved
// issues ordered by most recently resolved. City browsing matches the front
// of the "<city>, <state>" label; state browsing matches anywhere in it.
func ListIssues(c *gin.Context) {
	wireServices()

	status := services.FeedStatus(c.DefaultQuery("status", "open"))
	city := c.Query("city")
	state := c.Query("state")
	search := c.Query("q")
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)

	filter := services.FeedFilter{
		Status: status,
		Search: search,
		Limit:  limit,
	}
	if city != "" {
		filter.LocationPrefix = city + ","
	} else if state != "" {
		filter.LocationContains = state
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	issues, err := feed.ListIssues(ctx, filter)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := make([]feedIssue, 0, len(issues))
	for _, issue := range issues {
		response = append(response, feedIssue{Issue: issue, ResolutionTime: issue.ResolutionTime()})
	}
	c.JSON(http.StatusOK, gin.H{"issues": response})
}

// GetIssue retrieves a single issue by its ID
func GetIssue(c *gin.Context) {
	wireServices()

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

	c.JSON(http.StatusOK, feedIssue{Issue: issue, ResolutionTime: issue.ResolutionTime()})
}

// CreateIssue runs the submission pipeline: validate, upload the photo when
// one is attached, insert with status open.
func CreateIssue(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var form services.ReportForm
	if err := c.ShouldBind(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var image *services.ImageAttachment
	if header, err := c.FormFile("image"); err == nil {
		file, err := header.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read image"})
			return
		}
		image = &services.ImageAttachment{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	pipeline := services.NewSubmissionPipeline(gw, config.ConnectObjectStorage(), config.ImageBucket())
	result, err := pipeline.Submit(ctx, form, userID, image)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	response := gin.H{"issue": result.Issue}
	if result.ImageWarning != "" {
		response["warning"] = result.ImageWarning
	}
	c.JSON(http.StatusCreated, response)
}

// MyIssues retrieves all issues reported by the authenticated user
func MyIssues(c *gin.Context) {
	wireServices()

	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	q := gateway.Query{
		Filters:  []gateway.Filter{gateway.Eq("reported_by", userID)},
		SortBy:   "created_at",
		SortDesc: true,
	}
	var issues []models.Issue
	if err := gw.Query(ctx, gateway.TableIssues, q, &issues); err != nil {
		respondServiceError(c, err)
		return
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	c.JSON(http.StatusOK, gin.H{"issues": issues})
}

// RecentIssues returns the most recent issues that carry coordinates, for
// the map view.
func RecentIssues(c *gin.Context) {
	wireServices()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	q := gateway.Query{
		Filters: []gateway.Filter{
			{Field: "latitude", Kind: gateway.MatchExists},
			{Field: "longitude", Kind: gateway.MatchExists},
		},
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    19,
	}
	var issues []models.Issue
	if err := gw.Query(ctx, gateway.TableIssues, q, &issues); err != nil {
		respondServiceError(c, err)
		return
	}

	type pin struct {
		ID           string               `json:"id"`
		Title        string               `json:"title"`
		Latitude     float64              `json:"latitude"`
		Longitude    float64              `json:"longitude"`
		LocationName string               `json:"location_name"`
		Category     models.IssueCategory `json:"category"`
		CreatedAt    time.Time            `json:"created_at"`
	}

	pins := make([]pin, 0, len(issues))
	for _, issue := range issues {
		if issue.Latitude == nil || issue.Longitude == nil {
			continue
		}
		pins = append(pins, pin{
			ID:           issue.ID.Hex(),
			Title:        issue.Title,
			Latitude:     *issue.Latitude,
			Longitude:    *issue.Longitude,
			LocationName: issue.LocationName,
			Category:     issue.Category,
			CreatedAt:    issue.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, pins)
}

// IssueStats returns headline counts for the dashboard
func IssueStats(c *gin.Context) {
	wireServices()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	total, err := gw.Count(ctx, gateway.TableIssues, nil)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	byStatus := gin.H{}
	for _, status := range []models.IssueStatus{models.Open, models.InProgress, models.Resolved} {
		count, err := gw.Count(ctx, gateway.TableIssues, []gateway.Filter{gateway.Eq("status", status)})
		if err != nil {
			count = 0
		}
		byStatus[string(status)] = count
	}

	byCategory := gin.H{}
	for _, category := range models.Categories {
		count, err := gw.Count(ctx, gateway.TableIssues, []gateway.Filter{gateway.Eq("category", category)})
		if err != nil {
			count = 0
		}
		byCategory[string(category)] = count
	}

	totalUpvotes, err := gw.Count(ctx, gateway.TableUpvotes, nil)
	if err != nil {
		totalUpvotes = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"total_issues":  total,
		"by_status":     byStatus,
		"by_category":   byCategory,
		"total_upvotes": totalUpvotes,
	})
}
