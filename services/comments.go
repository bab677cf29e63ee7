package services

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// CommentService reads and appends issue comments.
type CommentService struct {
	gw gateway.Gateway
}

func NewCommentService(gw gateway.Gateway) *CommentService {
	return &CommentService{gw: gw}
}

// List returns an issue's comments, oldest first.
func (s *CommentService) List(ctx context.Context, issueID primitive.ObjectID) ([]models.Comment, error) {
	q := gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("issue_id", issueID)},
		SortBy:  "created_at",
	}

	var comments []models.Comment
	if err := s.gw.Query(ctx, gateway.TableComments, q, &comments); err != nil {
		return nil, err
	}
	if comments == nil {
		comments = []models.Comment{}
	}
	return comments, nil
}

// Add appends a comment for the authenticated user.
func (s *CommentService) Add(ctx context.Context, issueID, userID primitive.ObjectID, content string) (models.Comment, error) {
	if userID.IsZero() {
		return models.Comment{}, ErrNotAuthenticated
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Comment{}, &ValidationError{Fields: []FieldError{
			{Field: "content", Message: "must not be empty"},
		}}
	}

	comment := models.Comment{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		UserID:    userID,
		Content:   content,
		CreatedAt: time.Now(),
	}
	if _, err := s.gw.Insert(ctx, gateway.TableComments, comment); err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}
