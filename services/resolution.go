package services

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// ResolutionService is the administrative path that moves an issue through
// its lifecycle. Resolving an issue sets resolved_at together with the status
// flip (the two are never out of step) and fans out a notification to the
// reporter.
type ResolutionService struct {
	gw            gateway.Gateway
	notifications *NotificationService
}

func NewResolutionService(gw gateway.Gateway, notifications *NotificationService) *ResolutionService {
	return &ResolutionService{gw: gw, notifications: notifications}
}

// SetStatus moves an issue to in_progress or back to open, optionally
// recording an assignee.
func (s *ResolutionService) SetStatus(ctx context.Context, issueID primitive.ObjectID, status models.IssueStatus, assignedTo *primitive.ObjectID) error {
	if status == models.Resolved {
		return s.Resolve(ctx, issueID, "", nil)
	}
	if !status.Valid() {
		return &ValidationError{Fields: []FieldError{
			{Field: "status", Message: "must be a valid status"},
		}}
	}

	set := map[string]interface{}{
		"status":     status,
		"updated_at": time.Now(),
	}
	if assignedTo != nil {
		set["assigned_to"] = *assignedTo
	}

	modified, err := s.gw.Update(ctx, gateway.TableIssues,
		[]gateway.Filter{gateway.Eq("_id", issueID)}, gateway.Patch{Set: set})
	if err != nil {
		return err
	}
	if modified == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// Resolve marks an issue resolved with an optional comment and proof image,
// then notifies the reporter.
func (s *ResolutionService) Resolve(ctx context.Context, issueID primitive.ObjectID, comment string, imageURL *string) error {
	now := time.Now()
	set := map[string]interface{}{
		"status":      models.Resolved,
		"resolved_at": now,
		"updated_at":  now,
	}
	if comment != "" {
		set["resolution_comment"] = comment
	}
	if imageURL != nil {
		set["resolution_image_url"] = *imageURL
	}

	modified, err := s.gw.Update(ctx, gateway.TableIssues,
		[]gateway.Filter{gateway.Eq("_id", issueID)}, gateway.Patch{Set: set})
	if err != nil {
		return err
	}
	if modified == 0 {
		return gateway.ErrNotFound
	}

	var issues []models.Issue
	q := gateway.Query{Filters: []gateway.Filter{gateway.Eq("_id", issueID)}, Limit: 1}
	if err := s.gw.Query(ctx, gateway.TableIssues, q, &issues); err != nil || len(issues) == 0 {
		log.Printf("resolved issue %s but could not load it for notification: %v", issueID.Hex(), err)
		return nil
	}
	if err := s.notifications.NotifyResolved(ctx, issues[0]); err != nil {
		log.Printf("failed to notify reporter of resolved issue %s: %v", issueID.Hex(), err)
	}
	return nil
}
