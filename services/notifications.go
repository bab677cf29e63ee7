package services

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

const defaultNotificationLimit = 20

// NotificationService reads a user's notifications and flips their read
// flags. Creation happens on the backend side of the fence (see
// ResolutionService); the client never fabricates notifications for itself.
type NotificationService struct {
	gw gateway.Gateway
}

func NewNotificationService(gw gateway.Gateway) *NotificationService {
	return &NotificationService{gw: gw}
}

// List returns the user's notifications, newest first.
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	q := gateway.Query{
		Filters:  []gateway.Filter{gateway.Eq("user_id", userID)},
		SortBy:   "created_at",
		SortDesc: true,
		Limit:    limit,
	}

	var notifications []models.Notification
	if err := s.gw.Query(ctx, gateway.TableNotifications, q, &notifications); err != nil {
		return nil, err
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}
	return notifications, nil
}

// UnreadCount counts the user's unread notifications.
func (s *NotificationService) UnreadCount(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	return s.gw.Count(ctx, gateway.TableNotifications, []gateway.Filter{
		gateway.Eq("user_id", userID),
		gateway.Eq("read", false),
	})
}

// MarkRead flips one notification to read, scoped to the owning user.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, userID primitive.ObjectID) error {
	filters := []gateway.Filter{
		gateway.Eq("_id", notificationID),
		gateway.Eq("user_id", userID),
	}
	modified, err := s.gw.Update(ctx, gateway.TableNotifications, filters, gateway.Patch{
		Set: map[string]interface{}{"read": true},
	})
	if err != nil {
		return err
	}
	if modified == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification for the user and reports how
// many changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	filters := []gateway.Filter{
		gateway.Eq("user_id", userID),
		gateway.Eq("read", false),
	}
	return s.gw.Update(ctx, gateway.TableNotifications, filters, gateway.Patch{
		Set: map[string]interface{}{"read": true},
	})
}

// NotifyResolved tells an issue's reporter that their report was resolved.
func (s *NotificationService) NotifyResolved(ctx context.Context, issue models.Issue) error {
	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		UserID:    issue.ReportedBy,
		Title:     "Your issue was resolved",
		Message:   fmt.Sprintf("%q has been marked as resolved.", issue.Title),
		Type:      models.NotificationIssueResolved,
		Read:      false,
		IssueID:   &issue.ID,
		CreatedAt: time.Now(),
	}
	_, err := s.gw.Insert(ctx, gateway.TableNotifications, notification)
	return err
}
