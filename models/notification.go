package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types created by the backend when issues change state.
const (
	NotificationIssueResolved = "issue_resolved"
	NotificationIssueUpdated  = "issue_updated"
)

// Notification is an in-app message for a user, optionally tied to an issue.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Title     string              `bson:"title" json:"title"`
	Message   string              `bson:"message" json:"message"`
	Type      string              `bson:"type" json:"type"`
	Read      bool                `bson:"read" json:"read"`
	IssueID   *primitive.ObjectID `bson:"issue_id,omitempty" json:"issue_id,omitempty"`
	CreatedAt time.Time           `bson:"created_at" json:"created_at"`
}
