package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Setting holds city-wide tunables maintained by administrators.
type Setting struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UpvoteThreshold      int64              `bson:"upvote_threshold" json:"upvote_threshold"`
	NotificationRadiusKm float64            `bson:"notification_radius_km" json:"notification_radius_km"`
	CreatedAt            time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt            time.Time          `bson:"updated_at" json:"updated_at"`
}
