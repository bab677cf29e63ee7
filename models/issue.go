package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IssueCategory enum
type IssueCategory string

const (
	Roads        IssueCategory = "roads"
	Streetlights IssueCategory = "streetlights"
	Parks        IssueCategory = "parks"
	Toilets      IssueCategory = "toilets"
	Water        IssueCategory = "water"
	Electricity  IssueCategory = "electricity"
	Waste        IssueCategory = "waste"
	Other        IssueCategory = "other"
)

// Categories lists every valid issue category.
var Categories = []IssueCategory{
	Roads, Streetlights, Parks, Toilets, Water, Electricity, Waste, Other,
}

// Valid reports whether c is one of the enumerated categories.
func (c IssueCategory) Valid() bool {
	switch c {
	case Roads, Streetlights, Parks, Toilets, Water, Electricity, Waste, Other:
		return true
	}
	return false
}

// IssueStatus enum
type IssueStatus string

const (
	Open       IssueStatus = "open"
	InProgress IssueStatus = "in_progress"
	Resolved   IssueStatus = "resolved"
)

// Valid reports whether s is one of the enumerated statuses.
func (s IssueStatus) Valid() bool {
	switch s {
	case Open, InProgress, Resolved:
		return true
	}
	return false
}

// Issue represents a civic issue reported by a user
type Issue struct {
	ID                 primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title              string              `bson:"title" json:"title"`
	Description        string              `bson:"description" json:"description"`
	Category           IssueCategory       `bson:"category" json:"category"`
	Status             IssueStatus         `bson:"status" json:"status"`
	LocationName       string              `bson:"location_name" json:"location_name"`
	Latitude           *float64            `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64            `bson:"longitude,omitempty" json:"longitude,omitempty"`
	ImageURL           *string             `bson:"image_url,omitempty" json:"image_url,omitempty"`
	UpvotesCount       int64               `bson:"upvotes_count" json:"upvotes_count"`
	ReportedBy         primitive.ObjectID  `bson:"reported_by" json:"reported_by"`
	AssignedTo         *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
	ResolutionComment  *string             `bson:"resolution_comment,omitempty" json:"resolution_comment,omitempty"`
	ResolutionImageURL *string             `bson:"resolution_image_url,omitempty" json:"resolution_image_url,omitempty"`
	CreatedAt          time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt          time.Time           `bson:"updated_at" json:"updated_at"`
	ResolvedAt         *time.Time          `bson:"resolved_at,omitempty" json:"resolved_at,omitempty"`
}

// ResolutionTime returns how long the issue took to resolve, formatted as
// "3d 4h" (or "4h" for same-day resolutions). Empty when not yet resolved.
func (i *Issue) ResolutionTime() string {
	if i.ResolvedAt == nil {
		return ""
	}
	d := i.ResolvedAt.Sub(i.CreatedAt)
	if d < 0 {
		d = 0
	}
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	return fmt.Sprintf("%dh", hours)
}
