package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AppRole enum
type AppRole string

const (
	RoleCitizen AppRole = "citizen"
	RoleAdmin   AppRole = "admin"
)

// Profile carries the public-facing attributes of a user account.
// Points and verification are awarded by the backend, never by the client.
type Profile struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	FullName   *string            `bson:"full_name,omitempty" json:"full_name,omitempty"`
	Phone      *string            `bson:"phone,omitempty" json:"phone,omitempty"`
	Role       AppRole            `bson:"role" json:"role"`
	Points     int64              `bson:"points" json:"points"`
	IsVerified bool               `bson:"is_verified" json:"is_verified"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}
