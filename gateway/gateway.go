// Package gateway defines the remote data gateway the application core talks
// to: table-scoped reads and mutations plus object storage. Everything
// durable lives behind this interface.
package gateway

import (
	"context"
	"errors"
)

// Table names consumed by the application.
const (
	TableIssues        = "issues"
	TableUpvotes       = "upvotes"
	TableNotifications = "notifications"
	TableComments      = "comments"
	TableProfiles      = "profiles"
	TableSettings      = "settings"
	TableUsers         = "users"
)

var (
	// ErrUnavailable covers network, timeout and server failures. Callers
	// surface it and keep whatever they already loaded; nothing retries
	// automatically.
	ErrUnavailable = errors.New("remote backend unavailable")
	// ErrConflict is returned when an insert collides with an existing
	// record, e.g. a second upvote for the same (issue, user) pair.
	ErrConflict = errors.New("record already exists")
	// ErrNotFound is returned by updates and lookups that match no record.
	ErrNotFound = errors.New("record not found")
)

// MatchKind selects how a filter value is compared.
type MatchKind string

const (
	MatchEqual    MatchKind = "eq"
	MatchPrefix   MatchKind = "prefix"   // case-insensitive
	MatchContains MatchKind = "contains" // case-insensitive
	MatchExists   MatchKind = "exists"   // field present and non-null
)

// Filter matches a single field.
type Filter struct {
	Field string
	Kind  MatchKind
	Value interface{}
}

// Eq is shorthand for an equality filter.
func Eq(field string, value interface{}) Filter {
	return Filter{Field: field, Kind: MatchEqual, Value: value}
}

// Query describes a single table read. Filters are ANDed together; AnyOf
// filters are ORed with each other (used for title/description search).
type Query struct {
	Filters  []Filter
	AnyOf    []Filter
	SortBy   string
	SortDesc bool
	Limit    int64
}

// Patch describes a single-record mutation: field sets plus integer
// increments, applied together in one remote call.
type Patch struct {
	Set map[string]interface{}
	Inc map[string]int64
}

// Gateway is the query/mutation surface of the managed backend.
type Gateway interface {
	// Query reads matching rows into out (a pointer to a slice). No rows is
	// an empty result, not an error.
	Query(ctx context.Context, table string, q Query, out interface{}) error
	// Insert stores a record and returns its assigned identifier.
	Insert(ctx context.Context, table string, record interface{}) (string, error)
	// Update patches every record matching filters and reports how many
	// records changed.
	Update(ctx context.Context, table string, filters []Filter, patch Patch) (int64, error)
	// Delete removes every record matching filters.
	Delete(ctx context.Context, table string, filters []Filter) error
	// Count counts records matching filters.
	Count(ctx context.Context, table string, filters []Filter) (int64, error)
}

// ObjectStore is the object-storage surface of the managed backend.
type ObjectStore interface {
	UploadObject(ctx context.Context, bucket, path string, data []byte, contentType string) error
	PublicURL(bucket, path string) string
}
