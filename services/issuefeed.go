package services

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// FeedStatus selects which slice of the issue lifecycle a feed shows.
type FeedStatus string

const (
	FeedOpen     FeedStatus = "open"
	FeedResolved FeedStatus = "resolved"
	FeedAny      FeedStatus = "any"
)

const (
	defaultFeedLimit = 20
	maxFeedLimit     = 100
)

// FeedFilter describes one feed request. LocationPrefix scopes to a city by
// matching the front of the composed "<city>, <state>" label;
// LocationContains is the looser match used while browsing by state.
type FeedFilter struct {
	Status           FeedStatus
	LocationPrefix   string
	LocationContains string
	Search           string
	Limit            int64
}

// IssueFeed produces filtered, ordered, size-bounded views of the issues
// table. It holds no state of its own; each call is a single gateway read.
type IssueFeed struct {
	gw gateway.Gateway
}

func NewIssueFeed(gw gateway.Gateway) *IssueFeed {
	return &IssueFeed{gw: gw}
}

// ListIssues returns matching issues. Open feeds are ordered by upvote count
// descending, resolved feeds by resolution time descending. Ties keep the
// backend's natural order. No matches is an empty slice, not an error; on
// gateway failure callers should keep whatever they last loaded.
func (f *IssueFeed) ListIssues(ctx context.Context, filter FeedFilter) ([]models.Issue, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultFeedLimit
	}
	if limit > maxFeedLimit {
		limit = maxFeedLimit
	}

	q := gateway.Query{Limit: limit}

	switch filter.Status {
	case FeedResolved:
		q.Filters = append(q.Filters, gateway.Eq("status", models.Resolved))
		q.SortBy, q.SortDesc = "resolved_at", true
	case FeedAny:
		q.SortBy, q.SortDesc = "created_at", true
	default:
		q.Filters = append(q.Filters, gateway.Eq("status", models.Open))
		q.SortBy, q.SortDesc = "upvotes_count", true
	}

	if filter.LocationPrefix != "" {
		q.Filters = append(q.Filters, gateway.Filter{
			Field: "location_name", Kind: gateway.MatchPrefix, Value: filter.LocationPrefix,
		})
	} else if filter.LocationContains != "" {
		q.Filters = append(q.Filters, gateway.Filter{
			Field: "location_name", Kind: gateway.MatchContains, Value: filter.LocationContains,
		})
	}

	if filter.Search != "" {
		q.AnyOf = []gateway.Filter{
			{Field: "title", Kind: gateway.MatchContains, Value: filter.Search},
			{Field: "description", Kind: gateway.MatchContains, Value: filter.Search},
		}
	}

	var issues []models.Issue
	if err := f.gw.Query(ctx, gateway.TableIssues, q, &issues); err != nil {
		return nil, err
	}
	if issues == nil {
		issues = []models.Issue{}
	}
	return issues, nil
}

// GetIssue fetches a single issue by its identifier.
func (f *IssueFeed) GetIssue(ctx context.Context, id primitive.ObjectID) (models.Issue, error) {
	var issues []models.Issue
	q := gateway.Query{Filters: []gateway.Filter{gateway.Eq("_id", id)}, Limit: 1}
	if err := f.gw.Query(ctx, gateway.TableIssues, q, &issues); err != nil {
		return models.Issue{}, err
	}
	if len(issues) == 0 {
		return models.Issue{}, gateway.ErrNotFound
	}
	return issues[0], nil
}
