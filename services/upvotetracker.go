package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// UpvoteTracker keeps the set of issues the current user has upvoted and the
// per-issue counters a view displays. Local state flips only after the remote
// mutation succeeds; a failed call leaves set and counters exactly as they
// were, so the UI shows latency rather than a flicker-and-revert.
type UpvoteTracker struct {
	gw gateway.Gateway

	mu       sync.Mutex
	upvoted  map[string]bool
	counters map[string]int64
}

// ToggleResult reports the post-toggle local state for the touched issue.
type ToggleResult struct {
	Upvoted bool  `json:"upvoted"`
	Count   int64 `json:"upvotes_count"`
}

func NewUpvoteTracker(gw gateway.Gateway) *UpvoteTracker {
	return &UpvoteTracker{
		gw:       gw,
		upvoted:  make(map[string]bool),
		counters: make(map[string]int64),
	}
}

// LoadUserUpvotes populates the membership set from the remote store. Views
// call this on mount; skipping it leaves the tracker believing nothing has
// been upvoted yet.
func (t *UpvoteTracker) LoadUserUpvotes(ctx context.Context, userID primitive.ObjectID) error {
	var rows []models.Upvote
	q := gateway.Query{Filters: []gateway.Filter{gateway.Eq("user_id", userID)}}
	if err := t.gw.Query(ctx, gateway.TableUpvotes, q, &rows); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.upvoted = make(map[string]bool, len(rows))
	for _, row := range rows {
		t.upvoted[row.IssueID.Hex()] = true
	}
	return nil
}

// SeedCounter records the counter a view fetched for an issue, so toggles
// adjust the number the user is actually looking at.
func (t *UpvoteTracker) SeedCounter(issueID primitive.ObjectID, count int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counters[issueID.Hex()] = count
}

// HasUpvoted reports membership for an issue.
func (t *UpvoteTracker) HasUpvoted(issueID primitive.ObjectID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.upvoted[issueID.Hex()]
}

// Counter returns the displayed counter for an issue.
func (t *UpvoteTracker) Counter(issueID primitive.ObjectID) int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.counters[issueID.Hex()]
}

// UpvotedIssueIDs returns the hex ids currently in the membership set.
func (t *UpvoteTracker) UpvotedIssueIDs() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	ids := make([]string, 0, len(t.upvoted))
	for id := range t.upvoted {
		ids = append(ids, id)
	}
	return ids
}

// ToggleUpvote adds the user's upvote if absent, removes it if present. Two
// successful toggles in a row net out to the original state. A duplicate
// insert reported by the backend means another tab got there first; the
// membership is recorded, the counter is left alone, and the conflict is
// surfaced as a recoverable error.
func (t *UpvoteTracker) ToggleUpvote(ctx context.Context, issueID, userID primitive.ObjectID) (ToggleResult, error) {
	if userID.IsZero() {
		return ToggleResult{}, ErrNotAuthenticated
	}

	key := issueID.Hex()
	t.mu.Lock()
	has := t.upvoted[key]
	t.mu.Unlock()

	if has {
		filters := []gateway.Filter{
			gateway.Eq("user_id", userID),
			gateway.Eq("issue_id", issueID),
		}
		if err := t.gw.Delete(ctx, gateway.TableUpvotes, filters); err != nil {
			return ToggleResult{}, err
		}

		t.mu.Lock()
		delete(t.upvoted, key)
		if t.counters[key] > 0 {
			t.counters[key]--
		}
		result := ToggleResult{Upvoted: false, Count: t.counters[key]}
		t.mu.Unlock()
		return result, nil
	}

	upvote := models.Upvote{
		ID:        primitive.NewObjectID(),
		IssueID:   issueID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	if _, err := t.gw.Insert(ctx, gateway.TableUpvotes, upvote); err != nil {
		if errors.Is(err, gateway.ErrConflict) {
			t.mu.Lock()
			t.upvoted[key] = true
			result := ToggleResult{Upvoted: true, Count: t.counters[key]}
			t.mu.Unlock()
			return result, err
		}
		return ToggleResult{}, err
	}

	t.mu.Lock()
	t.upvoted[key] = true
	t.counters[key]++
	result := ToggleResult{Upvoted: true, Count: t.counters[key]}
	t.mu.Unlock()
	return result, nil
}
