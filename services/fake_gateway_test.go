package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// fakeGateway is an in-memory stand-in for the managed backend. It mirrors
// the real gateway's behavior where tests depend on it: the unique
// (issue_id, user_id) rule on upvotes, the counter maintenance on issues, and
// the filter/sort/limit semantics of Query.
type fakeGateway struct {
	mu sync.Mutex

	issues        []models.Issue
	upvotes       []models.Upvote
	notifications []models.Notification
	comments      []models.Comment
	profiles      []models.Profile
	settings      []models.Setting

	queryErr  error
	insertErr error
	updateErr error
	deleteErr error
	countErr  error

	// onInsert runs before an insert applies, for coordinating in-flight
	// scenarios from tests.
	onInsert func()
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{}
}

// fakeStore is an in-memory object store.
type fakeStore struct {
	uploads   map[string][]byte
	uploadErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{uploads: make(map[string][]byte)}
}

func (s *fakeStore) UploadObject(_ context.Context, bucket, path string, data []byte, _ string) error {
	if s.uploadErr != nil {
		return s.uploadErr
	}
	s.uploads[bucket+"/"+path] = data
	return nil
}

func (s *fakeStore) PublicURL(bucket, path string) string {
	return "https://storage.test/" + bucket + "/" + path
}

func (g *fakeGateway) Query(_ context.Context, table string, q gateway.Query, out interface{}) error {
	if g.queryErr != nil {
		return g.queryErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	switch dst := out.(type) {
	case *[]models.Issue:
		rows := filterIssues(g.issues, q)
		sortIssues(rows, q)
		*dst = limitIssues(rows, q.Limit)
	case *[]models.Upvote:
		var rows []models.Upvote
		for _, u := range g.upvotes {
			if matchesUpvote(u, q.Filters) {
				rows = append(rows, u)
			}
		}
		*dst = rows
	case *[]models.Notification:
		var rows []models.Notification
		for _, n := range g.notifications {
			if matchesNotification(n, q.Filters) {
				rows = append(rows, n)
			}
		}
		if q.SortBy == "created_at" && q.SortDesc {
			sort.SliceStable(rows, func(i, j int) bool {
				return rows[i].CreatedAt.After(rows[j].CreatedAt)
			})
		}
		if q.Limit > 0 && int64(len(rows)) > q.Limit {
			rows = rows[:q.Limit]
		}
		*dst = rows
	case *[]models.Comment:
		var rows []models.Comment
		for _, c := range g.comments {
			if matchesComment(c, q.Filters) {
				rows = append(rows, c)
			}
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		})
		*dst = rows
	case *[]models.Profile:
		var rows []models.Profile
		for _, p := range g.profiles {
			if matchesProfile(p, q.Filters) {
				rows = append(rows, p)
			}
		}
		*dst = rows
	case *[]models.Setting:
		rows := append([]models.Setting(nil), g.settings...)
		if q.Limit > 0 && int64(len(rows)) > q.Limit {
			rows = rows[:q.Limit]
		}
		*dst = rows
	}
	return nil
}

func (g *fakeGateway) Insert(_ context.Context, table string, record interface{}) (string, error) {
	if g.onInsert != nil {
		g.onInsert()
	}
	if g.insertErr != nil {
		return "", g.insertErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	switch v := record.(type) {
	case models.Issue:
		g.issues = append(g.issues, v)
		return v.ID.Hex(), nil
	case models.Upvote:
		for _, existing := range g.upvotes {
			if existing.IssueID == v.IssueID && existing.UserID == v.UserID {
				return "", gateway.ErrConflict
			}
		}
		g.upvotes = append(g.upvotes, v)
		g.adjustCount(v.IssueID, 1)
		return v.ID.Hex(), nil
	case models.Notification:
		g.notifications = append(g.notifications, v)
		return v.ID.Hex(), nil
	case models.Comment:
		g.comments = append(g.comments, v)
		return v.ID.Hex(), nil
	case models.Profile:
		g.profiles = append(g.profiles, v)
		return v.ID.Hex(), nil
	}
	return "", nil
}

func (g *fakeGateway) Update(_ context.Context, table string, filters []gateway.Filter, patch gateway.Patch) (int64, error) {
	if g.updateErr != nil {
		return 0, g.updateErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var modified int64
	switch table {
	case gateway.TableNotifications:
		for i := range g.notifications {
			if matchesNotification(g.notifications[i], filters) {
				if read, ok := patch.Set["read"].(bool); ok && g.notifications[i].Read != read {
					g.notifications[i].Read = read
					modified++
				}
			}
		}
	case gateway.TableIssues:
		for i := range g.issues {
			if matchesIssue(g.issues[i], filters, nil) {
				applyIssuePatch(&g.issues[i], patch)
				modified++
			}
		}
	case gateway.TableProfiles:
		for i := range g.profiles {
			if matchesProfile(g.profiles[i], filters) {
				if name, ok := patch.Set["full_name"].(string); ok {
					g.profiles[i].FullName = &name
				}
				if phone, ok := patch.Set["phone"].(string); ok {
					g.profiles[i].Phone = &phone
				}
				modified++
			}
		}
	}
	return modified, nil
}

func (g *fakeGateway) Delete(_ context.Context, table string, filters []gateway.Filter) error {
	if g.deleteErr != nil {
		return g.deleteErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if table == gateway.TableUpvotes {
		kept := g.upvotes[:0]
		for _, u := range g.upvotes {
			if matchesUpvote(u, filters) {
				g.adjustCount(u.IssueID, -1)
				continue
			}
			kept = append(kept, u)
		}
		g.upvotes = kept
	}
	return nil
}

func (g *fakeGateway) Count(_ context.Context, table string, filters []gateway.Filter) (int64, error) {
	if g.countErr != nil {
		return 0, g.countErr
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	var count int64
	switch table {
	case gateway.TableNotifications:
		for _, n := range g.notifications {
			if matchesNotification(n, filters) {
				count++
			}
		}
	case gateway.TableUpvotes:
		for _, u := range g.upvotes {
			if matchesUpvote(u, filters) {
				count++
			}
		}
	case gateway.TableIssues:
		for _, i := range g.issues {
			if matchesIssue(i, filters, nil) {
				count++
			}
		}
	}
	return count, nil
}

func (g *fakeGateway) adjustCount(issueID primitive.ObjectID, delta int64) {
	for i := range g.issues {
		if g.issues[i].ID == issueID {
			g.issues[i].UpvotesCount += delta
			if g.issues[i].UpvotesCount < 0 {
				g.issues[i].UpvotesCount = 0
			}
		}
	}
}

func applyIssuePatch(issue *models.Issue, patch gateway.Patch) {
	if status, ok := patch.Set["status"].(models.IssueStatus); ok {
		issue.Status = status
	}
	if comment, ok := patch.Set["resolution_comment"].(string); ok {
		issue.ResolutionComment = &comment
	}
	if url, ok := patch.Set["resolution_image_url"].(string); ok {
		issue.ResolutionImageURL = &url
	}
	if assigned, ok := patch.Set["assigned_to"].(primitive.ObjectID); ok {
		issue.AssignedTo = &assigned
	}
	if resolvedAt, ok := patch.Set["resolved_at"]; ok {
		if t, ok := timeValue(resolvedAt); ok {
			issue.ResolvedAt = &t
		}
	}
	if updatedAt, ok := patch.Set["updated_at"]; ok {
		if t, ok := timeValue(updatedAt); ok {
			issue.UpdatedAt = t
		}
	}
	issue.UpvotesCount += patch.Inc["upvotes_count"]
}

func timeValue(v interface{}) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

func filterIssues(issues []models.Issue, q gateway.Query) []models.Issue {
	var rows []models.Issue
	for _, issue := range issues {
		if matchesIssue(issue, q.Filters, q.AnyOf) {
			rows = append(rows, issue)
		}
	}
	return rows
}

func matchesIssue(issue models.Issue, filters, anyOf []gateway.Filter) bool {
	for _, f := range filters {
		if !issueFieldMatches(issue, f) {
			return false
		}
	}
	if len(anyOf) > 0 {
		hit := false
		for _, f := range anyOf {
			if issueFieldMatches(issue, f) {
				hit = true
				break
			}
		}
		if !hit {
			return false
		}
	}
	return true
}

func issueFieldMatches(issue models.Issue, f gateway.Filter) bool {
	switch f.Field {
	case "_id":
		return f.Value == issue.ID
	case "status":
		return f.Value == issue.Status
	case "reported_by":
		return f.Value == issue.ReportedBy
	case "location_name":
		return textMatches(issue.LocationName, f)
	case "title":
		return textMatches(issue.Title, f)
	case "description":
		return textMatches(issue.Description, f)
	case "latitude":
		return issue.Latitude != nil
	case "longitude":
		return issue.Longitude != nil
	}
	return false
}

func textMatches(value string, f gateway.Filter) bool {
	needle := strings.ToLower(f.Value.(string))
	haystack := strings.ToLower(value)
	switch f.Kind {
	case gateway.MatchPrefix:
		return strings.HasPrefix(haystack, needle)
	case gateway.MatchContains:
		return strings.Contains(haystack, needle)
	default:
		return haystack == needle
	}
}

func matchesUpvote(u models.Upvote, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "user_id":
			if f.Value != u.UserID {
				return false
			}
		case "issue_id":
			if f.Value != u.IssueID {
				return false
			}
		}
	}
	return true
}

func matchesNotification(n models.Notification, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "_id":
			if f.Value != n.ID {
				return false
			}
		case "user_id":
			if f.Value != n.UserID {
				return false
			}
		case "read":
			if f.Value != n.Read {
				return false
			}
		}
	}
	return true
}

func matchesComment(c models.Comment, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "issue_id":
			if f.Value != c.IssueID {
				return false
			}
		case "user_id":
			if f.Value != c.UserID {
				return false
			}
		}
	}
	return true
}

func matchesProfile(p models.Profile, filters []gateway.Filter) bool {
	for _, f := range filters {
		switch f.Field {
		case "user_id":
			if f.Value != p.UserID {
				return false
			}
		case "_id":
			if f.Value != p.ID {
				return false
			}
		}
	}
	return true
}

func sortIssues(rows []models.Issue, q gateway.Query) {
	switch q.SortBy {
	case "upvotes_count":
		sort.SliceStable(rows, func(i, j int) bool {
			if q.SortDesc {
				return rows[i].UpvotesCount > rows[j].UpvotesCount
			}
			return rows[i].UpvotesCount < rows[j].UpvotesCount
		})
	case "resolved_at":
		sort.SliceStable(rows, func(i, j int) bool {
			a, b := rows[i].ResolvedAt, rows[j].ResolvedAt
			if a == nil || b == nil {
				return b == nil
			}
			if q.SortDesc {
				return a.After(*b)
			}
			return a.Before(*b)
		})
	case "created_at":
		sort.SliceStable(rows, func(i, j int) bool {
			if q.SortDesc {
				return rows[i].CreatedAt.After(rows[j].CreatedAt)
			}
			return rows[i].CreatedAt.Before(rows[j].CreatedAt)
		})
	}
}

func limitIssues(rows []models.Issue, limit int64) []models.Issue {
	if limit > 0 && int64(len(rows)) > limit {
		rows = rows[:limit]
	}
	return rows
}
