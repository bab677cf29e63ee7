package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

func newResolutionService(gw gateway.Gateway) *ResolutionService {
	return NewResolutionService(gw, NewNotificationService(gw))
}

func TestResolveSetsResolutionFieldsTogether(t *testing.T) {
	gw := newFakeGateway()
	issue := newIssue("Pothole on MG Road", models.Open, "Pune, Maharashtra", 5)
	gw.issues = []models.Issue{issue}
	svc := newResolutionService(gw)

	url := "https://storage.test/issue-images/proof.jpg"
	err := svc.Resolve(context.Background(), issue.ID, "Road patched", &url)

	require.NoError(t, err)
	resolved := gw.issues[0]
	assert.Equal(t, models.Resolved, resolved.Status)
	require.NotNil(t, resolved.ResolvedAt, "resolved_at is set exactly when status flips")
	require.NotNil(t, resolved.ResolutionComment)
	assert.Equal(t, "Road patched", *resolved.ResolutionComment)
	require.NotNil(t, resolved.ResolutionImageURL)
	assert.Equal(t, url, *resolved.ResolutionImageURL)
}

func TestResolveNotifiesReporter(t *testing.T) {
	gw := newFakeGateway()
	issue := newIssue("Blocked drain", models.Open, "Pune, Maharashtra", 2)
	gw.issues = []models.Issue{issue}
	svc := newResolutionService(gw)

	require.NoError(t, svc.Resolve(context.Background(), issue.ID, "", nil))

	require.Len(t, gw.notifications, 1)
	assert.Equal(t, issue.ReportedBy, gw.notifications[0].UserID)
	assert.Equal(t, models.NotificationIssueResolved, gw.notifications[0].Type)
}

func TestResolveUnknownIssue(t *testing.T) {
	svc := newResolutionService(newFakeGateway())

	err := svc.Resolve(context.Background(), primitive.NewObjectID(), "", nil)

	assert.ErrorIs(t, err, gateway.ErrNotFound)
}

func TestSetStatusRejectsUnknownStatus(t *testing.T) {
	gw := newFakeGateway()
	issue := newIssue("Dead tree", models.Open, "Pune, Maharashtra", 0)
	gw.issues = []models.Issue{issue}
	svc := newResolutionService(gw)

	err := svc.SetStatus(context.Background(), issue.ID, "fixed", nil)

	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, models.Open, gw.issues[0].Status)
}

func TestSetStatusInProgressRecordsAssignee(t *testing.T) {
	gw := newFakeGateway()
	issue := newIssue("Dead tree", models.Open, "Pune, Maharashtra", 0)
	gw.issues = []models.Issue{issue}
	svc := newResolutionService(gw)
	worker := primitive.NewObjectID()

	require.NoError(t, svc.SetStatus(context.Background(), issue.ID, models.InProgress, &worker))

	assert.Equal(t, models.InProgress, gw.issues[0].Status)
	require.NotNil(t, gw.issues[0].AssignedTo)
	assert.Equal(t, worker, *gw.issues[0].AssignedTo)
	assert.Nil(t, gw.issues[0].ResolvedAt)
}
