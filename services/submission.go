package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// ReportForm carries a new-issue report. Status is accepted for wire
// compatibility but ignored: every submitted issue starts open.
type ReportForm struct {
	Title        string   `json:"title" form:"title" binding:"required"`
	Description  string   `json:"description" form:"description" binding:"required"`
	Category     string   `json:"category" form:"category" binding:"required"`
	LocationName string   `json:"location_name" form:"location_name" binding:"required"`
	Latitude     *float64 `json:"latitude,omitempty" form:"latitude"`
	Longitude    *float64 `json:"longitude,omitempty" form:"longitude"`
	Status       string   `json:"status,omitempty" form:"status"`
}

// ImageAttachment is a photo supplied with a report.
type ImageAttachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

// SubmitResult is the outcome of a successful submission. ImageWarning is set
// when the photo could not be stored and the issue went in without it.
type SubmitResult struct {
	Issue        models.Issue
	ImageWarning string
}

// Pipeline states; a submission walks Idle -> Validating -> (Uploading ->)?
// Inserting and back to Idle on either terminal outcome.
const (
	StateIdle       = "idle"
	StateValidating = "validating"
	StateUploading  = "uploading"
	StateInserting  = "inserting"
)

// SubmissionPipeline validates and persists new issue reports. A pipeline
// instance accepts one submission at a time; a second attempt while one is in
// flight is rejected rather than queued.
type SubmissionPipeline struct {
	gw     gateway.Gateway
	store  gateway.ObjectStore
	bucket string

	mu    sync.Mutex
	state string
}

func NewSubmissionPipeline(gw gateway.Gateway, store gateway.ObjectStore, bucket string) *SubmissionPipeline {
	return &SubmissionPipeline{gw: gw, store: store, bucket: bucket, state: StateIdle}
}

// State reports where the current submission attempt is, for disabling the
// submit action while one runs.
func (p *SubmissionPipeline) State() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *SubmissionPipeline) setState(state string) {
	p.mu.Lock()
	p.state = state
	p.mu.Unlock()
}

// ValidateReportForm applies the submission contract before any network call:
// title at least 5 characters, description at least 10, a known category, and
// a free-text location of at least 3 characters.
func ValidateReportForm(form ReportForm) *ValidationError {
	var fields []FieldError
	if utf8.RuneCountInString(strings.TrimSpace(form.Title)) < 5 {
		fields = append(fields, FieldError{Field: "title", Message: "must be at least 5 characters"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.Description)) < 10 {
		fields = append(fields, FieldError{Field: "description", Message: "must be at least 10 characters"})
	}
	if !models.IssueCategory(form.Category).Valid() {
		fields = append(fields, FieldError{Field: "category", Message: "must be a valid category"})
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.LocationName)) < 3 {
		fields = append(fields, FieldError{Field: "location_name", Message: "must be at least 3 characters"})
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Submit validates the form, uploads the photo when one is attached, and
// inserts the issue with status forced to open. Photo upload failure does not
// abort the submission; the result carries a warning instead. Insert failure
// surfaces as-is with no automatic retry (an already-uploaded image is left
// behind, which is acceptable at this scale).
func (p *SubmissionPipeline) Submit(ctx context.Context, form ReportForm, userID primitive.ObjectID, image *ImageAttachment) (SubmitResult, error) {
	if userID.IsZero() {
		return SubmitResult{}, ErrNotAuthenticated
	}

	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return SubmitResult{}, ErrSubmissionInFlight
	}
	p.state = StateValidating
	p.mu.Unlock()
	defer p.setState(StateIdle)

	if verr := ValidateReportForm(form); verr != nil {
		return SubmitResult{}, verr
	}

	var imageURL *string
	var warning string
	if image != nil {
		p.setState(StateUploading)
		url, err := p.uploadImage(ctx, userID, image)
		if err != nil {
			warning = "failed to upload image; issue was reported without it"
		} else {
			imageURL = &url
		}
	}

	p.setState(StateInserting)
	now := time.Now()
	issue := models.Issue{
		ID:           primitive.NewObjectID(),
		Title:        strings.TrimSpace(form.Title),
		Description:  strings.TrimSpace(form.Description),
		Category:     models.IssueCategory(form.Category),
		Status:       models.Open,
		LocationName: strings.TrimSpace(form.LocationName),
		Latitude:     form.Latitude,
		Longitude:    form.Longitude,
		ImageURL:     imageURL,
		UpvotesCount: 0,
		ReportedBy:   userID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if _, err := p.gw.Insert(ctx, gateway.TableIssues, issue); err != nil {
		return SubmitResult{}, err
	}
	return SubmitResult{Issue: issue, ImageWarning: warning}, nil
}

func (p *SubmissionPipeline) uploadImage(ctx context.Context, userID primitive.ObjectID, image *ImageAttachment) (string, error) {
	ext := strings.ToLower(filepath.Ext(image.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := image.ContentType
	if contentType == "" {
		contentType = "image/jpeg"
	}

	path := fmt.Sprintf("%s/%d%s", userID.Hex(), time.Now().UnixMilli(), ext)
	if err := p.store.UploadObject(ctx, p.bucket, path, image.Data, contentType); err != nil {
		return "", err
	}
	return p.store.PublicURL(p.bucket, path), nil
}
