package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"civicpulse-be/gateway"
	"civicpulse-be/models"
)

// ProfileService reads and updates user profiles and the city-wide settings
// document. Points, verification and role changes are backend-side concerns
// and not reachable from here.
type ProfileService struct {
	gw gateway.Gateway
}

func NewProfileService(gw gateway.Gateway) *ProfileService {
	return &ProfileService{gw: gw}
}

// Get fetches the profile attached to a user account.
func (s *ProfileService) Get(ctx context.Context, userID primitive.ObjectID) (models.Profile, error) {
	q := gateway.Query{
		Filters: []gateway.Filter{gateway.Eq("user_id", userID)},
		Limit:   1,
	}

	var profiles []models.Profile
	if err := s.gw.Query(ctx, gateway.TableProfiles, q, &profiles); err != nil {
		return models.Profile{}, err
	}
	if len(profiles) == 0 {
		return models.Profile{}, gateway.ErrNotFound
	}
	return profiles[0], nil
}

// Create seeds a citizen profile for a freshly registered account.
func (s *ProfileService) Create(ctx context.Context, userID primitive.ObjectID, fullName string) (models.Profile, error) {
	now := time.Now()
	profile := models.Profile{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Role:      models.RoleCitizen,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if fullName != "" {
		profile.FullName = &fullName
	}
	if _, err := s.gw.Insert(ctx, gateway.TableProfiles, profile); err != nil {
		return models.Profile{}, err
	}
	return profile, nil
}

// Update patches the caller-editable profile fields.
func (s *ProfileService) Update(ctx context.Context, userID primitive.ObjectID, fullName, phone *string) error {
	set := map[string]interface{}{"updated_at": time.Now()}
	if fullName != nil {
		set["full_name"] = *fullName
	}
	if phone != nil {
		set["phone"] = *phone
	}

	filters := []gateway.Filter{gateway.Eq("user_id", userID)}
	modified, err := s.gw.Update(ctx, gateway.TableProfiles, filters, gateway.Patch{Set: set})
	if err != nil {
		return err
	}
	if modified == 0 {
		return gateway.ErrNotFound
	}
	return nil
}

// Settings returns the single settings document, or defaults when none has
// been written yet.
func (s *ProfileService) Settings(ctx context.Context) (models.Setting, error) {
	var settings []models.Setting
	if err := s.gw.Query(ctx, gateway.TableSettings, gateway.Query{Limit: 1}, &settings); err != nil {
		return models.Setting{}, err
	}
	if len(settings) == 0 {
		return models.Setting{UpvoteThreshold: 10, NotificationRadiusKm: 5}, nil
	}
	return settings[0], nil
}
