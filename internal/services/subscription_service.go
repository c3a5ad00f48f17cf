// Package services – SubscriptionService
//
// Subscription records map users to tiers. Payment flows live elsewhere; this
// service only reads and updates the tier assignment that the quota gate
// consumes.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
	"github.com/n0social/verbshift-api/internal/repo"
)

// SubscriptionService manages user tier assignments.
type SubscriptionService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
}

// NewSubscriptionService constructs a SubscriptionService.
func NewSubscriptionService(db *gorm.DB) *SubscriptionService {
	return &SubscriptionService{DB: db}
}

// Get returns the user's subscription. Users without a stored row are on the
// FREE tier.
func (s *SubscriptionService) Get(ctx context.Context, userID string) (*domain.Subscription, error) {
	sub, err := repo.GetSubscription(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return &domain.Subscription{UserID: userID, Tier: TierFree}, nil
		}
		return nil, err
	}
	return sub, nil
}

// SetTier assigns the user to a tier, creating the subscription row when
// missing.
func (s *SubscriptionService) SetTier(ctx context.Context, userID, tier string) (*domain.Subscription, error) {
	tier = strings.ToUpper(strings.TrimSpace(tier))
	switch tier {
	case TierFree, TierBasic, TierPremium:
	default:
		return nil, ErrInvalidTier
	}
	return repo.UpsertSubscription(ctx, s.DB, userID, tier)
}
