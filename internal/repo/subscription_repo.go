// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for Subscription.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/n0social/verbshift-api/internal/domain"
)

// GetSubscription returns the subscription row for userID, or ErrNotFound.
// Callers treat a missing row as the free tier, not as an error condition.
func GetSubscription(ctx context.Context, db *gorm.DB, userID string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// UpsertSubscription creates or updates the tier for userID.
func UpsertSubscription(ctx context.Context, db *gorm.DB, userID, tier string) (*domain.Subscription, error) {
	existing, err := GetSubscription(ctx, db, userID)
	switch {
	case err == nil:
		res := db.WithContext(ctx).
			Model(&domain.Subscription{}).
			Where("user_id = ?", userID).
			Update("tier", tier)
		if res.Error != nil {
			return nil, res.Error
		}
		existing.Tier = tier
		return existing, nil
	case err == gorm.ErrRecordNotFound:
		s := &domain.Subscription{
			ID:        uuid.NewString(),
			UserID:    userID,
			Tier:      tier,
			CreatedAt: time.Now().UTC(),
		}
		if cerr := db.WithContext(ctx).Create(s).Error; cerr != nil {
			return nil, cerr
		}
		return s, nil
	default:
		return nil, err
	}
}
