// Package services – QuotaService
//
// This file implements the subscription-tier quota check that gates content
// generation. Each user belongs to a tier (FREE, BASIC, PREMIUM) that caps how
// many posts they may create per UTC calendar month; configured roles (by
// default "admin") bypass the check entirely.
//
// The counting window is the current calendar month in UTC, so a user who
// exhausted last month's allowance starts fresh on the first of the month.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/n0social/verbshift-api/internal/repo"
)

// Subscription tier names as stored in the subscriptions table.
const (
	TierFree    = "FREE"
	TierBasic   = "BASIC"
	TierPremium = "PREMIUM"
)

// TierPlan describes one subscription tier: its monthly post allowance and
// its advertised monthly price in USD (informational only).
type TierPlan struct {
	Name     string  `json:"name"`
	Limit    int     `json:"limit"`
	PriceUSD float64 `json:"price_usd"`
}

// QuotaService decides whether a user may create another post this month.
type QuotaService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Plans maps tier name to its plan. Unknown tiers fall back to FREE.
	Plans map[string]TierPlan

	// ExemptRoles are requester roles that bypass quota checking entirely.
	// Matching is case-insensitive.
	ExemptRoles []string

	// Now returns the current time; overridable in tests. Defaults to time.Now.
	Now func() time.Time
}

// NewQuotaService constructs a QuotaService with the given per-tier limits.
func NewQuotaService(db *gorm.DB, freeLimit, basicLimit, premiumLimit int, exemptRoles []string) *QuotaService {
	return &QuotaService{
		DB: db,
		Plans: map[string]TierPlan{
			TierFree:    {Name: TierFree, Limit: freeLimit, PriceUSD: 0},
			TierBasic:   {Name: TierBasic, Limit: basicLimit, PriceUSD: 5.99},
			TierPremium: {Name: TierPremium, Limit: premiumLimit, PriceUSD: 9.99},
		},
		ExemptRoles: exemptRoles,
		Now:         time.Now,
	}
}

// QuotaStatus reports a user's standing against their monthly allowance.
type QuotaStatus struct {
	Tier      string `json:"tier"`
	Limit     int    `json:"limit"`
	Used      int64  `json:"used"`
	Remaining int64  `json:"remaining"`
	Exempt    bool   `json:"exempt"`
}

// Exempt reports whether the given role bypasses quota checks.
func (s *QuotaService) Exempt(role string) bool {
	for _, r := range s.ExemptRoles {
		if strings.EqualFold(r, role) {
			return true
		}
	}
	return false
}

// Plan resolves the plan for a user. Missing subscription rows and unknown
// tier values resolve to the FREE plan.
func (s *QuotaService) Plan(ctx context.Context, userID string) (TierPlan, error) {
	sub, err := repo.GetSubscription(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return s.Plans[TierFree], nil
		}
		return TierPlan{}, err
	}
	plan, ok := s.Plans[strings.ToUpper(sub.Tier)]
	if !ok {
		return s.Plans[TierFree], nil
	}
	return plan, nil
}

// Status computes the user's current quota standing. Exempt roles report an
// unlimited remaining allowance without touching the counters.
func (s *QuotaService) Status(ctx context.Context, userID, role string) (QuotaStatus, error) {
	tr := otel.Tracer("services/QuotaService")
	ctx, span := tr.Start(ctx, "Status",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("user.role", role),
		),
	)
	defer span.End()

	if s.Exempt(role) {
		return QuotaStatus{Tier: TierPremium, Limit: -1, Remaining: -1, Exempt: true}, nil
	}

	plan, err := s.Plan(ctx, userID)
	if err != nil {
		return QuotaStatus{}, err
	}

	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	used, err := repo.CountMonthlyContent(ctx, s.DB, userID, now())
	if err != nil {
		return QuotaStatus{}, err
	}

	remaining := int64(plan.Limit) - used
	if remaining < 0 {
		remaining = 0
	}
	return QuotaStatus{
		Tier:      plan.Name,
		Limit:     plan.Limit,
		Used:      used,
		Remaining: remaining,
	}, nil
}

// Check returns nil when the user may create another post this month, or
// ErrQuotaExceeded when the tier allowance is already spent.
func (s *QuotaService) Check(ctx context.Context, userID, role string) error {
	st, err := s.Status(ctx, userID, role)
	if err != nil {
		return err
	}
	if st.Exempt {
		return nil
	}
	if st.Used >= int64(st.Limit) {
		return ErrQuotaExceeded
	}
	return nil
}
