// Package usage counts free-tier feature use per calendar day and month.
// Counters live in a client-side local store and are not a security boundary.
package usage

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/soraformula/soraformula/internal/localstore"
)

type Feature string

const (
	FeatureOutputs   Feature = "outputs"
	FeatureDownloads Feature = "downloads"
)

type Limit struct {
	Daily   int `json:"daily"`
	Monthly int `json:"monthly"`
}

// Limits are the free-tier quotas
var Limits = map[Feature]Limit{
	FeatureOutputs:   {Daily: 5, Monthly: 50},
	FeatureDownloads: {Daily: 3, Monthly: 20},
}

// PaidChecker reports whether an email has an active paid subscription
type PaidChecker interface {
	HasActiveSubscription(ctx context.Context, email string) (bool, error)
}

type Tracker struct {
	storage   localstore.Store
	paid      PaidChecker
	userEmail string
	now       func() time.Time
}

func NewTracker(storage localstore.Store, paid PaidChecker, userEmail string) *Tracker {
	return &Tracker{
		storage:   storage,
		paid:      paid,
		userEmail: userEmail,
		now:       time.Now,
	}
}

type Window struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

type FeatureUsage struct {
	Feature Feature `json:"feature"`
	Today   Window  `json:"today"`
	Month   Window  `json:"month"`
}

// CanUseFeature is always true for paid users; otherwise the daily counter
// must be below the daily limit.
func (t *Tracker) CanUseFeature(ctx context.Context, feature Feature) (bool, error) {
	limit, ok := Limits[feature]
	if !ok {
		return false, fmt.Errorf("unknown feature: %s", feature)
	}

	if t.isPaid(ctx) {
		return true, nil
	}

	return t.count(t.dayKey(feature)) < limit.Daily, nil
}

// Track records one use of feature in both the daily and monthly counters
func (t *Tracker) Track(feature Feature) error {
	if _, ok := Limits[feature]; !ok {
		return fmt.Errorf("unknown feature: %s", feature)
	}

	for _, key := range []string{t.dayKey(feature), t.monthKey(feature)} {
		err := t.storage.Set(key, strconv.Itoa(t.count(key)+1))
		if err != nil {
			return fmt.Errorf("failed to track usage: %w", err)
		}
	}
	return nil
}

// Summary reports current counters against the limits of every feature
func (t *Tracker) Summary() []FeatureUsage {
	out := make([]FeatureUsage, 0, len(Limits))
	for _, feature := range []Feature{FeatureOutputs, FeatureDownloads} {
		limit := Limits[feature]
		out = append(out, FeatureUsage{
			Feature: feature,
			Today:   Window{Used: t.count(t.dayKey(feature)), Limit: limit.Daily},
			Month:   Window{Used: t.count(t.monthKey(feature)), Limit: limit.Monthly},
		})
	}
	return out
}

func (t *Tracker) isPaid(ctx context.Context) bool {
	if t.paid == nil || t.userEmail == "" {
		return false
	}
	paid, err := t.paid.HasActiveSubscription(ctx, t.userEmail)
	if err != nil {
		// Fall back to free-tier limits when the status is unavailable
		slog.Warn("subscription check failed", "error", err, "email", t.userEmail)
		return false
	}
	return paid
}

func (t *Tracker) count(key string) int {
	raw, ok := t.storage.Get(key)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return n
}

func (t *Tracker) dayKey(feature Feature) string {
	return fmt.Sprintf("usage:%s:day:%s", feature, t.now().Format("2006-01-02"))
}

func (t *Tracker) monthKey(feature Feature) string {
	return fmt.Sprintf("usage:%s:month:%s", feature, t.now().Format("2006-01"))
}
