package service

import (
	"context"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/soraformula/soraformula/internal/model"
)

const (
	adminActivitiesLimit = 100
	adminPaymentsLimit   = 50
	activeUserWindow     = 7 * 24 * time.Hour
)

type AdminStats struct {
	TotalSignups   int     `json:"totalSignups"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalDownloads int     `json:"totalDownloads"`
	TotalOutputs   int     `json:"totalOutputs"`
	TotalQuestions int     `json:"totalQuestions"`
	ActiveUsers    int     `json:"activeUsers"`
	PaidUsers      int     `json:"paidUsers"`
	ConversionRate float64 `json:"conversionRate"`
	AvgSessionTime int     `json:"avgSessionTime"` // minutes; placeholder, not measured
}

// AdminService joins signups, activities and payments at read time
type AdminService struct {
	signups       *SignupService
	activities    *ActivityService
	subscriptions *SubscriptionService
	now           func() time.Time
	sessionTime   func() int
}

func NewAdminService(signups *SignupService, activities *ActivityService, subscriptions *SubscriptionService) *AdminService {
	return &AdminService{
		signups:       signups,
		activities:    activities,
		subscriptions: subscriptions,
		now:           time.Now,
		sessionTime:   func() int { return rand.IntN(20) + 5 },
	}
}

// WithSessionTime replaces the avgSessionTime source
func (s *AdminService) WithSessionTime(fn func() int) *AdminService {
	s.sessionTime = fn
	return s
}

func (s *AdminService) Stats(ctx context.Context) (*AdminStats, error) {
	signups, err := s.signups.All(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.All(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.subscriptions.Payments(ctx)
	if err != nil {
		return nil, err
	}

	stats := &AdminStats{TotalSignups: len(signups)}

	for _, p := range payments {
		if p.IsCompleted() {
			stats.TotalRevenue += p.Amount
		}
	}

	since := s.now().Add(-activeUserWindow)
	active := map[string]bool{}
	for _, a := range activities {
		switch a.Type {
		case model.ActivityDownload:
			stats.TotalDownloads++
		case model.ActivityOutput:
			stats.TotalOutputs++
		case model.ActivityQuestion:
			stats.TotalQuestions++
		}
		if a.UserID != "" && a.Timestamp.After(since) {
			active[a.UserID] = true
		}
	}
	stats.ActiveUsers = len(active)

	for _, u := range rollup(signups, activities, payments) {
		if u.SubscriptionStatus == model.UserStatusPaid {
			stats.PaidUsers++
		}
	}
	stats.ConversionRate = conversionRate(stats.PaidUsers, stats.TotalSignups)
	stats.AvgSessionTime = s.sessionTime()

	return stats, nil
}

// conversionRate is paid/total as a percentage with one decimal
func conversionRate(paid, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(paid)/float64(total)*1000) / 10
}

func (s *AdminService) Activities(ctx context.Context) ([]model.Activity, error) {
	return s.activities.Recent(ctx, adminActivitiesLimit)
}

func (s *AdminService) Payments(ctx context.Context) ([]model.Payment, error) {
	return s.subscriptions.Recent(ctx, adminPaymentsLimit)
}

// Users returns one summary per signup in signup order
func (s *AdminService) Users(ctx context.Context) ([]model.UserSummary, error) {
	signups, err := s.signups.All(ctx)
	if err != nil {
		return nil, err
	}
	activities, err := s.activities.All(ctx)
	if err != nil {
		return nil, err
	}
	payments, err := s.subscriptions.Payments(ctx)
	if err != nil {
		return nil, err
	}
	return rollup(signups, activities, payments), nil
}

func rollup(signups []model.Signup, activities []model.Activity, payments []model.Payment) []model.UserSummary {
	byEmail := map[string][]model.Activity{}
	for _, a := range activities {
		key := strings.ToLower(a.UserEmail)
		byEmail[key] = append(byEmail[key], a)
	}
	paymentsByEmail := map[string][]model.Payment{}
	for _, p := range payments {
		key := strings.ToLower(p.UserEmail)
		paymentsByEmail[key] = append(paymentsByEmail[key], p)
	}

	users := make([]model.UserSummary, 0, len(signups))
	for _, signup := range signups {
		key := strings.ToLower(signup.Email)
		id := signup.UserID
		if id == "" {
			id = key
		}
		u := model.UserSummary{
			ID:                 id,
			Email:              signup.Email,
			FullName:           signup.FullName,
			Source:             signup.HowDidYouFindUs,
			SignupDate:         signup.Timestamp,
			SubscriptionStatus: model.UserStatusFree,
		}

		for _, a := range byEmail[key] {
			u.TotalActivities++
			switch a.Type {
			case model.ActivityDownload:
				u.Downloads++
			case model.ActivityOutput:
				u.Outputs++
			case model.ActivityQuestion:
				u.Questions++
			}
			if u.LastActivity == nil || a.Timestamp.After(*u.LastActivity) {
				ts := a.Timestamp
				u.LastActivity = &ts
			}
		}

		for _, p := range paymentsByEmail[key] {
			if !p.IsCompleted() {
				continue
			}
			u.Payments++
			u.TotalSpent += p.Amount
			u.SubscriptionStatus = model.UserStatusPaid
		}

		users = append(users, u)
	}
	return users
}
