package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/repository"
	"github.com/soraformula/soraformula/internal/validation"
)

const (
	MessageSignupCreated = "Thank you for signing up!"
	MessageWelcomeBack   = "Welcome back!"
)

// ValidationError carries a message safe to show to the client
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type SignupInput struct {
	FullName        string
	Email           string
	HowDidYouFindUs string
	Timestamp       time.Time
	UserAgent       string
	Referrer        string
}

type SignupResult struct {
	Existing bool
	UserID   string
	Message  string
}

type SignupStats struct {
	TotalSignups    int            `json:"totalSignups"`
	TodaySignups    int            `json:"todaySignups"`
	SourceBreakdown map[string]int `json:"sourceBreakdown"`
}

type SignupDashboard struct {
	Stats         SignupStats    `json:"stats"`
	RecentSignups []model.Signup `json:"recentSignups"`
}

type SignupService struct {
	signups    repository.Collection[model.Signup]
	users      repository.Collection[model.User]
	activities *ActivityService
	email      *EmailService
	now        func() time.Time
}

func NewSignupService(
	signups repository.Collection[model.Signup],
	users repository.Collection[model.User],
	activities *ActivityService,
	email *EmailService,
) *SignupService {
	return &SignupService{
		signups:    signups,
		users:      users,
		activities: activities,
		email:      email,
		now:        time.Now,
	}
}

func validateSignup(in SignupInput) error {
	err := validation.ValidateRequired(
		"fullName", in.FullName,
		"email", in.Email,
		"howDidYouFindUs", in.HowDidYouFindUs,
	)
	if err != nil {
		return &ValidationError{Message: "All fields are required"}
	}
	if err := validation.ValidateName(in.FullName); err != nil {
		return &ValidationError{Message: err.Error()}
	}
	if err := validation.ValidateEmail(strings.TrimSpace(in.Email)); err != nil {
		return &ValidationError{Message: "Invalid email address"}
	}
	return nil
}

// Signup stores a new lead. A repeated email (case-insensitive) is not an
// error: the existing record is left untouched and Existing is set.
func (s *SignupService) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	if err := validateSignup(in); err != nil {
		return nil, err
	}

	email := strings.TrimSpace(in.Email)

	signups, err := s.signups.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signups: %w", err)
	}
	for _, existing := range signups {
		if strings.EqualFold(existing.Email, email) {
			slog.Info("returning signup", "email", email)
			return &SignupResult{Existing: true, UserID: existing.UserID, Message: MessageWelcomeBack}, nil
		}
	}

	now := s.now().UTC()
	timestamp := in.Timestamp
	if timestamp.IsZero() {
		timestamp = now
	}

	userID := uuid.New().String()
	signup := model.Signup{
		FullName:        strings.TrimSpace(in.FullName),
		Email:           email,
		HowDidYouFindUs: strings.TrimSpace(in.HowDidYouFindUs),
		Timestamp:       timestamp.UTC(),
		UserAgent:       in.UserAgent,
		Referrer:        in.Referrer,
		UserID:          userID,
	}
	if err := s.signups.AppendOne(ctx, signup); err != nil {
		return nil, fmt.Errorf("failed to save signup: %w", err)
	}

	user := model.User{
		ID:        userID,
		Email:     strings.ToLower(email),
		FullName:  signup.FullName,
		Source:    signup.HowDidYouFindUs,
		CreatedAt: now,
	}
	if err := s.users.AppendOne(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	_, err = s.activities.LogActivity(ctx, userID, email, model.ActivitySignup,
		"User signed up via "+signup.HowDidYouFindUs,
		map[string]any{"source": signup.HowDidYouFindUs, "referrer": signup.Referrer},
	)
	if err != nil {
		slog.Warn("failed to log signup activity", "error", err, "email", email)
	}

	if s.email != nil {
		if err := s.email.SendWelcomeEmail(ctx, email, signup.FullName); err != nil {
			slog.Warn("failed to send welcome email", "error", err, "email", email)
		}
		s.email.AddContact(ctx, email, signup.FullName)
	}

	slog.Info("new signup", "email", email, "source", signup.HowDidYouFindUs)
	return &SignupResult{UserID: userID, Message: MessageSignupCreated}, nil
}

// Dashboard summarizes signups; "today" is the current UTC date
func (s *SignupService) Dashboard(ctx context.Context) (*SignupDashboard, error) {
	signups, err := s.signups.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signups: %w", err)
	}

	today := s.now().UTC().Format(time.DateOnly)
	stats := SignupStats{
		TotalSignups:    len(signups),
		SourceBreakdown: map[string]int{},
	}
	for _, signup := range signups {
		if signup.Timestamp.UTC().Format(time.DateOnly) == today {
			stats.TodaySignups++
		}
		source := signup.HowDidYouFindUs
		if source == "" {
			source = "unknown"
		}
		stats.SourceBreakdown[source]++
	}

	return &SignupDashboard{
		Stats:         stats,
		RecentSignups: newestFirst(signups, 50, func(s model.Signup) time.Time { return s.Timestamp }),
	}, nil
}

func (s *SignupService) All(ctx context.Context) ([]model.Signup, error) {
	signups, err := s.signups.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load signups: %w", err)
	}
	return signups, nil
}
