package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/repository"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

// SubscriptionService derives paid status from completed payment records
type SubscriptionService struct {
	payments repository.Collection[model.Payment]
}

func NewSubscriptionService(payments repository.Collection[model.Payment]) *SubscriptionService {
	return &SubscriptionService{payments: payments}
}

// RecordPayment appends a payment unless one with the same id exists.
// It reports whether the payment was written.
func (s *SubscriptionService) RecordPayment(ctx context.Context, payment model.Payment) (bool, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return false, err
	}
	for _, p := range payments {
		if payment.ID != "" && p.ID == payment.ID {
			slog.Info("payment already recorded", "payment_id", payment.ID)
			return false, nil
		}
	}

	if payment.Timestamp.IsZero() {
		payment.Timestamp = time.Now().UTC()
	}
	if err := s.payments.AppendOne(ctx, payment); err != nil {
		return false, fmt.Errorf("failed to record payment: %w", err)
	}

	slog.Info("payment recorded", "payment_id", payment.ID, "email", payment.UserEmail, "status", payment.Status, "amount", payment.Amount)
	return true, nil
}

func (s *SubscriptionService) Payments(ctx context.Context) ([]model.Payment, error) {
	payments, err := s.payments.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load payments: %w", err)
	}
	return payments, nil
}

// Recent returns at most n payments, newest first
func (s *SubscriptionService) Recent(ctx context.Context, n int) ([]model.Payment, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, err
	}
	return newestFirst(payments, n, func(p model.Payment) time.Time { return p.Timestamp }), nil
}

// Status matches completed payments by email, ignoring case
func (s *SubscriptionService) Status(ctx context.Context, email string) (*model.SubscriptionStatus, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return nil, err
	}
	return statusFor(payments, email), nil
}

func statusFor(payments []model.Payment, email string) *model.SubscriptionStatus {
	status := &model.SubscriptionStatus{SubscriptionStatus: model.SubscriptionStatusInactive}
	for i := range payments {
		p := payments[i]
		if !p.IsCompleted() || !strings.EqualFold(p.UserEmail, email) {
			continue
		}
		status.TotalSpent += p.Amount
		if status.LatestPayment == nil || !p.Timestamp.Before(status.LatestPayment.Timestamp) {
			status.LatestPayment = &p
		}
	}
	if status.LatestPayment != nil {
		status.HasActiveSubscription = true
		status.SubscriptionStatus = model.SubscriptionStatusActive
	}
	return status
}

func (s *SubscriptionService) HasActiveSubscription(ctx context.Context, email string) (bool, error) {
	status, err := s.Status(ctx, email)
	if err != nil {
		return false, err
	}
	return status.HasActiveSubscription, nil
}

// EmailForSubscription finds the customer email of an earlier payment on the subscription
func (s *SubscriptionService) EmailForSubscription(ctx context.Context, subscriptionID string) (string, error) {
	payments, err := s.Payments(ctx)
	if err != nil {
		return "", err
	}
	for i := len(payments) - 1; i >= 0; i-- {
		if payments[i].SubscriptionID == subscriptionID && payments[i].UserEmail != "" {
			return payments[i].UserEmail, nil
		}
	}
	return "", ErrSubscriptionNotFound
}
