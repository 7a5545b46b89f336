package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/service"
)

// Services are the collaborators webhook handlers write through
type Services struct {
	Subscriptions *service.SubscriptionService
	Activities    *service.ActivityService
	Email         *service.EmailService
}

// recordPayment stores the payment and, unless it was a redelivery, logs
// a payment activity. Webhook payments use the email as user id.
func (s Services) recordPayment(ctx context.Context, p model.Payment, details string) error {
	if p.UserID == "" {
		p.UserID = p.UserEmail
	}

	recorded, err := s.Subscriptions.RecordPayment(ctx, p)
	if err != nil {
		return err
	}
	if !recorded {
		return nil
	}

	s.logActivity(ctx, p.UserID, p.UserEmail, details, map[string]any{
		"paymentId": p.ID,
		"amount":    p.Amount,
		"status":    p.Status,
		"plan":      p.Plan,
	})

	if p.IsCompleted() && s.Email != nil && p.UserEmail != "" {
		if err := s.Email.SendPaymentConfirmation(ctx, p.UserEmail, p.Plan, p.Amount); err != nil {
			slog.Warn("failed to send payment confirmation", "error", err, "email", p.UserEmail)
		}
	}
	return nil
}

func (s Services) logActivity(ctx context.Context, userID, email, details string, metadata map[string]any) {
	_, err := s.Activities.LogActivity(ctx, userID, email, model.ActivityPayment, details, metadata)
	if err != nil {
		slog.Warn("failed to log payment activity", "error", err, "email", email)
	}
}

func paymentDetails(verb string, amount float64, plan string) string {
	if plan == "" {
		return fmt.Sprintf("Payment %s: $%.2f", verb, amount)
	}
	return fmt.Sprintf("Payment %s: $%.2f for %s", verb, amount, plan)
}
