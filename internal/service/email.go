package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client     *resend.Client
	fromEmail  string
	audienceID string
	isDev      bool
	appURL     string
	appName    string
}

// NewEmailService logs instead of sending in development or without an API key
func NewEmailService(apiKey, fromEmail, audienceID, appURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:     client,
		fromEmail:  fromEmail,
		audienceID: audienceID,
		isDev:      isDev,
		appURL:     appURL,
		appName:    appName,
	}
}

func (s *EmailService) send(ctx context.Context, kind, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", kind, "to", to, "subject", subject)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send %s email: %w", kind, err)
	}
	slog.Info("email sent", "type", kind, "to", to)
	return nil
}

func (s *EmailService) SendWelcomeEmail(ctx context.Context, email, name string) error {
	subject, body := welcomeEmailTemplate(name, s.appURL, s.appName)
	return s.send(ctx, "welcome", email, subject, body)
}

func (s *EmailService) SendPaymentConfirmation(ctx context.Context, email, plan string, amount float64) error {
	subject, body := paymentConfirmationTemplate(plan, amount, s.appURL, s.appName)
	return s.send(ctx, "payment_confirmation", email, subject, body)
}

// AddContact puts a signup on the marketing audience. Failures are logged only.
func (s *EmailService) AddContact(ctx context.Context, email, name string) {
	if s.isDev {
		slog.Info("audience contact added (dev mode)", "email", email)
		return
	}

	if s.client == nil || s.audienceID == "" {
		slog.Debug("no audience configured, skipping contact", "email", email)
		return
	}

	params := &resend.CreateContactRequest{
		Email:      email,
		FirstName:  name,
		AudienceId: s.audienceID,
	}

	if _, err := s.client.Contacts.Create(params); err != nil {
		slog.Warn("failed to add audience contact", "error", err, "email", email)
		return
	}

	slog.Info("audience contact added", "email", email)
}
