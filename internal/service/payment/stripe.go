package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/soraformula/soraformula/internal/config"
	"github.com/soraformula/soraformula/internal/model"
	"github.com/soraformula/soraformula/internal/service"
	"github.com/stripe/stripe-go/v81"
	checkoutsession "github.com/stripe/stripe-go/v81/checkout/session"
	"github.com/stripe/stripe-go/v81/webhook"
)

type StripeProvider struct {
	cfg      *config.Config
	services Services
	now      func() time.Time
}

func NewStripeProvider(cfg *config.Config, services Services) *StripeProvider {
	stripe.Key = cfg.StripeSecretKey

	slog.Info("stripe provider initialized", "app_env", cfg.AppEnv)

	return &StripeProvider{
		cfg:      cfg,
		services: services,
		now:      time.Now,
	}
}

func (s *StripeProvider) Name() string {
	return model.ProviderStripe
}

func (s *StripeProvider) CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error) {
	successURL := fmt.Sprintf("%s/success?session_id={CHECKOUT_SESSION_ID}", s.cfg.FrontendURL)
	cancelURL := fmt.Sprintf("%s/pricing", s.cfg.FrontendURL)

	params := &stripe.CheckoutSessionParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		SuccessURL: stripe.String(successURL),
		CancelURL:  stripe.String(cancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(req.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		Metadata: map[string]string{
			"userEmail": req.UserEmail,
			"planName":  req.PlanName,
		},
	}
	params.Context = ctx
	if req.UserEmail != "" {
		params.CustomerEmail = stripe.String(req.UserEmail)
	}

	sess, err := checkoutsession.New(params)
	if err != nil {
		return nil, fmt.Errorf("failed to create checkout session: %w", err)
	}

	s.services.logActivity(ctx, req.UserEmail, req.UserEmail, "Checkout started for "+req.PlanName, map[string]any{
		"sessionId": sess.ID,
		"amount":    0,
		"planName":  req.PlanName,
		"priceId":   req.PriceID,
	})

	slog.Info("stripe checkout created", "email", req.UserEmail, "plan", req.PlanName, "session_id", sess.ID)
	return &CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}

func (s *StripeProvider) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := checkoutsession.Get(sessionID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve checkout session: %w", err)
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}

	return &SessionStatus{
		Status:        string(sess.PaymentStatus),
		CustomerEmail: email,
		AmountTotal:   sess.AmountTotal,
	}, nil
}

func (s *StripeProvider) HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error {
	signature := headers.Get("Stripe-Signature")

	// Stripe's API versions are backwards compatible for the fields read here
	event, err := webhook.ConstructEventWithOptions(
		payload,
		signature,
		s.cfg.StripeWebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSignature, err)
	}

	slog.Info("stripe webhook received", "event_type", event.Type, "event_id", event.ID)

	switch event.Type {
	case "checkout.session.completed":
		return s.handleCheckoutSessionCompleted(ctx, event.Data.Raw)
	case "invoice.payment_succeeded":
		return s.handleInvoice(ctx, event.Data.Raw, model.PaymentStatusCompleted)
	case "invoice.payment_failed":
		return s.handleInvoice(ctx, event.Data.Raw, model.PaymentStatusFailed)
	case "customer.subscription.deleted":
		return s.handleSubscriptionDeleted(ctx, event.Data.Raw)
	default:
		slog.Debug("stripe webhook event ignored", "event_type", event.Type)
		return nil
	}
}

func (s *StripeProvider) handleCheckoutSessionCompleted(ctx context.Context, data json.RawMessage) error {
	var checkoutSession struct {
		ID              string            `json:"id"`
		AmountTotal     int64             `json:"amount_total"`
		CustomerEmail   string            `json:"customer_email"`
		CustomerDetails *struct {
			Email string `json:"email"`
		} `json:"customer_details"`
		Subscription string            `json:"subscription"`
		Metadata     map[string]string `json:"metadata"`
	}

	if err := json.Unmarshal(data, &checkoutSession); err != nil {
		return fmt.Errorf("failed to parse checkout session: %w", err)
	}

	email := checkoutSession.Metadata["userEmail"]
	if email == "" {
		email = checkoutSession.CustomerEmail
	}
	if email == "" && checkoutSession.CustomerDetails != nil {
		email = checkoutSession.CustomerDetails.Email
	}
	if email == "" {
		slog.Warn("stripe checkout session has no customer email, skipping", "session_id", checkoutSession.ID)
		return nil
	}

	plan := checkoutSession.Metadata["planName"]
	amount := model.CentsToAmount(checkoutSession.AmountTotal)

	return s.services.recordPayment(ctx, model.Payment{
		ID:             checkoutSession.ID,
		UserEmail:      email,
		Amount:         amount,
		Status:         model.PaymentStatusCompleted,
		Plan:           plan,
		Timestamp:      s.now().UTC(),
		SubscriptionID: checkoutSession.Subscription,
	}, paymentDetails("completed", amount, plan))
}

func (s *StripeProvider) handleInvoice(ctx context.Context, data json.RawMessage, status string) error {
	var invoice struct {
		ID             string `json:"id"`
		CustomerEmail  string `json:"customer_email"`
		AmountPaid     int64  `json:"amount_paid"`
		AmountDue      int64  `json:"amount_due"`
		SubscriptionID string `json:"subscription"`
		Parent         *struct {
			SubscriptionDetails *struct {
				Subscription string `json:"subscription"`
			} `json:"subscription_details"`
		} `json:"parent"`
	}

	if err := json.Unmarshal(data, &invoice); err != nil {
		return fmt.Errorf("failed to parse invoice: %w", err)
	}

	subscriptionID := invoice.SubscriptionID
	if subscriptionID == "" && invoice.Parent != nil && invoice.Parent.SubscriptionDetails != nil {
		subscriptionID = invoice.Parent.SubscriptionDetails.Subscription
	}

	email := invoice.CustomerEmail
	if email == "" && subscriptionID != "" {
		email, _ = s.services.Subscriptions.EmailForSubscription(ctx, subscriptionID)
	}
	if email == "" {
		slog.Warn("stripe invoice has no customer email, skipping", "invoice_id", invoice.ID)
		return nil
	}

	cents := invoice.AmountPaid
	verb := "succeeded"
	if status == model.PaymentStatusFailed {
		cents = invoice.AmountDue
		verb = "failed"
	}
	amount := model.CentsToAmount(cents)

	return s.services.recordPayment(ctx, model.Payment{
		ID:             invoice.ID,
		UserEmail:      email,
		Amount:         amount,
		Status:         status,
		Plan:           "subscription",
		Timestamp:      s.now().UTC(),
		SubscriptionID: subscriptionID,
	}, paymentDetails(verb, amount, ""))
}

func (s *StripeProvider) handleSubscriptionDeleted(ctx context.Context, data json.RawMessage) error {
	var subscription struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal(data, &subscription); err != nil {
		return fmt.Errorf("failed to parse subscription: %w", err)
	}

	email, err := s.services.Subscriptions.EmailForSubscription(ctx, subscription.ID)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			slog.Warn("stripe subscription not found, ignoring deletion", "stripe_sub_id", subscription.ID)
			return nil
		}
		return err
	}

	s.services.logActivity(ctx, email, email, "Subscription cancelled", map[string]any{
		"subscriptionId": subscription.ID,
	})

	slog.Info("stripe subscription deleted", "email", email, "stripe_sub_id", subscription.ID)
	return nil
}
