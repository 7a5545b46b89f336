package payment

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrInvalidSignature marks a webhook whose signature did not verify
	ErrInvalidSignature = errors.New("invalid webhook signature")
	// ErrSessionStatusUnsupported is returned by providers without a session lookup
	ErrSessionStatusUnsupported = errors.New("session status lookup not supported")
)

type CheckoutRequest struct {
	PriceID   string
	UserEmail string
	PlanName  string
}

type CheckoutSession struct {
	ID  string
	URL string
}

type SessionStatus struct {
	Status        string `json:"status"`
	CustomerEmail string `json:"customerEmail"`
	AmountTotal   int64  `json:"amountTotal"` // smallest currency unit, as reported by the provider
}

// Provider defines the interface that all payment providers must implement
type Provider interface {
	// CreateCheckout starts a hosted checkout for a subscription plan
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*CheckoutSession, error)

	// HandleWebhook verifies and processes a webhook delivery
	HandleWebhook(ctx context.Context, payload []byte, headers http.Header) error

	// SessionStatus looks up a checkout session by id
	SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)

	// Name returns the provider name (e.g., "polar", "stripe")
	Name() string
}
