package model

import (
	"fmt"
	"time"
)

const (
	PaymentStatusCompleted = "completed"
	PaymentStatusPending   = "pending"
	PaymentStatusFailed    = "failed"
)

const (
	ProviderPolar  = "polar"
	ProviderStripe = "stripe"
)

const (
	SubscriptionStatusActive   = "active"
	SubscriptionStatusInactive = "inactive"
)

// Payment is written once per provider event and never updated
type Payment struct {
	ID             string    `json:"id"` // provider session/invoice/order id
	UserID         string    `json:"userId"`
	UserEmail      string    `json:"userEmail"`
	Amount         float64   `json:"amount"` // currency units, not cents
	Status         string    `json:"status"`
	Plan           string    `json:"plan"`
	Timestamp      time.Time `json:"timestamp"`
	SubscriptionID string    `json:"subscriptionId,omitempty"`
}

func (p *Payment) IsCompleted() bool {
	return p.Status == PaymentStatusCompleted
}

func (p *Payment) FormatAmount() string {
	return fmt.Sprintf("$%.2f", p.Amount)
}

// SubscriptionStatus is derived from the completed payments of one email
type SubscriptionStatus struct {
	HasActiveSubscription bool     `json:"hasActiveSubscription"`
	SubscriptionStatus    string   `json:"subscriptionStatus"`
	LatestPayment         *Payment `json:"latestPayment"`
	TotalSpent            float64  `json:"totalSpent"`
}

// CentsToAmount converts a provider amount in cents to currency units
func CentsToAmount(cents int64) float64 {
	return float64(cents) / 100.0
}
