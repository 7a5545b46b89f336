package model

import (
	"time"
)

// User is created on first signup and keyed by lowercased email
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	Source    string    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary is the admin rollup of one signup joined with its activities and payments
type UserSummary struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	FullName           string     `json:"fullName"`
	Source             string     `json:"source"`
	SignupDate         time.Time  `json:"signupDate"`
	TotalActivities    int        `json:"totalActivities"`
	Downloads          int        `json:"downloads"`
	Outputs            int        `json:"outputs"`
	Questions          int        `json:"questions"`
	Payments           int        `json:"payments"`
	TotalSpent         float64    `json:"totalSpent"`
	LastActivity       *time.Time `json:"lastActivity"`
	SubscriptionStatus string     `json:"subscriptionStatus"`
}

const (
	UserStatusPaid = "paid"
	UserStatusFree = "free"
)
