package model

import "time"

const (
	ActivitySignup   = "signup"
	ActivityPayment  = "payment"
	ActivityDownload = "download"
	ActivityOutput   = "output"
	ActivityQuestion = "question"
	ActivityView     = "view"
)

var activityTypes = map[string]bool{
	ActivitySignup:   true,
	ActivityPayment:  true,
	ActivityDownload: true,
	ActivityOutput:   true,
	ActivityQuestion: true,
	ActivityView:     true,
}

func IsActivityType(t string) bool {
	return activityTypes[t]
}

type Activity struct {
	ID        string         `json:"id"`
	UserID    string         `json:"userId"`
	UserEmail string         `json:"userEmail"`
	Type      string         `json:"type"`
	Details   string         `json:"details"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}
