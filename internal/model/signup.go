package model

import "time"

type Signup struct {
	FullName        string    `json:"fullName"`
	Email           string    `json:"email"`
	HowDidYouFindUs string    `json:"howDidYouFindUs"`
	Timestamp       time.Time `json:"timestamp"`
	UserAgent       string    `json:"userAgent,omitempty"`
	Referrer        string    `json:"referrer,omitempty"`
	UserID          string    `json:"userId,omitempty"`
}
