package entity

import "time"

// Submission is one contact-form post after normalization. It is never
// persisted as-is.
type Submission struct {
	ContactName string
	CompanyName string
	Email       string
	Phone       string
	Message     string
	Honeypot    string
	ReceivedAt  time.Time
}

// LeadNotification is the staff summary sent after a lead is committed.
type LeadNotification struct {
	EventID     string    `json:"event_id"`
	ClientID    int64     `json:"client_id"`
	NewClient   bool      `json:"new_client"`
	ContactName string    `json:"contact_name"`
	CompanyName string    `json:"company_name,omitempty"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Message     string    `json:"message,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}
