package mail

import "time"

type LeadEmailData struct {
	ClientID    int64
	NewClient   bool
	ContactName string
	CompanyName string
	Email       string
	Phone       string
	Message     string
	SubmittedAt time.Time
}

// StaffNotifier sends lead summaries to a fixed staff mailbox.
type StaffNotifier struct {
	dialer   Dialer
	to       string
	from     string
	fromName string
}
