package usecase

import "time"

// CaptureLeadInput is the raw transport payload as received.
type CaptureLeadInput struct {
	ContentType string
	Body        []byte
	ReceivedAt  time.Time
}

type CaptureLeadOutput struct {
	Success  bool          `json:"success"`
	Message  string        `json:"message"`
	ClientID *int64        `json:"client_id,omitempty"`
	State    PipelineState `json:"-"`
	// Notification yields at most one NOTIFICATION_FAILURE error, then closes.
	// It is closed at once when no notifier is configured, and nil for spam
	// and duplicate outcomes.
	Notification <-chan error `json:"-"`
}
