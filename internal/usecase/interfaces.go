package usecase

import (
	"context"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// Notifier delivers a lead summary to staff. Implementations should honour
// ctx but the dispatcher enforces its own bound regardless.
type Notifier interface {
	NotifyLead(ctx context.Context, n entity.LeadNotification) error
}

// DuplicateGuard reports whether a submission fingerprint is seen for the
// first time within its window. Forget releases a fingerprint whose
// submission was not persisted, so a retry is processed normally.
type DuplicateGuard interface {
	IsNew(ctx context.Context, fingerprint string) (bool, error)
	Forget(ctx context.Context, fingerprint string) error
}

// MetricsRecorder receives pipeline outcome counters.
type MetricsRecorder interface {
	RecordSubmission(outcome string)
	RecordNotification(result string)
}

type nopRecorder struct{}

func (nopRecorder) RecordSubmission(string)   {}
func (nopRecorder) RecordNotification(string) {}
