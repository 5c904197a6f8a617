package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

const defaultNotifyTimeout = 5 * time.Second

// NotificationDispatcher sends lead summaries asynchronously. Each send runs
// under its own timeout, detached from the request, and reports on a
// dedicated channel that the request path never reads.
type NotificationDispatcher struct {
	notifier Notifier
	timeout  time.Duration
	metrics  MetricsRecorder
	wg       sync.WaitGroup
}

func NewNotificationDispatcher(notifier Notifier, timeout time.Duration, metrics MetricsRecorder) *NotificationDispatcher {
	if timeout <= 0 {
		timeout = defaultNotifyTimeout
	}
	if metrics == nil {
		metrics = nopRecorder{}
	}
	return &NotificationDispatcher{notifier: notifier, timeout: timeout, metrics: metrics}
}

// Dispatch starts an at-most-once send and returns immediately. The returned
// channel yields a NOTIFICATION_FAILURE error or nothing, then closes.
func (d *NotificationDispatcher) Dispatch(n entity.LeadNotification) <-chan error {
	errCh := make(chan error, 1)
	if d == nil || d.notifier == nil {
		close(errCh)
		return errCh
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer close(errCh)

		if err := d.send(n); err != nil {
			slog.Error("lead notification failed",
				"client_id", n.ClientID,
				"event_id", n.EventID,
				"email", n.Email,
				"error", err,
			)
			d.metrics.RecordNotification("failed")
			errCh <- &TechnicalError{Code: CodeNotificationFailure, Message: "lead notification failed", Err: err}
			return
		}

		slog.Info("lead notification sent", "client_id", n.ClientID, "event_id", n.EventID)
		d.metrics.RecordNotification("sent")
	}()

	return errCh
}

// Wait blocks until every in-flight notification has finished.
func (d *NotificationDispatcher) Wait() {
	if d == nil {
		return
	}
	d.wg.Wait()
}

func (d *NotificationDispatcher) send(n entity.LeadNotification) error {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("notifier panic: %v", r)
			}
		}()
		done <- d.notifier.NotifyLead(ctx, n)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("notification timed out after %s: %w", d.timeout, ctx.Err())
	}
}
