package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

const (
	MessageSuccess     = "Thank you, we will get back to you shortly."
	MessageServerError = "Server error. Please try again later."
)

type CaptureLeadDeps struct {
	UnitOfWork      entity.UnitOfWork
	Validator       *Validator
	Dispatcher      *NotificationDispatcher
	Guard           DuplicateGuard
	Metrics         MetricsRecorder
	Location        *time.Location
	HoneypotEnabled bool
	Now             func() time.Time
}

// CaptureLeadUseCase sequences normalization, spam filtering, validation, the
// transactional client/task write and the post-commit notification.
type CaptureLeadUseCase struct {
	uow             entity.UnitOfWork
	validator       *Validator
	dispatcher      *NotificationDispatcher
	guard           DuplicateGuard
	metrics         MetricsRecorder
	location        *time.Location
	honeypotEnabled bool
	now             func() time.Time
}

func NewCaptureLeadUseCase(deps CaptureLeadDeps) *CaptureLeadUseCase {
	uc := &CaptureLeadUseCase{
		uow:             deps.UnitOfWork,
		validator:       deps.Validator,
		dispatcher:      deps.Dispatcher,
		guard:           deps.Guard,
		metrics:         deps.Metrics,
		location:        deps.Location,
		honeypotEnabled: deps.HoneypotEnabled,
		now:             deps.Now,
	}
	if uc.validator == nil {
		uc.validator = NewValidator(false)
	}
	if uc.metrics == nil {
		uc.metrics = nopRecorder{}
	}
	if uc.location == nil {
		uc.location = time.UTC
	}
	if uc.now == nil {
		uc.now = time.Now
	}
	return uc
}

func (uc *CaptureLeadUseCase) Execute(ctx context.Context, input CaptureLeadInput) (*CaptureLeadOutput, error) {
	p := newPipeline()

	submission, err := NormalizeRequest(input.ContentType, input.Body)
	if err != nil {
		uc.metrics.RecordSubmission("malformed")
		return nil, err
	}
	submission.ReceivedAt = input.ReceivedAt
	if submission.ReceivedAt.IsZero() {
		submission.ReceivedAt = uc.now()
	}
	if err := p.advance(StateNormalized); err != nil {
		return nil, uc.internal(err)
	}

	if uc.honeypotEnabled && IsSpam(submission.Honeypot) {
		if err := p.advance(StateSpamRejected); err != nil {
			return nil, uc.internal(err)
		}
		slog.Info("honeypot triggered, absorbing submission")
		uc.metrics.RecordSubmission("spam")
		return &CaptureLeadOutput{Success: true, Message: MessageSuccess, State: p.state}, nil
	}

	if err := p.advance(StateValidated); err != nil {
		return nil, uc.internal(err)
	}
	result := uc.validator.Validate(submission)
	if !result.Valid() {
		if err := p.advance(StateValidationFailed); err != nil {
			return nil, uc.internal(err)
		}
		uc.metrics.RecordSubmission("invalid")
		first := result.First()
		return nil, &DomainError{Code: CodeValidation, Message: first.Message}
	}

	fingerprint := Fingerprint(submission)
	if uc.isDuplicate(ctx, fingerprint) {
		if err := p.advance(StateDuplicate); err != nil {
			return nil, uc.internal(err)
		}
		slog.Info("duplicate submission suppressed")
		uc.metrics.RecordSubmission("duplicate")
		return &CaptureLeadOutput{Success: true, Message: MessageSuccess, State: p.state}, nil
	}

	var (
		client  *entity.Client
		created bool
		task    *entity.Task
	)

	txn := NewTransaction()
	txn.AddOperation("create_or_reuse_client", func(ctx context.Context, stores entity.Stores) error {
		var err error
		client, created, err = NewLeadRepository(stores.Clients).CreateOrReuse(ctx, submission)
		return err
	})
	txn.AddOperation("schedule_followup", func(ctx context.Context, stores entity.Stores) error {
		var err error
		task, err = NewFollowupScheduler(stores.Tasks, uc.location).Schedule(ctx, client.ID, submission.ReceivedAt)
		return err
	})

	if err := txn.Execute(ctx, uc.uow); err != nil {
		_ = p.advance(StatePersistenceFailed)
		slog.Error("lead persistence failed", "email", submission.Email, "error", err)
		uc.forget(fingerprint)
		uc.metrics.RecordSubmission("persistence_failed")
		return nil, &TechnicalError{Code: CodePersistenceFailure, Message: MessageServerError, Err: err}
	}
	if err := p.advance(StateCommitted); err != nil {
		return nil, uc.internal(err)
	}
	slog.Info("lead captured",
		"client_id", client.ID,
		"new_client", created,
		"task_id", task.ID,
		"due_date", task.DueDate.Format(time.DateOnly),
	)
	uc.metrics.RecordSubmission("captured")

	notified := uc.dispatcher.Dispatch(entity.LeadNotification{
		EventID:     uuid.New().String(),
		ClientID:    client.ID,
		NewClient:   created,
		ContactName: submission.ContactName,
		CompanyName: submission.CompanyName,
		Email:       submission.Email,
		Phone:       submission.Phone,
		Message:     submission.Message,
		SubmittedAt: submission.ReceivedAt,
	})
	if err := p.advance(StateNotified); err != nil {
		return nil, uc.internal(err)
	}
	if err := p.advance(StateResponded); err != nil {
		return nil, uc.internal(err)
	}

	clientID := client.ID
	return &CaptureLeadOutput{
		Success:      true,
		Message:      MessageSuccess,
		ClientID:     &clientID,
		State:        p.state,
		Notification: notified,
	}, nil
}

func (uc *CaptureLeadUseCase) isDuplicate(ctx context.Context, fingerprint string) bool {
	if uc.guard == nil {
		return false
	}
	isNew, err := uc.guard.IsNew(ctx, fingerprint)
	if err != nil {
		slog.Warn("duplicate guard unavailable, continuing", "error", err)
		return false
	}
	return !isNew
}

func (uc *CaptureLeadUseCase) forget(fingerprint string) {
	if uc.guard == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := uc.guard.Forget(ctx, fingerprint); err != nil {
		slog.Warn("could not release submission fingerprint", "error", err)
	}
}

func (uc *CaptureLeadUseCase) internal(err error) error {
	slog.Error("lead pipeline invariant broken", "error", err)
	return &TechnicalError{Code: CodePersistenceFailure, Message: MessageServerError, Err: err}
}

// Fingerprint identifies a submission event by its content.
func Fingerprint(s entity.Submission) string {
	h := sha256.New()
	for _, part := range []string{strings.ToLower(s.Email), s.ContactName, s.CompanyName, s.Phone, s.Message} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
