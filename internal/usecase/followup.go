package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// FollowupScheduler creates the high-priority call-back task for a client.
type FollowupScheduler struct {
	Tasks    entity.TaskRepositoryInterface
	Location *time.Location
}

func NewFollowupScheduler(tasks entity.TaskRepositoryInterface, loc *time.Location) *FollowupScheduler {
	if loc == nil {
		loc = time.UTC
	}
	return &FollowupScheduler{Tasks: tasks, Location: loc}
}

func (s *FollowupScheduler) Schedule(ctx context.Context, clientID int64, submittedAt time.Time) (*entity.Task, error) {
	task := &entity.Task{
		RelatedTo: clientID,
		Type:      entity.TaskTypeCallBackProspect,
		Priority:  entity.TaskPriorityHigh,
		DueDate:   DueDate(submittedAt, s.Location),
	}

	if err := s.Tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create follow-up task: %w", err)
	}
	return task, nil
}

// DueDate is the calendar day after submittedAt in loc, at midnight.
func DueDate(submittedAt time.Time, loc *time.Location) time.Time {
	y, m, d := submittedAt.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}
