package entity

import (
	"context"
	"time"
)

type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityNormal TaskPriority = "normal"
	TaskPriorityHigh   TaskPriority = "high"
)

const TaskTypeCallBackProspect = "call back prospect"

// Task is a follow-up reminder tied to a client. RelatedTo is a non-owning
// reference to Client.ID.
type Task struct {
	ID        int64        `json:"id"`
	RelatedTo int64        `json:"related_to"`
	Type      string       `json:"type"`
	Priority  TaskPriority `json:"priority"`
	DueDate   time.Time    `json:"due_date"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"created_at"`
}

type TaskRepositoryInterface interface {
	Create(ctx context.Context, t *Task) error
}
