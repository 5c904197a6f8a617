package database

import (
	"context"
	"fmt"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

type TaskRepository struct {
	DB DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{DB: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *entity.Task) error {
	query := `
		INSERT INTO tasks (related_to_id, type, priority, due_date, completed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.DB.QueryRowContext(ctx, query,
		t.RelatedTo,
		t.Type,
		string(t.Priority),
		t.DueDate,
		t.Completed,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert task: %w", err)
	}
	return nil
}
