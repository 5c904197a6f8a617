package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

const defaultTxTimeout = 5 * time.Second

// UnitOfWork runs client and task writes in one Postgres transaction.
//
// The transaction context is detached from the caller's cancellation and
// bounded by Timeout instead, so a client disconnect never leaves a half
// applied write: the work either commits or rolls back as a whole.
type UnitOfWork struct {
	DB      *sql.DB
	Timeout time.Duration
}

func NewUnitOfWork(db *sql.DB, timeout time.Duration) *UnitOfWork {
	if timeout <= 0 {
		timeout = defaultTxTimeout
	}
	return &UnitOfWork{DB: db, Timeout: timeout}
}

func (u *UnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores entity.Stores) error) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), u.Timeout)
	defer cancel()

	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	stores := entity.Stores{
		Clients: NewClientRepository(tx),
		Tasks:   NewTaskRepository(tx),
	}
	if err := fn(ctx, stores); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			slog.Error("rollback failed", "error", rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
