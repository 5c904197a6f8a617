package entity

import "context"

// Stores are the repositories bound to one open unit of work.
type Stores struct {
	Clients ClientRepositoryInterface
	Tasks   TaskRepositoryInterface
}

// UnitOfWork runs fn atomically: every write made through stores commits
// together, or none does when fn returns an error.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
