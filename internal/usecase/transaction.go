package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// Transaction is an ordered list of named operations executed inside a single
// unit of work. The first failing operation aborts the rest and the unit of
// work rolls everything back.
type Transaction struct {
	operations []Operation
}

type Operation struct {
	Name string
	Fn   func(ctx context.Context, stores entity.Stores) error
}

func NewTransaction() *Transaction {
	return &Transaction{operations: []Operation{}}
}

func (t *Transaction) AddOperation(name string, fn func(ctx context.Context, stores entity.Stores) error) {
	t.operations = append(t.operations, Operation{name, fn})
}

func (t *Transaction) Execute(ctx context.Context, uow entity.UnitOfWork) error {
	return uow.Do(ctx, func(ctx context.Context, stores entity.Stores) error {
		for i, op := range t.operations {
			if err := op.Fn(ctx, stores); err != nil {
				return fmt.Errorf("operation '%s' failed: %w (rolled back %d operations)", op.Name, err, i)
			}
		}
		return nil
	})
}
