package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// LeadRepository finds or creates a client by email. It must be bound to the
// stores of an open unit of work.
type LeadRepository struct {
	Clients entity.ClientRepositoryInterface
}

func NewLeadRepository(clients entity.ClientRepositoryInterface) *LeadRepository {
	return &LeadRepository{Clients: clients}
}

// FindByEmail is an exact-match lookup. It returns nil, nil when absent.
func (r *LeadRepository) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	client, err := r.Clients.FindByEmail(ctx, email)
	if errors.Is(err, entity.ErrClientNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find client by email: %w", err)
	}
	return client, nil
}

// CreateOrReuse returns the existing client for the submission's email
// untouched, or inserts a new lead. created reports which happened.
func (r *LeadRepository) CreateOrReuse(ctx context.Context, s entity.Submission) (client *entity.Client, created bool, err error) {
	existing, err := r.FindByEmail(ctx, s.Email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	client = entity.NewLeadClient(s)
	err = r.Clients.Create(ctx, client)
	if errors.Is(err, entity.ErrEmailAlreadyExists) {
		// A concurrent submission inserted the same email first.
		existing, err = r.FindByEmail(ctx, s.Email)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("client %q vanished after unique violation", s.Email)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("create client: %w", err)
	}

	return client, true, nil
}
