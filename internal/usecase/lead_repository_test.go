package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

func TestLeadRepositoryCreatesNewClient(t *testing.T) {
	clients := new(MockClientRepository)
	clients.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, entity.ErrClientNotFound).Once()
	clients.On("Create", mock.Anything, mock.MatchedBy(func(c *entity.Client) bool {
		return c.Status == entity.ClientStatusLead && c.CompanyName == nil && c.Phone == nil
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Client).ID = 7
	}).Return(nil).Once()

	client, created, err := NewLeadRepository(clients).CreateOrReuse(context.Background(), entity.Submission{
		ContactName: "Alice",
		Email:       "alice@example.com",
	})

	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, int64(7), client.ID)
	clients.AssertExpectations(t)
}

func TestLeadRepositoryReusesExistingClient(t *testing.T) {
	existing := &entity.Client{ID: 3, ContactName: "Alice", Email: "alice@example.com", Status: entity.ClientStatusLead}
	clients := new(MockClientRepository)
	clients.On("FindByEmail", mock.Anything, "alice@example.com").Return(existing, nil).Once()

	client, created, err := NewLeadRepository(clients).CreateOrReuse(context.Background(), entity.Submission{
		ContactName: "Alice Updated",
		Email:       "alice@example.com",
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, existing, client)
	clients.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestLeadRepositoryRecoversFromUniqueViolation(t *testing.T) {
	winner := &entity.Client{ID: 9, Email: "alice@example.com"}
	clients := new(MockClientRepository)
	clients.On("FindByEmail", mock.Anything, "alice@example.com").Return(nil, entity.ErrClientNotFound).Once()
	clients.On("Create", mock.Anything, mock.Anything).Return(entity.ErrEmailAlreadyExists).Once()
	clients.On("FindByEmail", mock.Anything, "alice@example.com").Return(winner, nil).Once()

	client, created, err := NewLeadRepository(clients).CreateOrReuse(context.Background(), entity.Submission{
		ContactName: "Alice",
		Email:       "alice@example.com",
	})

	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, int64(9), client.ID)
	clients.AssertExpectations(t)
}

func TestLeadRepositoryEmailMatchIsExact(t *testing.T) {
	clients := new(MockClientRepository)
	clients.On("FindByEmail", mock.Anything, "Alice@Example.com").Return(nil, entity.ErrClientNotFound).Once()
	clients.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	_, created, err := NewLeadRepository(clients).CreateOrReuse(context.Background(), entity.Submission{
		ContactName: "Alice",
		Email:       "Alice@Example.com",
	})

	require.NoError(t, err)
	assert.True(t, created)
	clients.AssertExpectations(t)
}

func TestLeadRepositoryStorageError(t *testing.T) {
	clients := new(MockClientRepository)
	clients.On("FindByEmail", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	_, _, err := NewLeadRepository(clients).CreateOrReuse(context.Background(), entity.Submission{Email: "a@example.com"})

	assert.ErrorContains(t, err, "find client by email")
}
