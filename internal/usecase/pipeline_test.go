package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

func TestPipelineHappyPath(t *testing.T) {
	p := newPipeline()
	for _, s := range []PipelineState{StateNormalized, StateValidated, StateCommitted, StateNotified, StateResponded} {
		require.NoError(t, p.advance(s))
	}
	assert.True(t, p.state.Terminal())
	assert.Len(t, p.trail, 6)
}

func TestPipelineRejectsIllegalTransitions(t *testing.T) {
	p := newPipeline()
	assert.Error(t, p.advance(StateCommitted))

	require.NoError(t, p.advance(StateNormalized))
	require.NoError(t, p.advance(StateSpamRejected))
	assert.Error(t, p.advance(StateValidated), "terminal states have no exits")
	assert.Error(t, p.advance(StateNormalized), "no backward transitions")
}

func TestTransactionStopsAtFirstFailure(t *testing.T) {
	uow := newMemoryUnitOfWork()
	var ran []string

	txn := NewTransaction()
	txn.AddOperation("first", func(context.Context, entity.Stores) error {
		ran = append(ran, "first")
		return nil
	})
	txn.AddOperation("second", func(context.Context, entity.Stores) error {
		ran = append(ran, "second")
		return errors.New("boom")
	})
	txn.AddOperation("third", func(context.Context, entity.Stores) error {
		ran = append(ran, "third")
		return nil
	})

	err := txn.Execute(context.Background(), uow)

	assert.EqualError(t, err, "operation 'second' failed: boom (rolled back 1 operations)")
	assert.Equal(t, []string{"first", "second"}, ran)
}
