package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/clicom-leads/internal/entity"
)

// memoryUnitOfWork stages writes and applies them only when fn succeeds.
type memoryUnitOfWork struct {
	mu           sync.Mutex
	clients      []entity.Client
	tasks        []entity.Task
	nextClientID int64
	nextTaskID   int64

	failClientCreate error
	failTaskCreate   error
}

func newMemoryUnitOfWork() *memoryUnitOfWork {
	return &memoryUnitOfWork{nextClientID: 1, nextTaskID: 1}
}

func (m *memoryUnitOfWork) Do(ctx context.Context, fn func(ctx context.Context, stores entity.Stores) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		uow:          m,
		clients:      append([]entity.Client(nil), m.clients...),
		tasks:        append([]entity.Task(nil), m.tasks...),
		nextClientID: m.nextClientID,
		nextTaskID:   m.nextTaskID,
	}
	if err := fn(ctx, entity.Stores{Clients: memoryClients{tx}, Tasks: memoryTasks{tx}}); err != nil {
		return err
	}

	m.clients, m.tasks = tx.clients, tx.tasks
	m.nextClientID, m.nextTaskID = tx.nextClientID, tx.nextTaskID
	return nil
}

func (m *memoryUnitOfWork) Clients() []entity.Client {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Client(nil), m.clients...)
}

func (m *memoryUnitOfWork) Tasks() []entity.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]entity.Task(nil), m.tasks...)
}

type memoryTx struct {
	uow          *memoryUnitOfWork
	clients      []entity.Client
	tasks        []entity.Task
	nextClientID int64
	nextTaskID   int64
}

type memoryClients struct{ tx *memoryTx }

func (r memoryClients) FindByEmail(_ context.Context, email string) (*entity.Client, error) {
	for _, c := range r.tx.clients {
		if c.Email == email {
			found := c
			return &found, nil
		}
	}
	return nil, entity.ErrClientNotFound
}

func (r memoryClients) Create(_ context.Context, c *entity.Client) error {
	if r.tx.uow.failClientCreate != nil {
		return r.tx.uow.failClientCreate
	}
	c.ID = r.tx.nextClientID
	c.CreatedAt = time.Now()
	r.tx.nextClientID++
	r.tx.clients = append(r.tx.clients, *c)
	return nil
}

type memoryTasks struct{ tx *memoryTx }

func (r memoryTasks) Create(_ context.Context, t *entity.Task) error {
	if r.tx.uow.failTaskCreate != nil {
		return r.tx.uow.failTaskCreate
	}
	t.ID = r.tx.nextTaskID
	t.CreatedAt = time.Now()
	r.tx.nextTaskID++
	r.tx.tasks = append(r.tx.tasks, *t)
	return nil
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) NotifyLead(ctx context.Context, n entity.LeadNotification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

type MockGuard struct {
	mock.Mock
}

func (m *MockGuard) IsNew(ctx context.Context, fingerprint string) (bool, error) {
	args := m.Called(ctx, fingerprint)
	return args.Bool(0), args.Error(1)
}

func (m *MockGuard) Forget(ctx context.Context, fingerprint string) error {
	args := m.Called(ctx, fingerprint)
	return args.Error(0)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByEmail(ctx context.Context, email string) (*entity.Client, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Client), args.Error(1)
}

func (m *MockClientRepository) Create(ctx context.Context, c *entity.Client) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t *entity.Task) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

type countingRecorder struct {
	mu            sync.Mutex
	submissions   map[string]int
	notifications map[string]int
}

func newCountingRecorder() *countingRecorder {
	return &countingRecorder{submissions: map[string]int{}, notifications: map[string]int{}}
}

func (r *countingRecorder) RecordSubmission(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions[outcome]++
}

func (r *countingRecorder) RecordNotification(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications[result]++
}

func (r *countingRecorder) Submissions(outcome string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.submissions[outcome]
}

func (r *countingRecorder) Notifications(result string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications[result]
}

// drain waits for a dispatched notification and returns its error, if any.
func drain(ch <-chan error) error {
	var last error
	for err := range ch {
		last = err
	}
	return last
}
