package mocks

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockTaskStore is a mock of store.TaskStore for use with testify/mock
type TestifyMockTaskStore struct {
	mock.Mock
}

var _ store.TaskStore = (*TestifyMockTaskStore)(nil)

// Create is a mock implementation of store.TaskStore.Create
func (m *TestifyMockTaskStore) Create(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// GetByID is a mock implementation of store.TaskStore.GetByID
func (m *TestifyMockTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if task, ok := args.Get(0).(*domain.Task); ok {
		return task, args.Error(1)
	}
	return nil, args.Error(1)
}

// FindPage is a mock implementation of store.TaskStore.FindPage
func (m *TestifyMockTaskStore) FindPage(ctx context.Context, offset, limit int) ([]*domain.Task, int, error) {
	args := m.Called(ctx, offset, limit)
	tasks, _ := args.Get(0).([]*domain.Task)
	return tasks, args.Int(1), args.Error(2)
}

// Update is a mock implementation of store.TaskStore.Update
func (m *TestifyMockTaskStore) Update(ctx context.Context, task *domain.Task) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

// SoftDelete is a mock implementation of store.TaskStore.SoftDelete
func (m *TestifyMockTaskStore) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// TestifyMockPrincipalStore is a mock of store.PrincipalStore for use with testify/mock
type TestifyMockPrincipalStore struct {
	mock.Mock
}

var _ store.PrincipalStore = (*TestifyMockPrincipalStore)(nil)

// GetByName is a mock implementation of store.PrincipalStore.GetByName
func (m *TestifyMockPrincipalStore) GetByName(ctx context.Context, name string) (*domain.Principal, error) {
	args := m.Called(ctx, name)
	if p, ok := args.Get(0).(*domain.Principal); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}
