package memory

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskStore is a store.TaskStore kept in a map. Every method copies tasks in
// and out so callers never share memory with the store.
type TaskStore struct {
	mu     sync.RWMutex
	tasks  map[int64]*domain.Task
	nextID int64
	now    func() time.Time
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// Option configures a TaskStore.
type Option func(*TaskStore)

// WithClock replaces time.Now for the timestamps the store assigns.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

// NewTaskStore creates an empty in-memory task store.
func NewTaskStore(logger *slog.Logger, opts ...Option) *TaskStore {
	if logger == nil {
		logger = slog.Default()
	}
	s := &TaskStore{
		tasks:  make(map[int64]*domain.Task),
		now:    time.Now,
		logger: logger.With(slog.String("component", "memory_task_store")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	now := s.now().UTC()
	task.ID = s.nextID
	task.CreatedAt = now
	task.UpdatedAt = now
	task.DeletedAt = nil

	s.tasks[task.ID] = cloneTask(task)
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(_ context.Context, id int64) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted() {
		return nil, store.ErrTaskNotFound
	}
	return cloneTask(task), nil
}

// FindPage implements store.TaskStore.FindPage.
func (s *TaskStore) FindPage(_ context.Context, offset, limit int) ([]*domain.Task, int, error) {
	s.mu.RLock()
	live := make([]*domain.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if !task.IsDeleted() {
			live = append(live, task)
		}
	}
	sort.Slice(live, func(i, j int) bool {
		if !live[i].CreatedAt.Equal(live[j].CreatedAt) {
			return live[i].CreatedAt.After(live[j].CreatedAt)
		}
		return live[i].ID > live[j].ID
	})

	total := len(live)
	if offset < 0 {
		offset = 0
	}
	page := make([]*domain.Task, 0, max(limit, 0))
	for i := offset; i < total && i < offset+limit; i++ {
		page = append(page, cloneTask(live[i]))
	}
	s.mu.RUnlock()

	return page, total, nil
}

// Update implements store.TaskStore.Update.
func (s *TaskStore) Update(_ context.Context, task *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.tasks[task.ID]
	if !ok || current.IsDeleted() {
		return store.ErrTaskNotFound
	}

	updated := cloneTask(task)
	updated.CreatedAt = current.CreatedAt
	updated.DeletedAt = nil
	updated.UpdatedAt = s.now().UTC()
	s.tasks[task.ID] = updated

	task.CreatedAt = updated.CreatedAt
	task.UpdatedAt = updated.UpdatedAt
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *TaskStore) SoftDelete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	task, ok := s.tasks[id]
	if !ok || task.IsDeleted() {
		return store.ErrTaskNotFound
	}

	deletedAt := s.now().UTC()
	task.DeletedAt = &deletedAt
	s.logger.Debug("task soft deleted", slog.Int64("task_id", id))
	return nil
}

func cloneTask(task *domain.Task) *domain.Task {
	clone := *task
	if task.Description != nil {
		desc := *task.Description
		clone.Description = &desc
	}
	if task.CompletedAt != nil {
		ts := *task.CompletedAt
		clone.CompletedAt = &ts
	}
	if task.DeletedAt != nil {
		ts := *task.DeletedAt
		clone.DeletedAt = &ts
	}
	return &clone
}
