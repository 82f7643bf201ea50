package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskService provides the task lifecycle operations.
type TaskService interface {
	// List returns one page of live tasks, newest first.
	// page and limit are normalized with NormalizePagination.
	List(ctx context.Context, page, limit int) (*Page, error)

	// Get retrieves a live task by ID.
	Get(ctx context.Context, id int64) (*domain.Task, error)

	// Create validates input and persists a new task.
	Create(ctx context.Context, input domain.TaskInput) (*domain.Task, error)

	// Update validates the fields present in input and applies them to the
	// task. Validation runs before the lookup.
	Update(ctx context.Context, id int64, input domain.TaskInput) (*domain.Task, error)

	// SoftDelete marks a live task as deleted.
	SoftDelete(ctx context.Context, id int64) error
}

// TaskServiceOption customizes a task service.
type TaskServiceOption func(*taskServiceImpl)

// WithNow replaces the clock used to stamp completed_at.
func WithNow(now func() time.Time) TaskServiceOption {
	return func(s *taskServiceImpl) {
		s.now = now
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks  store.TaskStore
	now    func() time.Time
	logger *slog.Logger
}

var _ TaskService = (*taskServiceImpl)(nil)

// NewTaskService creates a new TaskService.
// It returns an error if the store is nil.
func NewTaskService(tasks store.TaskStore, logger *slog.Logger, opts ...TaskServiceOption) (TaskService, error) {
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	s := &taskServiceImpl{
		tasks:  tasks,
		now:    time.Now,
		logger: logger.With(slog.String("component", "task_service")),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// List implements TaskService.List
func (s *taskServiceImpl) List(ctx context.Context, page, limit int) (*Page, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	page, limit = NormalizePagination(page, limit)

	items, total, err := s.tasks.FindPage(ctx, Offset(page, limit), limit)
	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", err.Error()),
			slog.Int("page", page),
			slog.Int("limit", limit))
		return nil, NewTaskServiceError("list", "failed to retrieve tasks", err)
	}
	if items == nil {
		items = []*domain.Task{}
	}

	return &Page{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: TotalPages(total, limit),
	}, nil
}

// Get implements TaskService.Get
func (s *taskServiceImpl) Get(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "get", "failed to retrieve task", id, err)
	}
	return task, nil
}

// Create implements TaskService.Create
func (s *taskServiceImpl) Create(ctx context.Context, input domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	changes, err := input.ValidateForCreate()
	if err != nil {
		log.Debug("task create rejected", slog.String("error", err.Error()))
		return nil, err
	}

	task := domain.NewTask(changes, s.now())
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, s.storeError(ctx, "create", "failed to save task", 0, err)
	}

	log.Info("task created",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return task, nil
}

// Update implements TaskService.Update
func (s *taskServiceImpl) Update(ctx context.Context, id int64, input domain.TaskInput) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	changes, err := input.ValidateForUpdate()
	if err != nil {
		log.Debug("task update rejected",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, err
	}

	task, err := s.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, s.storeError(ctx, "update", "failed to retrieve task", id, err)
	}

	task.Apply(changes, s.now())

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, s.storeError(ctx, "update", "failed to save task", id, err)
	}

	log.Info("task updated",
		slog.Int64("task_id", task.ID),
		slog.String("status", string(task.Status)))
	return task, nil
}

// SoftDelete implements TaskService.SoftDelete
func (s *taskServiceImpl) SoftDelete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.tasks.SoftDelete(ctx, id); err != nil {
		return s.storeError(ctx, "delete", "failed to delete task", id, err)
	}

	log.Info("task deleted", slog.Int64("task_id", id))
	return nil
}

// storeError passes expected store conditions through and wraps the rest.
func (s *taskServiceImpl) storeError(ctx context.Context, op, message string, id int64, err error) error {
	if store.IsNotFoundError(err) || errors.Is(err, domain.ErrValidation) {
		return err
	}

	logger.FromContextOrDefault(ctx, s.logger).Error(message,
		slog.String("operation", op),
		slog.Int64("task_id", id),
		slog.String("error", err.Error()))
	return NewTaskServiceError(op, message, err)
}
