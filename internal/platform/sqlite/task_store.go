package sqlite

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
	"gorm.io/gorm"
)

// taskRecord is the GORM model of the tasks table.
type taskRecord struct {
	ID          int64          `gorm:"primaryKey;autoIncrement"`
	Title       string         `gorm:"size:255;not null;check:chk_tasks_title,title <> ''"`
	Description *string        `gorm:"type:text"`
	Status      string         `gorm:"size:20;not null;default:pending;check:chk_tasks_status,status IN ('pending','in-progress','completed')"`
	CompletedAt *time.Time
	CreatedAt   time.Time      `gorm:"index"`
	UpdatedAt   time.Time
	DeletedAt   gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for taskRecord.
func (taskRecord) TableName() string {
	return "tasks"
}

func recordFromTask(task *domain.Task) *taskRecord {
	return &taskRecord{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CompletedAt: task.CompletedAt,
	}
}

func (r *taskRecord) toDomain() *domain.Task {
	task := &domain.Task{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
	if r.CompletedAt != nil {
		ts := r.CompletedAt.UTC()
		task.CompletedAt = &ts
	}
	if r.DeletedAt.Valid {
		ts := r.DeletedAt.Time.UTC()
		task.DeletedAt = &ts
	}
	return task
}

// TaskStore implements store.TaskStore on top of GORM.
type TaskStore struct {
	db     *gorm.DB
	logger *slog.Logger
}

// Ensure TaskStore implements store.TaskStore interface
var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a GORM task store. db must already be migrated (see Open).
func NewTaskStore(db *gorm.DB, logger *slog.Logger) *TaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "sqlite_task_store")),
	}
}

// Create implements store.TaskStore.Create.
func (s *TaskStore) Create(ctx context.Context, task *domain.Task) error {
	rec := recordFromTask(task)
	rec.ID = 0

	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		s.log(ctx).Error("failed to insert task", slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", mapError(err))
	}

	task.ID = rec.ID
	task.CreatedAt = rec.CreatedAt.UTC()
	task.UpdatedAt = rec.UpdatedAt.UTC()
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *TaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var rec taskRecord
	if err := s.db.WithContext(ctx).First(&rec, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, store.ErrTaskNotFound
		}
		s.log(ctx).Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to query task", mapError(err))
	}
	return rec.toDomain(), nil
}

// FindPage implements store.TaskStore.FindPage.
func (s *TaskStore) FindPage(ctx context.Context, offset, limit int) ([]*domain.Task, int, error) {
	var (
		recs  []taskRecord
		total int64
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&taskRecord{}).Count(&total).Error; err != nil {
			return err
		}
		return tx.Order("created_at DESC").Order("id DESC").
			Offset(offset).Limit(limit).
			Find(&recs).Error
	})
	if err != nil {
		s.log(ctx).Error("failed to list tasks",
			slog.Int("offset", offset),
			slog.Int("limit", limit),
			slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "failed to query tasks", mapError(err))
	}

	tasks := make([]*domain.Task, 0, len(recs))
	for i := range recs {
		tasks = append(tasks, recs[i].toDomain())
	}
	return tasks, int(total), nil
}

// Update implements store.TaskStore.Update. A map is used so that nil
// description and completed_at are written as NULL.
func (s *TaskStore) Update(ctx context.Context, task *domain.Task) error {
	now := s.db.NowFunc()

	result := s.db.WithContext(ctx).Model(&taskRecord{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"title":        task.Title,
			"description":  task.Description,
			"status":       string(task.Status),
			"completed_at": task.CompletedAt,
			"updated_at":   now,
		})
	if err := result.Error; err != nil {
		s.log(ctx).Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", mapError(err))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}

	task.UpdatedAt = now.UTC()
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *TaskStore) SoftDelete(ctx context.Context, id int64) error {
	result := s.db.WithContext(ctx).Delete(&taskRecord{}, "id = ?", id)
	if err := result.Error; err != nil {
		s.log(ctx).Error("failed to soft delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to soft delete task", mapError(err))
	}
	if result.RowsAffected == 0 {
		return store.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) log(ctx context.Context) *slog.Logger {
	return logger.FromContextOrDefault(ctx, s.logger)
}
