package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/platform/logger"
	"github.com/phrazzld/task-api/internal/store"
)

const taskColumns = `id, title, description, status, completed_at, created_at, updated_at, deleted_at`

const (
	insertTaskSQL = `
		INSERT INTO tasks (title, description, status, completed_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	getTaskSQL = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND deleted_at IS NULL`

	countTasksSQL = `
		SELECT COUNT(*)
		FROM tasks
		WHERE deleted_at IS NULL`

	pageTasksSQL = `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC, id DESC
		LIMIT $1 OFFSET $2`

	updateTaskSQL = `
		UPDATE tasks
		SET title = $1, description = $2, status = $3, completed_at = $4, updated_at = NOW()
		WHERE id = $5 AND deleted_at IS NULL
		RETURNING updated_at`

	softDeleteTaskSQL = `
		UPDATE tasks
		SET deleted_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL`
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the TaskStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// WithTx returns a store that runs every statement inside tx.
func (s *PostgresTaskStore) WithTx(tx *sql.Tx) *PostgresTaskStore {
	return &PostgresTaskStore{db: tx, logger: s.logger}
}

// Create implements store.TaskStore.Create.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	err := s.db.QueryRowContext(ctx, insertTaskSQL,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		nullTime(task.CompletedAt),
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
	if err != nil {
		log.Error("failed to insert task", slog.String("error", err.Error()))
		return store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	log.Debug("task created", slog.Int64("task_id", task.ID))
	return nil
}

// GetByID implements store.TaskStore.GetByID.
func (s *PostgresTaskStore) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	task, err := scanTask(s.db.QueryRowContext(ctx, getTaskSQL, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return nil, store.NewStoreError("task", "get", "failed to query task", MapError(err))
	}
	return task, nil
}

// FindPage implements store.TaskStore.FindPage. When the store owns the
// connection pool the count and the page are read from one snapshot.
func (s *PostgresTaskStore) FindPage(ctx context.Context, offset, limit int) ([]*domain.Task, int, error) {
	var (
		tasks []*domain.Task
		total int
	)

	read := func(ctx context.Context, q store.DBTX) error {
		var err error
		if err = q.QueryRowContext(ctx, countTasksSQL).Scan(&total); err != nil {
			return err
		}
		tasks, err = queryTasks(ctx, q, pageTasksSQL, limit, offset)
		return err
	}

	var err error
	if db, ok := s.db.(*sql.DB); ok {
		err = store.RunInTransaction(ctx, db, store.ReadSnapshot, func(ctx context.Context, tx *sql.Tx) error {
			return read(ctx, tx)
		})
	} else {
		err = read(ctx, s.db)
	}
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list tasks",
			slog.Int("offset", offset),
			slog.Int("limit", limit),
			slog.String("error", err.Error()))
		return nil, 0, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}

	return tasks, total, nil
}

// Update implements store.TaskStore.Update.
func (s *PostgresTaskStore) Update(ctx context.Context, task *domain.Task) error {
	err := s.db.QueryRowContext(ctx, updateTaskSQL,
		task.Title,
		nullString(task.Description),
		string(task.Status),
		nullTime(task.CompletedAt),
		task.ID,
	).Scan(&task.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrTaskNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update task",
			slog.Int64("task_id", task.ID),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}
	task.UpdatedAt = task.UpdatedAt.UTC()
	return nil
}

// SoftDelete implements store.TaskStore.SoftDelete.
func (s *PostgresTaskStore) SoftDelete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, softDeleteTaskSQL, id)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to soft delete task",
			slog.Int64("task_id", id),
			slog.String("error", err.Error()))
		return store.NewStoreError("task", "delete", "failed to soft delete task", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrTaskNotFound)
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task        domain.Task
		status      string
		description sql.NullString
		completedAt sql.NullTime
		deletedAt   sql.NullTime
	)
	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&status,
		&completedAt,
		&task.CreatedAt,
		&task.UpdatedAt,
		&deletedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Status = domain.TaskStatus(status)
	if description.Valid {
		task.Description = &description.String
	}
	if completedAt.Valid {
		ts := completedAt.Time.UTC()
		task.CompletedAt = &ts
	}
	if deletedAt.Valid {
		ts := deletedAt.Time.UTC()
		task.DeletedAt = &ts
	}
	task.CreatedAt = task.CreatedAt.UTC()
	task.UpdatedAt = task.UpdatedAt.UTC()

	return &task, nil
}

func queryTasks(ctx context.Context, q store.DBTX, query string, args ...any) ([]*domain.Task, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
