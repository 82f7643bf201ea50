package store

import (
	"context"

	"github.com/phrazzld/task-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
// Soft-deleted tasks are invisible to every method: they are reported as
// ErrTaskNotFound and never counted.
type TaskStore interface {
	// Create saves a new task. The store assigns ID, CreatedAt and UpdatedAt
	// and writes them back into task.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a live task by its ID.
	// Returns ErrTaskNotFound if the task does not exist or was deleted.
	GetByID(ctx context.Context, id int64) (*domain.Task, error)

	// FindPage returns up to limit live tasks starting at offset, ordered by
	// CreatedAt descending with ID descending as tie-breaker, together with
	// the total number of live tasks.
	FindPage(ctx context.Context, offset, limit int) ([]*domain.Task, int, error)

	// Update persists the mutable fields of task (title, description, status,
	// completed_at) and refreshes UpdatedAt in place.
	// Returns ErrTaskNotFound if the task does not exist or was deleted.
	Update(ctx context.Context, task *domain.Task) error

	// SoftDelete marks a live task as deleted. The row is kept.
	// Returns ErrTaskNotFound if the task does not exist or was already deleted.
	SoftDelete(ctx context.Context, id int64) error
}
