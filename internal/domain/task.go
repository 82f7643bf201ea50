package domain

import (
	"strings"
	"time"
)

// TaskStatus represents the lifecycle state of a task.
type TaskStatus string

const (
	// TaskStatusPending is the default status of a newly created task.
	TaskStatusPending TaskStatus = "pending"

	// TaskStatusInProgress marks a task that is being worked on.
	TaskStatusInProgress TaskStatus = "in-progress"

	// TaskStatusCompleted marks a finished task. A completed task always
	// carries a completion timestamp unless one was explicitly cleared.
	TaskStatusCompleted TaskStatus = "completed"
)

// MaxTitleLength is the maximum number of characters allowed in a task title.
const MaxTitleLength = 255

// TaskStatuses lists every valid status in display order.
var TaskStatuses = []TaskStatus{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s TaskStatus) Valid() bool {
	for _, known := range TaskStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// statusList renders the known statuses for error messages.
func statusList() string {
	names := make([]string, len(TaskStatuses))
	for i, s := range TaskStatuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// Task is a unit of work tracked by the service.
// ID, CreatedAt and UpdatedAt are assigned by the store; DeletedAt is set
// only by a soft delete, after which the task is invisible to every read.
type Task struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Status      TaskStatus `json:"status"`
	CompletedAt *time.Time `json:"completed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at"`
}

// NewTask builds an unsaved task from validated changes.
// Status defaults to pending, and a completed task without an explicit
// completion time is stamped with now.
func NewTask(changes TaskChanges, now time.Time) *Task {
	task := &Task{
		Status: TaskStatusPending,
	}
	if changes.Title != nil {
		task.Title = *changes.Title
	}
	if changes.DescriptionSet {
		task.Description = changes.Description
	}
	if changes.Status != nil {
		task.Status = *changes.Status
	}
	if changes.CompletedAtSet {
		task.CompletedAt = changes.CompletedAt
	}

	if task.Status == TaskStatusCompleted && task.CompletedAt == nil {
		stamp := now.UTC()
		task.CompletedAt = &stamp
	}

	return task
}

// Apply merges validated partial changes into the task and derives the
// completion timestamp. The rules are evaluated in order:
//
//  1. an explicit completed_at (value or null) is used as given;
//  2. otherwise a completed task without a timestamp is stamped with now;
//  3. otherwise a status change away from completed clears the timestamp;
//  4. otherwise the timestamp is left alone.
func (t *Task) Apply(changes TaskChanges, now time.Time) {
	if changes.Title != nil {
		t.Title = *changes.Title
	}
	if changes.DescriptionSet {
		t.Description = changes.Description
	}
	if changes.Status != nil {
		t.Status = *changes.Status
	}

	switch {
	case changes.CompletedAtSet:
		t.CompletedAt = changes.CompletedAt
	case t.Status == TaskStatusCompleted && t.CompletedAt == nil:
		stamp := now.UTC()
		t.CompletedAt = &stamp
	case changes.Status != nil && *changes.Status != TaskStatusCompleted:
		t.CompletedAt = nil
	}
}

// IsDeleted reports whether the task has been soft deleted.
func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}
