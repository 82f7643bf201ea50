package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/mocks"
	"github.com/phrazzld/task-api/internal/platform/memory"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var serviceNow = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T) service.TaskService {
	t.Helper()
	svc, err := service.NewTaskService(memory.NewTaskStore(nil), nil,
		service.WithNow(func() time.Time { return serviceNow }))
	require.NoError(t, err)
	return svc
}

// input decodes a JSON body the same way the HTTP layer does.
func input(t *testing.T, body string) domain.TaskInput {
	t.Helper()
	var in domain.TaskInput
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func mustCreate(t *testing.T, svc service.TaskService, body string) *domain.Task {
	t.Helper()
	task, err := svc.Create(context.Background(), input(t, body))
	require.NoError(t, err)
	return task
}

func TestNewTaskService_RequiresStore(t *testing.T) {
	t.Parallel()

	_, err := service.NewTaskService(nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTaskService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("defaults status to pending", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		task, err := svc.Create(ctx, input(t, `{"title":"Buy milk"}`))

		require.NoError(t, err)
		assert.Positive(t, task.ID)
		assert.Equal(t, "Buy milk", task.Title)
		assert.Equal(t, domain.TaskStatusPending, task.Status)
		assert.Nil(t, task.Description)
		assert.Nil(t, task.CompletedAt)
		assert.Nil(t, task.DeletedAt)
	})

	t.Run("completed without timestamp is stamped with now", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		task, err := svc.Create(ctx, input(t, `{"title":"Done","status":"completed"}`))

		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, serviceNow.Equal(*task.CompletedAt))
	})

	t.Run("explicit completed_at is preserved", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		task, err := svc.Create(ctx, input(t,
			`{"title":"Done","status":"completed","completed_at":"2024-12-25T08:00:00Z"}`))

		require.NoError(t, err)
		require.NotNil(t, task.CompletedAt)
		assert.True(t, time.Date(2024, 12, 25, 8, 0, 0, 0, time.UTC).Equal(*task.CompletedAt))
	})

	t.Run("validation failures are not persisted", func(t *testing.T) {
		t.Parallel()
		svc := newTestService(t)

		tests := []struct {
			name string
			body string
		}{
			{"missing title", `{}`},
			{"empty title", `{"title":""}`},
			{"null title", `{"title":null}`},
			{"long title", `{"title":"` + strings.Repeat("x", 256) + `"}`},
			{"bad status", `{"title":"t","status":"done"}`},
			{"bad completed_at", `{"title":"t","completed_at":"yesterday"}`},
		}
		for _, tt := range tests {
			tt := tt
			_, err := svc.Create(ctx, input(t, tt.body))
			assert.ErrorIs(t, err, domain.ErrValidation, tt.name)
		}

		page, err := svc.List(ctx, 1, 10)
		require.NoError(t, err)
		assert.Zero(t, page.Total)
	})
}

func TestTaskService_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	created := mustCreate(t, svc, `{"title":"find me"}`)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "find me", got.Title)

	_, err = svc.Get(ctx, 999)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	stamped := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		name            string
		create          string
		update          string
		wantStatus      domain.TaskStatus
		wantCompletedAt *time.Time
	}{
		{
			name:            "marking completed stamps now",
			create:          `{"title":"t"}`,
			update:          `{"status":"completed"}`,
			wantStatus:      domain.TaskStatusCompleted,
			wantCompletedAt: &serviceNow,
		},
		{
			name:            "explicit completed_at wins",
			create:          `{"title":"t"}`,
			update:          `{"status":"completed","completed_at":"2024-01-02T03:04:05Z"}`,
			wantStatus:      domain.TaskStatusCompleted,
			wantCompletedAt: &stamped,
		},
		{
			name:            "moving back to pending clears completed_at",
			create:          `{"title":"t","status":"completed","completed_at":"2024-01-02T03:04:05Z"}`,
			update:          `{"status":"pending"}`,
			wantStatus:      domain.TaskStatusPending,
			wantCompletedAt: nil,
		},
		{
			name:            "title-only update keeps completed_at",
			create:          `{"title":"t","status":"completed","completed_at":"2024-01-02T03:04:05Z"}`,
			update:          `{"title":"renamed"}`,
			wantStatus:      domain.TaskStatusCompleted,
			wantCompletedAt: &stamped,
		},
		{
			name:            "explicit null clears completed_at",
			create:          `{"title":"t","status":"completed","completed_at":"2024-01-02T03:04:05Z"}`,
			update:          `{"completed_at":null}`,
			wantStatus:      domain.TaskStatusCompleted,
			wantCompletedAt: nil,
		},
		{
			name:            "in-progress with explicit completed_at keeps it",
			create:          `{"title":"t"}`,
			update:          `{"status":"in-progress","completed_at":"2024-01-02T03:04:05Z"}`,
			wantStatus:      domain.TaskStatusInProgress,
			wantCompletedAt: &stamped,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := newTestService(t)
			created := mustCreate(t, svc, tt.create)

			updated, err := svc.Update(ctx, created.ID, input(t, tt.update))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, updated.Status)
			if tt.wantCompletedAt == nil {
				assert.Nil(t, updated.CompletedAt)
			} else {
				require.NotNil(t, updated.CompletedAt)
				assert.True(t, tt.wantCompletedAt.Equal(*updated.CompletedAt))
			}

			reloaded, err := svc.Get(ctx, created.ID)
			require.NoError(t, err)
			assert.Equal(t, updated.Status, reloaded.Status)
			assert.Equal(t, updated.CompletedAt == nil, reloaded.CompletedAt == nil)
		})
	}
}

func TestTaskService_UpdatePartialFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	created := mustCreate(t, svc, `{"title":"t","description":"keep me"}`)

	updated, err := svc.Update(ctx, created.ID, input(t, `{"status":"in-progress"}`))
	require.NoError(t, err)
	assert.Equal(t, "t", updated.Title)
	require.NotNil(t, updated.Description)
	assert.Equal(t, "keep me", *updated.Description)

	updated, err = svc.Update(ctx, created.ID, input(t, `{"description":null}`))
	require.NoError(t, err)
	assert.Nil(t, updated.Description)
	assert.Equal(t, domain.TaskStatusInProgress, updated.Status)
}

func TestTaskService_UpdateValidationBeforeLookup(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Update(ctx, 12345, input(t, `{"title":""}`))
	assert.ErrorIs(t, err, domain.ErrValidation, "validation wins over not found")
	assert.NotErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, 12345, input(t, `{"title":"fine"}`))
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestTaskService_SoftDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newTestService(t)

	task := mustCreate(t, svc, `{"title":"doomed"}`)

	require.NoError(t, svc.SoftDelete(ctx, task.ID))

	_, err := svc.Get(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = svc.Update(ctx, task.ID, input(t, `{"title":"revived"}`))
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = svc.SoftDelete(ctx, task.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "second delete fails")

	page, err := svc.List(ctx, 1, 10)
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestTaskService_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc := newTestService(t)
	for i := 0; i < 25; i++ {
		mustCreate(t, svc, `{"title":"t"}`)
	}

	tests := []struct {
		name           string
		page, limit    int
		wantPage       int
		wantLimit      int
		wantItems      int
		wantTotalPages int
	}{
		{"defaults", 0, 0, 1, 10, 10, 3},
		{"second page", 2, 10, 2, 10, 10, 3},
		{"partial last page", 3, 10, 3, 10, 5, 3},
		{"out of range page", 9, 10, 9, 10, 0, 3},
		{"negative page", -4, 10, 1, 10, 10, 3},
		{"negative limit", 1, -5, 1, 1, 1, 25},
		{"limit capped", 1, 500, 1, 100, 25, 1},
		{"huge page", math.MaxInt32, 10, math.MaxInt32, 10, 0, 3},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			page, err := svc.List(ctx, tt.page, tt.limit)

			require.NoError(t, err)
			assert.Equal(t, 25, page.Total)
			assert.Equal(t, tt.wantPage, page.Page)
			assert.Equal(t, tt.wantLimit, page.Limit)
			assert.Len(t, page.Items, tt.wantItems)
			assert.Equal(t, tt.wantTotalPages, page.TotalPages)
			assert.NotNil(t, page.Items)
		})
	}
}

func TestTaskService_ListEmpty(t *testing.T) {
	t.Parallel()

	page, err := newTestService(t).List(context.Background(), 1, 10)

	require.NoError(t, err)
	assert.Zero(t, page.Total)
	assert.Zero(t, page.TotalPages)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestTaskService_StoreFailures(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dbErr := errors.New("connection reset")

	tasks := &mocks.TestifyMockTaskStore{}
	tasks.On("FindPage", mock.Anything, 0, 10).Return(nil, 0, dbErr)
	tasks.On("GetByID", mock.Anything, int64(1)).Return(nil, dbErr)
	tasks.On("Create", mock.Anything, mock.AnythingOfType("*domain.Task")).Return(dbErr)
	tasks.On("SoftDelete", mock.Anything, int64(1)).Return(dbErr)

	svc, err := service.NewTaskService(tasks, nil)
	require.NoError(t, err)

	var serviceErr *service.TaskServiceError

	_, err = svc.List(ctx, 1, 10)
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "list", serviceErr.Operation)
	assert.ErrorIs(t, err, dbErr)

	_, err = svc.Get(ctx, 1)
	assert.ErrorAs(t, err, &serviceErr)

	_, err = svc.Create(ctx, input(t, `{"title":"t"}`))
	assert.ErrorAs(t, err, &serviceErr)

	_, err = svc.Update(ctx, 1, input(t, `{"title":"t"}`))
	assert.ErrorAs(t, err, &serviceErr)

	err = svc.SoftDelete(ctx, 1)
	assert.ErrorAs(t, err, &serviceErr)
	assert.NotErrorIs(t, err, store.ErrNotFound)

	tasks.AssertExpectations(t)
}

func TestTaskService_UpdatePersistsDerivedFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	existing := &domain.Task{ID: 5, Title: "t", Status: domain.TaskStatusPending}
	tasks := &mocks.TestifyMockTaskStore{}
	tasks.On("GetByID", mock.Anything, int64(5)).Return(existing, nil)
	tasks.On("Update", mock.Anything, mock.MatchedBy(func(task *domain.Task) bool {
		return task.Status == domain.TaskStatusCompleted &&
			task.CompletedAt != nil && task.CompletedAt.Equal(serviceNow)
	})).Return(nil)

	svc, err := service.NewTaskService(tasks, nil, service.WithNow(func() time.Time { return serviceNow }))
	require.NoError(t, err)

	_, err = svc.Update(ctx, 5, input(t, `{"status":"completed"}`))
	require.NoError(t, err)
	tasks.AssertExpectations(t)
}
