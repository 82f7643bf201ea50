package api

import (
	"fmt"
	"net/http"

	"github.com/phrazzld/task-api/internal/api/shared"
	"github.com/phrazzld/task-api/internal/service"
	"github.com/phrazzld/task-api/internal/store"
)

// TaskHandler serves the /tasks endpoints.
type TaskHandler struct {
	tasks  service.TaskService
	errors ErrorResponder
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, responder ErrorResponder) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		errors: responder,
	}
}

// ListTasks handles GET /tasks?page=&limit=.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	page, err := h.tasks.List(r.Context(), getQueryInt(r, "page"), getQueryInt(r, "limit"))
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, NewTaskListResponse(page))
}

// GetTask handles GET /tasks/{id}.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	task, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		h.handleTaskError(w, r, err, id)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task)
}

// CreateTask handles POST /tasks.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	input, err := decodeTaskInput(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), input)
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, task)
}

// UpdateTask handles PATCH /tasks/{id}.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	input, err := decodeTaskInput(r)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, MsgInvalidRequest, err)
		return
	}

	task, err := h.tasks.Update(r.Context(), id, input)
	if err != nil {
		h.handleTaskError(w, r, err, id)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, task)
}

// DeleteTask handles DELETE /tasks/{id}. The task is soft deleted.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.tasks.SoftDelete(r.Context(), id); err != nil {
		h.handleTaskError(w, r, err, id)
		return
	}
	shared.RespondWithMessage(w, r, http.StatusOK, fmt.Sprintf("Task %d has been soft deleted", id))
}

// pathID parses the {id} parameter and writes a 400 when it is invalid.
func (h *TaskHandler) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := getPathID(r, "id")
	if err != nil {
		h.errors.HandleAPIError(w, r, err)
		return 0, false
	}
	return id, true
}

// handleTaskError names the task in 404 responses and defers everything
// else to the shared error mapping.
func (h *TaskHandler) handleTaskError(w http.ResponseWriter, r *http.Request, err error, id int64) {
	if store.IsNotFoundError(err) {
		shared.RespondWithErrorAndLog(w, r, http.StatusNotFound, fmt.Sprintf("Task with ID %d not found", id), err)
		return
	}
	h.errors.HandleAPIError(w, r, err)
}
