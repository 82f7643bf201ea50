package api

import (
	"time"

	"github.com/phrazzld/task-api/internal/domain"
	"github.com/phrazzld/task-api/internal/service"
)

// LoginRequest defines the payload for the login endpoint.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse defines the successful response for the login endpoint.
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// PageMeta describes the position of a page within the full listing.
type PageMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// TaskListResponse is the payload of GET /tasks.
type TaskListResponse struct {
	Data []*domain.Task `json:"data"`
	Meta PageMeta       `json:"meta"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// NewTaskListResponse converts a service page into its wire form.
func NewTaskListResponse(page *service.Page) TaskListResponse {
	items := page.Items
	if items == nil {
		items = []*domain.Task{}
	}
	return TaskListResponse{
		Data: items,
		Meta: PageMeta{
			Total:      page.Total,
			Page:       page.Page,
			Limit:      page.Limit,
			TotalPages: page.TotalPages,
		},
	}
}
