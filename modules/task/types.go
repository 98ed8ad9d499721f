package task

import (
	"context"
	"time"
)

// SubTaskInput is a sub-task supplied by the caller on create or update.
type SubTaskInput struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// CreateTaskRequest is the request for creating a task.
type CreateTaskRequest struct {
	UserID      string         `json:"user_id"`
	Title       string         `json:"title"`
	Description string         `json:"description,omitempty"`
	Priority    string         `json:"priority,omitempty"`
	DueDate     string         `json:"due_date,omitempty"`
	SubTasks    []SubTaskInput `json:"sub_tasks,omitempty"`
}

// GetTaskRequest is the request for getting a task.
type GetTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// ListTasksRequest is the request for listing tasks with filtering,
// sorting, and pagination.
type ListTasksRequest struct {
	UserID   string `json:"user_id"`
	Priority string `json:"priority,omitempty"`
	Status   string `json:"status,omitempty"`
	Sort     string `json:"sort,omitempty"`
	Page     int    `json:"page"`
	Limit    int    `json:"limit"`
}

// SearchTasksRequest is the request for searching tasks by text.
type SearchTasksRequest struct {
	UserID string `json:"user_id"`
	Query  string `json:"query"`
	Page   int    `json:"page"`
	Limit  int    `json:"limit"`
}

// UpdateTaskRequest is the request for a partial task update.
// Nil fields are left unchanged.
type UpdateTaskRequest struct {
	UserID      string          `json:"user_id"`
	TaskID      string          `json:"task_id"`
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	Status      *string         `json:"status,omitempty"`
	DueDate     *string         `json:"due_date,omitempty"`
	SubTasks    *[]SubTaskInput `json:"sub_tasks,omitempty"`
}

// DeleteTaskRequest is the request for deleting a task.
type DeleteTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
}

// DeleteTaskResponse is the response for deleting a task.
type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

// AddSubTaskRequest is the request for adding a sub-task to a task.
type AddSubTaskRequest struct {
	UserID string `json:"user_id"`
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// GetSubTaskRequest is the request for getting a single sub-task.
type GetSubTaskRequest struct {
	UserID    string `json:"user_id"`
	TaskID    string `json:"task_id"`
	SubTaskID string `json:"sub_task_id"`
}

// UpdateSubTaskRequest is the request for a partial sub-task update.
type UpdateSubTaskRequest struct {
	UserID    string  `json:"user_id"`
	TaskID    string  `json:"task_id"`
	SubTaskID string  `json:"sub_task_id"`
	Title     *string `json:"title,omitempty"`
	Status    *string `json:"status,omitempty"`
}

// DeleteSubTaskRequest is the request for deleting a sub-task.
type DeleteSubTaskRequest struct {
	UserID    string `json:"user_id"`
	TaskID    string `json:"task_id"`
	SubTaskID string `json:"sub_task_id"`
}

// SubTaskResponse represents a sub-task in responses.
type SubTaskResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// TaskResponse represents a task in responses.
type TaskResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	DueDate     *time.Time        `json:"due_date,omitempty"`
	UserID      string            `json:"user_id"`
	SubTasks    []SubTaskResponse `json:"sub_tasks"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	CompletedAt *time.Time        `json:"completed_at,omitempty"`
}

// TaskListResponse is the response for list and search: one page of tasks
// plus the pagination summary.
type TaskListResponse struct {
	Tasks       []TaskResponse `json:"tasks"`
	CurrentPage int            `json:"current_page"`
	TotalPages  int            `json:"total_pages"`
	TotalTasks  int64          `json:"total_tasks"`
}

// TaskPort defines the interface for task operations (hexagonal port).
// This is the contract that driving adapters (like the HTTP API) use to
// interact with the core domain. Every operation is scoped to the owning
// user carried in the request.
type TaskPort interface {
	CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error)
	GetTask(ctx context.Context, userID, taskID string) (*TaskResponse, error)
	ListTasks(ctx context.Context, req *ListTasksRequest) (*TaskListResponse, error)
	SearchTasks(ctx context.Context, req *SearchTasksRequest) (*TaskListResponse, error)
	UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error)
	DeleteTask(ctx context.Context, userID, taskID string) error
	AddSubTask(ctx context.Context, req *AddSubTaskRequest) (*TaskResponse, error)
	GetSubTask(ctx context.Context, userID, taskID, subTaskID string) (*SubTaskResponse, error)
	UpdateSubTask(ctx context.Context, req *UpdateSubTaskRequest) (*TaskResponse, error)
	DeleteSubTask(ctx context.Context, userID, taskID, subTaskID string) (*TaskResponse, error)
}
