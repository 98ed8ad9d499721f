package api

import "time"

// RegisterRequest represents a user registration request.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest represents a token refresh request.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse represents an authentication token response.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
	TokenType    string `json:"token_type"`
}

// UserResponse represents a user response.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SubTaskPayload is a sub-task in task create/update request bodies.
type SubTaskPayload struct {
	Title  string `json:"title"`
	Status string `json:"status,omitempty"`
}

// CreateTaskPayload is the request body for creating a task.
type CreateTaskPayload struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Priority    string           `json:"priority"`
	DueDate     string           `json:"dueDate"`
	SubTasks    []SubTaskPayload `json:"subTasks"`
}

// UpdateTaskPayload is the request body for a partial task update.
// Absent fields are left unchanged.
type UpdateTaskPayload struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Priority    *string           `json:"priority"`
	Status      *string           `json:"status"`
	DueDate     *string           `json:"dueDate"`
	SubTasks    *[]SubTaskPayload `json:"subTasks"`
}

// AddSubTaskPayload is the request body for adding a sub-task.
type AddSubTaskPayload struct {
	Title  string `json:"title"`
	Status string `json:"status"`
}

// UpdateSubTaskPayload is the request body for a partial sub-task update.
type UpdateSubTaskPayload struct {
	Title  *string `json:"title"`
	Status *string `json:"status"`
}

// SubTaskJSON represents a sub-task in responses.
type SubTaskJSON struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskJSON represents a task in responses.
type TaskJSON struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Priority    string        `json:"priority"`
	Status      string        `json:"status"`
	DueDate     *time.Time    `json:"dueDate,omitempty"`
	UserID      string        `json:"userId"`
	SubTasks    []SubTaskJSON `json:"subTasks"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	CompletedAt *time.Time    `json:"completedAt,omitempty"`
}

// TaskListJSON is the response body for list and search.
type TaskListJSON struct {
	Tasks       []TaskJSON `json:"tasks"`
	CurrentPage int        `json:"currentPage"`
	TotalPages  int        `json:"totalPages"`
	TotalTasks  int64      `json:"totalTasks"`
}

// MessageResponse carries a plain status message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
