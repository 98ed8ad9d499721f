package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domain "github.com/example/taskmaster/domain/user"
	"github.com/example/taskmaster/modules/task"
	"github.com/gofiber/fiber/v2"
)

// mockTaskPort implements task.TaskPort for testing
type mockTaskPort struct {
	createTaskFunc    func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error)
	getTaskFunc       func(ctx context.Context, userID, taskID string) (*task.TaskResponse, error)
	listTasksFunc     func(ctx context.Context, req *task.ListTasksRequest) (*task.TaskListResponse, error)
	searchTasksFunc   func(ctx context.Context, req *task.SearchTasksRequest) (*task.TaskListResponse, error)
	updateTaskFunc    func(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error)
	deleteTaskFunc    func(ctx context.Context, userID, taskID string) error
	addSubTaskFunc    func(ctx context.Context, req *task.AddSubTaskRequest) (*task.TaskResponse, error)
	getSubTaskFunc    func(ctx context.Context, userID, taskID, subTaskID string) (*task.SubTaskResponse, error)
	updateSubTaskFunc func(ctx context.Context, req *task.UpdateSubTaskRequest) (*task.TaskResponse, error)
	deleteSubTaskFunc func(ctx context.Context, userID, taskID, subTaskID string) (*task.TaskResponse, error)
}

func (m *mockTaskPort) CreateTask(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
	if m.createTaskFunc != nil {
		return m.createTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) GetTask(ctx context.Context, userID, taskID string) (*task.TaskResponse, error) {
	if m.getTaskFunc != nil {
		return m.getTaskFunc(ctx, userID, taskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) ListTasks(ctx context.Context, req *task.ListTasksRequest) (*task.TaskListResponse, error) {
	if m.listTasksFunc != nil {
		return m.listTasksFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) SearchTasks(ctx context.Context, req *task.SearchTasksRequest) (*task.TaskListResponse, error) {
	if m.searchTasksFunc != nil {
		return m.searchTasksFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) UpdateTask(ctx context.Context, req *task.UpdateTaskRequest) (*task.TaskResponse, error) {
	if m.updateTaskFunc != nil {
		return m.updateTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) DeleteTask(ctx context.Context, userID, taskID string) error {
	if m.deleteTaskFunc != nil {
		return m.deleteTaskFunc(ctx, userID, taskID)
	}
	return errors.New("not implemented")
}

func (m *mockTaskPort) AddSubTask(ctx context.Context, req *task.AddSubTaskRequest) (*task.TaskResponse, error) {
	if m.addSubTaskFunc != nil {
		return m.addSubTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) GetSubTask(ctx context.Context, userID, taskID, subTaskID string) (*task.SubTaskResponse, error) {
	if m.getSubTaskFunc != nil {
		return m.getSubTaskFunc(ctx, userID, taskID, subTaskID)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) UpdateSubTask(ctx context.Context, req *task.UpdateSubTaskRequest) (*task.TaskResponse, error) {
	if m.updateSubTaskFunc != nil {
		return m.updateSubTaskFunc(ctx, req)
	}
	return nil, errors.New("not implemented")
}

func (m *mockTaskPort) DeleteSubTask(ctx context.Context, userID, taskID, subTaskID string) (*task.TaskResponse, error) {
	if m.deleteSubTaskFunc != nil {
		return m.deleteSubTaskFunc(ctx, userID, taskID, subTaskID)
	}
	return nil, errors.New("not implemented")
}

// authedMock always authenticates as user-123.
func authedMock() *mockAuthPort {
	return &mockAuthPort{
		validateTokenFunc: func(ctx context.Context, token string) (*domain.Claims, error) {
			return &domain.Claims{UserID: "user-123", Email: "test@example.com"}, nil
		},
	}
}

// newTestApp mounts the real route table with mocked ports.
func newTestApp(mockAuth *mockAuthPort, mockTask *mockTaskPort) *fiber.App {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          customErrorHandler,
	})
	registerRoutes(app, NewHandlers(mockAuth, mockTask), mockAuth)
	return app
}

func doRequest(t *testing.T, app *fiber.App, method, target, body string) (int, string) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer valid-token")
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test() error = %v", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("io.ReadAll() error = %v", err)
	}
	return resp.StatusCode, string(data)
}

func TestSearchRouteNotCapturedByID(t *testing.T) {
	searchCalled := false
	mockTask := &mockTaskPort{
		searchTasksFunc: func(ctx context.Context, req *task.SearchTasksRequest) (*task.TaskListResponse, error) {
			searchCalled = true
			if req.Query != "milk" {
				t.Errorf("req.Query = %q, want %q", req.Query, "milk")
			}
			return &task.TaskListResponse{Tasks: []task.TaskResponse{}, CurrentPage: 1, TotalPages: 0}, nil
		},
		getTaskFunc: func(ctx context.Context, userID, taskID string) (*task.TaskResponse, error) {
			t.Errorf("GetTask called with taskID %q; search route was captured by /:id", taskID)
			return nil, errors.New("wrong route")
		},
	}

	app := newTestApp(authedMock(), mockTask)
	status, _ := doRequest(t, app, "GET", "/api/tasks/search?query=milk", "")

	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if !searchCalled {
		t.Error("SearchTasks was never called")
	}
}

func TestCreateTask_Created(t *testing.T) {
	mockTask := &mockTaskPort{
		createTaskFunc: func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
			if req.UserID != "user-123" {
				t.Errorf("req.UserID = %q, want %q", req.UserID, "user-123")
			}
			return &task.TaskResponse{ID: "task-1", Title: req.Title, Priority: "medium", Status: "todo", UserID: req.UserID}, nil
		},
	}

	app := newTestApp(authedMock(), mockTask)
	status, body := doRequest(t, app, "POST", "/api/tasks/", `{"title":"Groceries"}`)

	if status != http.StatusCreated {
		t.Errorf("status = %d, want %d", status, http.StatusCreated)
	}
	if !strings.Contains(body, `"Groceries"`) {
		t.Errorf("body = %s, want to contain Groceries", body)
	}
	if !strings.Contains(body, `"userId":"user-123"`) {
		t.Errorf("body = %s, want to contain userId", body)
	}
}

func TestDeleteTask_Message(t *testing.T) {
	mockTask := &mockTaskPort{
		deleteTaskFunc: func(ctx context.Context, userID, taskID string) error {
			return nil
		},
	}

	app := newTestApp(authedMock(), mockTask)
	status, body := doRequest(t, app, "DELETE", "/api/tasks/task-1", "")

	if status != http.StatusOK {
		t.Errorf("status = %d, want %d", status, http.StatusOK)
	}
	if !strings.Contains(body, `"Task deleted"`) {
		t.Errorf("body = %s, want to contain Task deleted", body)
	}
}

func TestTaskErrorMapping(t *testing.T) {
	// Errors arrive wrapped the way the service adapter wraps them
	wrap := func(name string, err error) error {
		return fmt.Errorf("%s service call failed: %w", name, err)
	}

	tests := []struct {
		name       string
		method     string
		target     string
		body       string
		mockTask   *mockTaskPort
		wantStatus int
		wantBody   string
	}{
		{
			name:   "missing task maps to 404",
			method: "GET",
			target: "/api/tasks/ghost",
			mockTask: &mockTaskPort{
				getTaskFunc: func(ctx context.Context, userID, taskID string) (*task.TaskResponse, error) {
					return nil, wrap("get", errors.New("task not found"))
				},
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "Task not found or not authorized",
		},
		{
			name:   "missing sub-task maps to its own 404",
			method: "GET",
			target: "/api/tasks/task-1/subtasks/ghost",
			mockTask: &mockTaskPort{
				getSubTaskFunc: func(ctx context.Context, userID, taskID, subTaskID string) (*task.SubTaskResponse, error) {
					return nil, wrap("get-subtask", errors.New("sub-task not found"))
				},
			},
			wantStatus: http.StatusNotFound,
			wantBody:   "Sub-task not found",
		},
		{
			name:   "validation message survives unwrapping",
			method: "POST",
			target: "/api/tasks/",
			body:   `{"title":""}`,
			mockTask: &mockTaskPort{
				createTaskFunc: func(ctx context.Context, req *task.CreateTaskRequest) (*task.TaskResponse, error) {
					return nil, wrap("create", errors.New("title is required and cannot be empty"))
				},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"title is required and cannot be empty"`,
		},
		{
			name:   "sub-task title message not shortened to task title message",
			method: "POST",
			target: "/api/tasks/task-1/subtasks",
			body:   `{"title":""}`,
			mockTask: &mockTaskPort{
				addSubTaskFunc: func(ctx context.Context, req *task.AddSubTaskRequest) (*task.TaskResponse, error) {
					return nil, wrap("add-subtask", errors.New("sub-task title is required and cannot be empty"))
				},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   `"sub-task title is required and cannot be empty"`,
		},
		{
			name:   "dynamic sort field message is preserved",
			method: "GET",
			target: "/api/tasks/?sort=bogus",
			mockTask: &mockTaskPort{
				listTasksFunc: func(ctx context.Context, req *task.ListTasksRequest) (*task.TaskListResponse, error) {
					return nil, wrap("list", fmt.Errorf("invalid sort field: %s", req.Sort))
				},
			},
			wantStatus: http.StatusBadRequest,
			wantBody:   "invalid sort field: bogus",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(authedMock(), tt.mockTask)
			status, body := doRequest(t, app, tt.method, tt.target, tt.body)

			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Errorf("body = %s, want to contain %s", body, tt.wantBody)
			}
		})
	}
}

func TestListTasks_QueryParsing(t *testing.T) {
	t.Run("defaults applied", func(t *testing.T) {
		var captured *task.ListTasksRequest
		mockTask := &mockTaskPort{
			listTasksFunc: func(ctx context.Context, req *task.ListTasksRequest) (*task.TaskListResponse, error) {
				captured = req
				return &task.TaskListResponse{Tasks: []task.TaskResponse{}, CurrentPage: req.Page}, nil
			},
		}

		app := newTestApp(authedMock(), mockTask)
		status, _ := doRequest(t, app, "GET", "/api/tasks/", "")

		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if captured == nil {
			t.Fatal("ListTasks was never called")
		}
		if captured.Page != task.DefaultPage {
			t.Errorf("captured.Page = %d, want %d", captured.Page, task.DefaultPage)
		}
		if captured.Limit != task.DefaultLimit {
			t.Errorf("captured.Limit = %d, want %d", captured.Limit, task.DefaultLimit)
		}
	})

	t.Run("filters and sort forwarded", func(t *testing.T) {
		var captured *task.ListTasksRequest
		mockTask := &mockTaskPort{
			listTasksFunc: func(ctx context.Context, req *task.ListTasksRequest) (*task.TaskListResponse, error) {
				captured = req
				return &task.TaskListResponse{Tasks: []task.TaskResponse{}, CurrentPage: req.Page}, nil
			},
		}

		app := newTestApp(authedMock(), mockTask)
		status, _ := doRequest(t, app, "GET", "/api/tasks/?priority=high&status=todo&sort=-dueDate&page=2&limit=5", "")

		if status != http.StatusOK {
			t.Fatalf("status = %d, want %d", status, http.StatusOK)
		}
		if captured.Priority != "high" || captured.Status != "todo" || captured.Sort != "-dueDate" {
			t.Errorf("captured filters = %+v", captured)
		}
		if captured.Page != 2 || captured.Limit != 5 {
			t.Errorf("captured.Page = %d, captured.Limit = %d, want 2, 5", captured.Page, captured.Limit)
		}
	})

	t.Run("non-numeric page rejected", func(t *testing.T) {
		app := newTestApp(authedMock(), &mockTaskPort{})
		status, body := doRequest(t, app, "GET", "/api/tasks/?page=abc", "")

		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
		}
		if !strings.Contains(body, "invalid page number") {
			t.Errorf("body = %s, want to contain invalid page number", body)
		}
	})

	t.Run("non-numeric limit rejected", func(t *testing.T) {
		app := newTestApp(authedMock(), &mockTaskPort{})
		status, body := doRequest(t, app, "GET", "/api/tasks/?limit=lots", "")

		if status != http.StatusBadRequest {
			t.Errorf("status = %d, want %d", status, http.StatusBadRequest)
		}
		if !strings.Contains(body, "limit must be between 1 and 100") {
			t.Errorf("body = %s, want to contain limit message", body)
		}
	})
}
