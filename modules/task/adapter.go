package task

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

// taskAdapter wraps ServiceContainer for type-safe cross-module
// communication. This is the adapter that implements the TaskPort interface.
type taskAdapter struct {
	container mono.ServiceContainer
}

// NewTaskAdapter creates a new adapter for task services.
// container is the ServiceContainer from the task module received via
// SetDependencyServiceContainer.
func NewTaskAdapter(container mono.ServiceContainer) TaskPort {
	if container == nil {
		panic("task adapter requires non-nil ServiceContainer")
	}
	return &taskAdapter{container: container}
}

// CreateTask creates a new task via the create service.
func (a *taskAdapter) CreateTask(ctx context.Context, req *CreateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "create", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("create service call failed: %w", err)
	}
	return &resp, nil
}

// GetTask retrieves an owned task by ID via the get service.
func (a *taskAdapter) GetTask(ctx context.Context, userID, taskID string) (*TaskResponse, error) {
	req := GetTaskRequest{UserID: userID, TaskID: taskID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get service call failed: %w", err)
	}
	return &resp, nil
}

// ListTasks lists one page of the user's tasks via the list service.
func (a *taskAdapter) ListTasks(ctx context.Context, req *ListTasksRequest) (*TaskListResponse, error) {
	var resp TaskListResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "list", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("list service call failed: %w", err)
	}
	return &resp, nil
}

// SearchTasks searches the user's tasks via the search service.
func (a *taskAdapter) SearchTasks(ctx context.Context, req *SearchTasksRequest) (*TaskListResponse, error) {
	var resp TaskListResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "search", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("search service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateTask applies a partial update via the update service.
func (a *taskAdapter) UpdateTask(ctx context.Context, req *UpdateTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteTask deletes an owned task via the delete service.
func (a *taskAdapter) DeleteTask(ctx context.Context, userID, taskID string) error {
	req := DeleteTaskRequest{UserID: userID, TaskID: taskID}
	var resp DeleteTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return fmt.Errorf("delete service call failed: %w", err)
	}
	return nil
}

// AddSubTask appends a sub-task to a task via the add-subtask service.
func (a *taskAdapter) AddSubTask(ctx context.Context, req *AddSubTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "add-subtask", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("add-subtask service call failed: %w", err)
	}
	return &resp, nil
}

// GetSubTask retrieves a single sub-task via the get-subtask service.
func (a *taskAdapter) GetSubTask(ctx context.Context, userID, taskID, subTaskID string) (*SubTaskResponse, error) {
	req := GetSubTaskRequest{UserID: userID, TaskID: taskID, SubTaskID: subTaskID}
	var resp SubTaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "get-subtask", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("get-subtask service call failed: %w", err)
	}
	return &resp, nil
}

// UpdateSubTask applies a partial sub-task update via the update-subtask service.
func (a *taskAdapter) UpdateSubTask(ctx context.Context, req *UpdateSubTaskRequest) (*TaskResponse, error) {
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "update-subtask", json.Marshal, json.Unmarshal, req, &resp,
	); err != nil {
		return nil, fmt.Errorf("update-subtask service call failed: %w", err)
	}
	return &resp, nil
}

// DeleteSubTask removes a sub-task via the delete-subtask service.
func (a *taskAdapter) DeleteSubTask(ctx context.Context, userID, taskID, subTaskID string) (*TaskResponse, error) {
	req := DeleteSubTaskRequest{UserID: userID, TaskID: taskID, SubTaskID: subTaskID}
	var resp TaskResponse
	if err := helper.CallRequestReplyService(
		ctx, a.container, "delete-subtask", json.Marshal, json.Unmarshal, &req, &resp,
	); err != nil {
		return nil, fmt.Errorf("delete-subtask service call failed: %w", err)
	}
	return &resp, nil
}
