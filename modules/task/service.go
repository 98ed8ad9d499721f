package task

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	domain "github.com/example/taskmaster/domain/task"
	"github.com/go-monolith/mono"
	"github.com/google/uuid"
)

var (
	// ErrUserRequired is returned when the owning user id is missing.
	ErrUserRequired = errors.New("user is required")
	// ErrTitleRequired is returned when a created task has no title.
	ErrTitleRequired = errors.New("title is required and cannot be empty")
	// ErrTitleEmpty is returned when an updated title is blank.
	ErrTitleEmpty = errors.New("title cannot be empty")
	// ErrTitleTooLong is returned when a title exceeds the limit.
	ErrTitleTooLong = errors.New("title cannot be more than 20 characters")
	// ErrPriorityEnum is returned when a created task names an unknown priority.
	ErrPriorityEnum = errors.New("priority must be high, medium, or low")
	// ErrInvalidPriority is returned for an unknown priority filter or update.
	ErrInvalidPriority = errors.New("invalid priority value")
	// ErrInvalidStatus is returned for an unknown status filter or update.
	ErrInvalidStatus = errors.New("invalid status value")
	// ErrInvalidDueDate is returned when a due date cannot be parsed.
	ErrInvalidDueDate = errors.New("invalid dueDate format")
	// ErrDueDatePast is returned when a supplied due date is already past.
	ErrDueDatePast = errors.New("dueDate cannot be in the past")
	// ErrTooManySubTasks is returned when the sub-task cap is exceeded.
	ErrTooManySubTasks = errors.New("cannot add more than 10 sub-tasks")
	// ErrSubTaskTitleRequired is returned when a sub-task has no title.
	ErrSubTaskTitleRequired = errors.New("sub-task title is required and cannot be empty")
	// ErrInvalidSubTaskStatus is returned for an unknown sub-task status.
	ErrInvalidSubTaskStatus = errors.New("invalid sub-task status")
	// ErrSearchQueryRequired is returned when the search term is blank.
	ErrSearchQueryRequired = errors.New("search query is required and cannot be empty")
)

// dueDateLayouts are the accepted due date formats.
var dueDateLayouts = []string{time.RFC3339, "2006-01-02"}

// parseDueDate parses and validates a supplied due date. Due dates must not
// be in the past at the moment of write.
func parseDueDate(raw string) (*time.Time, error) {
	var parsed time.Time
	var err error
	for _, layout := range dueDateLayouts {
		parsed, err = time.Parse(layout, raw)
		if err == nil {
			break
		}
	}
	if err != nil {
		return nil, ErrInvalidDueDate
	}
	if parsed.Before(time.Now()) {
		return nil, ErrDueDatePast
	}
	return &parsed, nil
}

// validateTitle trims and bounds-checks a task title. requiredErr is the
// error to report when the trimmed title is empty; create and update report
// the violation differently.
func validateTitle(raw string, requiredErr error) (string, error) {
	title := strings.TrimSpace(raw)
	if title == "" {
		return "", requiredErr
	}
	if utf8.RuneCountInString(title) > domain.MaxTitleLen {
		return "", ErrTitleTooLong
	}
	return title, nil
}

// buildSubTasks validates a supplied sub-task sequence and converts it to
// domain entities in insertion order.
func buildSubTasks(inputs []SubTaskInput) ([]domain.SubTask, error) {
	if len(inputs) > domain.MaxSubTasks {
		return nil, ErrTooManySubTasks
	}

	now := time.Now()
	subTasks := make([]domain.SubTask, 0, len(inputs))
	for i, input := range inputs {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			return nil, ErrSubTaskTitleRequired
		}
		status := domain.StatusTodo
		if input.Status != "" {
			if !domain.ValidStatus(input.Status) {
				return nil, ErrInvalidSubTaskStatus
			}
			status = domain.Status(input.Status)
		}
		subTasks = append(subTasks, domain.SubTask{
			ID:        uuid.New().String(),
			Title:     title,
			Status:    status,
			Position:  i,
			CreatedAt: now,
		})
	}
	return subTasks, nil
}

// createTask handles the task.create service request.
func (m *TaskModule) createTask(_ context.Context, req CreateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	if req.UserID == "" {
		return TaskResponse{}, ErrUserRequired
	}

	title, err := validateTitle(req.Title, ErrTitleRequired)
	if err != nil {
		return TaskResponse{}, err
	}

	priority := domain.PriorityMedium
	if req.Priority != "" {
		if !domain.ValidPriority(req.Priority) {
			return TaskResponse{}, ErrPriorityEnum
		}
		priority = domain.Priority(req.Priority)
	}

	var dueDate *time.Time
	if req.DueDate != "" {
		dueDate, err = parseDueDate(req.DueDate)
		if err != nil {
			return TaskResponse{}, err
		}
	}

	subTasks, err := buildSubTasks(req.SubTasks)
	if err != nil {
		return TaskResponse{}, err
	}

	now := time.Now()
	newTask := &domain.Task{
		ID:          uuid.New().String(),
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		Priority:    priority,
		Status:      domain.StatusTodo,
		DueDate:     dueDate,
		UserID:      req.UserID,
		SubTasks:    subTasks,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := m.repo.Create(newTask); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to save task: %w", err)
	}

	return toTaskResponse(newTask), nil
}

// getTask handles the task.get service request.
func (m *TaskModule) getTask(_ context.Context, req GetTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}
	return toTaskResponse(found), nil
}

// listTasks handles the task.list service request.
func (m *TaskModule) listTasks(_ context.Context, req ListTasksRequest, _ *mono.Msg) (TaskListResponse, error) {
	if req.Priority != "" && !domain.ValidPriority(req.Priority) {
		return TaskListResponse{}, ErrInvalidPriority
	}
	if req.Status != "" && !domain.ValidStatus(req.Status) {
		return TaskListResponse{}, ErrInvalidStatus
	}

	orderClause, err := BuildOrderClause(req.Sort)
	if err != nil {
		return TaskListResponse{}, err
	}

	page := Pagination{Page: req.Page, Limit: req.Limit}
	if err := page.Validate(); err != nil {
		return TaskListResponse{}, err
	}

	filter := TaskFilter{UserID: req.UserID, Priority: req.Priority, Status: req.Status}
	tasks, total, err := m.repo.FindPage(filter, orderClause, page.Offset(), page.Limit)
	if err != nil {
		return TaskListResponse{}, err
	}

	return toTaskListResponse(tasks, page, total), nil
}

// searchTasks handles the task.search service request.
func (m *TaskModule) searchTasks(_ context.Context, req SearchTasksRequest, _ *mono.Msg) (TaskListResponse, error) {
	term := strings.TrimSpace(req.Query)
	if term == "" {
		return TaskListResponse{}, ErrSearchQueryRequired
	}

	page := Pagination{Page: req.Page, Limit: req.Limit}
	if err := page.Validate(); err != nil {
		return TaskListResponse{}, err
	}

	tasks, total, err := m.repo.SearchPage(req.UserID, term, page.Offset(), page.Limit)
	if err != nil {
		return TaskListResponse{}, err
	}

	return toTaskListResponse(tasks, page, total), nil
}

// updateTask handles the task.update service request. Only supplied fields
// are validated and changed.
func (m *TaskModule) updateTask(_ context.Context, req UpdateTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	if req.Title != nil {
		title, err := validateTitle(*req.Title, ErrTitleEmpty)
		if err != nil {
			return TaskResponse{}, err
		}
		found.Title = title
	}

	if req.Description != nil {
		found.Description = strings.TrimSpace(*req.Description)
	}

	if req.Priority != nil {
		if !domain.ValidPriority(*req.Priority) {
			return TaskResponse{}, ErrInvalidPriority
		}
		found.Priority = domain.Priority(*req.Priority)
	}

	if req.Status != nil {
		if !domain.ValidStatus(*req.Status) {
			return TaskResponse{}, ErrInvalidStatus
		}
		status := domain.Status(*req.Status)
		switch {
		case status == domain.StatusCompleted && found.Status != domain.StatusCompleted:
			now := time.Now()
			found.CompletedAt = &now
		case status != domain.StatusCompleted:
			found.CompletedAt = nil
		}
		found.Status = status
	}

	// An empty dueDate string counts as not supplied; the stored date is
	// only revalidated when the caller sends a new one.
	if req.DueDate != nil && *req.DueDate != "" {
		dueDate, err := parseDueDate(*req.DueDate)
		if err != nil {
			return TaskResponse{}, err
		}
		found.DueDate = dueDate
	}

	var newSubTasks []domain.SubTask
	if req.SubTasks != nil {
		newSubTasks, err = buildSubTasks(*req.SubTasks)
		if err != nil {
			return TaskResponse{}, err
		}
	}

	found.UpdatedAt = time.Now()
	if err := m.repo.Save(found); err != nil {
		return TaskResponse{}, fmt.Errorf("failed to update task: %w", err)
	}

	if req.SubTasks != nil {
		if err := m.repo.ReplaceSubTasks(found.ID, newSubTasks); err != nil {
			return TaskResponse{}, fmt.Errorf("failed to replace sub-tasks: %w", err)
		}
		found.SubTasks = newSubTasks
	}

	return toTaskResponse(found), nil
}

// deleteTask handles the task.delete service request. Sub-tasks are
// removed with their parent.
func (m *TaskModule) deleteTask(_ context.Context, req DeleteTaskRequest, _ *mono.Msg) (DeleteTaskResponse, error) {
	if err := m.repo.Delete(req.TaskID, req.UserID); err != nil {
		return DeleteTaskResponse{Deleted: false}, err
	}
	return DeleteTaskResponse{Deleted: true}, nil
}

// addSubTask handles the task.add-subtask service request.
func (m *TaskModule) addSubTask(_ context.Context, req AddSubTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return TaskResponse{}, ErrSubTaskTitleRequired
	}

	status := domain.StatusTodo
	if req.Status != "" {
		if !domain.ValidStatus(req.Status) {
			return TaskResponse{}, ErrInvalidSubTaskStatus
		}
		status = domain.Status(req.Status)
	}

	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	if len(found.SubTasks) >= domain.MaxSubTasks {
		return TaskResponse{}, ErrTooManySubTasks
	}

	// Positions stay monotonic even after deletions in the middle
	position := 0
	if n := len(found.SubTasks); n > 0 {
		position = found.SubTasks[n-1].Position + 1
	}

	subTask := domain.SubTask{
		ID:        uuid.New().String(),
		TaskID:    found.ID,
		Title:     title,
		Status:    status,
		Position:  position,
		CreatedAt: time.Now(),
	}

	if err := m.repo.AddSubTask(&subTask); err != nil {
		return TaskResponse{}, err
	}

	found.SubTasks = append(found.SubTasks, subTask)
	found.UpdatedAt = time.Now()
	if err := m.repo.Save(found); err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(found), nil
}

// getSubTask handles the task.get-subtask service request.
func (m *TaskModule) getSubTask(_ context.Context, req GetSubTaskRequest, _ *mono.Msg) (SubTaskResponse, error) {
	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return SubTaskResponse{}, err
	}

	for _, subTask := range found.SubTasks {
		if subTask.ID == req.SubTaskID {
			return toSubTaskResponse(subTask), nil
		}
	}
	return SubTaskResponse{}, ErrSubTaskNotFound
}

// updateSubTask handles the task.update-subtask service request.
func (m *TaskModule) updateSubTask(_ context.Context, req UpdateSubTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	var title string
	if req.Title != nil {
		title = strings.TrimSpace(*req.Title)
		if title == "" {
			return TaskResponse{}, ErrSubTaskTitleRequired
		}
	}
	if req.Status != nil && !domain.ValidStatus(*req.Status) {
		return TaskResponse{}, ErrInvalidSubTaskStatus
	}

	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	index := -1
	for i := range found.SubTasks {
		if found.SubTasks[i].ID == req.SubTaskID {
			index = i
			break
		}
	}
	if index < 0 {
		return TaskResponse{}, ErrSubTaskNotFound
	}

	if req.Title != nil {
		found.SubTasks[index].Title = title
	}
	if req.Status != nil {
		found.SubTasks[index].Status = domain.Status(*req.Status)
	}

	if err := m.repo.SaveSubTask(&found.SubTasks[index]); err != nil {
		return TaskResponse{}, err
	}

	found.UpdatedAt = time.Now()
	if err := m.repo.Save(found); err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(found), nil
}

// deleteSubTask handles the task.delete-subtask service request.
func (m *TaskModule) deleteSubTask(_ context.Context, req DeleteSubTaskRequest, _ *mono.Msg) (TaskResponse, error) {
	found, err := m.repo.FindByIDAndOwner(req.TaskID, req.UserID)
	if err != nil {
		return TaskResponse{}, err
	}

	if err := m.repo.DeleteSubTask(found.ID, req.SubTaskID); err != nil {
		return TaskResponse{}, err
	}

	remaining := found.SubTasks[:0]
	for _, subTask := range found.SubTasks {
		if subTask.ID != req.SubTaskID {
			remaining = append(remaining, subTask)
		}
	}
	found.SubTasks = remaining

	found.UpdatedAt = time.Now()
	if err := m.repo.Save(found); err != nil {
		return TaskResponse{}, err
	}

	return toTaskResponse(found), nil
}

// toSubTaskResponse converts a SubTask entity to a SubTaskResponse.
func toSubTaskResponse(subTask domain.SubTask) SubTaskResponse {
	return SubTaskResponse{
		ID:        subTask.ID,
		Title:     subTask.Title,
		Status:    string(subTask.Status),
		CreatedAt: subTask.CreatedAt,
	}
}

// toTaskResponse converts a Task entity to a TaskResponse.
func toTaskResponse(task *domain.Task) TaskResponse {
	subTasks := make([]SubTaskResponse, 0, len(task.SubTasks))
	for _, subTask := range task.SubTasks {
		subTasks = append(subTasks, toSubTaskResponse(subTask))
	}

	return TaskResponse{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Priority:    string(task.Priority),
		Status:      string(task.Status),
		DueDate:     task.DueDate,
		UserID:      task.UserID,
		SubTasks:    subTasks,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		CompletedAt: task.CompletedAt,
	}
}

// toTaskListResponse assembles one page of tasks with pagination totals.
func toTaskListResponse(tasks []*domain.Task, page Pagination, total int64) TaskListResponse {
	response := TaskListResponse{
		Tasks:       make([]TaskResponse, 0, len(tasks)),
		CurrentPage: page.Page,
		TotalPages:  TotalPages(total, page.Limit),
		TotalTasks:  total,
	}
	for _, t := range tasks {
		response.Tasks = append(response.Tasks, toTaskResponse(t))
	}
	return response
}
