package api

import (
	"log"
	"strconv"
	"strings"

	domain "github.com/example/taskmaster/domain/user"
	"github.com/example/taskmaster/modules/task"
	"github.com/gofiber/fiber/v2"
)

// claimsFromContext returns the authenticated caller's claims set by the
// auth middleware.
func claimsFromContext(c *fiber.Ctx) (*domain.Claims, bool) {
	claims, ok := c.Locals(UserContextKey).(*domain.Claims)
	return claims, ok
}

// parsePagination reads page/limit query parameters, applying defaults for
// absent values. Non-numeric values are reported with the same messages as
// out-of-range ones.
func parsePagination(c *fiber.Ctx) (int, int, error) {
	page := task.DefaultPage
	limit := task.DefaultLimit

	if raw := c.Query("page"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, task.ErrInvalidPage
		}
		page = value
	}
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, task.ErrInvalidLimit
		}
		limit = value
	}
	return page, limit, nil
}

// CreateTask handles POST /api/tasks.
func (h *Handlers) CreateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload CreateTaskPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	resp, err := h.taskAdapter.CreateTask(c.UserContext(), &task.CreateTaskRequest{
		UserID:      claims.UserID,
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
		DueDate:     payload.DueDate,
		SubTasks:    toSubTaskInputs(payload.SubTasks),
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskJSON(resp))
}

// ListTasks handles GET /api/tasks.
func (h *Handlers) ListTasks(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	resp, err := h.taskAdapter.ListTasks(c.UserContext(), &task.ListTasksRequest{
		UserID:   claims.UserID,
		Priority: c.Query("priority"),
		Status:   c.Query("status"),
		Sort:     c.Query("sort"),
		Page:     page,
		Limit:    limit,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskListJSON(resp))
}

// SearchTasks handles GET /api/tasks/search.
func (h *Handlers) SearchTasks(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	page, limit, err := parsePagination(c)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	resp, err := h.taskAdapter.SearchTasks(c.UserContext(), &task.SearchTasksRequest{
		UserID: claims.UserID,
		Query:  c.Query("query"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskListJSON(resp))
}

// GetTask handles GET /api/tasks/:id.
func (h *Handlers) GetTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskAdapter.GetTask(c.UserContext(), claims.UserID, c.Params("id"))
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskJSON(resp))
}

// UpdateTask handles PUT /api/tasks/:id.
func (h *Handlers) UpdateTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload UpdateTaskPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	req := &task.UpdateTaskRequest{
		UserID:      claims.UserID,
		TaskID:      c.Params("id"),
		Title:       payload.Title,
		Description: payload.Description,
		Priority:    payload.Priority,
		Status:      payload.Status,
		DueDate:     payload.DueDate,
	}
	if payload.SubTasks != nil {
		inputs := toSubTaskInputs(*payload.SubTasks)
		req.SubTasks = &inputs
	}

	resp, err := h.taskAdapter.UpdateTask(c.UserContext(), req)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskJSON(resp))
}

// DeleteTask handles DELETE /api/tasks/:id.
func (h *Handlers) DeleteTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	if err := h.taskAdapter.DeleteTask(c.UserContext(), claims.UserID, c.Params("id")); err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(MessageResponse{Message: "Task deleted"})
}

// AddSubTask handles POST /api/tasks/:taskId/subtasks.
func (h *Handlers) AddSubTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload AddSubTaskPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	resp, err := h.taskAdapter.AddSubTask(c.UserContext(), &task.AddSubTaskRequest{
		UserID: claims.UserID,
		TaskID: c.Params("taskId"),
		Title:  payload.Title,
		Status: payload.Status,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toTaskJSON(resp))
}

// GetSubTask handles GET /api/tasks/:taskId/subtasks/:subTaskId.
func (h *Handlers) GetSubTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskAdapter.GetSubTask(
		c.UserContext(), claims.UserID, c.Params("taskId"), c.Params("subTaskId"),
	)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toSubTaskJSON(*resp))
}

// UpdateSubTask handles PUT /api/tasks/:taskId/subtasks/:subTaskId.
func (h *Handlers) UpdateSubTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	var payload UpdateSubTaskPayload
	if err := c.BodyParser(&payload); err != nil {
		return invalidBody(c)
	}

	resp, err := h.taskAdapter.UpdateSubTask(c.UserContext(), &task.UpdateSubTaskRequest{
		UserID:    claims.UserID,
		TaskID:    c.Params("taskId"),
		SubTaskID: c.Params("subTaskId"),
		Title:     payload.Title,
		Status:    payload.Status,
	})
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskJSON(resp))
}

// DeleteSubTask handles DELETE /api/tasks/:taskId/subtasks/:subTaskId.
func (h *Handlers) DeleteSubTask(c *fiber.Ctx) error {
	claims, ok := claimsFromContext(c)
	if !ok {
		return unauthenticated(c)
	}

	resp, err := h.taskAdapter.DeleteSubTask(
		c.UserContext(), claims.UserID, c.Params("taskId"), c.Params("subTaskId"),
	)
	if err != nil {
		return h.handleTaskError(c, err)
	}

	return c.JSON(toTaskJSON(resp))
}

// notFoundMessages maps task service not-found errors to client messages.
// The sub-task entry must come first: its message contains the task one.
var notFoundMessages = []struct {
	needle  string
	message string
}{
	{"sub-task not found", "Sub-task not found"},
	{"task not found", "Task not found or not authorized"},
}

// validationMessages are the task service validation errors surfaced to
// clients as 400s. Longer messages that contain shorter ones come first.
var validationMessages = []string{
	"sub-task title is required and cannot be empty",
	"title is required and cannot be empty",
	"title cannot be empty",
	"title cannot be more than 20 characters",
	"priority must be high, medium, or low",
	"invalid priority value",
	"invalid sub-task status",
	"invalid status value",
	"invalid dueDate format",
	"dueDate cannot be in the past",
	"cannot add more than 10 sub-tasks",
	"search query is required and cannot be empty",
	"invalid page number",
	"limit must be between 1 and 100",
	"invalid sort field",
	"user is required",
}

// handleTaskError maps task service errors to HTTP responses. Validation
// failures keep their descriptive message; anything unrecognized surfaces
// as a generic client error, never retried.
func (h *Handlers) handleTaskError(c *fiber.Ctx, err error) error {
	errStr := err.Error()

	for _, notFound := range notFoundMessages {
		if strings.Contains(errStr, notFound.needle) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error:   "not_found",
				Message: notFound.message,
			})
		}
	}

	for _, message := range validationMessages {
		if idx := strings.Index(errStr, message); idx >= 0 {
			// Keep the tail so dynamic parts ("invalid sort field: x") survive
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error:   "validation_error",
				Message: errStr[idx:],
			})
		}
	}

	log.Printf("[api] Task service error: %v", err)
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: errStr,
	})
}

func unauthenticated(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: "User not authenticated",
	})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "bad_request",
		Message: "Invalid request body",
	})
}

func toSubTaskInputs(payloads []SubTaskPayload) []task.SubTaskInput {
	if payloads == nil {
		return nil
	}
	inputs := make([]task.SubTaskInput, 0, len(payloads))
	for _, p := range payloads {
		inputs = append(inputs, task.SubTaskInput{Title: p.Title, Status: p.Status})
	}
	return inputs
}

func toSubTaskJSON(subTask task.SubTaskResponse) SubTaskJSON {
	return SubTaskJSON{
		ID:        subTask.ID,
		Title:     subTask.Title,
		Status:    subTask.Status,
		CreatedAt: subTask.CreatedAt,
	}
}

func toTaskJSON(t *task.TaskResponse) TaskJSON {
	subTasks := make([]SubTaskJSON, 0, len(t.SubTasks))
	for _, subTask := range t.SubTasks {
		subTasks = append(subTasks, toSubTaskJSON(subTask))
	}

	return TaskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		UserID:      t.UserID,
		SubTasks:    subTasks,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		CompletedAt: t.CompletedAt,
	}
}

func toTaskListJSON(list *task.TaskListResponse) TaskListJSON {
	tasks := make([]TaskJSON, 0, len(list.Tasks))
	for i := range list.Tasks {
		tasks = append(tasks, toTaskJSON(&list.Tasks[i]))
	}
	return TaskListJSON{
		Tasks:       tasks,
		CurrentPage: list.CurrentPage,
		TotalPages:  list.TotalPages,
		TotalTasks:  list.TotalTasks,
	}
}
