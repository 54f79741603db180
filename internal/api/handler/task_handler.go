package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sathvik89/task-manager-api/internal/api/metrics"
	"github.com/sathvik89/task-manager-api/internal/core/domain"
	"github.com/sathvik89/task-manager-api/internal/core/ports"
)

// TaskHandler handles HTTP requests for task operations. Every route is
// behind the Auth middleware; the owner id comes from the token, never from
// the payload.
type TaskHandler struct {
	service ports.TaskService
}

func NewTaskHandler(service ports.TaskService) *TaskHandler {
	return &TaskHandler{service: service}
}

// List handles GET /api/tasks.
//
// @Summary      List active tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        status       query  string  false  "Filter by status"    Enums(todo, in-progress, completed)
// @Param        category     query  string  false  "Filter by category"  Enums(Personal, Work, Urgent, Other)
// @Param        searchQuery  query  string  false  "Substring match on title or description"
// @Param        sortBy       query  string  false  "Sort key"            Enums(dueDate, createdAt)
// @Success      200  {array}   taskResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/tasks [get]
func (h *TaskHandler) List(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.List(c.Request().Context(), ports.ListTasksInput{
		OwnerID:  userID,
		Status:   c.QueryParam("status"),
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("searchQuery"),
		SortBy:   c.QueryParam("sortBy"),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// ListTrash handles GET /api/tasks/trash.
//
// @Summary      List trashed tasks
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   taskResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/tasks/trash [get]
func (h *TaskHandler) ListTrash(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	tasks, err := h.service.ListTrash(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponses(tasks))
}

// Stats handles GET /api/tasks/stats.
//
// @Summary      Per-user task statistics
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  statsResponse
// @Failure      401  {object}  errorResponse
// @Router       /api/tasks/stats [get]
func (h *TaskHandler) Stats(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	stats, err := h.service.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toStatsResponse(stats))
}

// Get handles GET /api/tasks/:id.
//
// @Summary      Get a single task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  taskResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [get]
func (h *TaskHandler) Get(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	task, err := h.service.Get(c.Request().Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// Create handles POST /api/tasks.
//
// @Summary      Create a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTaskRequest  true  "Task fields"
// @Success      201   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Router       /api/tasks [post]
func (h *TaskHandler) Create(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	task, err := h.service.Create(c.Request().Context(), ports.CreateTaskInput{
		OwnerID:     userID,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		DueDate:     req.DueDate,
	})
	if err != nil {
		if errors.Is(err, domain.ErrTitleRequired) {
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}

	metrics.TasksCreatedTotal.WithLabelValues(string(task.Category)).Inc()
	return c.JSON(http.StatusCreated, toTaskResponse(task))
}

// Update handles PUT /api/tasks/:id.
//
// @Summary      Update a task
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Task id"
// @Param        body  body      updateTaskRequest  true  "Fields to replace"
// @Success      200   {object}  taskResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/tasks/{id} [put]
func (h *TaskHandler) Update(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	task, err := h.service.Update(c.Request().Context(), userID, c.Param("id"), ports.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		DueDate:     req.DueDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrTaskNotFound):
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		case errors.Is(err, domain.ErrTitleRequired):
			return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		}
		return err
	}
	return c.JSON(http.StatusOK, toTaskResponse(task))
}

// SoftDelete handles DELETE /api/tasks/:id, moving the task to the trash.
//
// @Summary      Move a task to the trash
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id} [delete]
func (h *TaskHandler) SoftDelete(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.SoftDelete(c.Request().Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		return err
	}

	metrics.TaskLifecycleTotal.WithLabelValues("trashed").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Task moved to trash"})
}

// Restore handles PUT /api/tasks/:id/restore.
//
// @Summary      Restore a task from the trash
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id}/restore [put]
func (h *TaskHandler) Restore(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.Restore(c.Request().Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		return err
	}

	metrics.TaskLifecycleTotal.WithLabelValues("restored").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Task restored"})
}

// DeletePermanently handles DELETE /api/tasks/:id/permanent. Only trashed
// tasks are eligible; an active task id yields 404.
//
// @Summary      Permanently delete a trashed task
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Task id"
// @Success      200  {object}  messageResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/tasks/{id}/permanent [delete]
func (h *TaskHandler) DeletePermanently(c echo.Context) error {
	userID, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.service.DeletePermanently(c.Request().Context(), userID, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			return c.JSON(http.StatusNotFound, errorResponse{Error: "task not found"})
		}
		return err
	}

	metrics.TaskLifecycleTotal.WithLabelValues("purged_by_owner").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Task permanently deleted"})
}
