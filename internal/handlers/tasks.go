package handlers

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/daylist/internal/events"
	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/middleware"
	"github.com/nmoreau/daylist/internal/repo"
	"github.com/nmoreau/daylist/internal/search"
)

type TaskHandler struct {
	Repo     *repo.Repo
	Producer *events.Producer
	Search   *search.Client
}

func (h *TaskHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	tasks, err := h.Repo.ListTasks(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("task_list_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list tasks")
	}
	return c.JSON(http.StatusOK, tasks)
}

func (h *TaskHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	var req struct {
		Title     string `json:"title"`
		Completed bool   `json:"completed"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	task, err := h.Repo.CreateTask(ctx, user.ID, req.Title, req.Completed)
	if err != nil {
		logging.FromContext(ctx).Error("task_create_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create task")
	}

	if err := h.Search.IndexTask(ctx, task); err != nil {
		logging.FromContext(ctx).Warn("task_index_failed", "task_id", task.ID, "error", err)
	}
	publish(c, h.Producer, events.TopicTaskEvents, task.ID.String(), map[string]interface{}{
		"type":    "task_created",
		"task_id": task.ID,
		"user_id": user.ID,
	})

	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	var req struct {
		Title     *string `json:"title"`
		Completed *bool   `json:"completed"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	task, err := h.Repo.UpdateTask(ctx, user.ID, id, repo.TaskPatch{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		logging.FromContext(ctx).Error("task_update_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update task")
	}

	if err := h.Search.IndexTask(ctx, task); err != nil {
		logging.FromContext(ctx).Warn("task_index_failed", "task_id", task.ID, "error", err)
	}

	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "task not found")
	}

	if err := h.Repo.DeleteTask(ctx, user.ID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "task not found")
		}
		logging.FromContext(ctx).Error("task_delete_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete task")
	}

	if err := h.Search.Remove(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("task_deindex_failed", "task_id", id, "error", err)
	}
	publish(c, h.Producer, events.TopicTaskEvents, id.String(), map[string]interface{}{
		"type":    "task_deleted",
		"task_id": id,
		"user_id": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "task deleted"})
}
