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

type NoteHandler struct {
	Repo     *repo.Repo
	Producer *events.Producer
	Search   *search.Client
}

func (h *NoteHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	notes, err := h.Repo.ListNotes(ctx, user.ID)
	if err != nil {
		logging.FromContext(ctx).Error("note_list_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list notes")
	}
	return c.JSON(http.StatusOK, notes)
}

func (h *NoteHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "title is required")
	}

	note, err := h.Repo.CreateNote(ctx, user.ID, req.Title, req.Content)
	if err != nil {
		logging.FromContext(ctx).Error("note_create_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not create note")
	}

	if err := h.Search.IndexNote(ctx, note); err != nil {
		logging.FromContext(ctx).Warn("note_index_failed", "note_id", note.ID, "error", err)
	}
	publish(c, h.Producer, events.TopicNoteEvents, note.ID.String(), map[string]interface{}{
		"type":    "note_created",
		"note_id": note.ID,
		"user_id": user.ID,
	})

	return c.JSON(http.StatusCreated, note)
}

func (h *NoteHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}

	var req struct {
		Title   *string `json:"title"`
		Content *string `json:"content"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	note, err := h.Repo.UpdateNote(ctx, user.ID, id, repo.NotePatch{
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "note not found")
		}
		logging.FromContext(ctx).Error("note_update_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not update note")
	}

	if err := h.Search.IndexNote(ctx, note); err != nil {
		logging.FromContext(ctx).Warn("note_index_failed", "note_id", note.ID, "error", err)
	}

	return c.JSON(http.StatusOK, note)
}

func (h *NoteHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "note not found")
	}

	if err := h.Repo.DeleteNote(ctx, user.ID, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "note not found")
		}
		logging.FromContext(ctx).Error("note_delete_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "could not delete note")
	}

	if err := h.Search.Remove(ctx, id); err != nil {
		logging.FromContext(ctx).Warn("note_deindex_failed", "note_id", id, "error", err)
	}
	publish(c, h.Producer, events.TopicNoteEvents, id.String(), map[string]interface{}{
		"type":    "note_deleted",
		"note_id": id,
		"user_id": user.ID,
	})

	return c.JSON(http.StatusOK, echo.Map{"message": "note deleted"})
}
