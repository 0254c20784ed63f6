package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nmoreau/daylist/internal/events"
	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/models"
)

// userResponse is the public projection of a user. The password hash never
// leaves the models package serialized, but being explicit here keeps the
// contract visible.
type userResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   string    `json:"avatar"`
	Theme    string    `json:"theme"`
}

func publicUser(u *models.User) userResponse {
	return userResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Theme:    u.Theme,
	}
}

// publish sends a domain event best-effort: failures are logged and never
// fail the request.
func publish(c echo.Context, p *events.Producer, topic, key string, event map[string]interface{}) {
	if p == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		logging.FromContext(c.Request().Context()).Warn("event_publish_failed", "topic", topic, "error", err)
	}
}
