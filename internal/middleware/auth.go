package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/models"
	"github.com/nmoreau/daylist/internal/repo"
	"github.com/nmoreau/daylist/internal/token"
)

const userContextKey = "user"

const bearerPrefix = "Bearer "

// Auth is the single choke point for identity on protected routes. It
// verifies the bearer token, confirms the account still exists and attaches
// the resolved user to the request context. Every auth failure is a uniform
// 401; the reason only goes to the log.
type Auth struct {
	Signer token.Signer
	Repo   *repo.Repo
}

func NewAuth(signer token.Signer, r *repo.Repo) *Auth {
	return &Auth{Signer: signer, Repo: r}
}

func (m *Auth) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("mw", "auth")

		header := c.Request().Header.Get(echo.HeaderAuthorization)
		if !strings.HasPrefix(header, bearerPrefix) {
			l.Warn("auth_rejected", "reason", "missing bearer token")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		userID, err := m.Signer.Verify(strings.TrimSpace(header[len(bearerPrefix):]))
		if err != nil {
			l.Warn("auth_rejected", "reason", "invalid token")
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		// A valid signature is not enough: the account may have been
		// deleted after the token was issued.
		user, err := m.Repo.UserByID(ctx, userID)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				l.Warn("auth_rejected", "reason", "user no longer exists", "user_id", userID)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			l.Error("auth_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}

		c.Set(userContextKey, user)
		return next(c)
	}
}

// CurrentUser returns the user attached by RequireAuth, or nil on
// unprotected routes.
func CurrentUser(c echo.Context) *models.User {
	user, _ := c.Get(userContextKey).(*models.User)
	return user
}
