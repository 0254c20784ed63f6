package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/daylist/internal/handlers"
	"github.com/nmoreau/daylist/internal/middleware"
)

type Deps struct {
	AuthHandler   *handlers.AuthHandler
	TaskHandler   *handlers.TaskHandler
	NoteHandler   *handlers.NoteHandler
	SearchHandler *handlers.SearchHandler
	AuthMW        *middleware.Auth
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	auth := e.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.GET("/me", d.AuthHandler.Me, d.AuthMW.RequireAuth)

	tasks := e.Group("/tasks", d.AuthMW.RequireAuth)
	tasks.GET("", d.TaskHandler.List)
	tasks.POST("", d.TaskHandler.Create)
	tasks.PUT("/:id", d.TaskHandler.Update)
	tasks.DELETE("/:id", d.TaskHandler.Delete)

	notes := e.Group("/notes", d.AuthMW.RequireAuth)
	notes.GET("", d.NoteHandler.List)
	notes.POST("", d.NoteHandler.Create)
	notes.PUT("/:id", d.NoteHandler.Update)
	notes.DELETE("/:id", d.NoteHandler.Delete)

	e.GET("/search", d.SearchHandler.Handler, d.AuthMW.RequireAuth)
}
