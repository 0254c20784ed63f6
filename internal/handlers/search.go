package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/nmoreau/daylist/internal/logging"
	"github.com/nmoreau/daylist/internal/middleware"
	"github.com/nmoreau/daylist/internal/search"
	"github.com/nmoreau/daylist/internal/util"
)

type SearchHandler struct {
	Search *search.Client
}

func (h *SearchHandler) Handler(c echo.Context) error {
	if h.Search == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()
	user := middleware.CurrentUser(c)

	total, results, err := h.Search.Search(ctx, user.ID, q, from, size)
	if err != nil {
		logging.FromContext(ctx).Error("search_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "search failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "results": results})
}
