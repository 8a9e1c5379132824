package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"agrinet/internal/delivery/http/response"
	"agrinet/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// DashboardHandler holds dependencies for the aggregated read handlers.
type DashboardHandler struct {
	dashboard  usecase.DashboardUsecase
	similarity usecase.SimilarityUsecase
	logger     *slog.Logger
}

// NewDashboardHandler is the constructor for DashboardHandler, injected by Fx.
func NewDashboardHandler(dashboard usecase.DashboardUsecase, similarity usecase.SimilarityUsecase, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboard:  dashboard,
		similarity: similarity,
		logger:     logger,
	}
}

// Get assembles the farmer's dashboard view.
func (h *DashboardHandler) Get(c echo.Context) error {
	dashboard, err := h.dashboard.GetDashboard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, dashboard, "")
}

// Stats returns network-wide counters and the active tunables.
func (h *DashboardHandler) Stats(c echo.Context) error {
	stats, err := h.dashboard.GetNetworkStats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, stats, "")
}

// Similar retrieves farmers similar to the given one: ?top_k=&min_similarity=.
func (h *DashboardHandler) Similar(c echo.Context) error {
	topK := 0
	if raw := c.QueryParam("top_k"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid top_k parameter")
		}
		topK = parsed
	}
	minSimilarity := 0.0
	if raw := c.QueryParam("min_similarity"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			return response.BadRequest(c, "INVALID_INPUT", "Invalid min_similarity parameter")
		}
		minSimilarity = parsed
	}

	matches, err := h.similarity.FindSimilar(c.Request().Context(), c.Param("id"), topK, minSimilarity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, matches, "")
}
