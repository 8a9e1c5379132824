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

type updateLocationRequest struct {
	Latitude  float64  `json:"latitude" validate:"min=-90,max=90"`
	Longitude float64  `json:"longitude" validate:"min=-180,max=180"`
	AccuracyM *float64 `json:"accuracy_m,omitempty"`
}

// LocationHandler holds dependencies for location handlers.
type LocationHandler struct {
	location usecase.LocationUsecase
	logger   *slog.Logger
}

// NewLocationHandler is the constructor for LocationHandler, injected by Fx.
func NewLocationHandler(location usecase.LocationUsecase, logger *slog.Logger) *LocationHandler {
	return &LocationHandler{
		location: location,
		logger:   logger,
	}
}

// Update records a GPS ping for the farmer.
func (h *LocationHandler) Update(c echo.Context) error {
	var req updateLocationRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid location input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	record, err := h.location.UpdateLocation(c.Request().Context(), usecase.UpdateLocationInput{
		FarmerID:  c.Param("id"),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		AccuracyM: req.AccuracyM,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, record, "Location updated")
}

// Get retrieves the farmer's current position and history.
func (h *LocationHandler) Get(c echo.Context) error {
	record, err := h.location.GetLocation(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, record, "")
}

// Nearby retrieves farmers around a point: ?lat=&lon=&radius_km=.
func (h *LocationHandler) Nearby(c echo.Context) error {
	latitude, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid lat parameter")
	}
	longitude, err := strconv.ParseFloat(c.QueryParam("lon"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid lon parameter")
	}
	radiusKm, err := strconv.ParseFloat(c.QueryParam("radius_km"), 64)
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid radius_km parameter")
	}

	nearby, err := h.location.GetNearby(c.Request().Context(), latitude, longitude, radiusKm)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, nearby, "")
}
