// Package handler contains the HTTP handlers of the alert network API.
package handler

import (
	"log/slog"
	"net/http"

	"agrinet/internal/delivery/http/response"
	"agrinet/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// registerFarmerRequest is the registration payload. Validation tags cover
// the transport-level shape; domain rules live in the usecase.
type registerFarmerRequest struct {
	FarmerID      string  `json:"farmer_id" validate:"required"`
	Name          string  `json:"name" validate:"required"`
	Phone         string  `json:"phone"`
	Latitude      float64 `json:"latitude" validate:"min=-90,max=90"`
	Longitude     float64 `json:"longitude" validate:"min=-180,max=180"`
	SoilType      string  `json:"soil_type" validate:"required"`
	SoilPH        float64 `json:"soil_ph" validate:"min=0,max=14"`
	CurrentCrop   string  `json:"current_crop" validate:"required"`
	WaterSource   string  `json:"water_source" validate:"required"`
	FarmSizeAcres float64 `json:"farm_size_acres" validate:"min=0"`
}

// FarmerHandler holds dependencies for farmer registry handlers.
type FarmerHandler struct {
	registry usecase.RegistryUsecase
	logger   *slog.Logger
}

// NewFarmerHandler is the constructor for FarmerHandler, injected by Fx.
func NewFarmerHandler(registry usecase.RegistryUsecase, logger *slog.Logger) *FarmerHandler {
	return &FarmerHandler{
		registry: registry,
		logger:   logger,
	}
}

// Register handles the farmer registration request.
func (h *FarmerHandler) Register(c echo.Context) error {
	var req registerFarmerRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid registration input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	farmer, err := h.registry.RegisterFarmer(c.Request().Context(), usecase.RegisterFarmerInput{
		FarmerID:      req.FarmerID,
		Name:          req.Name,
		Phone:         req.Phone,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		SoilType:      req.SoilType,
		SoilPH:        req.SoilPH,
		CurrentCrop:   req.CurrentCrop,
		WaterSource:   req.WaterSource,
		FarmSizeAcres: req.FarmSizeAcres,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, farmer, "Farmer registered successfully")
}

// Get handles the farmer profile lookup.
func (h *FarmerHandler) Get(c echo.Context) error {
	farmer, err := h.registry.GetFarmer(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, farmer, "")
}

// ShareCard returns the farmer's QR share card as a PNG image.
func (h *FarmerHandler) ShareCard(c echo.Context) error {
	png, err := h.registry.GenerateShareCard(c.Request().Context(), c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return c.Blob(http.StatusOK, "image/png", png)
}

// HealthCheck reports service liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
