package handler

import (
	"log/slog"
	"net/http"

	deliverycontext "agrinet/internal/delivery/context"
	"agrinet/internal/delivery/http/response"
	"agrinet/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type reportDiseaseRequest struct {
	FarmerID     string  `json:"farmer_id" validate:"required"`
	Disease      string  `json:"disease" validate:"required"`
	Severity     float64 `json:"severity" validate:"min=0,max=1"`
	CropAffected string  `json:"crop_affected"`
}

// AlertHandler holds dependencies for disease report and alert handlers.
type AlertHandler struct {
	alerts usecase.AlertUsecase
	logger *slog.Logger
}

// NewAlertHandler is the constructor for AlertHandler, injected by Fx.
func NewAlertHandler(alerts usecase.AlertUsecase, logger *slog.Logger) *AlertHandler {
	return &AlertHandler{
		alerts: alerts,
		logger: logger,
	}
}

// ReportDisease handles a disease report and fans out alerts.
func (h *AlertHandler) ReportDisease(c echo.Context) error {
	var req reportDiseaseRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid disease report input")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	summary, err := h.alerts.ReportDisease(ctx, usecase.DiseaseReportInput{
		FarmerID:     req.FarmerID,
		Disease:      req.Disease,
		Severity:     req.Severity,
		CropAffected: req.CropAffected,
		RequestID:    deliverycontext.GetRequestIDFromContext(ctx),
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusCreated, summary, "Disease report processed")
}

// List retrieves a farmer's alerts. ?include_read=true includes read alerts.
func (h *AlertHandler) List(c echo.Context) error {
	includeRead := c.QueryParam("include_read") == "true"

	alerts, err := h.alerts.GetAlertsForFarmer(c.Request().Context(), c.Param("id"), includeRead)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, alerts, "")
}

// MarkRead flags an alert as read.
func (h *AlertHandler) MarkRead(c echo.Context) error {
	alertID, err := uuid.Parse(c.Param("alertID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid alert ID")
	}

	changed, err := h.alerts.MarkAlertRead(c.Request().Context(), alertID, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"changed": changed}, "Alert marked as read")
}

// Dismiss removes an alert from the farmer's feed.
func (h *AlertHandler) Dismiss(c echo.Context) error {
	alertID, err := uuid.Parse(c.Param("alertID"))
	if err != nil {
		return response.BadRequest(c, "INVALID_INPUT", "Invalid alert ID")
	}

	changed, err := h.alerts.DismissAlert(c.Request().Context(), alertID, c.Param("id"))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, http.StatusOK, map[string]bool{"changed": changed}, "Alert dismissed")
}
