package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sumire/freelance/internal/service"
)

// ViewHandler serves the derived views: dashboard, payment totals, project
// progress and meeting completion.
type ViewHandler struct {
	services *service.Services
}

// NewViewHandler creates a ViewHandler.
func NewViewHandler(services *service.Services) *ViewHandler {
	return &ViewHandler{services: services}
}

// Dashboard returns the overview aggregates.
func (h *ViewHandler) Dashboard(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	d, err := h.services.Dashboard(c.Request().Context(), owner)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, d)
}

// PaymentSummary returns payment totals by status, optionally for one project.
func (h *ViewHandler) PaymentSummary(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	totals, err := h.services.PaymentTotals(c.Request().Context(), owner, c.QueryParam("project_id"))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, totals)
}

// ProjectProgress returns the share of a project's requirements that are done.
func (h *ViewHandler) ProjectProgress(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	progress, err := h.services.ProjectProgress(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, progress)
}

// CompleteMeeting marks a meeting as held.
func (h *ViewHandler) CompleteMeeting(c echo.Context) error {
	owner, err := ownerID(c)
	if err != nil {
		return err
	}

	m, err := h.services.CompleteMeeting(c.Request().Context(), owner, c.Param("id"))
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, m)
}
