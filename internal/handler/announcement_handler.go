package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"villageboard/internal/errors"
	"villageboard/internal/model"
	"villageboard/internal/service"
)

// AnnouncementHandler handles announcement endpoints.
type AnnouncementHandler struct {
	svc service.AnnouncementService
}

// NewAnnouncementHandler creates a new announcement handler.
func NewAnnouncementHandler(svc service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{svc: svc}
}

// CreateAnnouncementRequest represents an announcement submission.
type CreateAnnouncementRequest struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description" validate:"required"`
	Status      string `json:"status"`
	OwnerID     string `json:"owner_id" validate:"required,uuid4"`
}

// UpdateAnnouncementRequest represents a partial announcement edit.
type UpdateAnnouncementRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Create godoc
// @Summary Submit an announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param request body CreateAnnouncementRequest true "Announcement"
// @Success 201 {object} model.Announcement
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c echo.Context) error {
	var req CreateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner_id")
	}

	caller, err := callerID(c)
	if err != nil {
		return err
	}

	announcement, err := h.svc.Create(c.Request().Context(), caller, ownerID, req.Title, req.Description, model.Status(req.Status))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, announcement)
}

// List godoc
// @Summary List announcements with owner names
// @Tags announcements
// @Produce json
// @Success 200 {array} service.AnnouncementWithOwner
// @Failure 500 {object} errors.ErrorResponse
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c echo.Context) error {
	announcements, err := h.svc.List(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, announcements)
}

// ListByOwner godoc
// @Summary List announcements by owner
// @Tags announcements
// @Produce json
// @Param ownerID path string true "Owner member ID"
// @Success 200 {array} model.Announcement
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /announcements/owner/{ownerID} [get]
func (h *AnnouncementHandler) ListByOwner(c echo.Context) error {
	ownerID, err := uuid.Parse(c.Param("ownerID"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid owner id")
	}

	announcements, err := h.svc.ListByOwner(c.Request().Context(), ownerID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, announcements)
}

// Update godoc
// @Summary Edit own announcement
// @Tags announcements
// @Accept json
// @Produce json
// @Param id path string true "Announcement ID"
// @Param request body UpdateAnnouncementRequest true "Fields to update"
// @Success 200 {object} model.Announcement
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /announcements/{id} [put]
func (h *AnnouncementHandler) Update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var req UpdateAnnouncementRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	announcement, err := h.svc.Update(c.Request().Context(), caller, id, service.AnnouncementUpdate{
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, announcement)
}

// Delete godoc
// @Summary Delete own announcement
// @Tags announcements
// @Produce json
// @Param id path string true "Announcement ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /announcements/{id} [delete]
func (h *AnnouncementHandler) Delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	caller, err := callerID(c)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(c.Request().Context(), caller, id); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "announcement deleted",
	})
}
