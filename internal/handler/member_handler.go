package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"villageboard/internal/errors"
	"villageboard/internal/service"
)

// MemberHandler handles the member directory and profile endpoints.
type MemberHandler struct {
	svc service.MemberService
}

// NewMemberHandler creates a new member handler.
func NewMemberHandler(svc service.MemberService) *MemberHandler {
	return &MemberHandler{svc: svc}
}

// ListMembers godoc
// @Summary List members
// @Tags members
// @Produce json
// @Success 200 {array} model.Member
// @Router /members [get]
func (h *MemberHandler) ListMembers(c echo.Context) error {
	members, err := h.svc.ListMembers(c.Request().Context())
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, members)
}

// GetMember godoc
// @Summary Get member by id
// @Tags members
// @Produce json
// @Param id path string true "Member ID"
// @Success 200 {object} model.Member
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /members/{id} [get]
func (h *MemberHandler) GetMember(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	member, err := h.svc.GetMember(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, member)
}

// UpdateProfile godoc
// @Summary Update own profile
// @Tags members
// @Accept mpfd
// @Produce json
// @Param id path string true "Member ID"
// @Param name formData string false "Display name"
// @Param email formData string false "Email"
// @Param profileImage formData file false "Profile image"
// @Success 200 {object} model.Member
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /members/{id} [put]
func (h *MemberHandler) UpdateProfile(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	caller, err := callerID(c)
	if err != nil {
		return err
	}

	var update service.ProfileUpdate
	if v := c.FormValue("name"); v != "" {
		update.Name = &v
	}
	if v := c.FormValue("email"); v != "" {
		update.Email = &v
	}
	if file, err := c.FormFile("profileImage"); err == nil {
		src, err := file.Open()
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid profile image")
		}
		defer src.Close()
		update.Image = &service.ProfileImage{Filename: file.Filename, Content: src}
	}

	member, err := h.svc.UpdateProfile(c.Request().Context(), caller, id, update)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, member)
}
