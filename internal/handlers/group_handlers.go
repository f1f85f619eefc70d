package handlers

import (
	"net/http"

	"placemate/internal/common"
	"placemate/internal/services"

	"github.com/labstack/echo/v4"
)

type GroupHandlers struct {
	groupService services.GroupService
}

func NewGroupHandlers(groupService services.GroupService) *GroupHandlers {
	return &GroupHandlers{groupService: groupService}
}

type createGroupRequest struct {
	Name string `json:"name"`
}

type joinGroupRequest struct {
	Code string `json:"code"`
}

// CreateGroup handles POST /groups
func (h *GroupHandlers) CreateGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	group, err := h.groupService.CreateGroup(c.Request().Context(), userID, req.Name)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, group)
}

// ListGroups handles GET /groups
func (h *GroupHandlers) ListGroups(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	groups, err := h.groupService.ListGroups(c.Request().Context(), userID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, groups)
}

// CreateInvite handles POST /groups/:groupId/invites
func (h *GroupHandlers) CreateInvite(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	groupID, err := parseUUIDParam(c, "groupId")
	if err != nil {
		return err
	}

	invite, err := h.groupService.CreateInvite(c.Request().Context(), groupID, userID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, invite)
}

// JoinGroup handles POST /groups/join
func (h *GroupHandlers) JoinGroup(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req joinGroupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Code == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "code is required")
	}

	group, err := h.groupService.RedeemInvite(c.Request().Context(), req.Code, userID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, group)
}
