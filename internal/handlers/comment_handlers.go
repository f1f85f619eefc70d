package handlers

import (
	"net/http"

	"placemate/internal/common"
	"placemate/internal/services"

	"github.com/labstack/echo/v4"
)

type CommentHandlers struct {
	commentService services.CommentService
}

func NewCommentHandlers(commentService services.CommentService) *CommentHandlers {
	return &CommentHandlers{commentService: commentService}
}

type addCommentRequest struct {
	Text string `json:"text"`
}

// ListComments handles GET /places/:placeId/comments
func (h *CommentHandlers) ListComments(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	comments, err := h.commentService.ListForPlace(c.Request().Context(), userID, placeID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, comments)
}

// AddComment handles POST /places/:placeId/comments
func (h *CommentHandlers) AddComment(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	var req addCommentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	comment, err := h.commentService.Add(c.Request().Context(), userID, placeID, req.Text)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, comment)
}
