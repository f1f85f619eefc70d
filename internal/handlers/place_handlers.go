package handlers

import (
	"net/http"
	"strconv"

	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type PlaceHandlers struct {
	placeService services.PlaceService
}

func NewPlaceHandlers(placeService services.PlaceService) *PlaceHandlers {
	return &PlaceHandlers{placeService: placeService}
}

type createPlaceRequest struct {
	GroupID    uuid.UUID  `json:"group_id"`
	Name       string     `json:"name"`
	Notes      *string    `json:"notes"`
	Address    *string    `json:"address"`
	CategoryID *uuid.UUID `json:"category_id"`
	Lat        float64    `json:"lat"`
	Lng        float64    `json:"lng"`
}

type updatePlaceRequest struct {
	Name       *string    `json:"name"`
	Notes      *string    `json:"notes"`
	Address    *string    `json:"address"`
	CategoryID *uuid.UUID `json:"category_id"`
	Lat        *float64   `json:"lat"`
	Lng        *float64   `json:"lng"`
}

type updateStatusRequest struct {
	Status   string `json:"status"`
	Favorite bool   `json:"is_favorite"`
}

type placePage struct {
	Items []*models.PlaceView `json:"items"`
	Total int                 `json:"total"`
}

// CreatePlace handles POST /places
func (h *PlaceHandlers) CreatePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req createPlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.GroupID == uuid.Nil {
		return echo.NewHTTPError(http.StatusBadRequest, "group_id is required")
	}

	view, err := h.placeService.Create(c.Request().Context(), userID, &services.CreatePlaceInput{
		GroupID:    req.GroupID,
		Name:       req.Name,
		Notes:      req.Notes,
		Address:    req.Address,
		CategoryID: req.CategoryID,
		Lat:        req.Lat,
		Lng:        req.Lng,
	})
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, view)
}

// ListPlaces handles GET /places
func (h *PlaceHandlers) ListPlaces(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	input := &services.ListPlacesInput{Query: c.QueryParam("q")}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseVisitStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.Status = &status
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		input.CategoryID = &categoryID
	}
	input.Limit, _ = strconv.Atoi(c.QueryParam("limit"))
	input.Offset, _ = strconv.Atoi(c.QueryParam("offset"))

	views, total, err := h.placeService.List(c.Request().Context(), userID, input)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, placePage{Items: views, Total: total})
}

// NearbyPlaces handles GET /places/nearby
func (h *PlaceHandlers) NearbyPlaces(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	lat, err := strconv.ParseFloat(c.QueryParam("lat"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lat is required")
	}
	lng, err := strconv.ParseFloat(c.QueryParam("lng"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "lng is required")
	}
	radius, err := strconv.ParseFloat(c.QueryParam("radius_meters"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "radius_meters is required")
	}

	input := &services.NearbyInput{Lat: lat, Lng: lng, RadiusMeters: radius}
	if raw := c.QueryParam("status"); raw != "" {
		status, err := models.ParseVisitStatus(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		input.Status = &status
	}
	if raw := c.QueryParam("category_id"); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
		}
		input.CategoryID = &categoryID
	}

	views, err := h.placeService.Nearby(c.Request().Context(), userID, input)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, views)
}

// GetPlace handles GET /places/:placeId
func (h *PlaceHandlers) GetPlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	view, err := h.placeService.Get(c.Request().Context(), userID, placeID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// UpdatePlace handles PATCH /places/:placeId
func (h *PlaceHandlers) UpdatePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	var req updatePlaceRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	view, err := h.placeService.Update(c.Request().Context(), userID, placeID, &services.UpdatePlaceInput{
		Name:       req.Name,
		Notes:      req.Notes,
		Address:    req.Address,
		CategoryID: req.CategoryID,
		Lat:        req.Lat,
		Lng:        req.Lng,
	})
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}

// DeletePlace handles DELETE /places/:placeId
func (h *PlaceHandlers) DeletePlace(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	if err := h.placeService.Delete(c.Request().Context(), userID, placeID); err != nil {
		return common.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// UpdateStatus handles PUT /places/:placeId/status
func (h *PlaceHandlers) UpdateStatus(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	status, err := models.ParseVisitStatus(req.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	view, err := h.placeService.UpdateStatus(c.Request().Context(), userID, placeID, status, req.Favorite)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, view)
}
