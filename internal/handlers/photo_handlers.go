package handlers

import (
	"net/http"

	"placemate/internal/common"
	"placemate/internal/services"

	"github.com/labstack/echo/v4"
)

type PhotoHandlers struct {
	photoService services.PhotoService
}

func NewPhotoHandlers(photoService services.PhotoService) *PhotoHandlers {
	return &PhotoHandlers{photoService: photoService}
}

// ListPhotos handles GET /places/:placeId/photos
func (h *PhotoHandlers) ListPhotos(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	photos, err := h.photoService.ListForPlace(c.Request().Context(), userID, placeID)
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusOK, photos)
}

// UploadPhoto handles POST /places/:placeId/photos as multipart form data
// with a "photo" file part and an optional "caption" field.
func (h *PhotoHandlers) UploadPhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	placeID, err := parseUUIDParam(c, "placeId")
	if err != nil {
		return err
	}

	fileHeader, err := c.FormFile("photo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "photo file is required")
	}
	file, err := fileHeader.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read photo file")
	}
	defer file.Close()

	var caption *string
	if value := c.FormValue("caption"); value != "" {
		caption = &value
	}

	photo, err := h.photoService.Upload(c.Request().Context(), userID, &services.UploadPhotoInput{
		PlaceID:     placeID,
		Caption:     caption,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
		Size:        fileHeader.Size,
	})
	if err != nil {
		return common.HTTPError(err)
	}
	return c.JSON(http.StatusCreated, photo)
}

// DeletePhoto handles DELETE /photos/:photoId
func (h *PhotoHandlers) DeletePhoto(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	photoID, err := parseUUIDParam(c, "photoId")
	if err != nil {
		return err
	}

	if err := h.photoService.Delete(c.Request().Context(), userID, photoID); err != nil {
		return common.HTTPError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
