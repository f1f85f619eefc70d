package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/google/uuid"
)

const maxPhotoSize = 10 << 20 // 10 MiB

type UploadPhotoInput struct {
	PlaceID     uuid.UUID
	Caption     *string
	ContentType string
	Reader      io.Reader
	Size        int64
}

type PhotoService interface {
	Upload(ctx context.Context, userID uuid.UUID, input *UploadPhotoInput) (*models.PhotoView, error)
	ListForPlace(ctx context.Context, userID, placeID uuid.UUID) ([]*models.PhotoView, error)
	Delete(ctx context.Context, userID, photoID uuid.UUID) error
}

type photoService struct {
	photoRepo    repositories.PhotoRepository
	userRepo     repositories.UserRepository
	placeService PlaceService
	storage      StorageService
}

func NewPhotoService(db repositories.DBTX, placeService PlaceService, storage StorageService) PhotoService {
	return &photoService{
		photoRepo:    repositories.NewPhotoRepo(db),
		userRepo:     repositories.NewUserRepo(db),
		placeService: placeService,
		storage:      storage,
	}
}

func (s *photoService) Upload(ctx context.Context, userID uuid.UUID, input *UploadPhotoInput) (*models.PhotoView, error) {
	if _, err := s.placeService.GetPlaceForMember(ctx, input.PlaceID, userID); err != nil {
		return nil, err
	}
	if input.Size <= 0 || input.Size > maxPhotoSize {
		return nil, fmt.Errorf("%w: photo must be between 1 byte and 10 MiB", common.ErrInvalidArgument)
	}
	switch input.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		return nil, fmt.Errorf("%w: unsupported content type %q", common.ErrInvalidArgument, input.ContentType)
	}

	photo := &models.Photo{
		ID:      uuid.New(),
		PlaceID: input.PlaceID,
		UserID:  userID,
		Caption: input.Caption,
	}
	photo.ObjectName = fmt.Sprintf("places/%s/%s", input.PlaceID, photo.ID)

	// The object goes up first; a DB failure afterwards leaves an orphan in
	// the bucket, which is harmless and cheaper than a row without bytes.
	if err := s.storage.Upload(ctx, photo.ObjectName, input.ContentType, input.Reader, input.Size); err != nil {
		return nil, err
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		if removeErr := s.storage.RemoveObject(ctx, photo.ObjectName); removeErr != nil {
			slog.Warn("orphaned photo object", "object", photo.ObjectName, "error", removeErr)
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, photo, user.Summary())
}

func (s *photoService) ListForPlace(ctx context.Context, userID, placeID uuid.UUID) ([]*models.PhotoView, error) {
	if _, err := s.placeService.GetPlaceForMember(ctx, placeID, userID); err != nil {
		return nil, err
	}

	photos, err := s.photoRepo.ListVisibleByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	uploaderIDs := make([]uuid.UUID, 0, len(photos))
	for _, photo := range photos {
		uploaderIDs = append(uploaderIDs, photo.UserID)
	}
	uploaders, err := s.userRepo.ListByIDs(ctx, uploaderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*models.PhotoView, 0, len(photos))
	for _, photo := range photos {
		var summary models.UserSummary
		if uploader := uploaders[photo.UserID]; uploader != nil {
			summary = uploader.Summary()
		}
		view, err := s.view(ctx, photo, summary)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// Delete removes a photo the caller uploaded. Group membership alone is not
// enough; only the uploader may remove their photo.
func (s *photoService) Delete(ctx context.Context, userID, photoID uuid.UUID) error {
	photo, err := s.photoRepo.GetByID(ctx, photoID)
	if err != nil {
		return fmt.Errorf("%w: photo", common.ErrNotFound)
	}
	if _, err := s.placeService.GetPlaceForMember(ctx, photo.PlaceID, userID); err != nil {
		return err
	}
	if photo.UserID != userID {
		return fmt.Errorf("%w: only the uploader can delete a photo", common.ErrForbidden)
	}

	if err := s.photoRepo.Delete(ctx, photoID); err != nil {
		return err
	}
	if err := s.storage.RemoveObject(ctx, photo.ObjectName); err != nil {
		slog.Warn("orphaned photo object", "object", photo.ObjectName, "error", err)
	}
	return nil
}

func (s *photoService) view(ctx context.Context, photo *models.Photo, user models.UserSummary) (*models.PhotoView, error) {
	url, err := s.storage.PresignedURL(ctx, photo.ObjectName)
	if err != nil {
		return nil, err
	}
	return &models.PhotoView{
		ID:        photo.ID,
		User:      user,
		URL:       url,
		Caption:   photo.Caption,
		CreatedAt: photo.CreatedAt,
	}, nil
}
