package services

import (
	"context"

	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/google/uuid"
)

type CommentService interface {
	Add(ctx context.Context, userID, placeID uuid.UUID, text string) (*models.CommentView, error)
	ListForPlace(ctx context.Context, userID, placeID uuid.UUID) ([]*models.CommentView, error)
}

type commentService struct {
	commentRepo  repositories.CommentRepository
	userRepo     repositories.UserRepository
	placeService PlaceService
}

func NewCommentService(db repositories.DBTX, placeService PlaceService) CommentService {
	return &commentService{
		commentRepo:  repositories.NewCommentRepo(db),
		userRepo:     repositories.NewUserRepo(db),
		placeService: placeService,
	}
}

func (s *commentService) Add(ctx context.Context, userID, placeID uuid.UUID, text string) (*models.CommentView, error) {
	if _, err := s.placeService.GetPlaceForMember(ctx, placeID, userID); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(text, "text"); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		ID:      uuid.New(),
		PlaceID: placeID,
		UserID:  userID,
		Text:    text,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.CommentView{
		ID:        comment.ID,
		User:      user.Summary(),
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt,
	}, nil
}

func (s *commentService) ListForPlace(ctx context.Context, userID, placeID uuid.UUID) ([]*models.CommentView, error) {
	if _, err := s.placeService.GetPlaceForMember(ctx, placeID, userID); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListVisibleByPlace(ctx, placeID)
	if err != nil {
		return nil, err
	}

	authorIDs := make([]uuid.UUID, 0, len(comments))
	for _, comment := range comments {
		authorIDs = append(authorIDs, comment.UserID)
	}
	authors, err := s.userRepo.ListByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]*models.CommentView, 0, len(comments))
	for _, comment := range comments {
		view := &models.CommentView{
			ID:        comment.ID,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
		if author := authors[comment.UserID]; author != nil {
			view.User = author.Summary()
		}
		views = append(views, view)
	}
	return views, nil
}
