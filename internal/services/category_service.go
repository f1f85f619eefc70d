package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"placemate/internal/caching"
	"placemate/internal/common"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/google/uuid"
)

const categoriesCacheTTL = time.Hour

type CategoryService interface {
	List(ctx context.Context) ([]*models.Category, error)
	// Create is restricted to users who own at least one group. Categories are
	// global, so this is the closest thing the app has to an admin gate.
	Create(ctx context.Context, userID uuid.UUID, name string, icon *string) (*models.Category, error)
}

type categoryService struct {
	categoryRepo repositories.CategoryRepository
	groupService GroupService
	cache        caching.CacheService
}

func NewCategoryService(db repositories.DBTX, groupService GroupService, cache caching.CacheService) CategoryService {
	return &categoryService{
		categoryRepo: repositories.NewCategoryRepo(db),
		groupService: groupService,
		cache:        cache,
	}
}

func (s *categoryService) List(ctx context.Context) ([]*models.Category, error) {
	cached, err := s.cache.GetCategories(ctx)
	if err != nil {
		slog.Warn("category cache read failed", "error", err)
	}
	if cached != nil {
		return cached, nil
	}

	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetCategories(ctx, categories, categoriesCacheTTL); err != nil {
		slog.Warn("category cache write failed", "error", err)
	}
	return categories, nil
}

func (s *categoryService) Create(ctx context.Context, userID uuid.UUID, name string, icon *string) (*models.Category, error) {
	owner, err := s.groupService.IsOwnerAnywhere(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !owner {
		return nil, fmt.Errorf("%w: owner role required", common.ErrForbidden)
	}
	if err := common.ValidateRequiredString(name, "name"); err != nil {
		return nil, err
	}

	category := &models.Category{
		ID:   uuid.New(),
		Name: name,
		Icon: icon,
	}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return nil, err
	}
	if err := s.cache.InvalidateCategories(ctx); err != nil {
		slog.Warn("category cache invalidation failed", "error", err)
	}
	slog.Info("category created", "category_id", category.ID, "name", category.Name)
	return category, nil
}
