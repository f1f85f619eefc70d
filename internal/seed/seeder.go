package seed

import (
	"context"
	"log/slog"

	"placemate/internal/models"
	"placemate/internal/repositories"
	"placemate/internal/services"

	"github.com/google/uuid"
)

// Seeder populates a fresh database with demo data: two accounts, the shared
// default group, a handful of categories and a few places around Granada.
// Running it twice is safe; it bails out if the demo account already exists.
type Seeder struct {
	userRepo     repositories.UserRepository
	categoryRepo repositories.CategoryRepository
	authService  services.AuthService
	placeService services.PlaceService
	groupService services.GroupService
}

func NewSeeder(db repositories.DBTX, authService services.AuthService, placeService services.PlaceService, groupService services.GroupService) *Seeder {
	return &Seeder{
		userRepo:     repositories.NewUserRepo(db),
		categoryRepo: repositories.NewCategoryRepo(db),
		authService:  authService,
		placeService: placeService,
		groupService: groupService,
	}
}

func (s *Seeder) Run(ctx context.Context) error {
	if existing, _ := s.userRepo.GetByEmail(ctx, "ana@example.com"); existing != nil {
		slog.Info("demo data already present, skipping seed")
		return nil
	}

	ana, _, err := s.authService.Register(ctx, "ana@example.com", "Ana", "demo-password")
	if err != nil {
		return err
	}
	if _, _, err := s.authService.Register(ctx, "pablo@example.com", "Pablo", "demo-password"); err != nil {
		return err
	}

	groups, err := s.groupService.ListGroups(ctx, ana.ID)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		return nil
	}
	group := groups[0]

	categories := map[string]uuid.UUID{}
	for _, item := range []struct {
		name string
		icon string
	}{
		{"Restaurante", "utensils"},
		{"Mirador", "mountain"},
		{"Museo", "landmark"},
		{"Bar", "beer"},
	} {
		icon := item.icon
		category := &models.Category{ID: uuid.New(), Name: item.name, Icon: &icon}
		if err := s.categoryRepo.Create(ctx, category); err != nil {
			return err
		}
		categories[item.name] = category.ID
	}

	for _, item := range []struct {
		name     string
		category string
		notes    string
		lat, lng float64
	}{
		{"Mirador de San Nicolás", "Mirador", "Best sunset view of the Alhambra", 37.1810, -3.5924},
		{"Bar Los Diamantes", "Bar", "Fried fish, always packed", 37.1742, -3.5997},
		{"Museo de la Alhambra", "Museo", "Inside the Palacio de Carlos V", 37.1765, -3.5891},
		{"Restaurante Carmela", "Restaurante", "Good for groups, book ahead", 37.1756, -3.5975},
	} {
		notes := item.notes
		categoryID := categories[item.category]
		_, err := s.placeService.Create(ctx, ana.ID, &services.CreatePlaceInput{
			GroupID:    group.ID,
			Name:       item.name,
			Notes:      &notes,
			CategoryID: &categoryID,
			Lat:        item.lat,
			Lng:        item.lng,
		})
		if err != nil {
			return err
		}
	}

	slog.Info("demo data seeded", "group_id", group.ID)
	return nil
}
