package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"placemate/internal/caching"
	"placemate/internal/common"
	"placemate/internal/geo"
	"placemate/internal/models"
	"placemate/internal/repositories"

	"github.com/google/uuid"
)

const placeCacheTTL = 10 * time.Minute

type CreatePlaceInput struct {
	GroupID    uuid.UUID
	Name       string
	Notes      *string
	Address    *string
	CategoryID *uuid.UUID
	Lat        float64
	Lng        float64
}

// UpdatePlaceInput carries partial-update semantics: nil fields are left
// untouched, they are never nulled.
type UpdatePlaceInput struct {
	Name       *string
	Notes      *string
	Address    *string
	CategoryID *uuid.UUID
	Lat        *float64
	Lng        *float64
}

type ListPlacesInput struct {
	Status     *models.PlaceVisitStatus
	CategoryID *uuid.UUID
	Query      string
	Limit      int
	Offset     int
}

type NearbyInput struct {
	Lat          float64
	Lng          float64
	RadiusMeters float64
	Status       *models.PlaceVisitStatus
	CategoryID   *uuid.UUID
}

type PlaceService interface {
	Create(ctx context.Context, userID uuid.UUID, input *CreatePlaceInput) (*models.PlaceView, error)
	Get(ctx context.Context, userID, placeID uuid.UUID) (*models.PlaceView, error)
	List(ctx context.Context, userID uuid.UUID, input *ListPlacesInput) ([]*models.PlaceView, int, error)
	Nearby(ctx context.Context, userID uuid.UUID, input *NearbyInput) ([]*models.PlaceView, error)
	Update(ctx context.Context, userID, placeID uuid.UUID, input *UpdatePlaceInput) (*models.PlaceView, error)
	Delete(ctx context.Context, userID, placeID uuid.UUID) error
	UpdateStatus(ctx context.Context, userID, placeID uuid.UUID, status models.PlaceVisitStatus, favorite bool) (*models.PlaceView, error)
	// GetPlaceForMember is the shared authorization path for collaborators
	// (comments, photos) that hang off a place.
	GetPlaceForMember(ctx context.Context, placeID, userID uuid.UUID) (*models.Place, error)
}

type placeService struct {
	db             repositories.TxStarter
	placeRepo      repositories.PlaceRepository
	statusRepo     repositories.PlaceStatusRepository
	categoryRepo   repositories.CategoryRepository
	membershipRepo repositories.MembershipRepository
	userRepo       repositories.UserRepository
	commentRepo    repositories.CommentRepository
	photoRepo      repositories.PhotoRepository
	groupService   GroupService
	storage        StorageService
	cache          caching.CacheService
}

func NewPlaceService(db repositories.TxStarter, groupService GroupService, storage StorageService, cache caching.CacheService) PlaceService {
	return &placeService{
		db:             db,
		placeRepo:      repositories.NewPlaceRepo(db),
		statusRepo:     repositories.NewPlaceStatusRepo(db),
		categoryRepo:   repositories.NewCategoryRepo(db),
		membershipRepo: repositories.NewMembershipRepo(db),
		userRepo:       repositories.NewUserRepo(db),
		commentRepo:    repositories.NewCommentRepo(db),
		photoRepo:      repositories.NewPhotoRepo(db),
		groupService:   groupService,
		storage:        storage,
		cache:          cache,
	}
}

// Create inserts the place and fans out one PENDING overlay row per current
// group member, creator included, in a single transaction. A crash mid
// fan-out leaves nothing behind.
func (s *placeService) Create(ctx context.Context, userID uuid.UUID, input *CreatePlaceInput) (*models.PlaceView, error) {
	if _, err := s.groupService.RequireMember(ctx, input.GroupID, userID); err != nil {
		return nil, err
	}
	if err := common.ValidateRequiredString(input.Name, "name"); err != nil {
		return nil, err
	}
	if err := common.ValidateLatLng(input.Lat, input.Lng); err != nil {
		return nil, err
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category", common.ErrNotFound)
		}
	}

	place := &models.Place{
		ID:         uuid.New(),
		GroupID:    input.GroupID,
		Name:       input.Name,
		Notes:      input.Notes,
		Address:    input.Address,
		CategoryID: input.CategoryID,
		Lat:        input.Lat,
		Lng:        input.Lng,
		CreatedBy:  userID,
		CreatedAt:  time.Now(),
	}

	members, err := s.membershipRepo.ListByGroup(ctx, input.GroupID)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if err := repositories.NewPlaceRepo(tx).Create(ctx, place); err != nil {
		return nil, err
	}
	statuses := make([]*models.PlaceStatus, 0, len(members))
	for _, member := range members {
		statuses = append(statuses, &models.PlaceStatus{
			PlaceID: place.ID,
			UserID:  member.UserID,
			Status:  models.StatusPending,
		})
	}
	if err := repositories.NewPlaceStatusRepo(tx).CreateBatch(ctx, statuses); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	slog.Info("place created", "place_id", place.ID, "group_id", place.GroupID, "members", len(members))

	return s.buildView(ctx, userID, place, nil)
}

func (s *placeService) Get(ctx context.Context, userID, placeID uuid.UUID) (*models.PlaceView, error) {
	place, err := s.GetPlaceForMember(ctx, placeID, userID)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, userID, place, nil)
}

func (s *placeService) List(ctx context.Context, userID uuid.UUID, input *ListPlacesInput) ([]*models.PlaceView, int, error) {
	groupIDs, err := s.groupService.GroupIDsFor(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	if len(groupIDs) == 0 {
		return []*models.PlaceView{}, 0, nil
	}

	limit, offset := common.ValidatePaginationParams(input.Limit, input.Offset)
	filter := &models.PlaceFilter{
		GroupIDs:     groupIDs,
		CategoryID:   input.CategoryID,
		Query:        input.Query,
		Status:       input.Status,
		StatusUserID: userID,
		Limit:        limit,
		Offset:       offset,
	}

	places, total, err := s.placeRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.buildViews(ctx, userID, places, nil)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Nearby runs the geo pipeline: bounding-box fetch, in-memory predicate
// filters, exact haversine cut-off, distance-ascending order with place id as
// the tie break, then the overlay merge.
func (s *placeService) Nearby(ctx context.Context, userID uuid.UUID, input *NearbyInput) ([]*models.PlaceView, error) {
	if err := common.ValidateLatLng(input.Lat, input.Lng); err != nil {
		return nil, err
	}
	if err := common.ValidateRadius(input.RadiusMeters); err != nil {
		return nil, err
	}

	groupIDs, err := s.groupService.GroupIDsFor(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []*models.PlaceView{}, nil
	}

	box := geo.NewBoundingBox(input.Lat, input.Lng, input.RadiusMeters)
	candidates, err := s.placeRepo.ListInBox(ctx, groupIDs, box)
	if err != nil {
		return nil, err
	}

	placeIDs := make([]uuid.UUID, 0, len(candidates))
	for _, place := range candidates {
		placeIDs = append(placeIDs, place.ID)
	}
	overlays, err := s.statusRepo.BulkFor(ctx, userID, placeIDs)
	if err != nil {
		return nil, err
	}

	predicates := buildNearbyPredicates(input, overlays)

	type placeDistance struct {
		place    *models.Place
		distance float64
	}
	var matched []placeDistance
	for _, place := range candidates {
		if !matchesAll(place, predicates) {
			continue
		}
		distance := geo.DistanceMeters(input.Lat, input.Lng, place.Lat, place.Lng)
		if distance > input.RadiusMeters {
			continue
		}
		matched = append(matched, placeDistance{place: place, distance: distance})
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].distance != matched[j].distance {
			return matched[i].distance < matched[j].distance
		}
		return matched[i].place.ID.String() < matched[j].place.ID.String()
	})

	ordered := make([]*models.Place, 0, len(matched))
	distances := make(map[uuid.UUID]float64, len(matched))
	for _, item := range matched {
		ordered = append(ordered, item.place)
		distances[item.place.ID] = item.distance
	}
	return s.buildViews(ctx, userID, ordered, distances)
}

type placePredicate func(*models.Place) bool

func matchesAll(place *models.Place, predicates []placePredicate) bool {
	for _, predicate := range predicates {
		if !predicate(place) {
			return false
		}
	}
	return true
}

// buildNearbyPredicates composes the optional in-memory filters for the
// nearby path. The status predicate closes over the caller's overlay map and
// applies the default-on-absence rule before comparing.
func buildNearbyPredicates(input *NearbyInput, overlays map[uuid.UUID]*models.PlaceStatus) []placePredicate {
	var predicates []placePredicate
	if input.CategoryID != nil {
		want := *input.CategoryID
		predicates = append(predicates, func(p *models.Place) bool {
			return p.CategoryID != nil && *p.CategoryID == want
		})
	}
	if input.Status != nil {
		want := *input.Status
		predicates = append(predicates, func(p *models.Place) bool {
			effective := models.StatusPending
			if overlay := overlays[p.ID]; overlay != nil {
				effective = overlay.Status
			}
			return effective == want
		})
	}
	return predicates
}

func (s *placeService) Update(ctx context.Context, userID, placeID uuid.UUID, input *UpdatePlaceInput) (*models.PlaceView, error) {
	place, err := s.GetPlaceForMember(ctx, placeID, userID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := common.ValidateRequiredString(*input.Name, "name"); err != nil {
			return nil, err
		}
		place.Name = *input.Name
	}
	if input.Notes != nil {
		place.Notes = input.Notes
	}
	if input.Address != nil {
		place.Address = input.Address
	}
	if input.CategoryID != nil {
		if _, err := s.categoryRepo.GetByID(ctx, *input.CategoryID); err != nil {
			return nil, fmt.Errorf("%w: category", common.ErrNotFound)
		}
		place.CategoryID = input.CategoryID
	}
	if input.Lat != nil {
		place.Lat = *input.Lat
	}
	if input.Lng != nil {
		place.Lng = *input.Lng
	}
	if err := common.ValidateLatLng(place.Lat, place.Lng); err != nil {
		return nil, err
	}

	if err := s.placeRepo.Update(ctx, place); err != nil {
		return nil, err
	}
	if err := s.cache.DeletePlace(ctx, placeID); err != nil {
		slog.Warn("place cache invalidation failed", "place_id", placeID, "error", err)
	}
	return s.buildView(ctx, userID, place, nil)
}

// Delete removes the place together with its overlay rows, comments and
// photo rows in one transaction; stored photo objects are removed from the
// object store afterwards, best effort.
func (s *placeService) Delete(ctx context.Context, userID, placeID uuid.UUID) error {
	place, err := s.GetPlaceForMember(ctx, placeID, userID)
	if err != nil {
		return err
	}

	photos, err := s.photoRepo.ListByPlace(ctx, placeID)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := repositories.NewPlaceStatusRepo(tx).DeleteByPlace(ctx, placeID); err != nil {
		return err
	}
	if err := repositories.NewCommentRepo(tx).DeleteByPlace(ctx, placeID); err != nil {
		return err
	}
	if err := repositories.NewPhotoRepo(tx).DeleteByPlace(ctx, placeID); err != nil {
		return err
	}
	if err := repositories.NewPlaceRepo(tx).Delete(ctx, placeID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	for _, photo := range photos {
		if err := s.storage.RemoveObject(ctx, photo.ObjectName); err != nil {
			slog.Warn("orphaned photo object", "object", photo.ObjectName, "error", err)
		}
	}
	if err := s.cache.DeletePlace(ctx, placeID); err != nil {
		slog.Warn("place cache invalidation failed", "place_id", placeID, "error", err)
	}
	slog.Info("place deleted", "place_id", placeID, "group_id", place.GroupID)
	return nil
}

func (s *placeService) UpdateStatus(ctx context.Context, userID, placeID uuid.UUID, status models.PlaceVisitStatus, favorite bool) (*models.PlaceView, error) {
	place, err := s.GetPlaceForMember(ctx, placeID, userID)
	if err != nil {
		return nil, err
	}

	overlay := &models.PlaceStatus{
		PlaceID:  placeID,
		UserID:   userID,
		Status:   status,
		Favorite: favorite,
	}
	if err := s.statusRepo.Upsert(ctx, overlay); err != nil {
		return nil, err
	}
	return s.buildView(ctx, userID, place, nil)
}

func (s *placeService) GetPlaceForMember(ctx context.Context, placeID, userID uuid.UUID) (*models.Place, error) {
	place, err := s.cache.GetPlace(ctx, placeID)
	if err != nil {
		slog.Warn("place cache read failed", "place_id", placeID, "error", err)
	}
	if place == nil {
		place, err = s.placeRepo.GetByID(ctx, placeID)
		if err != nil {
			return nil, fmt.Errorf("%w: place", common.ErrNotFound)
		}
		if err := s.cache.SetPlace(ctx, place, placeCacheTTL); err != nil {
			slog.Warn("place cache write failed", "place_id", placeID, "error", err)
		}
	}
	if _, err := s.groupService.RequireMember(ctx, place.GroupID, userID); err != nil {
		return nil, err
	}
	return place, nil
}

func (s *placeService) buildView(ctx context.Context, userID uuid.UUID, place *models.Place, distances map[uuid.UUID]float64) (*models.PlaceView, error) {
	views, err := s.buildViews(ctx, userID, []*models.Place{place}, distances)
	if err != nil {
		return nil, err
	}
	return views[0], nil
}

// buildViews merges a page of places with the caller's overlay rows in one
// bulk lookup. The default rule lives here and nowhere else: a missing
// overlay reads as PENDING and not favorite.
func (s *placeService) buildViews(ctx context.Context, userID uuid.UUID, places []*models.Place, distances map[uuid.UUID]float64) ([]*models.PlaceView, error) {
	views := make([]*models.PlaceView, 0, len(places))
	if len(places) == 0 {
		return views, nil
	}

	placeIDs := make([]uuid.UUID, 0, len(places))
	userIDs := make([]uuid.UUID, 0, len(places))
	for _, place := range places {
		placeIDs = append(placeIDs, place.ID)
		userIDs = append(userIDs, place.CreatedBy)
	}

	overlays, err := s.statusRepo.BulkFor(ctx, userID, placeIDs)
	if err != nil {
		return nil, err
	}
	creators, err := s.userRepo.ListByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	categoryByID := make(map[uuid.UUID]*models.Category, len(categories))
	for _, category := range categories {
		categoryByID[category.ID] = category
	}

	for _, place := range places {
		view := &models.PlaceView{
			ID:        place.ID,
			GroupID:   place.GroupID,
			Name:      place.Name,
			Notes:     place.Notes,
			Address:   place.Address,
			Lat:       place.Lat,
			Lng:       place.Lng,
			CreatedAt: place.CreatedAt,
			Status:    models.StatusPending,
		}
		if overlay := overlays[place.ID]; overlay != nil {
			view.Status = overlay.Status
			view.Favorite = overlay.Favorite
		}
		if place.CategoryID != nil {
			if category := categoryByID[*place.CategoryID]; category != nil {
				summary := category.Summary()
				view.Category = &summary
			}
		}
		if creator := creators[place.CreatedBy]; creator != nil {
			view.CreatedBy = creator.Summary()
		}
		if distances != nil {
			if distance, ok := distances[place.ID]; ok {
				d := distance
				view.DistanceMeters = &d
			}
		}
		views = append(views, view)
	}
	return views, nil
}
