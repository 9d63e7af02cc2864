package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/mongo"

	placeserrors "linkuup/internal/places/errors"
	"linkuup/internal/places/repository"
	"linkuup/internal/places/validator"
	"linkuup/pkg/config"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/model"
)

type PlaceService interface {
	Create(ctx context.Context, p *model.Place) error
	GetByID(ctx context.Context, id string) (*model.Place, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Place, int64, error)
	GetByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Place, error)
	Update(ctx context.Context, id string, updates *model.PlaceUpdate) error
	Delete(ctx context.Context, id string) error
}

type placeService struct {
	repo      repository.PlaceRepository
	validator *validator.PlaceValidator
	cfg       *config.Config
}

func NewPlaceService(
	repo repository.PlaceRepository,
	validator *validator.PlaceValidator,
	cfg *config.Config,
) PlaceService {
	return &placeService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *placeService) Create(ctx context.Context, p *model.Place) error {
	s.sanitize(p)

	if err := s.validator.Validate(p); err != nil {
		s.cfg.Log.Warn("Place validation failed",
			"name", p.Name,
			"business_id", p.BusinessID,
			"error", err,
		)
		return apperrors.Validation("Place validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		existing, err := s.repo.FindByBusiness(sessCtx, p.BusinessID, config.DefaultPaginationLimit, 0)
		if err != nil {
			return apperrors.Internal("Failed to check for existing places", err)
		}
		for _, e := range existing {
			if strings.EqualFold(e.Address, p.Address) && strings.EqualFold(e.City, p.City) {
				return apperrors.Conflict("Place with the same address already exists for this business")
			}
			if strings.EqualFold(e.Name, p.Name) && strings.EqualFold(e.City, p.City) {
				return apperrors.Conflict("Place with the same name and city already exists for this business")
			}
		}
		return s.repo.Create(sessCtx, p)
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create place",
			"name", p.Name,
			"business_id", p.BusinessID,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Place created successfully",
		"id", p.ID,
		"name", p.Name,
		"business_id", p.BusinessID,
		"city", p.City,
	)
	return nil
}

func (s *placeService) GetByID(ctx context.Context, id string) (*model.Place, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Place ID cannot be empty")
	}

	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Place", id)
		}
		if errors.Is(err, placeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid place ID format")
		}
		s.cfg.Log.Error("Failed to get place by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve place", err)
	}

	return p, nil
}

func (s *placeService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Place, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var places []*model.Place
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count places", "error", err)
			errCount = apperrors.Internal("Failed to count places", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		places, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all places",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve places", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return places, count, nil
}

func (s *placeService) GetByBusiness(ctx context.Context, businessID string, limit int, offset int64) ([]*model.Place, error) {
	if businessID == "" {
		return nil, apperrors.InvalidInput("Business ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	places, err := s.repo.FindByBusiness(ctx, businessID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to get places by business",
			"business_id", businessID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve places", err)
	}

	return places, nil
}

func (s *placeService) Update(ctx context.Context, id string, updates *model.PlaceUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Place ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Place", id)
		}
		if errors.Is(err, placeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid place ID format")
		}
		return apperrors.Internal("Failed to check place existence", err)
	}

	merged := s.mergePlaceUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Place validation failed",
			"id", id,
			"name", merged.Name,
			"error", err,
		)
		return apperrors.Validation("Place validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Place", id)
		}
		s.cfg.Log.Error("Failed to update place",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update place", err)
	}

	s.cfg.Log.Info("Place updated successfully", "id", id, "name", merged.Name)
	return nil
}

func (s *placeService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Place ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Place", id)
		}
		if errors.Is(err, placeserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid place ID format")
		}
		s.cfg.Log.Error("Failed to delete place",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete place", err)
	}

	s.cfg.Log.Info("Place deleted successfully", "id", id)
	return nil
}

func (s *placeService) sanitize(p *model.Place) {
	p.Name = strings.TrimSpace(p.Name)
	p.City = strings.TrimSpace(p.City)
	p.Address = strings.TrimSpace(p.Address)
	p.TimeZone = strings.TrimSpace(p.TimeZone)
}

func (s *placeService) mergePlaceUpdates(existing *model.Place, updates *model.PlaceUpdate) *model.Place {
	merged := *existing

	if updates.Name != "" {
		merged.Name = strings.TrimSpace(updates.Name)
	}
	if updates.City != "" {
		merged.City = strings.TrimSpace(updates.City)
	}
	if updates.Address != "" {
		merged.Address = strings.TrimSpace(updates.Address)
	}
	if updates.TimeZone != "" {
		merged.TimeZone = strings.TrimSpace(updates.TimeZone)
	}

	merged.ID = existing.ID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
