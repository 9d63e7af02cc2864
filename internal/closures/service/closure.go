package service

import (
	"context"
	"errors"
	"strings"

	closureerrors "linkuup/internal/closures/errors"
	"linkuup/internal/closures/repository"
	"linkuup/internal/closures/validator"
	"linkuup/pkg/config"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/model"
)

type ClosureService interface {
	Create(ctx context.Context, c *model.ClosurePeriod) error
	GetByID(ctx context.Context, id string) (*model.ClosurePeriod, error)
	GetByOwner(ctx context.Context, ownerScope, ownerID string, limit int, offset int64) ([]*model.ClosurePeriod, int64, error)
	Update(ctx context.Context, id string, updates *model.ClosurePeriodUpdate) error
	Delete(ctx context.Context, id string) error
}

type closureService struct {
	repo      repository.ClosureRepository
	validator *validator.ClosureValidator
	cfg       *config.Config
}

func NewClosureService(
	repo repository.ClosureRepository,
	validator *validator.ClosureValidator,
	cfg *config.Config,
) ClosureService {
	return &closureService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *closureService) Create(ctx context.Context, c *model.ClosurePeriod) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Notes = strings.TrimSpace(c.Notes)
	if c.Status == "" {
		c.Status = model.ClosureStatusActive
	}

	if err := s.validator.ValidateClosure(c); err != nil {
		s.cfg.Log.Warn("Closure period validation failed",
			"name", c.Name,
			"owner_scope", c.OwnerScope,
			"owner_id", c.OwnerID,
			"error", err,
		)
		return apperrors.Validation("Closure period validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, c); err != nil {
		s.cfg.Log.Error("Failed to create closure period",
			"name", c.Name,
			"owner_id", c.OwnerID,
			"error", err,
		)
		return apperrors.Internal("Failed to create closure period", err)
	}

	s.cfg.Log.Info("Closure period created successfully",
		"id", c.ID,
		"name", c.Name,
		"owner_scope", c.OwnerScope,
		"owner_id", c.OwnerID,
		"is_recurring", c.IsRecurring,
	)
	return nil
}

func (s *closureService) GetByID(ctx context.Context, id string) (*model.ClosurePeriod, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Closure period ID cannot be empty")
	}

	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, closureerrors.ErrClosureNotFound) {
			return nil, apperrors.NotFoundWithID("Closure period", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid closure period ID format")
		}
		s.cfg.Log.Error("Failed to get closure period by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve closure period", err)
	}

	return c, nil
}

func (s *closureService) GetByOwner(ctx context.Context, ownerScope, ownerID string, limit int, offset int64) ([]*model.ClosurePeriod, int64, error) {
	if ownerScope != model.OwnerScopeBusiness && ownerScope != model.OwnerScopePlace {
		return nil, 0, apperrors.InvalidInput("Owner scope must be 'business' or 'place'")
	}
	if ownerID == "" {
		return nil, 0, apperrors.InvalidInput("Owner ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	closures, err := s.repo.FindByOwner(ctx, ownerScope, ownerID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to get closure periods by owner",
			"owner_scope", ownerScope,
			"owner_id", ownerID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve closure periods", err)
	}

	count, err := s.repo.CountByOwner(ctx, ownerScope, ownerID)
	if err != nil {
		s.cfg.Log.Error("Failed to count closure periods",
			"owner_scope", ownerScope,
			"owner_id", ownerID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to count closure periods", err)
	}

	return closures, count, nil
}

func (s *closureService) Update(ctx context.Context, id string, updates *model.ClosurePeriodUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Closure period ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, closureerrors.ErrClosureNotFound) {
			return apperrors.NotFoundWithID("Closure period", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid closure period ID format")
		}
		return apperrors.Internal("Failed to check closure period existence", err)
	}

	merged := s.mergeClosureUpdates(existing, updates)
	if err := s.validator.ValidateClosure(merged); err != nil {
		s.cfg.Log.Warn("Closure period validation failed",
			"id", id,
			"name", merged.Name,
			"error", err,
		)
		return apperrors.Validation("Closure period validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, closureerrors.ErrClosureNotFound) {
			return apperrors.NotFoundWithID("Closure period", id)
		}
		s.cfg.Log.Error("Failed to update closure period",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update closure period", err)
	}

	s.cfg.Log.Info("Closure period updated successfully", "id", id, "name", merged.Name)
	return nil
}

func (s *closureService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Closure period ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, closureerrors.ErrClosureNotFound) {
			return apperrors.NotFoundWithID("Closure period", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid closure period ID format")
		}
		s.cfg.Log.Error("Failed to delete closure period",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete closure period", err)
	}

	s.cfg.Log.Info("Closure period deleted successfully", "id", id)
	return nil
}

func (s *closureService) mergeClosureUpdates(existing *model.ClosurePeriod, updates *model.ClosurePeriodUpdate) *model.ClosurePeriod {
	merged := *existing

	if updates.Name != "" {
		merged.Name = strings.TrimSpace(updates.Name)
	}
	if updates.StartDate != nil {
		merged.StartDate = *updates.StartDate
	}
	if updates.EndDate != nil {
		merged.EndDate = *updates.EndDate
	}
	if updates.IsFullDay != nil {
		merged.IsFullDay = *updates.IsFullDay
		if merged.IsFullDay {
			merged.HalfDayPeriod = ""
		}
	}
	if updates.HalfDayPeriod != "" {
		merged.HalfDayPeriod = updates.HalfDayPeriod
	}
	if updates.IsRecurring != nil {
		merged.IsRecurring = *updates.IsRecurring
		if !merged.IsRecurring {
			merged.Recurrence = nil
		}
	}
	if updates.Recurrence != nil {
		merged.Recurrence = updates.Recurrence
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}
	if updates.Notes != "" {
		merged.Notes = strings.TrimSpace(updates.Notes)
	}

	merged.ID = existing.ID
	merged.OwnerScope = existing.OwnerScope
	merged.OwnerID = existing.OwnerID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
