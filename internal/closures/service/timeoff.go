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

type TimeOffService interface {
	Create(ctx context.Context, t *model.EmployeeTimeOff) error
	GetByID(ctx context.Context, id string) (*model.EmployeeTimeOff, error)
	GetByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.EmployeeTimeOff, error)
	Update(ctx context.Context, id string, updates *model.EmployeeTimeOffUpdate) error
	Approve(ctx context.Context, id string, approverID string) error
	Reject(ctx context.Context, id string, approverID string) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type timeOffService struct {
	repo      repository.TimeOffRepository
	validator *validator.ClosureValidator
	cfg       *config.Config
}

func NewTimeOffService(
	repo repository.TimeOffRepository,
	validator *validator.ClosureValidator,
	cfg *config.Config,
) TimeOffService {
	return &timeOffService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *timeOffService) Create(ctx context.Context, t *model.EmployeeTimeOff) error {
	t.Notes = strings.TrimSpace(t.Notes)
	// New requests always enter the approval queue; only an explicit approval
	// makes them block availability.
	t.Status = model.TimeOffStatusPending
	t.ApprovedBy = ""

	if err := s.validator.ValidateTimeOff(t); err != nil {
		s.cfg.Log.Warn("Time-off validation failed",
			"employee_id", t.EmployeeID,
			"error", err,
		)
		return apperrors.Validation("Time-off request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.repo.Create(ctx, t); err != nil {
		s.cfg.Log.Error("Failed to create time-off request",
			"employee_id", t.EmployeeID,
			"error", err,
		)
		return apperrors.Internal("Failed to create time-off request", err)
	}

	s.cfg.Log.Info("Time-off request created successfully",
		"id", t.ID,
		"employee_id", t.EmployeeID,
		"type", t.TimeOffType,
		"is_recurring", t.IsRecurring,
	)
	return nil
}

func (s *timeOffService) GetByID(ctx context.Context, id string) (*model.EmployeeTimeOff, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Time-off request ID cannot be empty")
	}

	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return nil, apperrors.NotFoundWithID("Time-off request", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid time-off request ID format")
		}
		s.cfg.Log.Error("Failed to get time-off request by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve time-off request", err)
	}

	return t, nil
}

func (s *timeOffService) GetByEmployee(ctx context.Context, employeeID string, limit int, offset int64) ([]*model.EmployeeTimeOff, error) {
	if employeeID == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	requests, err := s.repo.FindByEmployee(ctx, employeeID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to get time-off requests by employee",
			"employee_id", employeeID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve time-off requests", err)
	}

	return requests, nil
}

func (s *timeOffService) Update(ctx context.Context, id string, updates *model.EmployeeTimeOffUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Time-off request ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return apperrors.NotFoundWithID("Time-off request", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid time-off request ID format")
		}
		return apperrors.Internal("Failed to check time-off request existence", err)
	}

	if existing.Status != model.TimeOffStatusPending {
		return apperrors.Conflict("Only pending time-off requests can be edited")
	}

	merged := s.mergeTimeOffUpdates(existing, updates)
	if err := s.validator.ValidateTimeOff(merged); err != nil {
		s.cfg.Log.Warn("Time-off validation failed",
			"id", id,
			"employee_id", merged.EmployeeID,
			"error", err,
		)
		return apperrors.Validation("Time-off request validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return apperrors.NotFoundWithID("Time-off request", id)
		}
		s.cfg.Log.Error("Failed to update time-off request",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update time-off request", err)
	}

	s.cfg.Log.Info("Time-off request updated successfully", "id", id)
	return nil
}

func (s *timeOffService) Approve(ctx context.Context, id string, approverID string) error {
	return s.transition(ctx, id, model.TimeOffStatusApproved, approverID,
		[]string{model.TimeOffStatusPending})
}

func (s *timeOffService) Reject(ctx context.Context, id string, approverID string) error {
	return s.transition(ctx, id, model.TimeOffStatusRejected, approverID,
		[]string{model.TimeOffStatusPending})
}

func (s *timeOffService) Cancel(ctx context.Context, id string) error {
	return s.transition(ctx, id, model.TimeOffStatusCancelled, "",
		[]string{model.TimeOffStatusPending, model.TimeOffStatusApproved})
}

func (s *timeOffService) transition(ctx context.Context, id, target, approverID string, allowedFrom []string) error {
	if id == "" {
		return apperrors.InvalidInput("Time-off request ID cannot be empty")
	}
	if (target == model.TimeOffStatusApproved || target == model.TimeOffStatusRejected) && approverID == "" {
		return apperrors.InvalidInput("Approver ID is required")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return apperrors.NotFoundWithID("Time-off request", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid time-off request ID format")
		}
		return apperrors.Internal("Failed to check time-off request existence", err)
	}

	allowed := false
	for _, from := range allowedFrom {
		if existing.Status == from {
			allowed = true
			break
		}
	}
	if !allowed {
		return apperrors.Conflict("Time-off request cannot transition from status '" + existing.Status + "' to '" + target + "'")
	}

	if err := s.repo.UpdateStatus(ctx, id, target, approverID); err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return apperrors.NotFoundWithID("Time-off request", id)
		}
		s.cfg.Log.Error("Failed to update time-off status",
			"id", id,
			"target_status", target,
			"error", err,
		)
		return apperrors.Internal("Failed to update time-off status", err)
	}

	s.cfg.Log.Info("Time-off status updated",
		"id", id,
		"from", existing.Status,
		"to", target,
	)
	return nil
}

func (s *timeOffService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Time-off request ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, closureerrors.ErrTimeOffNotFound) {
			return apperrors.NotFoundWithID("Time-off request", id)
		}
		if errors.Is(err, closureerrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid time-off request ID format")
		}
		s.cfg.Log.Error("Failed to delete time-off request",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete time-off request", err)
	}

	s.cfg.Log.Info("Time-off request deleted successfully", "id", id)
	return nil
}

func (s *timeOffService) mergeTimeOffUpdates(existing *model.EmployeeTimeOff, updates *model.EmployeeTimeOffUpdate) *model.EmployeeTimeOff {
	merged := *existing

	if updates.TimeOffType != "" {
		merged.TimeOffType = updates.TimeOffType
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
	if updates.Notes != "" {
		merged.Notes = strings.TrimSpace(updates.Notes)
	}

	merged.ID = existing.ID
	merged.EmployeeID = existing.EmployeeID
	merged.Status = existing.Status
	merged.RequestedBy = existing.RequestedBy
	merged.ApprovedBy = existing.ApprovedBy
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
