package service

import (
	"context"
	"errors"
	"sync"
	"time"

	bookingserrors "linkuup/internal/bookings/errors"
	"linkuup/internal/bookings/repository"
	"linkuup/internal/bookings/validator"
	"linkuup/pkg/config"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/model"
)

// SlotWriter commits a single booking after re-checking availability under an
// advisory lock. The availability service provides the implementation; the
// indirection keeps this package free of a dependency on it.
type SlotWriter interface {
	CreateBooking(ctx context.Context, b *model.Booking) error
}

type BookingService interface {
	Create(ctx context.Context, b *model.Booking) error
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByPlace(ctx context.Context, placeID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error)
	GetSeries(ctx context.Context, parentBookingID string) ([]*model.Booking, error)
	Update(ctx context.Context, id string, updates *model.BookingUpdate) error
	Cancel(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	writer    SlotWriter
	validator *validator.BookingValidator
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	writer SlotWriter,
	validator *validator.BookingValidator,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		writer:    writer,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, b *model.Booking) error {
	if b.Status == "" {
		b.Status = model.BookingStatusPending
	}
	// Single creates never carry series fields; recurring series go through
	// the recurring booking endpoint.
	b.IsRecurring = false
	b.Recurrence = nil
	b.RecurrenceEndDate = nil
	b.ParentBookingID = ""

	if err := s.validator.Validate(b); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"place_id", b.PlaceID,
			"customer_id", b.CustomerID,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	if err := s.writer.CreateBooking(ctx, b); err != nil {
		if errors.Is(err, bookingserrors.ErrSlotConflict) {
			return apperrors.Conflict("Requested slot is no longer available")
		}
		s.cfg.Log.Error("Failed to create booking",
			"place_id", b.PlaceID,
			"start_time", b.StartTime,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", b.ID,
		"place_id", b.PlaceID,
		"employee_id", b.EmployeeID,
		"start_time", b.StartTime,
	)
	return nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to get booking by ID",
			"id", id,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}

	return b, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	sharedCtx, cancel := context.WithTimeout(ctx, s.cfg.ReadTimeout)
	defer cancel()

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.Count(sharedCtx)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindAll(sharedCtx, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to get all bookings",
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}
	return bookings, count, nil
}

func (s *bookingService) GetByPlace(ctx context.Context, placeID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, int64, error) {
	if placeID == "" {
		return nil, 0, apperrors.InvalidInput("Place ID cannot be empty")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	bookings, err := s.repo.FindByPlace(ctx, placeID, startTime, endTime, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to get bookings by place",
			"place_id", placeID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	count, err := s.repo.CountByPlace(ctx, placeID, startTime, endTime)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings by place",
			"place_id", placeID,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) GetSeries(ctx context.Context, parentBookingID string) ([]*model.Booking, error) {
	if parentBookingID == "" {
		return nil, apperrors.InvalidInput("Parent booking ID cannot be empty")
	}

	root, err := s.GetByID(ctx, parentBookingID)
	if err != nil {
		return nil, err
	}

	children, err := s.repo.FindByParent(ctx, parentBookingID)
	if err != nil {
		s.cfg.Log.Error("Failed to get booking series",
			"parent_booking_id", parentBookingID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to retrieve booking series", err)
	}

	return append([]*model.Booking{root}, children...), nil
}

func (s *bookingService) Update(ctx context.Context, id string, updates *model.BookingUpdate) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	merged := s.mergeBookingUpdates(existing, updates)
	if err := s.validator.Validate(merged); err != nil {
		s.cfg.Log.Warn("Booking validation failed",
			"id", id,
			"error", err,
		)
		return apperrors.Validation("Booking validation failed", map[string]any{
			"error": err.Error(),
		})
	}

	// A moved slot must pass the availability gate again.
	timeChanged := !merged.StartTime.Equal(existing.StartTime) || !merged.EndTime.Equal(existing.EndTime)
	if timeChanged && merged.OccupiesSlot() {
		overlapping, err := s.repo.FindOverlapping(ctx, merged.PlaceID, merged.EmployeeID, merged.StartTime, merged.EndTime)
		if err != nil {
			return apperrors.Internal("Failed to check for overlapping bookings", err)
		}
		for _, other := range overlapping {
			if other.ID != id {
				return apperrors.Conflict("Requested slot overlaps an existing booking")
			}
		}
	}

	if _, err := s.repo.Update(ctx, id, merged); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		s.cfg.Log.Error("Failed to update booking",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking updated successfully", "id", id)
	return nil
}

func (s *bookingService) Cancel(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		return apperrors.Internal("Failed to check booking existence", err)
	}

	if !existing.OccupiesSlot() {
		return apperrors.Conflict("Booking is already " + existing.Status)
	}

	if err := s.repo.UpdateStatus(ctx, id, model.BookingStatusCancelled); err != nil {
		s.cfg.Log.Error("Failed to cancel booking",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to cancel booking", err)
	}

	s.cfg.Log.Info("Booking cancelled", "id", id, "previous_status", existing.Status)
	return nil
}

func (s *bookingService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to delete booking",
			"id", id,
			"error", err,
		)
		return apperrors.Internal("Failed to delete booking", err)
	}

	s.cfg.Log.Info("Booking deleted successfully", "id", id)
	return nil
}

func (s *bookingService) mergeBookingUpdates(existing *model.Booking, updates *model.BookingUpdate) *model.Booking {
	merged := *existing

	if updates.EmployeeID != "" {
		merged.EmployeeID = updates.EmployeeID
	}
	if updates.ServiceIDs != nil {
		merged.ServiceIDs = updates.ServiceIDs
	}
	if updates.StartTime != nil {
		merged.StartTime = *updates.StartTime
	}
	if updates.EndTime != nil {
		merged.EndTime = *updates.EndTime
	}
	if updates.Status != "" {
		merged.Status = updates.Status
	}

	merged.ID = existing.ID
	merged.PlaceID = existing.PlaceID
	merged.CustomerID = existing.CustomerID
	merged.CreatedAt = existing.CreatedAt
	return &merged
}
