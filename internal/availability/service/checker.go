package service

import (
	"context"
	"errors"
	"time"

	placeserrors "linkuup/internal/places/errors"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/model"
	"linkuup/pkg/recurrence"
)

type CheckRequest struct {
	PlaceID         string    `json:"place_id" validate:"required"`
	EmployeeID      string    `json:"employee_id,omitempty"`
	StartTime       time.Time `json:"start_time" validate:"required"`
	DurationMinutes int       `json:"duration_minutes" validate:"required,min=1"`
}

type CheckResult struct {
	Available bool                       `json:"available"`
	Reason    model.UnavailabilityReason `json:"reason,omitempty"`
}

// Check runs the layered availability decision for one slot. Layers are
// evaluated in precedence order and the first blocking layer wins: business
// closure, then place closure, then employee time-off, then booking overlap.
func (s *availabilityService) Check(ctx context.Context, req CheckRequest) (*CheckResult, error) {
	if req.PlaceID == "" {
		return nil, apperrors.InvalidInput("Place ID cannot be empty")
	}
	if req.DurationMinutes <= 0 {
		return nil, apperrors.InvalidInput("Duration must be positive")
	}

	start := req.StartTime.UTC()
	end := start.Add(time.Duration(req.DurationMinutes) * time.Minute)
	date := recurrence.Date(start)
	period := s.slotPeriod(start, end)

	place, err := s.places.FindByID(ctx, req.PlaceID)
	if err != nil {
		if errors.Is(err, placeserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Place", req.PlaceID)
		}
		if errors.Is(err, placeserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid place ID format")
		}
		return nil, apperrors.Internal("Failed to resolve place", err)
	}

	businessClosures, err := s.closures.ListActive(ctx, model.OwnerScopeBusiness, place.BusinessID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load business closures", err)
	}
	if closureBlocks(businessClosures, date, period) {
		return &CheckResult{Available: false, Reason: model.ReasonBusinessClosed}, nil
	}

	placeClosures, err := s.closures.ListActive(ctx, model.OwnerScopePlace, req.PlaceID)
	if err != nil {
		return nil, apperrors.Internal("Failed to load place closures", err)
	}
	if closureBlocks(placeClosures, date, period) {
		return &CheckResult{Available: false, Reason: model.ReasonPlaceClosed}, nil
	}

	if req.EmployeeID != "" {
		timeOff, err := s.timeOff.ListApproved(ctx, req.EmployeeID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load employee time-off", err)
		}
		if timeOffBlocks(timeOff, date, period) {
			return &CheckResult{Available: false, Reason: model.ReasonEmployeeTimeOff}, nil
		}
	}

	overlapping, err := s.bookings.FindOverlapping(ctx, req.PlaceID, req.EmployeeID, start, end)
	if err != nil {
		return nil, apperrors.Internal("Failed to check for overlapping bookings", err)
	}
	if len(overlapping) > 0 {
		return &CheckResult{Available: false, Reason: model.ReasonSlotTaken}, nil
	}

	return &CheckResult{Available: true}, nil
}

// slotPeriod classifies a slot against the configured day split. A slot that
// ends at or before the split is AM, one that starts at or after it is PM,
// and anything straddling the split (or crossing midnight) counts as full-day
// so half-day closures on either side block it.
func (s *availabilityService) slotPeriod(start, end time.Time) model.DayPeriod {
	if !recurrence.Date(start).Equal(recurrence.Date(end.Add(-time.Nanosecond))) {
		return model.PeriodFull
	}

	split := s.cfg.DaySplitMinutes()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()
	if endMin == 0 {
		endMin = 24 * 60
	}

	if endMin <= split {
		return model.PeriodAM
	}
	if startMin >= split {
		return model.PeriodPM
	}
	return model.PeriodFull
}
