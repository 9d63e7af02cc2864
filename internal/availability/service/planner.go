package service

import (
	"context"
	"time"

	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/model"
	"linkuup/pkg/recurrence"
)

type Decision string

const (
	DecisionCreate Decision = "create"
	DecisionSkip   Decision = "skip"
)

type RecurringBookingRequest struct {
	PlaceID           string                  `json:"place_id" validate:"required"`
	EmployeeID        string                  `json:"employee_id,omitempty"`
	ServiceIDs        []string                `json:"service_ids" validate:"required,min=1"`
	CustomerID        string                  `json:"customer_id" validate:"required"`
	FirstStart        time.Time               `json:"first_start" validate:"required"`
	DurationMinutes   int                     `json:"duration_minutes" validate:"required,min=1"`
	Pattern           model.RecurrencePattern `json:"pattern" validate:"required"`
	RecurrenceEndDate time.Time               `json:"recurrence_end_date" validate:"required"`
}

// PlannedOccurrence is one expanded date with its availability decision.
// Skipped occurrences carry the blocking reason.
type PlannedOccurrence struct {
	Date      time.Time                  `json:"date"`
	StartTime time.Time                  `json:"start_time"`
	EndTime   time.Time                  `json:"end_time"`
	Decision  Decision                   `json:"decision"`
	Reason    model.UnavailabilityReason `json:"reason,omitempty"`
}

type SeriesPlan struct {
	Occurrences []PlannedOccurrence `json:"occurrences"`
	CreateCount int                 `json:"create_count"`
	SkipCount   int                 `json:"skip_count"`
}

// Plan expands the pattern from the first occurrence through the series end
// date and runs the availability check for every occurrence. It is pure: the
// same request against unchanged stores yields the same plan. Blocked
// occurrences become SKIP entries, never errors.
func (s *availabilityService) Plan(ctx context.Context, req RecurringBookingRequest) (*SeriesPlan, error) {
	if err := s.validateRecurringRequest(req); err != nil {
		return nil, err
	}

	firstStart := req.FirstStart.UTC()
	firstDate := recurrence.Date(firstStart)
	timeOfDay := firstStart.Sub(firstDate)
	duration := time.Duration(req.DurationMinutes) * time.Minute

	plan := &SeriesPlan{}
	for date := range recurrence.Expand(&req.Pattern, firstDate, firstDate, recurrence.Date(req.RecurrenceEndDate)) {
		start := date.Add(timeOfDay)
		end := start.Add(duration)

		occ := PlannedOccurrence{
			Date:      date,
			StartTime: start,
			EndTime:   end,
		}

		result, err := s.Check(ctx, CheckRequest{
			PlaceID:         req.PlaceID,
			EmployeeID:      req.EmployeeID,
			StartTime:       start,
			DurationMinutes: req.DurationMinutes,
		})
		if err != nil {
			return nil, err
		}

		if result.Available {
			occ.Decision = DecisionCreate
			plan.CreateCount++
		} else {
			occ.Decision = DecisionSkip
			occ.Reason = result.Reason
			plan.SkipCount++
		}
		plan.Occurrences = append(plan.Occurrences, occ)
	}

	return plan, nil
}

func (s *availabilityService) validateRecurringRequest(req RecurringBookingRequest) error {
	if req.PlaceID == "" {
		return apperrors.InvalidInput("Place ID cannot be empty")
	}
	if req.CustomerID == "" {
		return apperrors.InvalidInput("Customer ID cannot be empty")
	}
	if len(req.ServiceIDs) == 0 {
		return apperrors.InvalidInput("At least one service ID is required")
	}
	if req.DurationMinutes <= 0 {
		return apperrors.InvalidInput("Duration must be positive")
	}
	if req.FirstStart.IsZero() {
		return apperrors.InvalidInput("First start time is required")
	}
	if req.RecurrenceEndDate.IsZero() {
		return apperrors.InvalidInput("Recurrence end date is required")
	}
	if recurrence.Date(req.RecurrenceEndDate).Before(recurrence.Date(req.FirstStart)) {
		return apperrors.InvalidInput("Recurrence end date must not be before the first occurrence")
	}

	if err := recurrence.Validate(&req.Pattern); err != nil {
		return apperrors.Validation("Invalid recurrence pattern", map[string]any{
			"error": err.Error(),
		})
	}

	if req.Pattern.Frequency == model.FrequencyWeekly {
		wanted := false
		for _, dow := range req.Pattern.DaysOfWeek {
			if dow == int(req.FirstStart.UTC().Weekday()) {
				wanted = true
				break
			}
		}
		if !wanted {
			return apperrors.Validation("Invalid recurrence pattern", map[string]any{
				"error": "weekly pattern must include the weekday of the first occurrence",
			})
		}
	}

	return nil
}
