package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "linkuup/internal/bookings/errors"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/kafka"
	"linkuup/pkg/model"
	"linkuup/pkg/recurrence"
)

type SkippedOccurrence struct {
	Date   time.Time                  `json:"date"`
	Reason model.UnavailabilityReason `json:"reason"`
}

type CommitResult struct {
	Created []*model.Booking    `json:"created"`
	Skipped []SkippedOccurrence `json:"skipped"`
}

// BookingCommittedEvent is the payload published for every booking that
// reaches the store.
type BookingCommittedEvent struct {
	BookingID       string    `json:"booking_id"`
	PlaceID         string    `json:"place_id"`
	EmployeeID      string    `json:"employee_id,omitempty"`
	CustomerID      string    `json:"customer_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Status          string    `json:"status"`
	IsRecurring     bool      `json:"is_recurring"`
	ParentBookingID string    `json:"parent_booking_id,omitempty"`
}

// CommitRecurring plans the series and writes each CREATE occurrence. The
// first written occurrence becomes the series root carrying the pattern;
// later ones reference it through parent_booking_id. Every occurrence is
// re-checked under an advisory lock before its insert, so a slot taken
// between planning and writing degrades to a skip with reason race_conflict
// after one retry. Store faults abort the remaining occurrences; bookings
// already written stand.
func (s *availabilityService) CommitRecurring(ctx context.Context, req RecurringBookingRequest) (*CommitResult, error) {
	plan, err := s.Plan(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &CommitResult{}
	endDate := recurrence.Date(req.RecurrenceEndDate)
	rootID := ""

	for _, occ := range plan.Occurrences {
		if occ.Decision == DecisionSkip {
			result.Skipped = append(result.Skipped, SkippedOccurrence{
				Date:   occ.Date,
				Reason: occ.Reason,
			})
			continue
		}

		b := &model.Booking{
			PlaceID:    req.PlaceID,
			EmployeeID: req.EmployeeID,
			ServiceIDs: req.ServiceIDs,
			CustomerID: req.CustomerID,
			StartTime:  occ.StartTime,
			EndTime:    occ.EndTime,
			Status:     model.BookingStatusPending,
		}
		if rootID == "" {
			pattern := req.Pattern
			b.IsRecurring = true
			b.Recurrence = &pattern
			b.RecurrenceEndDate = &endDate
		} else {
			b.ParentBookingID = rootID
		}

		err := s.insertIfFree(ctx, b)
		if errors.Is(err, bookingserrors.ErrSlotConflict) {
			// One retry covers transient lock contention; a second conflict
			// means the slot is genuinely gone.
			err = s.insertIfFree(ctx, b)
		}
		if err != nil {
			if errors.Is(err, bookingserrors.ErrSlotConflict) {
				s.cfg.Log.Warn("Occurrence lost to concurrent writer",
					"place_id", req.PlaceID,
					"date", occ.Date,
				)
				result.Skipped = append(result.Skipped, SkippedOccurrence{
					Date:   occ.Date,
					Reason: model.ReasonRaceConflict,
				})
				continue
			}
			s.cfg.Log.Error("Failed to write series occurrence",
				"place_id", req.PlaceID,
				"date", occ.Date,
				"created_so_far", len(result.Created),
				"error", err,
			)
			return result, apperrors.Internal("Failed to write booking series", err)
		}

		if rootID == "" {
			rootID = b.ID
		}
		result.Created = append(result.Created, b)
		s.publishCommitted(ctx, b)
	}

	s.cfg.Log.Info("Recurring booking series committed",
		"place_id", req.PlaceID,
		"customer_id", req.CustomerID,
		"created", len(result.Created),
		"skipped", len(result.Skipped),
	)
	return result, nil
}

// CreateBooking writes one booking if its slot passes the availability check
// and survives the locked re-check. Returns ErrSlotConflict when another
// writer wins the slot.
func (s *availabilityService) CreateBooking(ctx context.Context, b *model.Booking) error {
	result, err := s.Check(ctx, CheckRequest{
		PlaceID:         b.PlaceID,
		EmployeeID:      b.EmployeeID,
		StartTime:       b.StartTime,
		DurationMinutes: b.DurationMinutes(),
	})
	if err != nil {
		return err
	}
	if !result.Available {
		return fmt.Errorf("%w: %s", bookingserrors.ErrSlotConflict, result.Reason)
	}

	if err := s.insertIfFree(ctx, b); err != nil {
		return err
	}

	s.publishCommitted(ctx, b)
	return nil
}

// insertIfFree acquires the slot's advisory lock, then re-checks overlap and
// inserts inside one transaction. The lock serializes writers racing for the
// same slot; the transactional re-check closes the window between the outer
// availability check and the insert.
func (s *availabilityService) insertIfFree(ctx context.Context, b *model.Booking) error {
	lockID := slotLockID(b.PlaceID, b.EmployeeID, b.StartTime)

	if _, err := s.locks.Acquire(ctx, lockID, s.cfg.SlotLockTTL); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: lock %s held", bookingserrors.ErrSlotConflict, lockID)
		}
		return fmt.Errorf("failed to acquire slot lock: %w", err)
	}
	defer func() {
		if err := s.locks.Release(context.WithoutCancel(ctx), lockID); err != nil {
			s.cfg.Log.Warn("Failed to release slot lock", "lock_id", lockID, "error", err)
		}
	}()

	return s.bookings.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		overlapping, err := s.bookings.FindOverlapping(sessCtx, b.PlaceID, b.EmployeeID, b.StartTime, b.EndTime)
		if err != nil {
			return fmt.Errorf("failed to re-check overlap: %w", err)
		}
		if len(overlapping) > 0 {
			return fmt.Errorf("%w: slot taken by %s", bookingserrors.ErrSlotConflict, overlapping[0].ID)
		}
		return s.bookings.Create(sessCtx, b)
	})
}

func slotLockID(placeID, employeeID string, start time.Time) string {
	return fmt.Sprintf("slot:%s:%s:%d", placeID, employeeID, start.UTC().Unix())
}

func (s *availabilityService) publishCommitted(ctx context.Context, b *model.Booking) {
	if s.producer == nil {
		return
	}

	msg := kafka.NewMessage().
		WithKey(b.PlaceID).
		WithValue(BookingCommittedEvent{
			BookingID:       b.ID,
			PlaceID:         b.PlaceID,
			EmployeeID:      b.EmployeeID,
			CustomerID:      b.CustomerID,
			StartTime:       b.StartTime,
			EndTime:         b.EndTime,
			Status:          b.Status,
			IsRecurring:     b.IsRecurring,
			ParentBookingID: b.ParentBookingID,
		}).
		WithEventType("booking.committed").
		WithSource(s.cfg.ServiceName).
		Build()

	if err := s.producer.Publish(ctx, msg); err != nil {
		s.cfg.Log.Error("Failed to publish booking event",
			"booking_id", b.ID,
			"error", err,
		)
	}
}
