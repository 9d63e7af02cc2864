package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	bookingserrors "linkuup/internal/bookings/errors"
	"linkuup/pkg/kafka"
	"linkuup/pkg/model"
)

func TestCommitRecurring_SeriesLinks(t *testing.T) {
	stores := defaultStores()
	svc := newTestService(stores)

	result, err := svc.CommitRecurring(context.Background(), weeklyRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Created) != 4 {
		t.Fatalf("expected 4 created bookings, got %d", len(result.Created))
	}
	if len(result.Skipped) != 0 {
		t.Fatalf("expected no skips, got %d", len(result.Skipped))
	}

	root := result.Created[0]
	if !root.IsRecurring {
		t.Error("expected series root to be marked recurring")
	}
	if root.Recurrence == nil || root.Recurrence.Frequency != model.FrequencyWeekly {
		t.Error("expected series root to carry the pattern")
	}
	if root.RecurrenceEndDate == nil || !root.RecurrenceEndDate.Equal(day(2025, time.January, 27)) {
		t.Errorf("expected series end date on root, got %v", root.RecurrenceEndDate)
	}
	if root.ParentBookingID != "" {
		t.Errorf("root must not reference a parent, got %q", root.ParentBookingID)
	}

	for i, child := range result.Created[1:] {
		if child.ParentBookingID != root.ID {
			t.Errorf("child %d: expected parent %q, got %q", i, root.ID, child.ParentBookingID)
		}
		if child.IsRecurring || child.Recurrence != nil {
			t.Errorf("child %d: must not carry the pattern", i)
		}
		if child.Status != model.BookingStatusPending {
			t.Errorf("child %d: expected pending status, got %q", i, child.Status)
		}
	}

	if len(stores.producer.published) != 4 {
		t.Errorf("expected 4 published events, got %d", len(stores.producer.published))
	}
}

func TestCommitRecurring_PlannedSkipsCarryOver(t *testing.T) {
	stores := defaultStores()
	stores.timeOff.ListApprovedFunc = func(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error) {
		return []*model.EmployeeTimeOff{{
			EmployeeID: employeeID,
			StartDate:  day(2025, time.January, 13),
			EndDate:    day(2025, time.January, 13),
			IsFullDay:  true,
			Status:     model.TimeOffStatusApproved,
		}}, nil
	}
	svc := newTestService(stores)

	result, err := svc.CommitRecurring(context.Background(), weeklyRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(result.Created) != 3 {
		t.Errorf("expected 3 created bookings, got %d", len(result.Created))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(result.Skipped))
	}
	if result.Skipped[0].Reason != model.ReasonEmployeeTimeOff {
		t.Errorf("expected reason %q, got %q", model.ReasonEmployeeTimeOff, result.Skipped[0].Reason)
	}
	if !result.Skipped[0].Date.Equal(day(2025, time.January, 13)) {
		t.Errorf("expected Jan 13 skipped, got %v", result.Skipped[0].Date)
	}
}

func TestCommitRecurring_RaceConflictSkipsAfterRetry(t *testing.T) {
	// The lock for the second occurrence is held by another writer on both
	// attempts: one retry, then the occurrence degrades to a skip.
	conflictStart := at(2025, time.January, 13, 10, 0)
	attempts := 0
	stores := defaultStores()
	baseAcquire := stores.locks.AcquireFunc
	stores.locks.AcquireFunc = func(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error) {
		if lockID == slotLockID(testPlaceID, testEmployeeID, conflictStart) {
			attempts++
			return nil, duplicateKeyErr()
		}
		return baseAcquire(ctx, lockID, ttl)
	}
	svc := newTestService(stores)

	result, err := svc.CommitRecurring(context.Background(), weeklyRequest())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if attempts != 2 {
		t.Errorf("expected exactly one retry (2 attempts), got %d", attempts)
	}
	if len(result.Created) != 3 {
		t.Errorf("expected 3 created bookings, got %d", len(result.Created))
	}
	if len(result.Skipped) != 1 {
		t.Fatalf("expected 1 skip, got %d", len(result.Skipped))
	}
	if result.Skipped[0].Reason != model.ReasonRaceConflict {
		t.Errorf("expected reason %q, got %q", model.ReasonRaceConflict, result.Skipped[0].Reason)
	}
}

func TestCommitRecurring_StoreFaultAbortsSeries(t *testing.T) {
	// The second insert fails hard: the first booking stands, the rest of the
	// series is abandoned and the caller gets the partial result back.
	inserts := 0
	stores := defaultStores()
	stores.bookings.CreateFunc = func(ctx context.Context, booking *model.Booking) error {
		inserts++
		if inserts > 1 {
			return errors.New("write concern failure")
		}
		booking.ID = "64f000000000000000000101"
		return nil
	}
	svc := newTestService(stores)

	result, err := svc.CommitRecurring(context.Background(), weeklyRequest())
	if err == nil {
		t.Fatal("expected error on store fault")
	}
	if result == nil {
		t.Fatal("expected partial result alongside the error")
	}
	if len(result.Created) != 1 {
		t.Errorf("expected 1 booking written before the fault, got %d", len(result.Created))
	}
	if len(stores.producer.published) != 1 {
		t.Errorf("expected 1 published event, got %d", len(stores.producer.published))
	}
}

func TestCreateBooking_WritesAndPublishes(t *testing.T) {
	stores := defaultStores()
	svc := newTestService(stores)

	b := &model.Booking{
		PlaceID:    testPlaceID,
		EmployeeID: testEmployeeID,
		ServiceIDs: []string{testServiceID},
		CustomerID: testCustomerID,
		StartTime:  at(2025, time.March, 3, 10, 0),
		EndTime:    at(2025, time.March, 3, 11, 0),
		Status:     model.BookingStatusPending,
	}

	if err := svc.CreateBooking(context.Background(), b); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if b.ID == "" {
		t.Error("expected booking ID to be assigned")
	}
	if len(stores.producer.published) != 1 {
		t.Fatalf("expected 1 published event, got %d", len(stores.producer.published))
	}

	msg := stores.producer.published[0]
	if msg.Key != testPlaceID {
		t.Errorf("expected message keyed by place, got %q", msg.Key)
	}
	if msg.Headers[kafka.HeaderEventType] != "booking.committed" {
		t.Errorf("unexpected event type header: %q", msg.Headers[kafka.HeaderEventType])
	}

	var event BookingCommittedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		t.Fatalf("failed to decode event payload: %v", err)
	}
	if event.BookingID != b.ID {
		t.Errorf("expected event for booking %q, got %q", b.ID, event.BookingID)
	}
}

func TestCreateBooking_UnavailableSlot(t *testing.T) {
	stores := defaultStores()
	stores.closures.ListActiveFunc = func(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error) {
		return []*model.ClosurePeriod{
			fullDayClosure(ownerScope, ownerID, day(2025, time.March, 3), day(2025, time.March, 3)),
		}, nil
	}
	svc := newTestService(stores)

	err := svc.CreateBooking(context.Background(), &model.Booking{
		PlaceID:    testPlaceID,
		ServiceIDs: []string{testServiceID},
		CustomerID: testCustomerID,
		StartTime:  at(2025, time.March, 3, 10, 0),
		EndTime:    at(2025, time.March, 3, 11, 0),
		Status:     model.BookingStatusPending,
	})
	if !errors.Is(err, bookingserrors.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if len(stores.producer.published) != 0 {
		t.Error("must not publish for a rejected booking")
	}
}

func TestCreateBooking_TransactionRecheckConflict(t *testing.T) {
	// The outer check sees a free slot; by the time the transaction runs,
	// another booking has landed.
	probes := 0
	stores := defaultStores()
	stores.bookings.FindOverlappingFunc = func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
		probes++
		if probes == 1 {
			return nil, nil
		}
		return []*model.Booking{{ID: "64f000000000000000000099"}}, nil
	}
	released := false
	stores.locks.ReleaseFunc = func(ctx context.Context, lockID string) error {
		released = true
		return nil
	}
	svc := newTestService(stores)

	err := svc.CreateBooking(context.Background(), &model.Booking{
		PlaceID:    testPlaceID,
		EmployeeID: testEmployeeID,
		ServiceIDs: []string{testServiceID},
		CustomerID: testCustomerID,
		StartTime:  at(2025, time.March, 3, 10, 0),
		EndTime:    at(2025, time.March, 3, 11, 0),
		Status:     model.BookingStatusPending,
	})
	if !errors.Is(err, bookingserrors.ErrSlotConflict) {
		t.Fatalf("expected ErrSlotConflict, got %v", err)
	}
	if !released {
		t.Error("expected the slot lock to be released after the failed insert")
	}
}

func TestCreateBooking_PublishFailureDoesNotFailWrite(t *testing.T) {
	stores := defaultStores()
	stores.producer.err = errors.New("broker unreachable")
	svc := newTestService(stores)

	err := svc.CreateBooking(context.Background(), &model.Booking{
		PlaceID:    testPlaceID,
		ServiceIDs: []string{testServiceID},
		CustomerID: testCustomerID,
		StartTime:  at(2025, time.March, 3, 10, 0),
		EndTime:    at(2025, time.March, 3, 11, 0),
		Status:     model.BookingStatusPending,
	})
	if err != nil {
		t.Fatalf("publish failure must not fail the write, got %v", err)
	}
}
