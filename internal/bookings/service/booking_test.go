package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "linkuup/internal/bookings/errors"
	"linkuup/internal/bookings/validator"
	"linkuup/pkg/config"
	mongotx "linkuup/pkg/db/mongo"
	apperrors "linkuup/pkg/errors"
	"linkuup/pkg/logger"
	"linkuup/pkg/model"
)

const (
	testBookingID  = "64f000000000000000000010"
	testPlaceID    = "64f000000000000000000001"
	testEmployeeID = "64f000000000000000000003"
	testCustomerID = "64f000000000000000000004"
	testServiceID  = "64f000000000000000000005"
)

type mockBookingRepository struct {
	CreateFunc             func(ctx context.Context, booking *model.Booking) error
	FindByIDFunc           func(ctx context.Context, id string) (*model.Booking, error)
	FindAllFunc            func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	FindOverlappingFunc    func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error)
	FindByPlaceFunc        func(ctx context.Context, placeID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error)
	CountByPlaceFunc       func(ctx context.Context, placeID string, startTime, endTime *time.Time) (int64, error)
	FindByParentFunc       func(ctx context.Context, parentBookingID string) ([]*model.Booking, error)
	UpdateFunc             func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error)
	UpdateStatusFunc       func(ctx context.Context, id string, status string) error
	DeleteFunc             func(ctx context.Context, id string) error
	CountFunc              func(ctx context.Context) (int64, error)
	ExecuteTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindAllFunc(ctx, limit, offset)
}

func (m *mockBookingRepository) FindOverlapping(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
	return m.FindOverlappingFunc(ctx, placeID, employeeID, start, end)
}

func (m *mockBookingRepository) FindByPlace(ctx context.Context, placeID string, startTime, endTime *time.Time, limit int, offset int64) ([]*model.Booking, error) {
	return m.FindByPlaceFunc(ctx, placeID, startTime, endTime, limit, offset)
}

func (m *mockBookingRepository) CountByPlace(ctx context.Context, placeID string, startTime, endTime *time.Time) (int64, error) {
	return m.CountByPlaceFunc(ctx, placeID, startTime, endTime)
}

func (m *mockBookingRepository) FindByParent(ctx context.Context, parentBookingID string) ([]*model.Booking, error) {
	return m.FindByParentFunc(ctx, parentBookingID)
}

func (m *mockBookingRepository) Update(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
	return m.UpdateFunc(ctx, id, booking)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return m.UpdateStatusFunc(ctx, id, status)
}

func (m *mockBookingRepository) Delete(ctx context.Context, id string) error {
	return m.DeleteFunc(ctx, id)
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	return m.CountFunc(ctx)
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return m.ExecuteTransactionFunc(ctx, fn)
}

type mockSlotWriter struct {
	CreateBookingFunc func(ctx context.Context, b *model.Booking) error
}

func (m *mockSlotWriter) CreateBooking(ctx context.Context, b *model.Booking) error {
	return m.CreateBookingFunc(ctx, b)
}

func newTestService(repo *mockBookingRepository, writer *mockSlotWriter) *bookingService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:         log,
		ReadTimeout: 5 * time.Second,
	}
	return &bookingService{
		repo:      repo,
		writer:    writer,
		validator: validator.NewBookingValidator(log),
		cfg:       cfg,
	}
}

func pendingBooking() *model.Booking {
	return &model.Booking{
		ID:         testBookingID,
		PlaceID:    testPlaceID,
		EmployeeID: testEmployeeID,
		ServiceIDs: []string{testServiceID},
		CustomerID: testCustomerID,
		StartTime:  time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, time.March, 3, 11, 0, 0, 0, time.UTC),
		Status:     model.BookingStatusPending,
	}
}

func TestCreate_StripsSeriesFields(t *testing.T) {
	var written *model.Booking
	writer := &mockSlotWriter{
		CreateBookingFunc: func(ctx context.Context, b *model.Booking) error {
			b.ID = testBookingID
			written = b
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, writer)

	endDate := time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC)
	b := pendingBooking()
	b.ID = ""
	b.Status = ""
	b.IsRecurring = true
	b.Recurrence = &model.RecurrencePattern{Frequency: model.FrequencyDaily, Interval: 1}
	b.RecurrenceEndDate = &endDate
	b.ParentBookingID = testBookingID

	if err := svc.Create(context.Background(), b); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if written == nil {
		t.Fatal("expected booking to reach the writer")
	}
	if written.Status != model.BookingStatusPending {
		t.Errorf("expected default status pending, got %q", written.Status)
	}
	if written.IsRecurring || written.Recurrence != nil || written.RecurrenceEndDate != nil || written.ParentBookingID != "" {
		t.Error("single creates must not carry series fields")
	}
}

func TestCreate_SlotConflict(t *testing.T) {
	writer := &mockSlotWriter{
		CreateBookingFunc: func(ctx context.Context, b *model.Booking) error {
			return fmt.Errorf("%w: %s", bookingserrors.ErrSlotConflict, model.ReasonSlotTaken)
		},
	}
	svc := newTestService(&mockBookingRepository{}, writer)

	b := pendingBooking()
	b.ID = ""
	err := svc.Create(context.Background(), b)
	if err == nil {
		t.Fatal("expected conflict error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != 409 {
		t.Errorf("expected 409, got %d", appErr.HTTPStatus)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	writer := &mockSlotWriter{
		CreateBookingFunc: func(ctx context.Context, b *model.Booking) error {
			t.Fatal("writer must not be called for an invalid booking")
			return nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, writer)

	b := pendingBooking()
	b.ID = ""
	b.CustomerID = ""
	err := svc.Create(context.Background(), b)
	if err == nil {
		t.Fatal("expected validation error")
	}
	appErr := apperrors.AsAppError(err)
	if appErr.HTTPStatus != 422 {
		t.Errorf("expected 422, got %d", appErr.HTTPStatus)
	}
}

func TestGetByID(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		repoErr    error
		wantStatus int
	}{
		{"found", testBookingID, nil, 0},
		{"empty id", "", nil, 400},
		{"not found", testBookingID, bookingserrors.ErrNotFound, 404},
		{"invalid id", "nope", bookingserrors.ErrInvalidID, 400},
		{"repo failure", testBookingID, errors.New("connection reset"), 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepository{
				FindByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					if tt.repoErr != nil {
						return nil, tt.repoErr
					}
					return pendingBooking(), nil
				},
			}
			svc := newTestService(repo, &mockSlotWriter{})

			b, err := svc.GetByID(context.Background(), tt.id)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if b.ID != testBookingID {
					t.Errorf("expected booking %q, got %q", testBookingID, b.ID)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, appErr.HTTPStatus)
			}
		})
	}
}

func TestGetSeries(t *testing.T) {
	root := pendingBooking()
	root.IsRecurring = true
	child := pendingBooking()
	child.ID = "64f000000000000000000011"
	child.ParentBookingID = root.ID

	repo := &mockBookingRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return root, nil
		},
		FindByParentFunc: func(ctx context.Context, parentBookingID string) ([]*model.Booking, error) {
			if parentBookingID != root.ID {
				t.Errorf("expected parent %q, got %q", root.ID, parentBookingID)
			}
			return []*model.Booking{child}, nil
		},
	}
	svc := newTestService(repo, &mockSlotWriter{})

	series, err := svc.GetSeries(context.Background(), root.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("expected 2 bookings in series, got %d", len(series))
	}
	if series[0].ID != root.ID {
		t.Errorf("expected root first, got %q", series[0].ID)
	}
	if series[1].ID != child.ID {
		t.Errorf("expected child second, got %q", series[1].ID)
	}
}

func TestGetAll(t *testing.T) {
	repo := &mockBookingRepository{
		CountFunc: func(ctx context.Context) (int64, error) {
			return 42, nil
		},
		FindAllFunc: func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
			return []*model.Booking{pendingBooking()}, nil
		},
	}
	svc := newTestService(repo, &mockSlotWriter{})

	bookings, count, err := svc.GetAll(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if count != 42 {
		t.Errorf("expected count 42, got %d", count)
	}
	if len(bookings) != 1 {
		t.Errorf("expected 1 booking, got %d", len(bookings))
	}
}

func TestUpdate_MovedSlotRechecked(t *testing.T) {
	newStart := time.Date(2025, time.March, 4, 10, 0, 0, 0, time.UTC)
	newEnd := time.Date(2025, time.March, 4, 11, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		overlapping []*model.Booking
		wantStatus  int
	}{
		{"free target slot", nil, 0},
		{"overlap with itself only", []*model.Booking{{ID: testBookingID}}, 0},
		{"overlap with another booking", []*model.Booking{{ID: "64f000000000000000000099"}}, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			probed := false
			repo := &mockBookingRepository{
				FindByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					return pendingBooking(), nil
				},
				FindOverlappingFunc: func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
					probed = true
					return tt.overlapping, nil
				},
				UpdateFunc: func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
					return &mongo.UpdateResult{MatchedCount: 1}, nil
				},
			}
			svc := newTestService(repo, &mockSlotWriter{})

			err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{
				StartTime: &newStart,
				EndTime:   &newEnd,
			})
			if !probed {
				t.Error("expected overlap re-check for a moved slot")
			}
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected conflict error")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, appErr.HTTPStatus)
			}
		})
	}
}

func TestUpdate_UnchangedTimesSkipRecheck(t *testing.T) {
	repo := &mockBookingRepository{
		FindByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return pendingBooking(), nil
		},
		FindOverlappingFunc: func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
			t.Fatal("overlap probe must not run when times are unchanged")
			return nil, nil
		},
		UpdateFunc: func(ctx context.Context, id string, booking *model.Booking) (*mongo.UpdateResult, error) {
			return &mongo.UpdateResult{MatchedCount: 1}, nil
		},
	}
	svc := newTestService(repo, &mockSlotWriter{})

	err := svc.Update(context.Background(), testBookingID, &model.BookingUpdate{
		Status: model.BookingStatusConfirmed,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestCancel(t *testing.T) {
	tests := []struct {
		name       string
		status     string
		wantStatus int
	}{
		{"pending booking", model.BookingStatusPending, 0},
		{"confirmed booking", model.BookingStatusConfirmed, 0},
		{"already cancelled", model.BookingStatusCancelled, 409},
		{"completed booking", model.BookingStatusCompleted, 409},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated := false
			repo := &mockBookingRepository{
				FindByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
					b := pendingBooking()
					b.Status = tt.status
					return b, nil
				},
				UpdateStatusFunc: func(ctx context.Context, id string, status string) error {
					updated = true
					if status != model.BookingStatusCancelled {
						t.Errorf("expected status cancelled, got %q", status)
					}
					return nil
				},
			}
			svc := newTestService(repo, &mockSlotWriter{})

			err := svc.Cancel(context.Background(), testBookingID)
			if tt.wantStatus == 0 {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				if !updated {
					t.Error("expected status update")
				}
				return
			}
			if err == nil {
				t.Fatal("expected conflict error")
			}
			if updated {
				t.Error("status must not change on a rejected cancel")
			}
			appErr := apperrors.AsAppError(err)
			if appErr.HTTPStatus != tt.wantStatus {
				t.Errorf("expected %d, got %d", tt.wantStatus, appErr.HTTPStatus)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	deleted := false
	repo := &mockBookingRepository{
		DeleteFunc: func(ctx context.Context, id string) error {
			deleted = true
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotWriter{})

	if err := svc.Delete(context.Background(), testBookingID); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !deleted {
		t.Error("expected repository delete")
	}
}
