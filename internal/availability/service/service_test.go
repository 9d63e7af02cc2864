package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"linkuup/pkg/config"
	mongotx "linkuup/pkg/db/mongo"
	"linkuup/pkg/kafka"
	"linkuup/pkg/logger"
	"linkuup/pkg/model"
)

const (
	testPlaceID    = "64f000000000000000000001"
	testBusinessID = "64f000000000000000000002"
	testEmployeeID = "64f000000000000000000003"
	testCustomerID = "64f000000000000000000004"
	testServiceID  = "64f000000000000000000005"
)

type mockPlaceStore struct {
	FindByIDFunc func(ctx context.Context, id string) (*model.Place, error)
}

func (m *mockPlaceStore) FindByID(ctx context.Context, id string) (*model.Place, error) {
	return m.FindByIDFunc(ctx, id)
}

type mockClosureStore struct {
	ListActiveFunc func(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error)
}

func (m *mockClosureStore) ListActive(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error) {
	return m.ListActiveFunc(ctx, ownerScope, ownerID)
}

type mockTimeOffStore struct {
	ListApprovedFunc func(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error)
}

func (m *mockTimeOffStore) ListApproved(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error) {
	return m.ListApprovedFunc(ctx, employeeID)
}

type mockBookingStore struct {
	FindOverlappingFunc    func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error)
	CreateFunc             func(ctx context.Context, booking *model.Booking) error
	ExecuteTransactionFunc func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingStore) FindOverlapping(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
	return m.FindOverlappingFunc(ctx, placeID, employeeID, start, end)
}

func (m *mockBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	return m.CreateFunc(ctx, booking)
}

func (m *mockBookingStore) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return m.ExecuteTransactionFunc(ctx, fn)
}

type mockLockStore struct {
	AcquireFunc func(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error)
	ReleaseFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockStore) Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error) {
	return m.AcquireFunc(ctx, lockID, ttl)
}

func (m *mockLockStore) Release(ctx context.Context, lockID string) error {
	return m.ReleaseFunc(ctx, lockID)
}

type mockPublisher struct {
	published []kafka.Message
	err       error
}

func (m *mockPublisher) Publish(ctx context.Context, msg kafka.Message) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, msg)
	return nil
}

// duplicateKeyErr builds the write exception shape mongo.IsDuplicateKeyError
// recognizes.
func duplicateKeyErr() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{Code: 11000, Message: "E11000 duplicate key error"}},
	}
}

type testStores struct {
	places   *mockPlaceStore
	closures *mockClosureStore
	timeOff  *mockTimeOffStore
	bookings *mockBookingStore
	locks    *mockLockStore
	producer *mockPublisher
}

// defaultStores wires every mock to a clear slot: place resolves, no
// closures, no time-off, no overlaps, locks always acquire.
func defaultStores() *testStores {
	bookingSeq := 0
	return &testStores{
		places: &mockPlaceStore{
			FindByIDFunc: func(ctx context.Context, id string) (*model.Place, error) {
				return &model.Place{ID: id, BusinessID: testBusinessID, Name: "Test Place"}, nil
			},
		},
		closures: &mockClosureStore{
			ListActiveFunc: func(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error) {
				return nil, nil
			},
		},
		timeOff: &mockTimeOffStore{
			ListApprovedFunc: func(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error) {
				return nil, nil
			},
		},
		bookings: &mockBookingStore{
			FindOverlappingFunc: func(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error) {
				return nil, nil
			},
			CreateFunc: func(ctx context.Context, booking *model.Booking) error {
				bookingSeq++
				booking.ID = fmt.Sprintf("64f00000000000000000010%d", bookingSeq)
				return nil
			},
			ExecuteTransactionFunc: func(ctx context.Context, fn mongotx.TransactionFunc) error {
				return fn(nil)
			},
		},
		locks: &mockLockStore{
			AcquireFunc: func(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error) {
				return &model.SlotLock{ID: lockID}, nil
			},
			ReleaseFunc: func(ctx context.Context, lockID string) error {
				return nil
			},
		},
		producer: &mockPublisher{},
	}
}

func newTestService(stores *testStores) *availabilityService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		ServiceName: "test",
		DaySplit:    "12:00",
		SlotLockTTL: 10 * time.Second,
		Log:         log,
	}
	return &availabilityService{
		places:   stores.places,
		closures: stores.closures,
		timeOff:  stores.timeOff,
		bookings: stores.bookings,
		locks:    stores.locks,
		producer: stores.producer,
		cfg:      cfg,
	}
}
