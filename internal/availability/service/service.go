package service

import (
	"context"
	"time"

	"linkuup/pkg/config"
	mongotx "linkuup/pkg/db/mongo"
	"linkuup/pkg/kafka"
	"linkuup/pkg/model"
)

// PlaceStore resolves a place to its owning business.
type PlaceStore interface {
	FindByID(ctx context.Context, id string) (*model.Place, error)
}

// ClosureStore lists active closure rows for one owner.
type ClosureStore interface {
	ListActive(ctx context.Context, ownerScope, ownerID string) ([]*model.ClosurePeriod, error)
}

// TimeOffStore lists approved time-off rows for one employee.
type TimeOffStore interface {
	ListApproved(ctx context.Context, employeeID string) ([]*model.EmployeeTimeOff, error)
}

// BookingStore is the slice of the booking repository the checker and writer
// need: overlap probes, inserts, and transactional execution.
type BookingStore interface {
	FindOverlapping(ctx context.Context, placeID, employeeID string, start, end time.Time) ([]*model.Booking, error)
	Create(ctx context.Context, booking *model.Booking) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

// LockStore acquires and releases advisory slot locks.
type LockStore interface {
	Acquire(ctx context.Context, lockID string, ttl time.Duration) (*model.SlotLock, error)
	Release(ctx context.Context, lockID string) error
}

// EventPublisher is satisfied by kafka.Producer. Committed bookings are
// published for downstream consumers; publish failures never fail the write.
type EventPublisher interface {
	Publish(ctx context.Context, msg kafka.Message) error
}

type AvailabilityService interface {
	// Check answers whether one slot can be booked. A negative answer carries
	// a reason code and is a business outcome, not an error.
	Check(ctx context.Context, req CheckRequest) (*CheckResult, error)

	// Plan expands a recurring booking request into per-occurrence decisions
	// without writing anything.
	Plan(ctx context.Context, req RecurringBookingRequest) (*SeriesPlan, error)

	// CommitRecurring plans and then writes a recurring series, re-checking
	// each occurrence under an advisory lock.
	CommitRecurring(ctx context.Context, req RecurringBookingRequest) (*CommitResult, error)

	// CreateBooking writes one booking if its slot is still free.
	CreateBooking(ctx context.Context, b *model.Booking) error
}

type availabilityService struct {
	places   PlaceStore
	closures ClosureStore
	timeOff  TimeOffStore
	bookings BookingStore
	locks    LockStore
	producer EventPublisher
	cfg      *config.Config
}

func NewAvailabilityService(
	places PlaceStore,
	closures ClosureStore,
	timeOff TimeOffStore,
	bookings BookingStore,
	locks LockStore,
	producer EventPublisher,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		places:   places,
		closures: closures,
		timeOff:  timeOff,
		bookings: bookings,
		locks:    locks,
		producer: producer,
		cfg:      cfg,
	}
}
