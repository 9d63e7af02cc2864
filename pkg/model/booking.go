package model

import (
	"time"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Booking references its place, employee and customer by identifier only.
// A non-root member of a recurring series carries parent_booking_id pointing
// at the series root; recurrence_end_date bounds the series expansion.
type Booking struct {
	ID                string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PlaceID           string             `json:"place_id" bson:"place_id" validate:"required,mongodb"`
	EmployeeID        string             `json:"employee_id,omitempty" bson:"employee_id,omitempty" validate:"omitempty,mongodb"`
	ServiceIDs        []string           `json:"service_ids" bson:"service_ids" validate:"required,min=1,dive,mongodb"`
	CustomerID        string             `json:"customer_id" bson:"customer_id" validate:"required,mongodb"`
	StartTime         time.Time          `json:"start_time" bson:"start_time" validate:"required"`
	EndTime           time.Time          `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status            string             `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	IsRecurring       bool               `json:"is_recurring" bson:"is_recurring"`
	Recurrence        *RecurrencePattern `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	RecurrenceEndDate *time.Time         `json:"recurrence_end_date,omitempty" bson:"recurrence_end_date,omitempty"`
	ParentBookingID   string             `json:"parent_booking_id,omitempty" bson:"parent_booking_id,omitempty" validate:"omitempty,mongodb"`
	CreatedAt         time.Time          `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type BookingUpdate struct {
	EmployeeID string     `json:"employee_id,omitempty" validate:"omitempty,mongodb"`
	ServiceIDs []string   `json:"service_ids,omitempty" validate:"omitempty,min=1,dive,mongodb"`
	StartTime  *time.Time `json:"start_time,omitempty" validate:"omitempty"`
	EndTime    *time.Time `json:"end_time,omitempty" validate:"omitempty"`
	Status     string     `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
}

// OccupiesSlot reports whether this booking counts for conflict purposes.
// Cancelled and completed bookings release their slot.
func (b *Booking) OccupiesSlot() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

// DurationMinutes is derived from the stored start/end pair.
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime) / time.Minute)
}
