package model

import (
	"time"
)

// Owner scopes for closure periods. Business-level closures apply to every
// place the business owns; place-level closures apply to one place only.
const (
	OwnerScopeBusiness = "business"
	OwnerScopePlace    = "place"
)

const (
	ClosureStatusActive   = "active"
	ClosureStatusInactive = "inactive"
)

// ClosurePeriod is a period during which a business or place accepts no
// bookings. Only active rows participate in availability checks. Half-day
// rows require half_day_period; recurring rows require a recurrence pattern
// anchored on start_date.
type ClosurePeriod struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	OwnerScope    string             `json:"owner_scope" bson:"owner_scope" validate:"required,oneof=business place"`
	OwnerID       string             `json:"owner_id" bson:"owner_id" validate:"required,mongodb"`
	Name          string             `json:"name" bson:"name" validate:"required,min=2,max=100"`
	StartDate     time.Time          `json:"start_date" bson:"start_date" validate:"required"`
	EndDate       time.Time          `json:"end_date" bson:"end_date" validate:"required"`
	IsFullDay     bool               `json:"is_full_day" bson:"is_full_day"`
	HalfDayPeriod DayPeriod          `json:"half_day_period,omitempty" bson:"half_day_period,omitempty" validate:"omitempty,oneof=am pm"`
	IsRecurring   bool               `json:"is_recurring" bson:"is_recurring"`
	Recurrence    *RecurrencePattern `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=active inactive"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type ClosurePeriodUpdate struct {
	Name          string             `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	StartDate     *time.Time         `json:"start_date,omitempty" validate:"omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty" validate:"omitempty"`
	IsFullDay     *bool              `json:"is_full_day,omitempty" validate:"omitempty"`
	HalfDayPeriod DayPeriod          `json:"half_day_period,omitempty" validate:"omitempty,oneof=am pm"`
	IsRecurring   *bool              `json:"is_recurring,omitempty" validate:"omitempty"`
	Recurrence    *RecurrencePattern `json:"recurrence,omitempty" validate:"omitempty"`
	Status        string             `json:"status,omitempty" validate:"omitempty,oneof=active inactive"`
	Notes         string             `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Blocks reports whether a row covering a date blocks a query for the given
// period. Full-day rows block everything; half-day rows block full-day
// queries and queries for the matching half.
func (c *ClosurePeriod) Blocks(period DayPeriod) bool {
	if c.IsFullDay {
		return true
	}
	return period == PeriodFull || period == c.HalfDayPeriod
}
