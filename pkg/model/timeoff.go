package model

import (
	"time"
)

const (
	TimeOffStatusPending   = "pending"
	TimeOffStatusApproved  = "approved"
	TimeOffStatusRejected  = "rejected"
	TimeOffStatusCancelled = "cancelled"
)

// EmployeeTimeOff is a per-employee unavailability period with an approval
// lifecycle. Only approved rows block availability; pending, rejected and
// cancelled rows are informational.
type EmployeeTimeOff struct {
	ID            string             `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	EmployeeID    string             `json:"employee_id" bson:"employee_id" validate:"required,mongodb"`
	TimeOffType   string             `json:"time_off_type" bson:"time_off_type" validate:"required,oneof=vacation sick personal other"`
	StartDate     time.Time          `json:"start_date" bson:"start_date" validate:"required"`
	EndDate       time.Time          `json:"end_date" bson:"end_date" validate:"required"`
	IsFullDay     bool               `json:"is_full_day" bson:"is_full_day"`
	HalfDayPeriod DayPeriod          `json:"half_day_period,omitempty" bson:"half_day_period,omitempty" validate:"omitempty,oneof=am pm"`
	IsRecurring   bool               `json:"is_recurring" bson:"is_recurring"`
	Recurrence    *RecurrencePattern `json:"recurrence,omitempty" bson:"recurrence,omitempty"`
	Status        string             `json:"status" bson:"status" validate:"required,oneof=pending approved rejected cancelled"`
	RequestedBy   string             `json:"requested_by" bson:"requested_by" validate:"required,mongodb"`
	ApprovedBy    string             `json:"approved_by,omitempty" bson:"approved_by,omitempty" validate:"omitempty,mongodb"`
	Notes         string             `json:"notes,omitempty" bson:"notes,omitempty" validate:"omitempty,max=500"`
	CreatedAt     time.Time          `json:"created_at" bson:"created_at" validate:"omitempty"`
}

type EmployeeTimeOffUpdate struct {
	TimeOffType   string             `json:"time_off_type,omitempty" validate:"omitempty,oneof=vacation sick personal other"`
	StartDate     *time.Time         `json:"start_date,omitempty" validate:"omitempty"`
	EndDate       *time.Time         `json:"end_date,omitempty" validate:"omitempty"`
	IsFullDay     *bool              `json:"is_full_day,omitempty" validate:"omitempty"`
	HalfDayPeriod DayPeriod          `json:"half_day_period,omitempty" validate:"omitempty,oneof=am pm"`
	IsRecurring   *bool              `json:"is_recurring,omitempty" validate:"omitempty"`
	Recurrence    *RecurrencePattern `json:"recurrence,omitempty" validate:"omitempty"`
	Notes         string             `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Blocks mirrors ClosurePeriod.Blocks for time-off rows.
func (t *EmployeeTimeOff) Blocks(period DayPeriod) bool {
	if t.IsFullDay {
		return true
	}
	return period == PeriodFull || period == t.HalfDayPeriod
}
