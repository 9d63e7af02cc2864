package model

import (
	"time"
)

// Frequency is the repeat unit of a recurrence pattern.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyYearly  Frequency = "yearly"
)

// DayPeriod identifies which part of a day a closure or candidate slot covers.
type DayPeriod string

const (
	PeriodFull DayPeriod = "full"
	PeriodAM   DayPeriod = "am"
	PeriodPM   DayPeriod = "pm"
)

// RecurrencePattern is the persisted recurrence schema. Weekly patterns carry
// days_of_week (0=Sunday..6=Saturday), yearly patterns carry anchor_month and
// anchor_day. A nil end_date means the pattern repeats until the query window
// ends. Monthly patterns whose reference day exceeds the target month's length
// clamp to the last day of that month.
type RecurrencePattern struct {
	Frequency   Frequency  `json:"frequency" bson:"frequency" validate:"required,oneof=daily weekly monthly yearly"`
	Interval    int        `json:"interval" bson:"interval" validate:"required,min=1"`
	DaysOfWeek  []int      `json:"days_of_week,omitempty" bson:"days_of_week,omitempty" validate:"omitempty,min=1,max=7,unique,dive,min=0,max=6"`
	AnchorMonth int        `json:"anchor_month,omitempty" bson:"anchor_month,omitempty" validate:"omitempty,min=1,max=12"`
	AnchorDay   int        `json:"anchor_day,omitempty" bson:"anchor_day,omitempty" validate:"omitempty,min=1,max=31"`
	EndDate     *time.Time `json:"end_date,omitempty" bson:"end_date,omitempty"`
}

// UnavailabilityReason is the machine-readable code attached to every
// negative availability outcome. These are business outcomes, not faults.
type UnavailabilityReason string

const (
	ReasonBusinessClosed  UnavailabilityReason = "business_closed"
	ReasonPlaceClosed     UnavailabilityReason = "place_closed"
	ReasonEmployeeTimeOff UnavailabilityReason = "employee_time_off"
	ReasonSlotTaken       UnavailabilityReason = "slot_taken"
	ReasonRaceConflict    UnavailabilityReason = "race_conflict"
)
