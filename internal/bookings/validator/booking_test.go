package validator

import (
	"testing"
	"time"

	"linkuup/pkg/logger"
	"linkuup/pkg/model"
)

func testValidator() *BookingValidator {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return NewBookingValidator(log)
}

func validBooking() *model.Booking {
	// Monday 2025-01-06, 10:00-11:00 UTC.
	return &model.Booking{
		PlaceID:    "64f000000000000000000001",
		EmployeeID: "64f000000000000000000003",
		ServiceIDs: []string{"64f000000000000000000005"},
		CustomerID: "64f000000000000000000004",
		StartTime:  time.Date(2025, time.January, 6, 10, 0, 0, 0, time.UTC),
		EndTime:    time.Date(2025, time.January, 6, 11, 0, 0, 0, time.UTC),
		Status:     model.BookingStatusPending,
	}
}

func TestValidate(t *testing.T) {
	v := testValidator()
	endDate := time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		mutate  func(*model.Booking)
		wantErr bool
	}{
		{"valid booking", func(b *model.Booking) {}, false},
		{"no employee is allowed", func(b *model.Booking) {
			b.EmployeeID = ""
		}, false},
		{"missing place", func(b *model.Booking) {
			b.PlaceID = ""
		}, true},
		{"bad place id", func(b *model.Booking) {
			b.PlaceID = "not-an-object-id"
		}, true},
		{"no services", func(b *model.Booking) {
			b.ServiceIDs = nil
		}, true},
		{"missing customer", func(b *model.Booking) {
			b.CustomerID = ""
		}, true},
		{"end not after start", func(b *model.Booking) {
			b.EndTime = b.StartTime
		}, true},
		{"bad status", func(b *model.Booking) {
			b.Status = "tentative"
		}, true},
		{"recurring weekly with end date", func(b *model.Booking) {
			b.IsRecurring = true
			b.Recurrence = &model.RecurrencePattern{
				Frequency:  model.FrequencyWeekly,
				Interval:   1,
				DaysOfWeek: []int{1},
			}
			b.RecurrenceEndDate = &endDate
		}, false},
		{"recurring without pattern", func(b *model.Booking) {
			b.IsRecurring = true
			b.RecurrenceEndDate = &endDate
		}, true},
		{"recurring without any end date", func(b *model.Booking) {
			b.IsRecurring = true
			b.Recurrence = &model.RecurrencePattern{
				Frequency:  model.FrequencyWeekly,
				Interval:   1,
				DaysOfWeek: []int{1},
			}
		}, true},
		{"pattern end date is enough", func(b *model.Booking) {
			b.IsRecurring = true
			b.Recurrence = &model.RecurrencePattern{
				Frequency:  model.FrequencyWeekly,
				Interval:   1,
				DaysOfWeek: []int{1},
				EndDate:    &endDate,
			}
		}, false},
		{"weekly pattern missing start weekday", func(b *model.Booking) {
			// Start is a Monday but the pattern only repeats on Fridays.
			b.IsRecurring = true
			b.Recurrence = &model.RecurrencePattern{
				Frequency:  model.FrequencyWeekly,
				Interval:   1,
				DaysOfWeek: []int{5},
			}
			b.RecurrenceEndDate = &endDate
		}, true},
		{"recurring with invalid pattern", func(b *model.Booking) {
			b.IsRecurring = true
			b.Recurrence = &model.RecurrencePattern{
				Frequency: "hourly",
				Interval:  1,
			}
			b.RecurrenceEndDate = &endDate
		}, true},
		{"pattern on non-recurring booking", func(b *model.Booking) {
			b.Recurrence = &model.RecurrencePattern{
				Frequency: model.FrequencyDaily,
				Interval:  1,
			}
		}, true},
		{"end date on non-recurring booking", func(b *model.Booking) {
			b.RecurrenceEndDate = &endDate
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(b)
			err := v.Validate(b)
			if tt.wantErr && err == nil {
				t.Error("expected validation error, got none")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("expected no error, got %v", err)
			}
		})
	}
}
