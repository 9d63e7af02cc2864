package service

import (
	"time"

	"linkuup/pkg/model"
	"linkuup/pkg/recurrence"
)

// closureBlocks reports whether any active closure row blocks the given date
// and day period.
func closureBlocks(rows []*model.ClosurePeriod, date time.Time, period model.DayPeriod) bool {
	for _, row := range rows {
		if row.Status != model.ClosureStatusActive {
			continue
		}
		if periodCovers(row.StartDate, row.EndDate, row.IsRecurring, row.Recurrence, date) && row.Blocks(period) {
			return true
		}
	}
	return false
}

// timeOffBlocks reports whether any approved time-off row blocks the given
// date and day period.
func timeOffBlocks(rows []*model.EmployeeTimeOff, date time.Time, period model.DayPeriod) bool {
	for _, row := range rows {
		if row.Status != model.TimeOffStatusApproved {
			continue
		}
		if periodCovers(row.StartDate, row.EndDate, row.IsRecurring, row.Recurrence, date) && row.Blocks(period) {
			return true
		}
	}
	return false
}

// periodCovers reports whether the row's date range covers date. A recurring
// row covers date when some occurrence o satisfies o <= date <= o+span, where
// span is the length of the row's original range. Occurrences in that range
// all start within [date-span, date], so only that window is expanded.
func periodCovers(startDate, endDate time.Time, isRecurring bool, pattern *model.RecurrencePattern, date time.Time) bool {
	d := recurrence.Date(date)
	start := recurrence.Date(startDate)
	end := recurrence.Date(endDate)

	if !isRecurring || pattern == nil {
		return !d.Before(start) && !d.After(end)
	}

	spanDays := int(end.Sub(start).Hours() / 24)
	windowStart := d.AddDate(0, 0, -spanDays)
	for range recurrence.Expand(pattern, start, windowStart, d) {
		return true
	}
	return false
}
