package recurrence

import (
	"errors"
	"fmt"
	"iter"
	"time"

	"linkuup/pkg/model"
)

// ErrInvalidPattern wraps every structural validation failure so callers can
// map the whole family to a 422 without matching message text.
var ErrInvalidPattern = errors.New("invalid recurrence pattern")

// Longest possible length of each month (February includes leap years).
var maxMonthDays = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Date truncates t to midnight UTC. All expansion arithmetic happens on
// normalized dates so equality checks are exact.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Validate checks the structural invariants of a pattern before any
// expansion runs: interval >= 1, weekly requires days_of_week, yearly
// requires a real anchor date, and fields from other frequencies must be
// absent so invalid combinations never reach the expander.
func Validate(p *model.RecurrencePattern) error {
	if p == nil {
		return fmt.Errorf("%w: pattern is required", ErrInvalidPattern)
	}
	if p.Interval < 1 {
		return fmt.Errorf("%w: interval must be >= 1, got %d", ErrInvalidPattern, p.Interval)
	}

	switch p.Frequency {
	case model.FrequencyWeekly:
		if len(p.DaysOfWeek) == 0 {
			return fmt.Errorf("%w: weekly frequency requires days_of_week", ErrInvalidPattern)
		}
		for _, d := range p.DaysOfWeek {
			if d < 0 || d > 6 {
				return fmt.Errorf("%w: day_of_week %d out of range 0..6", ErrInvalidPattern, d)
			}
		}
	case model.FrequencyYearly:
		if p.AnchorMonth < 1 || p.AnchorMonth > 12 {
			return fmt.Errorf("%w: yearly frequency requires anchor_month 1..12, got %d", ErrInvalidPattern, p.AnchorMonth)
		}
		if p.AnchorDay < 1 || p.AnchorDay > maxMonthDays[p.AnchorMonth] {
			return fmt.Errorf("%w: anchor_day %d does not exist in month %d", ErrInvalidPattern, p.AnchorDay, p.AnchorMonth)
		}
	case model.FrequencyDaily, model.FrequencyMonthly:
		// no extra fields
	default:
		return fmt.Errorf("%w: unknown frequency %q", ErrInvalidPattern, p.Frequency)
	}

	if p.Frequency != model.FrequencyWeekly && len(p.DaysOfWeek) > 0 {
		return fmt.Errorf("%w: days_of_week is only valid for weekly frequency", ErrInvalidPattern)
	}
	if p.Frequency != model.FrequencyYearly && (p.AnchorMonth != 0 || p.AnchorDay != 0) {
		return fmt.Errorf("%w: anchor_month/anchor_day are only valid for yearly frequency", ErrInvalidPattern)
	}
	return nil
}

// Expand produces the pattern's occurrence dates inside [from, to], in
// ascending order, anchored on reference (the owning row's start date, or a
// recurring series' first start). The sequence is lazy and restartable:
// ranging over it twice yields identical dates. Patterns without an end date
// are bounded by the window, never materialized in full.
//
// The pattern is assumed to have passed Validate; Expand yields nothing for
// a structurally invalid pattern rather than guessing.
func Expand(p *model.RecurrencePattern, reference, from, to time.Time) iter.Seq[time.Time] {
	ref := Date(reference)
	start := Date(from)
	end := Date(to)
	if p != nil && p.EndDate != nil {
		if e := Date(*p.EndDate); e.Before(end) {
			end = e
		}
	}

	return func(yield func(time.Time) bool) {
		if p == nil || Validate(p) != nil || end.Before(start) || end.Before(ref) {
			return
		}
		switch p.Frequency {
		case model.FrequencyDaily:
			expandDaily(p, ref, start, end, yield)
		case model.FrequencyWeekly:
			expandWeekly(p, ref, start, end, yield)
		case model.FrequencyMonthly:
			expandMonthly(p, ref, start, end, yield)
		case model.FrequencyYearly:
			expandYearly(p, ref, start, end, yield)
		}
	}
}

// Occurrences collects Expand into a slice, for callers that need the whole
// window at once (plans, tests).
func Occurrences(p *model.RecurrencePattern, reference, from, to time.Time) []time.Time {
	var dates []time.Time
	for d := range Expand(p, reference, from, to) {
		dates = append(dates, d)
	}
	return dates
}

// Contains reports whether date is one of the pattern's occurrences.
func Contains(p *model.RecurrencePattern, reference, date time.Time) bool {
	d := Date(date)
	for range Expand(p, reference, d, d) {
		return true
	}
	return false
}

func expandDaily(p *model.RecurrencePattern, ref, start, end time.Time, yield func(time.Time) bool) {
	d := ref
	if start.After(ref) {
		gap := int(start.Sub(ref).Hours() / 24)
		steps := (gap + p.Interval - 1) / p.Interval
		d = ref.AddDate(0, 0, steps*p.Interval)
	}
	for !d.After(end) {
		if !yield(d) {
			return
		}
		d = d.AddDate(0, 0, p.Interval)
	}
}

func expandWeekly(p *model.RecurrencePattern, ref, start, end time.Time, yield func(time.Time) bool) {
	wanted := make(map[time.Weekday]bool, len(p.DaysOfWeek))
	for _, dow := range p.DaysOfWeek {
		wanted[time.Weekday(dow)] = true
	}

	refWeek := weekStart(ref)
	d := start
	if d.Before(ref) {
		d = ref
	}
	for !d.After(end) {
		if wanted[d.Weekday()] {
			weeks := int(weekStart(d).Sub(refWeek).Hours() / 24 / 7)
			if weeks%p.Interval == 0 {
				if !yield(d) {
					return
				}
			}
		}
		d = d.AddDate(0, 0, 1)
	}
}

func expandMonthly(p *model.RecurrencePattern, ref, start, end time.Time, yield func(time.Time) bool) {
	day := ref.Day()
	for k := 0; ; k += p.Interval {
		anchor := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, k, 0)
		// A reference day past the end of a short month clamps to its last day.
		d := anchor.AddDate(0, 0, min(day, daysInMonth(anchor))-1)
		if d.After(end) {
			return
		}
		if !d.Before(start) && !d.Before(ref) {
			if !yield(d) {
				return
			}
		}
	}
}

func expandYearly(p *model.RecurrencePattern, ref, start, end time.Time, yield func(time.Time) bool) {
	for k := 0; ; k += p.Interval {
		anchor := time.Date(ref.Year()+k, time.Month(p.AnchorMonth), 1, 0, 0, 0, 0, time.UTC)
		// Feb 29 anchors clamp to Feb 28 in non-leap years.
		d := anchor.AddDate(0, 0, min(p.AnchorDay, daysInMonth(anchor))-1)
		if d.After(end) {
			return
		}
		if !d.Before(start) && !d.Before(ref) {
			if !yield(d) {
				return
			}
		}
	}
}

// weekStart returns the Sunday beginning d's week. Weekly intervals count
// whole weeks between the reference week and the candidate week.
func weekStart(d time.Time) time.Time {
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func daysInMonth(d time.Time) int {
	first := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	return first.AddDate(0, 1, -1).Day()
}
