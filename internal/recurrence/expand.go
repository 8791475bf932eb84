package recurrence

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for civil dates.
const DateLayout = "2006-01-02"

// Day truncates t to midnight UTC of its calendar day, dropping the zone.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD civil date.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", raw, err)
	}
	return t, nil
}

// AddMonths adds n calendar months to t, clamping the day to the last day of
// the resulting month: Jan 31 + 1 month is Feb 28 (Feb 29 in leap years) and
// Feb 29 + 12 months is Feb 28. Every month and year step in this module goes
// through here.
func AddMonths(t time.Time, n int) time.Time {
	t = Day(t)
	y, m, d := t.Date()
	// time.Date normalizes the month overflow on the first of the month.
	ty, tm, _ := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC).Date()
	if last := daysInMonth(tm, ty); d > last {
		d = last
	}
	return time.Date(ty, tm, d, 0, 0, 0, 0, time.UTC)
}

func daysInMonth(month time.Month, year int) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ComputeDueDate returns the due date of the given iteration. Iteration 0 is
// base plus the first-due offset; each later iteration adds Every units to
// that date. Units are always applied to the iteration-0 date, so a month-end
// clamp in one iteration never shifts the next one.
func ComputeDueDate(base time.Time, r Rule, iteration int) time.Time {
	first := Day(base).AddDate(0, 0, r.FirstDueOffsetDays)
	total := r.Every * iteration
	switch r.Unit {
	case UnitMonth:
		return AddMonths(first, total)
	case UnitYear:
		return AddMonths(first, total*12)
	default:
		return first.AddDate(0, 0, total)
	}
}

// PlanOccurrenceCount decides how many occurrences to materialize up front.
// Without an end date it returns limit. With one, it counts iterations in
// [0, limit) whose due date is on or before end, stopping at the first that
// falls after it. Due dates never decrease with the iteration, so the first
// miss ends the series.
func PlanOccurrenceCount(base time.Time, r Rule, end *time.Time, limit int) int {
	if limit <= 0 {
		return 0
	}
	if end == nil {
		return limit
	}
	last := Day(*end)
	count := 0
	for i := 0; i < limit; i++ {
		if ComputeDueDate(base, r, i).After(last) {
			break
		}
		count++
	}
	return count
}

// Expand returns the due dates PlanOccurrenceCount allows, in order.
func Expand(base time.Time, r Rule, end *time.Time, limit int) []time.Time {
	return ExpandFrom(base, r, 0, end, limit)
}

// ExpandFrom returns up to limit due dates for iterations from, from+1, ...
// stopping at the first one after end.
func ExpandFrom(base time.Time, r Rule, from int, end *time.Time, limit int) []time.Time {
	if limit <= 0 {
		return nil
	}
	var last time.Time
	if end != nil {
		last = Day(*end)
	}
	out := make([]time.Time, 0, limit)
	for i := from; i < from+limit; i++ {
		due := ComputeDueDate(base, r, i)
		if end != nil && due.After(last) {
			break
		}
		out = append(out, due)
	}
	return out
}

// FirstIterationOnOrAfter returns the smallest iteration whose due date is on
// or after floor. Iterations still count from base, so a series rolled
// forward keeps the day of month and clamping of base.
func FirstIterationOnOrAfter(base time.Time, r Rule, floor time.Time) int {
	floor = Day(floor)
	first := ComputeDueDate(base, r, 0)
	if !first.Before(floor) || r.Every <= 0 {
		return 0
	}

	var k int
	switch r.Unit {
	case UnitMonth, UnitYear:
		step := r.Every
		if r.Unit == UnitYear {
			step *= 12
		}
		months := (floor.Year()-first.Year())*12 + int(floor.Month()) - int(first.Month())
		k = months / step
	default:
		k = int(floor.Sub(first).Hours()/24) / r.Every
	}
	// k is an estimate; settle on the exact iteration.
	for k > 0 && !ComputeDueDate(base, r, k-1).Before(floor) {
		k--
	}
	for ComputeDueDate(base, r, k).Before(floor) {
		k++
	}
	return k
}
