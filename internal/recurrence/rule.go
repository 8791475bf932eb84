package recurrence

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Unit is the calendar unit a rule recurs in.
type Unit string

const (
	UnitDay   Unit = "DAY"
	UnitMonth Unit = "MONTH"
	UnitYear  Unit = "YEAR"
)

// Anchor names what the base date of a generation means for a target.
// Turning an anchor into a concrete date is done outside this package.
type Anchor string

const (
	AnchorHireDate        Anchor = "HIRE_DATE"
	AnchorAssignmentStart Anchor = "ASSIGNMENT_START"
	AnchorLastCompletion  Anchor = "LAST_COMPLETION"
	AnchorCustom          Anchor = "CUSTOM"
)

// DefaultLookahead is how many occurrences are materialized per target when
// no end date bounds the series.
const DefaultLookahead = 3

var (
	ErrInvalidUnit   = errors.New("invalid recurrence unit")
	ErrInvalidAnchor = errors.New("invalid anchor")
	ErrInvalidEvery  = errors.New("recurrence interval must be positive")
	ErrInvalidOffset = errors.New("first due offset must not be negative")
)

// Rule is the arithmetic part of a compliance template.
type Rule struct {
	Unit               Unit
	Every              int
	FirstDueOffsetDays int
	Anchor             Anchor
}

// ParseUnit accepts unit names case-insensitively.
func ParseUnit(raw string) (Unit, error) {
	u := Unit(strings.ToUpper(strings.TrimSpace(raw)))
	switch u {
	case UnitDay, UnitMonth, UnitYear:
		return u, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidUnit, raw)
}

// ParseAnchor accepts anchor names case-insensitively. Empty means CUSTOM.
func ParseAnchor(raw string) (Anchor, error) {
	a := Anchor(strings.ToUpper(strings.TrimSpace(raw)))
	switch a {
	case "":
		return AnchorCustom, nil
	case AnchorHireDate, AnchorAssignmentStart, AnchorLastCompletion, AnchorCustom:
		return a, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidAnchor, raw)
}

// Validate reports the first problem with r, if any.
func (r Rule) Validate() error {
	if _, err := ParseUnit(string(r.Unit)); err != nil {
		return err
	}
	if r.Every <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidEvery, r.Every)
	}
	if r.FirstDueOffsetDays < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidOffset, r.FirstDueOffsetDays)
	}
	if _, err := ParseAnchor(string(r.Anchor)); err != nil {
		return err
	}
	return nil
}

// RRule renders r as an RFC 5545 RRULE string starting at the first due date
// for base. It describes the series for calendars and API clients; month-end
// handling in RFC 5545 differs from AddMonths, so due dates are never derived
// from it.
func (r Rule) RRule(base time.Time) (string, error) {
	if err := r.Validate(); err != nil {
		return "", err
	}
	freq := rrule.DAILY
	switch r.Unit {
	case UnitMonth:
		freq = rrule.MONTHLY
	case UnitYear:
		freq = rrule.YEARLY
	}
	opt := rrule.ROption{
		Freq:     freq,
		Interval: r.Every,
		Dtstart:  ComputeDueDate(base, r, 0),
	}
	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return "", fmt.Errorf("build rrule: %w", err)
	}
	return rule.OrigOptions.RRuleString(), nil
}
