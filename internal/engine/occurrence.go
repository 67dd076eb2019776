package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
)

// ErrInvalidReferenceDate is returned when an aggregation is asked to work
// against a zero reference date. Callers must always thread "today" in
// explicitly; there is no implicit clock read here.
var ErrInvalidReferenceDate = errors.New(config.ErrRefDateInvalid)

// LeapDayPolicy decides where a Feb 29 birth date falls in non-leap years.
type LeapDayPolicy string

const (
	// LeapDayMarch1 lets time.Date normalization push Feb 29 to March 1.
	LeapDayMarch1 LeapDayPolicy = config.LeapDayPolicyMarch1
	// LeapDayFeb28 clamps the occurrence to Feb 28 instead.
	LeapDayFeb28 LeapDayPolicy = config.LeapDayPolicyFeb28
)

// ParseLeapDayPolicy maps a raw string to a LeapDayPolicy.
// Empty input selects the default (March 1).
func ParseLeapDayPolicy(s string) (LeapDayPolicy, error) {
	switch s {
	case "", config.LeapDayPolicyMarch1:
		return LeapDayMarch1, nil
	case config.LeapDayPolicyFeb28:
		return LeapDayFeb28, nil
	default:
		return LeapDayMarch1, fmt.Errorf("%s: %q", config.ErrLeapPolicyInvalid, s)
	}
}

// OccurrenceOptions tunes how an occurrence is projected.
type OccurrenceOptions struct {
	// RollForward moves an already-passed same-year occurrence to the next
	// year, guaranteeing DaysUntil in [0, 366). Without it the signed delta
	// is kept, which "events within this month" displays need for sorting.
	RollForward bool
	LeapDay     LeapDayPolicy
}

// Occurrence is a birth date projected against a reference date.
type Occurrence struct {
	// ThisOccurrence is the concrete calendar date the celebration falls on.
	ThisOccurrence time.Time `json:"thisOccurrence"`
	// DaysUntil is 0 on the day itself, positive for future dates, and
	// negative only when RollForward is off and the date already passed.
	DaysUntil int `json:"daysUntil"`
	// IsThisMonth is the year-agnostic month membership.
	IsThisMonth bool `json:"isThisMonth"`
}

// OccurrenceOf projects a recurring birth date against a reference date.
//
// Day counts are the ceiling of the millisecond difference over 86,400,000,
// matching the UI contract this service feeds. Across daylight-saving
// transitions this yields up to one day of slack; that is the documented
// behavior, not a defect.
func OccurrenceOf(birthDate, referenceDate time.Time, opts OccurrenceOptions) (Occurrence, error) {
	if referenceDate.IsZero() {
		return Occurrence{}, ErrInvalidReferenceDate
	}

	loc := referenceDate.Location()
	todayStart := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 0, 0, 0, 0, loc)

	candidate := celebrationDate(referenceDate.Year(), birthDate, opts.LeapDay, loc)
	if opts.RollForward && candidate.Before(todayStart) {
		candidate = celebrationDate(referenceDate.Year()+1, birthDate, opts.LeapDay, loc)
	}

	diff := candidate.Sub(referenceDate)
	days := int(math.Ceil(float64(diff.Milliseconds()) / float64(config.MillisecondsPerDay)))

	return Occurrence{
		ThisOccurrence: candidate,
		DaysUntil:      days,
		IsThisMonth:    IsSameCelebrationMonth(birthDate, referenceDate),
	}, nil
}

// IsSameCelebrationMonth reports whether the birth date recurs in the
// reference month. Only the months are compared; years and days are
// intentionally ignored (recurring celebration, not a one-time event).
func IsSameCelebrationMonth(birthDate, referenceDate time.Time) bool {
	return birthDate.Month() == referenceDate.Month()
}

// celebrationDate places the birth month/day into the given year.
// Go's time.Date normalizes Feb 29 to March 1 in non-leap years, which is
// exactly the March 1 policy; the Feb 28 policy clamps the day first.
func celebrationDate(year int, birthDate time.Time, policy LeapDayPolicy, loc *time.Location) time.Time {
	month, day := birthDate.Month(), birthDate.Day()
	if policy == LeapDayFeb28 && month == time.February && day == 29 && !isLeapYear(year) {
		day = 28
	}
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
