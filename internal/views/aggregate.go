package views

import (
	"errors"
	"fmt"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
)

// ErrInvalidMonth is returned when a month grid is requested outside 1..12.
var ErrInvalidMonth = errors.New(config.ErrMonthInvalid)

// MonthCell is one cell of the 6x7 month grid. Leading and trailing blanks
// (Day == 0) pad the grid so a renderer can lay out 42 cells directly.
type MonthCell struct {
	Day    int                       `json:"day"`
	Events []engine.CelebrationEvent `json:"events"`
}

// DayBucket holds the events of a single calendar day.
type DayBucket struct {
	Date   time.Time                 `json:"date"`
	Events []engine.CelebrationEvent `json:"events"`
}

// HourBucket holds the events of a single hour slot of the day view.
type HourBucket struct {
	Hour   int                       `json:"hour"`
	Events []engine.CelebrationEvent `json:"events"`
}

// MonthStats summarizes one month of the year view. Total always equals
// Completed + InProgress + Planned.
type MonthStats struct {
	Month      time.Month `json:"month"`
	Total      int        `json:"total"`
	Completed  int        `json:"completed"`
	InProgress int        `json:"inProgress"`
	Planned    int        `json:"planned"`
}

// MonthGrid buckets events into a 42-cell calendar grid for the given month.
// Matching is by month and day only; celebrations recur every year, so the
// event's own year is ignored. Days with no events still get a cell.
func MonthGrid(events []engine.CelebrationEvent, year int, month time.Month) ([]MonthCell, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: %d", ErrInvalidMonth, month)
	}

	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	leading := int(first.Weekday()) // weeks start on Sunday

	cells := make([]MonthCell, 0, config.MonthGridCells)
	for i := 0; i < leading; i++ {
		cells = append(cells, MonthCell{})
	}
	for day := 1; day <= daysInMonth; day++ {
		cell := MonthCell{Day: day, Events: []engine.CelebrationEvent{}}
		for _, ev := range events {
			if ev.Date.Month() == month && ev.Date.Day() == day {
				cell.Events = append(cell.Events, ev)
			}
		}
		cells = append(cells, cell)
	}
	for len(cells) < config.MonthGridCells {
		cells = append(cells, MonthCell{})
	}
	return cells, nil
}

// WeekBuckets groups events into the 7-day window containing the reference
// date. The window starts on the Sunday of the reference week and crosses
// month boundaries; matching is month/day, year-agnostic.
func WeekBuckets(events []engine.CelebrationEvent, referenceDate time.Time) ([]DayBucket, error) {
	if referenceDate.IsZero() {
		return nil, engine.ErrInvalidReferenceDate
	}

	loc := referenceDate.Location()
	dayStart := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 0, 0, 0, 0, loc)
	weekStart := dayStart.AddDate(0, 0, -int(dayStart.Weekday()))

	buckets := make([]DayBucket, config.DaysPerWeek)
	for i := range buckets {
		date := weekStart.AddDate(0, 0, i)
		bucket := DayBucket{Date: date, Events: []engine.CelebrationEvent{}}
		for _, ev := range events {
			if ev.Date.Month() == date.Month() && ev.Date.Day() == date.Day() {
				bucket.Events = append(bucket.Events, ev)
			}
		}
		buckets[i] = bucket
	}
	return buckets, nil
}

// HourBuckets groups events into 24 hour slots by their HH:MM time field.
// The normalizer guarantees every event carries a parseable time; anything
// that slips through anyway is dropped rather than misfiled.
func HourBuckets(events []engine.CelebrationEvent) []HourBucket {
	buckets := make([]HourBucket, config.HoursPerDay)
	for i := range buckets {
		buckets[i] = HourBucket{Hour: i, Events: []engine.CelebrationEvent{}}
	}
	for _, ev := range events {
		t, err := time.Parse(config.TimeFormatHHMM, ev.Time)
		if err != nil {
			continue
		}
		h := t.Hour()
		buckets[h].Events = append(buckets[h].Events, ev)
	}
	return buckets
}

// YearStats produces per-month totals with status sub-counts for the year
// view's proportional bars. Events are expected to be projected into a
// single year already (engine.EventsForYear).
func YearStats(events []engine.CelebrationEvent) []MonthStats {
	stats := make([]MonthStats, config.MonthsPerYear)
	for i := range stats {
		stats[i].Month = time.Month(i + 1)
	}
	for _, ev := range events {
		s := &stats[int(ev.Date.Month())-1]
		s.Total++
		switch ev.Status {
		case roster.StatusCompleted:
			s.Completed++
		case roster.StatusInProgress:
			s.InProgress++
		default:
			s.Planned++
		}
	}
	return stats
}
