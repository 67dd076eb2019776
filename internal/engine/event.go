package engine

import (
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/roster"
)

// CelebrationEvent is the view-facing shape of a celebration.
// Values are recomputed from the record set on every pass as a pure function
// of (records, reference date, filters); they are never cached between
// reference-date changes.
type CelebrationEvent struct {
	ID         string                   `json:"id"`
	Name       string                   `json:"name"`
	Type       roster.CelebrationType   `json:"type"`
	Date       time.Time                `json:"date"`
	Time       string                   `json:"time"`
	Department string                   `json:"department"`
	Position   string                   `json:"position,omitempty"`
	Status     roster.CelebrationStatus `json:"status"`
	CakeStatus roster.CakeStatus        `json:"cakeStatus"`
	Image      string                   `json:"image,omitempty"`
	Alt        string                   `json:"alt,omitempty"`
	Notes      string                   `json:"notes,omitempty"`
	DaysUntil  int                      `json:"daysUntil"`
}

// StatusFromCake derives the planning status from the cake workflow.
// One canonical mapping is used everywhere so year-view sub-counts always
// add up to the month totals.
func StatusFromCake(cs roster.CakeStatus) roster.CelebrationStatus {
	switch cs {
	case roster.CakeDelivered:
		return roster.StatusCompleted
	case roster.CakeOrdered, roster.CakeReady:
		return roster.StatusInProgress
	default:
		return roster.StatusPlanned
	}
}

// EventsForYear derives one birthday event per celebration-eligible record,
// projected into the given year. Records without a birth date are excluded
// here and surface only in identity listings.
func EventsForYear(records []roster.StaffRecord, year int, policy LeapDayPolicy) []CelebrationEvent {
	events := make([]CelebrationEvent, 0, len(records))
	for _, r := range records {
		if !r.HasBirthDate {
			continue
		}
		events = append(events, CelebrationEvent{
			ID:         r.ID,
			Name:       r.Name,
			Type:       roster.TypeBirthday,
			Date:       celebrationDate(year, r.BirthDate, policy, time.UTC),
			Time:       r.CelebrationTime,
			Department: r.Department,
			Position:   r.Position,
			Status:     StatusFromCake(r.CakeStatus),
			CakeStatus: r.CakeStatus,
			Image:      r.Image,
			Alt:        r.Alt,
			Notes:      r.Notes,
		})
	}
	return events
}

// EventsForReference derives events for the reference year and fills in
// roll-forward day counts for upcoming-style consumers.
func EventsForReference(records []roster.StaffRecord, referenceDate time.Time, policy LeapDayPolicy) ([]CelebrationEvent, error) {
	if referenceDate.IsZero() {
		return nil, ErrInvalidReferenceDate
	}
	events := EventsForYear(records, referenceDate.Year(), policy)
	for i := range events {
		occ, err := OccurrenceOf(events[i].Date, referenceDate, OccurrenceOptions{RollForward: true, LeapDay: policy})
		if err != nil {
			return nil, err
		}
		events[i].DaysUntil = occ.DaysUntil
	}
	return events, nil
}
