package engine

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/emersion/go-ical"
)

// FeedBuilder renders the roster as a subscribable iCalendar feed.
type FeedBuilder struct {
	Clock   Clock         // Interface for time mocking.
	LeapDay LeapDayPolicy // Feb 29 recurrence policy.

	// FormatSummary allows the caller to inject localized summaries.
	FormatSummary func(name string, age int, yearKnown bool) string

	// ReminderTrigger is an ISO8601 duration string (e.g. "-P1D");
	// empty disables VALARM components.
	ReminderTrigger string
}

// Build converts the roster into ICS data and reports how many birthdays
// fall on the builder's "today".
func (b *FeedBuilder) Build(records []roster.StaffRecord) ([]byte, int, error) {
	cal := ical.NewCalendar()

	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	// RFC 7986: Suggest a refresh interval.
	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	// Birthdays are defined by the local calendar date of the person, not an
	// absolute UTC timestamp; local time drives the logic and UTC is used
	// only for ICS stamping.
	now := b.Clock.Now()
	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	today := 0
	for _, r := range records {
		if !r.HasBirthDate {
			continue
		}

		uid := recordUID(r)
		events, isToday := b.createEvents(r, now, uid)
		if isToday {
			today++
			slog.Info(config.MsgBdayToday,
				config.LogKeyComponent, config.CompEngine,
				config.LogKeyName, r.Name,
				config.LogKeyDOB, r.BirthDate.Format(config.DateFormatFullDash))
		}

		for _, e := range events {
			e.Props.Set(dtStampProp)
			cal.Children = append(cal.Children, e.Component)
		}
	}

	// A valid VCALENDAR must still be returned when the roster is empty.
	if len(cal.Children) == 0 {
		return []byte(config.StubVCalendar), 0, nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, 0, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}
	return buf.Bytes(), today, nil
}

// createEvents generates events for CurrentYear-1, CurrentYear and
// CurrentYear+1 so calendar clients that scroll a year in either direction
// see events without an immediate re-sync. No event is generated before the
// person is born.
func (b *FeedBuilder) createEvents(r roster.StaffRecord, now time.Time, uidBase string) ([]*ical.Event, bool) {
	currentYear := now.Year()
	targetYears := []int{currentYear - 1, currentYear, currentYear + 1}
	loc := now.Location()

	var events []*ical.Event
	isToday := false

	todayYear, todayMonth, todayDay := now.Date()

	for _, y := range targetYears {
		if r.BirthYearKnown && y < r.BirthDate.Year() {
			continue
		}

		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, uidBase, y, config.ICalDomain))

		age := 0
		if r.BirthYearKnown {
			age = y - r.BirthDate.Year()
		}

		summary := fmt.Sprintf(config.FallbackSummary, r.Name)
		if b.FormatSummary != nil {
			summary = b.FormatSummary(r.Name, age, r.BirthYearKnown && age >= 0)
		}
		event.Props.SetText(config.PropSummary, summary)

		eventDate := celebrationDate(y, r.BirthDate, b.LeapDay, loc)

		if y == todayYear && eventDate.Month() == todayMonth && eventDate.Day() == todayDay {
			isToday = true
		}

		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(eventDate)
		event.Props.Set(dtStartProp)

		if b.ReminderTrigger != "" {
			addAlarm(event, b.ReminderTrigger, summary)
		}

		events = append(events, event)
	}
	return events, isToday
}

// addAlarm appends a DISPLAY alarm (notification) to the event.
func addAlarm(event *ical.Event, trigger, description string) {
	alarm := ical.NewComponent(config.ICalComponent)
	alarm.Props.SetText(config.PropAction, config.ICalAction)
	alarm.Props.SetText(config.PropDescription, description)

	// Set trigger manually to avoid "VALUE=TEXT" param.
	triggerProp := ical.NewProp(config.PropTrigger)
	triggerProp.Value = trigger
	alarm.Props.Set(triggerProp)

	event.Children = append(event.Children, alarm)
}

// recordUID derives a stable identifier for feed events so entries do not
// churn between refreshes.
func recordUID(r roster.StaffRecord) string {
	input := fmt.Sprintf(config.FormatHashInput, r.Name, r.BirthDate.Format(time.RFC3339), config.UIDSalt)
	hash := sha256.Sum256([]byte(input))
	return fmt.Sprintf("%x", hash[:config.UIDHashLength])
}
