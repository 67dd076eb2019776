package views

import (
	"fmt"
	"sort"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
)

// DashboardStats are the headline counters of the dashboard hub.
type DashboardStats struct {
	ThisMonth  int `json:"thisMonth"`
	ThisWeek   int `json:"thisWeek"`
	TotalStaff int `json:"totalStaff"`
	Completed  int `json:"completed"`
}

// UpcomingCelebration is the compact upcoming-list entry.
type UpcomingCelebration struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Image      string `json:"image,omitempty"`
	Alt        string `json:"alt,omitempty"`
	Date       string `json:"date"`
	DaysUntil  int    `json:"daysUntil"`
}

// TimelineEvent is one activity-feed row derived from a cake status.
type TimelineEvent struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Action string `json:"action"`
	Time   string `json:"time"`
	Icon   string `json:"icon"`
	Color  string `json:"color"`
}

// Dashboard is the full dashboard-hub payload for one reference date.
type Dashboard struct {
	Date      time.Time                 `json:"date"`
	Stats     DashboardStats            `json:"stats"`
	ThisMonth []engine.CelebrationEvent `json:"thisMonth"`
	Upcoming  []UpcomingCelebration     `json:"upcoming"`
	Timeline  []TimelineEvent           `json:"timeline"`
}

// timelineStyle maps a cake status to its activity-feed presentation.
var timelineStyle = map[roster.CakeStatus]struct {
	icon, color, action string
}{
	roster.CakeDelivered:  {"CheckCircleIcon", "success", "cake delivered successfully"},
	roster.CakeReady:      {"ClockIcon", "trust", "cake is ready for pickup"},
	roster.CakeOrdered:    {"SparklesIcon", "celebration", "cake order confirmed"},
	roster.CakeNotOrdered: {"BellIcon", "primary", "birthday reminder sent"},
}

// BuildDashboard assembles the dashboard from the record set and an explicit
// reference date. Everything is recomputed from scratch; nothing is cached
// between reference-date changes.
func BuildDashboard(records []roster.StaffRecord, referenceDate time.Time, policy engine.LeapDayPolicy) (Dashboard, error) {
	if referenceDate.IsZero() {
		return Dashboard{}, engine.ErrInvalidReferenceDate
	}

	events, err := engine.EventsForReference(records, referenceDate, policy)
	if err != nil {
		return Dashboard{}, err
	}

	// This month's birthdays, sorted by day of month. The list deliberately
	// keeps dates that already passed; the month view needs them.
	thisMonth := make([]engine.CelebrationEvent, 0, len(events))
	for _, ev := range events {
		if engine.IsSameCelebrationMonth(ev.Date, referenceDate) {
			thisMonth = append(thisMonth, ev)
		}
	}
	sort.SliceStable(thisMonth, func(i, j int) bool {
		return thisMonth[i].Date.Day() < thisMonth[j].Date.Day()
	})

	upcoming := make([]UpcomingCelebration, 0, config.DefaultUpcomingLimit)
	for _, ev := range Upcoming(events, config.DefaultUpcomingWindow, config.DefaultUpcomingLimit) {
		upcoming = append(upcoming, UpcomingCelebration{
			ID:         ev.ID,
			Name:       ev.Name,
			Department: ev.Department,
			Image:      ev.Image,
			Alt:        ev.Alt,
			Date:       ev.Date.Format(config.DateFormatMonthD),
			DaysUntil:  ev.DaysUntil,
		})
	}

	stats := DashboardStats{
		ThisMonth:  len(thisMonth),
		TotalStaff: len(records),
	}
	for _, ev := range events {
		if ev.DaysUntil >= 0 && ev.DaysUntil <= config.ThisWeekWindow {
			stats.ThisWeek++
		}
	}
	for _, ev := range thisMonth {
		if ev.CakeStatus == roster.CakeDelivered {
			stats.Completed++
		}
	}

	return Dashboard{
		Date:      referenceDate,
		Stats:     stats,
		ThisMonth: thisMonth,
		Upcoming:  upcoming,
		Timeline:  buildTimeline(thisMonth, referenceDate),
	}, nil
}

// buildTimeline derives activity rows from this month's cake statuses.
// Rows are staggered backwards from 10:30 in 15-minute steps so the feed
// reads newest-first.
func buildTimeline(thisMonth []engine.CelebrationEvent, referenceDate time.Time) []TimelineEvent {
	timeline := make([]TimelineEvent, 0, len(thisMonth))
	slot := time.Date(referenceDate.Year(), referenceDate.Month(), referenceDate.Day(), 10, 30, 0, 0, referenceDate.Location())

	for i, ev := range thisMonth {
		style := timelineStyle[ev.CakeStatus]
		timeline = append(timeline, TimelineEvent{
			ID:     ev.ID,
			Name:   ev.Name,
			Action: style.action,
			Time:   slot.Add(time.Duration(-i) * 15 * time.Minute).Format(config.TimeFormatDisplay),
			Icon:   style.icon,
			Color:  style.color,
		})
	}
	return timeline
}

// NotificationMessage renders the dashboard banner text for a birthday count.
// Localized rendering lives with the i18n bundle; this is the fallback.
func NotificationMessage(count int) string {
	if count == 0 {
		return ""
	}
	plural := ""
	if count > 1 {
		plural = "s"
	}
	return fmt.Sprintf("%d birthday%s this month! Don't forget to check cake delivery status.", count, plural)
}
