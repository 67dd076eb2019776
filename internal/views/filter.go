package views

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
)

// ErrInvalidFilter is returned for filter or sort values outside the
// contract. Invalid input is rejected loudly instead of silently ignored.
var ErrInvalidFilter = errors.New(config.ErrFilterInvalid)

// SearchField names a field the search term is matched against.
// Which fields a surface searches is part of that surface's contract:
// the staff directory searches names only, the calendar surfaces opt into
// department and position as well.
type SearchField string

const (
	SearchName       SearchField = "name"
	SearchDepartment SearchField = "department"
	SearchPosition   SearchField = "position"
)

// CalendarSearchFields is the wide matching set used by the calendar views.
var CalendarSearchFields = []SearchField{SearchName, SearchDepartment, SearchPosition}

// FilterOptions is the AND-composed filter pipeline input.
// The "All ..." sentinels and empty strings are no-ops.
type FilterOptions struct {
	Department string
	Type       string
	Status     string

	Search       string
	SearchFields []SearchField

	// SortBy is one of "", "name", "birthday", "department".
	// Empty preserves the pre-filter relative order.
	SortBy string
}

// Filter applies the option set to the event list and returns a new slice;
// the input is never mutated and identical arguments always yield identical
// output. Ties under any sort key keep the original insertion order.
func Filter(events []engine.CelebrationEvent, opts FilterOptions) ([]engine.CelebrationEvent, error) {
	wantType, err := parseTypeFilter(opts.Type)
	if err != nil {
		return nil, err
	}
	wantStatus, err := parseStatusFilter(opts.Status)
	if err != nil {
		return nil, err
	}
	if err := validateSortKey(opts.SortBy); err != nil {
		return nil, err
	}

	fields := opts.SearchFields
	if len(fields) == 0 {
		fields = []SearchField{SearchName}
	}
	needle := strings.ToLower(strings.TrimSpace(opts.Search))

	out := make([]engine.CelebrationEvent, 0, len(events))
	for _, ev := range events {
		if opts.Department != "" && opts.Department != config.FilterAllDepartments && ev.Department != opts.Department {
			continue
		}
		if wantType != nil && ev.Type != *wantType {
			continue
		}
		if wantStatus != nil && ev.Status != *wantStatus {
			continue
		}
		if needle != "" && !matchesSearch(ev, needle, fields) {
			continue
		}
		out = append(out, ev)
	}

	sortEvents(out, opts.SortBy)
	return out, nil
}

func parseTypeFilter(v string) (*roster.CelebrationType, error) {
	if v == "" || v == config.FilterAllTypes {
		return nil, nil
	}
	t, ok := roster.ParseCelebrationType(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, config.QueryType, v)
	}
	return &t, nil
}

func parseStatusFilter(v string) (*roster.CelebrationStatus, error) {
	if v == "" || v == config.FilterAllStatus {
		return nil, nil
	}
	s, ok := roster.ParseCelebrationStatus(v)
	if !ok {
		return nil, fmt.Errorf("%w: %s=%q", ErrInvalidFilter, config.QueryStatus, v)
	}
	return &s, nil
}

func validateSortKey(key string) error {
	switch key {
	case "", config.SortKeyName, config.SortKeyBirthday, config.SortKeyDepartment:
		return nil
	default:
		return fmt.Errorf("%w: %s=%q", ErrInvalidFilter, config.QuerySort, key)
	}
}

func matchesSearch(ev engine.CelebrationEvent, needle string, fields []SearchField) bool {
	for _, f := range fields {
		var v string
		switch f {
		case SearchName:
			v = ev.Name
		case SearchDepartment:
			v = ev.Department
		case SearchPosition:
			v = ev.Position
		}
		if v != "" && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func sortEvents(events []engine.CelebrationEvent, key string) {
	switch key {
	case config.SortKeyName:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Name < events[j].Name
		})
	case config.SortKeyBirthday:
		sort.SliceStable(events, func(i, j int) bool {
			mi, mj := events[i].Date.Month(), events[j].Date.Month()
			if mi != mj {
				return mi < mj
			}
			return events[i].Date.Day() < events[j].Date.Day()
		})
	case config.SortKeyDepartment:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Department < events[j].Department
		})
	}
}

// Upcoming returns the celebrations falling within the next windowDays,
// nearest first, excluding today. limit > 0 truncates the result.
func Upcoming(events []engine.CelebrationEvent, windowDays, limit int) []engine.CelebrationEvent {
	out := make([]engine.CelebrationEvent, 0, len(events))
	for _, ev := range events {
		if ev.DaysUntil > 0 && ev.DaysUntil <= windowDays {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysUntil < out[j].DaysUntil
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
