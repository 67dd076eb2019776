package views

import (
	"sort"
	"strings"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
)

// DirectoryEntry is one staff-directory row: the full identity record plus
// occurrence data when a birth date exists. The directory is an identity
// listing, so records without a usable birth date stay in it; they simply
// keep zero occurrence fields (HasBirthDate tells consumers apart).
type DirectoryEntry struct {
	roster.StaffRecord
	Status         roster.CelebrationStatus `json:"status"`
	NextOccurrence time.Time                `json:"nextOccurrence"`
	DaysUntil      int                      `json:"daysUntil"`
}

// BuildDirectory filters and sorts the record set into directory rows.
// Filtering follows the same contract as Filter; the birthday sort places
// records without a birth date last.
func BuildDirectory(records []roster.StaffRecord, referenceDate time.Time, policy engine.LeapDayPolicy, opts FilterOptions) ([]DirectoryEntry, error) {
	if referenceDate.IsZero() {
		return nil, engine.ErrInvalidReferenceDate
	}
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

	out := make([]DirectoryEntry, 0, len(records))
	for _, r := range records {
		if opts.Department != "" && opts.Department != config.FilterAllDepartments && r.Department != opts.Department {
			continue
		}
		// Every roster record is a birthday celebration.
		if wantType != nil && *wantType != roster.TypeBirthday {
			continue
		}
		status := engine.StatusFromCake(r.CakeStatus)
		if wantStatus != nil && status != *wantStatus {
			continue
		}
		if needle != "" && !matchesRecord(r, needle, fields) {
			continue
		}

		entry := DirectoryEntry{StaffRecord: r, Status: status}
		if r.HasBirthDate {
			occ, err := engine.OccurrenceOf(r.BirthDate, referenceDate, engine.OccurrenceOptions{RollForward: true, LeapDay: policy})
			if err != nil {
				return nil, err
			}
			entry.NextOccurrence = occ.ThisOccurrence
			entry.DaysUntil = occ.DaysUntil
		}
		out = append(out, entry)
	}

	sortDirectory(out, opts.SortBy)
	return out, nil
}

func matchesRecord(r roster.StaffRecord, needle string, fields []SearchField) bool {
	for _, f := range fields {
		var v string
		switch f {
		case SearchName:
			v = r.Name
		case SearchDepartment:
			v = r.Department
		case SearchPosition:
			v = r.Position
		}
		if v != "" && strings.Contains(strings.ToLower(v), needle) {
			return true
		}
	}
	return false
}

func sortDirectory(entries []DirectoryEntry, key string) {
	switch key {
	case config.SortKeyName:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Name < entries[j].Name
		})
	case config.SortKeyBirthday:
		sort.SliceStable(entries, func(i, j int) bool {
			a, b := entries[i], entries[j]
			if a.HasBirthDate != b.HasBirthDate {
				return a.HasBirthDate
			}
			if !a.HasBirthDate {
				return false
			}
			if a.BirthDate.Month() != b.BirthDate.Month() {
				return a.BirthDate.Month() < b.BirthDate.Month()
			}
			return a.BirthDate.Day() < b.BirthDate.Day()
		})
	case config.SortKeyDepartment:
		sort.SliceStable(entries, func(i, j int) bool {
			return entries[i].Department < entries[j].Department
		})
	}
}
