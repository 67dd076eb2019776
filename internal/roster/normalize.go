package roster

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/config"
	"github.com/google/uuid"
)

// RawStaffRecord is the loosely-typed shape staff data arrives in.
// Field presence is never trusted; Normalize applies documented defaults.
type RawStaffRecord struct {
	// ID may arrive as a string or a number depending on the source.
	ID any `json:"id"`

	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`

	// BirthDate is the canonical field; Birthday is accepted for
	// compatibility with older exports.
	BirthDate string `json:"birthDate"`
	Birthday  string `json:"birthday"`

	Image string `json:"image"`
	Alt   string `json:"alt"`

	CakeStatus      string `json:"cakeStatus"`
	Notes           string `json:"notes"`
	CelebrationTime string `json:"celebrationTime"`

	DietaryRestrictions []string                `json:"dietaryRestrictions"`
	Preferences         *CelebrationPreferences `json:"celebrationPreferences"`
}

// NormalizeOptions tunes normalization policy.
type NormalizeOptions struct {
	// DefaultCelebrationTime is applied to records without a time slot.
	// Empty means config.DefaultCelebrationTime.
	DefaultCelebrationTime string
}

// Normalize maps raw entries into canonical StaffRecords.
//
// Policy, in order:
//   - missing name/department are substituted with the literal "Unknown"
//   - a missing or unparseable birth date keeps the record but excludes it
//     from date aggregations (HasBirthDate=false)
//   - records without an id get a generated one; duplicate ids keep the
//     last-seen record
//   - malformed optional fields never fail the record
func Normalize(raw []RawStaffRecord, opts NormalizeOptions) []StaffRecord {
	defaultTime := opts.DefaultCelebrationTime
	if defaultTime == "" {
		defaultTime = config.DefaultCelebrationTime
	}

	log := slog.With(config.LogKeyComponent, config.CompRoster)

	records := make([]StaffRecord, 0, len(raw))
	index := make(map[string]int, len(raw))

	for _, r := range raw {
		rec := StaffRecord{
			ID:                  coerceID(r.ID),
			Name:                strings.TrimSpace(r.Name),
			Department:          strings.TrimSpace(r.Department),
			Position:            strings.TrimSpace(r.Position),
			Image:               r.Image,
			Alt:                 r.Alt,
			Notes:               r.Notes,
			CelebrationTime:     r.CelebrationTime,
			DietaryRestrictions: r.DietaryRestrictions,
		}

		if rec.Name == "" {
			rec.Name = config.FallbackName
		}
		if rec.Department == "" {
			rec.Department = config.FallbackDepartment
		}

		if rec.ID == "" {
			rec.ID = uuid.NewString()
			log.Debug(config.MsgGeneratedID,
				config.LogKeyID, rec.ID,
				config.LogKeyName, rec.Name,
			)
		}

		rawDate := r.BirthDate
		if rawDate == "" {
			rawDate = r.Birthday
		}
		if rawDate != "" {
			birthDate, yearKnown, err := ParseBirthDate(rawDate)
			if err != nil {
				log.Debug(config.MsgSkippedDate,
					config.LogKeyID, rec.ID,
					config.LogKeyValue, rawDate,
				)
			} else {
				rec.BirthDate = birthDate
				rec.HasBirthDate = true
				rec.BirthYearKnown = yearKnown
			}
		}

		rec.CakeStatus, _ = ParseCakeStatus(r.CakeStatus)

		if !validTime(rec.CelebrationTime) {
			rec.CelebrationTime = defaultTime
		}

		if r.Preferences != nil {
			rec.Preferences = *r.Preferences
		}

		if prev, ok := index[rec.ID]; ok {
			log.Warn(config.MsgDuplicateID, config.LogKeyID, rec.ID)
			records[prev] = rec
			continue
		}
		index[rec.ID] = len(records)
		records = append(records, rec)
	}

	return records
}

// ParseBirthDate handles the date formats found in roster and vCard data.
// The second return reports whether the value carried a year; truncated
// formats (--MM-DD) are anchored to a leap year so Feb 29 survives parsing.
func ParseBirthDate(value string) (time.Time, bool, error) {
	formatsWithYear := []string{
		config.DateFormatFullDash,
		config.DateFormatFullBasic,
		config.DateFormatRFC3339,
		config.DateFormatFullT,
	}

	for _, f := range formatsWithYear {
		if t, err := time.Parse(f, value); err == nil {
			return t, true, nil
		}
	}

	formatsWithoutYear := []string{config.DateFormatNoYearD, config.DateFormatNoYearB}
	for _, f := range formatsWithoutYear {
		if t, err := time.Parse(f, value); err == nil {
			safeDate := time.Date(config.DefaultLeapYear, t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return safeDate, false, nil
		}
	}

	return time.Time{}, false, errors.New(config.ErrDateParse)
}

// coerceID flattens the id field to a stable string key.
func coerceID(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(id)
	case float64:
		// encoding/json decodes untyped numbers as float64.
		return strconv.FormatFloat(id, 'f', -1, 64)
	case int:
		return strconv.Itoa(id)
	case int64:
		return strconv.FormatInt(id, 10)
	default:
		return strings.TrimSpace(fmt.Sprint(id))
	}
}

// validTime reports whether s is a usable HH:MM slot.
func validTime(s string) bool {
	if s == "" {
		return false
	}
	_, err := time.Parse(config.TimeFormatHHMM, s)
	return err == nil
}
