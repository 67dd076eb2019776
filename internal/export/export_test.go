package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/birthdaydesk/birthdaydesk/internal/engine"
	"github.com/birthdaydesk/birthdaydesk/internal/roster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// TestEventsJSON_Empty: an empty selection is still a valid artifact, the
// literal [] and never null.
func TestEventsJSON_Empty(t *testing.T) {
	data, err := EventsJSON(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	data, err = EventsJSON([]engine.CelebrationEvent{})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

// TestEventsJSON_Indentation verifies the 2-space pretty-print contract and
// that the payload round-trips.
func TestEventsJSON_Indentation(t *testing.T) {
	events := []engine.CelebrationEvent{
		{
			ID: "1", Name: "Ada", Type: roster.TypeBirthday,
			Date: time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC), Time: "10:00",
			Department: "Engineering", Status: roster.StatusPlanned, CakeStatus: roster.CakeNotOrdered,
		},
	}

	data, err := EventsJSON(events)
	require.NoError(t, err)
	assert.True(t, bytes.Contains(data, []byte("\n  ")), "Payload must be indented with two spaces")

	var decoded []engine.CelebrationEvent
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "Ada", decoded[0].Name)
}

// TestJSONFilename embeds the reference date, not the wall clock.
func TestJSONFilename(t *testing.T) {
	ref := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t, "celebrations-2026-03-15.json", JSONFilename(ref))
}

func TestXLSXFilename(t *testing.T) {
	ref := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "staff-directory-2026-03-15.xlsx", XLSXFilename(ref))
}

// TestStaffXLSX builds a readable workbook with one row per record plus the
// header, including records without a birth date.
func TestStaffXLSX(t *testing.T) {
	records := []roster.StaffRecord{
		{
			ID: "1", Name: "Ada", Department: "Engineering", Position: "Engineer",
			BirthDate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC), HasBirthDate: true, BirthYearKnown: true,
			CakeStatus: roster.CakeOrdered, CelebrationTime: "10:00",
			DietaryRestrictions: []string{"vegan", "nut-free"},
		},
		{
			ID: "2", Name: "NoDate", Department: "HR", CakeStatus: roster.CakeNotOrdered,
		},
	}

	data, err := StaffXLSX(records)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Staff Directory")
	require.NoError(t, err)
	require.Len(t, rows, 3, "Header plus two data rows")

	assert.Equal(t, "Name", rows[0][1])
	assert.Equal(t, "Ada", rows[1][1])
	assert.Equal(t, "1990-03-15", rows[1][4])
	assert.Equal(t, "vegan, nut-free", rows[1][7])
	assert.Equal(t, "NoDate", rows[2][1])
}

// TestWriteFile writes atomically and leaves no temp file behind.
func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "celebrations-2026-03-15.json")
	require.NoError(t, WriteFile(path, []byte("[]")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "Temp file must be renamed away")
}
