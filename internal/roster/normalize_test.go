package roster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNormalize_Fallbacks verifies the documented defaulting policy: missing
// identity fields never drop a record, they get substituted.
func TestNormalize_Fallbacks(t *testing.T) {
	raw := []RawStaffRecord{
		{ID: "1", Name: "  ", Department: "", BirthDate: "1990-03-15"},
	}

	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, "Unknown", rec.Name)
	assert.Equal(t, "Unknown", rec.Department)
	assert.Equal(t, "10:00", rec.CelebrationTime, "Missing time slot gets the default")
	assert.Equal(t, CakeNotOrdered, rec.CakeStatus)
	assert.True(t, rec.HasBirthDate)
	assert.True(t, rec.BirthYearKnown)
}

// TestNormalize_MissingBirthDate keeps the record but excludes it from date
// aggregations.
func TestNormalize_MissingBirthDate(t *testing.T) {
	raw := []RawStaffRecord{
		{ID: "1", Name: "Ada", Department: "Engineering"},
		{ID: "2", Name: "Bob", Department: "Sales", BirthDate: "not-a-date"},
	}

	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 2)
	assert.False(t, records[0].HasBirthDate)
	assert.False(t, records[1].HasBirthDate, "Unparseable date keeps the record, without a birth date")
}

// TestNormalize_DuplicateIDs verifies last-wins semantics.
func TestNormalize_DuplicateIDs(t *testing.T) {
	raw := []RawStaffRecord{
		{ID: "1", Name: "First", Department: "A", BirthDate: "1990-01-01"},
		{ID: "2", Name: "Middle", Department: "B", BirthDate: "1991-02-02"},
		{ID: "1", Name: "Last", Department: "C", BirthDate: "1992-03-03"},
	}

	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 2, "Duplicate ids collapse to one record")
	assert.Equal(t, "Last", records[0].Name, "Last-seen record wins and keeps the original position")
	assert.Equal(t, "Middle", records[1].Name)
}

// TestNormalize_GeneratedID ensures records without an id stay addressable.
func TestNormalize_GeneratedID(t *testing.T) {
	raw := []RawStaffRecord{
		{Name: "NoID", Department: "Ops", BirthDate: "1990-01-01"},
		{Name: "AlsoNoID", Department: "Ops", BirthDate: "1991-01-01"},
	}

	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 2)
	assert.NotEmpty(t, records[0].ID)
	assert.NotEmpty(t, records[1].ID)
	assert.NotEqual(t, records[0].ID, records[1].ID, "Generated ids must be unique")
}

// TestNormalize_NumericID covers sources that serialize ids as numbers.
func TestNormalize_NumericID(t *testing.T) {
	raw := []RawStaffRecord{
		{ID: float64(42), Name: "Num", Department: "Eng", BirthDate: "1990-01-01"},
	}
	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 1)
	assert.Equal(t, "42", records[0].ID)
}

// TestNormalize_LegacyBirthdayField accepts the older field name.
func TestNormalize_LegacyBirthdayField(t *testing.T) {
	raw := []RawStaffRecord{
		{ID: "1", Name: "Old", Department: "HR", Birthday: "1980-07-04"},
	}
	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 1)
	assert.True(t, records[0].HasBirthDate)
	assert.Equal(t, time.July, records[0].BirthDate.Month())
}

// TestParseBirthDate covers the accepted formats, including yearless vCard
// dates which must anchor to a leap year so Feb 29 survives.
func TestParseBirthDate(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantMonth time.Month
		wantDay   int
		yearKnown bool
		wantErr   bool
	}{
		{"ISO date", "1990-03-15", time.March, 15, true, false},
		{"Basic format", "19900315", time.March, 15, true, false},
		{"RFC3339", "1990-03-15T00:00:00Z", time.March, 15, true, false},
		{"Yearless dashed", "--02-29", time.February, 29, false, false},
		{"Yearless basic", "--1231", time.December, 31, false, false},
		{"Garbage", "soon", 0, 0, false, true},
		{"Empty", "", 0, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, yearKnown, err := ParseBirthDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, got.Month())
			assert.Equal(t, tt.wantDay, got.Day())
			assert.Equal(t, tt.yearKnown, yearKnown)
		})
	}
}

// TestNormalize_Preferences verifies optional preference payloads survive.
func TestNormalize_Preferences(t *testing.T) {
	raw := []RawStaffRecord{
		{
			ID: "1", Name: "Prefs", Department: "Eng", BirthDate: "1990-01-01",
			Preferences: &CelebrationPreferences{Cake: "chocolate", Party: "small"},
		},
	}
	records := Normalize(raw, NormalizeOptions{})
	require.Len(t, records, 1)
	assert.Equal(t, "chocolate", records[0].Preferences.Cake)
	assert.Equal(t, "small", records[0].Preferences.Party)
}
