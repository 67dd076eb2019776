package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestParseCakeStatus verifies the tolerant mapping of raw status strings.
// Unknown data must degrade to not-ordered instead of failing the record.
func TestParseCakeStatus(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		expected   CakeStatus
		recognized bool
	}{
		{"Not ordered", "not-ordered", CakeNotOrdered, true},
		{"Ordered", "ordered", CakeOrdered, true},
		{"Ready", "ready", CakeReady, true},
		{"Delivered", "delivered", CakeDelivered, true},
		{"Empty falls back", "", CakeNotOrdered, false},
		{"Garbage falls back", "eaten", CakeNotOrdered, false},
		{"Case sensitive", "Delivered", CakeNotOrdered, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, recognized := ParseCakeStatus(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.recognized, recognized)
		})
	}
}

// TestCakeStatus_Advance verifies the cyclic workflow: every status has a
// successor and delivered wraps back to not-ordered.
func TestCakeStatus_Advance(t *testing.T) {
	assert.Equal(t, CakeOrdered, CakeNotOrdered.Advance())
	assert.Equal(t, CakeReady, CakeOrdered.Advance())
	assert.Equal(t, CakeDelivered, CakeReady.Advance())
	assert.Equal(t, CakeNotOrdered, CakeDelivered.Advance(), "Delivered must wrap back to not-ordered")

	// An unknown value degrades to the start of the cycle.
	assert.Equal(t, CakeNotOrdered, CakeStatus("bogus").Advance())
}

func TestParseCelebrationStatus(t *testing.T) {
	s, ok := ParseCelebrationStatus("In Progress")
	assert.True(t, ok)
	assert.Equal(t, StatusInProgress, s)

	s, ok = ParseCelebrationStatus("in progress")
	assert.False(t, ok, "Status matching is exact, not case-folded")
	assert.Equal(t, StatusPlanned, s)
}

func TestParseCelebrationType(t *testing.T) {
	ty, ok := ParseCelebrationType("Work Anniversary")
	assert.True(t, ok)
	assert.Equal(t, TypeWorkAnniversary, ty)

	ty, ok = ParseCelebrationType("Retirement")
	assert.False(t, ok)
	assert.Equal(t, TypeBirthday, ty)
}
