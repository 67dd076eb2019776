package i18n

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummary_English covers the three summary shapes: unknown year, a
// birthday with an age, and the birth itself.
func TestSummary_English(t *testing.T) {
	tr, err := New("en", slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "🎂 Ada's Birthday", tr.Summary("Ada", 0, false))
	assert.Equal(t, "🎂 Ada turns 36", tr.Summary("Ada", 36, true))
	assert.Equal(t, "🎉 Ada is born!", tr.Summary("Ada", 0, true))
}

func TestSummary_French(t *testing.T) {
	tr, err := New("fr", slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "🎂 Anniversaire de Ada", tr.Summary("Ada", 0, false))
	assert.Equal(t, "🎂 Ada fête ses 36 ans", tr.Summary("Ada", 36, true))
	assert.Equal(t, "🎂 Ada fête ses 1 an", tr.Summary("Ada", 1, true), "French singular has no plural s")
}

// TestSummary_UnknownLanguage falls back to English rather than failing.
func TestSummary_UnknownLanguage(t *testing.T) {
	tr, err := New("xx", slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "🎂 Ada's Birthday", tr.Summary("Ada", 0, false))
}

// TestNotifications verifies count-sensitive banner wording.
func TestNotifications(t *testing.T) {
	tr, err := New("en", slog.Default())
	require.NoError(t, err)

	assert.Equal(t, "No birthdays this month.", tr.NotificationThisMonth(0))
	assert.Equal(t, "1 birthday this month! Don't forget to check cake delivery status.", tr.NotificationThisMonth(1))
	assert.Equal(t, "3 birthdays this month! Don't forget to check cake delivery status.", tr.NotificationThisMonth(3))

	assert.Equal(t, "1 birthday today! Time to celebrate.", tr.NotificationToday(1))
	assert.Equal(t, "2 birthdays today! Time to celebrate.", tr.NotificationToday(2))
}
