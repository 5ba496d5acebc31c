package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDateLayouts(t *testing.T) {
	for _, input := range []string{"2024-03-14", "03/14/2024", "2024-03-14T09:15:00Z", "March 14, 2024"} {
		got, err := ParseDate(input, time.UTC)
		require.NoError(t, err, input)
		assert.Equal(t, 2024, got.Year(), input)
		assert.Equal(t, time.March, got.Month(), input)
		assert.Equal(t, 14, got.Day(), input)
	}

	_, err := ParseDate("not a date", time.UTC)
	assert.Error(t, err)
}

func TestStartOfWeekIsMonday(t *testing.T) {
	sunday := time.Date(2024, 3, 17, 18, 0, 0, 0, time.UTC)
	monday := StartOfWeek(sunday, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())
	assert.Equal(t, 11, monday.Day())

	same := StartOfWeek(monday.Add(3*time.Hour), time.UTC)
	assert.True(t, same.Equal(monday))
}

func TestSameDayIgnoresTime(t *testing.T) {
	a := time.Date(2024, 3, 14, 0, 5, 0, 0, time.UTC)
	b := time.Date(2024, 3, 14, 23, 55, 0, 0, time.UTC)
	assert.True(t, SameDay(a, b, time.UTC))
	assert.False(t, SameDay(a, b.Add(time.Hour), time.UTC))
}
