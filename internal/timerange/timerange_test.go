package timerange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                       string
		start1, end1, start2, end2 string
		expected                   bool
	}{
		{"touching ranges", "08:00", "10:00", "10:00", "12:00", false},
		{"partial overlap", "08:00", "10:00", "09:00", "11:00", true},
		{"later partial overlap", "10:00", "12:00", "11:00", "13:00", true},
		{"contained", "08:00", "12:00", "09:00", "10:00", true},
		{"identical", "09:00", "11:00", "09:00", "11:00", true},
		{"disjoint", "06:00", "07:00", "18:00", "20:00", false},
		{"touching reversed", "10:00", "12:00", "08:00", "10:00", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Overlaps(tt.start1, tt.end1, tt.start2, tt.end2))
			assert.Equal(t, tt.expected, Overlaps(tt.start2, tt.end2, tt.start1, tt.end1))
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		minutes int
		ok      bool
	}{
		{"00:00", 0, true},
		{"09:30", 570, true},
		{"23:59", 1439, true},
		{"24:00", 0, false},
		{"9:30", 0, false},
		{"09:60", 0, false},
		{"0930", 0, false},
		{"ab:cd", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrInvalidClock)
				assert.False(t, ValidClock(tt.in))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.minutes, got)
			assert.True(t, ValidClock(tt.in))
		})
	}
}

func TestMinutes(t *testing.T) {
	d, err := Minutes("09:00", "11:00")
	require.NoError(t, err)
	assert.Equal(t, 120, d)

	d, err = Minutes("09:00", "11:30")
	require.NoError(t, err)
	assert.Equal(t, 150, d)

	_, err = Minutes("09:00", "bad")
	assert.ErrorIs(t, err, ErrInvalidClock)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	got, err := ParseDate("2025-03-14")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	got, err = ParseDate("2025-03-14T17:45:00Z")
	require.NoError(t, err)
	assert.True(t, want.Equal(got))

	_, err = ParseDate("14/03/2025")
	assert.ErrorIs(t, err, ErrInvalidDate)
}
