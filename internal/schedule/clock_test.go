package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    Clock
		wantErr bool
	}{
		{"00:00", Clock{0, 0}, false},
		{"07:30", Clock{7, 30}, false},
		{"7:30", Clock{7, 30}, false},
		{"23:59", Clock{23, 59}, false},
		{" 12:05 ", Clock{12, 5}, false},
		{"18:45:59", Clock{18, 45}, false},
		{"25:99", Clock{}, true},
		{"24:00", Clock{}, true},
		{"12:60", Clock{}, true},
		{"12:5", Clock{}, true},
		{"+7:30", Clock{}, true},
		{"noon", Clock{}, true},
		{"", Clock{}, true},
		{"12", Clock{}, true},
		{"12:00:61", Clock{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidTime))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClockOn(t *testing.T) {
	loc := time.FixedZone("test", 3*3600)
	day := time.Date(2025, 3, 14, 22, 10, 45, 0, loc)

	got := Clock{Hour: 6, Minute: 15}.On(day)
	assert.Equal(t, time.Date(2025, 3, 14, 6, 15, 0, 0, loc), got)
}

func TestClockString(t *testing.T) {
	assert.Equal(t, "06:05", Clock{Hour: 6, Minute: 5}.String())
	assert.Equal(t, 6*60+5, Clock{Hour: 6, Minute: 5}.Minutes())
}

func TestClockOfIgnoresSeconds(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 59, 999, time.UTC)
	assert.Equal(t, Clock{12, 0}, ClockOf(now))
}
