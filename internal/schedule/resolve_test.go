package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesAt(times ...string) []Entry {
	reg := NewRegistry(nil, nil, nil)
	for _, tm := range times {
		reg.Register(Mapping{Time: tm})
	}
	return reg.Entries()
}

func at(hour, minute, second int) time.Time {
	return time.Date(2025, 1, 1, hour, minute, second, 0, time.Local)
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		now     time.Time
		want    string
	}{
		{"most recent before now", []string{"11:00", "13:00"}, at(12, 0, 0), "11:00"},
		{"wraps to latest when before all", []string{"13:00", "14:00"}, at(12, 0, 0), "14:00"},
		{"exact minute matches", []string{"08:00", "12:00"}, at(12, 0, 0), "12:00"},
		{"seconds ignored", []string{"08:00", "12:00"}, at(12, 0, 59), "12:00"},
		{"just before minute", []string{"08:00", "12:00"}, at(11, 59, 59), "08:00"},
		{"late night", []string{"07:00", "19:00"}, at(23, 30, 0), "19:00"},
		{"pre dawn wraps", []string{"07:00", "19:00"}, at(3, 0, 0), "19:00"},
		{"single entry after now", []string{"18:00"}, at(9, 0, 0), "18:00"},
		{"midnight entry", []string{"00:00", "12:00"}, at(0, 0, 0), "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(entriesAt(tt.entries...), tt.now)
			require.True(t, ok)
			assert.Equal(t, tt.want, got.At.String())
		})
	}
}

func TestResolveEmpty(t *testing.T) {
	_, ok := Resolve(nil, at(12, 0, 0))
	assert.False(t, ok)
}

func TestResolveAlwaysFindsOne(t *testing.T) {
	entries := entriesAt("05:10", "09:45", "14:00", "22:15")
	for minute := 0; minute < 24*60; minute++ {
		now := at(minute/60, minute%60, 30)
		got, ok := Resolve(entries, now)
		require.True(t, ok)

		// The winner is never in the future unless every entry is.
		if got.At.Minutes() > minute {
			assert.Equal(t, entries[0].At, got.At)
			assert.Less(t, minute, entries[len(entries)-1].At.Minutes())
		}
	}
}

func TestResolveTieBreakIsFirstRegistered(t *testing.T) {
	reg := NewRegistry(testCatalog(), nil, nil)
	reg.Register(Mapping{Time: "10:00", Theme: "nord"}, Mapping{Time: "10:00", Theme: "dracula"})

	got, ok := Resolve(reg.Entries(), at(11, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "nord", got.Theme.ID)
}

func TestNext(t *testing.T) {
	entries := entriesAt("07:00", "19:00")

	e, when, ok := Next(entries, at(12, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "19:00", e.At.String())
	assert.Equal(t, at(19, 0, 0), when)

	e, when, ok = Next(entries, at(20, 0, 0))
	require.True(t, ok)
	assert.Equal(t, "07:00", e.At.String())
	assert.Equal(t, time.Date(2025, 1, 2, 7, 0, 0, 0, time.Local), when)

	_, _, ok = Next(nil, at(12, 0, 0))
	assert.False(t, ok)
}
