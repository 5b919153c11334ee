package schedule

import "time"

// Resolve returns the entry in effect at now. entries must be in descending
// time-of-day order, as returned by Registry.Entries.
//
// The first entry whose time today is at or before now wins, compared at minute
// resolution. When now precedes every entry the schedule wraps around midnight
// and the latest entry (index 0) stays in effect from yesterday. ok is false
// only when entries is empty.
func Resolve(entries []Entry, now time.Time) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}
	cur := ClockOf(now).Minutes()
	for _, e := range entries {
		if e.At.Minutes() <= cur {
			return e, true
		}
	}
	return entries[0], true
}

// Next returns the entry that takes effect after now and the moment it does.
// Entries sharing a time with the one in effect are skipped.
func Next(entries []Entry, now time.Time) (Entry, time.Time, bool) {
	if len(entries) == 0 {
		return Entry{}, time.Time{}, false
	}
	cur := ClockOf(now).Minutes()
	// Walk ascending: the smallest time strictly after now, else tomorrow's earliest.
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].At.Minutes() > cur {
			return firstAt(entries, entries[i].At), entries[i].At.On(now), true
		}
	}
	earliest := entries[len(entries)-1].At
	return firstAt(entries, earliest), earliest.On(now.AddDate(0, 0, 1)), true
}

// firstAt returns the entry that Resolve would pick among those sharing c.
func firstAt(entries []Entry, c Clock) Entry {
	for _, e := range entries {
		if e.At == c {
			return e
		}
	}
	return Entry{At: c}
}
