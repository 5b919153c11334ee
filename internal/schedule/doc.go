// Package schedule implements the time-of-day theme scheduler.
//
// A Registry holds mappings from a time of day to a color theme and an icon
// theme, kept in descending time order. A Scheduler ticks at a fixed interval,
// resolves the entry in effect (the latest entry at or before now, wrapping to
// the latest entry of the day when now precedes all of them) and applies it
// through a Store when it differs from the live selection. Both publish their
// activity on a Bus.
//
// The scheduler does not watch the registry. Callers that replace the mappings
// while the scheduler runs stop it first, rebuild the registry and start it again.
package schedule
