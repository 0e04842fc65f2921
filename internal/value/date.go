// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package value

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// dateLayouts are tried in order when parsing a string operand under a
// date-aware operator. Per spec §1.5 this is lazy: a string is only ever
// interpreted as a date when a date operator demands it.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05 MST",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDate attempts to interpret s as an instant, trying (in order) ISO
// 8601 with or without a UTC offset, "YYYY-MM-DD HH:MM:SS UTC", and a bare
// "YYYY-MM-DD" date at UTC midnight. It returns ok=false if none match.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// AsInstant coerces a Value to a time.Time for use under a date-aware
// operator: KindDate values pass through; KindString values are parsed per
// ParseDate, falling back to ParseUnixSeconds for a bare numeric string
// ("1700000000"); KindInt/KindFloat values are treated as Unix seconds. Any
// other kind, or a string that fails both parses, returns ok=false — a type
// error at the evaluator layer.
func AsInstant(v Value) (time.Time, bool) {
	switch v.kind {
	case KindDate:
		return v.t, true
	case KindString:
		if t, ok := ParseDate(v.s); ok {
			return t, true
		}
		if n, ok := ParseUnixSeconds(v.s); ok {
			return time.Unix(n, 0).UTC(), true
		}
		return time.Time{}, false
	case KindInt:
		return time.Unix(v.i, 0).UTC(), true
	case KindFloat:
		sec := int64(v.f)
		nsec := int64((v.f - float64(sec)) * 1e9)
		return time.Unix(sec, nsec).UTC(), true
	default:
		return time.Time{}, false
	}
}

// SameCalendarDay reports whether a and b fall on the same UTC calendar day.
func SameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// unitOverrides replaces entries in the fixed unit table below when set via
// SetUnitOverrides, guarded by unitOverridesMu since within/older_than may
// be evaluated concurrently from multiple goroutines.
var (
	unitOverridesMu sync.RWMutex
	unitOverrides   map[string]float64
)

// SetUnitOverrides replaces (or, with a nil/empty map, clears) the
// seconds-per-unit table consulted before the fixed approximations below.
// A lookup lower-cases the unit and trims one trailing "s" before
// consulting this map, and the map's own keys are used as given, so an
// override takes effect only under a lower-case singular key ("day", not
// "days" or "Day"). Intended for cmd/dilemma's --config
// time_units knob and for tests that need a deterministic unit size
// without waiting on the real calendar.
func SetUnitOverrides(overrides map[string]float64) {
	unitOverridesMu.Lock()
	defer unitOverridesMu.Unlock()
	unitOverrides = overrides
}

// unitSeconds implements the fixed, non-calendar-aware unit table from
// spec §1.5: minute=60s, hour=3600s, day=86400s, week=7d, month=30d,
// year=365d. Singular and plural spellings are both accepted. A unit
// present in unitOverrides takes precedence over the fixed table.
func unitSeconds(unit string) (float64, bool) {
	key := strings.ToLower(strings.TrimSuffix(unit, "s"))

	unitOverridesMu.RLock()
	secs, overridden := unitOverrides[key]
	unitOverridesMu.RUnlock()
	if overridden {
		return secs, true
	}

	switch key {
	case "minute":
		return 60, true
	case "hour":
		return 3600, true
	case "day":
		return 86400, true
	case "week":
		return 7 * 86400, true
	case "month":
		return 30 * 86400, true
	case "year":
		return 365 * 86400, true
	default:
		return 0, false
	}
}

// UnitDuration converts n units (e.g. "3 days") into a time.Duration using
// the fixed approximation table or, for a unit set there, the override
// table. ok is false for an unrecognized unit.
func UnitDuration(n float64, unit string) (time.Duration, bool) {
	secPerUnit, ok := unitSeconds(unit)
	if !ok {
		return 0, false
	}
	return time.Duration(n * secPerUnit * float64(time.Second)), true
}

// UnitSecondsFor exposes unitSeconds for the numeric-comparison form used by
// "within"/"older than", where the caller already has a duration in seconds
// and just needs the unit's conversion factor.
func UnitSecondsFor(unit string) (float64, error) {
	secs, ok := unitSeconds(unit)
	if !ok {
		return 0, fmt.Errorf("value: unknown time unit %q", unit)
	}
	return secs, nil
}

// ParseUnixSeconds is a helper for resolvers/tests that need to turn a
// numeric-looking string into Unix seconds without going through the full
// Value coercion path.
func ParseUnixSeconds(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
