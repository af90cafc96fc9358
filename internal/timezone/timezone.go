package timezone

import (
	"errors"
	"strings"
	"time"

	// zone data travels with the binary
	_ "time/tzdata"
)

const DefaultTimezone = "Africa/Lagos"

var (
	ErrInvalidLocalTime     = errors.New("invalid local time")
	ErrUnknownZone          = errors.New("unknown time zone")
	ErrNonexistentLocalTime = errors.New("local time does not exist in zone")
	ErrAmbiguousLocalTime   = errors.New("local time is ambiguous in zone")
)

var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

// Location falls back to DefaultTimezone for empty or unknown names.
func Location(tz string) *time.Location {
	if tz != "" {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}

	loc, _ := time.LoadLocation(DefaultTimezone)
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ToUTC interprets a naive local date-time as wall-clock time in tz and
// returns the instant in RFC 3339 UTC. The empty string means the input or
// the zone was invalid.
func ToUTC(local, tz string) string {
	if !IsValid(tz) {
		return ""
	}
	t, err := parseLocal(local, Location(tz))
	if err != nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// ToTenantTime maps a stored instant to the tenant's wall clock.
func ToTenantTime(utc time.Time, tz string) time.Time {
	return utc.In(Location(tz))
}

// ParseDate reads a YYYY-MM-DD calendar date as local midnight in tz.
func ParseDate(date, tz string) (time.Time, error) {
	d, err := time.ParseInLocation("2006-01-02", strings.TrimSpace(date), Location(tz))
	if err != nil {
		return time.Time{}, ErrInvalidLocalTime
	}
	return d, nil
}

// ParseTimeOnDate places an "HH:MM" time of day on the calendar day of date
// in tz. "24:00" is the following midnight.
func ParseTimeOnDate(hhmm string, date time.Time, tz string) (time.Time, error) {
	h, m, err := ParseClock(hhmm)
	if err != nil {
		return time.Time{}, err
	}
	loc := Location(tz)
	d := date.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), h, m, 0, 0, loc), nil
}

// ParseClock splits "HH:MM" into hours and minutes. 24:00 is accepted.
func ParseClock(hhmm string) (int, int, error) {
	hhmm = strings.TrimSpace(hhmm)
	if hhmm == "24:00" {
		return 24, 0, nil
	}
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0, 0, ErrInvalidLocalTime
	}
	return t.Hour(), t.Minute(), nil
}

// Resolve is the strict form of ToUTC: wall-clock times skipped by a
// daylight-saving jump or repeated by a fall-back are reported instead of
// being shifted to a neighbouring instant.
func Resolve(local, tz string) (time.Time, error) {
	if !IsValid(tz) {
		return time.Time{}, ErrUnknownZone
	}
	loc := Location(tz)

	t, err := parseLocal(local, loc)
	if err != nil {
		return time.Time{}, err
	}

	// time.Date normalises gaps forward; a mismatch means the wall clock never showed it.
	wall, _ := parseLocal(local, time.UTC)
	if !sameWallClock(t, wall) {
		return time.Time{}, ErrNonexistentLocalTime
	}

	// the same wall clock read under the offset in force one hour earlier or later
	for _, near := range []time.Time{t.Add(-time.Hour), t.Add(time.Hour)} {
		_, off := near.Zone()
		alt := wall.Add(-time.Duration(off) * time.Second).In(loc)
		if !alt.Equal(t) && sameWallClock(alt, wall) {
			return time.Time{}, ErrAmbiguousLocalTime
		}
	}

	return t.UTC(), nil
}

func parseLocal(local string, loc *time.Location) (time.Time, error) {
	local = strings.TrimSpace(local)
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, local, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidLocalTime
}

func sameWallClock(t, wall time.Time) bool {
	return t.Year() == wall.Year() && t.YearDay() == wall.YearDay() &&
		t.Hour() == wall.Hour() && t.Minute() == wall.Minute() && t.Second() == wall.Second()
}
