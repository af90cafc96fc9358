package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToUTC(t *testing.T) {
	cases := []struct {
		name  string
		local string
		tz    string
		want  string
	}{
		{"lagos", "2024-06-10T10:00:00", "Africa/Lagos", "2024-06-10T09:00:00Z"},
		{"space separated", "2024-06-10 10:00", "Africa/Lagos", "2024-06-10T09:00:00Z"},
		{"new york summer", "2024-07-01T09:30", "America/New_York", "2024-07-01T13:30:00Z"},
		{"malformed", "10/06/2024 10:00", "Africa/Lagos", ""},
		{"empty", "", "Africa/Lagos", ""},
		{"unknown zone", "2024-06-10T10:00:00", "Mars/Olympus", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ToUTC(tc.local, tc.tz))
		})
	}
}

func TestRoundTrip(t *testing.T) {
	zones := []string{"Africa/Lagos", "America/New_York", "Asia/Kolkata", "Australia/Lord_Howe"}
	locals := []string{"2024-01-15T08:00:00", "2024-06-10T23:45:00", "2024-12-31T00:00:00"}

	for _, tz := range zones {
		for _, x := range locals {
			first := ToUTC(x, tz)
			require.NotEmpty(t, first, "%s %s", tz, x)

			instant, err := time.Parse(time.RFC3339, first)
			require.NoError(t, err)

			again := ToUTC(ToTenantTime(instant, tz).Format("2006-01-02T15:04:05"), tz)
			assert.Equal(t, first, again, "%s %s", tz, x)
		}
	}
}

func TestResolve_DSTEdges(t *testing.T) {
	// 2024-03-10 02:30 never happened in New York
	_, err := Resolve("2024-03-10T02:30:00", "America/New_York")
	assert.ErrorIs(t, err, ErrNonexistentLocalTime)

	// 2024-11-03 01:30 happened twice
	_, err = Resolve("2024-11-03T01:30:00", "America/New_York")
	assert.ErrorIs(t, err, ErrAmbiguousLocalTime)

	got, err := Resolve("2024-11-03T03:30:00", "America/New_York")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 11, 3, 8, 30, 0, 0, time.UTC), got)

	_, err = Resolve("2024-06-10T10:00:00", "Nowhere/Land")
	assert.ErrorIs(t, err, ErrUnknownZone)

	_, err = Resolve("not a time", "Africa/Lagos")
	assert.ErrorIs(t, err, ErrInvalidLocalTime)
}

func TestParseTimeOnDate(t *testing.T) {
	date, err := ParseDate("2024-06-10", "Africa/Lagos")
	require.NoError(t, err)

	open, err := ParseTimeOnDate("09:00", date, "Africa/Lagos")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC), open.UTC())

	end, err := ParseTimeOnDate("24:00", date, "Africa/Lagos")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 6, 10, 23, 0, 0, 0, time.UTC), end.UTC())

	_, err = ParseTimeOnDate("9am", date, "Africa/Lagos")
	assert.ErrorIs(t, err, ErrInvalidLocalTime)
}

func TestLocation_FallsBack(t *testing.T) {
	assert.Equal(t, DefaultTimezone, Location("").String())
	assert.Equal(t, DefaultTimezone, Location("Bogus/Zone").String())
	assert.Equal(t, "Asia/Tokyo", Location("Asia/Tokyo").String())
	assert.False(t, IsValid(""))
	assert.True(t, IsValid("UTC"))
}
