package appointment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
)

func weekdayRow(wd int, open, close string) models.StaffWorkingHours {
	return models.StaffWorkingHours{Weekday: &wd, OpenTime: open, CloseTime: close}
}

func dateRow(date, open, close string, closed bool) models.StaffWorkingHours {
	return models.StaffWorkingHours{Date: &date, OpenTime: open, CloseTime: close, IsClosed: closed}
}

func TestWindowsForDate_Weekday(t *testing.T) {
	loc := lagos(t)
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)

	rows := []models.StaffWorkingHours{
		weekdayRow(1, "09:00", "12:00"),
		weekdayRow(1, "13:00", "17:00"),
		weekdayRow(2, "08:00", "18:00"),
	}

	windows := WindowsForDate(rows, monday, "Africa/Lagos")

	require.Len(t, windows, 2)
	assert.Equal(t, time.Date(2024, 6, 10, 8, 0, 0, 0, time.UTC), windows[0].Start.UTC())
	assert.Equal(t, time.Date(2024, 6, 10, 16, 0, 0, 0, time.UTC), windows[1].End.UTC())
}

func TestWindowsForDate_DateOverride(t *testing.T) {
	loc := lagos(t)
	monday := time.Date(2024, 6, 10, 0, 0, 0, 0, loc)
	base := []models.StaffWorkingHours{weekdayRow(1, "09:00", "17:00")}

	shortened := append(base, dateRow("2024-06-10", "10:00", "24:00", false))
	windows := WindowsForDate(shortened, monday, "Africa/Lagos")
	require.Len(t, windows, 1)
	assert.Equal(t, 10, windows[0].Start.In(loc).Hour())
	assert.Equal(t, time.Date(2024, 6, 11, 0, 0, 0, 0, loc), windows[0].End.In(loc))

	closed := append(base, dateRow("2024-06-10", "", "", true))
	assert.Empty(t, WindowsForDate(closed, monday, "Africa/Lagos"))

	otherDay := append(base, dateRow("2024-06-11", "", "", true))
	assert.Len(t, WindowsForDate(otherDay, monday, "Africa/Lagos"), 1)
}

func TestWindowsForDate_DSTDay(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	springForward := time.Date(2024, 3, 10, 0, 0, 0, 0, ny)

	windows := WindowsForDate([]models.StaffWorkingHours{weekdayRow(0, "09:00", "17:00")}, springForward, "America/New_York")

	require.Len(t, windows, 1)
	// EDT is UTC-4 after the jump
	assert.Equal(t, time.Date(2024, 3, 10, 13, 0, 0, 0, time.UTC), windows[0].Start.UTC())
}

func TestValidateWorkingHours(t *testing.T) {
	wd := 3
	date := "2024-06-10"

	assert.NoError(t, ValidateWorkingHours([]models.StaffWorkingHours{
		weekdayRow(3, "09:00", "24:00"),
		dateRow(date, "", "", true),
	}))

	bad := []struct {
		row  models.StaffWorkingHours
		code string
	}{
		{models.StaffWorkingHours{OpenTime: "09:00", CloseTime: "10:00"}, "weekday_or_date_required"},
		{models.StaffWorkingHours{Weekday: &wd, Date: &date}, "weekday_or_date_required"},
		{weekdayRow(7, "09:00", "10:00"), "invalid_weekday"},
		{dateRow("10/06/2024", "09:00", "10:00", false), "invalid_date"},
		{weekdayRow(3, "9am", "10:00"), "invalid_open_time"},
		{weekdayRow(3, "09:00", "late"), "invalid_close_time"},
		{weekdayRow(3, "17:00", "09:00"), "close_before_open"},
	}
	for _, tc := range bad {
		err := ValidateWorkingHours([]models.StaffWorkingHours{tc.row})
		assert.True(t, httperr.IsBusiness(err, tc.code), "want %s got %v", tc.code, err)
	}
}
