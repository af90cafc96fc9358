package appointment

import (
	"time"

	"github.com/BruksfildServices01/binda/internal/httperr"
	"github.com/BruksfildServices01/binda/internal/models"
	"github.com/BruksfildServices01/binda/internal/timezone"
)

// WindowsForDate materialises a staff member's working-hour rows into
// concrete instants for the calendar day of date in tz. Date rows for that
// day replace the weekday rows; a closed date row closes the whole day.
func WindowsForDate(rows []models.StaffWorkingHours, date time.Time, tz string) []Interval {
	day := date.In(timezone.Location(tz))
	key := day.Format("2006-01-02")

	var dated, weekly []models.StaffWorkingHours
	for _, r := range rows {
		switch {
		case r.Date != nil:
			if *r.Date == key {
				dated = append(dated, r)
			}
		case r.Weekday != nil && *r.Weekday == int(day.Weekday()):
			weekly = append(weekly, r)
		}
	}

	pick := weekly
	if len(dated) > 0 {
		pick = dated
		for _, r := range dated {
			if r.IsClosed {
				return nil
			}
		}
	}

	var out []Interval
	for _, r := range pick {
		if r.IsClosed {
			continue
		}
		open, err := timezone.ParseTimeOnDate(r.OpenTime, day, tz)
		if err != nil {
			continue
		}
		closeAt, err := timezone.ParseTimeOnDate(r.CloseTime, day, tz)
		if err != nil || !closeAt.After(open) {
			continue
		}
		out = append(out, Interval{Start: open, End: closeAt})
	}
	return MergeWindows(out)
}

// ValidateWorkingHours rejects rows that could never produce a window.
func ValidateWorkingHours(rows []models.StaffWorkingHours) error {
	for _, r := range rows {
		if (r.Weekday == nil) == (r.Date == nil) {
			return httperr.ErrBusiness("weekday_or_date_required")
		}
		if r.Weekday != nil && (*r.Weekday < 0 || *r.Weekday > 6) {
			return httperr.ErrBusiness("invalid_weekday")
		}
		if r.Date != nil {
			if _, err := time.Parse("2006-01-02", *r.Date); err != nil {
				return httperr.ErrBusiness("invalid_date")
			}
		}
		if r.IsClosed {
			continue
		}
		oh, om, err := timezone.ParseClock(r.OpenTime)
		if err != nil || oh == 24 {
			return httperr.ErrBusiness("invalid_open_time")
		}
		ch, cm, err := timezone.ParseClock(r.CloseTime)
		if err != nil {
			return httperr.ErrBusiness("invalid_close_time")
		}
		if ch*60+cm <= oh*60+om {
			return httperr.ErrBusiness("close_before_open")
		}
	}
	return nil
}
