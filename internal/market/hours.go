// Package market answers whether the US equity market is currently open.
package market

import (
	"fmt"
	"time"
)

// marketTimezone is the NYSE/NASDAQ trading timezone.
const marketTimezone = "America/New_York"

// Trading session bounds, minutes from midnight ET.
const (
	openMinute  = 9*60 + 30
	closeMinute = 16 * 60
)

// holidays are the full-day US market closures covered by the calendar.
var holidays = map[string]string{
	"2025-09-01": "Labor Day",
	"2025-11-27": "Thanksgiving",
	"2025-12-25": "Christmas",
	"2026-01-01": "New Year's Day",
	"2026-01-19": "Martin Luther King Jr. Day",
	"2026-02-16": "Presidents' Day",
	"2026-04-03": "Good Friday",
	"2026-05-25": "Memorial Day",
	"2026-06-19": "Juneteenth",
	"2026-07-03": "Independence Day (observed)",
	"2026-09-07": "Labor Day",
	"2026-11-26": "Thanksgiving",
	"2026-12-25": "Christmas",
}

// Clock reports market state for a point in time.
type Clock struct {
	location *time.Location
}

// NewClock loads the market timezone.
func NewClock() (*Clock, error) {
	location, err := time.LoadLocation(marketTimezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load market timezone: %w", err)
	}
	return &Clock{location: location}, nil
}

// IsOpen reports whether the market is open right now.
func (c *Clock) IsOpen() (bool, string) {
	return c.IsOpenAt(time.Now())
}

// IsOpenAt reports whether the market is open at the given instant, with a
// human-readable reason. Weekends, the holiday calendar, and the
// 9:30-16:00 ET session are checked in that order.
func (c *Clock) IsOpenAt(at time.Time) (bool, string) {
	et := at.In(c.location)

	if wd := et.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false, fmt.Sprintf("Weekend (%s)", wd)
	}

	dateKey := et.Format("2006-01-02")
	if name, ok := holidays[dateKey]; ok {
		return false, fmt.Sprintf("Market holiday: %s (%s)", dateKey, name)
	}

	minute := et.Hour()*60 + et.Minute()
	if minute < openMinute || minute > closeMinute {
		return false, fmt.Sprintf("Outside market hours: %s ET (market: 9:30-16:00)", et.Format("15:04"))
	}

	return true, fmt.Sprintf("Market open: %s ET", et.Format("15:04"))
}
