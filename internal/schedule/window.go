package schedule

import (
	"fmt"
	"time"
)

// Compute turns a chosen calendar date, start clock, type and duration into a
// booking window in date's location. clock is only read for hourly bookings.
//
// The caller's option lists normally keep the inputs legal, but Compute
// re-checks everything since selections can be combined out of order.
func (h OperatingHours) Compute(date time.Time, clock string, t BookingType, duration int) (Window, error) {
	if !t.Valid() {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownBookingType, t)
	}

	y, m, d := date.Date()
	loc := date.Location()

	switch t {
	case TypeHourly:
		c, err := ParseClock(clock)
		if err != nil {
			return Window{}, fmt.Errorf("%w: %w", ErrInvalidWindow, err)
		}
		if c.Minute != 0 || c.Hour < h.Open || c.Hour >= h.Close {
			return Window{}, fmt.Errorf("%w: start %s is not a bookable start time", ErrInvalidWindow, c)
		}
		if duration < 1 || duration > MaxHourlyDuration {
			return Window{}, fmt.Errorf("%w: %d hours is out of range 1..%d", ErrInvalidWindow, duration, MaxHourlyDuration)
		}
		start := time.Date(y, m, d, c.Hour, 0, 0, 0, loc)
		end := start.Add(time.Duration(duration) * time.Hour)
		closing := time.Date(y, m, d, h.Close, 0, 0, 0, loc)
		if end.After(closing) {
			return Window{}, fmt.Errorf("%w: %d hours from %s ends after %02d:00", ErrInvalidWindow, duration, c, h.Close)
		}
		return Window{Start: start, End: end, Type: t, Duration: duration}, nil

	case TypeDaily:
		if duration < 1 || duration > MaxDailyDuration {
			return Window{}, fmt.Errorf("%w: %d days is out of range 1..%d", ErrInvalidWindow, duration, MaxDailyDuration)
		}
		start := time.Date(y, m, d, h.Open, 0, 0, 0, loc)
		// A one-day booking ends on its start day.
		end := time.Date(y, m, d+duration-1, h.Close, 0, 0, 0, loc)
		return Window{Start: start, End: end, Type: t, Duration: duration}, nil

	default:
		if duration < 1 || duration > MaxMonthlyDuration {
			return Window{}, fmt.Errorf("%w: %d months is out of range 1..%d", ErrInvalidWindow, duration, MaxMonthlyDuration)
		}
		start := time.Date(y, m, d, h.Open, 0, 0, 0, loc)
		ey, em, ed := addMonths(y, m, d, duration)
		end := time.Date(ey, em, ed, h.Close, 0, 0, 0, loc)
		return Window{Start: start, End: end, Type: t, Duration: duration}, nil
	}
}

// Validate checks that [start, end) is exactly a window Compute would produce
// for type t when the dates are read in loc, and returns that window.
func (h OperatingHours) Validate(start, end time.Time, t BookingType, loc *time.Location) (Window, error) {
	if !t.Valid() {
		return Window{}, fmt.Errorf("%w: %q", ErrUnknownBookingType, t)
	}
	if !end.After(start) {
		return Window{}, fmt.Errorf("%w: end must be after start", ErrInvalidWindow)
	}

	ls, le := start.In(loc), end.In(loc)

	var (
		clock    string
		duration int
	)
	switch t {
	case TypeHourly:
		span := le.Sub(ls)
		if span%time.Hour != 0 {
			return Window{}, fmt.Errorf("%w: hourly bookings must span whole hours", ErrInvalidWindow)
		}
		clock = Clock{Hour: ls.Hour(), Minute: ls.Minute()}.String()
		duration = int(span / time.Hour)
	case TypeDaily:
		duration = daysBetween(ls, le) + 1
	case TypeMonthly:
		sy, sm, _ := ls.Date()
		ey, em, _ := le.Date()
		duration = (ey-sy)*12 + int(em-sm)
	}

	w, err := h.Compute(ls, clock, t, duration)
	if err != nil {
		return Window{}, err
	}
	if !w.Start.Equal(start) || !w.End.Equal(end) {
		return Window{}, fmt.Errorf("%w: expected %s..%s for a %d %s booking", ErrInvalidWindow,
			w.WireStart(), w.WireEnd(), duration, t.Unit())
	}
	return w, nil
}

// Compute is Hours.Compute.
func Compute(date time.Time, clock string, t BookingType, duration int) (Window, error) {
	return Hours.Compute(date, clock, t, duration)
}

// Validate is Hours.Validate.
func Validate(start, end time.Time, t BookingType, loc *time.Location) (Window, error) {
	return Hours.Validate(start, end, t, loc)
}

// addMonths moves (y, m, d) n calendar months forward, clamping the day to
// the last day of the target month (Jan 31 + 1 month is Feb 28/29).
func addMonths(y int, m time.Month, d, n int) (int, time.Month, int) {
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1).Day()
	return first.Year(), first.Month(), min(d, last)
}

// daysBetween counts calendar days from a's date to b's date.
func daysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	da := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	db := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(db.Sub(da).Hours() / 24)
}
