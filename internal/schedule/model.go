package schedule

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/apperror"
)

var (
	ErrInvalidWindow      = apperror.New(http.StatusBadRequest, "booking window is outside operating hours")
	ErrUnknownBookingType = apperror.New(http.StatusBadRequest, "unknown booking type")
	ErrInvalidClock       = apperror.New(http.StatusBadRequest, "start time must be formatted as HH:MM")
)

// BookingType selects the unit of a booking's duration and the rate applied to it.
type BookingType string

const (
	TypeHourly  BookingType = "hourly"
	TypeDaily   BookingType = "daily"
	TypeMonthly BookingType = "monthly"
)

// Types lists every booking type in display order.
func Types() []BookingType {
	return []BookingType{TypeHourly, TypeDaily, TypeMonthly}
}

func (t BookingType) Valid() bool {
	switch t {
	case TypeHourly, TypeDaily, TypeMonthly:
		return true
	}
	return false
}

// Unit is the singular name of one duration step ("hour", "day", "month").
func (t BookingType) Unit() string {
	switch t {
	case TypeHourly:
		return "hour"
	case TypeDaily:
		return "day"
	case TypeMonthly:
		return "month"
	}
	return ""
}

// ParseBookingType accepts the wire values case-insensitively.
func ParseBookingType(s string) (BookingType, error) {
	t := BookingType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownBookingType, s)
	}
	return t, nil
}

// Duration caps per booking type.
const (
	MaxHourlyDuration  = 6
	MaxDailyDuration   = 7
	MaxMonthlyDuration = 12
)

// OperatingHours is the daily bookable range, in whole local hours: [Open, Close).
type OperatingHours struct {
	Open  int
	Close int
}

// Hours is the operating range every booking must fall within: 08:00 to 20:00, every day.
var Hours = OperatingHours{Open: 8, Close: 20}

// Clock is a wall-clock time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses "HH:MM" (seconds, when present, must be zero).
func ParseClock(s string) (Clock, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	if len(parts) == 3 && parts[2] != "00" {
		return Clock{}, fmt.Errorf("%w: %q", ErrInvalidClock, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// Window is a computed booking: the reserved [Start, End) range plus the
// type and duration it was derived from.
type Window struct {
	Start    time.Time
	End      time.Time
	Type     BookingType
	Duration int
}

// WireStart formats Start as UTC RFC 3339, the format the availability authority expects.
func (w Window) WireStart() string {
	return w.Start.UTC().Format(time.RFC3339)
}

// WireEnd formats End as UTC RFC 3339.
func (w Window) WireEnd() string {
	return w.End.UTC().Format(time.RFC3339)
}

// Rate is a partner's price per booking unit, in the currency's minor units.
type Rate struct {
	Hourly  int64
	Daily   int64
	Monthly int64
}

// For returns the rate that applies to t.
func (r Rate) For(t BookingType) int64 {
	switch t {
	case TypeHourly:
		return r.Hourly
	case TypeDaily:
		return r.Daily
	case TypeMonthly:
		return r.Monthly
	}
	return 0
}
