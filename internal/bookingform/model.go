package bookingform

import (
	"context"
	"errors"
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var (
	ErrNoAuthority     = errors.New("booking form needs an authority")
	ErrPastDate        = errors.New("date must be after today")
	ErrDateRequired    = errors.New("date is required")
	ErrInvalidTime     = errors.New("start time is not available")
	ErrInvalidDuration = errors.New("duration is not available")
)

// State is the submission state of a Form.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateAccepted
	StateConflicted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateAccepted:
		return "accepted"
	case StateConflicted:
		return "conflicted"
	}
	return "unknown"
}

// Authority accepts or rejects booking requests. A rejection because the
// window overlaps an existing booking must match bookingclient.ErrBookingConflict.
type Authority interface {
	CreateBooking(ctx context.Context, req bookingclient.CreateBookingRequest) (*bookingclient.Booking, error)
}

// Navigator is told when a booking was created so it can leave the form.
type Navigator interface {
	BookingCreated(b *bookingclient.Booking)
}

// Notifier displays acknowledgments and the conflict notice.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
	ConflictOpened(w schedule.Window)
	ConflictClosed()
}

// ConflictState describes the conflict notice. Window is the rejected window
// while the notice is open.
type ConflictState struct {
	IsOpen bool
	Window *schedule.Window
}

// Selection is what the customer has picked so far. Date is the zero time
// until a date is chosen.
type Selection struct {
	Date     time.Time
	Time     string
	Type     schedule.BookingType
	Duration int
	Notes    string
}

// HasDate reports whether a date was selected.
func (s Selection) HasDate() bool {
	return !s.Date.IsZero()
}

type nopNavigator struct{}

func (nopNavigator) BookingCreated(*bookingclient.Booking) {}

type nopNotifier struct{}

func (nopNotifier) Success(string)                 {}
func (nopNotifier) Failure(string)                 {}
func (nopNotifier) ConflictOpened(schedule.Window) {}
func (nopNotifier) ConflictClosed()                {}
