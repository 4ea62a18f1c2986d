package bookingform

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

const (
	DefaultStartTime = "08:00"

	successMessage  = "Booking created. The partner will confirm it shortly."
	conflictMessage = "The partner is already booked for part of that time. Pick another date or time."
	failureMessage  = "Could not create the booking. Please try again."
)

// Options wires a Form to its collaborators. Authority is required.
type Options struct {
	Authority Authority
	Navigator Navigator
	Notifier  Notifier
	Hours     *schedule.OperatingHours // defaults to schedule.Hours
	Location  *time.Location           // calendar of the date picker, defaults to time.Local
	Logger    *zap.Logger
	Now       func() time.Time
}

// Form holds one customer's booking selection for a partner and coordinates
// its submission. It is safe for concurrent use; at most one submission is in
// flight at a time.
type Form struct {
	partner   bookingclient.Partner
	authority Authority
	navigator Navigator
	notifier  Notifier
	hours     schedule.OperatingHours
	loc       *time.Location
	logger    *zap.Logger
	now       func() time.Time

	mu       sync.Mutex
	sel      Selection
	state    State
	conflict ConflictState
	closed   bool
}

func New(partner bookingclient.Partner, opts Options) (*Form, error) {
	if opts.Authority == nil {
		return nil, ErrNoAuthority
	}
	f := &Form{
		partner:   partner,
		authority: opts.Authority,
		navigator: opts.Navigator,
		notifier:  opts.Notifier,
		hours:     schedule.Hours,
		loc:       opts.Location,
		logger:    opts.Logger,
		now:       opts.Now,
		sel: Selection{
			Time:     DefaultStartTime,
			Type:     schedule.TypeHourly,
			Duration: 1,
		},
	}
	if opts.Hours != nil {
		f.hours = *opts.Hours
		f.sel.Time = schedule.Clock{Hour: f.hours.Open}.String()
	}
	if f.navigator == nil {
		f.navigator = nopNavigator{}
	}
	if f.notifier == nil {
		f.notifier = nopNotifier{}
	}
	if f.loc == nil {
		f.loc = time.Local
	}
	if f.logger == nil {
		f.logger = zap.NewNop()
	}
	if f.now == nil {
		f.now = time.Now
	}
	return f, nil
}

func (f *Form) Partner() bookingclient.Partner {
	return f.partner
}

// SetDate selects the calendar day of date. Only days after today, in the
// form's location, can be booked.
func (f *Form) SetDate(date time.Time) error {
	y, m, d := date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, f.loc)

	ny, nm, nd := f.now().In(f.loc).Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, f.loc)
	if !day.After(today) {
		return fmt.Errorf("%w: %s", ErrPastDate, day.Format(time.DateOnly))
	}

	f.mu.Lock()
	f.sel.Date = day
	f.mu.Unlock()
	return nil
}

// SetType switches the booking type and resets the duration to one unit.
func (f *Form) SetType(t schedule.BookingType) error {
	if !t.Valid() {
		return fmt.Errorf("%w: %q", schedule.ErrUnknownBookingType, t)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sel.Type = t
	f.sel.Duration = 1
	return nil
}

// SetTime selects an hourly start time and clamps the duration so the
// booking still ends by closing time.
func (f *Form) SetTime(clock string) error {
	c, err := schedule.ParseClock(clock)
	if err != nil {
		return err
	}
	if !slices.Contains(f.hours.StartTimes(schedule.TypeHourly), c) {
		return fmt.Errorf("%w: %s", ErrInvalidTime, c)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.sel.Time = c.String()
	if f.sel.Type == schedule.TypeHourly {
		f.sel.Duration = f.hours.ClampDuration(f.sel.Type, c.Hour, f.sel.Duration)
	}
	return nil
}

// SetDuration selects one of the offered durations.
func (f *Form) SetDuration(d int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !slices.Contains(f.durationsLocked(), d) {
		return fmt.Errorf("%w: %d %s(s)", ErrInvalidDuration, d, f.sel.Type.Unit())
	}
	f.sel.Duration = d
	return nil
}

func (f *Form) SetNotes(notes string) {
	f.mu.Lock()
	f.sel.Notes = notes
	f.mu.Unlock()
}

// StartTimes lists the start times offered for the selected type.
func (f *Form) StartTimes() []schedule.Clock {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hours.StartTimes(f.sel.Type)
}

// Durations lists the durations offered for the selected type and start time.
func (f *Form) Durations() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.durationsLocked()
}

func (f *Form) durationsLocked() []int {
	return f.hours.Durations(f.sel.Type, f.startHourLocked())
}

func (f *Form) startHourLocked() int {
	c, err := schedule.ParseClock(f.sel.Time)
	if err != nil {
		return -1
	}
	return c.Hour
}

// Price is the total for the current selection at the partner's rate.
func (f *Form) Price() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return schedule.Price(f.sel.Type, f.sel.Duration, f.partner.Pricing.Rate())
}

// Window previews the booking window of the current selection.
func (f *Form) Window() (schedule.Window, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.windowLocked()
}

func (f *Form) windowLocked() (schedule.Window, error) {
	if !f.sel.HasDate() {
		return schedule.Window{}, ErrDateRequired
	}
	return f.hours.Compute(f.sel.Date, f.sel.Time, f.sel.Type, f.sel.Duration)
}

// CanSubmit reports whether Submit would send a request.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *Form) canSubmitLocked() bool {
	return !f.closed &&
		f.state == StateIdle &&
		f.sel.HasDate() &&
		strings.TrimSpace(f.sel.Notes) != ""
}

// Submit sends the current selection to the authority.
//
// It does nothing and returns false when no date or notes are selected, when
// the form is not idle, or when it was closed. An invalid window is returned
// as an error without contacting the authority. Otherwise submitted is true and
// err is the authority's error, if any; its outcome has already been reported
// to the notifier.
func (f *Form) Submit(ctx context.Context) (submitted bool, err error) {
	f.mu.Lock()
	if !f.canSubmitLocked() {
		f.mu.Unlock()
		return false, nil
	}
	w, err := f.windowLocked()
	if err != nil {
		f.mu.Unlock()
		return false, err
	}
	req := bookingclient.NewCreateBookingRequest(f.partner.ID, w, strings.TrimSpace(f.sel.Notes))
	f.state = StateSubmitting
	f.mu.Unlock()

	booking, err := f.authority.CreateBooking(ctx, req)

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		f.logger.Debug("discarding booking response for closed form",
			zap.String("partner_id", f.partner.ID), zap.Error(err))
		return true, nil
	}

	switch {
	case err == nil:
		f.state = StateAccepted
		f.conflict = ConflictState{}
		f.mu.Unlock()
		f.logger.Info("booking created", zap.String("partner_id", f.partner.ID))
		f.notifier.Success(successMessage)
		f.navigator.BookingCreated(booking)
		return true, nil

	case errors.Is(err, bookingclient.ErrBookingConflict):
		f.state = StateConflicted
		f.conflict = ConflictState{IsOpen: true, Window: &w}
		f.mu.Unlock()
		f.logger.Info("booking rejected with conflict",
			zap.String("partner_id", f.partner.ID),
			zap.String("start", req.StartDatetime), zap.String("end", req.EndDatetime))
		f.notifier.Failure(conflictMessage)
		f.notifier.ConflictOpened(w)
		return true, err

	default:
		f.state = StateIdle
		f.mu.Unlock()
		f.logger.Warn("booking request failed", zap.String("partner_id", f.partner.ID), zap.Error(err))
		f.notifier.Failure(failureMessage)
		return true, err
	}
}

// Dismiss closes the conflict notice and returns the form to idle, keeping
// the selection so it can be adjusted and resubmitted. It reports whether
// there was a conflict to dismiss.
func (f *Form) Dismiss() bool {
	f.mu.Lock()
	if f.closed || f.state != StateConflicted {
		f.mu.Unlock()
		return false
	}
	f.state = StateIdle
	f.conflict = ConflictState{}
	f.mu.Unlock()
	f.notifier.ConflictClosed()
	return true
}

// Close tears the form down. A response still in flight is discarded when it
// arrives.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *Form) Conflict() ConflictState {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.conflict
	if c.Window != nil {
		w := *c.Window
		c.Window = &w
	}
	return c
}

func (f *Form) Selection() Selection {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sel
}
