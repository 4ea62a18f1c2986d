package booking

import (
	"net/http"
	"slices"
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/apperror"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

// ConflictReason is the machine-readable code sent with ErrTimeConflict.
// Booking clients rely on it to tell an overlap apart from other failures.
const ConflictReason = "booking_conflict"

var (
	ErrNotFound           = apperror.New(http.StatusNotFound, "booking not found")
	ErrTimeConflict       = apperror.NewWithReason(http.StatusConflict, ConflictReason, "time slot already booked")
	ErrStartTimePast      = apperror.New(http.StatusBadRequest, "cannot create booking in the past")
	ErrNotesRequired      = apperror.New(http.StatusBadRequest, "notes are required")
	ErrPartnerNotFound    = apperror.New(http.StatusNotFound, "partner not found")
	ErrPartnerUnavailable = apperror.New(http.StatusUnprocessableEntity, "partner is not accepting bookings")
	ErrNotCancellable     = apperror.New(http.StatusConflict, "only pending bookings can be cancelled")
	ErrNotReschedulable   = apperror.New(http.StatusConflict, "only pending or confirmed bookings can be rescheduled")
	ErrInvalidTransition  = apperror.New(http.StatusConflict, "booking cannot move to that status")
	ErrInvalidStatus      = apperror.New(http.StatusBadRequest, "unknown booking status")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// RescheduledReason is recorded on a booking replaced by a reschedule.
const RescheduledReason = "rescheduled"

// activeStatuses are the statuses that hold a partner's time.
var activeStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// transitions lists where each status may move through UpdateStatus.
// Cancelled and completed are final.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// Active reports whether the status still holds the partner's time.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

func (s Status) CanBecome(to Status) bool {
	return slices.Contains(transitions[s], to)
}

type Booking struct {
	ID                 string
	CustomerID         string
	PartnerID          string
	PartnerName        string
	Type               schedule.BookingType
	StartTime          time.Time
	EndTime            time.Time
	Duration           int
	Status             Status
	TotalPrice         int64
	Notes              string
	CancellationReason *string
	OriginalBookingID  *string // set on the booking a reschedule creates
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// TimeRange is a [Start, End) span held by an active booking.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Slot is a candidate window on a partner's calendar.
type Slot struct {
	Start     time.Time
	End       time.Time
	Available bool
}

type Filter struct {
	CustomerID string
	PartnerID  string
	Status     Status
	Page       int
	PageSize   int
	SortBy     string // start_datetime or created_at
	SortOrder  string
}
