package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/partner"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

type CreateRequest struct {
	CustomerID string
	PartnerID  string
	Type       schedule.BookingType
	StartTime  time.Time
	EndTime    time.Time
	Notes      string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id, customerID string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Cancel(ctx context.Context, id, customerID, reason string) (*Booking, error)
	Reschedule(ctx context.Context, req RescheduleRequest) (*Booking, error)
	UpdateStatus(ctx context.Context, id string, to Status) (*Booking, error)
	Slots(ctx context.Context, req SlotsRequest) ([]Slot, error)
}

// RescheduleRequest moves a customer's booking to a new window of the same
// type on the same partner.
type RescheduleRequest struct {
	ID         string
	CustomerID string
	StartTime  time.Time
	EndTime    time.Time
}

// SlotsRequest asks for the candidate windows of one type and duration that
// start on Date, read in the service's location.
type SlotsRequest struct {
	PartnerID string
	Date      time.Time
	Type      schedule.BookingType
	Duration  int
}

// PartnerLookup is the part of partner.Service bookings depend on.
type PartnerLookup interface {
	GetByID(ctx context.Context, id string) (*partner.Partner, error)
}

type Options struct {
	// Location is the calendar that operating hours are read in.
	Location *time.Location
	Logger   *zap.Logger
	Now      func() time.Time
}

type service struct {
	repo     Repository
	partners PartnerLookup
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo Repository, partners PartnerLookup, opts Options) Service {
	s := &service{
		repo:     repo,
		partners: partners,
		loc:      opts.Location,
		logger:   opts.Logger,
		now:      opts.Now,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	notes := strings.TrimSpace(req.Notes)
	if notes == "" {
		return nil, ErrNotesRequired
	}

	// 1. The window must be one the booking form could have produced.
	w, err := schedule.Validate(req.StartTime, req.EndTime, req.Type, s.loc)
	if err != nil {
		return nil, err
	}
	if w.Start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	// 2. Partner must exist and accept bookings.
	p, err := s.partners.GetByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, partner.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	if !p.IsAvailable {
		return nil, ErrPartnerUnavailable
	}

	// 3. Check for overlaps.
	overlap, err := s.repo.HasOverlap(ctx, p.ID, w.Start, w.End, "")
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrTimeConflict
	}

	// 4. Create with the server-side price.
	b := &Booking{
		CustomerID:  req.CustomerID,
		PartnerID:   p.ID,
		PartnerName: p.FullName,
		Type:        w.Type,
		StartTime:   w.Start.UTC(),
		EndTime:     w.End.UTC(),
		Duration:    w.Duration,
		Status:      StatusPending,
		TotalPrice:  schedule.Quote(w, p.Pricing),
		Notes:       notes,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created",
		zap.String("booking_id", b.ID),
		zap.String("partner_id", b.PartnerID),
		zap.String("type", string(b.Type)),
		zap.Int("duration", b.Duration),
		zap.Int64("total_price", b.TotalPrice),
	)
	return b, nil
}

// GetByID returns the booking when it belongs to customerID. Other
// customers' bookings are reported as not found.
func (s *service) GetByID(ctx context.Context, id, customerID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.CustomerID != customerID {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Cancel(ctx context.Context, id, customerID, reason string) (*Booking, error) {
	b, err := s.GetByID(ctx, id, customerID)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusPending {
		return nil, ErrNotCancellable
	}

	reason = strings.TrimSpace(reason)
	if err := s.repo.Cancel(ctx, id, reason); err != nil {
		return nil, err
	}

	s.logger.Info("booking cancelled", zap.String("booking_id", id))
	return s.repo.GetByID(ctx, id)
}

// Reschedule replaces an active booking with a pending one at the new
// window. The old booking is cancelled with RescheduledReason and the new
// one points back at it through OriginalBookingID. The old booking's own
// span does not count as an overlap.
func (s *service) Reschedule(ctx context.Context, req RescheduleRequest) (*Booking, error) {
	old, err := s.GetByID(ctx, req.ID, req.CustomerID)
	if err != nil {
		return nil, err
	}
	if !old.Status.Active() {
		return nil, ErrNotReschedulable
	}

	w, err := schedule.Validate(req.StartTime, req.EndTime, old.Type, s.loc)
	if err != nil {
		return nil, err
	}
	if w.Start.Before(s.now()) {
		return nil, ErrStartTimePast
	}

	p, err := s.partners.GetByID(ctx, old.PartnerID)
	if err != nil {
		if errors.Is(err, partner.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}
	if !p.IsAvailable {
		return nil, ErrPartnerUnavailable
	}

	overlap, err := s.repo.HasOverlap(ctx, p.ID, w.Start, w.End, old.ID)
	if err != nil {
		return nil, err
	}
	if overlap {
		return nil, ErrTimeConflict
	}

	b := &Booking{
		CustomerID:        old.CustomerID,
		PartnerID:         p.ID,
		PartnerName:       p.FullName,
		Type:              w.Type,
		StartTime:         w.Start.UTC(),
		EndTime:           w.End.UTC(),
		Duration:          w.Duration,
		Status:            StatusPending,
		TotalPrice:        schedule.Quote(w, p.Pricing),
		Notes:             old.Notes,
		OriginalBookingID: &old.ID,
	}
	if err := s.repo.Reschedule(ctx, old.ID, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking rescheduled",
		zap.String("booking_id", b.ID),
		zap.String("original_booking_id", old.ID),
		zap.Time("start", b.StartTime),
		zap.Int64("total_price", b.TotalPrice),
	)
	return b, nil
}

// UpdateStatus is the partner-side status change: pending bookings are
// confirmed, confirmed ones completed, and either may be cancelled.
func (s *service) UpdateStatus(ctx context.Context, id string, to Status) (*Booking, error) {
	if !to.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !b.Status.CanBecome(to) {
		return nil, ErrInvalidTransition
	}
	if err := s.repo.UpdateStatus(ctx, id, b.Status, to); err != nil {
		return nil, err
	}

	s.logger.Info("booking status updated",
		zap.String("booking_id", id),
		zap.String("from", string(b.Status)),
		zap.String("to", string(to)),
	)
	return s.repo.GetByID(ctx, id)
}

// Slots lists every window of req.Type and req.Duration starting on
// req.Date. Hourly bookings yield one slot per start time that still ends
// by closing; daily and monthly bookings yield a single slot. A slot is
// available when it starts in the future, the partner accepts bookings and
// no active booking overlaps it.
func (s *service) Slots(ctx context.Context, req SlotsRequest) ([]Slot, error) {
	if !req.Type.Valid() {
		return nil, fmt.Errorf("%w: %q", schedule.ErrUnknownBookingType, req.Type)
	}
	maxD := schedule.Hours.MaxDuration(req.Type, schedule.Hours.Open)
	if req.Duration < 1 || req.Duration > maxD {
		return nil, fmt.Errorf("%w: duration %d is out of range 1..%d", schedule.ErrInvalidWindow, req.Duration, maxD)
	}

	p, err := s.partners.GetByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, partner.ErrNotFound) {
			return nil, ErrPartnerNotFound
		}
		return nil, err
	}

	y, m, d := req.Date.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, s.loc)

	clocks := []string{""}
	if req.Type == schedule.TypeHourly {
		clocks = clocks[:0]
		for _, c := range schedule.StartTimes(req.Type) {
			clocks = append(clocks, c.String())
		}
	}

	var windows []schedule.Window
	for _, clock := range clocks {
		w, err := schedule.Compute(day, clock, req.Type, req.Duration)
		if err != nil {
			// Hourly starts too late to fit the duration before closing.
			continue
		}
		windows = append(windows, w)
	}
	if len(windows) == 0 {
		return []Slot{}, nil
	}

	busy, err := s.repo.BusyRanges(ctx, p.ID, windows[0].Start, windows[len(windows)-1].End)
	if err != nil {
		return nil, err
	}

	now := s.now()
	slots := make([]Slot, 0, len(windows))
	for _, w := range windows {
		slots = append(slots, Slot{
			Start:     w.Start,
			End:       w.End,
			Available: p.IsAvailable && w.Start.After(now) && !overlapsAny(busy, w.Start, w.End),
		})
	}
	return slots, nil
}

func overlapsAny(ranges []TimeRange, start, end time.Time) bool {
	for _, r := range ranges {
		if start.Before(r.End) && end.After(r.Start) {
			return true
		}
	}
	return false
}
