package bookingclient

import (
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

// CreateBookingRequest is the body of POST /bookings.
type CreateBookingRequest struct {
	PartnerID     string               `json:"partner_id"`
	Type          schedule.BookingType `json:"type"`
	StartDatetime string               `json:"start_datetime"`
	EndDatetime   string               `json:"end_datetime"`
	Notes         string               `json:"notes"`
}

// NewCreateBookingRequest builds the wire request for a computed window.
func NewCreateBookingRequest(partnerID string, w schedule.Window, notes string) CreateBookingRequest {
	return CreateBookingRequest{
		PartnerID:     partnerID,
		Type:          w.Type,
		StartDatetime: w.WireStart(),
		EndDatetime:   w.WireEnd(),
		Notes:         notes,
	}
}

// Booking is the booking record returned by the availability authority.
type Booking struct {
	ID            string               `json:"id"`
	PartnerID     string               `json:"partner_id"`
	Type          schedule.BookingType `json:"type"`
	StartDatetime time.Time            `json:"start_datetime"`
	EndDatetime   time.Time            `json:"end_datetime"`
	Status        string               `json:"status"`
	TotalPrice    int64                `json:"total_price"`
	Notes         string               `json:"notes"`
}

// Slot is one candidate window from the partner's slot listing.
type Slot struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Available     bool      `json:"available"`
}

// Pricing mirrors the partner record's rate block.
type Pricing struct {
	HourlyRate  int64 `json:"hourly_rate"`
	DailyRate   int64 `json:"daily_rate"`
	MonthlyRate int64 `json:"monthly_rate"`
}

func (p Pricing) Rate() schedule.Rate {
	return schedule.Rate{Hourly: p.HourlyRate, Daily: p.DailyRate, Monthly: p.MonthlyRate}
}

// Partner is the subset of the partner record the booking form reads.
type Partner struct {
	ID          string  `json:"id"`
	FullName    string  `json:"full_name"`
	Pricing     Pricing `json:"pricing"`
	IsAvailable bool    `json:"is_available"`
}
