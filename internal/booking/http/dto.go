package http

import (
	"time"

	"github.com/nekogravitycat/partner-booking-backend/internal/booking"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/request"
)

// ListBookingsRequest defines query parameters for listing the caller's bookings.
type ListBookingsRequest struct {
	request.ListParams
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=pending confirmed cancelled completed"`
	SortBy    string `form:"sort_by" binding:"omitempty,oneof=start_datetime created_at"`
}

// CreateBookingRequest is the body of POST /bookings. Timestamps are RFC 3339.
type CreateBookingRequest struct {
	PartnerID     string    `json:"partner_id" binding:"required,uuid"`
	Type          string    `json:"type" binding:"required,booking_type"`
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time `json:"end_datetime" binding:"required"`
	Notes         string    `json:"notes" binding:"required,max=2000"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// RescheduleBookingRequest is the body of POST /bookings/:id/reschedule. The
// booking keeps its type, so the new window must be one of that type.
type RescheduleBookingRequest struct {
	StartDatetime time.Time `json:"start_datetime" binding:"required"`
	EndDatetime   time.Time `json:"end_datetime" binding:"required"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// SlotsQuery defines query parameters for GET /partners/:id/slots.
type SlotsQuery struct {
	Date     string `form:"date" binding:"required,datetime=2006-01-02"`
	Type     string `form:"type" binding:"required,booking_type"`
	Duration int    `form:"duration" binding:"required,min=1"`
}

type SlotResponse struct {
	StartDatetime time.Time `json:"start_datetime"`
	EndDatetime   time.Time `json:"end_datetime"`
	Available     bool      `json:"available"`
}

func NewSlotResponse(s booking.Slot) SlotResponse {
	return SlotResponse{
		StartDatetime: s.Start.UTC(),
		EndDatetime:   s.End.UTC(),
		Available:     s.Available,
	}
}

type PartnerTag struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

type BookingResponse struct {
	ID                 string     `json:"id"`
	CustomerID         string     `json:"customer_id"`
	PartnerID          string     `json:"partner_id"`
	Partner            PartnerTag `json:"partner"`
	Type               string     `json:"type"`
	StartDatetime      time.Time  `json:"start_datetime"`
	EndDatetime        time.Time  `json:"end_datetime"`
	Duration           int        `json:"duration"`
	Status             string     `json:"status"`
	TotalPrice         int64      `json:"total_price"`
	Notes              string     `json:"notes"`
	CancellationReason *string    `json:"cancellation_reason"`
	OriginalBookingID  *string    `json:"original_booking_id"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:                 b.ID,
		CustomerID:         b.CustomerID,
		PartnerID:          b.PartnerID,
		Partner:            PartnerTag{ID: b.PartnerID, FullName: b.PartnerName},
		Type:               string(b.Type),
		StartDatetime:      b.StartTime.UTC(),
		EndDatetime:        b.EndTime.UTC(),
		Duration:           b.Duration,
		Status:             string(b.Status),
		TotalPrice:         b.TotalPrice,
		Notes:              b.Notes,
		CancellationReason: b.CancellationReason,
		OriginalBookingID:  b.OriginalBookingID,
		CreatedAt:          b.CreatedAt,
		UpdatedAt:          b.UpdatedAt,
	}
}
