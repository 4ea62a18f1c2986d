package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

// selectionFlags are the booking inputs shared by quote and book.
type selectionFlags struct {
	partner     string
	date        string
	startTime   string
	bookingType string
	duration    int
	notes       string
}

type selection struct {
	partnerID   string
	date        time.Time
	time        string
	bookingType schedule.BookingType
	duration    int
	notes       string
}

func (f *selectionFlags) register(c *cobra.Command, withNotes bool) {
	c.Flags().StringVar(&f.partner, "partner", "", "partner ID (required)")
	c.Flags().StringVar(&f.date, "date", "", "booking date, YYYY-MM-DD (required)")
	c.Flags().StringVar(&f.startTime, "time", "08:00", "hourly start time (HH:MM)")
	c.Flags().StringVar(&f.bookingType, "type", string(schedule.TypeHourly), "booking type: hourly, daily or monthly")
	c.Flags().IntVar(&f.duration, "duration", 1, "number of hours, days or months")
	_ = c.MarkFlagRequired("partner")
	_ = c.MarkFlagRequired("date")
	if withNotes {
		c.Flags().StringVar(&f.notes, "notes", "", "instructions for the partner (required)")
		_ = c.MarkFlagRequired("notes")
	}
}

func (f *selectionFlags) parse(env *Env) (selection, error) {
	id, err := parsePartnerID(f.partner)
	if err != nil {
		return selection{}, err
	}
	t, err := schedule.ParseBookingType(f.bookingType)
	if err != nil {
		return selection{}, err
	}
	date, err := parseDate(f.date, env.Location)
	if err != nil {
		return selection{}, err
	}
	return selection{
		partnerID:   id,
		date:        date,
		time:        strings.TrimSpace(f.startTime),
		bookingType: t,
		duration:    f.duration,
		notes:       f.notes,
	}, nil
}
