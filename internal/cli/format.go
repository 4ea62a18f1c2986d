package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var rupiah = message.NewPrinter(language.Indonesian)

// formatRupiah renders an amount in whole rupiah with Indonesian digit grouping.
func formatRupiah(amount int64) string {
	return rupiah.Sprintf("Rp%d", amount)
}

func formatWindow(w schedule.Window, loc *time.Location) string {
	const layout = "Mon 02 Jan 2006 15:04"
	return fmt.Sprintf("%s to %s (%s)", w.Start.In(loc).Format(layout), w.End.In(loc).Format(layout), loc)
}

func formatDuration(t schedule.BookingType, d int) string {
	unit := t.Unit()
	if d != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", d, unit)
}

func parsePartnerID(s string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid --partner %q: must be a UUID", s)
	}
	return id.String(), nil
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(s), loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD)", s)
	}
	return d, nil
}
