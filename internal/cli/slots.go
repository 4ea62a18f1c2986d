package cli

import (
	"github.com/spf13/cobra"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

func newSlotsCmd(env *Env) *cobra.Command {
	var (
		partner     string
		date        string
		bookingType string
		duration    int
	)

	c := &cobra.Command{
		Use:   "slots",
		Short: "Show which windows on a day a partner can still take",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePartnerID(partner)
			if err != nil {
				return err
			}
			t, err := schedule.ParseBookingType(bookingType)
			if err != nil {
				return err
			}
			day, err := parseDate(date, env.Location)
			if err != nil {
				return err
			}

			slots, err := env.API.GetSlots(cmd.Context(), id, day, t, duration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(slots) == 0 {
				printf(out, "no slots for %s on %s\n", formatDuration(t, duration), date)
				return nil
			}
			for _, s := range slots {
				state := "booked"
				if s.Available {
					state = "open"
				}
				w := schedule.Window{Start: s.StartDatetime, End: s.EndDatetime}
				printf(out, "%s  %s\n", formatWindow(w, env.Location), state)
			}
			return nil
		},
	}

	c.Flags().StringVar(&partner, "partner", "", "partner ID (required)")
	c.Flags().StringVar(&date, "date", "", "day to list, YYYY-MM-DD (required)")
	c.Flags().StringVar(&bookingType, "type", string(schedule.TypeHourly), "booking type: hourly, daily or monthly")
	c.Flags().IntVar(&duration, "duration", 1, "number of hours, days or months")
	_ = c.MarkFlagRequired("partner")
	_ = c.MarkFlagRequired("date")
	return c
}
