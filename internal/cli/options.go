package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

func newOptionsCmd() *cobra.Command {
	var (
		bookingType string
		startTime   string
	)

	c := &cobra.Command{
		Use:   "options",
		Short: "List the start times and durations offered for a booking type",
		Args:  cobra.NoArgs,
		// Options are computed locally; no client configuration is needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := schedule.ParseBookingType(bookingType)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			starts := schedule.StartTimes(t)
			startHour := schedule.Hours.Open
			if t == schedule.TypeHourly {
				c, err := schedule.ParseClock(startTime)
				if err != nil {
					return err
				}
				startHour = c.Hour

				labels := make([]string, len(starts))
				for i, s := range starts {
					labels[i] = s.String()
				}
				printf(out, "start times: %s\n", strings.Join(labels, " "))
			} else {
				printf(out, "start time: %s (fixed)\n", schedule.Clock{Hour: schedule.Hours.Open})
			}

			durations := schedule.Durations(t, startHour)
			if len(durations) == 0 {
				printf(out, "no durations available from %s\n", startTime)
				return nil
			}
			labels := make([]string, len(durations))
			for i, d := range durations {
				labels[i] = formatDuration(t, d)
			}
			printf(out, "durations: %s\n", strings.Join(labels, ", "))
			return nil
		},
	}

	c.Flags().StringVar(&bookingType, "type", string(schedule.TypeHourly), "booking type: hourly, daily or monthly")
	c.Flags().StringVar(&startTime, "time", "08:00", "hourly start time (HH:MM)")
	return c
}
