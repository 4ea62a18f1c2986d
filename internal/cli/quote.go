package cli

import (
	"github.com/spf13/cobra"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

func newQuoteCmd(env *Env) *cobra.Command {
	var sel selectionFlags

	c := &cobra.Command{
		Use:   "quote",
		Short: "Compute a booking window and its price without submitting it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := sel.parse(env)
			if err != nil {
				return err
			}

			p, err := env.API.GetPartner(cmd.Context(), in.partnerID)
			if err != nil {
				return err
			}

			w, err := schedule.Compute(in.date, in.time, in.bookingType, in.duration)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printf(out, "partner:  %s\n", p.FullName)
			printf(out, "window:   %s\n", formatWindow(w, env.Location))
			printf(out, "duration: %s\n", formatDuration(w.Type, w.Duration))
			printf(out, "total:    %s\n", formatRupiah(schedule.Quote(w, p.Pricing.Rate())))
			return nil
		},
	}

	sel.register(c, false)
	return c
}
