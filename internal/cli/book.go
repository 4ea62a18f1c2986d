package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/bookingform"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var errNotesRequired = errors.New("notes must not be empty")

func newBookCmd(env *Env) *cobra.Command {
	var sel selectionFlags

	c := &cobra.Command{
		Use:   "book",
		Short: "Submit a booking for a partner",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := sel.parse(env)
			if err != nil {
				return err
			}
			if strings.TrimSpace(in.notes) == "" {
				return errNotesRequired
			}
			logSelection(env.Logger, in)

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			p, err := env.API.GetPartner(ctx, in.partnerID)
			if err != nil {
				return err
			}
			if !p.IsAvailable {
				printf(out, "note: %s is marked unavailable; the booking may be rejected\n", p.FullName)
			}

			form, err := bookingform.New(*p, bookingform.Options{
				Authority: env.API,
				Navigator: terminalNavigator{out: out},
				Notifier:  terminalNotifier{out: out, loc: env.Location},
				Location:  env.Location,
				Logger:    env.Logger.Named("bookingform"),
				Now:       env.Now,
			})
			if err != nil {
				return err
			}
			defer form.Close()

			if err := applySelection(form, in); err != nil {
				return err
			}

			w, err := form.Window()
			if err != nil {
				return err
			}
			printf(out, "booking %s for %s, %s\n", p.FullName, formatWindow(w, env.Location), formatRupiah(form.Price()))

			submitted, err := form.Submit(ctx)
			if errors.Is(err, bookingclient.ErrBookingConflict) {
				// Clear the notice; the selection stays for another attempt.
				form.Dismiss()
				return err
			}
			if err != nil {
				return err
			}
			if !submitted {
				return fmt.Errorf("booking was not submitted (state %s)", form.State())
			}
			return nil
		},
	}

	sel.register(c, true)
	return c
}

// applySelection feeds in to the form in the order the form expects: the
// type resets the duration and the start time caps it.
func applySelection(form *bookingform.Form, in selection) error {
	if err := form.SetType(in.bookingType); err != nil {
		return err
	}
	if err := form.SetDate(in.date); err != nil {
		return err
	}
	if in.bookingType == schedule.TypeHourly {
		if err := form.SetTime(in.time); err != nil {
			return err
		}
	}
	if err := form.SetDuration(in.duration); err != nil {
		return err
	}
	form.SetNotes(in.notes)
	return nil
}

type terminalNotifier struct {
	out io.Writer
	loc *time.Location
}

func (n terminalNotifier) Success(msg string) { printf(n.out, "%s\n", msg) }

func (n terminalNotifier) Failure(msg string) { printf(n.out, "error: %s\n", msg) }

func (n terminalNotifier) ConflictOpened(w schedule.Window) {
	printf(n.out, "conflict: %s is already taken\n", formatWindow(w, n.loc))
}

func (n terminalNotifier) ConflictClosed() {}

type terminalNavigator struct {
	out io.Writer
}

func (n terminalNavigator) BookingCreated(b *bookingclient.Booking) {
	if b == nil {
		return
	}
	printf(n.out, "booking %s is %s, total %s\n", b.ID, b.Status, formatRupiah(b.TotalPrice))
}

var (
	_ bookingform.Notifier  = terminalNotifier{}
	_ bookingform.Navigator = terminalNavigator{}
)

func logSelection(logger *zap.Logger, in selection) {
	logger.Debug("booking selection",
		zap.String("partner_id", in.partnerID),
		zap.String("type", string(in.bookingType)),
		zap.Int("duration", in.duration))
}
