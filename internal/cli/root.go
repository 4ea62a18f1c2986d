// Package cli implements bookctl, a terminal front end for browsing
// booking options, checking a partner's open slots, quoting a price and
// submitting bookings.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/config"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/logger"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var (
	Version   = "dev"
	CommitSHA = "none"
)

// API is the part of the availability authority the commands call.
type API interface {
	GetPartner(ctx context.Context, id string) (*bookingclient.Partner, error)
	CreateBooking(ctx context.Context, req bookingclient.CreateBookingRequest) (*bookingclient.Booking, error)
	GetSlots(ctx context.Context, partnerID string, date time.Time, t schedule.BookingType, duration int) ([]bookingclient.Slot, error)
}

// Env carries what the commands need. Fields left nil are filled in from the
// client configuration before a command runs.
type Env struct {
	API      API
	Location *time.Location
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&Env{}, connectFromConfig)
}

func newRootCmd(env *Env, connect func(*Env) error) *cobra.Command {
	root := &cobra.Command{
		Use:           "bookctl",
		Short:         "Book household service partners from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if connect != nil {
				if err := connect(env); err != nil {
					return err
				}
			}
			if env.Location == nil {
				env.Location = time.Local
			}
			if env.Logger == nil {
				env.Logger = zap.NewNop()
			}
			if env.Now == nil {
				env.Now = time.Now
			}
			return nil
		},
	}

	root.AddCommand(newVersionCmd())
	root.AddCommand(newOptionsCmd())
	root.AddCommand(newQuoteCmd(env))
	root.AddCommand(newBookCmd(env))
	root.AddCommand(newSlotsCmd(env))

	return root
}

// connectFromConfig builds the HTTP client and logger from the environment.
func connectFromConfig(env *Env) error {
	if env.API != nil {
		return nil
	}
	cfg, err := config.LoadClient()
	if err != nil {
		return err
	}
	zl, err := logger.New(false, cfg.LogLevel)
	if err != nil {
		return err
	}
	env.Logger = zl
	env.Location = cfg.Location
	env.API = bookingclient.New(bookingclient.Config{
		BaseURL: cfg.BaseURL,
		Token:   cfg.Token,
		Timeout: cfg.Timeout,
	}, zl.Named("bookingclient"))
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bookctl %s (%s)\n", Version, CommitSHA)
		},
	}
}

func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
