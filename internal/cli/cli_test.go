package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/bookingform"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

var jakarta = time.FixedZone("WIB", 7*60*60)

type fakeAPI struct {
	partner   *bookingclient.Partner
	createErr error
	requests  []bookingclient.CreateBookingRequest
	slots     []bookingclient.Slot
}

func (f *fakeAPI) GetPartner(ctx context.Context, id string) (*bookingclient.Partner, error) {
	if f.partner == nil || f.partner.ID != id {
		return nil, &bookingclient.StatusError{StatusCode: 404, Message: "partner not found"}
	}
	return f.partner, nil
}

func (f *fakeAPI) CreateBooking(ctx context.Context, req bookingclient.CreateBookingRequest) (*bookingclient.Booking, error) {
	f.requests = append(f.requests, req)
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &bookingclient.Booking{ID: uuid.NewString(), Status: "pending", TotalPrice: 150000}, nil
}

func (f *fakeAPI) GetSlots(ctx context.Context, partnerID string, date time.Time, t schedule.BookingType, duration int) ([]bookingclient.Slot, error) {
	if f.partner == nil || f.partner.ID != partnerID {
		return nil, &bookingclient.StatusError{StatusCode: 404, Message: "partner not found"}
	}
	return f.slots, nil
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{partner: &bookingclient.Partner{
		ID:          uuid.NewString(),
		FullName:    "Siti Aminah",
		IsAvailable: true,
		Pricing:     bookingclient.Pricing{HourlyRate: 50000, DailyRate: 300000, MonthlyRate: 5000000},
	}}
}

func run(t *testing.T, api *fakeAPI, args ...string) (string, error) {
	t.Helper()
	env := &Env{
		API:      api,
		Location: jakarta,
		Now:      func() time.Time { return time.Date(2026, 3, 1, 9, 30, 0, 0, jakarta) },
	}
	root := newRootCmd(env, nil)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestOptionsCommand(t *testing.T) {
	out, err := run(t, nil, "options", "--type", "hourly", "--time", "17:00")
	require.NoError(t, err)
	assert.Contains(t, out, "start times: 08:00 09:00")
	assert.Contains(t, out, "19:00\n")
	assert.Contains(t, out, "durations: 1 hour, 2 hours, 3 hours\n")

	out, err = run(t, nil, "options", "--type", "daily")
	require.NoError(t, err)
	assert.Contains(t, out, "start time: 08:00 (fixed)")
	assert.Contains(t, out, "1 day, 2 days")
	assert.Contains(t, out, "7 days\n")

	_, err = run(t, nil, "options", "--type", "weekly")
	assert.Error(t, err)
}

func TestQuoteCommand(t *testing.T) {
	api := newFakeAPI()

	out, err := run(t, api, "quote", "--partner", api.partner.ID, "--date", "2026-03-02", "--time", "10:00", "--duration", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Siti Aminah")
	assert.Contains(t, out, "Mon 02 Mar 2026 10:00 to Mon 02 Mar 2026 13:00")
	assert.Contains(t, out, "3 hours")
	assert.Contains(t, out, "Rp150.000")
	assert.Empty(t, api.requests)
}

func TestQuoteRejectsInvalidWindow(t *testing.T) {
	api := newFakeAPI()

	_, err := run(t, api, "quote", "--partner", api.partner.ID, "--date", "2026-03-02", "--time", "18:00", "--duration", "3")
	require.Error(t, err)
}

func TestBookCommandSuccess(t *testing.T) {
	api := newFakeAPI()

	out, err := run(t, api, "book", "--partner", api.partner.ID, "--date", "2026-03-02",
		"--time", "10:00", "--duration", "3", "--notes", "  please bring supplies ")
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	req := api.requests[0]
	assert.Equal(t, api.partner.ID, req.PartnerID)
	assert.Equal(t, "2026-03-02T03:00:00Z", req.StartDatetime)
	assert.Equal(t, "2026-03-02T06:00:00Z", req.EndDatetime)
	assert.Equal(t, "please bring supplies", req.Notes)

	assert.Contains(t, out, "Booking created.")
	assert.Contains(t, out, "is pending")
}

func TestBookCommandDaily(t *testing.T) {
	api := newFakeAPI()

	_, err := run(t, api, "book", "--partner", api.partner.ID, "--date", "2026-03-02",
		"--type", "daily", "--duration", "2", "--notes", "deep clean")
	require.NoError(t, err)

	require.Len(t, api.requests, 1)
	assert.Equal(t, "2026-03-02T01:00:00Z", api.requests[0].StartDatetime)
	assert.Equal(t, "2026-03-03T13:00:00Z", api.requests[0].EndDatetime)
}

func TestBookCommandConflict(t *testing.T) {
	api := newFakeAPI()
	api.createErr = &bookingclient.StatusError{StatusCode: 409, Code: bookingclient.ConflictCode, Message: "time slot already booked"}

	out, err := run(t, api, "book", "--partner", api.partner.ID, "--date", "2026-03-02",
		"--time", "10:00", "--notes", "garden")
	require.Error(t, err)
	assert.True(t, errors.Is(err, bookingclient.ErrBookingConflict))
	assert.Contains(t, out, "error: The partner is already booked")
	assert.Contains(t, out, "conflict: Mon 02 Mar 2026 10:00 to Mon 02 Mar 2026 11:00")
}

func TestBookCommandRejectsBadInput(t *testing.T) {
	api := newFakeAPI()

	tests := []struct {
		name   string
		args   []string
		target error
	}{
		{"Bad partner id", []string{"--partner", "abc", "--date", "2026-03-02", "--notes", "x"}, nil},
		{"Past date", []string{"--partner", api.partner.ID, "--date", "2026-02-28", "--notes", "x"}, bookingform.ErrPastDate},
		{"Today", []string{"--partner", api.partner.ID, "--date", "2026-03-01", "--time", "15:00", "--notes", "x"}, bookingform.ErrPastDate},
		{"Blank notes", []string{"--partner", api.partner.ID, "--date", "2026-03-02", "--notes", "   "}, errNotesRequired},
		{"Duration past closing", []string{"--partner", api.partner.ID, "--date", "2026-03-02", "--time", "19:00", "--duration", "2", "--notes", "x"}, bookingform.ErrInvalidDuration},
		{"Bad date", []string{"--partner", api.partner.ID, "--date", "02/03/2026", "--notes", "x"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, api, append([]string{"book"}, tt.args...)...)
			require.Error(t, err)
			if tt.target != nil {
				assert.ErrorIs(t, err, tt.target)
			}
		})
	}
	assert.Empty(t, api.requests)
}

func TestSlotsCommand(t *testing.T) {
	api := newFakeAPI()
	start := time.Date(2026, 3, 10, 8, 0, 0, 0, jakarta)
	api.slots = []bookingclient.Slot{
		{StartDatetime: start.UTC(), EndDatetime: start.Add(time.Hour).UTC(), Available: true},
		{StartDatetime: start.Add(time.Hour).UTC(), EndDatetime: start.Add(2 * time.Hour).UTC(), Available: false},
	}

	out, err := run(t, api, "slots", "--partner", api.partner.ID, "--date", "2026-03-10")
	require.NoError(t, err)
	assert.Contains(t, out, "Tue 10 Mar 2026 08:00 to Tue 10 Mar 2026 09:00 (WIB)  open\n")
	assert.Contains(t, out, "Tue 10 Mar 2026 09:00 to Tue 10 Mar 2026 10:00 (WIB)  booked\n")

	api.slots = nil
	out, err = run(t, api, "slots", "--partner", api.partner.ID, "--date", "2026-03-10", "--type", "daily", "--duration", "2")
	require.NoError(t, err)
	assert.Equal(t, "no slots for 2 days on 2026-03-10\n", out)

	_, err = run(t, api, "slots", "--partner", uuid.NewString(), "--date", "2026-03-10")
	var se *bookingclient.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 404, se.StatusCode)

	_, err = run(t, api, "slots", "--partner", api.partner.ID, "--date", "2026-03-10", "--type", "weekly")
	assert.ErrorIs(t, err, schedule.ErrUnknownBookingType)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, nil, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "bookctl dev")
}
