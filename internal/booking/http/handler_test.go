package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nekogravitycat/partner-booking-backend/internal/auth"
	"github.com/nekogravitycat/partner-booking-backend/internal/booking"
	"github.com/nekogravitycat/partner-booking-backend/internal/bookingclient"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/partner-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

const (
	partnerID = "5b0f3f4e-7c43-4f0e-9a57-3d1f2a1b9c01"
	bookingID = "9e3c6a52-1f0d-4a8b-8c4e-2b7d6f5a4e10"

	operatorKey = "op-key"
)

type fakeService struct {
	mu         sync.Mutex
	createErr  error
	lastCreate booking.CreateRequest
	lastFilter booking.Filter
	cancelErr  error

	rescheduleErr  error
	lastReschedule booking.RescheduleRequest
	lastStatus     booking.Status
	lastSlots      booking.SlotsRequest
}

func (s *fakeService) Create(ctx context.Context, req booking.CreateRequest) (*booking.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastCreate = req
	if s.createErr != nil {
		return nil, s.createErr
	}
	return &booking.Booking{
		ID:          bookingID,
		CustomerID:  req.CustomerID,
		PartnerID:   req.PartnerID,
		PartnerName: "Siti",
		Type:        req.Type,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Duration:    3,
		Status:      booking.StatusPending,
		TotalPrice:  150000,
		Notes:       req.Notes,
	}, nil
}

func (s *fakeService) setCreateErr(err error) {
	s.mu.Lock()
	s.createErr = err
	s.mu.Unlock()
}

func (s *fakeService) GetByID(ctx context.Context, id, customerID string) (*booking.Booking, error) {
	if id != bookingID {
		return nil, booking.ErrNotFound
	}
	if customerID != "c-1" {
		return nil, booking.ErrNotFound
	}
	return &booking.Booking{ID: id, CustomerID: customerID, Status: booking.StatusPending}, nil
}

func (s *fakeService) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	s.lastFilter = filter
	return []*booking.Booking{{ID: bookingID, CustomerID: filter.CustomerID}}, 1, nil
}

func (s *fakeService) Cancel(ctx context.Context, id, customerID, reason string) (*booking.Booking, error) {
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	return &booking.Booking{ID: id, CustomerID: customerID, Status: booking.StatusCancelled, CancellationReason: &reason}, nil
}

func (s *fakeService) Reschedule(ctx context.Context, req booking.RescheduleRequest) (*booking.Booking, error) {
	s.lastReschedule = req
	if s.rescheduleErr != nil {
		return nil, s.rescheduleErr
	}
	original := req.ID
	return &booking.Booking{
		ID:                "0c1d2e3f-4a5b-4c6d-8e7f-8091a2b3c4d5",
		CustomerID:        req.CustomerID,
		StartTime:         req.StartTime,
		EndTime:           req.EndTime,
		Status:            booking.StatusPending,
		OriginalBookingID: &original,
	}, nil
}

func (s *fakeService) UpdateStatus(ctx context.Context, id string, to booking.Status) (*booking.Booking, error) {
	s.lastStatus = to
	if to == booking.StatusCompleted {
		return nil, booking.ErrInvalidTransition
	}
	return &booking.Booking{ID: id, Status: to}, nil
}

func (s *fakeService) Slots(ctx context.Context, req booking.SlotsRequest) ([]booking.Slot, error) {
	s.lastSlots = req
	start := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	return []booking.Slot{
		{Start: start, End: start.Add(2 * time.Hour), Available: true},
		{Start: start.Add(time.Hour), End: start.Add(3 * time.Hour), Available: false},
	}, nil
}

type testEnv struct {
	router *gin.Engine
	svc    *fakeService
	token  string
}

func setup(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, request.RegisterValidators())

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	token, err := jwtManager.GenerateAccessToken("c-1", "ana@example.com")
	require.NoError(t, err)

	svc := &fakeService{}
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(svc), auth.AuthRequired(jwtManager), auth.OperatorKeyRequired(operatorKey))
	return testEnv{router: r, svc: svc, token: token}
}

func (e testEnv) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func validBody() map[string]any {
	return map[string]any{
		"partner_id":     partnerID,
		"type":           "hourly",
		"start_datetime": "2026-03-10T07:00:00Z",
		"end_datetime":   "2026-03-10T10:00:00Z",
		"notes":          "Deep clean the kitchen",
	}
}

func TestCreateBooking(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/v1/bookings", validBody(), env.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, bookingID, resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(150000), resp.TotalPrice)

	got := env.svc.lastCreate
	assert.Equal(t, "c-1", got.CustomerID)
	assert.Equal(t, schedule.TypeHourly, got.Type)
	assert.True(t, got.StartTime.Equal(time.Date(2026, 3, 10, 7, 0, 0, 0, time.UTC)))
}

func TestCreateBookingValidation(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name   string
		mutate func(b map[string]any)
	}{
		{"Unknown type", func(b map[string]any) { b["type"] = "weekly" }},
		{"Missing notes", func(b map[string]any) { delete(b, "notes") }},
		{"Bad partner id", func(b map[string]any) { b["partner_id"] = "p-1" }},
		{"Bad timestamp", func(b map[string]any) { b["start_datetime"] = "10/03/2026 14:00" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validBody()
			tt.mutate(body)
			w := env.do(http.MethodPost, "/v1/bookings", body, env.token)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}

	w := env.do(http.MethodPost, "/v1/bookings", validBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateBookingConflictBody(t *testing.T) {
	env := setup(t)
	env.svc.createErr = booking.ErrTimeConflict

	w := env.do(http.MethodPost, "/v1/bookings", validBody(), env.token)
	require.Equal(t, http.StatusConflict, w.Code)

	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, booking.ConflictReason, resp.Code)
	assert.NotEmpty(t, resp.Error)
}

// The booking client must read the server's conflict answer as a conflict and
// every other rejection as a generic failure.
func TestBookingClientAgainstHandler(t *testing.T) {
	env := setup(t)
	srv := httptest.NewServer(env.router)
	defer srv.Close()

	client := bookingclient.New(bookingclient.Config{BaseURL: srv.URL + "/v1", Token: env.token}, nil)
	w, err := schedule.Compute(time.Date(2026, 3, 10, 0, 0, 0, 0, time.FixedZone("WIB", 7*60*60)),
		"14:00", schedule.TypeHourly, 3)
	require.NoError(t, err)
	req := bookingclient.NewCreateBookingRequest(partnerID, w, "Deep clean the kitchen")

	b, err := client.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, bookingID, b.ID)
	assert.Equal(t, "pending", b.Status)

	env.svc.setCreateErr(booking.ErrTimeConflict)
	_, err = client.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, bookingclient.ErrBookingConflict)

	env.svc.setCreateErr(booking.ErrPartnerUnavailable)
	_, err = client.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, bookingclient.ErrTransport)

	env.svc.setCreateErr(booking.ErrNotCancellable) // 409 without the conflict code
	_, err = client.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, bookingclient.ErrTransport)
}

func TestListBookingsScopedToCaller(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/v1/bookings?status=pending&sort_order=asc", nil, env.token)
	require.Equal(t, http.StatusOK, w.Code)

	f := env.svc.lastFilter
	assert.Equal(t, "c-1", f.CustomerID)
	assert.Equal(t, booking.StatusPending, f.Status)
	assert.Equal(t, "ASC", f.SortOrder)
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.PageSize)

	w = env.do(http.MethodGet, "/v1/bookings?status=unknown", nil, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBooking(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/v1/bookings/"+bookingID, nil, env.token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.do(http.MethodGet, "/v1/bookings/00000000-0000-0000-0000-000000000000", nil, env.token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(http.MethodGet, "/v1/bookings/not-a-uuid", nil, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBooking(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", CancelBookingRequest{Reason: "Plans changed"}, env.token)
	require.Equal(t, http.StatusOK, w.Code)
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancellationReason)
	assert.Equal(t, "Plans changed", *resp.CancellationReason)

	w = env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", map[string]string{}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	env.svc.cancelErr = booking.ErrNotCancellable
	w = env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/cancel", CancelBookingRequest{Reason: "again"}, env.token)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRescheduleBooking(t *testing.T) {
	env := setup(t)
	body := map[string]any{
		"start_datetime": "2026-03-11T07:00:00Z",
		"end_datetime":   "2026-03-11T10:00:00Z",
	}

	w := env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/reschedule", body, env.token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.OriginalBookingID)
	assert.Equal(t, bookingID, *resp.OriginalBookingID)
	assert.Equal(t, "c-1", env.svc.lastReschedule.CustomerID)
	assert.True(t, env.svc.lastReschedule.StartTime.Equal(time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC)))

	env.svc.rescheduleErr = booking.ErrTimeConflict
	w = env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/reschedule", body, env.token)
	require.Equal(t, http.StatusConflict, w.Code)
	var errResp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &errResp))
	assert.Equal(t, booking.ConflictReason, errResp.Code)

	w = env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/reschedule", map[string]any{}, env.token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.do(http.MethodPost, "/v1/bookings/"+bookingID+"/reschedule", body, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateBookingStatus(t *testing.T) {
	env := setup(t)
	path := "/v1/operator/bookings/" + bookingID + "/status"

	send := func(status, key string) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		_ = json.NewEncoder(&buf).Encode(UpdateStatusRequest{Status: status})
		req := httptest.NewRequest(http.MethodPut, path, &buf)
		req.Header.Set("Content-Type", "application/json")
		if key != "" {
			req.Header.Set(auth.OperatorHeader, key)
		}
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)
		return w
	}

	w := send("confirmed", operatorKey)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp BookingResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, booking.StatusConfirmed, env.svc.lastStatus)

	assert.Equal(t, http.StatusConflict, send("completed", operatorKey).Code)
	assert.Equal(t, http.StatusBadRequest, send("pending", operatorKey).Code)
	assert.Equal(t, http.StatusUnauthorized, send("confirmed", "").Code)
	assert.Equal(t, http.StatusForbidden, send("confirmed", "wrong").Code)

	// Customer tokens do not open the operator route.
	assert.Equal(t, http.StatusUnauthorized, env.do(http.MethodPut, path, UpdateStatusRequest{Status: "confirmed"}, env.token).Code)
}

func TestOperatorRouteNeedsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r.Group("/v1"), NewHandler(&fakeService{}), func(c *gin.Context) { c.Next() }, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/operator/bookings/"+bookingID+"/status", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPartnerSlots(t *testing.T) {
	env := setup(t)

	w := env.do(http.MethodGet, "/v1/partners/"+partnerID+"/slots?date=2026-03-10&type=hourly&duration=2", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Items []SlotResponse `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 2)
	assert.True(t, resp.Items[0].Available)
	assert.False(t, resp.Items[1].Available)

	got := env.svc.lastSlots
	assert.Equal(t, partnerID, got.PartnerID)
	assert.Equal(t, schedule.TypeHourly, got.Type)
	assert.Equal(t, 2, got.Duration)
	y, m, d := got.Date.Date()
	assert.Equal(t, []int{2026, 3, 10}, []int{y, int(m), d})

	tests := []struct {
		name  string
		query string
	}{
		{"Missing date", "type=hourly&duration=1"},
		{"Bad date", "date=10-03-2026&type=hourly&duration=1"},
		{"Unknown type", "date=2026-03-10&type=weekly&duration=1"},
		{"Zero duration", "date=2026-03-10&type=hourly&duration=0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/v1/partners/"+partnerID+"/slots?"+tt.query, nil, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}
