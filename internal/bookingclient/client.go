package bookingclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nekogravitycat/partner-booking-backend/internal/schedule"
)

// ConflictCode is the "code" the authority sends with a 409 when the
// requested window overlaps an existing reservation.
const ConflictCode = "booking_conflict"

var (
	// ErrBookingConflict means the partner is already booked for part of the window.
	ErrBookingConflict = errors.New("partner is not available for the selected time")
	// ErrTransport covers every other failed call: network errors, non-conflict
	// 4xx responses, 5xx responses and undecodable bodies.
	ErrTransport = errors.New("booking service request failed")
)

// StatusError is a non-2xx response from the authority.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking service returned http %d", e.StatusCode)
	}
	return fmt.Sprintf("booking service returned http %d: %s", e.StatusCode, e.Message)
}

// Unwrap classifies the response as a conflict or a generic transport failure.
func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusConflict && e.Code == ConflictCode {
		return ErrBookingConflict
	}
	return ErrTransport
}

// Config configures a Client.
type Config struct {
	BaseURL string        // e.g. http://localhost:8080/v1
	Token   string        // bearer token sent with every request, optional
	Timeout time.Duration // http.Client timeout; zero means none
}

// Client talks to the availability authority's HTTP API.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	logger  *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    &http.Client{Timeout: cfg.Timeout},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
	}
}

// CreateBooking submits req. A 409 carrying ConflictCode yields an error
// matching ErrBookingConflict; every other failure matches ErrTransport.
func (c *Client) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	var b Booking
	if err := c.do(ctx, http.MethodPost, "/bookings", req, &b); err != nil {
		return nil, err
	}
	return &b, nil
}

// GetPartner fetches the partner record used for pricing.
func (c *Client) GetPartner(ctx context.Context, id string) (*Partner, error) {
	var p Partner
	if err := c.do(ctx, http.MethodGet, "/partners/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetSlots lists the partner's windows of type t and duration that start on
// date, with whether each can still be booked.
func (c *Client) GetSlots(ctx context.Context, partnerID string, date time.Time, t schedule.BookingType, duration int) ([]Slot, error) {
	q := url.Values{}
	q.Set("date", date.Format(time.DateOnly))
	q.Set("type", string(t))
	q.Set("duration", strconv.Itoa(duration))

	var res struct {
		Items []Slot `json:"items"`
	}
	path := "/partners/" + url.PathEscape(partnerID) + "/slots?" + q.Encode()
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Items, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %w", ErrTransport, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: read response: %w", ErrTransport, err)
	}

	c.logger.Debug("booking service call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := &StatusError{StatusCode: resp.StatusCode}
		var payload struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}
		if json.Unmarshal(respBody, &payload) == nil {
			se.Code = payload.Code
			se.Message = payload.Error
		} else {
			se.Message = strings.TrimSpace(string(respBody))
		}
		return se
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response: %w", ErrTransport, err)
	}
	return nil
}
