package partner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rahmatullahboss/hotel-sub006/internal/booking"
)

// Client talks to the booking API on behalf of the terminal.
type Client interface {
	SubmitAction(ctx context.Context, a PendingAction) error
	FetchTodayBookings(ctx context.Context) ([]booking.BookingWithDetails, error)
}

type httpClient struct {
	baseURL string
	token   string
	hotelID int
	http    *http.Client
}

// NewClient builds an HTTP client with a finite timeout; a timed-out call
// is classified as transient, same as any other network failure.
func NewClient(baseURL, token string, hotelID int, timeout time.Duration) Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		baseURL: baseURL,
		token:   token,
		hotelID: hotelID,
		http:    &http.Client{Timeout: timeout},
	}
}

func (c *httpClient) SubmitAction(ctx context.Context, a PendingAction) error {
	path := fmt.Sprintf("%s/bookings/%d/check-in", c.baseURL, a.BookingID)
	if a.Kind == ActionCheckOut {
		path = fmt.Sprintf("%s/bookings/%d/check-out", c.baseURL, a.BookingID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, path, bytes.NewReader(nil))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusConflict || resp.StatusCode == http.StatusNotFound:
		// The server already reflects a conflicting state; retrying can
		// never succeed.
		return fmt.Errorf("%w: %s", ErrConflict, readError(resp.Body))
	default:
		return fmt.Errorf("%w: server returned %d", ErrTransient, resp.StatusCode)
	}
}

func (c *httpClient) FetchTodayBookings(ctx context.Context) ([]booking.BookingWithDetails, error) {
	path := fmt.Sprintf("%s/partner/hotels/%d/bookings/today", c.baseURL, c.hotelID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned %d", ErrTransient, resp.StatusCode)
	}

	var bookings []booking.BookingWithDetails
	if err := json.NewDecoder(resp.Body).Decode(&bookings); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTransient, err)
	}

	return bookings, nil
}

func readError(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(r).Decode(&body); err != nil || body.Error == "" {
		return "conflicting state"
	}
	return body.Error
}
