package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Domenick1991/eventspark/internal/domain"
)

// ListBookings fetches the signed-in user's bookings. Accepts {data:[...]},
// {bookings:[...]} or a bare array.
func (c *Client) ListBookings(ctx context.Context) ([]domain.Booking, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/bookings", nil)
	if err != nil {
		return nil, err
	}
	return decodeBookings(body)
}

func decodeBookings(body []byte) ([]domain.Booking, error) {
	raw := json.RawMessage(body)
	if !startsWith(body, '[') {
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, malformed("bookings", err)
		}
		switch {
		case present(env.Data):
			raw = env.Data
		case present(env.Bookings):
			raw = env.Bookings
		default:
			return nil, malformed("bookings", nil)
		}
	}

	var bookings []domain.Booking
	if err := json.Unmarshal(raw, &bookings); err != nil {
		return nil, malformed("bookings", err)
	}
	if bookings == nil {
		bookings = []domain.Booking{}
	}
	return bookings, nil
}

func (c *Client) CancelBooking(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodPut, "/api/bookings/"+url.PathEscape(id)+"/cancel", nil)
	return err
}
