package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Domenick1991/eventspark/internal/domain"
)

// ListEvents fetches every event visible to the session. The API answers
// with {data:{events}}, {events} or {data:[...]} depending on the caller's
// role; all three are accepted.
func (c *Client) ListEvents(ctx context.Context) ([]domain.Event, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/events", nil)
	if err != nil {
		return nil, err
	}
	return decodeEvents(body)
}

func decodeEvents(body []byte) ([]domain.Event, error) {
	var events []domain.Event
	if startsWith(body, '[') {
		if err := json.Unmarshal(body, &events); err != nil {
			return nil, malformed("events", err)
		}
		return events, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, malformed("events", err)
	}

	raw := env.Events
	if !present(raw) && present(env.Data) {
		raw = env.Data
		if startsWith(raw, '{') {
			var nested struct {
				Events json.RawMessage `json:"events"`
			}
			if err := json.Unmarshal(raw, &nested); err != nil {
				return nil, malformed("events", err)
			}
			raw = nested.Events
		}
	}
	if !present(raw) {
		return nil, malformed("events", nil)
	}
	if err := json.Unmarshal(raw, &events); err != nil {
		return nil, malformed("events", err)
	}
	if events == nil {
		events = []domain.Event{}
	}
	return events, nil
}

func (c *Client) GetEvent(ctx context.Context, id string) (domain.Event, error) {
	body, err := c.do(ctx, http.MethodGet, "/api/events/"+url.PathEscape(id), nil)
	if err != nil {
		return domain.Event{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return domain.Event{}, malformed("event", err)
	}

	raw := json.RawMessage(body)
	switch {
	case present(env.Event):
		raw = env.Event
	case present(env.Data):
		raw = env.Data
		var nested struct {
			Event json.RawMessage `json:"event"`
		}
		if err := json.Unmarshal(raw, &nested); err == nil && present(nested.Event) {
			raw = nested.Event
		}
	}

	var ev domain.Event
	if err := json.Unmarshal(raw, &ev); err != nil || ev.ID == "" {
		return domain.Event{}, malformed("event", err)
	}
	return ev, nil
}

func (c *Client) UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	_, err := c.do(ctx, http.MethodPut, "/api/events/"+url.PathEscape(id), map[string]string{"status": string(status)})
	return err
}

// Sale is the server's answer to a ticket sale.
type Sale struct {
	TicketPrice domain.Amount `json:"ticketPrice"`
	SoldTickets domain.Count  `json:"soldTickets"`
}

func (c *Client) SellTickets(ctx context.Context, id string, quantity int) (Sale, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/events/"+url.PathEscape(id)+"/sell-tickets", map[string]int{"quantity": quantity})
	if err != nil {
		return Sale{}, err
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return Sale{}, malformed("sale", err)
	}
	var sale Sale
	if present(env.Data) {
		if err := json.Unmarshal(env.Data, &sale); err != nil {
			return Sale{}, malformed("sale", err)
		}
	}
	return sale, nil
}
