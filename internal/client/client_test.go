package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/session"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseURL = "http://api.test"

func newTestClient(token string) (*Client, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	c := New(baseURL+"/", session.Static(token),
		WithHTTPClient(&http.Client{Transport: transport}),
		WithTimeout(time.Second),
	)
	return c, transport
}

func TestListEvents_Shapes(t *testing.T) {
	testCases := []struct {
		name string
		body string
	}{
		{"data.events", `{"success":true,"data":{"events":[{"_id":"e1"},{"_id":"e2"}]}}`},
		{"events", `{"success":true,"events":[{"_id":"e1"},{"_id":"e2"}]}`},
		{"data array", `{"success":true,"data":[{"_id":"e1"},{"_id":"e2"}]}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, transport := newTestClient("")
			transport.RegisterResponder(http.MethodGet, baseURL+"/api/events",
				httpmock.NewStringResponder(http.StatusOK, tc.body))

			events, err := c.ListEvents(context.Background())

			require.NoError(t, err)
			require.Len(t, events, 2)
			assert.Equal(t, "e2", events[1].ID)
		})
	}
}

func TestListEvents_Malformed(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"items":[]}`))

	_, err := c.ListEvents(context.Background())

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestListEvents_BearerToken(t *testing.T) {
	c, transport := newTestClient("tok-123")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events",
		func(req *http.Request) (*http.Response, error) {
			assert.Equal(t, "Bearer tok-123", req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `{"events":[]}`), nil
		})

	events, err := c.ListEvents(context.Background())

	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestListEvents_NoTokenNoHeader(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events",
		func(req *http.Request) (*http.Response, error) {
			assert.Empty(t, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, `{"events":[]}`), nil
		})

	_, err := c.ListEvents(context.Background())
	assert.NoError(t, err)
}

func TestDo_ErrorTaxonomy(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events",
		httpmock.NewErrorResponder(errors.New("connection refused")))
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/bookings",
		httpmock.NewStringResponder(http.StatusOK, `{"success":false,"message":"Session expired"}`))
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/auth/users",
		httpmock.NewStringResponder(http.StatusForbidden, `<html>nope</html>`))

	_, err := c.ListEvents(context.Background())
	assert.ErrorIs(t, err, ErrTransport)

	_, err = c.ListBookings(context.Background())
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Session expired", apiErr.Message)
	assert.Equal(t, "Session expired", Message(err, "fallback"))

	_, err = c.ListUsers(context.Background())
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Forbidden", apiErr.Message)

	assert.Equal(t, "fallback", Message(ErrTransport, "fallback"))
}

func TestListBookings_Shapes(t *testing.T) {
	bodies := []string{
		`{"success":true,"data":[{"_id":"b1","eventId":"E1","status":"confirmed"}]}`,
		`{"bookings":[{"_id":"b1","eventId":{"_id":"E1","name":"Expo"},"status":"confirmed"}]}`,
		`[{"_id":"b1","event":"E1","status":"confirmed"}]`,
	}

	for _, body := range bodies {
		c, transport := newTestClient("t")
		transport.RegisterResponder(http.MethodGet, baseURL+"/api/bookings",
			httpmock.NewStringResponder(http.StatusOK, body))

		bookings, err := c.ListBookings(context.Background())

		require.NoError(t, err, body)
		require.Len(t, bookings, 1, body)
		assert.Equal(t, "E1", bookings[0].EventID(), body)
	}
}

func TestCancelBooking(t *testing.T) {
	c, transport := newTestClient("t")
	transport.RegisterResponder(http.MethodPut, baseURL+"/api/bookings/b1/cancel",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true}`))
	transport.RegisterResponder(http.MethodPut, baseURL+"/api/bookings/b2/cancel",
		httpmock.NewStringResponder(http.StatusBadRequest, `{"success":false,"message":"Booking already used"}`))

	assert.NoError(t, c.CancelBooking(context.Background(), "b1"))

	err := c.CancelBooking(context.Background(), "b2")
	assert.Equal(t, "Booking already used", Message(err, ""))
}

func TestListUsers(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/auth/users",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"users":{"admin":[{"email":"a@x.io","role":"admin"}],"user":[{"email":"u@x.io","role":"user","verified":true}]}}`))

	buckets, err := c.ListUsers(context.Background())

	require.NoError(t, err)
	assert.Len(t, buckets[domain.RoleAdmin], 1)
	assert.Empty(t, buckets[domain.RoleOrganizer])
	require.Len(t, buckets[domain.RoleUser], 1)
	assert.True(t, buckets[domain.RoleUser][0].Verified)
}

func TestUpdateRole_Body(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodPatch, baseURL+"/api/auth/users/role",
		func(req *http.Request) (*http.Response, error) {
			data, err := io.ReadAll(req.Body)
			require.NoError(t, err)
			var body map[string]string
			require.NoError(t, json.Unmarshal(data, &body))
			assert.Equal(t, map[string]string{"email": "u@x.io", "role": "organizer"}, body)
			assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
			return httpmock.NewStringResponse(http.StatusOK, `{"success":true}`), nil
		})

	assert.NoError(t, c.UpdateRole(context.Background(), "u@x.io", domain.RoleOrganizer))
}

func TestGetEvent(t *testing.T) {
	c, transport := newTestClient("")
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events/e1",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"data":{"_id":"e1","name":"Expo","ticketPrice":"12"}}`))
	transport.RegisterResponder(http.MethodGet, baseURL+"/api/events/e2",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true}`))

	ev, err := c.GetEvent(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Expo", ev.Name)
	assert.Equal(t, 12.0, ev.TicketPrice.Float())

	_, err = c.GetEvent(context.Background(), "e2")
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestSellTickets(t *testing.T) {
	c, transport := newTestClient("t")
	transport.RegisterResponder(http.MethodPost, baseURL+"/api/events/e1/sell-tickets",
		httpmock.NewStringResponder(http.StatusOK, `{"success":true,"data":{"ticketPrice":25,"soldTickets":11}}`))

	sale, err := c.SellTickets(context.Background(), "e1", 1)

	require.NoError(t, err)
	assert.Equal(t, 25.0, sale.TicketPrice.Float())
	assert.Equal(t, 11, sale.SoldTickets.Int())
}
