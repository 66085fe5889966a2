package domain

import (
	"encoding/json"
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusInactive  BookingStatus = "inactive"
)

// Normalize lower-cases the status; the API is not consistent about case.
func (s BookingStatus) Normalize() BookingStatus {
	return BookingStatus(strings.ToLower(strings.TrimSpace(string(s))))
}

type PaymentStatus string

const (
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusPending   PaymentStatus = "pending"
)

// EventRef is the denormalized event on a booking: either a bare id or an
// embedded summary. A reference that is neither has an empty ID.
type EventRef struct {
	ID      string
	Summary *Event
}

func (r *EventRef) UnmarshalJSON(data []byte) error {
	*r = EventRef{}

	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		r.ID = id
		return nil
	}

	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil
	}
	r.ID = ev.ID
	r.Summary = &ev
	return nil
}

func (r EventRef) MarshalJSON() ([]byte, error) {
	if r.Summary != nil {
		return json.Marshal(r.Summary)
	}
	if r.ID == "" {
		return []byte("null"), nil
	}
	return json.Marshal(r.ID)
}

type Booking struct {
	ID            string        `json:"_id"`
	Event         EventRef      `json:"eventId"`
	SeatNumber    string        `json:"seatNumber,omitempty"`
	TicketPrice   Amount        `json:"ticketPrice"`
	Status        BookingStatus `json:"status"`
	PaymentStatus PaymentStatus `json:"paymentStatus,omitempty"`
	BookingDate   time.Time     `json:"bookingDate,omitzero"`
	CreatedAt     time.Time     `json:"createdAt,omitzero"`
	UpdatedAt     time.Time     `json:"updatedAt,omitzero"`
}

// UnmarshalJSON accepts the event under either "eventId" or "event" and a
// seat number sent as string or number.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var wire struct {
		plain
		Alt  EventRef        `json:"event"`
		Seat json.RawMessage `json:"seatNumber"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}

	*b = Booking(wire.plain)
	if b.Event.ID == "" && wire.Alt.ID != "" {
		b.Event = wire.Alt
	}
	b.SeatNumber = looseString(wire.Seat)
	return nil
}

func (b Booking) EventID() string {
	return b.Event.ID
}

// CanCancel reports whether the client may move the booking to cancelled.
// Cancelled and inactive are terminal for the client.
func (b Booking) CanCancel() bool {
	switch b.Status.Normalize() {
	case BookingStatusPending, BookingStatusConfirmed:
		return true
	default:
		return false
	}
}

// WithStatus returns a copy of the booking in the given status.
func (b Booking) WithStatus(status BookingStatus, at time.Time) Booking {
	b.Status = status
	b.UpdatedAt = at
	return b
}

// BookingGroup aggregates the bookings a user holds for one event.
type BookingGroup struct {
	EventID      string    `json:"eventId"`
	Event        *Event    `json:"event,omitempty"`
	Bookings     []Booking `json:"bookings"`
	TotalTickets int       `json:"totalTickets"`
	TotalPrice   float64   `json:"totalPrice"`
	Seats        []string  `json:"seats"`
}
