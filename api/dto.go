package api

import (
	"time"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/jinzhu/copier"
)

type eventResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description,omitempty"`
	Category       string  `json:"category,omitempty"`
	Venue          string  `json:"venue,omitempty"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	DisplayTime    string  `json:"displayTime"`
	ImageURL       string  `json:"imageUrl,omitempty"`
	TicketPrice    float64 `json:"ticketPrice"`
	TotalSeats     int     `json:"totalSeats"`
	SoldTickets    int     `json:"soldTickets"`
	AvailableSeats int     `json:"availableSeats"`
	Revenue        float64 `json:"revenue"`
	Status         string  `json:"status"`
	OrganizerName  string  `json:"organizerName,omitempty"`
}

type bookingResponse struct {
	ID            string    `json:"id"`
	EventID       string    `json:"eventId"`
	EventName     string    `json:"eventName,omitempty"`
	SeatNumber    string    `json:"seatNumber,omitempty"`
	TicketPrice   float64   `json:"ticketPrice"`
	Status        string    `json:"status"`
	PaymentStatus string    `json:"paymentStatus,omitempty"`
	BookingDate   time.Time `json:"bookingDate,omitzero"`
}

type groupResponse struct {
	EventID      string            `json:"eventId"`
	Event        *eventResponse    `json:"event,omitempty"`
	TotalTickets int               `json:"totalTickets"`
	TotalPrice   float64           `json:"totalPrice"`
	Seats        []string          `json:"seats"`
	Bookings     []bookingResponse `json:"bookings"`
}

type userResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        string `json:"role"`
	Verified    bool   `json:"verified"`
}

func toEvent(ev domain.Event) eventResponse {
	var out eventResponse
	_ = copier.Copy(&out, &ev)
	out.AvailableSeats = ev.AvailableSeats()
	out.DisplayTime = calendar.To12Hour(ev.Time)
	out.OrganizerName = ev.Host().Name
	return out
}

func toEvents(events []domain.Event) []eventResponse {
	out := make([]eventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, toEvent(ev))
	}
	return out
}

func toBooking(b domain.Booking) bookingResponse {
	var out bookingResponse
	_ = copier.Copy(&out, &b)
	out.EventID = b.EventID()
	if b.Event.Summary != nil {
		out.EventName = b.Event.Summary.Name
	}
	return out
}

func toBookings(bookings []domain.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBooking(b))
	}
	return out
}

func toGroups(groups []domain.BookingGroup) []groupResponse {
	out := make([]groupResponse, 0, len(groups))
	for _, g := range groups {
		resp := groupResponse{
			EventID:      g.EventID,
			TotalTickets: g.TotalTickets,
			TotalPrice:   g.TotalPrice,
			Seats:        g.Seats,
			Bookings:     toBookings(g.Bookings),
		}
		if g.Event != nil {
			ev := toEvent(*g.Event)
			resp.Event = &ev
		}
		out = append(out, resp)
	}
	return out
}

func toUsers(buckets domain.Buckets) map[string][]userResponse {
	out := make(map[string][]userResponse, len(domain.Roles))
	for _, role := range domain.Roles {
		users := make([]userResponse, 0, len(buckets[role]))
		if len(buckets[role]) > 0 {
			_ = copier.Copy(&users, buckets[role])
		}
		out[string(role)] = users
	}
	return out
}
