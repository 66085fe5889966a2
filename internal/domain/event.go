package domain

import (
	"encoding/json"
	"strings"
)

type EventStatus string

const (
	EventStatusPending   EventStatus = "pending"
	EventStatusApproved  EventStatus = "approved"
	EventStatusCancelled EventStatus = "cancelled"
)

// Party is the organizer reference embedded in an event. Older records carry
// it under createdBy, some only as a bare id.
type Party struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func (p *Party) UnmarshalJSON(data []byte) error {
	*p = Party{}

	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		p.ID = id
		return nil
	}

	type plain Party
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return nil
	}
	*p = Party(v)
	return nil
}

type Event struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Category    string      `json:"category,omitempty"`
	Venue       string      `json:"venue,omitempty"`
	Date        string      `json:"date,omitempty"` // YYYY-MM-DD
	Time        string      `json:"time,omitempty"` // HH:MM, local
	ImageURL    string      `json:"imageUrl,omitempty"`
	TicketPrice Amount      `json:"ticketPrice"`
	TotalSeats  Count       `json:"totalSeats"`
	SoldTickets Count       `json:"soldTickets"`
	Revenue     Amount      `json:"revenue"`
	Attendees   Count       `json:"attendees"`
	Status      EventStatus `json:"status"`
	Organizer   *Party      `json:"organizer,omitempty"`
	CreatedBy   *Party      `json:"createdBy,omitempty"`
}

// Host returns the organizer reference, falling back to createdBy.
func (e Event) Host() Party {
	if e.Organizer != nil && (e.Organizer.ID != "" || e.Organizer.Name != "" || e.Organizer.Email != "") {
		return *e.Organizer
	}
	if e.CreatedBy != nil {
		return *e.CreatedBy
	}
	return Party{}
}

// OwnedBy reports whether userID is the organizer or creator of the event.
func (e Event) OwnedBy(userID string) bool {
	if userID == "" {
		return false
	}
	if e.Organizer != nil && e.Organizer.ID == userID {
		return true
	}
	return e.CreatedBy != nil && e.CreatedBy.ID == userID
}

func (e Event) IsPending() bool {
	return EventStatus(strings.ToLower(string(e.Status))) == EventStatusPending
}

func (e Event) IsApproved() bool {
	return EventStatus(strings.ToLower(string(e.Status))) == EventStatusApproved
}

func (e Event) AvailableSeats() int {
	left := e.TotalSeats.Int() - e.SoldTickets.Int()
	if left < 0 {
		return 0
	}
	return left
}
