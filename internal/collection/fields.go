package collection

import (
	"strings"

	"github.com/Domenick1991/eventspark/internal/domain"
)

// AllCategories is the category filter value that keeps every event.
const AllCategories = "All"

func EventName(e domain.Event) string        { return e.Name }
func EventDescription(e domain.Event) string { return e.Description }
func EventVenue(e domain.Event) string       { return e.Venue }
func EventDate(e domain.Event) string        { return e.Date }

func OrganizerName(e domain.Event) string {
	if e.Organizer == nil {
		return ""
	}
	return e.Organizer.Name
}

func OrganizerEmail(e domain.Event) string {
	if e.Organizer == nil {
		return ""
	}
	return e.Organizer.Email
}

func CreatorName(e domain.Event) string {
	if e.CreatedBy == nil {
		return ""
	}
	return e.CreatedBy.Name
}

func CreatorEmail(e domain.Event) string {
	if e.CreatedBy == nil {
		return ""
	}
	return e.CreatedBy.Email
}

// BrowseFields are searched on the public event listing.
var BrowseFields = []Field[domain.Event]{EventName, EventDescription, EventVenue}

// EventFields are searched on the organizer and admin event tables.
var EventFields = []Field[domain.Event]{
	EventName, EventDescription, EventVenue,
	OrganizerName, OrganizerEmail, CreatorName, CreatorEmail,
}

func bookingEvent(b domain.Booking) domain.Event {
	if b.Event.Summary == nil {
		return domain.Event{}
	}
	return *b.Event.Summary
}

func BookingEventName(b domain.Booking) string  { return bookingEvent(b).Name }
func BookingEventVenue(b domain.Booking) string { return bookingEvent(b).Venue }
func BookingEventDate(b domain.Booking) string  { return bookingEvent(b).Date }

func BookingEventDescription(b domain.Booking) string {
	return bookingEvent(b).Description
}

// BookingFields search a booking through its denormalized event.
var BookingFields = []Field[domain.Booking]{BookingEventName, BookingEventVenue, BookingEventDescription}

// ByStatus keeps events in the given status.
func ByStatus(events []domain.Event, status domain.EventStatus) []domain.Event {
	return Where(events, func(e domain.Event) bool {
		return strings.EqualFold(string(e.Status), string(status))
	})
}

// ByCategory keeps events in category; "All" or "" keeps everything.
func ByCategory(events []domain.Event, category string) []domain.Event {
	category = strings.TrimSpace(category)
	if category == "" || category == AllCategories {
		return Where(events, func(domain.Event) bool { return true })
	}
	return Where(events, func(e domain.Event) bool {
		return strings.EqualFold(e.Category, category)
	})
}
