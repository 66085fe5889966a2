package dashboard

import (
	"context"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/collection"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/grouping"
	"github.com/Domenick1991/eventspark/internal/service/cancellation"
	"github.com/Domenick1991/eventspark/internal/state"
)

// BrowseQuery narrows the public event listing.
type BrowseQuery struct {
	Search   string
	Category string
	Range    calendar.Range
}

type User struct {
	base
	events       *state.Collection[[]domain.Event]
	bookings     *state.Collection[[]domain.Booking]
	cancellation *cancellation.Coordinator
}

func NewUser(deps Deps) *User {
	u := &User{
		events:   &state.Collection[[]domain.Event]{},
		bookings: &state.Collection[[]domain.Booking]{},
	}
	u.cancellation = cancellation.NewCoordinator(deps.API, u.bookings, deps.Notifier,
		cancellation.WithAudit(deps.Audit, deps.actor()),
		cancellation.WithSync(deps.saveBookings),
		cancellation.WithClock(deps.now),
	)
	u.base = newBase(deps,
		func(ctx context.Context) {
			deps.seedEvents(ctx, u.events)
			deps.seedBookings(ctx, u.bookings)
		},
		fetchTask("events", u.events, deps.API.ListEvents, deps.saveEvents),
		fetchTask("bookings", u.bookings, deps.API.ListBookings, deps.saveBookings),
	)
	return u
}

// Browse lists approved events matching q.
func (u *User) Browse(q BrowseQuery) []domain.Event {
	events := collection.ByStatus(u.events.Get(), domain.EventStatusApproved)
	events = collection.ByCategory(events, q.Category)
	events = collection.WithinRange(events, q.Range, collection.EventDate)
	return collection.Search(events, q.Search, collection.BrowseFields...)
}

// EventsOn lists the approved events dated on day.
func (u *User) EventsOn(day calendar.Day) []domain.Event {
	approved := collection.ByStatus(u.events.Get(), domain.EventStatusApproved)
	return collection.OnDay(approved, day, collection.EventDate)
}

// Bookings returns the user's bookings with event summaries filled in from
// the event list where the API sent only an id.
func (u *User) Bookings() []domain.Booking {
	return resolve(u.bookings.Get(), u.events.Get())
}

func (u *User) BookingsOn(day calendar.Day) []domain.Booking {
	return collection.OnDay(u.Bookings(), day, collection.BookingEventDate)
}

func (u *User) Groups(lifecycle grouping.Lifecycle) []domain.BookingGroup {
	return grouping.Group(u.Bookings(), lifecycle)
}

// Group returns the current tickets held for one event.
func (u *User) Group(eventID string) (domain.BookingGroup, bool) {
	return grouping.Find(u.Groups(grouping.Current), eventID)
}

func (u *User) Cancellation() *cancellation.Coordinator {
	return u.cancellation
}

func resolve(bookings []domain.Booking, events []domain.Event) []domain.Booking {
	byID := make(map[string]domain.Event, len(events))
	for _, ev := range events {
		byID[ev.ID] = ev
	}

	out := make([]domain.Booking, len(bookings))
	for i, b := range bookings {
		if b.Event.Summary == nil {
			if ev, ok := byID[b.EventID()]; ok {
				b.Event.Summary = &ev
			}
		}
		out[i] = b
	}
	return out
}
