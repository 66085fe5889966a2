// Package grouping folds a user's flat booking list into per-event ticket
// groups, split by lifecycle.
package grouping

import (
	"github.com/Domenick1991/eventspark/internal/domain"
)

type Lifecycle string

const (
	Current   Lifecycle = "current"
	Previous  Lifecycle = "previous"
	Cancelled Lifecycle = "cancelled"
)

func (l Lifecycle) Valid() bool {
	switch l {
	case Current, Previous, Cancelled:
		return true
	default:
		return false
	}
}

// LifecycleOf buckets a booking status. Anything that is neither cancelled
// nor inactive counts as current.
func LifecycleOf(status domain.BookingStatus) Lifecycle {
	switch status.Normalize() {
	case domain.BookingStatusCancelled:
		return Cancelled
	case domain.BookingStatusInactive:
		return Previous
	default:
		return Current
	}
}

type Partitions struct {
	Current   []domain.Booking
	Previous  []domain.Booking
	Cancelled []domain.Booking
}

func (p Partitions) Of(l Lifecycle) []domain.Booking {
	switch l {
	case Previous:
		return p.Previous
	case Cancelled:
		return p.Cancelled
	default:
		return p.Current
	}
}

// Partition splits bookings by lifecycle, keeping input order.
func Partition(bookings []domain.Booking) Partitions {
	var p Partitions
	for _, b := range bookings {
		switch LifecycleOf(b.Status) {
		case Cancelled:
			p.Cancelled = append(p.Cancelled, b)
		case Previous:
			p.Previous = append(p.Previous, b)
		default:
			p.Current = append(p.Current, b)
		}
	}
	return p
}

// Group folds the bookings of one lifecycle into per-event groups. Groups
// come out in order of first appearance and seats in encounter order.
// Bookings with no resolvable event are left out.
func Group(bookings []domain.Booking, lifecycle Lifecycle) []domain.BookingGroup {
	index := make(map[string]int)
	var groups []domain.BookingGroup

	for _, b := range bookings {
		if LifecycleOf(b.Status) != lifecycle {
			continue
		}
		eventID := b.EventID()
		if eventID == "" {
			continue
		}

		i, ok := index[eventID]
		if !ok {
			i = len(groups)
			index[eventID] = i
			groups = append(groups, domain.BookingGroup{
				EventID:  eventID,
				Bookings: []domain.Booking{},
				Seats:    []string{},
			})
		}

		g := &groups[i]
		if g.Event == nil && b.Event.Summary != nil {
			summary := *b.Event.Summary
			g.Event = &summary
		}
		g.Bookings = append(g.Bookings, b)
		g.TotalTickets++
		g.TotalPrice += b.TicketPrice.Float()
		if b.SeatNumber != "" {
			g.Seats = append(g.Seats, b.SeatNumber)
		}
	}

	return groups
}

// Find returns the group for eventID.
func Find(groups []domain.BookingGroup, eventID string) (domain.BookingGroup, bool) {
	for _, g := range groups {
		if g.EventID == eventID {
			return g, true
		}
	}
	return domain.BookingGroup{}, false
}
