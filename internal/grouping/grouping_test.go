package grouping

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func booking(id, eventID, seat string, price float64, status domain.BookingStatus) domain.Booking {
	return domain.Booking{
		ID:          id,
		Event:       domain.EventRef{ID: eventID, Summary: &domain.Event{ID: eventID, Name: "Event " + eventID}},
		SeatNumber:  seat,
		TicketPrice: domain.Amount(price),
		Status:      status,
	}
}

func TestGroup_CurrentScenario(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "E1", "A1", 20, domain.BookingStatusConfirmed),
		booking("b", "E1", "A2", 20, domain.BookingStatusConfirmed),
		booking("c", "E1", "A3", 20, domain.BookingStatusCancelled),
	}

	groups := Group(bookings, Current)

	require.Len(t, groups, 1)
	assert.Equal(t, "E1", groups[0].EventID)
	assert.Equal(t, 2, groups[0].TotalTickets)
	assert.Equal(t, 40.0, groups[0].TotalPrice)
	assert.Equal(t, []string{"A1", "A2"}, groups[0].Seats)
	require.NotNil(t, groups[0].Event)
	assert.Equal(t, "Event E1", groups[0].Event.Name)

	cancelled := Group(bookings, Cancelled)
	require.Len(t, cancelled, 1)
	assert.Equal(t, 1, cancelled[0].TotalTickets)
	assert.Equal(t, "c", cancelled[0].Bookings[0].ID)
}

func TestGroup_SkipsUnresolvableEvent(t *testing.T) {
	bookings := []domain.Booking{
		{ID: "x", TicketPrice: 10, Status: domain.BookingStatusConfirmed},
		booking("y", "E2", "", 15, domain.BookingStatusPending),
	}

	groups := Group(bookings, Current)

	require.Len(t, groups, 1)
	assert.Equal(t, "E2", groups[0].EventID)
	assert.Equal(t, 15.0, groups[0].TotalPrice)
	assert.Empty(t, groups[0].Seats)
}

func TestGroup_OrderIndependentTotals(t *testing.T) {
	var bookings []domain.Booking
	for i, ev := range []string{"E1", "E2", "E3", "E1", "E2", "E1", "E3", "E1"} {
		bookings = append(bookings, booking(string(rune('a'+i)), ev, string(rune('A'+i)), float64(10+i), domain.BookingStatusConfirmed))
	}

	base := summarize(Group(bookings, Current))

	rng := rand.New(rand.NewSource(7))
	for range 10 {
		shuffled := slices.Clone(bookings)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })
		assert.Equal(t, base, summarize(Group(shuffled, Current)))
	}
}

type totals struct {
	tickets int
	price   float64
	seats   []string
}

func summarize(groups []domain.BookingGroup) map[string]totals {
	out := make(map[string]totals)
	for _, g := range groups {
		seats := slices.Clone(g.Seats)
		slices.Sort(seats)
		out[g.EventID] = totals{tickets: g.TotalTickets, price: g.TotalPrice, seats: seats}
	}
	return out
}

func TestGroup_Idempotent(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "E2", "B1", 5, domain.BookingStatusConfirmed),
		booking("b", "E1", "A1", 7, domain.BookingStatusConfirmed),
		booking("c", "E2", "B2", 5, domain.BookingStatusPending),
	}

	first := Group(bookings, Current)
	second := Group(bookings, Current)

	assert.Equal(t, first, second)
	assert.Equal(t, "E2", first[0].EventID)
	assert.Equal(t, []string{"B1", "B2"}, first[0].Seats)
}

func TestPartition(t *testing.T) {
	bookings := []domain.Booking{
		booking("a", "E1", "", 1, "CONFIRMED"),
		booking("b", "E1", "", 1, domain.BookingStatusInactive),
		booking("c", "E1", "", 1, "Cancelled"),
		booking("d", "E1", "", 1, ""),
	}

	p := Partition(bookings)

	assert.Len(t, p.Current, 2)
	assert.Len(t, p.Previous, 1)
	assert.Len(t, p.Cancelled, 1)
	assert.Equal(t, "b", p.Of(Previous)[0].ID)

	groups := Group(bookings, Previous)
	require.Len(t, groups, 1)
	assert.Equal(t, 1, groups[0].TotalTickets)
}

func TestFind(t *testing.T) {
	groups := Group([]domain.Booking{booking("a", "E1", "A1", 3, domain.BookingStatusConfirmed)}, Current)

	g, ok := Find(groups, "E1")
	assert.True(t, ok)
	assert.Equal(t, 1, g.TotalTickets)

	_, ok = Find(groups, "E9")
	assert.False(t, ok)
}
