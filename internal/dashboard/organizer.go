package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/collection"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kpi"
	"github.com/Domenick1991/eventspark/internal/service/moderation"
	"github.com/Domenick1991/eventspark/internal/state"
)

type Organizer struct {
	base
	events *state.Collection[[]domain.Event]
	sales  *moderation.Coordinator
}

func NewOrganizer(deps Deps) *Organizer {
	o := &Organizer{events: &state.Collection[[]domain.Event]{}}
	o.sales = moderation.NewCoordinator(deps.API, o.events, deps.Notifier,
		moderation.WithAudit(deps.Audit, deps.actor()),
		moderation.WithSync(deps.saveEvents),
	)
	o.base = newBase(deps,
		func(ctx context.Context) { deps.seedEvents(ctx, o.events) },
		fetchTask("events", o.events, deps.API.ListEvents, deps.saveEvents),
	)
	return o
}

// Events lists the events the signed-in organizer owns. Without a known user
// id every event is listed.
func (o *Organizer) Events() []domain.Event {
	id := o.deps.Claims.UserID
	return collection.Where(o.events.Get(), func(e domain.Event) bool {
		return id == "" || e.OwnedBy(id)
	})
}

func (o *Organizer) KPIs(now time.Time) kpi.OrganizerKPIs {
	return kpi.Organizer(o.Events(), now)
}

func (o *Organizer) Search(q string, r calendar.Range) []domain.Event {
	events := collection.WithinRange(o.Events(), r, collection.EventDate)
	return collection.Search(events, q, collection.EventFields...)
}

func (o *Organizer) EventsOn(day calendar.Day) []domain.Event {
	return collection.OnDay(o.Events(), day, collection.EventDate)
}

// SellTicket sells one ticket for an owned event.
func (o *Organizer) SellTicket(ctx context.Context, id string) (client.Sale, error) {
	owned := collection.Where(o.Events(), func(e domain.Event) bool { return e.ID == id })
	if len(owned) == 0 {
		return client.Sale{}, fmt.Errorf("event %s: %w", id, ErrUnknownEvent)
	}
	return o.sales.SellTicket(ctx, id)
}

// Event re-reads one owned event from the server and folds it into the local
// list, so a detail view is current without waiting for the next tick.
func (o *Organizer) Event(ctx context.Context, id string) (domain.Event, error) {
	ev, err := o.deps.API.GetEvent(ctx, id)
	if err != nil {
		return domain.Event{}, fmt.Errorf("get event %s: %w", id, err)
	}
	if uid := o.deps.Claims.UserID; uid != "" && !ev.OwnedBy(uid) {
		return domain.Event{}, fmt.Errorf("event %s: %w", id, ErrUnknownEvent)
	}

	o.events.Update(func(current []domain.Event) []domain.Event {
		next := make([]domain.Event, 0, len(current)+1)
		found := false
		for _, e := range current {
			if e.ID == ev.ID {
				e = ev
				found = true
			}
			next = append(next, e)
		}
		if !found {
			next = append(next, ev)
		}
		return next
	})
	o.deps.saveEvents(ctx, o.events.Get())
	return ev, nil
}
