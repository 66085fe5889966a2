package dashboard

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/collection"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kpi"
	"github.com/Domenick1991/eventspark/internal/service/moderation"
	"github.com/Domenick1991/eventspark/internal/service/roles"
	"github.com/Domenick1991/eventspark/internal/state"
	"github.com/gosimple/slug"
)

const reportTitle = "EventSpark AdminDashboard Report"

var reportHeader = []string{
	"Event Name", "Date", "Time", "Ticket Price", "Sold/Available", "Revenue", "Organizer Name",
}

type AdminKPIs struct {
	kpi.EventKPIs
	kpi.UserKPIs
}

type Admin struct {
	base
	events     *state.Collection[[]domain.Event]
	users      *state.Collection[domain.Buckets]
	moderation *moderation.Coordinator
	roles      *roles.Coordinator
}

func NewAdmin(deps Deps) *Admin {
	a := &Admin{
		events: &state.Collection[[]domain.Event]{},
		users:  &state.Collection[domain.Buckets]{},
	}
	a.moderation = moderation.NewCoordinator(deps.API, a.events, deps.Notifier,
		moderation.WithAudit(deps.Audit, deps.actor()),
		moderation.WithSync(deps.saveEvents),
	)
	a.roles = roles.NewCoordinator(deps.API, a.users, deps.Notifier,
		roles.WithAudit(deps.Audit, deps.actor()),
		roles.WithSync(deps.saveUsers),
	)
	a.base = newBase(deps,
		func(ctx context.Context) {
			deps.seedEvents(ctx, a.events)
			deps.seedUsers(ctx, a.users)
		},
		fetchTask("events", a.events, deps.API.ListEvents, deps.saveEvents),
		fetchTask("users", a.users, deps.API.ListUsers, deps.saveUsers),
	)
	return a
}

func (a *Admin) KPIs() AdminKPIs {
	return AdminKPIs{
		EventKPIs: kpi.Events(a.events.Get()),
		UserKPIs:  kpi.Users(a.users.Get()),
	}
}

func (a *Admin) Events() []domain.Event {
	return a.events.Get()
}

// Pending lists submissions awaiting moderation.
func (a *Admin) Pending() []domain.Event {
	return collection.ByStatus(a.events.Get(), domain.EventStatusPending)
}

func (a *Admin) Search(q string, r calendar.Range) []domain.Event {
	events := collection.WithinRange(a.events.Get(), r, collection.EventDate)
	return collection.Search(events, q, collection.EventFields...)
}

func (a *Admin) EventsOn(day calendar.Day) []domain.Event {
	return collection.OnDay(a.events.Get(), day, collection.EventDate)
}

// Users returns the role buckets with every role present.
func (a *Admin) Users() domain.Buckets {
	return a.users.Get().Clone()
}

func (a *Admin) Moderation() *moderation.Coordinator {
	return a.moderation
}

func (a *Admin) Roles() *roles.Coordinator {
	return a.roles
}

// ReportFilename is the download name for Report.
func ReportFilename() string {
	return slug.Make(reportTitle) + ".csv"
}

// Report writes the events matching q and r as CSV, one row per event.
func (a *Admin) Report(w io.Writer, q string, r calendar.Range) error {
	return writeReport(w, a.Search(q, r))
}

func writeReport(w io.Writer, events []domain.Event) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}
	for _, ev := range events {
		organizer := "-"
		switch {
		case ev.Organizer != nil && ev.Organizer.Name != "":
			organizer = ev.Organizer.Name
		case ev.CreatedBy != nil && ev.CreatedBy.Name != "":
			organizer = ev.CreatedBy.Name
		}
		row := []string{
			ev.Name,
			ev.Date,
			ev.Time,
			formatAmount(ev.TicketPrice),
			fmt.Sprintf("%d/%d", ev.SoldTickets.Int(), ev.TotalSeats.Int()),
			formatAmount(ev.Revenue),
			organizer,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row for %s: %w", ev.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatAmount(a domain.Amount) string {
	return strconv.FormatFloat(a.Float(), 'f', -1, 64)
}
