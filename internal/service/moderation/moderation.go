// Package moderation covers the event mutations made from the dashboards: the
// admin approving or denying submissions and organizers selling tickets at
// the door.
package moderation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kafka"
	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/Domenick1991/eventspark/internal/state"
)

var ErrNotPending = errors.New("event is not pending")

type EventAPI interface {
	ListEvents(ctx context.Context) ([]domain.Event, error)
	UpdateEventStatus(ctx context.Context, id string, status domain.EventStatus) error
	SellTickets(ctx context.Context, id string, quantity int) (client.Sale, error)
}

type Auditor interface {
	Record(ctx context.Context, event kafka.AuditEvent)
}

type Coordinator struct {
	api      EventAPI
	events   *state.Collection[[]domain.Event]
	notifier notify.Notifier
	audit    Auditor
	actor    string
	onSync   func(ctx context.Context, events []domain.Event)
}

type Option func(*Coordinator)

func WithAudit(audit Auditor, actor string) Option {
	return func(c *Coordinator) {
		c.audit = audit
		c.actor = actor
	}
}

func WithSync(fn func(ctx context.Context, events []domain.Event)) Option {
	return func(c *Coordinator) {
		c.onSync = fn
	}
}

func NewCoordinator(api EventAPI, events *state.Collection[[]domain.Event], notifier notify.Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{api: api, events: events, notifier: notifier}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Coordinator) Approve(ctx context.Context, id string) error {
	return c.moderate(ctx, id, domain.EventStatusApproved, "Event approved successfully.", kafka.AuditEventApproved)
}

// Deny moves a pending event to cancelled.
func (c *Coordinator) Deny(ctx context.Context, id string) error {
	return c.moderate(ctx, id, domain.EventStatusCancelled, "Event denied successfully.", kafka.AuditEventDenied)
}

func (c *Coordinator) moderate(ctx context.Context, id string, status domain.EventStatus, success, kind string) error {
	ev, ok := c.find(id)
	if !ok || !ev.IsPending() {
		return fmt.Errorf("event %s: %w", id, ErrNotPending)
	}

	c.ApplyOptimistic(id, status)

	err := c.api.UpdateEventStatus(ctx, id, status)
	if err != nil {
		c.notifier.Error(client.Message(err, "Failed to update event"))
	} else {
		c.notifier.Success(success)
	}

	if rerr := c.Reconcile(ctx); rerr != nil {
		log.Printf("WARNING: reconcile events after %s of %s failed: %v", kind, id, rerr)
	}
	c.record(ctx, kind, id, string(status), err)

	if err != nil {
		return fmt.Errorf("set event %s to %s: %w", id, status, err)
	}
	return nil
}

// ApplyOptimistic sets the event's status in local state.
func (c *Coordinator) ApplyOptimistic(id string, status domain.EventStatus) {
	c.events.Update(func(current []domain.Event) []domain.Event {
		next := make([]domain.Event, len(current))
		for i, ev := range current {
			if ev.ID == id {
				ev.Status = status
			}
			next[i] = ev
		}
		return next
	})
}

// SellTicket sells one ticket for the event and re-reads the event list.
func (c *Coordinator) SellTicket(ctx context.Context, id string) (client.Sale, error) {
	sale, err := c.api.SellTickets(ctx, id, 1)
	if err != nil {
		c.notifier.Error(client.Message(err, "Failed to sell ticket"))
		c.record(ctx, kafka.AuditTicketSold, id, "", err)
		return client.Sale{}, fmt.Errorf("sell ticket for %s: %w", id, err)
	}

	price := sale.TicketPrice.Float()
	if price == 0 {
		if ev, ok := c.find(id); ok {
			price = ev.TicketPrice.Float()
		}
	}
	c.notifier.Success(fmt.Sprintf("Ticket sold for $%s!", strconv.FormatFloat(price, 'f', -1, 64)))
	c.record(ctx, kafka.AuditTicketSold, id, "", nil)

	if err := c.Reconcile(ctx); err != nil {
		log.Printf("WARNING: reconcile events after ticket sale for %s failed: %v", id, err)
	}
	return sale, nil
}

// Reconcile replaces local events with the server's list.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	events, applied, err := c.events.Refresh(ctx, c.api.ListEvents)
	if err != nil {
		return err
	}
	if applied && c.onSync != nil {
		c.onSync(ctx, events)
	}
	return nil
}

func (c *Coordinator) find(id string) (domain.Event, bool) {
	for _, ev := range c.events.Get() {
		if ev.ID == id {
			return ev, true
		}
	}
	return domain.Event{}, false
}

func (c *Coordinator) record(ctx context.Context, kind, id, detail string, err error) {
	if c.audit == nil {
		return
	}
	ev := kafka.AuditEvent{Type: kind, Actor: c.actor, Subjects: []string{id}, Detail: detail}
	if err != nil {
		ev.Failed = ev.Subjects
	} else {
		ev.Succeeded = ev.Subjects
	}
	c.audit.Record(ctx, ev)
}
