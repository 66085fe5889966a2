// Package cancellation lets a user pick several tickets for one event and
// cancel them in a single batch.
package cancellation

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kafka"
	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/Domenick1991/eventspark/internal/state"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrNothingSelected = errors.New("no bookings selected")
	ErrNotCancellable  = errors.New("booking cannot be cancelled")
	ErrBusy            = errors.New("a cancellation is already in progress")
)

const failureMessage = "Failed to cancel tickets. Please try again."

type BookingAPI interface {
	ListBookings(ctx context.Context) ([]domain.Booking, error)
	CancelBooking(ctx context.Context, id string) error
}

type Auditor interface {
	Record(ctx context.Context, event kafka.AuditEvent)
}

// Failure is one booking the API refused or never answered for.
type Failure struct {
	ID  string
	Err error
}

type Outcome struct {
	BatchID    string
	Requested  []string
	Succeeded  []string
	Failed     []Failure
	Reconciled bool
}

func (o Outcome) AllSucceeded() bool {
	return len(o.Failed) == 0
}

type Coordinator struct {
	api      BookingAPI
	bookings *state.Collection[[]domain.Booking]
	notifier notify.Notifier
	audit    Auditor
	actor    string
	now      func() time.Time
	onSync   func(ctx context.Context, bookings []domain.Booking)

	mu         sync.Mutex
	group      string
	selected   []string
	cancelling bool
}

type Option func(*Coordinator)

// WithAudit publishes every batch as one audit event attributed to actor.
func WithAudit(audit Auditor, actor string) Option {
	return func(c *Coordinator) {
		c.audit = audit
		c.actor = actor
	}
}

// WithSync is called with the server's booking list after each successful
// reconciliation.
func WithSync(fn func(ctx context.Context, bookings []domain.Booking)) Option {
	return func(c *Coordinator) {
		c.onSync = fn
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

func NewCoordinator(api BookingAPI, bookings *state.Collection[[]domain.Booking], notifier notify.Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:      api,
		bookings: bookings,
		notifier: notifier,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin starts a fresh selection limited to one event's bookings.
func (c *Coordinator) Begin(group domain.BookingGroup) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.group = group.EventID
	c.selected = nil
}

// Toggle adds or removes a booking from the selection and reports whether it
// is selected afterwards.
func (c *Coordinator) Toggle(id string) (bool, error) {
	booking, ok := c.find(id)
	if !ok || !booking.CanCancel() {
		return false, fmt.Errorf("booking %s: %w", id, ErrNotCancellable)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.group != "" && booking.EventID() != c.group {
		return false, fmt.Errorf("booking %s is not for event %s: %w", id, c.group, ErrNotCancellable)
	}
	if i := slices.Index(c.selected, id); i >= 0 {
		c.selected = slices.Delete(c.selected, i, i+1)
		return false, nil
	}
	c.selected = append(c.selected, id)
	return true, nil
}

func (c *Coordinator) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return slices.Clone(c.selected)
}

// SelectedTotal sums the ticket prices of the selected bookings.
func (c *Coordinator) SelectedTotal() float64 {
	selected := c.Selected()
	var total float64
	for _, b := range c.bookings.Get() {
		if slices.Contains(selected, b.ID) {
			total += b.TicketPrice.Float()
		}
	}
	return total
}

func (c *Coordinator) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.group = ""
	c.selected = nil
}

// Cancel sends one cancel request per selected booking, waits for all of
// them and then replaces local state with the server's booking list no matter
// how the individual requests went.
func (c *Coordinator) Cancel(ctx context.Context) (Outcome, error) {
	ids, err := c.start()
	if err != nil {
		return Outcome{}, err
	}
	defer c.finish()

	out := Outcome{BatchID: uuid.NewString(), Requested: ids}
	previous, tok := c.ApplyOptimistic(ids)

	results := make([]error, len(ids))
	var g errgroup.Group
	for i, id := range ids {
		g.Go(func() error {
			results[i] = c.api.CancelBooking(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	var failedIDs []string
	for i, id := range ids {
		if results[i] != nil {
			out.Failed = append(out.Failed, Failure{ID: id, Err: results[i]})
			failedIDs = append(failedIDs, id)
			continue
		}
		out.Succeeded = append(out.Succeeded, id)
	}

	reconcileErr := c.Reconcile(ctx)
	out.Reconciled = reconcileErr == nil
	if out.Reconciled {
		c.Clear()
	} else {
		log.Printf("WARNING: reconcile after cancelling batch %s failed: %v", out.BatchID, reconcileErr)
		c.rollback(failedIDs, previous, tok)
		c.keep(failedIDs)
	}

	if out.AllSucceeded() {
		c.notifier.Success(successMessage(len(ids)))
	} else {
		c.notifier.Error(failureMessage)
	}
	c.record(ctx, out)

	var errs []error
	for _, f := range out.Failed {
		errs = append(errs, fmt.Errorf("cancel booking %s: %w", f.ID, f.Err))
	}
	if reconcileErr != nil {
		errs = append(errs, fmt.Errorf("reconcile bookings: %w", reconcileErr))
	}
	return out, errors.Join(errs...)
}

// start claims the coordinator for one batch and snapshots the selection.
func (c *Coordinator) start() ([]string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cancelling {
		return nil, ErrBusy
	}
	if len(c.selected) == 0 {
		return nil, ErrNothingSelected
	}
	c.cancelling = true
	return slices.Clone(c.selected), nil
}

func (c *Coordinator) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cancelling = false
}

// ApplyOptimistic marks the given bookings cancelled in local state under a
// fresh request token. It returns their previous statuses and the token of the
// edit.
func (c *Coordinator) ApplyOptimistic(ids []string) (map[string]domain.BookingStatus, state.Token) {
	previous := make(map[string]domain.BookingStatus, len(ids))
	at := c.now()
	tok := c.bookings.Update(func(current []domain.Booking) []domain.Booking {
		next := make([]domain.Booking, len(current))
		for i, b := range current {
			if slices.Contains(ids, b.ID) && b.CanCancel() {
				previous[b.ID] = b.Status
				b = b.WithStatus(domain.BookingStatusCancelled, at)
			}
			next[i] = b
		}
		return next
	})
	return previous, tok
}

// Reconcile replaces local bookings with the server's list.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	bookings, applied, err := c.bookings.Refresh(ctx, c.api.ListBookings)
	if err != nil {
		return err
	}
	if applied && c.onSync != nil {
		c.onSync(ctx, bookings)
	}
	return nil
}

// rollback restores the previous status of ids, but only while the optimistic
// edit made under tok is still the latest write. Anything applied since came
// from the server and may already show the booking cancelled, which is final.
func (c *Coordinator) rollback(ids []string, previous map[string]domain.BookingStatus, tok state.Token) {
	if len(ids) == 0 {
		return
	}
	at := c.now()
	amended := c.bookings.Amend(tok, func(current []domain.Booking) []domain.Booking {
		next := make([]domain.Booking, len(current))
		for i, b := range current {
			status, ok := previous[b.ID]
			if ok && slices.Contains(ids, b.ID) && b.Status.Normalize() == domain.BookingStatusCancelled {
				b = b.WithStatus(status, at)
			}
			next[i] = b
		}
		return next
	})
	if !amended {
		log.Printf("WARNING: bookings changed since the optimistic cancel, keeping server state for %v", ids)
	}
}

// keep narrows the selection to ids so a retry only resends what failed.
func (c *Coordinator) keep(ids []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selected = slices.DeleteFunc(c.selected, func(id string) bool {
		return !slices.Contains(ids, id)
	})
}

func (c *Coordinator) find(id string) (domain.Booking, bool) {
	for _, b := range c.bookings.Get() {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Booking{}, false
}

func (c *Coordinator) record(ctx context.Context, out Outcome) {
	if c.audit == nil {
		return
	}
	failed := make([]string, 0, len(out.Failed))
	for _, f := range out.Failed {
		failed = append(failed, f.ID)
	}
	c.audit.Record(ctx, kafka.AuditEvent{
		Type:      kafka.AuditBookingsCancelled,
		BatchID:   out.BatchID,
		Actor:     c.actor,
		Subjects:  out.Requested,
		Succeeded: out.Succeeded,
		Failed:    failed,
	})
}

func successMessage(n int) string {
	if n == 1 {
		return "Successfully cancelled 1 ticket"
	}
	return fmt.Sprintf("Successfully cancelled %d tickets", n)
}
