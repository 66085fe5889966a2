// Package dashboard holds the three role dashboards. Each one owns its
// collections, keeps them fresh while mounted and exposes the filtered views
// and coordinators its screen needs.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kafka"
	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/Domenick1991/eventspark/internal/refresh"
	"github.com/Domenick1991/eventspark/internal/service/cancellation"
	"github.com/Domenick1991/eventspark/internal/service/moderation"
	"github.com/Domenick1991/eventspark/internal/service/roles"
	"github.com/Domenick1991/eventspark/internal/session"
	"github.com/Domenick1991/eventspark/internal/state"
)

var ErrUnknownEvent = errors.New("unknown event")

// API is the part of the REST client the dashboards use.
type API interface {
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	cancellation.BookingAPI
	roles.UserAPI
	moderation.EventAPI
}

// Snapshots stores the last good copy of each collection. Getters return nil
// without error on a miss.
type Snapshots interface {
	GetEvents(ctx context.Context, scope string) ([]domain.Event, error)
	SetEvents(ctx context.Context, scope string, events []domain.Event) error
	GetBookings(ctx context.Context, scope string) ([]domain.Booking, error)
	SetBookings(ctx context.Context, scope string, bookings []domain.Booking) error
	GetUsers(ctx context.Context) (domain.Buckets, error)
	SetUsers(ctx context.Context, buckets domain.Buckets) error
}

type Auditor interface {
	Record(ctx context.Context, event kafka.AuditEvent)
}

// Deps are shared by every dashboard. Cache and Audit may be nil.
type Deps struct {
	API      API
	Cache    Snapshots
	Notifier notify.Notifier
	Audit    Auditor
	Claims   session.Claims
	Interval time.Duration
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) actor() string {
	if d.Claims.UserID != "" {
		return d.Claims.UserID
	}
	return d.Claims.Email
}

func (d Deps) eventsScope() string {
	return fmt.Sprintf("%s:%s", d.Claims.Role, d.Claims.UserID)
}

func (d Deps) saveEvents(ctx context.Context, events []domain.Event) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.SetEvents(ctx, d.eventsScope(), events); err != nil {
		log.Printf("WARNING: failed to cache events snapshot: %v", err)
	}
}

func (d Deps) saveBookings(ctx context.Context, bookings []domain.Booking) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.SetBookings(ctx, d.Claims.UserID, bookings); err != nil {
		log.Printf("WARNING: failed to cache bookings snapshot: %v", err)
	}
}

func (d Deps) saveUsers(ctx context.Context, buckets domain.Buckets) {
	if d.Cache == nil {
		return
	}
	if err := d.Cache.SetUsers(ctx, buckets); err != nil {
		log.Printf("WARNING: failed to cache users snapshot: %v", err)
	}
}

func (d Deps) seedEvents(ctx context.Context, c *state.Collection[[]domain.Event]) {
	if d.Cache == nil {
		return
	}
	events, err := d.Cache.GetEvents(ctx, d.eventsScope())
	if err != nil {
		log.Printf("WARNING: failed to read events snapshot: %v", err)
		return
	}
	if events != nil {
		c.Seed(events)
	}
}

func (d Deps) seedBookings(ctx context.Context, c *state.Collection[[]domain.Booking]) {
	if d.Cache == nil {
		return
	}
	bookings, err := d.Cache.GetBookings(ctx, d.Claims.UserID)
	if err != nil {
		log.Printf("WARNING: failed to read bookings snapshot: %v", err)
		return
	}
	if bookings != nil {
		c.Seed(bookings)
	}
}

func (d Deps) seedUsers(ctx context.Context, c *state.Collection[domain.Buckets]) {
	if d.Cache == nil {
		return
	}
	buckets, err := d.Cache.GetUsers(ctx)
	if err != nil {
		log.Printf("WARNING: failed to read users snapshot: %v", err)
		return
	}
	if buckets != nil {
		c.Seed(buckets.Clone())
	}
}

// fetchTask re-reads one collection and snapshots what it applied.
func fetchTask[T any](name string, c *state.Collection[T], fetch func(context.Context) (T, error), save func(context.Context, T)) refresh.Task {
	return refresh.Task{
		Name: name,
		Run: func(ctx context.Context) error {
			v, applied, err := c.Refresh(ctx, fetch)
			if err != nil {
				return err
			}
			if applied {
				save(ctx, v)
			}
			return nil
		},
	}
}

// base is the mount lifecycle shared by the dashboards.
type base struct {
	deps      Deps
	tasks     []refresh.Task
	seed      func(ctx context.Context)
	scheduler *refresh.Scheduler
}

func newBase(deps Deps, seed func(context.Context), tasks ...refresh.Task) base {
	return base{
		deps:      deps,
		tasks:     tasks,
		seed:      seed,
		scheduler: refresh.NewScheduler(deps.Interval, tasks...),
	}
}

// Mount seeds the collections from the snapshot cache and starts polling. The
// first fetch of every collection fires immediately.
func (b *base) Mount(ctx context.Context) error {
	if b.scheduler.Running() {
		return refresh.ErrRunning
	}
	if b.seed != nil {
		b.seed(ctx)
	}
	return b.scheduler.Start(ctx)
}

// Unmount stops polling and cancels fetches still in flight.
func (b *base) Unmount() error {
	return b.scheduler.Stop()
}

func (b *base) Mounted() bool {
	return b.scheduler.Running()
}

// Refresh fetches every collection now and waits for the results.
func (b *base) Refresh(ctx context.Context) error {
	var errs []error
	for _, task := range b.tasks {
		if err := task.Run(ctx); err != nil {
			errs = append(errs, fmt.Errorf("refresh %s: %w", task.Name, err))
		}
	}
	return errors.Join(errs...)
}

// Invalidate asks a mounted dashboard to re-fetch out of band.
func (b *base) Invalidate() error {
	return b.scheduler.RunNow()
}
