// Package roles implements the admin's user management: moving users between
// role buckets and inviting new ones.
package roles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kafka"
	"github.com/Domenick1991/eventspark/internal/notify"
	"github.com/Domenick1991/eventspark/internal/state"
	"github.com/go-playground/validator/v10"
)

var (
	ErrUserExists  = errors.New("user already exists")
	ErrInvalidRole = errors.New("invalid role")
)

type UserAPI interface {
	ListUsers(ctx context.Context) (domain.Buckets, error)
	CreateUser(ctx context.Context, user domain.NewUser) error
	UpdateRole(ctx context.Context, email string, role domain.Role) error
}

type Auditor interface {
	Record(ctx context.Context, event kafka.AuditEvent)
}

type Coordinator struct {
	api      UserAPI
	users    *state.Collection[domain.Buckets]
	notifier notify.Notifier
	validate *validator.Validate
	audit    Auditor
	actor    string
	onSync   func(ctx context.Context, buckets domain.Buckets)
}

type Option func(*Coordinator)

func WithAudit(audit Auditor, actor string) Option {
	return func(c *Coordinator) {
		c.audit = audit
		c.actor = actor
	}
}

func WithSync(fn func(ctx context.Context, buckets domain.Buckets)) Option {
	return func(c *Coordinator) {
		c.onSync = fn
	}
}

func NewCoordinator(api UserAPI, users *state.Collection[domain.Buckets], notifier notify.Notifier, opts ...Option) *Coordinator {
	c := &Coordinator{
		api:      api,
		users:    users,
		notifier: notifier,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ChangeRole moves the user locally, asks the API to do the same and then
// re-reads the buckets whatever the API said.
func (c *Coordinator) ChangeRole(ctx context.Context, email string, role domain.Role) error {
	if !role.Valid() {
		return fmt.Errorf("role %q: %w", role, ErrInvalidRole)
	}

	c.ApplyOptimistic(email, role)

	err := c.api.UpdateRole(ctx, email, role)
	if err != nil {
		c.notifier.Error(client.Message(err, "Failed to update role"))
	} else {
		c.notifier.Success("Role updated and user notified by email.")
	}

	if rerr := c.Reconcile(ctx); rerr != nil {
		log.Printf("WARNING: reconcile users after role change for %s failed: %v", email, rerr)
	}
	c.record(ctx, kafka.AuditRoleChanged, email, string(role), err)

	if err != nil {
		return fmt.Errorf("update role for %s: %w", email, err)
	}
	return nil
}

// ApplyOptimistic moves the user into role's bucket in local state and
// reports whether the email was known.
func (c *Coordinator) ApplyOptimistic(email string, role domain.Role) bool {
	var found bool
	c.users.Update(func(current domain.Buckets) domain.Buckets {
		var moved domain.Buckets
		moved, found = current.Move(email, role)
		return moved
	})
	return found
}

// AddUser invites a new user. Emails already present in any bucket are
// rejected locally; their role is changed with ChangeRole instead.
func (c *Coordinator) AddUser(ctx context.Context, user domain.NewUser) error {
	user.Email = strings.TrimSpace(user.Email)
	if err := c.validate.Struct(user); err != nil {
		return fmt.Errorf("invalid user: %w", err)
	}

	if c.users.Get().Contains(user.Email) {
		c.notifier.Error("User already exists, please change their role using the dropdown.")
		return fmt.Errorf("%s: %w", user.Email, ErrUserExists)
	}

	if err := c.api.CreateUser(ctx, user); err != nil {
		c.notifier.Error(client.Message(err, "Failed to add user"))
		c.record(ctx, kafka.AuditUserInvited, user.Email, string(user.Role), err)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}
	c.notifier.Success("Invite sent successfully!")
	c.record(ctx, kafka.AuditUserInvited, user.Email, string(user.Role), nil)

	if err := c.Reconcile(ctx); err != nil {
		log.Printf("WARNING: reconcile users after invite for %s failed: %v", user.Email, err)
	}
	return nil
}

// Reconcile replaces local buckets with the server's.
func (c *Coordinator) Reconcile(ctx context.Context) error {
	buckets, applied, err := c.users.Refresh(ctx, c.api.ListUsers)
	if err != nil {
		return err
	}
	if applied && c.onSync != nil {
		c.onSync(ctx, buckets)
	}
	return nil
}

func (c *Coordinator) record(ctx context.Context, kind, subject, detail string, err error) {
	if c.audit == nil {
		return
	}
	ev := kafka.AuditEvent{
		Type:     kind,
		Actor:    c.actor,
		Subjects: []string{subject},
		Detail:   detail,
	}
	if err != nil {
		ev.Failed = ev.Subjects
	} else {
		ev.Succeeded = ev.Subjects
	}
	c.audit.Record(ctx, ev)
}
