// Package notify carries the non-blocking user notifications ("toasts") the
// dashboards raise after mutations.
package notify

import (
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

type Notification struct {
	ID      string    `json:"id"`
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}

// Notifier is what coordinators report outcomes to. Calls never block on
// the user.
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

const DefaultHistory = 50

// Feed keeps the most recent notifications in memory for the local HTTP
// surface and writes each one to the log.
type Feed struct {
	mu    sync.Mutex
	items []Notification
	limit int
	now   func() time.Time
}

func NewFeed(limit int) *Feed {
	if limit <= 0 {
		limit = DefaultHistory
	}
	return &Feed{limit: limit, now: time.Now}
}

func (f *Feed) Success(message string) { f.push(LevelSuccess, message) }
func (f *Feed) Error(message string)   { f.push(LevelError, message) }
func (f *Feed) Info(message string)    { f.push(LevelInfo, message) }

func (f *Feed) push(level Level, message string) {
	n := Notification{
		ID:      uuid.NewString(),
		Level:   level,
		Message: message,
		At:      f.now(),
	}
	log.Printf("notify [%s] %s", level, message)

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = append(f.items, n)
	if over := len(f.items) - f.limit; over > 0 {
		f.items = slices.Delete(f.items, 0, over)
	}
}

// Recent returns the kept notifications, newest first.
func (f *Feed) Recent() []Notification {
	f.mu.Lock()
	out := slices.Clone(f.items)
	f.mu.Unlock()

	slices.Reverse(out)
	return out
}

// Last returns the newest notification.
func (f *Feed) Last() (Notification, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.items) == 0 {
		return Notification{}, false
	}
	return f.items[len(f.items)-1], true
}

var _ Notifier = (*Feed)(nil)
