// Package collection holds the search and filter helpers the dashboards run
// over events and bookings. Every function returns a new slice and leaves its
// input untouched.
package collection

import (
	"slices"
	"strings"

	"github.com/Domenick1991/eventspark/internal/calendar"
)

// Field extracts one searchable string from an item.
type Field[T any] func(T) string

// Search keeps items where any field contains query, ignoring case. A blank
// query keeps everything.
func Search[T any](items []T, query string, fields ...Field[T]) []T {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return slices.Clone(items)
	}

	return Where(items, func(item T) bool {
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field(item)), query) {
				return true
			}
		}
		return false
	})
}

// Where keeps items matching pred.
func Where[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

// WithinRange keeps items whose date lies in r, bounds included. An open range
// keeps everything; otherwise items with an unreadable date are dropped.
func WithinRange[T any](items []T, r calendar.Range, dateOf Field[T]) []T {
	if r.Open() {
		return slices.Clone(items)
	}

	return Where(items, func(item T) bool {
		d, ok := calendar.ParseDay(dateOf(item))
		return ok && r.Contains(d)
	})
}

// OnDay keeps items dated on the given day.
func OnDay[T any](items []T, day calendar.Day, dateOf Field[T]) []T {
	return Where(items, func(item T) bool {
		d, ok := calendar.ParseDay(dateOf(item))
		return ok && d == day
	})
}
