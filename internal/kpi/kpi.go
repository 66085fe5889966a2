// Package kpi computes the dashboard summary figures. All functions are pure.
package kpi

import (
	"time"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/domain"
)

type EventKPIs struct {
	TotalEvents  int     `json:"totalEvents"`
	TotalRevenue float64 `json:"totalRevenue"`
}

type UserKPIs struct {
	TotalUsers      int `json:"totalUsers"`
	TotalOrganizers int `json:"totalOrganizers"`
}

type OrganizerKPIs struct {
	TotalEvents    int     `json:"totalEvents"`
	ActiveEvents   int     `json:"activeEvents"`
	TotalRevenue   float64 `json:"totalRevenue"`
	TotalAttendees int     `json:"totalAttendees"`
}

func Events(events []domain.Event) EventKPIs {
	return EventKPIs{
		TotalEvents:  len(events),
		TotalRevenue: Revenue(events),
	}
}

// Users counts the plain-user and organizer buckets.
func Users(buckets domain.Buckets) UserKPIs {
	return UserKPIs{
		TotalUsers:      len(buckets[domain.RoleUser]),
		TotalOrganizers: len(buckets[domain.RoleOrganizer]),
	}
}

func Organizer(events []domain.Event, now time.Time) OrganizerKPIs {
	out := OrganizerKPIs{
		TotalEvents:  len(events),
		TotalRevenue: Revenue(events),
	}
	for _, e := range events {
		if IsActive(e, now) {
			out.ActiveEvents++
		}
		out.TotalAttendees += e.Attendees.Int()
	}
	return out
}

// Revenue sums event revenue; unreadable amounts count as zero.
func Revenue(events []domain.Event) float64 {
	var total float64
	for _, e := range events {
		total += e.Revenue.Float()
	}
	return total
}

// IsActive reports whether the event starts strictly after now. The event
// time is read in now's location; a missing time means midnight and a
// missing or unreadable date is never active.
func IsActive(e domain.Event, now time.Time) bool {
	start, ok := calendar.At(e.Date, e.Time, now.Location())
	if !ok {
		return false
	}
	return start.After(now)
}
