package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/grouping"
	"github.com/Domenick1991/eventspark/internal/service/cancellation"
	"github.com/gin-gonic/gin"
)

type UserDashboard interface {
	Browse(q dashboard.BrowseQuery) []domain.Event
	EventsOn(day calendar.Day) []domain.Event
	BookingsOn(day calendar.Day) []domain.Booking
	Groups(lifecycle grouping.Lifecycle) []domain.BookingGroup
	Group(eventID string) (domain.BookingGroup, bool)
}

type Canceller interface {
	Begin(group domain.BookingGroup)
	Toggle(id string) (bool, error)
	Selected() []string
	SelectedTotal() float64
	Clear()
	Cancel(ctx context.Context) (cancellation.Outcome, error)
}

type UserHandler struct {
	dashboard UserDashboard
	cancel    Canceller
}

type selectionResponse struct {
	EventID  string   `json:"eventId,omitempty"`
	Selected []string `json:"selected"`
	Total    float64  `json:"total"`
}

type cancelResponse struct {
	BatchID    string            `json:"batchId"`
	Succeeded  []string          `json:"succeeded"`
	Failed     map[string]string `json:"failed,omitempty"`
	Reconciled bool              `json:"reconciled"`
}

func NewUserHandler(dashboard UserDashboard, cancel Canceller) *UserHandler {
	return &UserHandler{dashboard: dashboard, cancel: cancel}
}

func (h *UserHandler) Register(router *gin.RouterGroup) {
	router.GET("/events", h.events)
	router.GET("/bookings/groups", h.groups)
	router.GET("/bookings/day", h.bookingsOnDay)
	router.POST("/bookings/groups/:eventId/selection", h.beginSelection)
	router.POST("/bookings/selection/:id", h.toggle)
	router.DELETE("/bookings/selection", h.clearSelection)
	router.POST("/bookings/cancel", h.cancelSelected)
}

func (h *UserHandler) events(c *gin.Context) {
	day, onDay, err := dayQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if onDay {
		c.JSON(http.StatusOK, toEvents(h.dashboard.EventsOn(day)))
		return
	}

	events := h.dashboard.Browse(dashboard.BrowseQuery{
		Search:   c.Query("q"),
		Category: c.Query("category"),
		Range:    rangeQuery(c),
	})
	c.JSON(http.StatusOK, toEvents(events))
}

func (h *UserHandler) groups(c *gin.Context) {
	lifecycle := grouping.Lifecycle(c.DefaultQuery("lifecycle", string(grouping.Current)))
	if !lifecycle.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lifecycle must be current, previous or cancelled"})
		return
	}
	c.JSON(http.StatusOK, toGroups(h.dashboard.Groups(lifecycle)))
}

func (h *UserHandler) bookingsOnDay(c *gin.Context) {
	day, ok, err := dayQuery(c)
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "day is required as YYYY-MM-DD"})
		return
	}
	c.JSON(http.StatusOK, toBookings(h.dashboard.BookingsOn(day)))
}

func (h *UserHandler) beginSelection(c *gin.Context) {
	eventID := c.Param("eventId")
	group, ok := h.dashboard.Group(eventID)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no current tickets for event " + eventID})
		return
	}
	h.cancel.Begin(group)
	c.JSON(http.StatusOK, h.selection(eventID))
}

func (h *UserHandler) toggle(c *gin.Context) {
	if _, err := h.cancel.Toggle(c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.selection(""))
}

func (h *UserHandler) clearSelection(c *gin.Context) {
	h.cancel.Clear()
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) cancelSelected(c *gin.Context) {
	out, err := h.cancel.Cancel(c.Request.Context())
	if errors.Is(err, cancellation.ErrNothingSelected) || errors.Is(err, cancellation.ErrBusy) {
		writeError(c, err)
		return
	}

	resp := cancelResponse{
		BatchID:    out.BatchID,
		Succeeded:  out.Succeeded,
		Reconciled: out.Reconciled,
	}
	if resp.Succeeded == nil {
		resp.Succeeded = []string{}
	}
	if len(out.Failed) > 0 {
		resp.Failed = make(map[string]string, len(out.Failed))
		for _, f := range out.Failed {
			resp.Failed[f.ID] = f.Err.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) selection(eventID string) selectionResponse {
	selected := h.cancel.Selected()
	if selected == nil {
		selected = []string{}
	}
	return selectionResponse{EventID: eventID, Selected: selected, Total: h.cancel.SelectedTotal()}
}
