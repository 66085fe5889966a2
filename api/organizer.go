package api

import (
	"context"
	"net/http"
	"time"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kpi"
	"github.com/gin-gonic/gin"
)

type OrganizerDashboard interface {
	KPIs(now time.Time) kpi.OrganizerKPIs
	Search(q string, r calendar.Range) []domain.Event
	EventsOn(day calendar.Day) []domain.Event
	Event(ctx context.Context, id string) (domain.Event, error)
	SellTicket(ctx context.Context, id string) (client.Sale, error)
}

type OrganizerHandler struct {
	dashboard OrganizerDashboard
	now       func() time.Time
}

type saleResponse struct {
	TicketPrice float64 `json:"ticketPrice"`
	SoldTickets int     `json:"soldTickets"`
}

func NewOrganizerHandler(dashboard OrganizerDashboard) *OrganizerHandler {
	return &OrganizerHandler{dashboard: dashboard, now: time.Now}
}

func (h *OrganizerHandler) Register(router *gin.RouterGroup) {
	router.GET("/kpis", h.kpis)
	router.GET("/events", h.events)
	router.GET("/events/:id", h.event)
	router.POST("/events/:id/sell", h.sell)
}

func (h *OrganizerHandler) kpis(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.KPIs(h.now()))
}

func (h *OrganizerHandler) events(c *gin.Context) {
	day, onDay, err := dayQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if onDay {
		c.JSON(http.StatusOK, toEvents(h.dashboard.EventsOn(day)))
		return
	}
	c.JSON(http.StatusOK, toEvents(h.dashboard.Search(c.Query("q"), rangeQuery(c))))
}

func (h *OrganizerHandler) event(c *gin.Context) {
	ev, err := h.dashboard.Event(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toEvent(ev))
}

func (h *OrganizerHandler) sell(c *gin.Context) {
	sale, err := h.dashboard.SellTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saleResponse{
		TicketPrice: sale.TicketPrice.Float(),
		SoldTickets: sale.SoldTickets.Int(),
	})
}
