package api

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/gin-gonic/gin"
)

type AdminDashboard interface {
	KPIs() dashboard.AdminKPIs
	Pending() []domain.Event
	Search(q string, r calendar.Range) []domain.Event
	EventsOn(day calendar.Day) []domain.Event
	Users() domain.Buckets
	Report(w io.Writer, q string, r calendar.Range) error
}

type Moderator interface {
	Approve(ctx context.Context, id string) error
	Deny(ctx context.Context, id string) error
}

type RoleManager interface {
	ChangeRole(ctx context.Context, email string, role domain.Role) error
	AddUser(ctx context.Context, user domain.NewUser) error
}

type AdminHandler struct {
	dashboard AdminDashboard
	moderator Moderator
	roles     RoleManager
}

type changeRoleRequest struct {
	Email string `json:"email" binding:"required"`
	Role  string `json:"role" binding:"required"`
}

func NewAdminHandler(dashboard AdminDashboard, moderator Moderator, roles RoleManager) *AdminHandler {
	return &AdminHandler{dashboard: dashboard, moderator: moderator, roles: roles}
}

func (h *AdminHandler) Register(router *gin.RouterGroup) {
	router.GET("/kpis", h.kpis)
	router.GET("/events", h.events)
	router.GET("/events/pending", h.pending)
	router.POST("/events/:id/approve", h.approve)
	router.POST("/events/:id/deny", h.deny)
	router.GET("/users", h.users)
	router.POST("/users", h.addUser)
	router.PATCH("/users/role", h.changeRole)
	router.GET("/report", h.report)
}

func (h *AdminHandler) kpis(c *gin.Context) {
	c.JSON(http.StatusOK, h.dashboard.KPIs())
}

func (h *AdminHandler) events(c *gin.Context) {
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

func (h *AdminHandler) pending(c *gin.Context) {
	c.JSON(http.StatusOK, toEvents(h.dashboard.Pending()))
}

func (h *AdminHandler) approve(c *gin.Context) {
	if err := h.moderator.Approve(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) deny(c *gin.Context) {
	if err := h.moderator.Deny(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) users(c *gin.Context) {
	c.JSON(http.StatusOK, toUsers(h.dashboard.Users()))
}

func (h *AdminHandler) addUser(c *gin.Context) {
	var req domain.NewUser
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Role == "" {
		req.Role = domain.RoleUser
	}
	if err := h.roles.AddUser(c.Request.Context(), req); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusCreated)
}

func (h *AdminHandler) changeRole(c *gin.Context) {
	var req changeRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.roles.ChangeRole(c.Request.Context(), req.Email, domain.Role(req.Role)); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) report(c *gin.Context) {
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", dashboard.ReportFilename()))
	c.Status(http.StatusOK)
	if err := h.dashboard.Report(c.Writer, c.Query("q"), rangeQuery(c)); err != nil {
		_ = c.Error(err)
	}
}
