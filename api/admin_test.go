package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/kpi"
	"github.com/Domenick1991/eventspark/internal/service/moderation"
	"github.com/Domenick1991/eventspark/internal/service/roles"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAdminHandler() (*AdminHandler, *MockAdminDashboard, *MockModerator, *MockRoleManager) {
	dash := &MockAdminDashboard{}
	moderator := &MockModerator{}
	roleManager := &MockRoleManager{}
	return NewAdminHandler(dash, moderator, roleManager), dash, moderator, roleManager
}

func TestAdminHandler_kpis(t *testing.T) {
	handler, mockDashboard, _, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/admin/kpis", nil)

	mockDashboard.On("KPIs").Return(dashboard.AdminKPIs{
		EventKPIs: kpi.EventKPIs{TotalEvents: 3, TotalRevenue: 175},
		UserKPIs:  kpi.UserKPIs{TotalUsers: 4, TotalOrganizers: 1},
	})

	handler.kpis(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalEvents":3,"totalRevenue":175,"totalUsers":4,"totalOrganizers":1}`, w.Body.String())

	mockDashboard.AssertExpectations(t)
}

func TestAdminHandler_pending(t *testing.T) {
	handler, mockDashboard, _, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/admin/events/pending", nil)

	mockDashboard.On("Pending").Return([]domain.Event{
		{ID: "E2", Name: "Expo", Status: domain.EventStatusPending, CreatedBy: &domain.Party{Name: "Mia"}},
	})

	handler.pending(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []eventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response, 1)
	assert.Equal(t, "E2", response[0].ID)
	assert.Equal(t, "Mia", response[0].OrganizerName)
}

func TestAdminHandler_approve(t *testing.T) {
	handler, _, mockModerator, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "E2"}}
	c.Request = httptest.NewRequest("POST", "/admin/events/E2/approve", nil)

	mockModerator.On("Approve", mock.Anything, "E2").Return(nil)

	handler.approve(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	mockModerator.AssertExpectations(t)
}

func TestAdminHandler_deny_notPending(t *testing.T) {
	handler, _, mockModerator, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "E1"}}
	c.Request = httptest.NewRequest("POST", "/admin/events/E1/deny", nil)

	mockModerator.On("Deny", mock.Anything, "E1").Return(moderation.ErrNotPending)

	handler.deny(c)

	assert.Equal(t, http.StatusConflict, w.Code)
	mockModerator.AssertExpectations(t)
}

func TestAdminHandler_users(t *testing.T) {
	handler, mockDashboard, _, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/admin/users", nil)

	mockDashboard.On("Users").Return(domain.Buckets{
		domain.RoleAdmin: {{ID: "u1", Name: "Root", Email: "root@example.com", Role: domain.RoleAdmin, Verified: true}},
	})

	handler.users(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string][]userResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Len(t, response["admin"], 1)
	assert.Equal(t, "root@example.com", response["admin"][0].Email)
	assert.True(t, response["admin"][0].Verified)
	assert.NotNil(t, response["organizer"])
	assert.Empty(t, response["user"])
}

func TestAdminHandler_addUser(t *testing.T) {
	handler, _, _, mockRoles := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"name":"Ana","email":"ana@example.com"}`
	c.Request = httptest.NewRequest("POST", "/admin/users", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockRoles.On("AddUser", mock.Anything, domain.NewUser{
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  domain.RoleUser,
	}).Return(nil)

	handler.addUser(c)

	assert.Equal(t, http.StatusCreated, c.Writer.Status())
	mockRoles.AssertExpectations(t)
}

func TestAdminHandler_addUser_exists(t *testing.T) {
	handler, _, _, mockRoles := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"name":"Ana","email":"ana@example.com","role":"organizer"}`
	c.Request = httptest.NewRequest("POST", "/admin/users", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockRoles.On("AddUser", mock.Anything, mock.Anything).Return(roles.ErrUserExists)

	handler.addUser(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_changeRole(t *testing.T) {
	handler, _, _, mockRoles := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"email":"user@example.com","role":"organizer"}`
	c.Request = httptest.NewRequest("PATCH", "/admin/users/role", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockRoles.On("ChangeRole", mock.Anything, "user@example.com", domain.RoleOrganizer).Return(nil)

	handler.changeRole(c)

	assert.Equal(t, http.StatusNoContent, c.Writer.Status())
	mockRoles.AssertExpectations(t)
}

func TestAdminHandler_changeRole_missingEmail(t *testing.T) {
	handler, _, _, mockRoles := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("PATCH", "/admin/users/role", strings.NewReader(`{"role":"admin"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.changeRole(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockRoles.AssertNotCalled(t, "ChangeRole", mock.Anything, mock.Anything, mock.Anything)
}

func TestAdminHandler_changeRole_invalidRole(t *testing.T) {
	handler, _, _, mockRoles := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body := `{"email":"user@example.com","role":"superuser"}`
	c.Request = httptest.NewRequest("PATCH", "/admin/users/role", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockRoles.On("ChangeRole", mock.Anything, "user@example.com", domain.Role("superuser")).Return(roles.ErrInvalidRole)

	handler.changeRole(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_report(t *testing.T) {
	handler, mockDashboard, _, _ := newAdminHandler()

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/admin/report?q=expo", nil)

	mockDashboard.On("Report", mock.Anything, "expo", calendar.Range{}).Return(func(w io.Writer) error {
		_, err := io.WriteString(w, "Event Name,Date\nExpo,2025-03-01\n")
		return err
	})

	handler.report(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="eventspark-admindashboard-report.csv"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "Event Name,Date\nExpo,2025-03-01\n", w.Body.String())

	mockDashboard.AssertExpectations(t)
}
