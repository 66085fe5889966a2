package api

import (
	"context"
	"io"
	"time"

	"github.com/Domenick1991/eventspark/internal/calendar"
	"github.com/Domenick1991/eventspark/internal/client"
	"github.com/Domenick1991/eventspark/internal/dashboard"
	"github.com/Domenick1991/eventspark/internal/domain"
	"github.com/Domenick1991/eventspark/internal/grouping"
	"github.com/Domenick1991/eventspark/internal/kpi"
	"github.com/Domenick1991/eventspark/internal/service/cancellation"
	"github.com/stretchr/testify/mock"
)

type MockUserDashboard struct {
	mock.Mock
}

func (m *MockUserDashboard) Browse(q dashboard.BrowseQuery) []domain.Event {
	return m.Called(q).Get(0).([]domain.Event)
}

func (m *MockUserDashboard) EventsOn(day calendar.Day) []domain.Event {
	return m.Called(day).Get(0).([]domain.Event)
}

func (m *MockUserDashboard) BookingsOn(day calendar.Day) []domain.Booking {
	return m.Called(day).Get(0).([]domain.Booking)
}

func (m *MockUserDashboard) Groups(lifecycle grouping.Lifecycle) []domain.BookingGroup {
	return m.Called(lifecycle).Get(0).([]domain.BookingGroup)
}

func (m *MockUserDashboard) Group(eventID string) (domain.BookingGroup, bool) {
	args := m.Called(eventID)
	return args.Get(0).(domain.BookingGroup), args.Bool(1)
}

type MockCanceller struct {
	mock.Mock
}

func (m *MockCanceller) Begin(group domain.BookingGroup) {
	m.Called(group)
}

func (m *MockCanceller) Toggle(id string) (bool, error) {
	args := m.Called(id)
	return args.Bool(0), args.Error(1)
}

func (m *MockCanceller) Selected() []string {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]string)
}

func (m *MockCanceller) SelectedTotal() float64 {
	return m.Called().Get(0).(float64)
}

func (m *MockCanceller) Clear() {
	m.Called()
}

func (m *MockCanceller) Cancel(ctx context.Context) (cancellation.Outcome, error) {
	args := m.Called(ctx)
	return args.Get(0).(cancellation.Outcome), args.Error(1)
}

type MockOrganizerDashboard struct {
	mock.Mock
}

func (m *MockOrganizerDashboard) KPIs(now time.Time) kpi.OrganizerKPIs {
	return m.Called(now).Get(0).(kpi.OrganizerKPIs)
}

func (m *MockOrganizerDashboard) Search(q string, r calendar.Range) []domain.Event {
	return m.Called(q, r).Get(0).([]domain.Event)
}

func (m *MockOrganizerDashboard) EventsOn(day calendar.Day) []domain.Event {
	return m.Called(day).Get(0).([]domain.Event)
}

func (m *MockOrganizerDashboard) Event(ctx context.Context, id string) (domain.Event, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Event), args.Error(1)
}

func (m *MockOrganizerDashboard) SellTicket(ctx context.Context, id string) (client.Sale, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(client.Sale), args.Error(1)
}

type MockAdminDashboard struct {
	mock.Mock
}

func (m *MockAdminDashboard) KPIs() dashboard.AdminKPIs {
	return m.Called().Get(0).(dashboard.AdminKPIs)
}

func (m *MockAdminDashboard) Pending() []domain.Event {
	return m.Called().Get(0).([]domain.Event)
}

func (m *MockAdminDashboard) Search(q string, r calendar.Range) []domain.Event {
	return m.Called(q, r).Get(0).([]domain.Event)
}

func (m *MockAdminDashboard) EventsOn(day calendar.Day) []domain.Event {
	return m.Called(day).Get(0).([]domain.Event)
}

func (m *MockAdminDashboard) Users() domain.Buckets {
	return m.Called().Get(0).(domain.Buckets)
}

func (m *MockAdminDashboard) Report(w io.Writer, q string, r calendar.Range) error {
	args := m.Called(w, q, r)
	if fn, ok := args.Get(0).(func(io.Writer) error); ok {
		return fn(w)
	}
	return args.Error(0)
}

type MockModerator struct {
	mock.Mock
}

func (m *MockModerator) Approve(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockModerator) Deny(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockRoleManager struct {
	mock.Mock
}

func (m *MockRoleManager) ChangeRole(ctx context.Context, email string, role domain.Role) error {
	return m.Called(ctx, email, role).Error(0)
}

func (m *MockRoleManager) AddUser(ctx context.Context, user domain.NewUser) error {
	return m.Called(ctx, user).Error(0)
}
