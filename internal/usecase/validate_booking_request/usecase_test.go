package validate_booking_request

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockAvailSvc struct {
	slotsByDate map[string][]domain.TimeSlot
	reason      string
}

func (m *mockAvailSvc) DaySlots(ctx context.Context, vendorID, itemID int64, date time.Time, durationMinutes int, excludeBookingID *int64) ([]domain.TimeSlot, string, error) {
	return m.slotsByDate[date.Format(domain.DateFormat)], m.reason, nil
}

type mockScheduleSvc struct {
	candidates []int64
}

func (m *mockScheduleSvc) ResolveStaff(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) ([]int64, error) {
	return m.candidates, nil
}

type mockStaffRepo struct {
	members map[int64]*domain.StaffMember
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	return m.members[id], nil
}

type mockCatalogClient struct {
	item   *catalogservice.BookingItem
	getErr error
}

func (m *mockCatalogClient) GetBookingItem(ctx context.Context, itemID int64) (*catalogservice.BookingItem, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.item, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var (
	testDate  = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	testStart = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
)

func int64Ptr(v int64) *int64 { return &v }

func slotAt(start time.Time) domain.TimeSlot {
	return domain.TimeSlot{
		StartAt:   start,
		EndAt:     start.Add(time.Hour),
		RoleID:    1,
		Capacity:  2,
		Remaining: 1,
	}
}

type fixture struct {
	availSvc    *mockAvailSvc
	scheduleSvc *mockScheduleSvc
	staffRepo   *mockStaffRepo
	catalog     *mockCatalogClient
	useCase     *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		availSvc:    &mockAvailSvc{slotsByDate: map[string][]domain.TimeSlot{}},
		scheduleSvc: &mockScheduleSvc{},
		staffRepo:   &mockStaffRepo{members: map[int64]*domain.StaffMember{}},
		catalog: &mockCatalogClient{
			item: &catalogservice.BookingItem{ID: 100, VendorID: 10, DurationMinutes: 60},
		},
	}
	f.useCase = NewUseCase(f.availSvc, f.scheduleSvc, f.staffRepo, f.catalog, nopLogger{})
	return f
}

func (f *fixture) withRequestedSlot() {
	f.availSvc.slotsByDate[testDate.Format(domain.DateFormat)] = []domain.TimeSlot{slotAt(testStart)}
}

func (f *fixture) addStaff(id int64, active bool, itemIDs ...int64) {
	f.staffRepo.members[id] = &domain.StaffMember{
		ID: id, VendorID: 10, Active: active, QualifiedItemIDs: itemIDs,
		Shifts: []domain.StaffShift{
			{ID: 1, StaffID: id, StartAt: testStart.Add(-2 * time.Hour), EndAt: testStart.Add(8 * time.Hour)},
		},
	}
}

func validRequest() *Request {
	return &Request{VendorID: 10, BookingItemID: 100, StartAt: testStart}
}

func TestExecute_AvailableWithStaff(t *testing.T) {
	f := newFixture()
	f.withRequestedSlot()
	f.scheduleSvc.candidates = []int64{3, 5}
	f.addStaff(3, true, 100)
	f.addStaff(5, true, 100)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsAvailable)
	assert.Equal(t, []int64{3, 5}, resp.AvailableStaffIDs)
	assert.Empty(t, resp.Reason)
	assert.Empty(t, resp.Alternatives)
}

func TestExecute_FiltersInactiveUnqualifiedAndBusyStaff(t *testing.T) {
	f := newFixture()
	f.withRequestedSlot()
	f.scheduleSvc.candidates = []int64{3, 4, 5, 6}
	f.addStaff(3, false, 100) // неактивен
	f.addStaff(4, true, 999)  // не квалифицирован
	f.addStaff(5, true, 100)
	busy := &domain.StaffMember{
		ID: 6, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100},
		Shifts: []domain.StaffShift{
			{ID: 1, StaffID: 6, StartAt: testStart.Add(-2 * time.Hour), EndAt: testStart.Add(8 * time.Hour)},
		},
		Bookings: []domain.StaffBooking{
			{BookingID: 42, StartAt: testStart, EndAt: testStart.Add(time.Hour), Status: domain.StatusConfirmed},
		},
	}
	f.staffRepo.members[6] = busy

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsAvailable)
	assert.Equal(t, []int64{5}, resp.AvailableStaffIDs)
}

func TestExecute_StaffWithoutCoveringShiftExcluded(t *testing.T) {
	f := newFixture()
	f.withRequestedSlot()
	f.scheduleSvc.candidates = []int64{3, 5}
	f.addStaff(3, true, 100)
	f.addStaff(5, true, 100)
	// Смена сотрудника 3 заканчивается до конца запрошенного интервала
	f.staffRepo.members[3].Shifts = []domain.StaffShift{
		{ID: 1, StaffID: 3, StartAt: testStart.Add(-2 * time.Hour), EndAt: testStart.Add(30 * time.Minute)},
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.True(t, resp.IsAvailable)
	assert.Equal(t, []int64{5}, resp.AvailableStaffIDs)
}

func TestExecute_SlotMissingReturnsCapacityReason(t *testing.T) {
	f := newFixture()
	// День есть, но запрошенного времени среди слотов нет
	f.availSvc.slotsByDate[testDate.Format(domain.DateFormat)] = []domain.TimeSlot{
		slotAt(testStart.Add(2 * time.Hour)),
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.Equal(t, domain.ReasonCapacityExhausted, resp.Reason)
}

func TestExecute_EngineReasonPreferredOverDefault(t *testing.T) {
	f := newFixture()
	f.availSvc.reason = domain.ReasonVendorClosed

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.Equal(t, domain.ReasonVendorClosed, resp.Reason)
}

func TestExecute_AlternativesSkipEarlierSameDaySlots(t *testing.T) {
	f := newFixture()
	day := testDate.Format(domain.DateFormat)
	f.availSvc.slotsByDate[day] = []domain.TimeSlot{
		slotAt(testStart.Add(-time.Hour)),    // раньше запрошенного, не предлагаем
		slotAt(testStart.Add(2 * time.Hour)), // позже, предлагаем
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	require.Len(t, resp.Alternatives, 1)
	assert.Equal(t, testStart.Add(2*time.Hour), resp.Alternatives[0].StartAt)
}

func TestExecute_AlternativesScanFollowingDays(t *testing.T) {
	f := newFixture()
	nextDay := testDate.AddDate(0, 0, 1)
	f.availSvc.slotsByDate[nextDay.Format(domain.DateFormat)] = []domain.TimeSlot{
		slotAt(nextDay.Add(9 * time.Hour)),
		slotAt(nextDay.Add(10 * time.Hour)),
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.Len(t, resp.Alternatives, 2)
	assert.Equal(t, nextDay.Add(9*time.Hour), resp.Alternatives[0].StartAt)
}

func TestExecute_AlternativesCapped(t *testing.T) {
	f := newFixture()
	nextDay := testDate.AddDate(0, 0, 1)
	slots := make([]domain.TimeSlot, 0, 15)
	for i := 0; i < 15; i++ {
		slots = append(slots, slotAt(nextDay.Add(time.Duration(8+i)*time.Hour)))
	}
	f.availSvc.slotsByDate[nextDay.Format(domain.DateFormat)] = slots

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Len(t, resp.Alternatives, maxAlternatives)
}

func TestExecute_RequestedStaffUnavailable(t *testing.T) {
	f := newFixture()
	f.withRequestedSlot()
	f.scheduleSvc.candidates = []int64{3}
	f.addStaff(3, true, 100)

	req := validRequest()
	req.StaffID = int64Ptr(5) // не среди доступных

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.False(t, resp.IsAvailable)
	assert.Equal(t, domain.ReasonStaffUnavailable, resp.Reason)
	assert.Equal(t, []int64{3}, resp.AvailableStaffIDs)
}

func TestExecute_RequestedStaffAvailable(t *testing.T) {
	f := newFixture()
	f.withRequestedSlot()
	f.scheduleSvc.candidates = []int64{3, 5}
	f.addStaff(3, true, 100)
	f.addStaff(5, true, 100)

	req := validRequest()
	req.StaffID = int64Ptr(5)

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.IsAvailable)
}

func TestExecute_ItemNotFound(t *testing.T) {
	f := newFixture()
	f.catalog.getErr = catalogservice.ErrItemNotFound

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestExecute_VendorMismatch(t *testing.T) {
	f := newFixture()
	f.catalog.item.VendorID = 99

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrItemVendorMismatch)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero vendor id", func(req *Request) { req.VendorID = 0 }},
		{"zero item id", func(req *Request) { req.BookingItemID = 0 }},
		{"missing start", func(req *Request) { req.StartAt = time.Time{} }},
		{"unaligned start", func(req *Request) { req.StartAt = testStart.Add(10 * time.Minute) }},
		{"zero staff id", func(req *Request) { req.StaffID = int64Ptr(0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			req := validRequest()
			tt.mutate(req)

			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
