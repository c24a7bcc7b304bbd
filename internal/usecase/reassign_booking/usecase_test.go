package reassign_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	staffStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockBookingRepo struct {
	booking *domain.Booking
	getErr  error
	updated *domain.Booking
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	clone := *booking
	m.updated = &clone
	return nil
}

type mockStaffRepo struct {
	members        map[int64]*domain.StaffMember
	getErr         error
	addedEntries   []*domain.StaffBooking
	deletedEntries []int64
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.members[id], nil
}

func (m *mockStaffRepo) AddCalendarEntry(ctx context.Context, entry *domain.StaffBooking) (*domain.StaffBooking, error) {
	m.addedEntries = append(m.addedEntries, entry)
	return entry, nil
}

func (m *mockStaffRepo) DeleteCalendarEntry(ctx context.Context, bookingID int64) error {
	m.deletedEntries = append(m.deletedEntries, bookingID)
	return nil
}

type mockScheduleSvc struct {
	candidates []int64
}

func (m *mockScheduleSvc) ResolveStaff(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) ([]int64, error) {
	return m.candidates, nil
}

type mockSlotsCache struct {
	invalidated []int64
}

func (m *mockSlotsCache) InvalidateVendor(ctx context.Context, vendorID int64) error {
	m.invalidated = append(m.invalidated, vendorID)
	return nil
}

type mockPublisher struct {
	keys   []string
	events []notifications.BookingEvent
}

func (m *mockPublisher) PublishAsync(ctx context.Context, routingKey string, event notifications.BookingEvent) {
	m.keys = append(m.keys, routingKey)
	m.events = append(m.events, event)
}

type mockTxManager struct{}

func (m *mockTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var bookingStart = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)

func int64Ptr(v int64) *int64 { return &v }

type fixture struct {
	bookingRepo *mockBookingRepo
	staffRepo   *mockStaffRepo
	scheduleSvc *mockScheduleSvc
	slotsCache  *mockSlotsCache
	publisher   *mockPublisher
	useCase     *UseCase
}

func newFixture(booking *domain.Booking) *fixture {
	f := &fixture{
		bookingRepo: &mockBookingRepo{booking: booking},
		staffRepo:   &mockStaffRepo{members: map[int64]*domain.StaffMember{}},
		scheduleSvc: &mockScheduleSvc{},
		slotsCache:  &mockSlotsCache{},
		publisher:   &mockPublisher{},
	}
	f.useCase = NewUseCase(
		f.bookingRepo,
		f.staffRepo,
		f.scheduleSvc,
		f.slotsCache,
		f.publisher,
		&mockTxManager{},
		nopLogger{},
	)
	return f
}

func assignedBooking() *domain.Booking {
	return &domain.Booking{
		ID:              300,
		VendorID:        10,
		RoleID:          1,
		BookingItemID:   100,
		CustomerID:      7,
		StaffID:         int64Ptr(5),
		StartAt:         bookingStart,
		DurationMinutes: 60,
		Status:          domain.StatusConfirmed,
	}
}

func eligibleStaff(id int64) *domain.StaffMember {
	return &domain.StaffMember{
		ID: id, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100},
		Shifts: []domain.StaffShift{
			{ID: 1, StaffID: id, StartAt: bookingStart.Add(-2 * time.Hour), EndAt: bookingStart.Add(8 * time.Hour)},
		},
	}
}

func validRequest() *Request {
	return &Request{
		BookingID:  300,
		VendorID:   10,
		NewStaffID: 8,
		ChangedBy:  "manager:1",
	}
}

func TestExecute_SuccessfulReassignment(t *testing.T) {
	f := newFixture(assignedBooking())
	f.staffRepo.members[8] = eligibleStaff(8)
	f.scheduleSvc.candidates = []int64{5, 8}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.OldStaffID)
	assert.Equal(t, int64(5), *resp.OldStaffID)
	assert.Equal(t, int64(8), resp.NewStaffID)

	// Old calendar entry removed, new one created, ledger updated: one transaction
	assert.Equal(t, []int64{300}, f.staffRepo.deletedEntries)
	require.Len(t, f.staffRepo.addedEntries, 1)
	assert.Equal(t, int64(8), f.staffRepo.addedEntries[0].StaffID)
	require.NotNil(t, f.bookingRepo.updated)
	assert.Equal(t, int64(8), *f.bookingRepo.updated.StaffID)
}

func TestExecute_UnassignedBookingGainsStaff(t *testing.T) {
	booking := assignedBooking()
	booking.StaffID = nil

	f := newFixture(booking)
	f.staffRepo.members[8] = eligibleStaff(8)
	f.scheduleSvc.candidates = []int64{8}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.OldStaffID)
	assert.Empty(t, f.staffRepo.deletedEntries)
	require.Len(t, f.staffRepo.addedEntries, 1)
}

func TestExecute_SameStaffIsNoOp(t *testing.T) {
	f := newFixture(assignedBooking())

	req := validRequest()
	req.NewStaffID = 5

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, int64(5), resp.NewStaffID)
	assert.Empty(t, f.staffRepo.deletedEntries)
	assert.Empty(t, f.staffRepo.addedEntries)
	assert.Nil(t, f.bookingRepo.updated)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.getErr = bookingStorage.ErrBookingNotFound

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ForeignVendorSeesNotFound(t *testing.T) {
	f := newFixture(assignedBooking())

	req := validRequest()
	req.VendorID = 99

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_TerminalBookingRejected(t *testing.T) {
	booking := assignedBooking()
	booking.Status = domain.StatusCancelled

	f := newFixture(booking)

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotActive)
}

func TestExecute_StaffNotFound(t *testing.T) {
	f := newFixture(assignedBooking())
	f.staffRepo.getErr = staffStorage.ErrStaffNotFound

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestExecute_StaffNotEligible(t *testing.T) {
	tests := []struct {
		name  string
		staff *domain.StaffMember
	}{
		{
			name:  "foreign vendor",
			staff: &domain.StaffMember{ID: 8, VendorID: 99, Active: true, QualifiedItemIDs: []int64{100}},
		},
		{
			name:  "inactive",
			staff: &domain.StaffMember{ID: 8, VendorID: 10, Active: false, QualifiedItemIDs: []int64{100}},
		},
		{
			name:  "not qualified for the item",
			staff: &domain.StaffMember{ID: 8, VendorID: 10, Active: true, QualifiedItemIDs: []int64{999}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(assignedBooking())
			f.staffRepo.members[8] = tt.staff
			f.scheduleSvc.candidates = []int64{8}

			_, err := f.useCase.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrStaffNotEligible)
		})
	}
}

func TestExecute_StaffWithoutCoveringShiftRejected(t *testing.T) {
	f := newFixture(assignedBooking())
	staff := eligibleStaff(8)
	// Смена заканчивается до конца интервала бронирования
	staff.Shifts = []domain.StaffShift{
		{ID: 1, StaffID: 8, StartAt: bookingStart.Add(-2 * time.Hour), EndAt: bookingStart.Add(30 * time.Minute)},
	}
	f.staffRepo.members[8] = staff
	f.scheduleSvc.candidates = []int64{8}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotEligible)
	assert.Empty(t, f.staffRepo.addedEntries)
	assert.Nil(t, f.bookingRepo.updated)
}

func TestExecute_NoCoveringPublishedSchedule(t *testing.T) {
	f := newFixture(assignedBooking())
	f.staffRepo.members[8] = eligibleStaff(8)
	f.scheduleSvc.candidates = []int64{5} // new staff not among covered candidates

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffNotEligible)
}

func TestExecute_CalendarConflictRejected(t *testing.T) {
	f := newFixture(assignedBooking())
	staff := eligibleStaff(8)
	staff.Bookings = []domain.StaffBooking{
		{BookingID: 42, StartAt: bookingStart, EndAt: bookingStart.Add(time.Hour), Status: domain.StatusConfirmed},
	}
	f.staffRepo.members[8] = staff
	f.scheduleSvc.candidates = []int64{8}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrStaffConflict)
	assert.Empty(t, f.staffRepo.deletedEntries)
	assert.Nil(t, f.bookingRepo.updated)
}

func TestExecute_OwnBookingEntryDoesNotConflict(t *testing.T) {
	f := newFixture(assignedBooking())
	staff := eligibleStaff(8)
	staff.Bookings = []domain.StaffBooking{
		// Запись этого же бронирования не считается конфликтом
		{BookingID: 300, StartAt: bookingStart, EndAt: bookingStart.Add(time.Hour), Status: domain.StatusConfirmed},
	}
	f.staffRepo.members[8] = staff
	f.scheduleSvc.candidates = []int64{8}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"zero booking id", func(req *Request) { req.BookingID = 0 }},
		{"zero vendor id", func(req *Request) { req.VendorID = 0 }},
		{"zero staff id", func(req *Request) { req.NewStaffID = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(assignedBooking())
			req := validRequest()
			tt.mutate(req)

			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_InvalidatesCacheAndPublishesEvent(t *testing.T) {
	f := newFixture(assignedBooking())
	f.staffRepo.members[8] = eligibleStaff(8)
	f.scheduleSvc.candidates = []int64{8}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, f.slotsCache.invalidated)
	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, notifications.EventBookingReassigned, f.publisher.keys[0])
	require.NotNil(t, f.publisher.events[0].StaffID)
	assert.Equal(t, int64(8), *f.publisher.events[0].StaffID)
}
