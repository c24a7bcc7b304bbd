package update_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockBookingRepo struct {
	booking   *domain.Booking
	getErr    error
	updated   *domain.Booking
	updateErr error
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	clone := *booking
	m.updated = &clone
	return nil
}

type mockStaffRepo struct {
	members        map[int64]*domain.StaffMember
	addedEntries   []*domain.StaffBooking
	deletedEntries []int64
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
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

type mockAvailSvc struct {
	roleID      int64
	err         error
	calls       int
	lastExclude *int64
}

func (m *mockAvailSvc) AdmitBooking(ctx context.Context, vendorID, itemID int64, start, end time.Time, excludeBookingID *int64) (int64, error) {
	m.calls++
	m.lastExclude = excludeBookingID
	if m.err != nil {
		return 0, m.err
	}
	return m.roleID, nil
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

type fixedTimeProvider struct {
	now time.Time
}

func (p *fixedTimeProvider) Now() time.Time { return p.now }

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var (
	testNow      = time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC)
	oldStart     = time.Date(2026, 6, 15, 10, 0, 0, 0, time.UTC)
	newStart     = time.Date(2026, 6, 16, 14, 0, 0, 0, time.UTC)
	testDuration = 60
)

func int64Ptr(v int64) *int64 { return &v }

func coveringShifts() []domain.StaffShift {
	return []domain.StaffShift{
		{ID: 1, StartAt: newStart.Add(-2 * time.Hour), EndAt: newStart.Add(8 * time.Hour)},
	}
}

type fixture struct {
	bookingRepo *mockBookingRepo
	staffRepo   *mockStaffRepo
	availSvc    *mockAvailSvc
	scheduleSvc *mockScheduleSvc
	slotsCache  *mockSlotsCache
	publisher   *mockPublisher
	useCase     *UseCase
}

func newFixture(booking *domain.Booking) *fixture {
	f := &fixture{
		bookingRepo: &mockBookingRepo{booking: booking},
		staffRepo:   &mockStaffRepo{members: map[int64]*domain.StaffMember{}},
		availSvc:    &mockAvailSvc{roleID: 1},
		scheduleSvc: &mockScheduleSvc{},
		slotsCache:  &mockSlotsCache{},
		publisher:   &mockPublisher{},
	}
	f.useCase = NewUseCase(
		f.bookingRepo,
		f.staffRepo,
		f.availSvc,
		f.scheduleSvc,
		f.slotsCache,
		f.publisher,
		&mockTxManager{},
		nopLogger{},
	)
	f.useCase.timeProvider = &fixedTimeProvider{now: testNow}
	return f
}

func existingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              300,
		VendorID:        10,
		RoleID:          1,
		BookingItemID:   100,
		CustomerID:      7,
		StartAt:         oldStart,
		DurationMinutes: testDuration,
		Status:          domain.StatusConfirmed,
	}
}

func validRequest() *Request {
	return &Request{
		BookingID:  300,
		CustomerID: 7,
		NewStartAt: newStart,
	}
}

func TestExecute_RescheduleWithoutStaff(t *testing.T) {
	f := newFixture(existingBooking())

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, newStart, resp.StartAt)
	require.NotNil(t, f.bookingRepo.updated)
	assert.Equal(t, newStart, f.bookingRepo.updated.StartAt)
}

func TestExecute_OwnBookingExcludedFromAdmission(t *testing.T) {
	f := newFixture(existingBooking())

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, f.availSvc.lastExclude)
	assert.Equal(t, int64(300), *f.availSvc.lastExclude)
}

func TestExecute_SameStartIsNoOp(t *testing.T) {
	f := newFixture(existingBooking())

	req := validRequest()
	req.NewStartAt = oldStart

	resp, err := f.useCase.Execute(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, oldStart, resp.StartAt)
	assert.Zero(t, f.availSvc.calls)
	assert.Nil(t, f.bookingRepo.updated)
}

func TestExecute_CurrentStaffKeptWhenStillEligible(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)
	f.scheduleSvc.candidates = []int64{3, 5}
	f.staffRepo.members[3] = &domain.StaffMember{
		ID: 3, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
	}
	f.staffRepo.members[5] = &domain.StaffMember{
		ID: 5, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(5), *resp.StaffID)
}

func TestExecute_StaffReplacedWhenScheduleNoLongerCovers(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)
	f.scheduleSvc.candidates = []int64{3}
	f.staffRepo.members[3] = &domain.StaffMember{
		ID: 3, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(3), *resp.StaffID)
}

func TestExecute_CalendarRewrittenInOneTransaction(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)
	f.scheduleSvc.candidates = []int64{5}
	f.staffRepo.members[5] = &domain.StaffMember{
		ID: 5, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
	}

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []int64{300}, f.staffRepo.deletedEntries)
	require.Len(t, f.staffRepo.addedEntries, 1)
	entry := f.staffRepo.addedEntries[0]
	assert.Equal(t, int64(5), entry.StaffID)
	assert.Equal(t, newStart, entry.StartAt)
	assert.Equal(t, newStart.Add(time.Hour), entry.EndAt)
}

func TestExecute_OldCalendarEntryRemovedWhenNoNewStaff(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Nil(t, resp.StaffID)
	assert.Equal(t, []int64{300}, f.staffRepo.deletedEntries)
	assert.Empty(t, f.staffRepo.addedEntries)
}

func TestExecute_OwnCalendarEntryDoesNotBlockReschedule(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)
	f.scheduleSvc.candidates = []int64{5}
	f.staffRepo.members[5] = &domain.StaffMember{
		ID: 5, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
		Bookings: []domain.StaffBooking{
			// Собственная запись на старое время пересекается с новым интервалом
			{BookingID: 300, StartAt: newStart, EndAt: newStart.Add(time.Hour), Status: domain.StatusConfirmed},
		},
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(5), *resp.StaffID)
}

func TestExecute_StaffWithoutCoveringShiftSkipped(t *testing.T) {
	booking := existingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)
	f.scheduleSvc.candidates = []int64{5, 3}
	// Смена сотрудника 5 заканчивается до конца нового интервала
	f.staffRepo.members[5] = &domain.StaffMember{
		ID: 5, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100},
		Shifts: []domain.StaffShift{
			{ID: 1, StartAt: newStart.Add(-2 * time.Hour), EndAt: newStart.Add(30 * time.Minute)},
		},
	}
	f.staffRepo.members[3] = &domain.StaffMember{
		ID: 3, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100}, Shifts: coveringShifts(),
	}

	resp, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, resp.StaffID)
	assert.Equal(t, int64(3), *resp.StaffID)
}

func TestExecute_ExplicitStaffWithoutCoveringShift(t *testing.T) {
	f := newFixture(existingBooking())
	f.scheduleSvc.candidates = []int64{3}
	f.staffRepo.members[3] = &domain.StaffMember{
		ID: 3, VendorID: 10, Active: true, QualifiedItemIDs: []int64{100},
	}

	req := validRequest()
	req.StaffID = int64Ptr(3)

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffUnavailable)
}

func TestExecute_ExplicitStaffMustBeScheduled(t *testing.T) {
	f := newFixture(existingBooking())
	f.scheduleSvc.candidates = []int64{3}

	req := validRequest()
	req.StaffID = int64Ptr(9)

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrStaffUnavailable)
}

func TestExecute_BookingNotFound(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.getErr = bookingRepo.ErrBookingNotFound

	_, err := f.useCase.Execute(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_ForeignCustomerSeesNotFound(t *testing.T) {
	f := newFixture(existingBooking())

	req := validRequest()
	req.CustomerID = 999

	_, err := f.useCase.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_TerminalBookingRejected(t *testing.T) {
	tests := []struct {
		name   string
		status domain.BookingStatus
	}{
		{"cancelled", domain.StatusCancelled},
		{"completed", domain.StatusCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := existingBooking()
			booking.Status = tt.status

			f := newFixture(booking)

			_, err := f.useCase.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, ErrBookingNotActive)
		})
	}
}

func TestExecute_AdmissionErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		admitErr error
		wantErr  error
	}{
		{"vendor closed", availability.ErrVendorClosed, ErrVendorClosed},
		{"outside shift", availability.ErrOutsideShift, ErrOutsideShift},
		{"capacity exhausted", availability.ErrCapacityExhausted, ErrSlotNotAvailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(existingBooking())
			f.availSvc.err = tt.admitErr

			_, err := f.useCase.Execute(context.Background(), validRequest())
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, f.bookingRepo.updated)
		})
	}
}

func TestExecute_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{
			name:    "zero booking id",
			mutate:  func(req *Request) { req.BookingID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "start not aligned to stride",
			mutate:  func(req *Request) { req.NewStartAt = newStart.Add(10 * time.Minute) },
			wantErr: ErrInvalidTimeSlot,
		},
		{
			name:    "start in the past",
			mutate:  func(req *Request) { req.NewStartAt = testNow.Add(-time.Hour) },
			wantErr: ErrInvalidDate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(existingBooking())
			req := validRequest()
			tt.mutate(req)

			_, err := f.useCase.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_InvalidatesCacheAndPublishesEvent(t *testing.T) {
	f := newFixture(existingBooking())

	_, err := f.useCase.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, f.slotsCache.invalidated)
	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, notifications.EventBookingRescheduled, f.publisher.keys[0])
	assert.Equal(t, newStart, f.publisher.events[0].StartAt)
}
