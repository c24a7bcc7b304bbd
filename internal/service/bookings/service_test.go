package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
)

type mockBookingRepo struct {
	booking       *domain.Booking
	getErr        error
	vendorList    []*domain.Booking
	customerList  []*domain.Booking
	statusUpdates []statusUpdate
	lastFilter    *domain.VendorBookingsFilter
}

type statusUpdate struct {
	bookingID int64
	status    domain.BookingStatus
	reason    string
	changedBy string
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.booking, nil
}

func (m *mockBookingRepo) GetByVendorWithFilter(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error) {
	f := filter
	m.lastFilter = &f
	return m.vendorList, nil
}

func (m *mockBookingRepo) GetByCustomer(ctx context.Context, customerID int64) ([]*domain.Booking, error) {
	return m.customerList, nil
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason, changedBy *string) error {
	upd := statusUpdate{bookingID: id, status: status}
	if reason != nil {
		upd.reason = *reason
	}
	if changedBy != nil {
		upd.changedBy = *changedBy
	}
	m.statusUpdates = append(m.statusUpdates, upd)
	return nil
}

type mockStaffRepo struct {
	calendarUpdates []statusUpdate
}

func (m *mockStaffRepo) UpdateCalendarEntryStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error {
	m.calendarUpdates = append(m.calendarUpdates, statusUpdate{bookingID: bookingID, status: status})
	return nil
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

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
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
	slotsCache  *mockSlotsCache
	publisher   *mockPublisher
	service     *Service
}

func newFixture(booking *domain.Booking) *fixture {
	f := &fixture{
		bookingRepo: &mockBookingRepo{booking: booking},
		staffRepo:   &mockStaffRepo{},
		slotsCache:  &mockSlotsCache{},
		publisher:   &mockPublisher{},
	}
	f.service = NewService(
		f.bookingRepo,
		f.staffRepo,
		f.slotsCache,
		f.publisher,
		&mockTxManager{},
		nopLogger{},
	)
	return f
}

func pendingBooking() *domain.Booking {
	return &domain.Booking{
		ID:              300,
		VendorID:        10,
		RoleID:          1,
		BookingItemID:   100,
		CustomerID:      7,
		StartAt:         bookingStart,
		DurationMinutes: 60,
		Status:          domain.StatusPending,
	}
}

func TestGetByID_CustomerSeesOwnBooking(t *testing.T) {
	f := newFixture(pendingBooking())

	booking, err := f.service.GetByID(context.Background(), 300, 7, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(300), booking.ID)
}

func TestGetByID_VendorSeesOwnBooking(t *testing.T) {
	f := newFixture(pendingBooking())

	booking, err := f.service.GetByID(context.Background(), 300, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(300), booking.ID)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	f := newFixture(pendingBooking())

	_, err := f.service.GetByID(context.Background(), 300, 99, 88)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.getErr = bookingStorage.ErrBookingNotFound

	_, err := f.service.GetByID(context.Background(), 300, 7, 0)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestGetVendorBookings_PassesFilterThrough(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.vendorList = []*domain.Booking{pendingBooking()}

	roleID := int64(1)
	staffID := int64(5)
	status := domain.StatusConfirmed
	start := bookingStart
	end := bookingStart.AddDate(0, 0, 7)
	filter := domain.VendorBookingsFilter{
		VendorID:  10,
		RoleID:    &roleID,
		StaffID:   &staffID,
		Status:    &status,
		StartDate: &start,
		EndDate:   &end,
	}

	bookings, err := f.service.GetVendorBookings(context.Background(), filter)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)

	require.NotNil(t, f.bookingRepo.lastFilter)
	assert.Equal(t, int64(10), f.bookingRepo.lastFilter.VendorID)
	assert.Equal(t, &roleID, f.bookingRepo.lastFilter.RoleID)
	assert.Equal(t, &staffID, f.bookingRepo.lastFilter.StaffID)
}

func TestGetVendorBookings_InvertedPeriodRejected(t *testing.T) {
	f := newFixture(nil)

	start := bookingStart
	end := bookingStart.AddDate(0, 0, -1)
	filter := domain.VendorBookingsFilter{VendorID: 10, StartDate: &start, EndDate: &end}

	_, err := f.service.GetVendorBookings(context.Background(), filter)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetCustomerBookings(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.customerList = []*domain.Booking{pendingBooking()}

	bookings, err := f.service.GetCustomerBookings(context.Background(), 7)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
}

func TestCancel_WithoutStaff(t *testing.T) {
	f := newFixture(pendingBooking())

	err := f.service.Cancel(context.Background(), 300, "customer request", "customer:7")
	require.NoError(t, err)

	require.Len(t, f.bookingRepo.statusUpdates, 1)
	upd := f.bookingRepo.statusUpdates[0]
	assert.Equal(t, domain.StatusCancelled, upd.status)
	assert.Equal(t, "customer request", upd.reason)
	assert.Equal(t, "customer:7", upd.changedBy)

	// Без назначенного сотрудника календарь не трогаем
	assert.Empty(t, f.staffRepo.calendarUpdates)
}

func TestCancel_SyncsStaffCalendar(t *testing.T) {
	booking := pendingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)

	err := f.service.Cancel(context.Background(), 300, "no-show", "vendor:10")
	require.NoError(t, err)

	require.Len(t, f.staffRepo.calendarUpdates, 1)
	assert.Equal(t, int64(300), f.staffRepo.calendarUpdates[0].bookingID)
	assert.Equal(t, domain.StatusCancelled, f.staffRepo.calendarUpdates[0].status)
}

func TestCancel_TerminalStatusesRejected(t *testing.T) {
	for _, status := range []domain.BookingStatus{domain.StatusCancelled, domain.StatusCompleted} {
		t.Run(string(status), func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = status

			f := newFixture(booking)

			err := f.service.Cancel(context.Background(), 300, "reason", "vendor:10")
			assert.ErrorIs(t, err, ErrCannotCancel)
			assert.Empty(t, f.bookingRepo.statusUpdates)
		})
	}
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(nil)
	f.bookingRepo.getErr = bookingStorage.ErrBookingNotFound

	err := f.service.Cancel(context.Background(), 300, "reason", "vendor:10")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateStatus_AllowedTransitions(t *testing.T) {
	tests := []struct {
		from domain.BookingStatus
		to   domain.BookingStatus
	}{
		{domain.StatusPending, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusCompleted},
		{domain.StatusPending, domain.StatusCancelled},
		{domain.StatusConfirmed, domain.StatusCancelled},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = tt.from

			f := newFixture(booking)

			err := f.service.UpdateStatus(context.Background(), 300, tt.to, "reason", "vendor:10")
			require.NoError(t, err)
			require.Len(t, f.bookingRepo.statusUpdates, 1)
			assert.Equal(t, tt.to, f.bookingRepo.statusUpdates[0].status)
		})
	}
}

func TestUpdateStatus_ForbiddenTransitions(t *testing.T) {
	tests := []struct {
		from domain.BookingStatus
		to   domain.BookingStatus
	}{
		{domain.StatusPending, domain.StatusCompleted},
		{domain.StatusCompleted, domain.StatusConfirmed},
		{domain.StatusCancelled, domain.StatusConfirmed},
		{domain.StatusConfirmed, domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+" to "+string(tt.to), func(t *testing.T) {
			booking := pendingBooking()
			booking.Status = tt.from

			f := newFixture(booking)

			err := f.service.UpdateStatus(context.Background(), 300, tt.to, "reason", "vendor:10")
			assert.ErrorIs(t, err, ErrInvalidTransition)
			assert.Empty(t, f.bookingRepo.statusUpdates)
		})
	}
}

func TestUpdateStatus_SyncsStaffCalendar(t *testing.T) {
	booking := pendingBooking()
	booking.StaffID = int64Ptr(5)

	f := newFixture(booking)

	err := f.service.UpdateStatus(context.Background(), 300, domain.StatusConfirmed, "", "vendor:10")
	require.NoError(t, err)

	require.Len(t, f.staffRepo.calendarUpdates, 1)
	assert.Equal(t, domain.StatusConfirmed, f.staffRepo.calendarUpdates[0].status)
}

func TestUpdateStatus_InvalidatesCacheAndPublishesEvent(t *testing.T) {
	f := newFixture(pendingBooking())

	err := f.service.UpdateStatus(context.Background(), 300, domain.StatusConfirmed, "confirmed by manager", "vendor:10")
	require.NoError(t, err)

	assert.Equal(t, []int64{10}, f.slotsCache.invalidated)
	require.Len(t, f.publisher.keys, 1)
	assert.Equal(t, notifications.EventBookingStatus, f.publisher.keys[0])

	event := f.publisher.events[0]
	assert.Equal(t, int64(300), event.BookingID)
	assert.Equal(t, string(domain.StatusConfirmed), event.Status)
	assert.Equal(t, "confirmed by manager", event.Reason)
}

func TestUpdateStatus_NoEventOnFailedTransition(t *testing.T) {
	booking := pendingBooking()
	booking.Status = domain.StatusCompleted

	f := newFixture(booking)

	err := f.service.UpdateStatus(context.Background(), 300, domain.StatusConfirmed, "", "vendor:10")
	require.Error(t, err)
	assert.Empty(t, f.slotsCache.invalidated)
	assert.Empty(t, f.publisher.keys)
}

func TestCancel_NilCacheAndPublisherTolerated(t *testing.T) {
	f := newFixture(pendingBooking())
	f.service = NewService(f.bookingRepo, f.staffRepo, nil, nil, &mockTxManager{}, nopLogger{})

	err := f.service.Cancel(context.Background(), 300, "reason", "vendor:10")
	assert.NoError(t, err)
}
