package staff

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type mockStaffRepo struct {
	members       map[int64]*domain.StaffMember
	addedShifts   []*domain.StaffShift
	deletedShifts []int64
	updatedShift  *domain.StaffShift
	nextShiftID   int64
}

func (m *mockStaffRepo) Create(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error) {
	clone := *staff
	clone.ID = 1
	return &clone, nil
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, ErrStaffNotFound
	}
	return member, nil
}

func (m *mockStaffRepo) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.StaffMember, error) {
	result := make([]*domain.StaffMember, 0)
	for _, member := range m.members {
		if member.VendorID == vendorID {
			result = append(result, member)
		}
	}
	return result, nil
}

func (m *mockStaffRepo) Update(ctx context.Context, staff *domain.StaffMember) error {
	return nil
}

func (m *mockStaffRepo) ReplaceQualifications(ctx context.Context, staffID int64, itemIDs []int64) error {
	return nil
}

func (m *mockStaffRepo) AddShift(ctx context.Context, shift *domain.StaffShift) (*domain.StaffShift, error) {
	m.nextShiftID++
	clone := *shift
	clone.ID = m.nextShiftID
	m.addedShifts = append(m.addedShifts, &clone)
	return &clone, nil
}

func (m *mockStaffRepo) UpdateShift(ctx context.Context, shift *domain.StaffShift) error {
	clone := *shift
	m.updatedShift = &clone
	return nil
}

func (m *mockStaffRepo) DeleteShift(ctx context.Context, staffID, shiftID int64) error {
	m.deletedShifts = append(m.deletedShifts, shiftID)
	return nil
}

func (m *mockStaffRepo) GetShifts(ctx context.Context, staffID int64) ([]domain.StaffShift, error) {
	return nil, nil
}

type mockTxManager struct{}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var shiftDay = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func dayAt(hour, minute int) time.Time {
	return shiftDay.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func newTestService(members map[int64]*domain.StaffMember) (*Service, *mockStaffRepo) {
	repo := &mockStaffRepo{members: members, nextShiftID: 100}
	return NewService(repo, &mockTxManager{}, nopLogger{}), repo
}

func memberWithShifts(shifts ...domain.StaffShift) map[int64]*domain.StaffMember {
	return map[int64]*domain.StaffMember{
		3: {ID: 3, VendorID: 10, Name: "Anna", Active: true, Shifts: shifts},
	}
}

func TestAddShift_Success(t *testing.T) {
	svc, repo := newTestService(memberWithShifts())

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(17, 0)}

	created, err := svc.AddShift(context.Background(), 10, shift)
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Len(t, repo.addedShifts, 1)
}

func TestAddShift_TooShort(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(9, 30)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrShiftTooShort)
}

func TestAddShift_TooLong(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(8, 0), EndAt: dayAt(21, 0)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrShiftTooLong)
}

func TestAddShift_StartNotBeforeEnd(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(17, 0), EndAt: dayAt(9, 0)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestAddShift_OverlapRejected(t *testing.T) {
	svc, _ := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(12, 0), EndAt: dayAt(16, 0)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrShiftOverlap)
}

func TestAddShift_GapShorterThanMinimumRejected(t *testing.T) {
	svc, _ := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	// Only 15 minutes after the previous shift ends
	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(13, 15), EndAt: dayAt(17, 0)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrShiftOverlap)
}

func TestAddShift_ExactMinimumGapAccepted(t *testing.T) {
	svc, _ := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(13, 30), EndAt: dayAt(17, 0)}

	_, err := svc.AddShift(context.Background(), 10, shift)
	assert.NoError(t, err)
}

func TestAddShift_ForeignVendorDenied(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	shift := &domain.StaffShift{StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(17, 0)}

	_, err := svc.AddShift(context.Background(), 99, shift)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestUpdateShift_OwnRecordExcludedFromConflictCheck(t *testing.T) {
	svc, _ := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	// Extending the same shift may overlap its own old window
	shift := &domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(14, 0)}

	_, err := svc.UpdateShift(context.Background(), 10, shift)
	assert.NoError(t, err)
}

func TestReplaceShifts_AtomicValidation(t *testing.T) {
	svc, repo := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	// Second new shift violates the gap against the first new shift
	shifts := []*domain.StaffShift{
		{StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
		{StartAt: dayAt(13, 10), EndAt: dayAt(17, 0)},
	}

	_, err := svc.ReplaceShifts(context.Background(), 10, 3, shifts)
	assert.ErrorIs(t, err, ErrShiftOverlap)

	// Nothing was deleted or added
	assert.Empty(t, repo.deletedShifts)
	assert.Empty(t, repo.addedShifts)
}

func TestReplaceShifts_Success(t *testing.T) {
	svc, repo := newTestService(memberWithShifts(
		domain.StaffShift{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(13, 0)},
	))

	shifts := []*domain.StaffShift{
		{StartAt: dayAt(8, 0), EndAt: dayAt(12, 0)},
		{StartAt: dayAt(12, 30), EndAt: dayAt(16, 30)},
	}

	created, err := svc.ReplaceShifts(context.Background(), 10, 3, shifts)
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Equal(t, []int64{50}, repo.deletedShifts)
	assert.Len(t, repo.addedShifts, 2)
}

func TestWorkload_SummarizesDay(t *testing.T) {
	members := map[int64]*domain.StaffMember{
		3: {
			ID: 3, VendorID: 10, Name: "Anna", Active: true,
			Shifts: []domain.StaffShift{
				{ID: 50, StaffID: 3, StartAt: dayAt(9, 0), EndAt: dayAt(17, 0)},
			},
			Bookings: []domain.StaffBooking{
				{BookingID: 1, StartAt: dayAt(10, 0), EndAt: dayAt(11, 0), Status: domain.StatusConfirmed},
				{BookingID: 2, StartAt: dayAt(14, 0), EndAt: dayAt(15, 30), Status: domain.StatusConfirmed},
				{BookingID: 3, StartAt: dayAt(12, 0), EndAt: dayAt(13, 0), Status: domain.StatusCancelled},
			},
		},
	}
	svc, _ := newTestService(members)

	summary, err := svc.Workload(context.Background(), 10, 3, shiftDay)
	require.NoError(t, err)

	assert.Equal(t, 2, summary.ActiveBookings)
	assert.Equal(t, 150, summary.BookedMinutes)
	assert.Equal(t, 480, summary.ShiftMinutes)
	assert.InDelta(t, 0.3125, summary.Utilization, 0.0001)
	assert.Equal(t, 1, summary.HourlyOccupancy[10])
	assert.Equal(t, 1, summary.HourlyOccupancy[14])
	assert.Equal(t, 1, summary.HourlyOccupancy[15])
	assert.Equal(t, 0, summary.HourlyOccupancy[12])
}

func TestWorkload_ZeroShiftMinutesZeroUtilization(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	summary, err := svc.Workload(context.Background(), 10, 3, shiftDay)
	require.NoError(t, err)
	assert.Zero(t, summary.ShiftMinutes)
	assert.Zero(t, summary.Utilization)
}

func TestCreate_EmptyNameRejected(t *testing.T) {
	svc, _ := newTestService(memberWithShifts())

	_, err := svc.Create(context.Background(), &domain.StaffMember{VendorID: 10, Name: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
