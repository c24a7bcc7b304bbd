package shifts

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	shiftStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/roleshift"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockShiftRepo struct {
	shifts      map[int64]*domain.RoleShift
	byRole      []*domain.RoleShift
	created     []*domain.RoleShift
	createErr   error
	createCalls int
	nextID      int64
}

func (m *mockShiftRepo) Create(ctx context.Context, shift *domain.RoleShift) (*domain.RoleShift, error) {
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	m.nextID++
	clone := *shift
	clone.ID = m.nextID
	m.created = append(m.created, &clone)
	return &clone, nil
}

func (m *mockShiftRepo) GetByID(ctx context.Context, id int64) (*domain.RoleShift, error) {
	shift, ok := m.shifts[id]
	if !ok {
		return nil, shiftStorage.ErrShiftNotFound
	}
	return shift, nil
}

func (m *mockShiftRepo) GetByRole(ctx context.Context, roleID int64) ([]*domain.RoleShift, error) {
	return m.byRole, nil
}

func (m *mockShiftRepo) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.RoleShift, error) {
	return m.byRole, nil
}

func (m *mockShiftRepo) Update(ctx context.Context, shift *domain.RoleShift) error {
	return nil
}

func (m *mockShiftRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := m.shifts[id]; !ok {
		return shiftStorage.ErrShiftNotFound
	}
	delete(m.shifts, id)
	return nil
}

type mockRoleRepo struct {
	roles map[int64]*domain.Role
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, roleStorage.ErrRoleNotFound
	}
	return role, nil
}

type mockTxManager struct{}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func ts(v string) types.TimeString { return types.TimeString(v) }
func intPtr(v int) *int            { return &v }

func testRole() *domain.Role {
	return &domain.Role{
		ID: 1, VendorID: 10, Name: "Instructor",
		DefaultCapacity: 2, BookingItemIDs: []int64{100, 101}, Active: true,
	}
}

func newTestService() (*Service, *mockShiftRepo) {
	shiftRepo := &mockShiftRepo{shifts: map[int64]*domain.RoleShift{}}
	roleRepo := &mockRoleRepo{roles: map[int64]*domain.Role{1: testRole()}}
	return NewService(shiftRepo, roleRepo, &mockTxManager{}, nopLogger{}), shiftRepo
}

func validShift() *domain.RoleShift {
	return &domain.RoleShift{
		RoleID:    1,
		DayOfWeek: 1,
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
		Active:    true,
	}
}

func TestCreate_Success(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Create(context.Background(), 10, validShift())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Equal(t, int64(10), created.VendorID)
	assert.Len(t, repo.created, 1)
}

func TestCreate_RoleNotFound(t *testing.T) {
	svc, _ := newTestService()

	shift := validShift()
	shift.RoleID = 99

	_, err := svc.Create(context.Background(), 10, shift)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestCreate_ForeignRoleDenied(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), 99, validShift())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(shift *domain.RoleShift)
		wantErr error
	}{
		{"day of week out of range", func(s *domain.RoleShift) { s.DayOfWeek = 7 }, ErrInvalidInput},
		{"negative day of week", func(s *domain.RoleShift) { s.DayOfWeek = -1 }, ErrInvalidInput},
		{"malformed start time", func(s *domain.RoleShift) { s.StartTime = ts("9am") }, ErrInvalidInput},
		{"malformed end time", func(s *domain.RoleShift) { s.EndTime = ts("25:00") }, ErrInvalidInput},
		{"start not before end", func(s *domain.RoleShift) { s.StartTime = ts("17:00"); s.EndTime = ts("09:00") }, ErrInvalidInput},
		{"zero capacity override", func(s *domain.RoleShift) { s.Capacity = intPtr(0) }, ErrInvalidInput},
		{"item not served by role", func(s *domain.RoleShift) { s.BookingItemIDs = []int64{999} }, ErrItemNotServed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			shift := validShift()
			tt.mutate(shift)

			_, err := svc.Create(context.Background(), 10, shift)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, repo.created)
		})
	}
}

func TestCreate_ServedItemSubsetAccepted(t *testing.T) {
	svc, _ := newTestService()

	shift := validShift()
	shift.BookingItemIDs = []int64{101}
	shift.Capacity = intPtr(1)

	_, err := svc.Create(context.Background(), 10, shift)
	assert.NoError(t, err)
}

func TestBulkCreate_AllOrNothing(t *testing.T) {
	svc, repo := newTestService()

	// Второй шаблон невалиден, первый не должен создаться
	shifts := []*domain.RoleShift{
		validShift(),
		{RoleID: 1, DayOfWeek: 2, StartTime: ts("17:00"), EndTime: ts("09:00")},
	}

	_, err := svc.BulkCreate(context.Background(), 10, shifts)
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Zero(t, repo.createCalls)
}

func TestBulkCreate_Success(t *testing.T) {
	svc, repo := newTestService()

	second := validShift()
	second.DayOfWeek = 3

	created, err := svc.BulkCreate(context.Background(), 10, []*domain.RoleShift{validShift(), second})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, repo.created, 2)
}

func TestBulkCreate_EmptyListRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.BulkCreate(context.Background(), 10, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetByID_ForeignVendorDenied(t *testing.T) {
	svc, repo := newTestService()
	repo.shifts[5] = &domain.RoleShift{ID: 5, RoleID: 1, VendorID: 10}

	_, err := svc.GetByID(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 10, 5)
	assert.ErrorIs(t, err, ErrShiftNotFound)
}

func TestUpdate_RoleAndVendorPinnedToExistingRecord(t *testing.T) {
	svc, repo := newTestService()
	repo.shifts[5] = &domain.RoleShift{ID: 5, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00")}

	// Попытка перевесить шаблон на чужую роль игнорируется
	shift := &domain.RoleShift{ID: 5, RoleID: 42, DayOfWeek: 2, StartTime: ts("10:00"), EndTime: ts("18:00")}

	updated, err := svc.Update(context.Background(), 10, shift)
	require.NoError(t, err)
	assert.Equal(t, int64(1), updated.RoleID)
	assert.Equal(t, int64(10), updated.VendorID)
}

func TestDelete_Success(t *testing.T) {
	svc, repo := newTestService()
	repo.shifts[5] = &domain.RoleShift{ID: 5, RoleID: 1, VendorID: 10}

	err := svc.Delete(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Empty(t, repo.shifts)
}

func TestCheckConflicts_OverlapsSameDayOnly(t *testing.T) {
	svc, repo := newTestService()
	repo.byRole = []*domain.RoleShift{
		{ID: 1, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("08:00"), EndTime: ts("12:00"), Active: true},
		{ID: 2, RoleID: 1, VendorID: 10, DayOfWeek: 2, StartTime: ts("08:00"), EndTime: ts("12:00"), Active: true},
		{ID: 3, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("14:00"), EndTime: ts("18:00"), Active: true},
	}

	shift := &domain.RoleShift{RoleID: 1, DayOfWeek: 1, StartTime: ts("11:00"), EndTime: ts("15:00")}

	conflicts, err := svc.CheckConflicts(context.Background(), 10, shift)
	require.NoError(t, err)
	require.Len(t, conflicts, 2)
	assert.Equal(t, int64(1), conflicts[0].ID)
	assert.Equal(t, int64(3), conflicts[1].ID)
}

func TestCheckConflicts_TouchingBoundaryIsNotConflict(t *testing.T) {
	svc, repo := newTestService()
	repo.byRole = []*domain.RoleShift{
		{ID: 1, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("08:00"), EndTime: ts("12:00"), Active: true},
	}

	shift := &domain.RoleShift{RoleID: 1, DayOfWeek: 1, StartTime: ts("12:00"), EndTime: ts("16:00")}

	conflicts, err := svc.CheckConflicts(context.Background(), 10, shift)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestCheckConflicts_SkipsSelfAndInactive(t *testing.T) {
	svc, repo := newTestService()
	repo.byRole = []*domain.RoleShift{
		{ID: 5, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("08:00"), EndTime: ts("12:00"), Active: true},
		{ID: 6, RoleID: 1, VendorID: 10, DayOfWeek: 1, StartTime: ts("08:00"), EndTime: ts("12:00"), Active: false},
	}

	shift := &domain.RoleShift{ID: 5, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("11:00")}

	conflicts, err := svc.CheckConflicts(context.Background(), 10, shift)
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}
