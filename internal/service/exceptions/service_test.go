package exceptions

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	excStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/exception"
	roleStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockExceptionRepo struct {
	exceptions map[int64]*domain.ScheduleException
	byDate     []*domain.ScheduleException
	byRange    []*domain.ScheduleException
	created    *domain.ScheduleException
	updated    *domain.ScheduleException
	deleted    []int64
}

func (m *mockExceptionRepo) Create(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	clone := *exc
	clone.ID = 1
	m.created = &clone
	return &clone, nil
}

func (m *mockExceptionRepo) GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error) {
	exc, ok := m.exceptions[id]
	if !ok {
		return nil, excStorage.ErrExceptionNotFound
	}
	return exc, nil
}

func (m *mockExceptionRepo) GetByVendorAndDateRange(ctx context.Context, vendorID int64, from, to time.Time) ([]*domain.ScheduleException, error) {
	return m.byRange, nil
}

func (m *mockExceptionRepo) GetByVendorAndDate(ctx context.Context, vendorID int64, date time.Time) ([]*domain.ScheduleException, error) {
	return m.byDate, nil
}

func (m *mockExceptionRepo) Update(ctx context.Context, exc *domain.ScheduleException) error {
	clone := *exc
	m.updated = &clone
	return nil
}

func (m *mockExceptionRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
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

func (m *mockRoleRepo) GetByBookingItem(ctx context.Context, itemID int64) ([]*domain.Role, error) {
	result := make([]*domain.Role, 0)
	for _, role := range m.roles {
		for _, id := range role.BookingItemIDs {
			if id == itemID {
				result = append(result, role)
				break
			}
		}
	}
	return result, nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

var excDate = time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

func tsPtr(v string) *types.TimeString {
	t := types.TimeString(v)
	return &t
}

func intPtr(v int) *int { return &v }

func newTestService() (*Service, *mockExceptionRepo) {
	repo := &mockExceptionRepo{exceptions: map[int64]*domain.ScheduleException{}}
	roles := &mockRoleRepo{roles: map[int64]*domain.Role{
		1: {ID: 1, VendorID: 10, BookingItemIDs: []int64{100}, Active: true},
		7: {ID: 7, VendorID: 99, BookingItemIDs: []int64{700}, Active: true},
	}}
	return NewService(repo, roles, nopLogger{}), repo
}

func closedException() *domain.ScheduleException {
	return &domain.ScheduleException{
		VendorID: 10,
		Date:     excDate,
		Type:     domain.ExceptionClosed,
	}
}

func TestCreate_ClosedVendorWide(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Create(context.Background(), closedException())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.True(t, repo.created.IsVendorWide())
}

func TestCreate_ModifiedHoursWithWindow(t *testing.T) {
	svc, _ := newTestService()

	exc := &domain.ScheduleException{
		VendorID:  10,
		Date:      excDate,
		Type:      domain.ExceptionModifiedHours,
		RoleIDs:   []int64{1},
		StartTime: tsPtr("10:00"),
		EndTime:   tsPtr("14:00"),
	}

	_, err := svc.Create(context.Background(), exc)
	assert.NoError(t, err)
}

func TestCreate_SpecialEventWithCapacityOverride(t *testing.T) {
	svc, _ := newTestService()

	exc := &domain.ScheduleException{
		VendorID: 10,
		Date:     excDate,
		Type:     domain.ExceptionSpecialEvent,
		Capacity: intPtr(5),
	}

	_, err := svc.Create(context.Background(), exc)
	assert.NoError(t, err)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name string
		exc  *domain.ScheduleException
	}{
		{
			name: "unknown type",
			exc:  &domain.ScheduleException{VendorID: 10, Date: excDate, Type: "holiday"},
		},
		{
			name: "missing date",
			exc:  &domain.ScheduleException{VendorID: 10, Type: domain.ExceptionClosed},
		},
		{
			name: "modified_hours without window",
			exc:  &domain.ScheduleException{VendorID: 10, Date: excDate, Type: domain.ExceptionModifiedHours},
		},
		{
			name: "modified_hours with inverted window",
			exc: &domain.ScheduleException{
				VendorID: 10, Date: excDate, Type: domain.ExceptionModifiedHours,
				StartTime: tsPtr("14:00"), EndTime: tsPtr("10:00"),
			},
		},
		{
			name: "modified_hours with malformed time",
			exc: &domain.ScheduleException{
				VendorID: 10, Date: excDate, Type: domain.ExceptionModifiedHours,
				StartTime: tsPtr("24:30"), EndTime: tsPtr("25:00"),
			},
		},
		{
			name: "window on closed exception",
			exc: &domain.ScheduleException{
				VendorID: 10, Date: excDate, Type: domain.ExceptionClosed,
				StartTime: tsPtr("10:00"), EndTime: tsPtr("14:00"),
			},
		},
		{
			name: "capacity on blackout",
			exc: &domain.ScheduleException{
				VendorID: 10, Date: excDate, Type: domain.ExceptionBlackout,
				Capacity: intPtr(3),
			},
		},
		{
			name: "negative capacity",
			exc: &domain.ScheduleException{
				VendorID: 10, Date: excDate, Type: domain.ExceptionSpecialEvent,
				Capacity: intPtr(-1),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()

			_, err := svc.Create(context.Background(), tt.exc)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.created)
		})
	}
}

func TestCreate_ScopedToOwnRolesAndItems(t *testing.T) {
	svc, repo := newTestService()

	exc := closedException()
	exc.RoleIDs = []int64{1}
	exc.BookingItemIDs = []int64{100}

	_, err := svc.Create(context.Background(), exc)
	require.NoError(t, err)
	require.NotNil(t, repo.created)
}

func TestCreate_ForeignScopeRejected(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(exc *domain.ScheduleException)
	}{
		{
			name:   "role of another vendor",
			mutate: func(exc *domain.ScheduleException) { exc.RoleIDs = []int64{7} },
		},
		{
			name:   "unknown role",
			mutate: func(exc *domain.ScheduleException) { exc.RoleIDs = []int64{999} },
		},
		{
			name:   "item served only by another vendor",
			mutate: func(exc *domain.ScheduleException) { exc.BookingItemIDs = []int64{700} },
		},
		{
			name:   "item served by nobody",
			mutate: func(exc *domain.ScheduleException) { exc.BookingItemIDs = []int64{888} },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			exc := closedException()
			tt.mutate(exc)

			_, err := svc.Create(context.Background(), exc)
			assert.ErrorIs(t, err, ErrForeignScope)
			assert.Nil(t, repo.created)
		})
	}
}

func TestUpdate_ForeignScopeRejected(t *testing.T) {
	svc, repo := newTestService()
	existing := closedException()
	existing.ID = 5
	repo.exceptions[5] = existing

	exc := closedException()
	exc.ID = 5
	exc.RoleIDs = []int64{7}

	_, err := svc.Update(context.Background(), exc)
	assert.ErrorIs(t, err, ErrForeignScope)
	assert.Nil(t, repo.updated)
}

func TestGetByID_ForeignVendorDenied(t *testing.T) {
	svc, repo := newTestService()
	exc := closedException()
	exc.ID = 5
	repo.exceptions[5] = exc

	_, err := svc.GetByID(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 10, 5)
	assert.ErrorIs(t, err, ErrExceptionNotFound)
}

func TestGetByVendorAndDateRange_InvertedRangeRejected(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByVendorAndDateRange(context.Background(), 10, excDate, excDate.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdate_KeepsOriginalCreatedAt(t *testing.T) {
	svc, repo := newTestService()
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	existing := closedException()
	existing.ID = 5
	existing.CreatedAt = createdAt
	repo.exceptions[5] = existing

	exc := closedException()
	exc.ID = 5

	updated, err := svc.Update(context.Background(), exc)
	require.NoError(t, err)
	assert.Equal(t, createdAt, updated.CreatedAt)
	require.NotNil(t, repo.updated)
	assert.Equal(t, createdAt, repo.updated.CreatedAt)
}

func TestDelete_Success(t *testing.T) {
	svc, repo := newTestService()
	exc := closedException()
	exc.ID = 5
	repo.exceptions[5] = exc

	err := svc.Delete(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.deleted)
}

func TestMatchForDate_FiltersByRolesAndItem(t *testing.T) {
	svc, repo := newTestService()
	repo.byDate = []*domain.ScheduleException{
		{ID: 1, VendorID: 10, Date: excDate, Type: domain.ExceptionClosed},                           // vendor-wide
		{ID: 2, VendorID: 10, Date: excDate, Type: domain.ExceptionBlackout, RoleIDs: []int64{1}},    // matches role
		{ID: 3, VendorID: 10, Date: excDate, Type: domain.ExceptionBlackout, RoleIDs: []int64{99}},   // foreign role
		{ID: 4, VendorID: 10, Date: excDate, Type: domain.ExceptionBlackout, BookingItemIDs: []int64{100}}, // matches item
	}

	matched, err := svc.MatchForDate(context.Background(), 10, excDate, []int64{1, 2}, 100)
	require.NoError(t, err)
	require.Len(t, matched, 3)
	assert.Equal(t, int64(1), matched[0].ID)
	assert.Equal(t, int64(2), matched[1].ID)
	assert.Equal(t, int64(4), matched[2].ID)
}
