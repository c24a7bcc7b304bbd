package schedules

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	scheduleStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	staffStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

type mockScheduleRepo struct {
	entries    map[int64]*domain.StaffSchedule
	created    []*domain.StaffSchedule
	published  []*domain.StaffSchedule
	byStaff    map[int64][]*domain.StaffSchedule
	nextID     int64
	existing   map[string]bool // "roleID:date:start:end" -> занятое окно
	publishCnt int64
}

func scheduleKey(roleID int64, date time.Time, startTime, endTime types.TimeString) string {
	return fmt.Sprintf("%d:%s:%s:%s", roleID, date.Format(domain.DateFormat), startTime, endTime)
}

func (m *mockScheduleRepo) Create(ctx context.Context, entry *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	m.nextID++
	clone := *entry
	clone.ID = m.nextID
	m.created = append(m.created, &clone)
	return &clone, nil
}

func (m *mockScheduleRepo) GetByID(ctx context.Context, id int64) (*domain.StaffSchedule, error) {
	entry, ok := m.entries[id]
	if !ok {
		return nil, scheduleStorage.ErrScheduleNotFound
	}
	return entry, nil
}

func (m *mockScheduleRepo) GetByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	return nil, nil
}

func (m *mockScheduleRepo) GetByStaffAndDateRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	result := make([]*domain.StaffSchedule, 0)
	for _, entry := range m.byStaff[staffID] {
		if entry.Date.Before(from) || entry.Date.After(to) {
			continue
		}
		result = append(result, entry)
	}
	return result, nil
}

func (m *mockScheduleRepo) GetPublishedByRoleAndDate(ctx context.Context, roleID int64, date time.Time) ([]*domain.StaffSchedule, error) {
	return m.published, nil
}

func (m *mockScheduleRepo) ExistsForRoleDateWindow(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) (bool, error) {
	return m.existing[scheduleKey(roleID, date, startTime, endTime)], nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, entry *domain.StaffSchedule) error {
	return nil
}

func (m *mockScheduleRepo) PublishByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) (int64, error) {
	return m.publishCnt, nil
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id int64) error {
	return nil
}

type mockShiftRepo struct {
	templates []*domain.RoleShift
}

func (m *mockShiftRepo) GetByRole(ctx context.Context, roleID int64) ([]*domain.RoleShift, error) {
	return m.templates, nil
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

type mockStaffRepo struct {
	members map[int64]*domain.StaffMember
}

func (m *mockStaffRepo) GetByID(ctx context.Context, id int64) (*domain.StaffMember, error) {
	member, ok := m.members[id]
	if !ok {
		return nil, staffStorage.ErrStaffNotFound
	}
	return member, nil
}

type mockTxManager struct{}

func (m *mockTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func ts(s string) types.TimeString {
	v, err := types.NewTimeStringFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

type fixture struct {
	scheduleRepo *mockScheduleRepo
	shiftRepo    *mockShiftRepo
	roleRepo     *mockRoleRepo
	staffRepo    *mockStaffRepo
	service      *Service
}

func newFixture() *fixture {
	f := &fixture{
		scheduleRepo: &mockScheduleRepo{
			entries:  map[int64]*domain.StaffSchedule{},
			byStaff:  map[int64][]*domain.StaffSchedule{},
			existing: map[string]bool{},
		},
		shiftRepo: &mockShiftRepo{},
		roleRepo: &mockRoleRepo{roles: map[int64]*domain.Role{
			1: {ID: 1, VendorID: 10, Name: "Instructor", DefaultCapacity: 2, BookingItemIDs: []int64{100}, Active: true},
		}},
		staffRepo: &mockStaffRepo{members: map[int64]*domain.StaffMember{
			3: {ID: 3, VendorID: 10, QualifiedItemIDs: []int64{100}, Active: true},
			5: {ID: 5, VendorID: 10, QualifiedItemIDs: []int64{100}, Active: true},
		}},
	}
	f.service = NewService(f.scheduleRepo, f.shiftRepo, f.roleRepo, f.staffRepo, &mockTxManager{}, nopLogger{})
	return f
}

func TestCreate_DefaultsToDraft(t *testing.T) {
	f := newFixture()

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
	}

	created, err := f.service.Create(context.Background(), 10, entry)
	require.NoError(t, err)
	assert.Equal(t, domain.ScheduleDraft, created.Status)
}

func TestCreate_InvalidWindowRejected(t *testing.T) {
	f := newFixture()

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("17:00"),
		EndTime:   ts("09:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCreate_ForeignRoleDenied(t *testing.T) {
	f := newFixture()
	f.roleRepo.roles[1].VendorID = 99

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestCreate_UnknownStaffRejected(t *testing.T) {
	f := newFixture()

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   999,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrStaffNotFound)
}

func TestCreate_InactiveStaffRejected(t *testing.T) {
	f := newFixture()
	f.staffRepo.members[3].Active = false

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrStaffInactive)
}

func TestCreate_UnqualifiedStaffRejected(t *testing.T) {
	f := newFixture()
	f.staffRepo.members[3].QualifiedItemIDs = []int64{200}

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		StartTime: ts("09:00"),
		EndTime:   ts("17:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrStaffNotQualified)
}

func TestCreate_OverlappingAssignmentRejected(t *testing.T) {
	f := newFixture()
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	f.scheduleRepo.byStaff[3] = []*domain.StaffSchedule{
		{ID: 77, RoleID: 2, StaffID: 3, Date: date, StartTime: ts("08:00"), EndTime: ts("12:00"), Status: domain.SchedulePublished},
	}

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      date,
		StartTime: ts("10:00"),
		EndTime:   ts("14:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.ErrorIs(t, err, ErrScheduleConflict)
}

func TestCreate_CancelledAndTouchingEntriesDoNotConflict(t *testing.T) {
	f := newFixture()
	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	f.scheduleRepo.byStaff[3] = []*domain.StaffSchedule{
		// Отмененная запись и запись впритык не мешают
		{ID: 77, RoleID: 2, StaffID: 3, Date: date, StartTime: ts("10:00"), EndTime: ts("14:00"), Status: domain.ScheduleCancelled},
		{ID: 78, RoleID: 2, StaffID: 3, Date: date, StartTime: ts("06:00"), EndTime: ts("10:00"), Status: domain.SchedulePublished},
	}

	entry := &domain.StaffSchedule{
		RoleID:    1,
		StaffID:   3,
		Date:      date,
		StartTime: ts("10:00"),
		EndTime:   ts("14:00"),
	}

	_, err := f.service.Create(context.Background(), 10, entry)
	assert.NoError(t, err)
}

func TestGenerateDrafts_ExpandsWeeklyTemplates(t *testing.T) {
	f := newFixture()
	f.shiftRepo.templates = []*domain.RoleShift{
		// Понедельник и среда
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00"), Active: true},
		{ID: 21, RoleID: 1, DayOfWeek: 3, StartTime: ts("10:00"), EndTime: ts("18:00"), Active: true},
	}

	// Две полные недели: 2026-06-15 (понедельник) .. 2026-06-28 (воскресенье)
	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{5, 3}, from, to)
	require.NoError(t, err)

	// 2 понедельника + 2 среды
	require.Len(t, drafts, 4)
	for _, draft := range drafts {
		assert.Equal(t, domain.ScheduleDraft, draft.Status)
		assert.Equal(t, int64(1), draft.RoleID)
	}

	// Шаблон понедельника развернут в даты понедельников
	assert.Equal(t, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), drafts[0].Date)
	assert.Equal(t, time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC), drafts[1].Date)
	assert.Equal(t, ts("09:00"), drafts[0].StartTime)

	// Сотрудники распределяются по кругу по возрастанию ID
	assert.Equal(t, int64(3), drafts[0].StaffID)
	assert.Equal(t, int64(5), drafts[1].StaffID)
	assert.Equal(t, int64(3), drafts[2].StaffID)
	assert.Equal(t, int64(5), drafts[3].StaffID)
}

func TestGenerateDrafts_SkipsDatesWithExistingEntries(t *testing.T) {
	f := newFixture()
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00"), Active: true},
	}
	f.scheduleRepo.existing[scheduleKey(1, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), ts("09:00"), ts("17:00"))] = true

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3}, from, to)
	require.NoError(t, err)

	require.Len(t, drafts, 1)
	assert.Equal(t, time.Date(2026, 6, 22, 0, 0, 0, 0, time.UTC), drafts[0].Date)
}

func TestGenerateDrafts_TwoSameDayTemplatesBothExpanded(t *testing.T) {
	f := newFixture()
	// Два шаблона на понедельник: утреннее и вечернее окно
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("13:00"), Active: true},
		{ID: 21, RoleID: 1, DayOfWeek: 1, StartTime: ts("14:00"), EndTime: ts("18:00"), Active: true},
	}

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3}, from, to)
	require.NoError(t, err)

	require.Len(t, drafts, 2)
	assert.Equal(t, ts("09:00"), drafts[0].StartTime)
	assert.Equal(t, ts("14:00"), drafts[1].StartTime)
	assert.Equal(t, drafts[0].Date, drafts[1].Date)
}

func TestGenerateDrafts_ExistingWindowDoesNotBlockOtherWindows(t *testing.T) {
	f := newFixture()
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("13:00"), Active: true},
		{ID: 21, RoleID: 1, DayOfWeek: 1, StartTime: ts("14:00"), EndTime: ts("18:00"), Active: true},
	}
	// Утреннее окно уже сгенерировано ранее
	f.scheduleRepo.existing[scheduleKey(1, time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC), ts("09:00"), ts("13:00"))] = true

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3}, from, to)
	require.NoError(t, err)

	require.Len(t, drafts, 1)
	assert.Equal(t, ts("14:00"), drafts[0].StartTime)
}

func TestGenerateDrafts_InactiveStaffRejected(t *testing.T) {
	f := newFixture()
	f.staffRepo.members[5].Active = false
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00"), Active: true},
	}

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	_, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3, 5}, from, to)
	assert.ErrorIs(t, err, ErrStaffInactive)
}

func TestGenerateDrafts_BusyStaffYieldsToNextInRotation(t *testing.T) {
	f := newFixture()
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00"), Active: true},
	}
	// Сотрудник 3 занят на другой роли в понедельник
	f.scheduleRepo.byStaff[3] = []*domain.StaffSchedule{
		{ID: 77, RoleID: 2, StaffID: 3, Date: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
			StartTime: ts("08:00"), EndTime: ts("12:00"), Status: domain.SchedulePublished},
	}

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3, 5}, from, to)
	require.NoError(t, err)

	require.Len(t, drafts, 1)
	assert.Equal(t, int64(5), drafts[0].StaffID)
}

func TestGenerateDrafts_InactiveTemplatesIgnored(t *testing.T) {
	f := newFixture()
	f.shiftRepo.templates = []*domain.RoleShift{
		{ID: 20, RoleID: 1, DayOfWeek: 1, StartTime: ts("09:00"), EndTime: ts("17:00"), Active: false},
	}

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	drafts, err := f.service.GenerateDrafts(context.Background(), 10, 1, []int64{3}, from, to)
	require.NoError(t, err)
	assert.Empty(t, drafts)
}

func TestGenerateDrafts_EmptyStaffListRejected(t *testing.T) {
	f := newFixture()

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	_, err := f.service.GenerateDrafts(context.Background(), 10, 1, nil, from, to)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestPublishRange_ReturnsPublishedCount(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.publishCnt = 7

	from := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	published, err := f.service.PublishRange(context.Background(), 10, 1, from, to)
	require.NoError(t, err)
	assert.Equal(t, int64(7), published)
}

func TestPublishRange_InvertedRangeRejected(t *testing.T) {
	f := newFixture()

	from := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)

	_, err := f.service.PublishRange(context.Background(), 10, 1, from, to)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestResolveStaff_OnlyCoveringEntriesSortedByID(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.published = []*domain.StaffSchedule{
		{ID: 1, RoleID: 1, StaffID: 9, StartTime: ts("09:00"), EndTime: ts("18:00"), Status: domain.SchedulePublished},
		{ID: 2, RoleID: 1, StaffID: 3, StartTime: ts("09:00"), EndTime: ts("12:00"), Status: domain.SchedulePublished},
		{ID: 3, RoleID: 1, StaffID: 5, StartTime: ts("08:00"), EndTime: ts("20:00"), Status: domain.SchedulePublished},
	}

	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	staffIDs, err := f.service.ResolveStaff(context.Background(), 1, date, ts("10:00"), ts("14:00"))
	require.NoError(t, err)

	// Окно 10:00-14:00 покрывают только сотрудники 9 и 5; порядок по ID
	assert.Equal(t, []int64{5, 9}, staffIDs)
}

func TestResolveStaff_NoCoverageReturnsEmpty(t *testing.T) {
	f := newFixture()
	f.scheduleRepo.published = []*domain.StaffSchedule{
		{ID: 1, RoleID: 1, StaffID: 3, StartTime: ts("09:00"), EndTime: ts("12:00"), Status: domain.SchedulePublished},
	}

	date := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	staffIDs, err := f.service.ResolveStaff(context.Background(), 1, date, ts("13:00"), ts("15:00"))
	require.NoError(t, err)
	assert.Empty(t, staffIDs)
}
