package roles

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleStorage "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
)

type mockRoleRepo struct {
	roles   map[int64]*domain.Role
	created *domain.Role
	updated *domain.Role
	deleted []int64
}

func (m *mockRoleRepo) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	clone := *role
	clone.ID = 1
	m.created = &clone
	return &clone, nil
}

func (m *mockRoleRepo) GetByID(ctx context.Context, id int64) (*domain.Role, error) {
	role, ok := m.roles[id]
	if !ok {
		return nil, roleStorage.ErrRoleNotFound
	}
	return role, nil
}

func (m *mockRoleRepo) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.Role, error) {
	result := make([]*domain.Role, 0)
	for _, role := range m.roles {
		if role.VendorID == vendorID {
			result = append(result, role)
		}
	}
	return result, nil
}

func (m *mockRoleRepo) Update(ctx context.Context, role *domain.Role) error {
	clone := *role
	m.updated = &clone
	return nil
}

func (m *mockRoleRepo) Delete(ctx context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func newTestService() (*Service, *mockRoleRepo) {
	repo := &mockRoleRepo{roles: map[int64]*domain.Role{}}
	return NewService(repo, nopLogger{}), repo
}

func validRole() *domain.Role {
	return &domain.Role{
		VendorID:        10,
		Name:            "Instructor",
		DefaultCapacity: 2,
		BookingItemIDs:  []int64{100},
		Active:          true,
	}
}

func TestCreate_Success(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Create(context.Background(), validRole())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.NotNil(t, repo.created)
}

func TestCreate_ValidationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(role *domain.Role)
	}{
		{"empty name", func(r *domain.Role) { r.Name = "  " }},
		{"zero capacity", func(r *domain.Role) { r.DefaultCapacity = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo := newTestService()
			role := validRole()
			tt.mutate(role)

			_, err := svc.Create(context.Background(), role)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.created)
		})
	}
}

func TestGetByID_ForeignVendorDenied(t *testing.T) {
	svc, repo := newTestService()
	role := validRole()
	role.ID = 5
	repo.roles[5] = role

	_, err := svc.GetByID(context.Background(), 99, 5)
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.GetByID(context.Background(), 10, 5)
	assert.ErrorIs(t, err, ErrRoleNotFound)
}

func TestUpdate_KeepsOriginalCreatedAt(t *testing.T) {
	svc, repo := newTestService()
	createdAt := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	existing := validRole()
	existing.ID = 5
	existing.CreatedAt = createdAt
	repo.roles[5] = existing

	role := validRole()
	role.ID = 5
	role.Name = "Senior Instructor"

	updated, err := svc.Update(context.Background(), role)
	require.NoError(t, err)
	assert.Equal(t, createdAt, updated.CreatedAt)
	assert.Equal(t, "Senior Instructor", repo.updated.Name)
}

func TestDelete_Success(t *testing.T) {
	svc, repo := newTestService()
	role := validRole()
	role.ID = 5
	repo.roles[5] = role

	err := svc.Delete(context.Background(), 10, 5)
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, repo.deleted)
}
