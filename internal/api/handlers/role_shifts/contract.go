package role_shifts

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type ShiftService interface {
	Create(ctx context.Context, vendorID int64, shift *domain.RoleShift) (*domain.RoleShift, error)
	BulkCreate(ctx context.Context, vendorID int64, shifts []*domain.RoleShift) ([]*domain.RoleShift, error)
	GetByRole(ctx context.Context, vendorID, roleID int64) ([]*domain.RoleShift, error)
	Update(ctx context.Context, vendorID int64, shift *domain.RoleShift) (*domain.RoleShift, error)
	Delete(ctx context.Context, vendorID, shiftID int64) error
	CheckConflicts(ctx context.Context, vendorID int64, shift *domain.RoleShift) ([]*domain.RoleShift, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
