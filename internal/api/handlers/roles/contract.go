package roles

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type RoleService interface {
	Create(ctx context.Context, role *domain.Role) (*domain.Role, error)
	GetByID(ctx context.Context, vendorID, roleID int64) (*domain.Role, error)
	GetByVendor(ctx context.Context, vendorID int64) ([]*domain.Role, error)
	Update(ctx context.Context, role *domain.Role) (*domain.Role, error)
	Delete(ctx context.Context, vendorID, roleID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
