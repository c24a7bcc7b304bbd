package shifts

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ShiftRepository интерфейс репозитория шаблонов смен
type ShiftRepository interface {
	Create(ctx context.Context, shift *domain.RoleShift) (*domain.RoleShift, error)
	GetByID(ctx context.Context, id int64) (*domain.RoleShift, error)
	GetByRole(ctx context.Context, roleID int64) ([]*domain.RoleShift, error)
	GetByVendor(ctx context.Context, vendorID int64) ([]*domain.RoleShift, error)
	Update(ctx context.Context, shift *domain.RoleShift) error
	Delete(ctx context.Context, id int64) error
}

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
