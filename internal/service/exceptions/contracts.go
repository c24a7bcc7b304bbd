package exceptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// ExceptionRepository интерфейс репозитория исключений расписания
type ExceptionRepository interface {
	Create(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error)
	GetByID(ctx context.Context, id int64) (*domain.ScheduleException, error)
	GetByVendorAndDate(ctx context.Context, vendorID int64, date time.Time) ([]*domain.ScheduleException, error)
	GetByVendorAndDateRange(ctx context.Context, vendorID int64, from, to time.Time) ([]*domain.ScheduleException, error)
	Update(ctx context.Context, exc *domain.ScheduleException) error
	Delete(ctx context.Context, id int64) error
}

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
	GetByBookingItem(ctx context.Context, itemID int64) ([]*domain.Role, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
