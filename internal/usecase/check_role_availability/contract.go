package check_role_availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
}

// ShiftRepository интерфейс репозитория шаблонов смен
type ShiftRepository interface {
	GetActiveForDay(ctx context.Context, roleIDs []int64, dayOfWeek int) ([]*domain.RoleShift, error)
}

// ExceptionRepository интерфейс репозитория исключений расписания
type ExceptionRepository interface {
	GetByVendorAndDate(ctx context.Context, vendorID int64, date time.Time) ([]*domain.ScheduleException, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetActiveOverlapping(ctx context.Context, roleID int64, start, end time.Time) ([]*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
