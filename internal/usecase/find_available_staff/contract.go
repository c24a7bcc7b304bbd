package find_available_staff

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	GetByBookingItem(ctx context.Context, itemID int64) ([]*domain.Role, error)
}

// ScheduleService сервис назначений персонала
type ScheduleService interface {
	ResolveStaff(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) ([]int64, error)
}

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
}

// CatalogServiceClient интерфейс клиента каталога
type CatalogServiceClient interface {
	GetBookingItem(ctx context.Context, itemID int64) (*catalogservice.BookingItem, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
