package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ScheduleRepository интерфейс репозитория назначений
type ScheduleRepository interface {
	Create(ctx context.Context, entry *domain.StaffSchedule) (*domain.StaffSchedule, error)
	GetByID(ctx context.Context, id int64) (*domain.StaffSchedule, error)
	GetByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) ([]*domain.StaffSchedule, error)
	GetByStaffAndDateRange(ctx context.Context, staffID int64, from, to time.Time) ([]*domain.StaffSchedule, error)
	GetPublishedByRoleAndDate(ctx context.Context, roleID int64, date time.Time) ([]*domain.StaffSchedule, error)
	ExistsForRoleDateWindow(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) (bool, error)
	Update(ctx context.Context, entry *domain.StaffSchedule) error
	PublishByRoleAndDateRange(ctx context.Context, roleID int64, from, to time.Time) (int64, error)
	Delete(ctx context.Context, id int64) error
}

// ShiftRepository интерфейс репозитория шаблонов смен
type ShiftRepository interface {
	GetByRole(ctx context.Context, roleID int64) ([]*domain.RoleShift, error)
}

// RoleRepository интерфейс репозитория ролей
type RoleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Role, error)
}

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
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
