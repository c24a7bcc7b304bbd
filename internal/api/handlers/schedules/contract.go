package schedules

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type ScheduleService interface {
	Create(ctx context.Context, vendorID int64, entry *domain.StaffSchedule) (*domain.StaffSchedule, error)
	GetByRoleAndDateRange(ctx context.Context, vendorID, roleID int64, from, to time.Time) ([]*domain.StaffSchedule, error)
	GetByStaffAndDateRange(ctx context.Context, vendorID, staffID int64, from, to time.Time) ([]*domain.StaffSchedule, error)
	Update(ctx context.Context, vendorID int64, entry *domain.StaffSchedule) (*domain.StaffSchedule, error)
	Delete(ctx context.Context, vendorID, entryID int64) error
	GenerateDrafts(ctx context.Context, vendorID, roleID int64, staffIDs []int64, from, to time.Time) ([]*domain.StaffSchedule, error)
	PublishRange(ctx context.Context, vendorID, roleID int64, from, to time.Time) (int64, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
