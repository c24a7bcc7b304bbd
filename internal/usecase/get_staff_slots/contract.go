package get_staff_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// AvailabilityService движок доступности
type AvailabilityService interface {
	StaffDaySlots(ctx context.Context, vendorID, staffID int64, date time.Time, durationMinutes int) ([]domain.TimeSlot, string, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
