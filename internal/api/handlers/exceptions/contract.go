package exceptions

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type ExceptionService interface {
	Create(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error)
	GetByVendorAndDateRange(ctx context.Context, vendorID int64, from, to time.Time) ([]*domain.ScheduleException, error)
	Update(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error)
	Delete(ctx context.Context, vendorID, excID int64) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
