package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// AvailabilityService движок доступности
type AvailabilityService interface {
	DaySlots(ctx context.Context, vendorID, itemID int64, date time.Time, durationMinutes int, excludeBookingID *int64) ([]domain.TimeSlot, string, error)
}

// CatalogServiceClient интерфейс клиента каталога
type CatalogServiceClient interface {
	GetBookingItem(ctx context.Context, itemID int64) (*catalogservice.BookingItem, error)
}

// SlotsCache интерфейс кеша слотов доступности
type SlotsCache interface {
	Get(ctx context.Context, key string) ([]domain.TimeSlot, error)
	Set(ctx context.Context, key string, slots []domain.TimeSlot) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
