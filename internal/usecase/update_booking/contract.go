package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error
}

// StaffRepository интерфейс репозитория персонала
type StaffRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.StaffMember, error)
	AddCalendarEntry(ctx context.Context, entry *domain.StaffBooking) (*domain.StaffBooking, error)
	DeleteCalendarEntry(ctx context.Context, bookingID int64) error
}

// AvailabilityService движок доступности
type AvailabilityService interface {
	AdmitBooking(ctx context.Context, vendorID, itemID int64, start, end time.Time, excludeBookingID *int64) (int64, error)
}

// ScheduleService сервис назначений персонала
type ScheduleService interface {
	ResolveStaff(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) ([]int64, error)
}

// SlotsCache интерфейс кеша слотов доступности
type SlotsCache interface {
	InvalidateVendor(ctx context.Context, vendorID int64) error
}

// EventPublisher интерфейс публикации событий бронирований
type EventPublisher interface {
	PublishAsync(ctx context.Context, routingKey string, event notifications.BookingEvent)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
