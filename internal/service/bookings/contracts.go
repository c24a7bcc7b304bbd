package bookings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByVendorWithFilter(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
	GetByCustomer(ctx context.Context, customerID int64) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus, reason, changedBy *string) error
}

// StaffRepository интерфейс репозитория персонала
// Нужен для синхронизации календаря сотрудника со статусом журнала
type StaffRepository interface {
	UpdateCalendarEntryStatus(ctx context.Context, bookingID int64, status domain.BookingStatus) error
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
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
