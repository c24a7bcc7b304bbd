package bookings

import (
	"context"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

type BookingService interface {
	GetByID(ctx context.Context, id, customerID, vendorID int64) (*domain.Booking, error)
	GetVendorBookings(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error)
	GetCustomerBookings(ctx context.Context, customerID int64) ([]*domain.Booking, error)
	Cancel(ctx context.Context, bookingID int64, reason, cancelledBy string) error
	UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus, reason, changedBy string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
