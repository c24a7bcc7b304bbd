package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
)

// Service сервис жизненного цикла бронирований
// Смена статуса пишется в журнал вместе с аудитом перехода; копия
// в календаре сотрудника обновляется в той же транзакции
type Service struct {
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	slotsCache  SlotsCache
	publisher   EventPublisher
	txManager   TransactionManager
	logger      Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	slotsCache SlotsCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		slotsCache:  slotsCache,
		publisher:   publisher,
		txManager:   txManager,
		logger:      logger,
	}
}

// GetByID получает бронирование по ID
// Клиент видит только свое бронирование; вендор - бронирования своих ролей
func (s *Service) GetByID(ctx context.Context, id, customerID, vendorID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if booking.CustomerID != customerID && booking.VendorID != vendorID {
		s.logger.Warn("GetByID: access denied to booking id=%d for customer=%d vendor=%d", id, customerID, vendorID)
		return nil, ErrAccessDenied
	}

	return booking, nil
}

// GetVendorBookings получает бронирования вендора с фильтрацией
// по роли, сотруднику, периоду и статусу
func (s *Service) GetVendorBookings(ctx context.Context, filter domain.VendorBookingsFilter) ([]*domain.Booking, error) {
	if filter.StartDate != nil && filter.EndDate != nil && filter.EndDate.Before(*filter.StartDate) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	bookings, err := s.bookingRepo.GetByVendorWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetVendorBookings: repository error for vendor=%d: %v", filter.VendorID, err)
		return nil, fmt.Errorf("%w: GetVendorBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetVendorBookings: fetched %d bookings for vendor=%d", len(bookings), filter.VendorID)
	return bookings, nil
}

// GetCustomerBookings получает историю бронирований клиента
func (s *Service) GetCustomerBookings(ctx context.Context, customerID int64) ([]*domain.Booking, error) {
	bookings, err := s.bookingRepo.GetByCustomer(ctx, customerID)
	if err != nil {
		s.logger.Error("GetCustomerBookings: repository error for customer=%d: %v", customerID, err)
		return nil, fmt.Errorf("%w: GetCustomerBookings - repository error: %v", ErrInternal, err)
	}

	return bookings, nil
}

// Cancel отменяет бронирование
// Отмена освобождает вместимость роли и интервал в календаре сотрудника
func (s *Service) Cancel(ctx context.Context, bookingID int64, reason, cancelledBy string) error {
	s.logger.Info("Cancel: cancelling booking id=%d by %s", bookingID, cancelledBy)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, domain.StatusCancelled, &reason, &cancelledBy); err != nil {
			return err
		}
		if booking.StaffID != nil {
			return s.staffRepo.UpdateCalendarEntryStatus(txCtx, bookingID, domain.StatusCancelled)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Cancel: transaction failed for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - transaction failed: %v", ErrInternal, err)
	}

	s.afterStatusChange(ctx, booking, domain.StatusCancelled, reason)
	s.logger.Info("Cancel: successfully cancelled booking id=%d", bookingID)
	return nil
}

// UpdateStatus переводит бронирование в новый статус с проверкой допустимости
// перехода: pending -> confirmed -> completed, отмена из любого нетерминального
func (s *Service) UpdateStatus(ctx context.Context, bookingID int64, status domain.BookingStatus, reason, changedBy string) error {
	s.logger.Info("UpdateStatus: updating booking id=%d to status=%s by %s", bookingID, status, changedBy)

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("UpdateStatus: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("UpdateStatus: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - repository error: %v", ErrInternal, err)
	}

	if !booking.CanTransitionTo(status) {
		s.logger.Warn("UpdateStatus: invalid transition %s -> %s for booking id=%d", booking.Status, status, bookingID)
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, status)
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.bookingRepo.UpdateStatus(txCtx, bookingID, status, &reason, &changedBy); err != nil {
			return err
		}
		if booking.StaffID != nil {
			return s.staffRepo.UpdateCalendarEntryStatus(txCtx, bookingID, status)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("UpdateStatus: transaction failed for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: UpdateStatus - transaction failed: %v", ErrInternal, err)
	}

	s.afterStatusChange(ctx, booking, status, reason)
	s.logger.Info("UpdateStatus: successfully updated booking id=%d to status=%s", bookingID, status)
	return nil
}

// afterStatusChange инвалидирует кеш слотов и публикует событие
// Обе операции best-effort: сбой не откатывает уже зафиксированный переход
func (s *Service) afterStatusChange(ctx context.Context, booking *domain.Booking, status domain.BookingStatus, reason string) {
	if s.slotsCache != nil {
		if err := s.slotsCache.InvalidateVendor(ctx, booking.VendorID); err != nil {
			s.logger.Warn("afterStatusChange: failed to invalidate slots cache for vendor=%d: %v", booking.VendorID, err)
		}
	}

	if s.publisher != nil {
		s.publisher.PublishAsync(ctx, notifications.EventBookingStatus, notifications.BookingEvent{
			BookingID:  booking.ID,
			VendorID:   booking.VendorID,
			CustomerID: booking.CustomerID,
			StaffID:    booking.StaffID,
			Status:     string(status),
			Reason:     reason,
			StartAt:    booking.StartAt,
			OccurredAt: time.Now(),
		})
	}
}
