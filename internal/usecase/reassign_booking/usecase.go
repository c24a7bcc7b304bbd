package reassign_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	staffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case переназначения бронирования на другого сотрудника
// Перенос атомарен: запись уходит из старого календаря и появляется
// в новом в одной транзакции, промежуточное состояние снаружи не видно
type UseCase struct {
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	scheduleSvc ScheduleService
	slotsCache  SlotsCache
	publisher   EventPublisher
	txManager   TransactionManager
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	scheduleSvc ScheduleService,
	slotsCache SlotsCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		scheduleSvc: scheduleSvc,
		slotsCache:  slotsCache,
		publisher:   publisher,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute выполняет use case переназначения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ReassignBooking: booking=%d, new_staff=%d, by=%s",
		req.BookingID, req.NewStaffID, req.ChangedBy)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ReassignBooking: validation failed: %v", err)
		return nil, err
	}

	var result *Response

	// 2. Переназначение в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Бронирование читается с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("ReassignBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("ReassignBooking: failed to load booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}

		if booking.VendorID != req.VendorID {
			uc.logger.Warn("ReassignBooking: booking id=%d belongs to vendor=%d, not vendor=%d",
				req.BookingID, booking.VendorID, req.VendorID)
			return ErrBookingNotFound
		}
		if booking.IsTerminal() {
			uc.logger.Warn("ReassignBooking: booking id=%d is %s", req.BookingID, booking.Status)
			return ErrBookingNotActive
		}
		if booking.StaffID != nil && *booking.StaffID == req.NewStaffID {
			// Переназначение на того же сотрудника - no-op
			result = buildResponse(booking, booking.StaffID, req.NewStaffID)
			return nil
		}

		startAt := booking.StartAt
		endAt := booking.EndAt()

		// 2.2. Новый сотрудник: вендор, квалификация, назначение, календарь
		staff, err := uc.staffRepo.GetByID(txCtx, req.NewStaffID)
		if err != nil {
			if errors.Is(err, staffRepo.ErrStaffNotFound) {
				uc.logger.Warn("ReassignBooking: staff id=%d not found", req.NewStaffID)
				return ErrStaffNotFound
			}
			uc.logger.Error("ReassignBooking: failed to load staff id=%d: %v", req.NewStaffID, err)
			return fmt.Errorf("%w: failed to load staff: %v", ErrInternal, err)
		}

		if staff.VendorID != booking.VendorID || !staff.Active || !staff.IsQualified(booking.BookingItemID) {
			uc.logger.Warn("ReassignBooking: staff id=%d is not eligible for booking id=%d", req.NewStaffID, req.BookingID)
			return ErrStaffNotEligible
		}
		if !staff.HasCoveringShift(startAt, endAt) {
			uc.logger.Warn("ReassignBooking: staff id=%d has no shift covering [%s, %s)",
				req.NewStaffID, startAt.Format(time.RFC3339), endAt.Format(time.RFC3339))
			return ErrStaffNotEligible
		}

		date := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())
		candidates, err := uc.scheduleSvc.ResolveStaff(txCtx, booking.RoleID, date,
			types.NewTimeString(startAt), types.NewTimeString(endAt))
		if err != nil {
			uc.logger.Error("ReassignBooking: failed to resolve staff for role=%d: %v", booking.RoleID, err)
			return fmt.Errorf("%w: failed to resolve staff: %v", ErrInternal, err)
		}
		if !containsID(candidates, req.NewStaffID) {
			uc.logger.Warn("ReassignBooking: staff id=%d has no covering published schedule", req.NewStaffID)
			return ErrStaffNotEligible
		}

		if staff.HasBookingConflict(startAt, endAt, booking.ID) {
			uc.logger.Warn("ReassignBooking: staff id=%d has a conflict in [%s, %s)",
				req.NewStaffID, startAt.Format(time.RFC3339), endAt.Format(time.RFC3339))
			return ErrStaffConflict
		}

		// 2.3. Атомарный перенос: старая запись календаря удаляется,
		// новая создается, журнал обновляется - все в одной транзакции
		oldStaffID := booking.StaffID
		if oldStaffID != nil {
			if err := uc.staffRepo.DeleteCalendarEntry(txCtx, booking.ID); err != nil {
				uc.logger.Error("ReassignBooking: failed to delete old calendar entry: %v", err)
				return fmt.Errorf("%w: failed to delete old calendar entry: %v", ErrInternal, err)
			}
		}

		entry := &domain.StaffBooking{
			StaffID:   req.NewStaffID,
			BookingID: booking.ID,
			StartAt:   startAt,
			EndAt:     endAt,
			Status:    booking.Status,
		}
		if _, err := uc.staffRepo.AddCalendarEntry(txCtx, entry); err != nil {
			uc.logger.Error("ReassignBooking: failed to add new calendar entry: %v", err)
			return fmt.Errorf("%w: failed to add new calendar entry: %v", ErrInternal, err)
		}

		booking.StaffID = &req.NewStaffID
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			uc.logger.Error("ReassignBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = buildResponse(booking, oldStaffID, req.NewStaffID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ReassignBooking: successfully reassigned booking id=%d to staff id=%d",
		req.BookingID, req.NewStaffID)

	// 3. Кеш слотов и событие - best-effort, после коммита
	if uc.slotsCache != nil {
		if err := uc.slotsCache.InvalidateVendor(ctx, req.VendorID); err != nil {
			uc.logger.Warn("ReassignBooking: failed to invalidate slots cache: %v", err)
		}
	}
	if uc.publisher != nil {
		uc.publisher.PublishAsync(ctx, notifications.EventBookingReassigned, notifications.BookingEvent{
			BookingID:  result.BookingID,
			VendorID:   req.VendorID,
			StaffID:    &req.NewStaffID,
			Status:     result.Status,
			StartAt:    result.StartAt,
			OccurredAt: time.Now(),
		})
	}

	return result, nil
}

func buildResponse(booking *domain.Booking, oldStaffID *int64, newStaffID int64) *Response {
	return &Response{
		BookingID:  booking.ID,
		OldStaffID: oldStaffID,
		NewStaffID: newStaffID,
		StartAt:    booking.StartAt,
		Status:     string(booking.Status),
	}
}

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}
	if req.VendorID <= 0 {
		return fmt.Errorf("%w: vendor_id must be positive", ErrInvalidInput)
	}
	if req.NewStaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
