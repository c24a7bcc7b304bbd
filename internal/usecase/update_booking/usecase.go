package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case переноса бронирования на другое время
// Новый интервал проходит полный прием заново, при этом собственная запись
// бронирования исключается из подсчета занятости, иначе перенос внутри
// того же окна блокировал бы сам себя
type UseCase struct {
	bookingRepo  BookingRepository
	staffRepo    StaffRepository
	availSvc     AvailabilityService
	scheduleSvc  ScheduleService
	slotsCache   SlotsCache
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	availSvc AvailabilityService,
	scheduleSvc ScheduleService,
	slotsCache SlotsCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		staffRepo:    staffRepo,
		availSvc:     availSvc,
		scheduleSvc:  scheduleSvc,
		slotsCache:   slotsCache,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case переноса бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("UpdateBooking: booking=%d, customer=%d, new_start=%s",
		req.BookingID, req.CustomerID, req.NewStartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("UpdateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Новое время должно быть в будущем
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.NewStartAt, now); err != nil {
		uc.logger.Warn("UpdateBooking: new start is in the past: %s", req.NewStartAt.Format(time.RFC3339))
		return nil, err
	}

	var result *domain.Booking

	// 3. Перенос в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Бронирование читается с блокировкой строки
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				uc.logger.Warn("UpdateBooking: booking id=%d not found", req.BookingID)
				return ErrBookingNotFound
			}
			uc.logger.Error("UpdateBooking: failed to load booking id=%d: %v", req.BookingID, err)
			return fmt.Errorf("%w: failed to load booking: %v", ErrInternal, err)
		}

		if booking.CustomerID != req.CustomerID {
			uc.logger.Warn("UpdateBooking: booking id=%d belongs to customer=%d, not customer=%d",
				req.BookingID, booking.CustomerID, req.CustomerID)
			return ErrBookingNotFound
		}
		if booking.IsTerminal() {
			uc.logger.Warn("UpdateBooking: booking id=%d is %s", req.BookingID, booking.Status)
			return ErrBookingNotActive
		}

		startAt := req.NewStartAt
		endAt := startAt.Add(time.Duration(booking.DurationMinutes) * time.Minute)

		if booking.StartAt.Equal(startAt) && req.StaffID == nil {
			// Перенос на то же время - no-op
			result = booking
			return nil
		}

		// 3.2. Новый интервал проходит прием, своя запись исключена из подсчета
		roleID, err := uc.availSvc.AdmitBooking(txCtx, booking.VendorID, booking.BookingItemID,
			startAt, endAt, &booking.ID)
		if err != nil {
			switch {
			case errors.Is(err, availability.ErrVendorClosed):
				uc.logger.Warn("UpdateBooking: vendor=%d is closed on %s", booking.VendorID, startAt.Format(domain.DateFormat))
				return ErrVendorClosed
			case errors.Is(err, availability.ErrOutsideShift), errors.Is(err, availability.ErrNoRoles):
				uc.logger.Warn("UpdateBooking: no shift window covers %s for item=%d", startAt.Format(time.RFC3339), booking.BookingItemID)
				return ErrOutsideShift
			case errors.Is(err, availability.ErrCapacityExhausted):
				uc.logger.Warn("UpdateBooking: capacity exhausted for item=%d at %s", booking.BookingItemID, startAt.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("UpdateBooking: admission failed: %v", err)
			return fmt.Errorf("%w: admission failed: %v", ErrInternal, err)
		}

		// 3.3. Исполнитель подбирается заново под новый интервал
		staffID, err := uc.resolveStaff(txCtx, roleID, booking, req, startAt, endAt)
		if err != nil {
			return err
		}

		// 3.4. Календарь и журнал обновляются одной транзакцией
		if booking.StaffID != nil {
			if err := uc.staffRepo.DeleteCalendarEntry(txCtx, booking.ID); err != nil {
				uc.logger.Error("UpdateBooking: failed to delete old calendar entry: %v", err)
				return fmt.Errorf("%w: failed to delete old calendar entry: %v", ErrInternal, err)
			}
		}
		if staffID != nil {
			entry := &domain.StaffBooking{
				StaffID:   *staffID,
				BookingID: booking.ID,
				StartAt:   startAt,
				EndAt:     endAt,
				Status:    booking.Status,
			}
			if _, err := uc.staffRepo.AddCalendarEntry(txCtx, entry); err != nil {
				uc.logger.Error("UpdateBooking: failed to add new calendar entry: %v", err)
				return fmt.Errorf("%w: failed to add new calendar entry: %v", ErrInternal, err)
			}
		}

		booking.RoleID = roleID
		booking.StaffID = staffID
		booking.StartAt = startAt
		if err := uc.bookingRepo.Update(txCtx, booking); err != nil {
			uc.logger.Error("UpdateBooking: failed to update booking id=%d: %v", booking.ID, err)
			return fmt.Errorf("%w: failed to update booking: %v", ErrInternal, err)
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("UpdateBooking: successfully rescheduled booking id=%d to %s",
		result.ID, result.StartAt.Format(time.RFC3339))

	// 4. Кеш слотов и событие - best-effort, после коммита
	if uc.slotsCache != nil {
		if err := uc.slotsCache.InvalidateVendor(ctx, result.VendorID); err != nil {
			uc.logger.Warn("UpdateBooking: failed to invalidate slots cache: %v", err)
		}
	}
	if uc.publisher != nil {
		uc.publisher.PublishAsync(ctx, notifications.EventBookingRescheduled, notifications.BookingEvent{
			BookingID:  result.ID,
			VendorID:   result.VendorID,
			CustomerID: result.CustomerID,
			StaffID:    result.StaffID,
			Status:     string(result.Status),
			StartAt:    result.StartAt,
			OccurredAt: uc.timeProvider.Now(),
		})
	}

	return &Response{
		ID:              result.ID,
		CustomerID:      result.CustomerID,
		VendorID:        result.VendorID,
		RoleID:          result.RoleID,
		BookingItemID:   result.BookingItemID,
		StaffID:         result.StaffID,
		StartAt:         result.StartAt,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveStaff подбирает исполнителя на новый интервал. Текущий сотрудник
// сохраняется, если его опубликованное назначение покрывает новое время
// и календарь свободен; иначе берется первый подходящий кандидат.
// Конфликты проверяются с исключением собственной записи бронирования
func (uc *UseCase) resolveStaff(ctx context.Context, roleID int64, booking *domain.Booking, req *Request, startAt, endAt time.Time) (*int64, error) {
	date := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())

	candidates, err := uc.scheduleSvc.ResolveStaff(ctx, roleID, date,
		types.NewTimeString(startAt), types.NewTimeString(endAt))
	if err != nil {
		uc.logger.Error("UpdateBooking: failed to resolve staff for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: failed to resolve staff: %v", ErrInternal, err)
	}

	switch {
	case req.StaffID != nil:
		if !containsID(candidates, *req.StaffID) {
			uc.logger.Warn("UpdateBooking: staff id=%d has no covering published schedule", *req.StaffID)
			return nil, ErrStaffUnavailable
		}
		candidates = []int64{*req.StaffID}
	case booking.StaffID != nil && containsID(candidates, *booking.StaffID):
		// Текущий исполнитель пробуется первым
		reordered := []int64{*booking.StaffID}
		for _, id := range candidates {
			if id != *booking.StaffID {
				reordered = append(reordered, id)
			}
		}
		candidates = reordered
	}

	for _, candidateID := range candidates {
		staff, err := uc.staffRepo.GetByID(ctx, candidateID)
		if err != nil {
			uc.logger.Error("UpdateBooking: failed to load staff id=%d: %v", candidateID, err)
			return nil, fmt.Errorf("%w: failed to load staff: %v", ErrInternal, err)
		}
		if !staff.Active || !staff.IsQualified(booking.BookingItemID) {
			continue
		}
		// Рабочая смена сотрудника должна целиком покрывать новый интервал
		if !staff.HasCoveringShift(startAt, endAt) {
			continue
		}
		if staff.HasBookingConflict(startAt, endAt, booking.ID) {
			continue
		}
		return &staff.ID, nil
	}

	if req.StaffID != nil {
		return nil, ErrStaffUnavailable
	}
	return nil, nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
