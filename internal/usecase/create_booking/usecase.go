package create_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/internal/integrations/notifications"
	"github.com/m04kA/SMC-SchedulingService/internal/service/availability"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	staffRepo     StaffRepository
	availSvc      AvailabilityService
	scheduleSvc   ScheduleService
	catalogClient CatalogServiceClient
	slotsCache    SlotsCache
	publisher     EventPublisher
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	availSvc AvailabilityService,
	scheduleSvc ScheduleService,
	catalogClient CatalogServiceClient,
	slotsCache SlotsCache,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		staffRepo:     staffRepo,
		availSvc:      availSvc,
		scheduleSvc:   scheduleSvc,
		catalogClient: catalogClient,
		slotsCache:    slotsCache,
		publisher:     publisher,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Прием идет в сериализуемой транзакции: подсчет занятости роли и проверка
// календаря сотрудника блокируют строки, так что две параллельные записи
// на последнее место не пройдут обе
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateBooking: customer=%d, vendor=%d, item=%d, start=%s",
		req.CustomerID, req.VendorID, req.BookingItemID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем, что бронирование в будущем
	now := uc.timeProvider.Now()
	if err := validateNotInPast(req.StartAt, now); err != nil {
		uc.logger.Warn("CreateBooking: start is in the past: %s", req.StartAt.Format(time.RFC3339))
		return nil, err
	}

	// 3. Получаем услугу из каталога - она определяет длительность интервала
	item, err := uc.catalogClient.GetBookingItem(ctx, req.BookingItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("CreateBooking: item id=%d not found", req.BookingItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("CreateBooking: failed to get item id=%d: %v", req.BookingItemID, err)
		return nil, fmt.Errorf("%w: failed to get booking item: %v", ErrInternal, err)
	}

	// 4. Услуга должна принадлежать вендору из запроса
	if item.VendorID != req.VendorID {
		uc.logger.Warn("CreateBooking: item id=%d belongs to vendor=%d, not vendor=%d",
			req.BookingItemID, item.VendorID, req.VendorID)
		return nil, ErrItemVendorMismatch
	}

	startAt := req.StartAt
	endAt := startAt.Add(time.Duration(item.DurationMinutes) * time.Minute)

	var result *domain.Booking

	// 5. Выполняем прием в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Движок доступности выбирает роль: окна перебираются
		// детерминированно, строки журнала блокируются (FOR UPDATE)
		roleID, err := uc.availSvc.AdmitBooking(txCtx, req.VendorID, req.BookingItemID, startAt, endAt, nil)
		if err != nil {
			switch {
			case errors.Is(err, availability.ErrVendorClosed):
				uc.logger.Warn("CreateBooking: vendor=%d is closed on %s", req.VendorID, startAt.Format(domain.DateFormat))
				return ErrVendorClosed
			case errors.Is(err, availability.ErrOutsideShift), errors.Is(err, availability.ErrNoRoles):
				uc.logger.Warn("CreateBooking: no shift window covers %s for item=%d", startAt.Format(time.RFC3339), req.BookingItemID)
				return ErrOutsideShift
			case errors.Is(err, availability.ErrCapacityExhausted):
				uc.logger.Warn("CreateBooking: capacity exhausted for item=%d at %s", req.BookingItemID, startAt.Format(time.RFC3339))
				return ErrSlotNotAvailable
			}
			uc.logger.Error("CreateBooking: admission failed: %v", err)
			return fmt.Errorf("%w: admission failed: %v", ErrInternal, err)
		}

		// 5.2. Подбираем исполнителя среди опубликованных назначений роли
		staffID, err := uc.resolveStaff(txCtx, roleID, req, startAt, endAt)
		if err != nil {
			return err
		}

		// 5.3. Пишем бронирование в журнал: новая запись всегда PENDING,
		// подтверждение - отдельный переход статуса
		booking := &domain.Booking{
			VendorID:        req.VendorID,
			RoleID:          roleID,
			BookingItemID:   req.BookingItemID,
			CustomerID:      req.CustomerID,
			StaffID:         staffID,
			StartAt:         startAt,
			DurationMinutes: item.DurationMinutes,
			Status:          domain.StatusPending,
		}

		created, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		// 5.4. Копия в календаре сотрудника пишется той же транзакцией
		if staffID != nil {
			entry := &domain.StaffBooking{
				StaffID:   *staffID,
				BookingID: created.ID,
				StartAt:   startAt,
				EndAt:     endAt,
				Status:    created.Status,
			}
			if _, err := uc.staffRepo.AddCalendarEntry(txCtx, entry); err != nil {
				uc.logger.Error("CreateBooking: failed to add calendar entry: %v", err)
				return fmt.Errorf("%w: failed to add calendar entry: %v", ErrInternal, err)
			}
		}

		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d role=%d", result.ID, result.RoleID)

	// 6. Кеш слотов и событие - best-effort, после коммита
	if uc.slotsCache != nil {
		if err := uc.slotsCache.InvalidateVendor(ctx, result.VendorID); err != nil {
			uc.logger.Warn("CreateBooking: failed to invalidate slots cache: %v", err)
		}
	}
	if uc.publisher != nil {
		uc.publisher.PublishAsync(ctx, notifications.EventBookingCreated, notifications.BookingEvent{
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
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}

// resolveStaff подбирает исполнителя: кандидаты - сотрудники с опубликованным
// назначением роли, полностью покрывающим интервал. Кандидаты перебираются
// по возрастанию ID; берется первый квалифицированный без конфликтов
// в календаре. Если желаемый сотрудник указан явно, допускается только он.
// Отсутствие кандидатов не ошибка: бронирование остается без исполнителя
func (uc *UseCase) resolveStaff(ctx context.Context, roleID int64, req *Request, startAt, endAt time.Time) (*int64, error) {
	date := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())
	startTime := types.NewTimeString(startAt)
	endTime := types.NewTimeString(endAt)

	candidates, err := uc.scheduleSvc.ResolveStaff(ctx, roleID, date, startTime, endTime)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to resolve staff for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: failed to resolve staff: %v", ErrInternal, err)
	}

	if req.StaffID != nil {
		if !containsID(candidates, *req.StaffID) {
			uc.logger.Warn("CreateBooking: staff id=%d has no covering published schedule", *req.StaffID)
			return nil, ErrStaffUnavailable
		}
		candidates = []int64{*req.StaffID}
	}

	for _, candidateID := range candidates {
		staff, err := uc.staffRepo.GetByID(ctx, candidateID)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to load staff id=%d: %v", candidateID, err)
			return nil, fmt.Errorf("%w: failed to load staff: %v", ErrInternal, err)
		}
		if !staff.Active || !staff.IsQualified(req.BookingItemID) {
			continue
		}
		// Рабочая смена сотрудника должна целиком покрывать интервал
		if !staff.HasCoveringShift(startAt, endAt) {
			continue
		}
		if staff.HasBookingConflict(startAt, endAt, 0) {
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
