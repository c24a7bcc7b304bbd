package validate_booking_request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// maxAlternatives сколько альтернативных слотов попадает в ответ
const maxAlternatives = 10

// UseCase use case предварительной проверки бронирования
// Проверка консультативная: ответ строится на снимке журнала без блокировок,
// окончательное решение всегда принимает прием бронирования в транзакции
type UseCase struct {
	availSvc      AvailabilityService
	scheduleSvc   ScheduleService
	staffRepo     StaffRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availSvc AvailabilityService,
	scheduleSvc ScheduleService,
	staffRepo StaffRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		availSvc:      availSvc,
		scheduleSvc:   scheduleSvc,
		staffRepo:     staffRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Execute выполняет use case проверки бронирования
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ValidateBookingRequest: vendor=%d, item=%d, start=%s",
		req.VendorID, req.BookingItemID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ValidateBookingRequest: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу из каталога
	item, err := uc.catalogClient.GetBookingItem(ctx, req.BookingItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("ValidateBookingRequest: item id=%d not found", req.BookingItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("ValidateBookingRequest: failed to get item id=%d: %v", req.BookingItemID, err)
		return nil, fmt.Errorf("%w: failed to get booking item: %v", ErrInternal, err)
	}
	if item.VendorID != req.VendorID {
		return nil, ErrItemVendorMismatch
	}

	startAt := req.StartAt
	endAt := startAt.Add(time.Duration(item.DurationMinutes) * time.Minute)
	date := dateOf(startAt)

	// 3. Ищем желаемый слот среди слотов дня
	slots, reason, err := uc.availSvc.DaySlots(ctx, req.VendorID, req.BookingItemID, date, item.DurationMinutes, nil)
	if err != nil {
		uc.logger.Error("ValidateBookingRequest: availability engine failed: %v", err)
		return nil, fmt.Errorf("%w: availability engine failed: %v", ErrInternal, err)
	}

	var match *domain.TimeSlot
	for i := range slots {
		if slots[i].StartAt.Equal(startAt) {
			match = &slots[i]
			break
		}
	}

	if match == nil {
		if reason == "" {
			reason = domain.ReasonCapacityExhausted
		}
		alternatives, err := uc.collectAlternatives(ctx, req, item.DurationMinutes, date)
		if err != nil {
			return nil, err
		}
		uc.logger.Info("ValidateBookingRequest: slot unavailable (%s), %d alternatives found", reason, len(alternatives))
		return &Response{
			IsAvailable:       false,
			AvailableStaffIDs: []int64{},
			Reason:            reason,
			Alternatives:      alternatives,
		}, nil
	}

	// 4. Слот есть - подбираем сотрудников
	staffIDs, err := uc.availableStaff(ctx, match.RoleID, req, startAt, endAt)
	if err != nil {
		return nil, err
	}

	// Желаемый сотрудник должен быть в числе доступных
	if req.StaffID != nil && !containsID(staffIDs, *req.StaffID) {
		alternatives, err := uc.collectAlternatives(ctx, req, item.DurationMinutes, date)
		if err != nil {
			return nil, err
		}
		uc.logger.Info("ValidateBookingRequest: staff id=%d unavailable for the slot", *req.StaffID)
		return &Response{
			IsAvailable:       false,
			AvailableStaffIDs: staffIDs,
			Reason:            domain.ReasonStaffUnavailable,
			Alternatives:      alternatives,
		}, nil
	}

	uc.logger.Info("ValidateBookingRequest: slot available, %d staff candidates", len(staffIDs))
	return &Response{
		IsAvailable:       true,
		AvailableStaffIDs: staffIDs,
		Reason:            "",
		Alternatives:      []Alternative{},
	}, nil
}

// availableStaff возвращает сотрудников с опубликованным назначением,
// квалификацией и свободным календарем на интервал, по возрастанию ID
func (uc *UseCase) availableStaff(ctx context.Context, roleID int64, req *Request, startAt, endAt time.Time) ([]int64, error) {
	candidates, err := uc.scheduleSvc.ResolveStaff(ctx, roleID, dateOf(startAt),
		types.NewTimeString(startAt), types.NewTimeString(endAt))
	if err != nil {
		uc.logger.Error("ValidateBookingRequest: failed to resolve staff for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: failed to resolve staff: %v", ErrInternal, err)
	}

	available := make([]int64, 0, len(candidates))
	for _, candidateID := range candidates {
		staff, err := uc.staffRepo.GetByID(ctx, candidateID)
		if err != nil {
			uc.logger.Error("ValidateBookingRequest: failed to load staff id=%d: %v", candidateID, err)
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
		available = append(available, staff.ID)
	}

	return available, nil
}

// collectAlternatives сканирует следующие дни в поисках свободных слотов
func (uc *UseCase) collectAlternatives(ctx context.Context, req *Request, durationMinutes int, from time.Time) ([]Alternative, error) {
	alternatives := make([]Alternative, 0, maxAlternatives)

	for day := 0; day <= domain.AlternativeSearchDays; day++ {
		date := from.AddDate(0, 0, day)

		slots, _, err := uc.availSvc.DaySlots(ctx, req.VendorID, req.BookingItemID, date, durationMinutes, nil)
		if err != nil {
			uc.logger.Error("ValidateBookingRequest: alternative scan failed for %s: %v", date.Format(domain.DateFormat), err)
			return nil, fmt.Errorf("%w: alternative scan failed: %v", ErrInternal, err)
		}

		for _, slot := range slots {
			// Слоты раньше запрошенного времени в тот же день не предлагаем
			if day == 0 && !slot.StartAt.After(req.StartAt) {
				continue
			}
			alternatives = append(alternatives, Alternative{
				StartAt:   slot.StartAt,
				EndAt:     slot.EndAt,
				RoleID:    slot.RoleID,
				Remaining: slot.Remaining,
			})
			if len(alternatives) >= maxAlternatives {
				return alternatives, nil
			}
		}
	}

	return alternatives, nil
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
