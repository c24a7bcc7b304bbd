package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	slotsCache "github.com/m04kA/SMC-SchedulingService/internal/infra/cache/slots"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
)

// UseCase use case получения слотов доступности
// Полный набор слотов дня кешируется с коротким TTL: слоты можно отдавать
// чуть устаревшими, потому что прием бронирования всегда перепроверяет
// занятость по журналу внутри транзакции
type UseCase struct {
	availSvc      AvailabilityService
	catalogClient CatalogServiceClient
	slotsCache    SlotsCache
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	availSvc AvailabilityService,
	catalogClient CatalogServiceClient,
	slotsCache SlotsCache,
	logger Logger,
) *UseCase {
	return &UseCase{
		availSvc:      availSvc,
		catalogClient: catalogClient,
		slotsCache:    slotsCache,
		logger:        logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: vendor=%d, item=%d, date=%s",
		req.VendorID, req.BookingItemID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу из каталога - она определяет длительность слота
	item, err := uc.catalogClient.GetBookingItem(ctx, req.BookingItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("GetAvailableSlots: item id=%d not found", req.BookingItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get item id=%d: %v", req.BookingItemID, err)
		return nil, fmt.Errorf("%w: failed to get booking item: %v", ErrInternal, err)
	}
	if item.VendorID != req.VendorID {
		uc.logger.Warn("GetAvailableSlots: item id=%d belongs to vendor=%d, not vendor=%d",
			req.BookingItemID, item.VendorID, req.VendorID)
		return nil, ErrItemVendorMismatch
	}

	// 3. Считаем слоты, по возможности из кеша
	slots, reason, err := uc.daySlots(ctx, req, item.DurationMinutes)
	if err != nil {
		return nil, err
	}

	// 4. Фильтр по времени суток применяется поверх полного набора
	if req.Preference != nil {
		slots = filterByPreference(slots, *req.Preference)
		if len(slots) == 0 && reason == "" {
			reason = domain.ReasonNoSlots
		}
	}

	uc.logger.Info("GetAvailableSlots: returning %d slots for vendor=%d item=%d",
		len(slots), req.VendorID, req.BookingItemID)

	return buildResponse(req, item.DurationMinutes, slots, reason), nil
}

// daySlots возвращает полный набор слотов дня
// Кеш используется только для обычных запросов: при переносе бронирования
// подсчет идет мимо кеша, чтобы исключение собственного интервала сработало.
// Пустые дни не кешируются: причина отсутствия слотов (закрытие, блэкаут)
// живет в движке и должна пересчитываться на каждый запрос
func (uc *UseCase) daySlots(ctx context.Context, req *Request, durationMinutes int) ([]domain.TimeSlot, string, error) {
	cacheable := uc.slotsCache != nil && req.ExcludeBookingID == nil
	cacheKey := slotsCache.Key(req.VendorID, req.BookingItemID, req.Date)

	if cacheable {
		cached, err := uc.slotsCache.Get(ctx, cacheKey)
		if err == nil && len(cached) > 0 {
			uc.logger.Info("GetAvailableSlots: cache hit for key=%s", cacheKey)
			return cached, "", nil
		}
		if err != nil && !errors.Is(err, slotsCache.ErrCacheMiss) {
			uc.logger.Warn("GetAvailableSlots: cache read failed for key=%s: %v", cacheKey, err)
		}
	}

	slots, reason, err := uc.availSvc.DaySlots(ctx, req.VendorID, req.BookingItemID, req.Date, durationMinutes, req.ExcludeBookingID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: availability engine failed: %v", err)
		return nil, "", fmt.Errorf("%w: availability engine failed: %v", ErrInternal, err)
	}

	if cacheable && len(slots) > 0 {
		if err := uc.slotsCache.Set(ctx, cacheKey, slots); err != nil {
			uc.logger.Warn("GetAvailableSlots: cache write failed for key=%s: %v", cacheKey, err)
		}
	}

	return slots, reason, nil
}

func buildResponse(req *Request, durationMinutes int, slots []domain.TimeSlot, reason string) *Response {
	resp := &Response{
		VendorID:        req.VendorID,
		BookingItemID:   req.BookingItemID,
		Date:            req.Date.Format(domain.DateFormat),
		DurationMinutes: durationMinutes,
		Slots:           make([]Slot, 0, len(slots)),
		Reason:          reason,
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, Slot{
			StartAt:   slot.StartAt,
			EndAt:     slot.EndAt,
			RoleID:    slot.RoleID,
			Capacity:  slot.Capacity,
			Remaining: slot.Remaining,
		})
	}
	return resp
}

// filterByPreference оставляет слоты, начинающиеся в указанной части дня:
// утро до 12:00, день с 12:00 до 17:00, вечер с 17:00
func filterByPreference(slots []domain.TimeSlot, pref domain.TimePreference) []domain.TimeSlot {
	filtered := make([]domain.TimeSlot, 0, len(slots))
	for _, slot := range slots {
		hour := slot.StartAt.Hour()
		switch pref {
		case domain.PreferenceMorning:
			if hour < 12 {
				filtered = append(filtered, slot)
			}
		case domain.PreferenceAfternoon:
			if hour >= 12 && hour < 17 {
				filtered = append(filtered, slot)
			}
		case domain.PreferenceEvening:
			if hour >= 17 {
				filtered = append(filtered, slot)
			}
		}
	}
	return filtered
}
