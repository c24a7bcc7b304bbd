package get_staff_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	availabilityService "github.com/m04kA/SMC-SchedulingService/internal/service/availability"
)

// UseCase use case получения свободных интервалов одного сотрудника.
// В отличие от слотов услуги подсчет идет по личным сменам и календарю
// сотрудника, без окон ролей и без кеша
type UseCase struct {
	availSvc AvailabilityService
	logger   Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(availSvc AvailabilityService, logger Logger) *UseCase {
	return &UseCase{
		availSvc: availSvc,
		logger:   logger,
	}
}

// Execute выполняет use case получения слотов сотрудника
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetStaffSlots: vendor=%d, staff=%d, date=%s",
		req.VendorID, req.StaffID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetStaffSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Считаем свободные интервалы по сменам и календарю сотрудника
	slots, reason, err := uc.availSvc.StaffDaySlots(ctx, req.VendorID, req.StaffID, req.Date, req.DurationMinutes)
	if err != nil {
		switch {
		case errors.Is(err, availabilityService.ErrStaffNotFound):
			uc.logger.Warn("GetStaffSlots: staff id=%d not found for vendor=%d", req.StaffID, req.VendorID)
			return nil, ErrStaffNotFound
		case errors.Is(err, availabilityService.ErrInvalidInput):
			uc.logger.Warn("GetStaffSlots: engine rejected input: %v", err)
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		default:
			uc.logger.Error("GetStaffSlots: availability engine failed: %v", err)
			return nil, fmt.Errorf("%w: availability engine failed: %v", ErrInternal, err)
		}
	}

	uc.logger.Info("GetStaffSlots: returning %d slots for vendor=%d staff=%d",
		len(slots), req.VendorID, req.StaffID)

	return buildResponse(req, slots, reason), nil
}

func buildResponse(req *Request, slots []domain.TimeSlot, reason string) *Response {
	resp := &Response{
		VendorID:        req.VendorID,
		StaffID:         req.StaffID,
		Date:            req.Date.Format(domain.DateFormat),
		DurationMinutes: req.DurationMinutes,
		Slots:           make([]Slot, 0, len(slots)),
		Reason:          reason,
	}
	for _, slot := range slots {
		resp.Slots = append(resp.Slots, Slot{
			StartAt: slot.StartAt,
			EndAt:   slot.EndAt,
		})
	}
	return resp
}
