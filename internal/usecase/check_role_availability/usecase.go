package check_role_availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
)

// UseCase use case проверки вместимости роли на интервале
// В отличие от слотов услуги, проверка идет по конкретной роли и не зависит
// от каталога: окно берется из шаблонов смен роли с учетом исключений
type UseCase struct {
	roleRepo    RoleRepository
	shiftRepo   ShiftRepository
	excRepo     ExceptionRepository
	bookingRepo BookingRepository
	logger      Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roleRepo RoleRepository,
	shiftRepo ShiftRepository,
	excRepo ExceptionRepository,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		roleRepo:    roleRepo,
		shiftRepo:   shiftRepo,
		excRepo:     excRepo,
		bookingRepo: bookingRepo,
		logger:      logger,
	}
}

// Execute выполняет use case проверки вместимости роли
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CheckRoleAvailability: vendor=%d, role=%d, interval=[%s, %s)",
		req.VendorID, req.RoleID, req.StartAt.Format(time.RFC3339), req.EndAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CheckRoleAvailability: validation failed: %v", err)
		return nil, err
	}

	// 2. Роль должна существовать и принадлежать вендору
	role, err := uc.roleRepo.GetByID(ctx, req.RoleID)
	if err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			uc.logger.Warn("CheckRoleAvailability: role id=%d not found", req.RoleID)
			return nil, ErrRoleNotFound
		}
		uc.logger.Error("CheckRoleAvailability: failed to load role id=%d: %v", req.RoleID, err)
		return nil, fmt.Errorf("%w: failed to load role: %v", ErrInternal, err)
	}
	if role.VendorID != req.VendorID {
		return nil, ErrRoleNotFound
	}

	date := req.StartAt

	// 3. Исключения расписания на дату
	exceptions, err := uc.excRepo.GetByVendorAndDate(ctx, req.VendorID, dateOf(date))
	if err != nil {
		uc.logger.Error("CheckRoleAvailability: failed to load exceptions: %v", err)
		return nil, fmt.Errorf("%w: failed to load exceptions: %v", ErrInternal, err)
	}
	for _, exc := range exceptions {
		if exc.Vetoes() && exc.Matches([]int64{req.RoleID}, 0) {
			uc.logger.Info("CheckRoleAvailability: role=%d vetoed by exception id=%d", req.RoleID, exc.ID)
			return unavailable(req.RoleID, domain.ReasonVendorClosed), nil
		}
	}

	// 4. Ищем окно смены, целиком покрывающее интервал
	shifts, err := uc.shiftRepo.GetActiveForDay(ctx, []int64{req.RoleID}, int(date.Weekday()))
	if err != nil {
		uc.logger.Error("CheckRoleAvailability: failed to load shifts: %v", err)
		return nil, fmt.Errorf("%w: failed to load shifts: %v", ErrInternal, err)
	}

	capacity := 0
	for _, shift := range shifts {
		windowStart := shift.StartTime.At(date)
		windowEnd := shift.EndTime.At(date)

		// Измененные часы замещают окно шаблона
		for _, exc := range exceptions {
			if exc.Type != domain.ExceptionModifiedHours || !exc.Matches([]int64{req.RoleID}, 0) {
				continue
			}
			if exc.StartTime != nil && exc.EndTime != nil {
				windowStart = exc.StartTime.At(date)
				windowEnd = exc.EndTime.At(date)
			}
		}

		if req.StartAt.Before(windowStart) || req.EndAt.After(windowEnd) {
			continue
		}

		shiftCapacity := shift.EffectiveCapacity(role.DefaultCapacity)
		for _, exc := range exceptions {
			if exc.Capacity != nil && exc.Matches([]int64{req.RoleID}, 0) {
				shiftCapacity = *exc.Capacity
			}
		}
		capacity += shiftCapacity
	}

	if capacity == 0 {
		uc.logger.Info("CheckRoleAvailability: no shift window covers the interval for role=%d", req.RoleID)
		return unavailable(req.RoleID, domain.ReasonOutsideShift), nil
	}

	// 5. Считаем занятость по журналу
	bookings, err := uc.bookingRepo.GetActiveOverlapping(ctx, req.RoleID, req.StartAt, req.EndAt)
	if err != nil {
		uc.logger.Error("CheckRoleAvailability: failed to load bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to load bookings: %v", ErrInternal, err)
	}

	booked := len(bookings)
	remaining := capacity - booked
	if remaining < 0 {
		remaining = 0
	}

	resp := &Response{
		RoleID:    req.RoleID,
		Available: remaining > 0,
		Capacity:  capacity,
		Booked:    booked,
		Remaining: remaining,
	}
	if !resp.Available {
		resp.Reason = domain.ReasonCapacityExhausted
	}

	uc.logger.Info("CheckRoleAvailability: role=%d capacity=%d booked=%d remaining=%d",
		req.RoleID, capacity, booked, remaining)
	return resp, nil
}

func unavailable(roleID int64, reason string) *Response {
	return &Response{
		RoleID:    roleID,
		Available: false,
		Reason:    reason,
	}
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func validateRequest(req *Request) error {
	if req.VendorID <= 0 {
		return fmt.Errorf("%w: vendor_id must be positive", ErrInvalidInput)
	}
	if req.RoleID <= 0 {
		return fmt.Errorf("%w: role_id must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() || req.EndAt.IsZero() {
		return fmt.Errorf("%w: start_at and end_at are required", ErrInvalidInput)
	}
	if !req.StartAt.Before(req.EndAt) {
		return fmt.Errorf("%w: start_at must be before end_at", ErrInvalidInput)
	}
	return nil
}
