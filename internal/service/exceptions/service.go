package exceptions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	excRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/exception"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
)

// Service сервис для управления исключениями расписания
// Исключение переопределяет шаблоны смен на конкретную дату:
// закрытие, измененные часы, спецсобытие или блэкаут
type Service struct {
	excRepo  ExceptionRepository
	roleRepo RoleRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса исключений
func NewService(excRepo ExceptionRepository, roleRepo RoleRepository, logger Logger) *Service {
	return &Service{
		excRepo:  excRepo,
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Create создает исключение расписания
func (s *Service) Create(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	s.logger.Info("Create: creating %s exception for vendor=%d date=%s",
		exc.Type, exc.VendorID, exc.Date.Format(domain.DateFormat))

	if err := s.validate(exc); err != nil {
		s.logger.Warn("Create: invalid exception for vendor=%d: %v", exc.VendorID, err)
		return nil, err
	}
	if err := s.checkScope(ctx, exc); err != nil {
		s.logger.Warn("Create: exception scope rejected for vendor=%d: %v", exc.VendorID, err)
		return nil, err
	}

	created, err := s.excRepo.Create(ctx, exc)
	if err != nil {
		s.logger.Error("Create: repository error for vendor=%d: %v", exc.VendorID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created exception id=%d for vendor=%d", created.ID, created.VendorID)
	return created, nil
}

// GetByID получает исключение с проверкой принадлежности вендору
func (s *Service) GetByID(ctx context.Context, vendorID, excID int64) (*domain.ScheduleException, error) {
	exc, err := s.excRepo.GetByID(ctx, excID)
	if err != nil {
		if errors.Is(err, excRepo.ErrExceptionNotFound) {
			s.logger.Warn("GetByID: exception id=%d not found", excID)
			return nil, ErrExceptionNotFound
		}
		s.logger.Error("GetByID: repository error for exception id=%d: %v", excID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if exc.VendorID != vendorID {
		s.logger.Warn("GetByID: exception id=%d does not belong to vendor=%d", excID, vendorID)
		return nil, ErrAccessDenied
	}

	return exc, nil
}

// GetByVendorAndDateRange получает исключения вендора за период [from, to]
func (s *Service) GetByVendorAndDateRange(ctx context.Context, vendorID int64, from, to time.Time) ([]*domain.ScheduleException, error) {
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	exceptions, err := s.excRepo.GetByVendorAndDateRange(ctx, vendorID, from, to)
	if err != nil {
		s.logger.Error("GetByVendorAndDateRange: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: GetByVendorAndDateRange - repository error: %v", ErrInternal, err)
	}

	return exceptions, nil
}

// Update обновляет исключение расписания
func (s *Service) Update(ctx context.Context, exc *domain.ScheduleException) (*domain.ScheduleException, error) {
	s.logger.Info("Update: updating exception id=%d for vendor=%d", exc.ID, exc.VendorID)

	existing, err := s.GetByID(ctx, exc.VendorID, exc.ID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(exc); err != nil {
		s.logger.Warn("Update: invalid exception id=%d: %v", exc.ID, err)
		return nil, err
	}
	if err := s.checkScope(ctx, exc); err != nil {
		s.logger.Warn("Update: exception scope rejected for id=%d: %v", exc.ID, err)
		return nil, err
	}

	exc.CreatedAt = existing.CreatedAt
	if err := s.excRepo.Update(ctx, exc); err != nil {
		if errors.Is(err, excRepo.ErrExceptionNotFound) {
			return nil, ErrExceptionNotFound
		}
		s.logger.Error("Update: repository error for exception id=%d: %v", exc.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated exception id=%d", exc.ID)
	return exc, nil
}

// Delete удаляет исключение расписания
func (s *Service) Delete(ctx context.Context, vendorID, excID int64) error {
	s.logger.Info("Delete: deleting exception id=%d for vendor=%d", excID, vendorID)

	if _, err := s.GetByID(ctx, vendorID, excID); err != nil {
		return err
	}

	if err := s.excRepo.Delete(ctx, excID); err != nil {
		if errors.Is(err, excRepo.ErrExceptionNotFound) {
			return ErrExceptionNotFound
		}
		s.logger.Error("Delete: repository error for exception id=%d: %v", excID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted exception id=%d", excID)
	return nil
}

// MatchForDate возвращает исключения вендора на дату, затрагивающие
// хотя бы одну из ролей или указанную услугу
func (s *Service) MatchForDate(ctx context.Context, vendorID int64, date time.Time, roleIDs []int64, itemID int64) ([]*domain.ScheduleException, error) {
	all, err := s.excRepo.GetByVendorAndDate(ctx, vendorID, date)
	if err != nil {
		s.logger.Error("MatchForDate: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: MatchForDate - repository error: %v", ErrInternal, err)
	}

	matched := make([]*domain.ScheduleException, 0)
	for _, exc := range all {
		if exc.Matches(roleIDs, itemID) {
			matched = append(matched, exc)
		}
	}

	return matched, nil
}

// checkScope проверяет, что все роли и услуги исключения принадлежат вендору.
// Услуга считается принадлежащей, если ее обслуживает хотя бы одна роль вендора
func (s *Service) checkScope(ctx context.Context, exc *domain.ScheduleException) error {
	for _, roleID := range exc.RoleIDs {
		role, err := s.roleRepo.GetByID(ctx, roleID)
		if err != nil {
			if errors.Is(err, roleRepo.ErrRoleNotFound) {
				return fmt.Errorf("%w: role id=%d not found", ErrForeignScope, roleID)
			}
			s.logger.Error("checkScope: repository error for role id=%d: %v", roleID, err)
			return fmt.Errorf("%w: checkScope - repository error: %v", ErrInternal, err)
		}
		if role.VendorID != exc.VendorID {
			return fmt.Errorf("%w: role id=%d", ErrForeignScope, roleID)
		}
	}

	for _, itemID := range exc.BookingItemIDs {
		roles, err := s.roleRepo.GetByBookingItem(ctx, itemID)
		if err != nil {
			s.logger.Error("checkScope: repository error for item id=%d: %v", itemID, err)
			return fmt.Errorf("%w: checkScope - repository error: %v", ErrInternal, err)
		}
		served := false
		for _, role := range roles {
			if role.VendorID == exc.VendorID {
				served = true
				break
			}
		}
		if !served {
			return fmt.Errorf("%w: booking item id=%d", ErrForeignScope, itemID)
		}
	}

	return nil
}

func (s *Service) validate(exc *domain.ScheduleException) error {
	switch exc.Type {
	case domain.ExceptionClosed, domain.ExceptionModifiedHours, domain.ExceptionSpecialEvent, domain.ExceptionBlackout:
	default:
		return fmt.Errorf("%w: unknown exception type %q", ErrInvalidInput, exc.Type)
	}

	if exc.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Окно замещения обязательно для MODIFIED_HOURS и запрещено для остальных типов
	if exc.Type == domain.ExceptionModifiedHours {
		if exc.StartTime == nil || exc.EndTime == nil {
			return fmt.Errorf("%w: modified_hours requires start and end time", ErrInvalidInput)
		}
		if err := exc.StartTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
		}
		if err := exc.EndTime.Validate(); err != nil {
			return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
		}
		if !exc.StartTime.IsBefore(*exc.EndTime) {
			return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
		}
	} else if exc.StartTime != nil || exc.EndTime != nil {
		return fmt.Errorf("%w: time window is only allowed for modified_hours", ErrInvalidInput)
	}

	if exc.Vetoes() && exc.Capacity != nil {
		return fmt.Errorf("%w: capacity override is not allowed for %s", ErrInvalidInput, exc.Type)
	}
	if exc.Capacity != nil && *exc.Capacity < 0 {
		return fmt.Errorf("%w: capacity must not be negative", ErrInvalidInput)
	}

	return nil
}
