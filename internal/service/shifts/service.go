package shifts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	shiftRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/roleshift"
)

// Service сервис для управления шаблонами смен ролей
// Шаблон описывает повторяющееся недельное окно работы роли,
// из которого движок доступности строит слоты на конкретные даты
type Service struct {
	shiftRepo ShiftRepository
	roleRepo  RoleRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса шаблонов смен
func NewService(
	shiftRepo ShiftRepository,
	roleRepo RoleRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		shiftRepo: shiftRepo,
		roleRepo:  roleRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает шаблон смены для роли
func (s *Service) Create(ctx context.Context, vendorID int64, shift *domain.RoleShift) (*domain.RoleShift, error) {
	s.logger.Info("Create: creating shift for role=%d day=%d window=%s-%s",
		shift.RoleID, shift.DayOfWeek, shift.StartTime, shift.EndTime)

	role, err := s.getOwnedRole(ctx, vendorID, shift.RoleID)
	if err != nil {
		return nil, err
	}
	shift.VendorID = vendorID

	if err := s.validate(role, shift); err != nil {
		s.logger.Warn("Create: invalid shift for role=%d: %v", shift.RoleID, err)
		return nil, err
	}

	created, err := s.shiftRepo.Create(ctx, shift)
	if err != nil {
		s.logger.Error("Create: repository error for role=%d: %v", shift.RoleID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created shift id=%d for role=%d", created.ID, created.RoleID)
	return created, nil
}

// BulkCreate создает несколько шаблонов смен атомарно:
// при ошибке валидации любого шаблона не создается ни один
func (s *Service) BulkCreate(ctx context.Context, vendorID int64, shifts []*domain.RoleShift) ([]*domain.RoleShift, error) {
	s.logger.Info("BulkCreate: creating %d shifts for vendor=%d", len(shifts), vendorID)

	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: shifts list is empty", ErrInvalidInput)
	}

	// Валидируем весь набор до открытия транзакции
	rolesByID := make(map[int64]*domain.Role)
	for _, shift := range shifts {
		role, ok := rolesByID[shift.RoleID]
		if !ok {
			var err error
			role, err = s.getOwnedRole(ctx, vendorID, shift.RoleID)
			if err != nil {
				return nil, err
			}
			rolesByID[shift.RoleID] = role
		}
		shift.VendorID = vendorID
		if err := s.validate(role, shift); err != nil {
			s.logger.Warn("BulkCreate: invalid shift for role=%d: %v", shift.RoleID, err)
			return nil, err
		}
	}

	created := make([]*domain.RoleShift, 0, len(shifts))
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, shift := range shifts {
			res, err := s.shiftRepo.Create(txCtx, shift)
			if err != nil {
				return err
			}
			created = append(created, res)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("BulkCreate: transaction failed for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: BulkCreate - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("BulkCreate: successfully created %d shifts for vendor=%d", len(created), vendorID)
	return created, nil
}

// GetByID получает шаблон смены с проверкой принадлежности вендору
func (s *Service) GetByID(ctx context.Context, vendorID, shiftID int64) (*domain.RoleShift, error) {
	shift, err := s.shiftRepo.GetByID(ctx, shiftID)
	if err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			s.logger.Warn("GetByID: shift id=%d not found", shiftID)
			return nil, ErrShiftNotFound
		}
		s.logger.Error("GetByID: repository error for shift id=%d: %v", shiftID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if shift.VendorID != vendorID {
		s.logger.Warn("GetByID: shift id=%d does not belong to vendor=%d", shiftID, vendorID)
		return nil, ErrAccessDenied
	}

	return shift, nil
}

// GetByRole получает все шаблоны смен роли
func (s *Service) GetByRole(ctx context.Context, vendorID, roleID int64) ([]*domain.RoleShift, error) {
	if _, err := s.getOwnedRole(ctx, vendorID, roleID); err != nil {
		return nil, err
	}

	shifts, err := s.shiftRepo.GetByRole(ctx, roleID)
	if err != nil {
		s.logger.Error("GetByRole: repository error for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: GetByRole - repository error: %v", ErrInternal, err)
	}

	return shifts, nil
}

// Update обновляет шаблон смены
func (s *Service) Update(ctx context.Context, vendorID int64, shift *domain.RoleShift) (*domain.RoleShift, error) {
	s.logger.Info("Update: updating shift id=%d for vendor=%d", shift.ID, vendorID)

	existing, err := s.GetByID(ctx, vendorID, shift.ID)
	if err != nil {
		return nil, err
	}
	shift.RoleID = existing.RoleID
	shift.VendorID = existing.VendorID

	role, err := s.getOwnedRole(ctx, vendorID, shift.RoleID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(role, shift); err != nil {
		s.logger.Warn("Update: invalid shift id=%d: %v", shift.ID, err)
		return nil, err
	}

	if err := s.shiftRepo.Update(ctx, shift); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("Update: repository error for shift id=%d: %v", shift.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated shift id=%d", shift.ID)
	return shift, nil
}

// Delete удаляет шаблон смены
func (s *Service) Delete(ctx context.Context, vendorID, shiftID int64) error {
	s.logger.Info("Delete: deleting shift id=%d for vendor=%d", shiftID, vendorID)

	if _, err := s.GetByID(ctx, vendorID, shiftID); err != nil {
		return err
	}

	if err := s.shiftRepo.Delete(ctx, shiftID); err != nil {
		if errors.Is(err, shiftRepo.ErrShiftNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("Delete: repository error for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted shift id=%d", shiftID)
	return nil
}

// CheckConflicts возвращает шаблоны той же роли и дня недели,
// окна которых пересекаются с указанным шаблоном
func (s *Service) CheckConflicts(ctx context.Context, vendorID int64, shift *domain.RoleShift) ([]*domain.RoleShift, error) {
	existing, err := s.GetByRole(ctx, vendorID, shift.RoleID)
	if err != nil {
		return nil, err
	}

	conflicts := make([]*domain.RoleShift, 0)
	for _, other := range existing {
		if other.ID == shift.ID || other.DayOfWeek != shift.DayOfWeek || !other.Active {
			continue
		}
		if other.OverlapsWindow(shift.StartTime, shift.EndTime) {
			conflicts = append(conflicts, other)
		}
	}

	return conflicts, nil
}

func (s *Service) getOwnedRole(ctx context.Context, vendorID, roleID int64) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			s.logger.Warn("getOwnedRole: role id=%d not found", roleID)
			return nil, ErrRoleNotFound
		}
		s.logger.Error("getOwnedRole: repository error for role id=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: getOwnedRole - repository error: %v", ErrInternal, err)
	}
	if role.VendorID != vendorID {
		s.logger.Warn("getOwnedRole: role id=%d does not belong to vendor=%d", roleID, vendorID)
		return nil, ErrAccessDenied
	}
	return role, nil
}

func (s *Service) validate(role *domain.Role, shift *domain.RoleShift) error {
	if shift.DayOfWeek < 0 || shift.DayOfWeek > 6 {
		return fmt.Errorf("%w: day of week must be in range 0-6", ErrInvalidInput)
	}
	if err := shift.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	if err := shift.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if !shift.StartTime.IsBefore(shift.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	if shift.Capacity != nil && *shift.Capacity < 1 {
		return fmt.Errorf("%w: capacity must be at least 1", ErrInvalidInput)
	}
	for _, itemID := range shift.BookingItemIDs {
		if !role.ServesItem(itemID) {
			return fmt.Errorf("%w: item_id=%d", ErrItemNotServed, itemID)
		}
	}
	return nil
}
