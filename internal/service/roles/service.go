package roles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
)

// Service сервис для управления бронируемыми ролями вендора
type Service struct {
	roleRepo RoleRepository
	logger   Logger
}

// NewService создает новый экземпляр сервиса ролей
func NewService(roleRepo RoleRepository, logger Logger) *Service {
	return &Service{
		roleRepo: roleRepo,
		logger:   logger,
	}
}

// Create создает новую роль вендора
func (s *Service) Create(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	s.logger.Info("Create: creating role name=%s for vendor=%d", role.Name, role.VendorID)

	if err := s.validate(role); err != nil {
		s.logger.Warn("Create: invalid role for vendor=%d: %v", role.VendorID, err)
		return nil, err
	}

	created, err := s.roleRepo.Create(ctx, role)
	if err != nil {
		s.logger.Error("Create: repository error for vendor=%d: %v", role.VendorID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created role id=%d for vendor=%d", created.ID, created.VendorID)
	return created, nil
}

// GetByID получает роль по ID с проверкой принадлежности вендору
func (s *Service) GetByID(ctx context.Context, vendorID, roleID int64) (*domain.Role, error) {
	role, err := s.roleRepo.GetByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			s.logger.Warn("GetByID: role id=%d not found", roleID)
			return nil, ErrRoleNotFound
		}
		s.logger.Error("GetByID: repository error for role id=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if role.VendorID != vendorID {
		s.logger.Warn("GetByID: role id=%d does not belong to vendor=%d", roleID, vendorID)
		return nil, ErrAccessDenied
	}

	return role, nil
}

// GetByVendor получает все роли вендора
func (s *Service) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.Role, error) {
	roles, err := s.roleRepo.GetByVendor(ctx, vendorID)
	if err != nil {
		s.logger.Error("GetByVendor: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: GetByVendor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByVendor: fetched %d roles for vendor=%d", len(roles), vendorID)
	return roles, nil
}

// Update обновляет роль вендора
func (s *Service) Update(ctx context.Context, role *domain.Role) (*domain.Role, error) {
	s.logger.Info("Update: updating role id=%d for vendor=%d", role.ID, role.VendorID)

	existing, err := s.GetByID(ctx, role.VendorID, role.ID)
	if err != nil {
		return nil, err
	}

	if err := s.validate(role); err != nil {
		s.logger.Warn("Update: invalid role id=%d: %v", role.ID, err)
		return nil, err
	}

	role.CreatedAt = existing.CreatedAt
	if err := s.roleRepo.Update(ctx, role); err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			return nil, ErrRoleNotFound
		}
		s.logger.Error("Update: repository error for role id=%d: %v", role.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated role id=%d", role.ID)
	return role, nil
}

// Delete удаляет роль вендора
// Шаблоны смен и назначения удаляются каскадно, журнал бронирований остается
func (s *Service) Delete(ctx context.Context, vendorID, roleID int64) error {
	s.logger.Info("Delete: deleting role id=%d for vendor=%d", roleID, vendorID)

	if _, err := s.GetByID(ctx, vendorID, roleID); err != nil {
		return err
	}

	if err := s.roleRepo.Delete(ctx, roleID); err != nil {
		if errors.Is(err, roleRepo.ErrRoleNotFound) {
			return ErrRoleNotFound
		}
		s.logger.Error("Delete: repository error for role id=%d: %v", roleID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted role id=%d", roleID)
	return nil
}

func (s *Service) validate(role *domain.Role) error {
	if strings.TrimSpace(role.Name) == "" {
		return fmt.Errorf("%w: role name is required", ErrInvalidInput)
	}
	if role.DefaultCapacity < 1 {
		return fmt.Errorf("%w: default capacity must be at least 1", ErrInvalidInput)
	}
	return nil
}
