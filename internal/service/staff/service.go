package staff

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	staffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
)

// Service сервис для управления персоналом вендора
// Отвечает за сотрудников, их квалификации и конкретные рабочие смены.
// Правила смен: длительность от 1 до 12 часов, между двумя сменами
// одного сотрудника минимум 30 минут перерыва
type Service struct {
	staffRepo StaffRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса персонала
func NewService(staffRepo StaffRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		staffRepo: staffRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Create создает нового сотрудника
func (s *Service) Create(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error) {
	s.logger.Info("Create: creating staff member name=%s for vendor=%d", staff.Name, staff.VendorID)

	if strings.TrimSpace(staff.Name) == "" {
		return nil, fmt.Errorf("%w: staff name is required", ErrInvalidInput)
	}

	created, err := s.staffRepo.Create(ctx, staff)
	if err != nil {
		s.logger.Error("Create: repository error for vendor=%d: %v", staff.VendorID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created staff id=%d for vendor=%d", created.ID, created.VendorID)
	return created, nil
}

// GetByID получает сотрудника с квалификациями, сменами и календарем
func (s *Service) GetByID(ctx context.Context, vendorID, staffID int64) (*domain.StaffMember, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("GetByID: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("GetByID: repository error for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if staff.VendorID != vendorID {
		s.logger.Warn("GetByID: staff id=%d does not belong to vendor=%d", staffID, vendorID)
		return nil, ErrAccessDenied
	}

	return staff, nil
}

// GetByVendor получает всех сотрудников вендора
func (s *Service) GetByVendor(ctx context.Context, vendorID int64) ([]*domain.StaffMember, error) {
	members, err := s.staffRepo.GetByVendor(ctx, vendorID)
	if err != nil {
		s.logger.Error("GetByVendor: repository error for vendor=%d: %v", vendorID, err)
		return nil, fmt.Errorf("%w: GetByVendor - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetByVendor: fetched %d staff members for vendor=%d", len(members), vendorID)
	return members, nil
}

// Update обновляет имя, статус активности и квалификации сотрудника
func (s *Service) Update(ctx context.Context, staff *domain.StaffMember) (*domain.StaffMember, error) {
	s.logger.Info("Update: updating staff id=%d for vendor=%d", staff.ID, staff.VendorID)

	if _, err := s.GetByID(ctx, staff.VendorID, staff.ID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(staff.Name) == "" {
		return nil, fmt.Errorf("%w: staff name is required", ErrInvalidInput)
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.staffRepo.Update(txCtx, staff); err != nil {
			return err
		}
		return s.staffRepo.ReplaceQualifications(txCtx, staff.ID, staff.QualifiedItemIDs)
	})
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("Update: transaction failed for staff id=%d: %v", staff.ID, err)
		return nil, fmt.Errorf("%w: Update - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated staff id=%d", staff.ID)
	return s.GetByID(ctx, staff.VendorID, staff.ID)
}

// AddShift добавляет рабочую смену сотрудника с проверкой правил
func (s *Service) AddShift(ctx context.Context, vendorID int64, shift *domain.StaffShift) (*domain.StaffShift, error) {
	s.logger.Info("AddShift: adding shift for staff=%d window=%s - %s",
		shift.StaffID, shift.StartAt.Format(time.RFC3339), shift.EndAt.Format(time.RFC3339))

	staff, err := s.GetByID(ctx, vendorID, shift.StaffID)
	if err != nil {
		return nil, err
	}

	if err := s.validateShift(shift, staff.Shifts, 0); err != nil {
		s.logger.Warn("AddShift: invalid shift for staff=%d: %v", shift.StaffID, err)
		return nil, err
	}

	created, err := s.staffRepo.AddShift(ctx, shift)
	if err != nil {
		s.logger.Error("AddShift: repository error for staff=%d: %v", shift.StaffID, err)
		return nil, fmt.Errorf("%w: AddShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AddShift: successfully added shift id=%d for staff=%d", created.ID, created.StaffID)
	return created, nil
}

// UpdateShift обновляет границы рабочей смены с проверкой правил
func (s *Service) UpdateShift(ctx context.Context, vendorID int64, shift *domain.StaffShift) (*domain.StaffShift, error) {
	s.logger.Info("UpdateShift: updating shift id=%d for staff=%d", shift.ID, shift.StaffID)

	staff, err := s.GetByID(ctx, vendorID, shift.StaffID)
	if err != nil {
		return nil, err
	}

	if err := s.validateShift(shift, staff.Shifts, shift.ID); err != nil {
		s.logger.Warn("UpdateShift: invalid shift id=%d: %v", shift.ID, err)
		return nil, err
	}

	if err := s.staffRepo.UpdateShift(ctx, shift); err != nil {
		if errors.Is(err, staffRepo.ErrShiftNotFound) {
			return nil, ErrShiftNotFound
		}
		s.logger.Error("UpdateShift: repository error for shift id=%d: %v", shift.ID, err)
		return nil, fmt.Errorf("%w: UpdateShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateShift: successfully updated shift id=%d", shift.ID)
	return shift, nil
}

// DeleteShift удаляет рабочую смену сотрудника
func (s *Service) DeleteShift(ctx context.Context, vendorID, staffID, shiftID int64) error {
	s.logger.Info("DeleteShift: deleting shift id=%d for staff=%d", shiftID, staffID)

	if _, err := s.GetByID(ctx, vendorID, staffID); err != nil {
		return err
	}

	if err := s.staffRepo.DeleteShift(ctx, staffID, shiftID); err != nil {
		if errors.Is(err, staffRepo.ErrShiftNotFound) {
			return ErrShiftNotFound
		}
		s.logger.Error("DeleteShift: repository error for shift id=%d: %v", shiftID, err)
		return fmt.Errorf("%w: DeleteShift - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("DeleteShift: successfully deleted shift id=%d", shiftID)
	return nil
}

// ReplaceShifts атомарно заменяет все смены сотрудника новым набором:
// при нарушении правил любой сменой не меняется ничего
func (s *Service) ReplaceShifts(ctx context.Context, vendorID, staffID int64, shifts []*domain.StaffShift) ([]*domain.StaffShift, error) {
	s.logger.Info("ReplaceShifts: replacing shifts for staff=%d with %d new shifts", staffID, len(shifts))

	staff, err := s.GetByID(ctx, vendorID, staffID)
	if err != nil {
		return nil, err
	}

	// Проверяем новый набор против самого себя
	for i, shift := range shifts {
		shift.StaffID = staffID
		others := make([]domain.StaffShift, 0, len(shifts)-1)
		for j, other := range shifts {
			if i == j {
				continue
			}
			others = append(others, *other)
		}
		if err := s.validateShift(shift, others, 0); err != nil {
			s.logger.Warn("ReplaceShifts: invalid shift for staff=%d: %v", staffID, err)
			return nil, err
		}
	}

	created := make([]*domain.StaffShift, 0, len(shifts))
	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, old := range staff.Shifts {
			if err := s.staffRepo.DeleteShift(txCtx, staffID, old.ID); err != nil {
				return err
			}
		}
		for _, shift := range shifts {
			res, err := s.staffRepo.AddShift(txCtx, shift)
			if err != nil {
				return err
			}
			created = append(created, res)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("ReplaceShifts: transaction failed for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: ReplaceShifts - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("ReplaceShifts: successfully replaced shifts for staff=%d", staffID)
	return created, nil
}

// Workload строит дневную сводку загрузки сотрудника:
// число активных бронирований, занятые минуты, утилизация и почасовая занятость
func (s *Service) Workload(ctx context.Context, vendorID, staffID int64, date time.Time) (*domain.WorkloadSummary, error) {
	staff, err := s.GetByID(ctx, vendorID, staffID)
	if err != nil {
		return nil, err
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	summary := &domain.WorkloadSummary{
		StaffID: staffID,
		Date:    dayStart,
	}

	for _, shift := range staff.Shifts {
		if !shift.Overlaps(dayStart, dayEnd) {
			continue
		}
		summary.ShiftMinutes += clampedMinutes(shift.StartAt, shift.EndAt, dayStart, dayEnd)
	}

	for _, b := range staff.Bookings {
		if !b.IsActive() || !b.Overlaps(dayStart, dayEnd) {
			continue
		}
		summary.ActiveBookings++
		summary.BookedMinutes += clampedMinutes(b.StartAt, b.EndAt, dayStart, dayEnd)

		for hour := 0; hour < 24; hour++ {
			hourStart := dayStart.Add(time.Duration(hour) * time.Hour)
			hourEnd := hourStart.Add(time.Hour)
			if b.Overlaps(hourStart, hourEnd) {
				summary.HourlyOccupancy[hour]++
			}
		}
	}

	if summary.ShiftMinutes > 0 {
		summary.Utilization = float64(summary.BookedMinutes) / float64(summary.ShiftMinutes)
	}

	return summary, nil
}

// validateShift проверяет правила рабочих смен против набора существующих.
// excludeShiftID исключает собственную запись при обновлении
func (s *Service) validateShift(shift *domain.StaffShift, existing []domain.StaffShift, excludeShiftID int64) error {
	if !shift.StartAt.Before(shift.EndAt) {
		return fmt.Errorf("%w: shift start must be before end", ErrInvalidInput)
	}

	minutes := shift.DurationMinutes()
	if minutes < domain.MinStaffShiftMinutes {
		return fmt.Errorf("%w: %d minutes", ErrShiftTooShort, minutes)
	}
	if minutes > domain.MaxStaffShiftMinutes {
		return fmt.Errorf("%w: %d minutes", ErrShiftTooLong, minutes)
	}

	// Расширяем окно на минимальный перерыв: пересечение расширенного окна
	// с другой сменой означает либо пересечение, либо недостаточный перерыв
	gap := time.Duration(domain.MinShiftGapMinutes) * time.Minute
	paddedStart := shift.StartAt.Add(-gap)
	paddedEnd := shift.EndAt.Add(gap)

	for _, other := range existing {
		if excludeShiftID != 0 && other.ID == excludeShiftID {
			continue
		}
		if other.Overlaps(paddedStart, paddedEnd) {
			return fmt.Errorf("%w: conflicts with shift id=%d", ErrShiftOverlap, other.ID)
		}
	}

	return nil
}

func clampedMinutes(start, end, windowStart, windowEnd time.Time) int {
	if start.Before(windowStart) {
		start = windowStart
	}
	if end.After(windowEnd) {
		end = windowEnd
	}
	if !start.Before(end) {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
