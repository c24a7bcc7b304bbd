package schedules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	roleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/role"
	scheduleRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/schedule"
	staffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// rruleWeekdays отображает день недели 0-6 (0 = воскресенье) в rrule
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Service сервис для управления назначениями персонала на роли
// Черновики генерируются из недельных шаблонов смен роли; авторитетны
// для подбора исполнителя только опубликованные записи
type Service struct {
	scheduleRepo ScheduleRepository
	shiftRepo    ShiftRepository
	roleRepo     RoleRepository
	staffRepo    StaffRepository
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса назначений
func NewService(
	scheduleRepo ScheduleRepository,
	shiftRepo ShiftRepository,
	roleRepo RoleRepository,
	staffRepo StaffRepository,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		scheduleRepo: scheduleRepo,
		shiftRepo:    shiftRepo,
		roleRepo:     roleRepo,
		staffRepo:    staffRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create создает запись назначения сотрудника на роль.
// Сотрудник должен быть активен, квалифицирован хотя бы на одну услугу роли,
// и окно не должно пересекаться с его другими назначениями на эту дату
func (s *Service) Create(ctx context.Context, vendorID int64, entry *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	s.logger.Info("Create: creating schedule entry role=%d staff=%d date=%s",
		entry.RoleID, entry.StaffID, entry.Date.Format(domain.DateFormat))

	role, err := s.getOwnedRole(ctx, vendorID, entry.RoleID)
	if err != nil {
		return nil, err
	}
	staff, err := s.checkStaff(ctx, vendorID, entry.StaffID)
	if err != nil {
		return nil, err
	}
	if err := s.validateWindow(entry); err != nil {
		s.logger.Warn("Create: invalid schedule entry for role=%d: %v", entry.RoleID, err)
		return nil, err
	}
	if err := s.checkAssignable(role, staff); err != nil {
		s.logger.Warn("Create: staff id=%d cannot be assigned to role=%d: %v", entry.StaffID, entry.RoleID, err)
		return nil, err
	}
	if err := s.checkNoOverlap(ctx, entry); err != nil {
		return nil, err
	}

	if entry.Status == "" {
		entry.Status = domain.ScheduleDraft
	}

	created, err := s.scheduleRepo.Create(ctx, entry)
	if err != nil {
		s.logger.Error("Create: repository error for role=%d: %v", entry.RoleID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: successfully created schedule entry id=%d", created.ID)
	return created, nil
}

// GetByRoleAndDateRange получает назначения роли за период
func (s *Service) GetByRoleAndDateRange(ctx context.Context, vendorID, roleID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	if _, err := s.getOwnedRole(ctx, vendorID, roleID); err != nil {
		return nil, err
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	entries, err := s.scheduleRepo.GetByRoleAndDateRange(ctx, roleID, from, to)
	if err != nil {
		s.logger.Error("GetByRoleAndDateRange: repository error for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: GetByRoleAndDateRange - repository error: %v", ErrInternal, err)
	}

	return entries, nil
}

// GetByStaffAndDateRange получает назначения сотрудника за период
func (s *Service) GetByStaffAndDateRange(ctx context.Context, vendorID, staffID int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	if _, err := s.checkStaff(ctx, vendorID, staffID); err != nil {
		return nil, err
	}

	entries, err := s.scheduleRepo.GetByStaffAndDateRange(ctx, staffID, from, to)
	if err != nil {
		s.logger.Error("GetByStaffAndDateRange: repository error for staff=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: GetByStaffAndDateRange - repository error: %v", ErrInternal, err)
	}

	return entries, nil
}

// Update обновляет запись назначения (сотрудник, окно, статус)
func (s *Service) Update(ctx context.Context, vendorID int64, entry *domain.StaffSchedule) (*domain.StaffSchedule, error) {
	s.logger.Info("Update: updating schedule entry id=%d", entry.ID)

	existing, err := s.getOwnedEntry(ctx, vendorID, entry.ID)
	if err != nil {
		return nil, err
	}
	entry.RoleID = existing.RoleID
	entry.Date = existing.Date

	role, err := s.getOwnedRole(ctx, vendorID, entry.RoleID)
	if err != nil {
		return nil, err
	}
	staff, err := s.checkStaff(ctx, vendorID, entry.StaffID)
	if err != nil {
		return nil, err
	}
	if err := s.validateWindow(entry); err != nil {
		s.logger.Warn("Update: invalid schedule entry id=%d: %v", entry.ID, err)
		return nil, err
	}
	if err := s.checkAssignable(role, staff); err != nil {
		s.logger.Warn("Update: staff id=%d cannot be assigned to role=%d: %v", entry.StaffID, entry.RoleID, err)
		return nil, err
	}
	// Собственная запись исключается из проверки пересечений
	if err := s.checkNoOverlap(ctx, entry); err != nil {
		return nil, err
	}
	if entry.Status != existing.Status && !existing.CanTransitionTo(entry.Status) {
		s.logger.Warn("Update: invalid transition %s -> %s for entry id=%d", existing.Status, entry.Status, entry.ID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, existing.Status, entry.Status)
	}

	if err := s.scheduleRepo.Update(ctx, entry); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("Update: repository error for entry id=%d: %v", entry.ID, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: successfully updated schedule entry id=%d", entry.ID)
	return entry, nil
}

// Delete удаляет запись назначения
func (s *Service) Delete(ctx context.Context, vendorID, entryID int64) error {
	s.logger.Info("Delete: deleting schedule entry id=%d", entryID)

	if _, err := s.getOwnedEntry(ctx, vendorID, entryID); err != nil {
		return err
	}

	if err := s.scheduleRepo.Delete(ctx, entryID); err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			return ErrScheduleNotFound
		}
		s.logger.Error("Delete: repository error for entry id=%d: %v", entryID, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted schedule entry id=%d", entryID)
	return nil
}

// GenerateDrafts разворачивает недельные шаблоны смен роли в черновики
// назначений на период [from, to], распределяя сотрудников по кругу.
// Повторный вызов идемпотентен: комбинации дата+окно, на которые у роли
// уже есть записи, пропускаются. Кандидат с пересечением в личном графике
// на дату уступает место следующему по кругу
func (s *Service) GenerateDrafts(ctx context.Context, vendorID, roleID int64, staffIDs []int64, from, to time.Time) ([]*domain.StaffSchedule, error) {
	s.logger.Info("GenerateDrafts: generating drafts for role=%d staff=%v period=%s..%s",
		roleID, staffIDs, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if len(staffIDs) == 0 {
		return nil, fmt.Errorf("%w: staff list is empty", ErrInvalidInput)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	role, err := s.getOwnedRole(ctx, vendorID, roleID)
	if err != nil {
		return nil, err
	}
	for _, staffID := range staffIDs {
		staff, err := s.checkStaff(ctx, vendorID, staffID)
		if err != nil {
			return nil, err
		}
		if err := s.checkAssignable(role, staff); err != nil {
			s.logger.Warn("GenerateDrafts: staff id=%d cannot be assigned to role=%d: %v", staffID, roleID, err)
			return nil, err
		}
	}

	templates, err := s.shiftRepo.GetByRole(ctx, roleID)
	if err != nil {
		s.logger.Error("GenerateDrafts: failed to load shift templates for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: GenerateDrafts - failed to load templates: %v", ErrInternal, err)
	}

	// Сотрудники распределяются детерминированно: по возрастанию ID, по кругу
	assignees := make([]int64, len(staffIDs))
	copy(assignees, staffIDs)
	sort.Slice(assignees, func(i, j int) bool { return assignees[i] < assignees[j] })

	drafts := make([]*domain.StaffSchedule, 0)
	next := 0

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		for _, tpl := range templates {
			if !tpl.Active {
				continue
			}

			rule, err := rrule.NewRRule(rrule.ROption{
				Freq:      rrule.WEEKLY,
				Dtstart:   time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC),
				Until:     time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 0, time.UTC),
				Byweekday: []rrule.Weekday{rruleWeekdays[tpl.DayOfWeek]},
			})
			if err != nil {
				return fmt.Errorf("build recurrence rule: %v", err)
			}

			for _, occurrence := range rule.All() {
				date := time.Date(occurrence.Year(), occurrence.Month(), occurrence.Day(), 0, 0, 0, 0, time.UTC)

				exists, err := s.scheduleRepo.ExistsForRoleDateWindow(txCtx, roleID, date, tpl.StartTime, tpl.EndTime)
				if err != nil {
					return err
				}
				if exists {
					continue
				}

				entry := &domain.StaffSchedule{
					RoleID:    roleID,
					Date:      date,
					StartTime: tpl.StartTime,
					EndTime:   tpl.EndTime,
					Status:    domain.ScheduleDraft,
				}

				assigned := false
				for i := 0; i < len(assignees); i++ {
					entry.StaffID = assignees[(next+i)%len(assignees)]
					if err := s.checkNoOverlap(txCtx, entry); err != nil {
						if errors.Is(err, ErrScheduleConflict) {
							continue
						}
						return err
					}
					next += i + 1
					assigned = true
					break
				}
				if !assigned {
					// Все кандидаты заняты на эту дату, окно остается без черновика
					continue
				}

				created, err := s.scheduleRepo.Create(txCtx, entry)
				if err != nil {
					return err
				}
				drafts = append(drafts, created)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error("GenerateDrafts: transaction failed for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: GenerateDrafts - transaction failed: %v", ErrInternal, err)
	}

	s.logger.Info("GenerateDrafts: generated %d drafts for role=%d", len(drafts), roleID)
	return drafts, nil
}

// PublishRange публикует все черновики роли за период
func (s *Service) PublishRange(ctx context.Context, vendorID, roleID int64, from, to time.Time) (int64, error) {
	s.logger.Info("PublishRange: publishing drafts for role=%d period=%s..%s",
		roleID, from.Format(domain.DateFormat), to.Format(domain.DateFormat))

	if _, err := s.getOwnedRole(ctx, vendorID, roleID); err != nil {
		return 0, err
	}
	if to.Before(from) {
		return 0, fmt.Errorf("%w: end date is before start date", ErrInvalidInput)
	}

	published, err := s.scheduleRepo.PublishByRoleAndDateRange(ctx, roleID, from, to)
	if err != nil {
		s.logger.Error("PublishRange: repository error for role=%d: %v", roleID, err)
		return 0, fmt.Errorf("%w: PublishRange - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("PublishRange: published %d entries for role=%d", published, roleID)
	return published, nil
}

// ResolveStaff возвращает ID сотрудников, чьи опубликованные назначения
// полностью покрывают окно [startTime, endTime) на дату, по возрастанию ID
func (s *Service) ResolveStaff(ctx context.Context, roleID int64, date time.Time, startTime, endTime types.TimeString) ([]int64, error) {
	entries, err := s.scheduleRepo.GetPublishedByRoleAndDate(ctx, roleID, date)
	if err != nil {
		s.logger.Error("ResolveStaff: repository error for role=%d: %v", roleID, err)
		return nil, fmt.Errorf("%w: ResolveStaff - repository error: %v", ErrInternal, err)
	}

	seen := make(map[int64]bool)
	staffIDs := make([]int64, 0)
	for _, entry := range entries {
		if !entry.CoversWindow(startTime, endTime) {
			continue
		}
		if !seen[entry.StaffID] {
			seen[entry.StaffID] = true
			staffIDs = append(staffIDs, entry.StaffID)
		}
	}

	sort.Slice(staffIDs, func(i, j int) bool { return staffIDs[i] < staffIDs[j] })
	return staffIDs, nil
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
		return nil, ErrAccessDenied
	}
	return role, nil
}

func (s *Service) getOwnedEntry(ctx context.Context, vendorID, entryID int64) (*domain.StaffSchedule, error) {
	entry, err := s.scheduleRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			s.logger.Warn("getOwnedEntry: entry id=%d not found", entryID)
			return nil, ErrScheduleNotFound
		}
		s.logger.Error("getOwnedEntry: repository error for entry id=%d: %v", entryID, err)
		return nil, fmt.Errorf("%w: getOwnedEntry - repository error: %v", ErrInternal, err)
	}
	if _, err := s.getOwnedRole(ctx, vendorID, entry.RoleID); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) checkStaff(ctx context.Context, vendorID, staffID int64) (*domain.StaffMember, error) {
	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			s.logger.Warn("checkStaff: staff id=%d not found", staffID)
			return nil, ErrStaffNotFound
		}
		s.logger.Error("checkStaff: repository error for staff id=%d: %v", staffID, err)
		return nil, fmt.Errorf("%w: checkStaff - repository error: %v", ErrInternal, err)
	}
	if staff.VendorID != vendorID {
		return nil, ErrAccessDenied
	}
	return staff, nil
}

// checkAssignable проверяет, что сотрудник активен и обслуживает
// хотя бы одну услугу роли. Роль без услуг не ограничивает персонал
func (s *Service) checkAssignable(role *domain.Role, staff *domain.StaffMember) error {
	if !staff.Active {
		return ErrStaffInactive
	}
	if len(role.BookingItemIDs) == 0 {
		return nil
	}
	for _, itemID := range role.BookingItemIDs {
		if staff.IsQualified(itemID) {
			return nil
		}
	}
	return ErrStaffNotQualified
}

// checkNoOverlap проверяет, что окно записи не пересекается с другими
// назначениями сотрудника на ту же дату. Собственная запись и отмененные
// записи не учитываются
func (s *Service) checkNoOverlap(ctx context.Context, entry *domain.StaffSchedule) error {
	existing, err := s.scheduleRepo.GetByStaffAndDateRange(ctx, entry.StaffID, entry.Date, entry.Date)
	if err != nil {
		s.logger.Error("checkNoOverlap: repository error for staff id=%d: %v", entry.StaffID, err)
		return fmt.Errorf("%w: checkNoOverlap - repository error: %v", ErrInternal, err)
	}
	for _, other := range existing {
		if other.ID == entry.ID || other.Status == domain.ScheduleCancelled {
			continue
		}
		if other.OverlapsWindow(entry.StartTime, entry.EndTime) {
			s.logger.Warn("checkNoOverlap: staff id=%d already has entry id=%d overlapping %s-%s on %s",
				entry.StaffID, other.ID, entry.StartTime, entry.EndTime, entry.Date.Format(domain.DateFormat))
			return ErrScheduleConflict
		}
	}
	return nil
}

func (s *Service) validateWindow(entry *domain.StaffSchedule) error {
	if entry.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if err := entry.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid start time: %v", ErrInvalidInput, err)
	}
	if err := entry.EndTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid end time: %v", ErrInvalidInput, err)
	}
	if !entry.StartTime.IsBefore(entry.EndTime) {
		return fmt.Errorf("%w: start time must be before end time", ErrInvalidInput)
	}
	return nil
}
