package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	staffRepo "github.com/m04kA/SMC-SchedulingService/internal/infra/storage/staff"
)

// Window действующее окно работы роли на конкретную дату:
// шаблон смены после применения исключений расписания
type Window struct {
	RoleID   int64
	ShiftID  int64
	Start    time.Time
	End      time.Time
	Capacity int
}

// Contains сообщает, помещается ли интервал [start, end) в окно целиком
func (w *Window) Contains(start, end time.Time) bool {
	return !start.Before(w.Start) && !end.After(w.End)
}

// Service движок доступности
// Отвечает на два вопроса: какие слоты свободны на дату и можно ли
// принять бронирование на конкретный интервал. Подсчет занятости всегда
// идет по журналу бронирований; внутри транзакции строки журнала
// блокируются, так что решение о приеме видит зафиксированное состояние
type Service struct {
	roleRepo    RoleRepository
	shiftRepo   ShiftRepository
	excRepo     ExceptionRepository
	bookingRepo BookingRepository
	staffRepo   StaffRepository
	logger      Logger
}

// NewService создает новый экземпляр движка доступности
func NewService(
	roleRepo RoleRepository,
	shiftRepo ShiftRepository,
	excRepo ExceptionRepository,
	bookingRepo BookingRepository,
	staffRepo StaffRepository,
	logger Logger,
) *Service {
	return &Service{
		roleRepo:    roleRepo,
		shiftRepo:   shiftRepo,
		excRepo:     excRepo,
		bookingRepo: bookingRepo,
		staffRepo:   staffRepo,
		logger:      logger,
	}
}

// EffectiveWindows строит действующие окна работы для услуги на дату.
// Порядок применения исключений: закрытие или блэкаут отбрасывает окно,
// измененные часы замещают окно шаблона, спецсобытие переопределяет
// вместимость. Второе возвращаемое значение сообщает, было ли хотя бы
// одно запрещающее исключение
func (s *Service) EffectiveWindows(ctx context.Context, vendorID, itemID int64, date time.Time) ([]Window, bool, error) {
	roles, err := s.roleRepo.GetByBookingItem(ctx, itemID)
	if err != nil {
		s.logger.Error("EffectiveWindows: failed to load roles for item=%d: %v", itemID, err)
		return nil, false, fmt.Errorf("%w: EffectiveWindows - failed to load roles: %v", ErrInternal, err)
	}

	rolesByID := make(map[int64]*domain.Role)
	roleIDs := make([]int64, 0, len(roles))
	for _, role := range roles {
		if role.VendorID != vendorID {
			continue
		}
		rolesByID[role.ID] = role
		roleIDs = append(roleIDs, role.ID)
	}
	if len(roleIDs) == 0 {
		return nil, false, ErrNoRoles
	}

	shifts, err := s.shiftRepo.GetActiveForDay(ctx, roleIDs, int(date.Weekday()))
	if err != nil {
		s.logger.Error("EffectiveWindows: failed to load shifts for vendor=%d: %v", vendorID, err)
		return nil, false, fmt.Errorf("%w: EffectiveWindows - failed to load shifts: %v", ErrInternal, err)
	}

	exceptions, err := s.excRepo.GetByVendorAndDate(ctx, vendorID, date)
	if err != nil {
		s.logger.Error("EffectiveWindows: failed to load exceptions for vendor=%d: %v", vendorID, err)
		return nil, false, fmt.Errorf("%w: EffectiveWindows - failed to load exceptions: %v", ErrInternal, err)
	}

	windows := make([]Window, 0, len(shifts))
	vetoed := false

	for _, shift := range shifts {
		if !shift.AppliesToItem(itemID) {
			continue
		}
		role := rolesByID[shift.RoleID]
		if role == nil {
			continue
		}

		window := Window{
			RoleID:   shift.RoleID,
			ShiftID:  shift.ID,
			Start:    shift.StartTime.At(date),
			End:      shift.EndTime.At(date),
			Capacity: shift.EffectiveCapacity(role.DefaultCapacity),
		}

		dropped := false
		for _, exc := range exceptions {
			if !exc.Matches([]int64{shift.RoleID}, itemID) {
				continue
			}
			if exc.Vetoes() {
				vetoed = true
				dropped = true
				break
			}
			if exc.Type == domain.ExceptionModifiedHours && exc.StartTime != nil && exc.EndTime != nil {
				window.Start = exc.StartTime.At(date)
				window.End = exc.EndTime.At(date)
			}
			if exc.Capacity != nil {
				window.Capacity = *exc.Capacity
			}
		}
		if dropped || !window.Start.Before(window.End) || window.Capacity < 1 {
			continue
		}

		windows = append(windows, window)
	}

	return windows, vetoed, nil
}

// DaySlots генерирует слоты доступности услуги на дату с шагом 30 минут.
// Слот входит в ответ, только если остаток вместимости положителен.
// excludeBookingID исключает собственное бронирование из подсчета занятости
// при проверке переноса. Второе возвращаемое значение - причина пустого ответа
func (s *Service) DaySlots(ctx context.Context, vendorID, itemID int64, date time.Time, durationMinutes int, excludeBookingID *int64) ([]domain.TimeSlot, string, error) {
	if durationMinutes <= 0 {
		return nil, "", fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	windows, vetoedAny, err := s.EffectiveWindows(ctx, vendorID, itemID, date)
	if err != nil {
		return nil, "", err
	}
	if len(windows) == 0 {
		if vetoedAny {
			return []domain.TimeSlot{}, domain.ReasonVendorClosed, nil
		}
		return []domain.TimeSlot{}, domain.ReasonNoSlots, nil
	}

	// Журнал читается один раз на роль за весь день
	bookingsByRole, err := s.loadDayBookings(ctx, windows, date)
	if err != nil {
		return nil, "", err
	}

	duration := time.Duration(durationMinutes) * time.Minute
	stride := time.Duration(domain.SlotStrideMinutes) * time.Minute

	type candidate struct {
		capacity  int
		remaining int
		roleID    int64
		hasFree   bool
	}
	byStart := make(map[time.Time]*candidate)

	for _, window := range windows {
		for start := window.Start; !start.Add(duration).After(window.End); start = start.Add(stride) {
			end := start.Add(duration)
			count := countOverlapping(bookingsByRole[window.RoleID], start, end, excludeBookingID)
			remaining := window.Capacity - count

			c := byStart[start]
			if c == nil {
				c = &candidate{roleID: window.RoleID}
				byStart[start] = c
			}
			c.capacity += window.Capacity
			if remaining > 0 {
				c.remaining += remaining
				// Детерминированный выбор роли: наименьший ID среди ролей
				// со свободной вместимостью
				if !c.hasFree || window.RoleID < c.roleID {
					c.roleID = window.RoleID
				}
				c.hasFree = true
			}
		}
	}

	slots := make([]domain.TimeSlot, 0, len(byStart))
	for start, c := range byStart {
		if c.remaining <= 0 {
			continue
		}
		slots = append(slots, domain.TimeSlot{
			StartAt:   start,
			EndAt:     start.Add(duration),
			RoleID:    c.roleID,
			Capacity:  c.capacity,
			Remaining: c.remaining,
		})
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartAt.Before(slots[j].StartAt) })

	if len(slots) == 0 {
		return slots, domain.ReasonCapacityExhausted, nil
	}
	return slots, "", nil
}

// AdmitBooking решает, можно ли принять бронирование на интервал [start, end),
// и выбирает роль: из окон со свободной вместимостью берется окно с наименьшей
// текущей занятостью, при равенстве - с наименьшими ID роли и смены.
// Так нагрузка распределяется равномерно по окнам. Вызывается внутри
// сериализуемой транзакции, где подсчет занятости блокирует строки журнала.
// При переносе существующего бронирования excludeBookingID исключает его
// собственную запись из подсчета занятости
func (s *Service) AdmitBooking(ctx context.Context, vendorID, itemID int64, start, end time.Time, excludeBookingID *int64) (int64, error) {
	windows, vetoedAny, err := s.EffectiveWindows(ctx, vendorID, itemID, start)
	if err != nil {
		return 0, err
	}

	containing := make([]Window, 0)
	for _, window := range windows {
		if window.Contains(start, end) {
			containing = append(containing, window)
		}
	}
	if len(containing) == 0 {
		if vetoedAny {
			return 0, ErrVendorClosed
		}
		return 0, ErrOutsideShift
	}

	sort.Slice(containing, func(i, j int) bool {
		if containing[i].RoleID != containing[j].RoleID {
			return containing[i].RoleID < containing[j].RoleID
		}
		return containing[i].ShiftID < containing[j].ShiftID
	})

	countByRole := make(map[int64]int)
	for _, window := range containing {
		if _, loaded := countByRole[window.RoleID]; loaded {
			continue
		}
		bookings, err := s.bookingRepo.GetActiveOverlapping(ctx, window.RoleID, start, end)
		if err != nil {
			s.logger.Error("AdmitBooking: failed to load overlapping bookings for role=%d: %v", window.RoleID, err)
			return 0, fmt.Errorf("%w: AdmitBooking - failed to load bookings: %v", ErrInternal, err)
		}
		countByRole[window.RoleID] = countOverlapping(bookings, start, end, excludeBookingID)
	}

	best := -1
	for i, window := range containing {
		count := countByRole[window.RoleID]
		if count >= window.Capacity {
			continue
		}
		if best == -1 || count < countByRole[containing[best].RoleID] {
			best = i
		}
	}
	if best == -1 {
		return 0, ErrCapacityExhausted
	}

	return containing[best].RoleID, nil
}

// StaffDaySlots перечисляет свободные интервалы одного сотрудника на дату
// с шагом 30 минут. В отличие от DaySlots подсчет идет не по окнам ролей,
// а по личным сменам и календарю сотрудника: слот свободен, если он целиком
// лежит в рабочей смене и не пересекается с активными записями календаря.
// Второе возвращаемое значение - причина пустого ответа
func (s *Service) StaffDaySlots(ctx context.Context, vendorID, staffID int64, date time.Time, durationMinutes int) ([]domain.TimeSlot, string, error) {
	if durationMinutes <= 0 {
		return nil, "", fmt.Errorf("%w: duration must be positive", ErrInvalidInput)
	}

	staff, err := s.staffRepo.GetByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, staffRepo.ErrStaffNotFound) {
			return nil, "", ErrStaffNotFound
		}
		s.logger.Error("StaffDaySlots: failed to load staff id=%d: %v", staffID, err)
		return nil, "", fmt.Errorf("%w: StaffDaySlots - failed to load staff: %v", ErrInternal, err)
	}
	// Чужой сотрудник неотличим от несуществующего
	if staff.VendorID != vendorID {
		return nil, "", ErrStaffNotFound
	}
	if !staff.Active {
		return []domain.TimeSlot{}, domain.ReasonStaffUnavailable, nil
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	duration := time.Duration(durationMinutes) * time.Minute
	stride := time.Duration(domain.SlotStrideMinutes) * time.Minute

	sawShift := false
	seen := make(map[time.Time]bool)
	slots := make([]domain.TimeSlot, 0)

	for _, shift := range staff.Shifts {
		if !shift.Overlaps(dayStart, dayEnd) {
			continue
		}
		sawShift = true
		for start := shift.StartAt; !start.Add(duration).After(shift.EndAt); start = start.Add(stride) {
			if start.Before(dayStart) || !start.Before(dayEnd) {
				continue
			}
			if seen[start] {
				continue
			}
			seen[start] = true
			end := start.Add(duration)
			if staff.HasBookingConflict(start, end, 0) {
				continue
			}
			slots = append(slots, domain.TimeSlot{
				StartAt:   start,
				EndAt:     end,
				Capacity:  1,
				Remaining: 1,
			})
		}
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].StartAt.Before(slots[j].StartAt) })

	if len(slots) == 0 {
		if !sawShift {
			return slots, domain.ReasonNoSlots, nil
		}
		return slots, domain.ReasonStaffUnavailable, nil
	}
	return slots, "", nil
}

func (s *Service) loadDayBookings(ctx context.Context, windows []Window, date time.Time) (map[int64][]*domain.Booking, error) {
	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	byRole := make(map[int64][]*domain.Booking)
	for _, window := range windows {
		if _, loaded := byRole[window.RoleID]; loaded {
			continue
		}
		bookings, err := s.bookingRepo.GetActiveOverlapping(ctx, window.RoleID, dayStart, dayEnd)
		if err != nil {
			s.logger.Error("loadDayBookings: failed to load bookings for role=%d: %v", window.RoleID, err)
			return nil, fmt.Errorf("%w: loadDayBookings - failed to load bookings: %v", ErrInternal, err)
		}
		byRole[window.RoleID] = bookings
	}

	return byRole, nil
}

func countOverlapping(bookings []*domain.Booking, start, end time.Time, excludeBookingID *int64) int {
	count := 0
	for _, b := range bookings {
		if excludeBookingID != nil && b.ID == *excludeBookingID {
			continue
		}
		if b.IsActive() && b.Overlaps(start, end) {
			count++
		}
	}
	return count
}
