package find_available_staff

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	catalogClient "github.com/m04kA/SMC-SchedulingService/internal/integrations/catalogservice"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// UseCase use case поиска сотрудников, способных принять бронирование
type UseCase struct {
	roleRepo      RoleRepository
	scheduleSvc   ScheduleService
	staffRepo     StaffRepository
	catalogClient CatalogServiceClient
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	roleRepo RoleRepository,
	scheduleSvc ScheduleService,
	staffRepo StaffRepository,
	catalogClient CatalogServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		roleRepo:      roleRepo,
		scheduleSvc:   scheduleSvc,
		staffRepo:     staffRepo,
		catalogClient: catalogClient,
		logger:        logger,
	}
}

// Execute выполняет use case поиска доступных сотрудников
// Кандидат - сотрудник с опубликованным назначением на роль, обслуживающую
// услугу, с квалификацией и свободным календарем на интервал.
// Список ранжируется по текущей загрузке, чтобы распределять работу равномерно
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("FindAvailableStaff: vendor=%d, item=%d, start=%s",
		req.VendorID, req.BookingItemID, req.StartAt.Format(time.RFC3339))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("FindAvailableStaff: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем услугу из каталога
	item, err := uc.catalogClient.GetBookingItem(ctx, req.BookingItemID)
	if err != nil {
		if errors.Is(err, catalogClient.ErrItemNotFound) {
			uc.logger.Warn("FindAvailableStaff: item id=%d not found", req.BookingItemID)
			return nil, ErrItemNotFound
		}
		uc.logger.Error("FindAvailableStaff: failed to get item id=%d: %v", req.BookingItemID, err)
		return nil, fmt.Errorf("%w: failed to get booking item: %v", ErrInternal, err)
	}
	if item.VendorID != req.VendorID {
		return nil, ErrItemVendorMismatch
	}

	startAt := req.StartAt
	endAt := startAt.Add(time.Duration(item.DurationMinutes) * time.Minute)
	date := time.Date(startAt.Year(), startAt.Month(), startAt.Day(), 0, 0, 0, 0, startAt.Location())

	// 3. Роли вендора, обслуживающие услугу
	roles, err := uc.roleRepo.GetByBookingItem(ctx, req.BookingItemID)
	if err != nil {
		uc.logger.Error("FindAvailableStaff: failed to load roles for item=%d: %v", req.BookingItemID, err)
		return nil, fmt.Errorf("%w: failed to load roles: %v", ErrInternal, err)
	}

	// 4. Собираем кандидатов по всем ролям, без дублей
	seen := make(map[int64]bool)
	candidates := make([]Candidate, 0)

	for _, role := range roles {
		if role.VendorID != req.VendorID {
			continue
		}

		staffIDs, err := uc.scheduleSvc.ResolveStaff(ctx, role.ID, date,
			types.NewTimeString(startAt), types.NewTimeString(endAt))
		if err != nil {
			uc.logger.Error("FindAvailableStaff: failed to resolve staff for role=%d: %v", role.ID, err)
			return nil, fmt.Errorf("%w: failed to resolve staff: %v", ErrInternal, err)
		}

		for _, staffID := range staffIDs {
			if seen[staffID] {
				continue
			}
			seen[staffID] = true

			staff, err := uc.staffRepo.GetByID(ctx, staffID)
			if err != nil {
				uc.logger.Error("FindAvailableStaff: failed to load staff id=%d: %v", staffID, err)
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

			candidates = append(candidates, Candidate{
				StaffID:        staff.ID,
				Name:           staff.Name,
				RoleID:         role.ID,
				ActiveBookings: staff.ActiveBookingCount(),
			})
		}
	}

	// 5. Ранжируем: наименее загруженные первыми, при равенстве по ID
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ActiveBookings != candidates[j].ActiveBookings {
			return candidates[i].ActiveBookings < candidates[j].ActiveBookings
		}
		return candidates[i].StaffID < candidates[j].StaffID
	})

	uc.logger.Info("FindAvailableStaff: found %d candidates for item=%d", len(candidates), req.BookingItemID)
	return &Response{Candidates: candidates}, nil
}

func validateRequest(req *Request) error {
	if req.VendorID <= 0 {
		return fmt.Errorf("%w: vendor_id must be positive", ErrInvalidInput)
	}
	if req.BookingItemID <= 0 {
		return fmt.Errorf("%w: booking_item_id must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start_at is required", ErrInvalidInput)
	}
	if req.StartAt.Minute()%domain.SlotStrideMinutes != 0 || req.StartAt.Second() != 0 {
		return fmt.Errorf("%w: start_at is not aligned to the slot stride", ErrInvalidInput)
	}
	return nil
}
