package role_shifts

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ShiftRequest HTTP request model шаблона смены
type ShiftRequest struct {
	DayOfWeek      int     `json:"dayOfWeek"` // 0 = воскресенье ... 6 = суббота
	StartTime      string  `json:"startTime"` // "HH:MM"
	EndTime        string  `json:"endTime"`   // "HH:MM"
	Capacity       *int    `json:"capacity,omitempty"`
	BookingItemIDs []int64 `json:"bookingItemIds,omitempty"`
	Active         *bool   `json:"active,omitempty"`
}

// BulkShiftsRequest HTTP request model пакетного создания смен
type BulkShiftsRequest struct {
	Shifts []ShiftRequest `json:"shifts"`
}

// ShiftResponse HTTP модель шаблона смены
type ShiftResponse struct {
	ID             int64   `json:"id"`
	RoleID         int64   `json:"roleId"`
	VendorID       int64   `json:"vendorId"`
	DayOfWeek      int     `json:"dayOfWeek"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	Capacity       *int    `json:"capacity,omitempty"`
	BookingItemIDs []int64 `json:"bookingItemIds,omitempty"`
	Active         bool    `json:"active"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ShiftsListResponse HTTP модель списка смен
type ShiftsListResponse struct {
	Shifts []ShiftResponse `json:"shifts"`
}

// ConflictsResponse HTTP модель результата проверки пересечений
type ConflictsResponse struct {
	HasConflicts bool            `json:"hasConflicts"`
	Conflicts    []ShiftResponse `json:"conflicts"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *ShiftRequest) ToDomain(vendorID, roleID, shiftID int64) (*domain.RoleShift, error) {
	startTime, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return nil, err
	}
	endTime, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return nil, err
	}

	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &domain.RoleShift{
		ID:             shiftID,
		RoleID:         roleID,
		VendorID:       vendorID,
		DayOfWeek:      r.DayOfWeek,
		StartTime:      startTime,
		EndTime:        endTime,
		Capacity:       r.Capacity,
		BookingItemIDs: r.BookingItemIDs,
		Active:         active,
	}, nil
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(shift *domain.RoleShift) ShiftResponse {
	return ShiftResponse{
		ID:             shift.ID,
		RoleID:         shift.RoleID,
		VendorID:       shift.VendorID,
		DayOfWeek:      shift.DayOfWeek,
		StartTime:      shift.StartTime.String(),
		EndTime:        shift.EndTime.String(),
		Capacity:       shift.Capacity,
		BookingItemIDs: shift.BookingItemIDs,
		Active:         shift.Active,
		CreatedAt:      shift.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      shift.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(shifts []*domain.RoleShift) []ShiftResponse {
	result := make([]ShiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		result = append(result, FromDomain(shift))
	}
	return result
}
