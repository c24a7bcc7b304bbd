package staff

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// StaffRequest HTTP request model сотрудника
type StaffRequest struct {
	Name             string  `json:"name"`
	QualifiedItemIDs []int64 `json:"qualifiedItemIds"`
	Active           *bool   `json:"active,omitempty"`
}

// StaffShiftRequest HTTP request model рабочей смены сотрудника
type StaffShiftRequest struct {
	StartAt string `json:"startAt"` // RFC3339
	EndAt   string `json:"endAt"`   // RFC3339
}

// ReplaceShiftsRequest HTTP request model пакетной замены смен
type ReplaceShiftsRequest struct {
	Shifts []StaffShiftRequest `json:"shifts"`
}

// StaffShiftResponse HTTP модель рабочей смены
type StaffShiftResponse struct {
	ID      int64  `json:"id"`
	StaffID int64  `json:"staffId"`
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
}

// StaffResponse HTTP модель сотрудника
type StaffResponse struct {
	ID               int64                `json:"id"`
	VendorID         int64                `json:"vendorId"`
	Name             string               `json:"name"`
	QualifiedItemIDs []int64              `json:"qualifiedItemIds"`
	Active           bool                 `json:"active"`
	Shifts           []StaffShiftResponse `json:"shifts,omitempty"`
	CreatedAt        string               `json:"createdAt"`
	UpdatedAt        string               `json:"updatedAt"`
}

// StaffListResponse HTTP модель списка сотрудников
type StaffListResponse struct {
	Staff []StaffResponse `json:"staff"`
}

// ShiftsListResponse HTTP модель списка смен
type ShiftsListResponse struct {
	Shifts []StaffShiftResponse `json:"shifts"`
}

// WorkloadResponse HTTP модель дневной сводки загрузки
type WorkloadResponse struct {
	StaffID         int64   `json:"staffId"`
	Date            string  `json:"date"`
	ActiveBookings  int     `json:"activeBookings"`
	BookedMinutes   int     `json:"bookedMinutes"`
	ShiftMinutes    int     `json:"shiftMinutes"`
	Utilization     float64 `json:"utilization"`
	HourlyOccupancy [24]int `json:"hourlyOccupancy"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *StaffRequest) ToDomain(vendorID, staffID int64) *domain.StaffMember {
	active := true
	if r.Active != nil {
		active = *r.Active
	}

	return &domain.StaffMember{
		ID:               staffID,
		VendorID:         vendorID,
		Name:             r.Name,
		QualifiedItemIDs: r.QualifiedItemIDs,
		Active:           active,
	}
}

// ToDomain конвертирует HTTP запрос смены в доменную модель
func (r *StaffShiftRequest) ToDomain(staffID, shiftID int64) (*domain.StaffShift, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}
	endAt, err := time.Parse(time.RFC3339, r.EndAt)
	if err != nil {
		return nil, err
	}

	return &domain.StaffShift{
		ID:      shiftID,
		StaffID: staffID,
		StartAt: startAt,
		EndAt:   endAt,
	}, nil
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(staff *domain.StaffMember) StaffResponse {
	shifts := make([]StaffShiftResponse, 0, len(staff.Shifts))
	for i := range staff.Shifts {
		shifts = append(shifts, FromDomainShift(&staff.Shifts[i]))
	}

	return StaffResponse{
		ID:               staff.ID,
		VendorID:         staff.VendorID,
		Name:             staff.Name,
		QualifiedItemIDs: staff.QualifiedItemIDs,
		Active:           staff.Active,
		Shifts:           shifts,
		CreatedAt:        staff.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        staff.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainShift конвертирует смену в HTTP response
func FromDomainShift(shift *domain.StaffShift) StaffShiftResponse {
	return StaffShiftResponse{
		ID:      shift.ID,
		StaffID: shift.StaffID,
		StartAt: shift.StartAt.Format(time.RFC3339),
		EndAt:   shift.EndAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(staff []*domain.StaffMember) *StaffListResponse {
	result := make([]StaffResponse, 0, len(staff))
	for _, member := range staff {
		result = append(result, FromDomain(member))
	}
	return &StaffListResponse{Staff: result}
}

// FromDomainWorkload конвертирует сводку загрузки в HTTP response
func FromDomainWorkload(summary *domain.WorkloadSummary) *WorkloadResponse {
	return &WorkloadResponse{
		StaffID:         summary.StaffID,
		Date:            summary.Date.Format(domain.DateFormat),
		ActiveBookings:  summary.ActiveBookings,
		BookedMinutes:   summary.BookedMinutes,
		ShiftMinutes:    summary.ShiftMinutes,
		Utilization:     summary.Utilization,
		HourlyOccupancy: summary.HourlyOccupancy,
	}
}
