package exceptions

import (
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/types"
)

// ExceptionRequest HTTP request model исключения расписания
type ExceptionRequest struct {
	Date           string  `json:"date"` // "YYYY-MM-DD"
	Type           string  `json:"type"`
	RoleIDs        []int64 `json:"roleIds,omitempty"`
	BookingItemIDs []int64 `json:"bookingItemIds,omitempty"`
	StartTime      *string `json:"startTime,omitempty"` // "HH:MM", для modified_hours
	EndTime        *string `json:"endTime,omitempty"`
	Capacity       *int    `json:"capacity,omitempty"`
}

// ExceptionResponse HTTP модель исключения расписания
type ExceptionResponse struct {
	ID             int64   `json:"id"`
	VendorID       int64   `json:"vendorId"`
	Date           string  `json:"date"`
	Type           string  `json:"type"`
	RoleIDs        []int64 `json:"roleIds,omitempty"`
	BookingItemIDs []int64 `json:"bookingItemIds,omitempty"`
	StartTime      *string `json:"startTime,omitempty"`
	EndTime        *string `json:"endTime,omitempty"`
	Capacity       *int    `json:"capacity,omitempty"`
	CreatedAt      string  `json:"createdAt"`
	UpdatedAt      string  `json:"updatedAt"`
}

// ExceptionsListResponse HTTP модель списка исключений
type ExceptionsListResponse struct {
	Exceptions []ExceptionResponse `json:"exceptions"`
}

// ToDomain конвертирует HTTP запрос в доменную модель
func (r *ExceptionRequest) ToDomain(vendorID, excID int64) (*domain.ScheduleException, error) {
	date, err := time.Parse(domain.DateFormat, r.Date)
	if err != nil {
		return nil, err
	}

	exc := &domain.ScheduleException{
		ID:             excID,
		VendorID:       vendorID,
		Date:           date,
		Type:           domain.ExceptionType(r.Type),
		RoleIDs:        r.RoleIDs,
		BookingItemIDs: r.BookingItemIDs,
		Capacity:       r.Capacity,
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, err
		}
		exc.StartTime = &startTime
	}
	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, err
		}
		exc.EndTime = &endTime
	}

	return exc, nil
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(exc *domain.ScheduleException) ExceptionResponse {
	resp := ExceptionResponse{
		ID:             exc.ID,
		VendorID:       exc.VendorID,
		Date:           exc.Date.Format(domain.DateFormat),
		Type:           string(exc.Type),
		RoleIDs:        exc.RoleIDs,
		BookingItemIDs: exc.BookingItemIDs,
		Capacity:       exc.Capacity,
		CreatedAt:      exc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      exc.UpdatedAt.Format(time.RFC3339),
	}

	if exc.StartTime != nil {
		startTime := exc.StartTime.String()
		resp.StartTime = &startTime
	}
	if exc.EndTime != nil {
		endTime := exc.EndTime.String()
		resp.EndTime = &endTime
	}

	return resp
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(exceptions []*domain.ScheduleException) *ExceptionsListResponse {
	result := make([]ExceptionResponse, 0, len(exceptions))
	for _, exc := range exceptions {
		result = append(result, FromDomain(exc))
	}
	return &ExceptionsListResponse{Exceptions: result}
}
