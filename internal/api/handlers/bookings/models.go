package bookings

import (
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// BookingResponse HTTP модель бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	VendorID        int64   `json:"vendorId"`
	RoleID          int64   `json:"roleId"`
	BookingItemID   int64   `json:"bookingItemId"`
	CustomerID      int64   `json:"customerId"`
	StaffID         *int64  `json:"staffId,omitempty"`
	StartAt         string  `json:"startAt"`
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	StatusReason    *string `json:"statusReason,omitempty"`
	CreatedAt       string  `json:"createdAt"`
	UpdatedAt       string  `json:"updatedAt"`
}

// BookingsListResponse HTTP модель списка бронирований
type BookingsListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// CancelBookingRequest HTTP request model отмены
type CancelBookingRequest struct {
	Reason      string `json:"reason"`
	CancelledBy string `json:"cancelledBy"`
}

// UpdateStatusRequest HTTP request model смены статуса
type UpdateStatusRequest struct {
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
	ChangedBy string `json:"changedBy"`
}

// FromDomain конвертирует доменную модель в HTTP response
func FromDomain(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		VendorID:        b.VendorID,
		RoleID:          b.RoleID,
		BookingItemID:   b.BookingItemID,
		CustomerID:      b.CustomerID,
		StaffID:         b.StaffID,
		StartAt:         b.StartAt.Format(time.RFC3339),
		DurationMinutes: b.DurationMinutes,
		Status:          string(b.Status),
		StatusReason:    b.StatusReason,
		CreatedAt:       b.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       b.UpdatedAt.Format(time.RFC3339),
	}
}

// FromDomainList конвертирует список доменных моделей в HTTP response
func FromDomainList(bookings []*domain.Booking) *BookingsListResponse {
	result := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomain(b))
	}
	return &BookingsListResponse{Bookings: result}
}

// ToVendorFilter собирает фильтр списка бронирований вендора
// из query параметров
func ToVendorFilter(vendorID int64, roleIDStr, staffIDStr, fromStr, toStr, statusStr, includeInactiveStr string) (domain.VendorBookingsFilter, error) {
	filter := domain.VendorBookingsFilter{VendorID: vendorID}

	if roleIDStr != "" {
		roleID, err := strconv.ParseInt(roleIDStr, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.RoleID = ptr.Ptr(roleID)
	}
	if staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			return filter, err
		}
		filter.StaffID = ptr.Ptr(staffID)
	}
	if fromStr != "" {
		from, err := time.Parse(domain.DateFormat, fromStr)
		if err != nil {
			return filter, err
		}
		filter.StartDate = ptr.Ptr(from)
	}
	if toStr != "" {
		to, err := time.Parse(domain.DateFormat, toStr)
		if err != nil {
			return filter, err
		}
		filter.EndDate = ptr.Ptr(to)
	}
	if statusStr != "" {
		status := domain.BookingStatus(statusStr)
		switch status {
		case domain.StatusPending, domain.StatusConfirmed, domain.StatusCompleted, domain.StatusCancelled:
			filter.Status = ptr.Ptr(status)
		default:
			return filter, fmt.Errorf("unknown booking status %q", statusStr)
		}
	}
	if includeInactiveStr != "" {
		includeInactive, err := strconv.ParseBool(includeInactiveStr)
		if err != nil {
			return filter, err
		}
		filter.IncludeInactive = includeInactive
	}

	return filter, nil
}
