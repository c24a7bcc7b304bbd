package update_booking

import (
	"time"

	updateBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model
type UpdateBookingRequest struct {
	CustomerID int64  `json:"customerId"`
	StartAt    string `json:"startAt"` // RFC3339
	StaffID    *int64 `json:"staffId,omitempty"`
}

// BookingResponse HTTP response model
type BookingResponse struct {
	ID              int64  `json:"id"`
	CustomerID      int64  `json:"customerId"`
	VendorID        int64  `json:"vendorId"`
	RoleID          int64  `json:"roleId"`
	BookingItemID   int64  `json:"bookingItemId"`
	StaffID         *int64 `json:"staffId,omitempty"`
	StartAt         string `json:"startAt"`
	DurationMinutes int    `json:"durationMinutes"`
	Status          string `json:"status"`
	UpdatedAt       string `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(bookingID int64) (*updateBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &updateBooking.Request{
		BookingID:  bookingID,
		CustomerID: r.CustomerID,
		NewStartAt: startAt,
		StaffID:    r.StaffID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *updateBooking.Response) *BookingResponse {
	return &BookingResponse{
		ID:              resp.ID,
		CustomerID:      resp.CustomerID,
		VendorID:        resp.VendorID,
		RoleID:          resp.RoleID,
		BookingItemID:   resp.BookingItemID,
		StaffID:         resp.StaffID,
		StartAt:         resp.StartAt.Format(time.RFC3339),
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		UpdatedAt:       resp.UpdatedAt.Format(time.RFC3339),
	}
}
