package validate_booking_request

import (
	"time"

	validateBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/validate_booking_request"
)

// ValidateBookingRequest HTTP request model
type ValidateBookingRequest struct {
	VendorID      int64  `json:"vendorId"`
	BookingItemID int64  `json:"bookingItemId"`
	StartAt       string `json:"startAt"` // RFC3339
	StaffID       *int64 `json:"staffId,omitempty"`
}

// AlternativeResponse альтернативный слот в HTTP ответе
type AlternativeResponse struct {
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	RoleID    int64  `json:"roleId"`
	Remaining int    `json:"remaining"`
}

// ValidationResponse HTTP response model
type ValidationResponse struct {
	IsAvailable       bool                  `json:"isAvailable"`
	AvailableStaffIDs []int64               `json:"availableStaffIds,omitempty"`
	Reason            string                `json:"reason,omitempty"`
	Alternatives      []AlternativeResponse `json:"alternatives,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *ValidateBookingRequest) ToUseCaseRequest() (*validateBooking.Request, error) {
	startAt, err := time.Parse(time.RFC3339, r.StartAt)
	if err != nil {
		return nil, err
	}

	return &validateBooking.Request{
		VendorID:      r.VendorID,
		BookingItemID: r.BookingItemID,
		StartAt:       startAt,
		StaffID:       r.StaffID,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *validateBooking.Response) *ValidationResponse {
	alternatives := make([]AlternativeResponse, 0, len(resp.Alternatives))
	for _, alt := range resp.Alternatives {
		alternatives = append(alternatives, AlternativeResponse{
			StartAt:   alt.StartAt.Format(time.RFC3339),
			EndAt:     alt.EndAt.Format(time.RFC3339),
			RoleID:    alt.RoleID,
			Remaining: alt.Remaining,
		})
	}

	return &ValidationResponse{
		IsAvailable:       resp.IsAvailable,
		AvailableStaffIDs: resp.AvailableStaffIDs,
		Reason:            resp.Reason,
		Alternatives:      alternatives,
	}
}
