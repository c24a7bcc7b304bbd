package reassign_booking

import (
	"time"

	reassignBooking "github.com/m04kA/SMC-SchedulingService/internal/usecase/reassign_booking"
)

// ReassignBookingRequest HTTP request model
type ReassignBookingRequest struct {
	NewStaffID int64  `json:"newStaffId"`
	ChangedBy  string `json:"changedBy"`
}

// ReassignBookingResponse HTTP response model
type ReassignBookingResponse struct {
	BookingID  int64  `json:"bookingId"`
	OldStaffID *int64 `json:"oldStaffId,omitempty"`
	NewStaffID int64  `json:"newStaffId"`
	StartAt    string `json:"startAt"`
	Status     string `json:"status"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *reassignBooking.Response) *ReassignBookingResponse {
	return &ReassignBookingResponse{
		BookingID:  resp.BookingID,
		OldStaffID: resp.OldStaffID,
		NewStaffID: resp.NewStaffID,
		StartAt:    resp.StartAt.Format(time.RFC3339),
		Status:     resp.Status,
	}
}
