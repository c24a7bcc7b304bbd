package validate_booking_request

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет базовую корректность запроса
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
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	return nil
}
