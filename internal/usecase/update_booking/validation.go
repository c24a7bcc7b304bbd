package update_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

func validateRequest(req *Request) error {
	if req.BookingID <= 0 {
		return fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}
	if req.NewStartAt.IsZero() {
		return fmt.Errorf("%w: new_start_at is required", ErrInvalidInput)
	}
	if req.NewStartAt.Minute()%domain.SlotStrideMinutes != 0 || req.NewStartAt.Second() != 0 {
		return fmt.Errorf("%w: start time must be aligned to %d minutes", ErrInvalidTimeSlot, domain.SlotStrideMinutes)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	return nil
}

func validateNotInPast(startAt, now time.Time) error {
	if startAt.Before(now) {
		return ErrInvalidDate
	}
	return nil
}
