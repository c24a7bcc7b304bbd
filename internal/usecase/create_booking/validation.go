package create_booking

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет базовую корректность запроса
func validateRequest(req *Request) error {
	if req.CustomerID <= 0 {
		return fmt.Errorf("%w: customer_id must be positive", ErrInvalidInput)
	}
	if req.VendorID <= 0 {
		return fmt.Errorf("%w: vendor_id must be positive", ErrInvalidInput)
	}
	if req.BookingItemID <= 0 {
		return fmt.Errorf("%w: booking_item_id must be positive", ErrInvalidInput)
	}
	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	if req.StartAt.IsZero() {
		return fmt.Errorf("%w: start_at is required", ErrInvalidInput)
	}

	// Начало слота выравнивается по сетке c шагом 30 минут
	if req.StartAt.Minute()%domain.SlotStrideMinutes != 0 || req.StartAt.Second() != 0 {
		return ErrInvalidTimeSlot
	}

	return nil
}

// validateNotInPast проверяет, что бронирование начинается в будущем
func validateNotInPast(startAt, now time.Time) error {
	if startAt.Before(now) {
		return ErrInvalidDate
	}
	return nil
}
