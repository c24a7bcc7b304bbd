package get_staff_slots

import (
	"fmt"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

// validateRequest проверяет базовую корректность запроса и подставляет
// длительность по умолчанию
func validateRequest(req *Request) error {
	if req.VendorID <= 0 {
		return fmt.Errorf("%w: vendor_id must be positive", ErrInvalidInput)
	}
	if req.StaffID <= 0 {
		return fmt.Errorf("%w: staff_id must be positive", ErrInvalidInput)
	}
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if req.DurationMinutes < 0 {
		return fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidInput)
	}
	if req.DurationMinutes == 0 {
		req.DurationMinutes = domain.SlotStrideMinutes
	}
	return nil
}
