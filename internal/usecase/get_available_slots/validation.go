package get_available_slots

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
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	// Нераспознанное предпочтение приравнивается к отсутствию фильтра
	if req.Preference != nil {
		switch *req.Preference {
		case domain.PreferenceMorning, domain.PreferenceAfternoon, domain.PreferenceEvening:
		default:
			req.Preference = nil
		}
	}
	return nil
}
