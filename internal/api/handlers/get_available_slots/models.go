package get_available_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getAvailableSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-SchedulingService/pkg/ptr"
)

// SlotResponse один слот в HTTP ответе
type SlotResponse struct {
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
	RoleID    int64  `json:"roleId"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
}

// SlotsResponse HTTP response model
type SlotsResponse struct {
	VendorID        int64          `json:"vendorId"`
	BookingItemID   int64          `json:"bookingItemId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
	Reason          string         `json:"reason,omitempty"`
}

// ToUseCaseRequest собирает модель use case из параметров запроса
func ToUseCaseRequest(vendorID, itemID int64, dateStr, preferenceStr, excludeBookingIDStr string) (*getAvailableSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getAvailableSlots.Request{
		VendorID:      vendorID,
		BookingItemID: itemID,
		Date:          date,
	}

	// Нераспознанное предпочтение не ошибка: фильтр просто не применяется
	if preferenceStr != "" {
		preference := domain.TimePreference(preferenceStr)
		switch preference {
		case domain.PreferenceMorning, domain.PreferenceAfternoon, domain.PreferenceEvening:
			req.Preference = ptr.Ptr(preference)
		}
	}

	if excludeBookingIDStr != "" {
		excludeBookingID, err := strconv.ParseInt(excludeBookingIDStr, 10, 64)
		if err != nil {
			return nil, err
		}
		req.ExcludeBookingID = ptr.Ptr(excludeBookingID)
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt:   slot.StartAt.Format(time.RFC3339),
			EndAt:     slot.EndAt.Format(time.RFC3339),
			RoleID:    slot.RoleID,
			Capacity:  slot.Capacity,
			Remaining: slot.Remaining,
		})
	}

	return &SlotsResponse{
		VendorID:        resp.VendorID,
		BookingItemID:   resp.BookingItemID,
		Date:            resp.Date,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
		Reason:          resp.Reason,
	}
}
