package get_staff_slots

import (
	"strconv"
	"time"

	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	getStaffSlots "github.com/m04kA/SMC-SchedulingService/internal/usecase/get_staff_slots"
)

// SlotResponse один слот в HTTP ответе
type SlotResponse struct {
	StartAt string `json:"startAt"`
	EndAt   string `json:"endAt"`
}

// StaffSlotsResponse HTTP response model
type StaffSlotsResponse struct {
	VendorID        int64          `json:"vendorId"`
	StaffID         int64          `json:"staffId"`
	Date            string         `json:"date"`
	DurationMinutes int            `json:"durationMinutes"`
	Slots           []SlotResponse `json:"slots"`
	Reason          string         `json:"reason,omitempty"`
}

// ToUseCaseRequest собирает модель use case из параметров запроса
func ToUseCaseRequest(vendorID, staffID int64, dateStr, durationStr string) (*getStaffSlots.Request, error) {
	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		return nil, err
	}

	req := &getStaffSlots.Request{
		VendorID: vendorID,
		StaffID:  staffID,
		Date:     date,
	}

	if durationStr != "" {
		duration, err := strconv.Atoi(durationStr)
		if err != nil {
			return nil, err
		}
		req.DurationMinutes = duration
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getStaffSlots.Response) *StaffSlotsResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, slot := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt: slot.StartAt.Format(time.RFC3339),
			EndAt:   slot.EndAt.Format(time.RFC3339),
		})
	}

	return &StaffSlotsResponse{
		VendorID:        resp.VendorID,
		StaffID:         resp.StaffID,
		Date:            resp.Date,
		DurationMinutes: resp.DurationMinutes,
		Slots:           slots,
		Reason:          resp.Reason,
	}
}
